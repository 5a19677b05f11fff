package wirebox_test

import (
	"errors"
	"testing"

	"github.com/centraunit/wirebox"
	"github.com/centraunit/wirebox/mock"
	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func (s *ErrorTestSuite) TestNotBoundMessage() {
	container := wirebox.New()
	_, err := container.Resolve(wirebox.TypeOf[mock.Store]())
	s.ErrorContains(err, "no binding registered for type")
	s.ErrorContains(err, "mock.Store")
}

func (s *ErrorTestSuite) TestCyclicAliasMessage() {
	container := wirebox.New()
	wirebox.BindAs[mock.BackingStore, mock.PrimaryStore](container)
	wirebox.BindAs[mock.PrimaryStore, mock.BackingStore](container)

	_, err := container.Resolve(wirebox.TypeOf[mock.BackingStore]())
	s.ErrorContains(err, "cyclic alias detected")
}

func (s *ErrorTestSuite) TestOutOfOrderFields() {
	container := wirebox.New(wirebox.WithMetadataProvider(mock.Metadata()))
	builder, err := wirebox.NewInstanceBuilder(wirebox.TypeOf[mock.Publisher](), container)
	s.Require().NoError(err)

	_, err = builder.InjectProperties()
	var outOfOrder *wirebox.OutOfOrderBuildError
	s.Require().True(errors.As(err, &outOfOrder))
	s.Equal("InjectProperties", outOfOrder.Stage)
	s.Equal("empty", outOfOrder.State)
}

func (s *ErrorTestSuite) TestConstructionErrorUnwraps() {
	container := wirebox.New(wirebox.WithMetadataProvider(mock.Metadata()))
	container.Bind(wirebox.TypeOf[mock.Conn](), nil, "")

	_, err := container.Resolve(wirebox.TypeOf[mock.Conn]())
	var construction *wirebox.ConstructionError
	s.Require().True(errors.As(err, &construction))
	s.Error(errors.Unwrap(construction))
}

func (s *ErrorTestSuite) TestInjectionErrorUnwraps() {
	container := wirebox.New(wirebox.WithMetadataProvider(mock.Metadata()))
	wirebox.InstanceOf[mock.Clock](container, &mock.FixedClock{})

	boom := errors.New("boom")
	builder, err := wirebox.NewInstanceBuilder(wirebox.TypeOf[mock.Flaky](), container)
	s.Require().NoError(err)
	_, err = builder.SetProduct(&mock.Flaky{Err: boom})
	s.Require().NoError(err)

	_, err = builder.InjectMethods()
	s.True(errors.Is(err, boom))
}

func (s *ErrorTestSuite) TestRegistrationErrors() {
	registry := wirebox.NewMetadataRegistry()

	err := registry.RegisterConstructor(wirebox.TypeOf[mock.Widget](), "not a func")
	var unavailable *wirebox.MetadataUnavailableError
	s.True(errors.As(err, &unavailable))

	err = registry.RegisterProperty(wirebox.TypeOf[mock.Widget](), "NoSuchField")
	s.True(errors.As(err, &unavailable))

	err = registry.RegisterMethod(wirebox.TypeOf[mock.Widget](), "NoSuchMethod")
	s.True(errors.As(err, &unavailable))

	err = registry.RegisterConstructorN(wirebox.TypeOf[mock.Conn](), mock.NewConn, 5)
	s.True(errors.As(err, &unavailable))
}

func (s *ErrorTestSuite) TestPropertyOverrideRegistration() {
	registry := wirebox.NewMetadataRegistry()
	err := registry.RegisterProperty(wirebox.TypeOf[mock.Publisher](), "Store", wirebox.TypeOf[mock.BackingStore]())
	s.NoError(err)

	container := wirebox.New(wirebox.WithMetadataProvider(registry))
	store := mock.NewMemoryStore()
	wirebox.InstanceOf[mock.BackingStore](container, store)
	// The tagged fields are discovered too, so Store/Clock need bindings.
	wirebox.InstanceOf[mock.Store](container, mock.NewMemoryStore())
	wirebox.InstanceOf[mock.Clock](container, &mock.FixedClock{})

	publisher := &mock.Publisher{}
	builder, err := wirebox.NewInstanceBuilder(wirebox.TypeOf[mock.Publisher](), container)
	s.Require().NoError(err)
	_, err = builder.SetProduct(publisher)
	s.Require().NoError(err)
	_, err = builder.InjectProperties()
	s.Require().NoError(err)

	// The tag-derived spec runs after the table entry and wins the slot.
	s.NotNil(publisher.Store)
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}
