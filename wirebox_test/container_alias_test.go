package wirebox_test

import (
	"errors"
	"testing"
	"time"

	"github.com/centraunit/wirebox"
	"github.com/centraunit/wirebox/mock"
	"github.com/stretchr/testify/suite"
)

type AliasTestSuite struct {
	suite.Suite
	container *wirebox.Container
}

func (s *AliasTestSuite) SetupTest() {
	s.container = wirebox.New(wirebox.WithMetadataProvider(mock.Metadata()))
}

func (s *AliasTestSuite) TestTransitiveChain() {
	store := mock.NewMemoryStore()
	wirebox.InstanceOf[mock.Store](s.container, store)
	wirebox.BindAs[mock.BackingStore, mock.Store](s.container)
	wirebox.BindAs[mock.PrimaryStore, mock.BackingStore](s.container)

	resolved, err := wirebox.ResolveAs[mock.PrimaryStore](s.container)
	s.NoError(err)
	s.Same(store, resolved)
}

func (s *AliasTestSuite) TestCyclicAlias() {
	wirebox.BindAs[mock.BackingStore, mock.PrimaryStore](s.container)
	wirebox.BindAs[mock.PrimaryStore, mock.BackingStore](s.container)

	_, err := s.container.Resolve(wirebox.TypeOf[mock.PrimaryStore]())
	var cyclic *wirebox.CyclicAliasError
	s.True(errors.As(err, &cyclic), "expected CyclicAliasError, got %v", err)
}

func (s *AliasTestSuite) TestChainStateResetsAfterFailure() {
	wirebox.BindAs[mock.BackingStore, mock.PrimaryStore](s.container)
	wirebox.BindAs[mock.PrimaryStore, mock.BackingStore](s.container)

	_, err := s.container.Resolve(wirebox.TypeOf[mock.PrimaryStore]())
	s.Error(err)

	// Fixing the registry makes the same resolution succeed; nothing from the
	// failed attempt leaks into the next one.
	store := mock.NewMemoryStore()
	s.container.Unbind(wirebox.TypeOf[mock.BackingStore]())
	wirebox.InstanceOf[mock.BackingStore](s.container, store)

	resolved, err := wirebox.ResolveAs[mock.PrimaryStore](s.container)
	s.NoError(err)
	s.Same(store, resolved)
}

func (s *AliasTestSuite) TestAliasToUnboundConcreteBuilds() {
	// FixedClock is not itself bound, so no chase happens: the binding builds
	// a fresh concrete instance instead.
	wirebox.BindAs[mock.Clock, mock.FixedClock](s.container)

	resolved, err := wirebox.ResolveAs[mock.Clock](s.container)
	s.NoError(err)
	s.IsType(&mock.FixedClock{}, resolved)
}

func (s *AliasTestSuite) TestAliasTargetBoundLater() {
	wirebox.BindAs[mock.Clock, mock.FixedClock](s.container)

	first, err := wirebox.ResolveAs[mock.Clock](s.container)
	s.NoError(err)
	s.IsType(&mock.FixedClock{}, first)

	// Alias chasing is evaluated per resolve: once the concrete identity is
	// bound, the same binding delegates instead of building.
	pinned := &mock.FixedClock{Instant: time.Unix(99, 0)}
	wirebox.InstanceOf[mock.FixedClock](s.container, *pinned)

	second, err := s.container.Resolve(wirebox.TypeOf[mock.Clock]())
	s.NoError(err)
	s.Equal(*pinned, second)
}

func (s *AliasTestSuite) TestSelfBindingBuildsDirectly() {
	s.container.Bind(wirebox.TypeOf[mock.Widget](), wirebox.TypeOf[mock.Widget]())

	resolved, err := s.container.Resolve(wirebox.TypeOf[mock.Widget]())
	s.NoError(err)
	s.IsType(&mock.Widget{}, resolved)
}

func TestAliasSuite(t *testing.T) {
	suite.Run(t, new(AliasTestSuite))
}
