package wirebox

import (
	"fmt"
	"reflect"
)

// injectTag marks struct fields for property injection. The field's declared
// type is the injection target; interface-narrowing overrides go through
// RegisterProperty instead.
const injectTag = "inject"

// MetadataProvider supplies injection metadata for concrete types. The
// container consumes this interface but never constructs metadata itself;
// implementations may use registration tables, struct tags, or generated
// code.
type MetadataProvider interface {
	// Plan returns the injection plan for a concrete type. A type that is
	// not marked for injection at all yields a plan with Injectable false,
	// which the builder treats as a plain pass-through construction.
	Plan(t TypeIdentity) (*InjectionPlan, error)
}

// ParamSpec names the type to resolve for one constructor or method
// parameter.
type ParamSpec struct {
	Type TypeIdentity
}

// PropertySpec names a struct field to inject. A nil Type means the field's
// declared type.
type PropertySpec struct {
	Name string
	Type TypeIdentity
}

// MethodSpec names a method to invoke after property injection, with its
// container-resolved parameters in declaration order.
type MethodSpec struct {
	Name   string
	Params []ParamSpec
}

// ConstructorSpec describes how to build the raw instance: a constructor
// function and the leading parameters the container resolves. Remaining
// parameters (or the variadic tail) are filled from the binding's extra
// constructor arguments.
type ConstructorSpec struct {
	Fn     reflect.Value
	Params []ParamSpec
}

// InjectionPlan is the full injection metadata for one concrete type,
// computed on demand per resolution.
type InjectionPlan struct {
	Injectable  bool
	Constructor *ConstructorSpec
	Properties  []PropertySpec
	Methods     []MethodSpec
}

type methodReg struct {
	name     string
	injected int
}

type metadataEntry struct {
	ctor         reflect.Value
	ctorInjected int
	props        []PropertySpec
	methods      []methodReg
}

// MetadataRegistry is the default MetadataProvider: an explicit registration
// table for constructors, properties, and methods, plus struct-tag discovery
// for properties (fields tagged `inject:""`).
//
// Registration happens during setup; the registry is not locked and must not
// be mutated while resolutions are in flight.
type MetadataRegistry struct {
	entries map[TypeIdentity]*metadataEntry
}

// NewMetadataRegistry creates an empty registry.
func NewMetadataRegistry() *MetadataRegistry {
	return &MetadataRegistry{entries: make(map[TypeIdentity]*metadataEntry)}
}

func (r *MetadataRegistry) entry(t TypeIdentity) *metadataEntry {
	key := baseType(t)
	e, ok := r.entries[key]
	if !ok {
		e = &metadataEntry{ctorInjected: -1}
		r.entries[key] = e
	}
	return e
}

// RegisterConstructor registers fn as the constructor for t. Every fixed
// parameter of fn is resolved from the container; a variadic tail receives
// the binding's extra constructor arguments.
func (r *MetadataRegistry) RegisterConstructor(t TypeIdentity, fn any) error {
	return r.RegisterConstructorN(t, fn, -1)
}

// RegisterConstructorN registers fn as the constructor for t with only the
// first injected parameters resolved from the container. The remaining
// parameters are filled positionally from the binding's extra constructor
// arguments, after the injected ones.
func (r *MetadataRegistry) RegisterConstructorN(t TypeIdentity, fn any, injected int) error {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return &MetadataUnavailableError{Type: typeName(t), Reason: "constructor is not a function"}
	}
	ft := v.Type()
	fixed := ft.NumIn()
	if ft.IsVariadic() {
		fixed--
	}
	if injected < 0 {
		injected = fixed
	}
	if injected > fixed {
		return &MetadataUnavailableError{
			Type:   typeName(t),
			Reason: fmt.Sprintf("constructor has %d fixed parameters, %d marked injected", fixed, injected),
		}
	}
	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != reflect.TypeOf((*error)(nil)).Elem() {
			return &MetadataUnavailableError{Type: typeName(t), Reason: "constructor second result must be error"}
		}
	default:
		return &MetadataUnavailableError{Type: typeName(t), Reason: "constructor must return the instance, optionally with an error"}
	}

	e := r.entry(t)
	e.ctor = v
	e.ctorInjected = injected
	return nil
}

// RegisterProperty marks a field of t for injection. An optional override
// identity narrows the injected type; otherwise the declared field type is
// resolved.
func (r *MetadataRegistry) RegisterProperty(t TypeIdentity, name string, override ...TypeIdentity) error {
	st := baseType(t)
	if st.Kind() != reflect.Struct {
		return &MetadataUnavailableError{Type: typeName(t), Reason: "property injection requires a struct type"}
	}
	field, ok := st.FieldByName(name)
	if !ok {
		return &MetadataUnavailableError{Type: typeName(t), Reason: fmt.Sprintf("no field named %s", name)}
	}
	spec := PropertySpec{Name: name, Type: field.Type}
	if len(override) > 0 && override[0] != nil {
		spec.Type = override[0]
	}
	e := r.entry(t)
	e.props = append(e.props, spec)
	return nil
}

// RegisterMethod marks a method of t for injection. Every fixed parameter is
// resolved from the container; types come from the method signature.
func (r *MetadataRegistry) RegisterMethod(t TypeIdentity, name string) error {
	return r.RegisterMethodN(t, name, -1)
}

// RegisterMethodN marks a method of t for injection with only the first
// injected parameters resolved from the container. The rest are filled from
// the caller's extra positional arguments when the method is invoked through
// an external builder call.
func (r *MetadataRegistry) RegisterMethodN(t TypeIdentity, name string, injected int) error {
	ptr := reflect.PointerTo(baseType(t))
	m, ok := ptr.MethodByName(name)
	if !ok {
		return &MetadataUnavailableError{Type: typeName(t), Reason: fmt.Sprintf("no method named %s", name)}
	}
	// In(0) is the receiver.
	fixed := m.Func.Type().NumIn() - 1
	if m.Func.Type().IsVariadic() {
		fixed--
	}
	if injected > fixed {
		return &MetadataUnavailableError{
			Type:   typeName(t),
			Reason: fmt.Sprintf("method %s has %d fixed parameters, %d marked injected", name, fixed, injected),
		}
	}
	e := r.entry(t)
	e.methods = append(e.methods, methodReg{name: name, injected: injected})
	return nil
}

// Plan implements MetadataProvider.
func (r *MetadataRegistry) Plan(t TypeIdentity) (*InjectionPlan, error) {
	st := baseType(t)
	plan := &InjectionPlan{}

	e := r.entries[st]
	if e != nil && e.ctor.IsValid() {
		ft := e.ctor.Type()
		params := make([]ParamSpec, 0, e.ctorInjected)
		for i := 0; i < e.ctorInjected; i++ {
			params = append(params, ParamSpec{Type: ft.In(i)})
		}
		plan.Constructor = &ConstructorSpec{Fn: e.ctor, Params: params}
	}

	if e != nil {
		plan.Properties = append(plan.Properties, e.props...)
	}
	if st.Kind() == reflect.Struct {
		plan.Properties = append(plan.Properties, taggedProperties(st)...)
	}

	if e != nil {
		ptr := reflect.PointerTo(st)
		for _, reg := range e.methods {
			m, ok := ptr.MethodByName(reg.name)
			if !ok {
				return nil, &MetadataUnavailableError{Type: typeName(t), Reason: fmt.Sprintf("no method named %s", reg.name)}
			}
			mt := m.Func.Type()
			// In(0) is the receiver.
			fixed := mt.NumIn() - 1
			if mt.IsVariadic() {
				fixed--
			}
			injected := reg.injected
			if injected < 0 {
				injected = fixed
			}
			params := make([]ParamSpec, 0, injected)
			for i := 0; i < injected; i++ {
				params = append(params, ParamSpec{Type: mt.In(i + 1)})
			}
			plan.Methods = append(plan.Methods, MethodSpec{Name: reg.name, Params: params})
		}
	}

	plan.Injectable = plan.Constructor != nil || len(plan.Properties) > 0 || len(plan.Methods) > 0
	return plan, nil
}

// taggedProperties discovers fields carrying the inject tag.
func taggedProperties(st TypeIdentity) []PropertySpec {
	var specs []PropertySpec
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		if _, ok := field.Tag.Lookup(injectTag); !ok {
			continue
		}
		specs = append(specs, PropertySpec{Name: field.Name, Type: field.Type})
	}
	return specs
}
