package wirebox

import (
	"fmt"
	"reflect"
)

// buildState tracks the builder's position in the injection pipeline.
type buildState int

const (
	stateEmpty buildState = iota
	stateConstructed
	statePropertiesInjected
	stateMethodsInjected
)

func (s buildState) String() string {
	switch s {
	case stateEmpty:
		return "empty"
	case stateConstructed:
		return "constructed"
	case statePropertiesInjected:
		return "properties-injected"
	case stateMethodsInjected:
		return "methods-injected"
	default:
		return "unknown"
	}
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// InstanceBuilder assembles one instance through the ordered pipeline:
// CreateInstance (or SetProduct) → InjectProperties → InjectMethods →
// Product. A builder is single-use; stages invoked out of order fail with
// OutOfOrderBuildError.
type InstanceBuilder struct {
	concrete  TypeIdentity
	container *Container
	plan      *InjectionPlan
	product   any
	state     buildState
}

// NewInstanceBuilder produces the builder for a concrete type, consulting
// the container's metadata provider. Types with no injection metadata get a
// pass-through builder that constructs without injecting anything.
func NewInstanceBuilder(concrete TypeIdentity, c *Container) (*InstanceBuilder, error) {
	plan, err := c.provider.Plan(concrete)
	if err != nil {
		return nil, err
	}
	return &InstanceBuilder{
		concrete:  concrete,
		container: c,
		plan:      plan,
	}, nil
}

// CreateInstance constructs the raw product. Constructor parameters marked
// injected are resolved from the container in declaration order, then the
// extra arguments follow in caller order. Without a registered constructor
// the zero value of the concrete struct is allocated instead, in which case
// extra arguments have nowhere to go and are rejected.
func (b *InstanceBuilder) CreateInstance(extraArgs ...any) (*InstanceBuilder, error) {
	if b.state != stateEmpty {
		return nil, &OutOfOrderBuildError{Stage: "CreateInstance", State: b.state.String()}
	}

	if b.plan.Constructor == nil {
		if len(extraArgs) > 0 {
			return nil, &MetadataUnavailableError{
				Type:   typeName(b.concrete),
				Reason: "extra constructor arguments given but no constructor registered",
			}
		}
		st := baseType(b.concrete)
		if st.Kind() != reflect.Struct {
			return nil, &MetadataUnavailableError{
				Type:   typeName(b.concrete),
				Reason: "cannot construct non-struct type without a constructor",
			}
		}
		b.product = reflect.New(st).Interface()
		b.state = stateConstructed
		return b, nil
	}

	product, err := b.callConstructor(extraArgs)
	if err != nil {
		return nil, err
	}
	b.product = product
	b.state = stateConstructed
	return b, nil
}

// SetProduct adopts an already-constructed instance as the product, skipping
// construction. It is the entry stage used by the autowiring boundary.
func (b *InstanceBuilder) SetProduct(instance any) (*InstanceBuilder, error) {
	if b.state != stateEmpty {
		return nil, &OutOfOrderBuildError{Stage: "SetProduct", State: b.state.String()}
	}
	if instance == nil {
		return nil, &TypeMismatchError{Expected: typeName(b.concrete), Got: "<nil>"}
	}
	b.product = instance
	b.state = stateConstructed
	return b, nil
}

// InjectProperties resolves each property spec's type and assigns it to the
// named field on the product. Properties must not depend on each other;
// their relative order carries no meaning.
func (b *InstanceBuilder) InjectProperties() (*InstanceBuilder, error) {
	if b.state != stateConstructed {
		return nil, &OutOfOrderBuildError{Stage: "InjectProperties", State: b.state.String()}
	}

	if len(b.plan.Properties) > 0 {
		v := reflect.ValueOf(b.product)
		if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
			return nil, &MetadataUnavailableError{
				Type:   typeName(b.concrete),
				Reason: "property injection requires a pointer-to-struct product",
			}
		}
		elem := v.Elem()
		for _, spec := range b.plan.Properties {
			field := elem.FieldByName(spec.Name)
			if !field.IsValid() || !field.CanSet() {
				return nil, &MetadataUnavailableError{
					Type:   typeName(b.concrete),
					Reason: fmt.Sprintf("field %s is not settable", spec.Name),
				}
			}
			target := spec.Type
			if target == nil {
				target = field.Type()
			}
			resolved, err := b.container.Resolve(target)
			if err != nil {
				return nil, err
			}
			value, err := conform(resolved, field.Type())
			if err != nil {
				return nil, &InjectionError{Type: typeName(b.concrete), Member: spec.Name, Err: err}
			}
			field.Set(value)
		}
	}

	b.state = statePropertiesInjected
	return b, nil
}

// InjectMethods invokes each method spec on the product with its resolved
// parameters. Extra positional arguments for the i-th method may be supplied
// by external callers; container-driven resolution passes none.
func (b *InstanceBuilder) InjectMethods(extraArgs ...[]any) (*InstanceBuilder, error) {
	if b.state != stateConstructed && b.state != statePropertiesInjected {
		return nil, &OutOfOrderBuildError{Stage: "InjectMethods", State: b.state.String()}
	}

	v := reflect.ValueOf(b.product)
	for i, spec := range b.plan.Methods {
		method := v.MethodByName(spec.Name)
		if !method.IsValid() {
			return nil, &MetadataUnavailableError{
				Type:   typeName(b.concrete),
				Reason: fmt.Sprintf("no method named %s", spec.Name),
			}
		}
		var extra []any
		if i < len(extraArgs) {
			extra = extraArgs[i]
		}
		args, err := b.methodArgs(method.Type(), spec, extra)
		if err != nil {
			return nil, err
		}
		results := method.Call(args)
		if n := len(results); n > 0 && results[n-1].Type() == errType && !results[n-1].IsNil() {
			return nil, &InjectionError{
				Type:   typeName(b.concrete),
				Member: spec.Name,
				Err:    results[n-1].Interface().(error),
			}
		}
	}

	b.state = stateMethodsInjected
	return b, nil
}

// Product returns the assembled instance. Idempotent once an entry stage has
// run.
func (b *InstanceBuilder) Product() (any, error) {
	if b.state == stateEmpty {
		return nil, &OutOfOrderBuildError{Stage: "Product", State: b.state.String()}
	}
	return b.product, nil
}

// callConstructor resolves the injected parameters, appends the extra
// arguments, and invokes the constructor function.
func (b *InstanceBuilder) callConstructor(extraArgs []any) (any, error) {
	spec := b.plan.Constructor
	ft := spec.Fn.Type()
	fixed := ft.NumIn()
	if ft.IsVariadic() {
		fixed--
	}

	args := make([]reflect.Value, 0, len(spec.Params)+len(extraArgs))
	for _, param := range spec.Params {
		resolved, err := b.container.Resolve(param.Type)
		if err != nil {
			return nil, err
		}
		value, err := conform(resolved, param.Type)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}
	for _, raw := range extraArgs {
		pos := len(args)
		var target reflect.Type
		switch {
		case pos < fixed:
			target = ft.In(pos)
		case ft.IsVariadic():
			target = ft.In(ft.NumIn() - 1).Elem()
		default:
			return nil, &MetadataUnavailableError{
				Type:   typeName(b.concrete),
				Reason: fmt.Sprintf("constructor takes %d arguments, got %d", fixed, len(spec.Params)+len(extraArgs)),
			}
		}
		value, err := conform(raw, target)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}
	if len(args) < fixed {
		return nil, &MetadataUnavailableError{
			Type:   typeName(b.concrete),
			Reason: fmt.Sprintf("constructor takes %d arguments, got %d", fixed, len(args)),
		}
	}

	results := spec.Fn.Call(args)
	if len(results) == 2 && !results[1].IsNil() {
		return nil, &ConstructionError{Type: typeName(b.concrete), Err: results[1].Interface().(error)}
	}
	return results[0].Interface(), nil
}

// methodArgs resolves a method spec's declared parameters and appends the
// caller-supplied extras.
func (b *InstanceBuilder) methodArgs(mt reflect.Type, spec MethodSpec, extra []any) ([]reflect.Value, error) {
	fixed := mt.NumIn()
	if mt.IsVariadic() {
		fixed--
	}

	args := make([]reflect.Value, 0, len(spec.Params)+len(extra))
	for _, param := range spec.Params {
		resolved, err := b.container.Resolve(param.Type)
		if err != nil {
			return nil, err
		}
		value, err := conform(resolved, param.Type)
		if err != nil {
			return nil, &InjectionError{Type: typeName(b.concrete), Member: spec.Name, Err: err}
		}
		args = append(args, value)
	}
	for _, raw := range extra {
		pos := len(args)
		var target reflect.Type
		switch {
		case pos < fixed:
			target = mt.In(pos)
		case mt.IsVariadic():
			target = mt.In(mt.NumIn() - 1).Elem()
		default:
			return nil, &InjectionError{
				Type:   typeName(b.concrete),
				Member: spec.Name,
				Err:    fmt.Errorf("method takes %d arguments, got %d", fixed, len(spec.Params)+len(extra)),
			}
		}
		value, err := conform(raw, target)
		if err != nil {
			return nil, &InjectionError{Type: typeName(b.concrete), Member: spec.Name, Err: err}
		}
		args = append(args, value)
	}
	if len(args) < fixed {
		return nil, &InjectionError{
			Type:   typeName(b.concrete),
			Member: spec.Name,
			Err:    fmt.Errorf("method takes %d arguments, got %d", fixed, len(args)),
		}
	}
	return args, nil
}

// conform turns a raw value into a reflect.Value assignable to target.
func conform(raw any, target reflect.Type) (reflect.Value, error) {
	if raw == nil {
		switch target.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(target), nil
		default:
			return reflect.Value{}, &TypeMismatchError{Expected: typeName(target), Got: "<nil>"}
		}
	}
	v := reflect.ValueOf(raw)
	if !v.Type().AssignableTo(target) {
		return reflect.Value{}, &TypeMismatchError{Expected: typeName(target), Got: v.Type().String()}
	}
	return v, nil
}
