package wirebox

import (
	"reflect"
	"sync"
)

// Package wirebox provides an object-graph construction engine: a binding
// registry plus a staged injection pipeline that turns type identities into
// fully-initialized instances.

// Container owns the binding registry and drives resolution. Registration is
// guarded for setup-time use from multiple goroutines; resolution itself is
// synchronous and assumes a single execution context (see singletonBinding).
type Container struct {
	mu         sync.RWMutex
	bindings   map[TypeIdentity]Binding
	provider   MetadataProvider
	logger     Logger
	resolution *resolutionTracker
}

// Option configures a Container at construction.
type Option func(*Container)

// WithMetadataProvider replaces the default registration-table provider.
func WithMetadataProvider(p MetadataProvider) Option {
	return func(c *Container) {
		if p != nil {
			c.provider = p
		}
	}
}

// WithLogger enables trace logging of registry operations.
func WithLogger(l Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		bindings:   make(map[TypeIdentity]Binding, 32),
		provider:   NewMetadataRegistry(),
		logger:     nopLogger{},
		resolution: newResolutionTracker(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the container's metadata provider. Useful when the
// default MetadataRegistry is in place and constructors or methods need
// registering after construction.
func (c *Container) Provider() MetadataProvider {
	return c.provider
}

// Bind registers a class binding from abstract to concrete. A nil concrete
// binds the abstract to itself. Extra constructor arguments follow the
// injected parameters at construction time. Rebinding replaces any prior
// entry for the abstract.
func (c *Container) Bind(abstract, concrete TypeIdentity, extraArgs ...any) {
	if concrete == nil {
		concrete = abstract
	}
	c.register(&classBinding{abstract: abstract, concrete: concrete, extraArgs: extraArgs})
}

// BindFactory registers a factory binding.
func (c *Container) BindFactory(abstract TypeIdentity, fn Factory) {
	c.register(&factoryBinding{abstract: abstract, fn: fn})
}

// Instance registers a pre-built value.
func (c *Container) Instance(abstract TypeIdentity, value any) {
	c.register(&instanceBinding{abstract: abstract, value: value})
}

// Singleton registers a class binding whose first resolution is cached for
// the binding's lifetime.
func (c *Container) Singleton(abstract, concrete TypeIdentity, extraArgs ...any) {
	if concrete == nil {
		concrete = abstract
	}
	c.register(newSingletonBinding(&classBinding{abstract: abstract, concrete: concrete, extraArgs: extraArgs}))
}

// SingletonFactory registers a factory binding whose first result is cached.
func (c *Container) SingletonFactory(abstract TypeIdentity, fn Factory) {
	c.register(newSingletonBinding(&factoryBinding{abstract: abstract, fn: fn}))
}

func (c *Container) register(b Binding) {
	c.mu.Lock()
	c.bindings[b.Abstract()] = b
	c.mu.Unlock()
	c.logger.Debug("binding registered", "type", typeName(b.Abstract()))
}

// Resolve produces an instance for the abstract identity. Nested
// resolutions re-enter this method on the same container.
func (c *Container) Resolve(abstract TypeIdentity) (any, error) {
	c.mu.RLock()
	binding, ok := c.bindings[abstract]
	c.mu.RUnlock()
	if !ok {
		return nil, &NotBoundError{Type: typeName(abstract)}
	}
	c.logger.Debug("resolving", "type", typeName(abstract))
	return binding.Resolve(c)
}

// IsBound reports registry membership.
func (c *Container) IsBound(abstract TypeIdentity) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.bindings[abstract]
	return ok
}

// Unbind removes the registry entry for the abstract. Removing an absent
// entry is a no-op.
func (c *Container) Unbind(abstract TypeIdentity) {
	c.mu.Lock()
	delete(c.bindings, abstract)
	c.mu.Unlock()
	c.logger.Debug("binding removed", "type", typeName(abstract))
}

// build runs the full injection pipeline for a concrete type.
func (c *Container) build(concrete TypeIdentity, extraArgs []any) (any, error) {
	builder, err := NewInstanceBuilder(concrete, c)
	if err != nil {
		return nil, err
	}
	if _, err := builder.CreateInstance(extraArgs...); err != nil {
		return nil, err
	}
	if _, err := builder.InjectProperties(); err != nil {
		return nil, err
	}
	if _, err := builder.InjectMethods(); err != nil {
		return nil, err
	}
	return builder.Product()
}

// BindAs registers a class binding from abstract A to concrete C.
func BindAs[A, C any](c *Container, extraArgs ...any) {
	c.Bind(TypeOf[A](), TypeOf[C](), extraArgs...)
}

// SingletonAs registers a singleton class binding from abstract A to
// concrete C.
func SingletonAs[A, C any](c *Container, extraArgs ...any) {
	c.Singleton(TypeOf[A](), TypeOf[C](), extraArgs...)
}

// InstanceOf registers a pre-built value under abstract A.
func InstanceOf[A any](c *Container, value A) {
	c.Instance(TypeOf[A](), value)
}

// ResolveAs resolves abstract T and asserts the result.
// Returns TypeMismatchError when the produced value is not a T.
func ResolveAs[T any](c *Container) (T, error) {
	var zero T
	instance, err := c.Resolve(TypeOf[T]())
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, &TypeMismatchError{Expected: typeName(TypeOf[T]()), Got: typeName(reflect.TypeOf(instance))}
	}
	return typed, nil
}
