package wirebox

import (
	"reflect"
	"sync"
)

// The autowiring boundary re-runs the injection pipeline on objects
// constructed outside container-driven resolution. Which container serves a
// given instance comes from an explicit, package-level registry: a per-type
// entry wins over the process default. Both are plain mutable state with no
// implicit initialization; callers set them during application setup.

var (
	autowireMu       sync.RWMutex
	defaultContainer *Container
	typeContainers   = make(map[TypeIdentity]*Container)
)

// SetDefaultContainer sets the process-wide fallback container used by
// Autowire. Passing nil clears it.
func SetDefaultContainer(c *Container) {
	autowireMu.Lock()
	defaultContainer = c
	autowireMu.Unlock()
}

// DefaultContainer returns the process-wide fallback container, or nil.
func DefaultContainer() *Container {
	autowireMu.RLock()
	defer autowireMu.RUnlock()
	return defaultContainer
}

// SetContainerFor routes autowiring of one type to a specific container.
// Passing nil removes the route.
func SetContainerFor(t TypeIdentity, c *Container) {
	autowireMu.Lock()
	if c == nil {
		delete(typeContainers, baseType(t))
	} else {
		typeContainers[baseType(t)] = c
	}
	autowireMu.Unlock()
}

// ContainerFor returns the container routed for a type, or nil.
func ContainerFor(t TypeIdentity) *Container {
	autowireMu.RLock()
	defer autowireMu.RUnlock()
	return typeContainers[baseType(t)]
}

type autowireConfig struct {
	container *Container
	useCtor   bool
	extraArgs []any
}

// AutowireOption adjusts a single Autowire call.
type AutowireOption func(*autowireConfig)

// WithContainer pins the call to a specific container, bypassing the
// per-type and default registries.
func WithContainer(c *Container) AutowireOption {
	return func(cfg *autowireConfig) {
		cfg.container = c
	}
}

// UseConstructorInjection rebuilds the product through the registered
// constructor (with the given extra arguments) before property and method
// injection, instead of adopting the passed-in instance.
func UseConstructorInjection(extraArgs ...any) AutowireOption {
	return func(cfg *autowireConfig) {
		cfg.useCtor = true
		cfg.extraArgs = extraArgs
	}
}

// Autowire runs the injection pipeline on an already-constructed instance:
// SetProduct → InjectProperties → InjectMethods → Product. The returned
// value is the instance itself unless UseConstructorInjection replaced it.
func Autowire(instance any, opts ...AutowireOption) (any, error) {
	t := reflect.TypeOf(instance)
	if t == nil {
		return nil, &NoContainerError{Type: "<nil>"}
	}
	concrete := baseType(t)

	var cfg autowireConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	c := cfg.container
	if c == nil {
		c = ContainerFor(concrete)
	}
	if c == nil {
		c = DefaultContainer()
	}
	if c == nil {
		return nil, &NoContainerError{Type: typeName(concrete)}
	}

	builder, err := NewInstanceBuilder(concrete, c)
	if err != nil {
		return nil, err
	}
	if cfg.useCtor {
		_, err = builder.CreateInstance(cfg.extraArgs...)
	} else {
		_, err = builder.SetProduct(instance)
	}
	if err != nil {
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
