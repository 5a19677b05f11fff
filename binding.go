package wirebox

// Factory produces a value on demand. It receives the resolving container so
// it can pull its own dependencies; it is fully responsible for the value —
// no injection pipeline runs on a factory result.
type Factory func(c *Container) (any, error)

// Binding is one registered mapping from an abstract identity to a producer
// of instances. Abstract always reports the identity the binding was
// registered under, even for aliases.
type Binding interface {
	Abstract() TypeIdentity
	Resolve(c *Container) (any, error)
}

// classBinding builds instances of a concrete type through the injection
// pipeline, or chases an alias when the concrete type is itself bound.
type classBinding struct {
	abstract  TypeIdentity
	concrete  TypeIdentity
	extraArgs []any
}

func (b *classBinding) Abstract() TypeIdentity {
	return b.abstract
}

func (b *classBinding) Resolve(c *Container) (any, error) {
	// Alias chasing: a distinct, currently-bound concrete delegates the whole
	// resolution. The chain guard trips on registry alias cycles.
	if b.concrete != b.abstract && c.IsBound(b.concrete) {
		if err := c.resolution.enter(b.abstract); err != nil {
			return nil, err
		}
		defer c.resolution.exit(b.abstract)
		return c.Resolve(b.concrete)
	}
	return c.build(b.concrete, b.extraArgs)
}

// factoryBinding delegates production to an arbitrary function.
type factoryBinding struct {
	abstract TypeIdentity
	fn       Factory
}

func (b *factoryBinding) Abstract() TypeIdentity {
	return b.abstract
}

func (b *factoryBinding) Resolve(c *Container) (any, error) {
	return b.fn(c)
}

// instanceBinding holds a pre-built value.
type instanceBinding struct {
	abstract TypeIdentity
	value    any
}

func (b *instanceBinding) Abstract() TypeIdentity {
	return b.abstract
}

func (b *instanceBinding) Resolve(c *Container) (any, error) {
	return b.value, nil
}

// singletonBinding decorates another binding, resolving it at most once and
// serving the cached value afterwards. The cache write is unsynchronized;
// concurrent first resolution needs external serialization.
type singletonBinding struct {
	inner    Binding
	instance any
	resolved bool
}

func newSingletonBinding(inner Binding) *singletonBinding {
	return &singletonBinding{inner: inner}
}

func (b *singletonBinding) Abstract() TypeIdentity {
	return b.inner.Abstract()
}

func (b *singletonBinding) Resolve(c *Container) (any, error) {
	if b.resolved {
		return b.instance, nil
	}
	instance, err := b.inner.Resolve(c)
	if err != nil {
		return nil, err
	}
	b.instance = instance
	b.resolved = true
	return instance, nil
}
