package wirebox

import (
	"time"

	"github.com/google/uuid"
)

// Memento is an immutable snapshot of a container's registry. Bindings are
// shared by reference with the live container; a binding's registration data
// never changes after registration, so sharing is safe. Singleton caches are
// not part of the snapshot contract.
type Memento struct {
	id        string
	createdAt time.Time
	bindings  map[TypeIdentity]Binding
}

// ID returns the snapshot's unique identifier.
func (m *Memento) ID() string {
	return m.id
}

// CreatedAt returns when the snapshot was taken.
func (m *Memento) CreatedAt() time.Time {
	return m.createdAt
}

// Len returns the number of bindings captured.
func (m *Memento) Len() int {
	return len(m.bindings)
}

// Save snapshots the registry. Later Bind/Unbind calls on the live container
// do not affect the snapshot.
func (c *Container) Save() *Memento {
	c.mu.RLock()
	bindings := make(map[TypeIdentity]Binding, len(c.bindings))
	for key, binding := range c.bindings {
		bindings[key] = binding
	}
	c.mu.RUnlock()

	m := &Memento{
		id:        uuid.NewString(),
		createdAt: time.Now(),
		bindings:  bindings,
	}
	c.logger.Debug("registry saved", "memento", m.id, "bindings", m.Len())
	return m
}

// Restore replaces the registry's contents with the snapshot's. Afterward
// IsBound and Resolve behave as they did at Save time for every identity the
// snapshot holds. A nil memento is a no-op.
func (c *Container) Restore(m *Memento) {
	if m == nil {
		return
	}
	bindings := make(map[TypeIdentity]Binding, len(m.bindings))
	for key, binding := range m.bindings {
		bindings[key] = binding
	}

	c.mu.Lock()
	c.bindings = bindings
	c.mu.Unlock()
	c.logger.Debug("registry restored", "memento", m.id, "bindings", m.Len())
}
