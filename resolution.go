package wirebox

import "sync"

// aliasChain records the alias hops taken by one in-flight resolution.
// Only alias delegations enter the chain; a revisited identity means the
// registry aliases form a cycle.
type aliasChain struct {
	visited map[TypeIdentity]bool
	keys    []TypeIdentity
}

// resolutionTracker keeps one aliasChain per goroutine so the visited set is
// scoped to the current resolve call stack and never persists across calls.
type resolutionTracker struct {
	chains    sync.Map
	statePool sync.Pool
}

func newResolutionTracker() *resolutionTracker {
	return &resolutionTracker{
		statePool: sync.Pool{
			New: func() interface{} {
				return &aliasChain{
					visited: make(map[TypeIdentity]bool, 8),
					keys:    make([]TypeIdentity, 0, 8),
				}
			},
		},
	}
}

func (t *resolutionTracker) chain() *aliasChain {
	id := goid()
	if state, ok := t.chains.Load(id); ok {
		return state.(*aliasChain)
	}
	state := t.statePool.Get()
	t.chains.Store(id, state)
	return state.(*aliasChain)
}

// enter marks an alias hop. It fails when the identity is already on the
// current chain.
func (t *resolutionTracker) enter(key TypeIdentity) error {
	chain := t.chain()
	if chain.visited[key] {
		return &CyclicAliasError{Type: typeName(key)}
	}
	chain.visited[key] = true
	chain.keys = append(chain.keys, key)
	return nil
}

// exit unwinds one alias hop. When the chain drains, the state goes back to
// the pool so a later resolution starts clean.
func (t *resolutionTracker) exit(key TypeIdentity) {
	chain := t.chain()
	delete(chain.visited, key)
	if len(chain.visited) > 0 {
		return
	}

	id := goid()
	if state, ok := t.chains.Load(id); ok {
		t.chains.Delete(id)
		c := state.(*aliasChain)
		for _, k := range c.keys {
			delete(c.visited, k)
		}
		c.keys = c.keys[:0]
		t.statePool.Put(c)
	}
}
