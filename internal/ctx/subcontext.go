package ctx

import "icarus/internal/types"

// InsertResult is the original's InsertSubcontextResult: the child Context
// for this (node, params) binding plus whether it was freshly created.
type InsertResult struct {
	Context  *Context
	Params   []BoundArg
	Rets     []types.TypeID
	Inserted bool
}

// InsertSubcontext returns the child Context keyed on node's constant
// parameter bindings, creating it (parented to c) if no equivalent
// instantiation exists yet. inserted=false means an equivalent
// instantiation already existed and its Context is being reused — the
// Generic Instantiator (internal/mono) checks this to skip re-verifying an
// already-complete instantiation.
func (c *Context) InsertSubcontext(node NodeKey, params []BoundArg) InsertResult {
	key := subcontextKey(node, params)

	c.mu.Lock()
	if existing, ok := c.children[key]; ok {
		c.mu.Unlock()
		return InsertResult{Context: existing, Params: params, Inserted: false}
	}
	c.mu.Unlock()

	child := New(c.module)
	child.parent = c

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.children[key]; ok {
		// Lost a race with a concurrent insert of the same instantiation;
		// discard the child we just built and reuse the winner's.
		return InsertResult{Context: existing, Params: params, Inserted: false}
	}
	c.children[key] = child
	return InsertResult{Context: child, Params: params, Inserted: true}
}

// FindSubcontext returns the already-registered child Context for node's
// binding, as previously created by InsertSubcontext with an equal binding.
// For a binding that was never inserted it returns (nil, false).
func (c *Context) FindSubcontext(node NodeKey, params []BoundArg) (*Context, bool) {
	key := subcontextKey(node, params)
	c.mu.Lock()
	defer c.mu.Unlock()
	child, ok := c.children[key]
	return child, ok
}

// ScratchpadSubcontext returns a child Context not registered with its
// parent's children table — a discardable workspace for computing generic
// parameter bindings before deciding whether to keep them (e.g. evaluating
// a generic struct's arguments, which may turn out to match an existing
// instantiation, or to fail substitution entirely).
func (c *Context) ScratchpadSubcontext() *Context {
	child := New(c.module)
	child.parent = c
	return child
}
