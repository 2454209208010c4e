package ctx

import (
	"strconv"
	"strings"
	"sync"

	"icarus/internal/ast"
	"icarus/internal/ir"
	"icarus/internal/module"
	"icarus/internal/symbols"
	"icarus/internal/types"
)

// DeclKey identifies a declaration node a Context binds data to. The
// original keys on `ast::Declaration const*` identity; arena-indexed ASTs
// use the declaring expression's ExprID instead, which is just as stable
// within one compilation and avoids pinning AST nodes behind pointers.
type DeclKey = ast.ExprID

// ExprKey identifies the expression a QualType/overload-set entry is
// cached against.
type ExprKey = ast.ExprID

// NodeKey identifies a ParameterizedExpression (a generic function/struct
// or jump declaration) that InsertSubcontext/FindSubcontext key children
// on.
type NodeKey = ast.ExprID

// constantEntry is the per-declaration payload LoadConstant walks parent
// pointers to find, matching the original's `constants_` map of
// `{value, complete}` pairs.
type constantEntry struct {
	value    Value
	complete bool
}

// Context holds everything the Verifier/Dispatch/Lowerer compute about one
// instantiation of the program, intrusively organized as a tree: each
// Context has a parent (nil at the root) and a table of children keyed by
// the constant-parameter bindings that produced them. Grounded directly on
// original_source/compiler/context.h.
type Context struct {
	mu sync.Mutex

	parent   *Context
	children map[string]*Context // keyed by (node, params) — see subcontextKey

	module module.ID

	qualTypes map[ExprKey]types.QualType
	decls     map[ExprKey]symbols.SymbolID
	constants map[DeclKey]constantEntry
	addrs     map[DeclKey]Register

	viableOverloads map[ExprKey][]types.TypeID
	allOverloads    map[ExprKey][]types.TypeID

	funcs map[NodeKey]FuncRef
	jumps map[NodeKey]JumpRef

	// structFuncs holds synthesized struct-completion function bodies
	// (internal/lower.StructCompleter); FuncRef.ID indexes into this slice
	// the same way it would index a declared function's compiled body, so
	// lowerCall's static-call path needs no separate kind tag.
	structFuncs []ir.CompiledFn

	// jumpBodies holds compiled Jump bodies (internal/lower's ScopeNode
	// lowering, which lazily compiles a scope block's enter/exit handler the
	// first time a ScopeNode names it); JumpRef.ID indexes into this slice.
	jumpBodies []ir.CompiledJump

	jumpMap *JumpMap

	nextBlockID int32
	nextScopeID int32
}

// New constructs a root Context for mod.
func New(mod module.ID) *Context {
	return &Context{
		module:          mod,
		children:        make(map[string]*Context),
		qualTypes:       make(map[ExprKey]types.QualType),
		decls:           make(map[ExprKey]symbols.SymbolID),
		constants:       make(map[DeclKey]constantEntry),
		addrs:           make(map[DeclKey]Register),
		viableOverloads: make(map[ExprKey][]types.TypeID),
		allOverloads:    make(map[ExprKey][]types.TypeID),
		funcs:           make(map[NodeKey]FuncRef),
		jumps:           make(map[NodeKey]JumpRef),
		jumpMap:         newJumpMap(),
	}
}

// Module returns the module this Context (and all its descendants) belongs
// to.
func (c *Context) Module() module.ID { return c.module }

// Root walks up to the tree's root, the original's `root()`.
func (c *Context) Root() *Context {
	for c.parent != nil {
		c = c.parent
	}
	return c
}

// QualType returns the cached QualType for expr in this node only (no
// parent walk — per-instantiation types genuinely differ node to node, as
// the doc comment on the original explains with its `array: [size; bool]`
// example).
func (c *Context) QualType(expr ExprKey) (types.QualType, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	qt, ok := c.qualTypes[expr]
	return qt, ok
}

// SetQualType installs qt for expr in this node and returns it.
func (c *Context) SetQualType(expr ExprKey, qt types.QualType) types.QualType {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.qualTypes[expr] = qt
	return qt
}

// Decl returns the name-resolution outcome for an identifier expression in
// this node.
func (c *Context) Decl(expr ExprKey) (symbols.SymbolID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.decls[expr]
	return d, ok
}

// SetDecl records the symbol an identifier expression resolved to.
func (c *Context) SetDecl(expr ExprKey, sym symbols.SymbolID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.decls[expr] = sym
}

// LoadConstant walks up to the root looking for decl's bound compile-time
// value, per the original's LoadConstant: child contexts shadow parent
// bindings only when they have a non-empty value of their own.
func (c *Context) LoadConstant(decl DeclKey) Value {
	for cur := c; cur != nil; cur = cur.parent {
		cur.mu.Lock()
		entry, ok := cur.constants[decl]
		cur.mu.Unlock()
		if ok && !entry.value.Empty() {
			return entry.value
		}
	}
	return Value{}
}

// SetConstant binds decl to v in this node, optionally marking it complete
// (fully evaluated, vs. provisionally bound during cyclic evaluation).
func (c *Context) SetConstant(decl DeclKey, v Value, complete bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.constants[decl] = constantEntry{value: v, complete: complete}
}

// ConstantComplete reports whether decl's binding in this node (not
// walking to parents) has been marked complete.
func (c *Context) ConstantComplete(decl DeclKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.constants[decl].complete
}

// Addr returns the storage-binding register for decl, walking to parents
// like LoadConstant — a declaration's address is established once, in
// whichever context first lowers it, and is visible to every descendant
// instantiation.
func (c *Context) Addr(decl DeclKey) (Register, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		cur.mu.Lock()
		r, ok := cur.addrs[decl]
		cur.mu.Unlock()
		if ok {
			return r, true
		}
	}
	return NoRegister, false
}

// SetAddr binds decl's storage register in this node.
func (c *Context) SetAddr(decl DeclKey, r Register) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addrs[decl] = r
}

// ViableOverloads returns the overload set narrowed to candidates viable
// for expr's argument list, walking to parents since dispatch results for
// a call expression do not vary across a struct/function's own
// instantiations unless the call itself is inside the templated body.
func (c *Context) ViableOverloads(expr ExprKey) ([]types.TypeID, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		cur.mu.Lock()
		v, ok := cur.viableOverloads[expr]
		cur.mu.Unlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

// SetViableOverloads caches a call expression's resolved candidate set.
func (c *Context) SetViableOverloads(expr ExprKey, candidates []types.TypeID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viableOverloads[expr] = candidates
}

// AllOverloads returns every overload found for expr before viability
// filtering, kept for diagnostics that explain why each candidate failed.
func (c *Context) AllOverloads(expr ExprKey) ([]types.TypeID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.allOverloads[expr]
	return v, ok
}

// SetAllOverloads records the unfiltered overload set for expr.
func (c *Context) SetAllOverloads(expr ExprKey, all []types.TypeID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.allOverloads[expr] = all
}

// AddFunc returns the FuncRef for node's lazily-constructed IR group,
// constructing a fresh one via alloc on first use — the original's
// `add_func`, generalized since Go has no default-constructible
// equivalent of the teacher's `NativeFn` map-emplace idiom.
//
// alloc runs with the lock released: callers like
// internal/lower.StructCompleter build their CompiledFn and intern it via
// InternStructFunc from inside alloc, which itself needs the lock, so
// holding it across alloc would deadlock. A second lookup after alloc
// returns catches the rare case of two goroutines racing to construct the
// same node, keeping only the first result.
func (c *Context) AddFunc(node NodeKey, alloc func() FuncRef) (FuncRef, bool) {
	c.mu.Lock()
	if ref, ok := c.funcs[node]; ok {
		c.mu.Unlock()
		return ref, false
	}
	c.mu.Unlock()

	ref := alloc()

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.funcs[node]; ok {
		return existing, false
	}
	c.funcs[node] = ref
	return ref, true
}

// AddJump mirrors AddFunc for jump declarations.
func (c *Context) AddJump(node NodeKey, alloc func() JumpRef) (JumpRef, bool) {
	c.mu.Lock()
	if ref, ok := c.jumps[node]; ok {
		c.mu.Unlock()
		return ref, false
	}
	c.mu.Unlock()

	ref := alloc()

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.jumps[node]; ok {
		return existing, false
	}
	c.jumps[node] = ref
	return ref, true
}

// Func returns the already-constructed FuncRef for node, if any.
func (c *Context) Func(node NodeKey) (FuncRef, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ref, ok := c.funcs[node]
	return ref, ok
}

// InternStructFunc records a synthesized struct-completion function body
// (internal/lower.StructCompleter's copy-init/move-init/destroy output) and
// returns a stable id a FuncRef can name, the same id space AddFunc hands
// out for ordinarily-declared functions.
func (c *Context) InternStructFunc(fn ir.CompiledFn) int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := int32(len(c.structFuncs))
	c.structFuncs = append(c.structFuncs, fn)
	return id
}

// StructFunc returns a previously interned struct-completion function body.
func (c *Context) StructFunc(id int32) (ir.CompiledFn, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id < 0 || int(id) >= len(c.structFuncs) {
		return ir.CompiledFn{}, false
	}
	return c.structFuncs[id], true
}

// InternJumpBody records a compiled Jump body and returns a stable id a
// JumpRef can name, mirroring InternStructFunc's id-space convention.
func (c *Context) InternJumpBody(jmp ir.CompiledJump) int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := int32(len(c.jumpBodies))
	c.jumpBodies = append(c.jumpBodies, jmp)
	return id
}

// JumpBody returns a previously interned Jump body.
func (c *Context) JumpBody(id int32) (ir.CompiledJump, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id < 0 || int(id) >= len(c.jumpBodies) {
		return ir.CompiledJump{}, false
	}
	return c.jumpBodies[id], true
}

// AddScope allocates a fresh runtime scope value of the given state type.
func (c *Context) AddScope(state types.TypeID) ScopeRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextScopeID
	c.nextScopeID++
	return ScopeRef{ID: id, StateType: state}
}

// AddBlock allocates a fresh runtime block value.
func (c *Context) AddBlock() BlockRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextBlockID
	c.nextBlockID++
	return BlockRef{ID: id}
}

// TrackJumps populates the reverse jump map for the subtree rooted at
// root, recording which `scope` each `jump` statement targets.
func (c *Context) TrackJumps(root ast.ExprID, jumpsFrom []ast.ExprID, to ScopeRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, from := range jumpsFrom {
		c.jumpMap.record(from, to)
	}
}

// ReturnsTo reports the scope a jump statement hands control back to, per
// the reverse map TrackJumps populated.
func (c *Context) ReturnsTo(jumpExpr ast.ExprID) (ScopeRef, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jumpMap.lookup(jumpExpr)
}

// YieldsTo is an alias of ReturnsTo for `scope` yield statements, kept
// distinct at the call site for readability even though the underlying
// map is shared, matching the original's ReturnsTo/YieldsTo pair.
func (c *Context) YieldsTo(yieldExpr ast.ExprID) (ScopeRef, bool) {
	return c.ReturnsTo(yieldExpr)
}

// subcontextKey stringifies the (node, bound-parameter) pair that
// identifies a child Context, since Go map keys can't hold the original's
// `Params<(Value, QualType)>`. Grounded on internal/mono/instantiation.go's
// typeArgsKey — the same workaround, reused here for parameter bindings
// rather than type arguments.
func subcontextKey(node NodeKey, params []BoundArg) string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(uint64(node), 10))
	b.WriteByte(':')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(int64(p.Value.Kind), 10))
		b.WriteByte('=')
		b.WriteString(strconv.FormatUint(uint64(p.Value.TypeVal), 10))
		b.WriteByte('/')
		b.WriteString(strconv.FormatInt(p.Value.Int, 10))
		b.WriteByte('/')
		b.WriteString(strconv.FormatUint(uint64(p.QualType.Type), 10))
	}
	return b.String()
}

// BoundArg pairs a parameter's compile-time Value with its QualType, the
// original's `pair<ir::Value, type::QualType>` params entry.
type BoundArg struct {
	Value    Value
	QualType types.QualType
}
