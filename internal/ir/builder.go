package ir

import "fmt"

// TerminationState tracks whether the Builder's current block has already
// been given a JumpCmd, so a second terminator on the same block is a bug
// rather than a silent overwrite.
type TerminationState uint8

const (
	Open TerminationState = iota
	Terminated
)

// Builder accumulates a single BlockGroup. Per design note 9.4 ("re-expressed
// as an explicit builder value"), this is a plain struct threaded explicitly
// through the Lowerer's recursive descent — not the teacher's implicit
// per-goroutine builder state — so Save/Restore below give the RAII
// scope-guard behaviour explicitly instead of via defer-on-a-global.
type Builder struct {
	group *BlockGroup
	block BlockID
	term  TerminationState

	// pendingDestroy holds registers awaiting a Destroy instruction at the
	// end of the current statement scope, in reverse acquisition order per
	// spec.md §4.2's RAII-style temporary destruction.
	pendingDestroy []Register
}

// NewBuilder starts building into group, with control positioned at entry.
func NewBuilder(group *BlockGroup, entry BlockID) *Builder {
	return &Builder{group: group, block: entry}
}

// Mark snapshots enough Builder state to restore later via Restore — the
// RAII-scope-guard equivalent design note 9.4 asks for.
type Mark struct {
	block      BlockID
	term       TerminationState
	pendingLen int
}

// Save captures the Builder's current position and pending-destroy depth.
func (b *Builder) Save() Mark {
	return Mark{block: b.block, term: b.term, pendingLen: len(b.pendingDestroy)}
}

// Restore returns the Builder to a previously Saved position, discarding
// any pending-destroy entries acquired since.
func (b *Builder) Restore(m Mark) {
	b.block = m.block
	b.term = m.term
	b.pendingDestroy = b.pendingDestroy[:m.pendingLen]
}

// CurrentBlock returns the block control is positioned at.
func (b *Builder) CurrentBlock() BlockID { return b.block }

// Group returns the BlockGroup this Builder accumulates into, for callers
// that splice another group's blocks in directly (internal/lower's
// Inliner, which appends a compiled Jump's blocks into the caller's
// group rather than emitting instructions through the Builder itself).
func (b *Builder) Group() *BlockGroup { return b.group }

// NewBlock appends a fresh, unterminated block and returns its ID without
// moving control to it.
func (b *Builder) NewBlock() BlockID {
	id := BlockID(len(b.group.Blocks))
	b.group.Blocks = append(b.group.Blocks, BasicBlock{ID: id, Term: JumpCmd{Kind: JumpNone}})
	return id
}

// SetBlock moves control to an existing block, allowing continued emission
// (e.g. resuming at a jump-label block after a Choose).
func (b *Builder) SetBlock(id BlockID) {
	b.block = id
	b.term = Open
	if blk := b.group.Block(id); blk != nil && blk.Term.Kind != JumpNone {
		b.term = Terminated
	}
}

// newRegister allocates and returns a fresh, unique Register.
func (b *Builder) newRegister() Register {
	r := Register(b.group.NumRegs)
	b.group.NumRegs++
	return r
}

// Emit appends instr to the current block, assigning it a fresh result
// register (written to instr.Dst, replacing any value already there) when
// hasResult is set, and returns that register (or NoRegister for void
// instructions like Store/Destroy/Print).
func (b *Builder) Emit(instr Instruction, hasResult bool) Register {
	if b.term == Terminated {
		panic("ir: Emit after block already terminated")
	}
	dst := NoRegister
	if hasResult {
		dst = b.newRegister()
		instr.Dst = dst
	}
	blk := b.group.Block(b.block)
	blk.Instrs = append(blk.Instrs, instr)
	return dst
}

// BindParam allocates a fresh register for one of the BlockGroup's declared
// Params, for a caller constructing a function body from scratch (e.g.
// internal/lower's synthesized struct special members) rather than
// lowering an existing AST function's parameter list.
func (b *Builder) BindParam(t TypeID) Register {
	reg := b.newRegister()
	b.group.Params = append(b.group.Params, Param{Type: t, Reg: reg})
	return reg
}

// TmpAlloca emits an Alloca in the entry block (per spec.md §4.2: "allocas
// live in the entry block" regardless of lexical position) and registers
// the resulting register for destruction at the current statement's scope
// exit.
func (b *Builder) TmpAlloca(t TypeID) Register {
	entry := b.group.Block(b.group.Entry)
	reg := b.newRegister()
	entry.Instrs = append(entry.Instrs, Instruction{
		Kind: InstrAlloca, Dst: reg, Alloca: AllocaInstr{Type: t},
	})
	b.pendingDestroy = append(b.pendingDestroy, reg)
	return reg
}

// ScopeDestroyList returns the registers acquired since base (from a
// previous Save) in reverse acquisition order, the sequence
// EndStatementScope destroys — matching the teacher's "destroy in reverse
// of acquisition" RAII discipline.
func (b *Builder) ScopeDestroyList(base Mark) []Register {
	pending := b.pendingDestroy[base.pendingLen:]
	out := make([]Register, len(pending))
	for i, r := range pending {
		out[len(pending)-1-i] = r
	}
	return out
}

// EndStatementScope emits Destroy instructions (with the given types, one
// per register, in the order ScopeDestroyList returned them) and drops
// them from the pending list, closing a statement's RAII scope.
func (b *Builder) EndStatementScope(base Mark, types []TypeID) {
	regs := b.ScopeDestroyList(base)
	if len(regs) != len(types) {
		panic(fmt.Sprintf("ir: EndStatementScope register/type count mismatch: %d vs %d", len(regs), len(types)))
	}
	for i, r := range regs {
		b.Emit(Instruction{Kind: InstrDestroy, Destroy: DestroyInstr{Addr: r, Type: types[i]}}, false)
	}
	b.pendingDestroy = b.pendingDestroy[:base.pendingLen]
}

// SetTerm installs cmd as the current block's terminator; a block may be
// terminated only once.
func (b *Builder) SetTerm(cmd JumpCmd) {
	blk := b.group.Block(b.block)
	if blk.Term.Kind != JumpNone {
		panic("ir: block already terminated")
	}
	blk.Term = cmd
	b.term = Terminated
}

// AddEdge records pred as a predecessor of succ, for validate.go's Phi
// incoming-list check.
func (b *Builder) AddEdge(pred, succ BlockID) {
	blk := b.group.Block(succ)
	blk.Incoming = append(blk.Incoming, pred)
}
