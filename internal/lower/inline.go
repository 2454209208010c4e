package lower

import "icarus/internal/ir"

// Inliner splices a CompiledJump's blocks into a caller's BlockGroup,
// renumbering registers and block ids by the caller's current sizes and
// rewriting the jump's `Choose(names, targets, args)` terminators to
// concrete block targets picked from the caller's block-interpretation
// map — spec.md §4.7's "Scope / Jump / Block lowering" policy.
//
// Grounded on the teacher's `hir/lower_items.go`/mir inliner pattern and
// `original_source/ir/instruction/inliner.cc`'s `InstructionInliner`,
// which maintains exactly this register-offset-and-block-offset rewrite;
// this port keeps the same two-offset design but drops the teacher's
// extra async-state bookkeeping (async/await is out of this core's scope,
// per SPEC_FULL.md's non-goals).
type Inliner struct {
	RegOffset   ir.Register
	BlockOffset ir.BlockID
}

// NewInliner captures the caller BlockGroup's current register/block
// counts as the base offset every inlined reference is shifted by.
func NewInliner(caller *ir.BlockGroup) *Inliner {
	return &Inliner{
		RegOffset:   ir.Register(caller.NumRegs),
		BlockOffset: ir.BlockID(len(caller.Blocks)),
	}
}

func (in *Inliner) reg(r ir.Register) ir.Register {
	if r == ir.NoRegister {
		return ir.NoRegister
	}
	return r + in.RegOffset
}

func (in *Inliner) block(b ir.BlockID) ir.BlockID {
	if b == ir.NoBlockID {
		return ir.NoBlockID
	}
	return b + in.BlockOffset
}

// InlineBlocks appends jmp's blocks into caller, with every register and
// block reference shifted by the Inliner's offsets, and every Choose
// terminator resolved against continuations (the caller's named
// resumption blocks, e.g. a `scope`'s `before`/`after` handlers) instead
// of left as an unresolved named jump.
func (in *Inliner) InlineBlocks(caller *ir.BlockGroup, jmp *ir.CompiledJump, continuations map[string]ir.BlockID) {
	for _, blk := range jmp.Blocks {
		nb := ir.BasicBlock{
			ID:       in.block(blk.ID),
			Instrs:   make([]ir.Instruction, len(blk.Instrs)),
			Term:     in.rewriteTerm(blk.Term, continuations),
			Incoming: make([]ir.BlockID, len(blk.Incoming)),
		}
		for i, instr := range blk.Instrs {
			nb.Instrs[i] = in.rewriteInstr(instr)
		}
		for i, pred := range blk.Incoming {
			nb.Incoming[i] = in.block(pred)
		}
		caller.Blocks = append(caller.Blocks, nb)
	}
	caller.NumRegs += jmp.NumRegs
}

func (in *Inliner) rewriteTerm(term ir.JumpCmd, continuations map[string]ir.BlockID) ir.JumpCmd {
	out := term
	switch term.Kind {
	case ir.JumpUncond:
		out.Uncond.Target = in.block(term.Uncond.Target)
	case ir.JumpCond:
		out.Cond.Cond = in.reg(term.Cond.Cond)
		out.Cond.Then = in.block(term.Cond.Then)
		out.Cond.Else = in.block(term.Cond.Else)
	case ir.JumpChoose:
		// Resolve each named continuation to a concrete caller block,
		// collapsing JumpChoose into a JumpUncond when exactly one name is
		// live (the common case: a jump's body always resumes the same
		// named continuation) — spec.md's "matching the named continuation
		// against the block interpretation map".
		if len(term.Choose.Names) == 1 {
			if target, ok := continuations[term.Choose.Names[0]]; ok {
				out.Kind = ir.JumpUncond
				out.Uncond = ir.UncondJump{Target: target}
				out.Choose = ir.ChooseJump{}
				return out
			}
		}
		blocks := make([]ir.BlockID, len(term.Choose.Blocks))
		for i, b := range term.Choose.Blocks {
			if target, ok := continuations[term.Choose.Names[i]]; ok {
				blocks[i] = target
			} else {
				blocks[i] = in.block(b)
			}
		}
		args := make([][]ir.Register, len(term.Choose.Args))
		for i, regs := range term.Choose.Args {
			args[i] = in.regs(regs)
		}
		out.Choose = ir.ChooseJump{Names: term.Choose.Names, Blocks: blocks, Args: args}
	case ir.JumpReturn:
		out.Return.Values = in.regs(term.Return.Values)
	}
	return out
}

func (in *Inliner) regs(rs []ir.Register) []ir.Register {
	out := make([]ir.Register, len(rs))
	for i, r := range rs {
		out[i] = in.reg(r)
	}
	return out
}

func (in *Inliner) rewriteInstr(instr ir.Instruction) ir.Instruction {
	out := instr
	out.Dst = in.reg(instr.Dst)
	switch instr.Kind {
	case ir.InstrArith:
		out.Arith.Lhs, out.Arith.Rhs = in.reg(instr.Arith.Lhs), in.reg(instr.Arith.Rhs)
	case ir.InstrCompare:
		out.Compare.Lhs, out.Compare.Rhs = in.reg(instr.Compare.Lhs), in.reg(instr.Compare.Rhs)
	case ir.InstrCast:
		out.Cast.Value = in.reg(instr.Cast.Value)
	case ir.InstrLoad:
		out.Load.Addr = in.reg(instr.Load.Addr)
	case ir.InstrStore:
		out.Store.Addr, out.Store.Value = in.reg(instr.Store.Addr), in.reg(instr.Store.Value)
	case ir.InstrPtrIncr:
		out.PtrIncr.Base, out.PtrIncr.Index = in.reg(instr.PtrIncr.Base), in.reg(instr.PtrIncr.Index)
	case ir.InstrField:
		out.Field.Object = in.reg(instr.Field.Object)
	case ir.InstrVariantType:
		out.VariantType.Value = in.reg(instr.VariantType.Value)
	case ir.InstrVariantValue:
		out.VariantValue.Value = in.reg(instr.VariantValue.Value)
	case ir.InstrCall:
		out.Call.Args = in.regs(instr.Call.Args)
		out.Call.OutParams = in.regs(instr.Call.OutParams)
		if instr.Call.Kind == ir.CalleeDynamic {
			out.Call.Dynamic = in.reg(instr.Call.Dynamic)
		}
	case ir.InstrPhi:
		incoming := make([]ir.PhiIncoming, len(instr.Phi.Incoming))
		for i, inc := range instr.Phi.Incoming {
			incoming[i] = ir.PhiIncoming{Block: in.block(inc.Block), Value: in.reg(inc.Value)}
		}
		out.Phi.Incoming = incoming
	case ir.InstrTypeCtor:
		out.TypeCtor.Operands = in.regs(instr.TypeCtor.Operands)
	case ir.InstrInit:
		out.Init.Addr = in.reg(instr.Init.Addr)
	case ir.InstrDestroy:
		out.Destroy.Addr = in.reg(instr.Destroy.Addr)
	case ir.InstrMove:
		out.Move.Dst, out.Move.Src = in.reg(instr.Move.Dst), in.reg(instr.Move.Src)
	case ir.InstrCopy:
		out.Copy.Dst, out.Copy.Src = in.reg(instr.Copy.Dst), in.reg(instr.Copy.Src)
	case ir.InstrPrint:
		out.Print.Value = in.reg(instr.Print.Value)
	}
	return out
}
