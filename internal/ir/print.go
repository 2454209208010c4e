package ir

import (
	"fmt"
	"io"
	"strings"
)

// Print renders a BlockGroup as human-readable text, for golden-file tests
// and for the DebugIr instruction's runtime effect. Grounded on the
// teacher's mir/print.go textual dumper, adapted from Local/Place to flat
// registers.
func Print(w io.Writer, name string, g *BlockGroup) error {
	if w == nil || g == nil {
		return nil
	}
	fmt.Fprintf(w, "fn %s(", name)
	for i, p := range g.Params {
		if i > 0 {
			fmt.Fprint(w, ", ")
		}
		fmt.Fprintf(w, "r%d: t%d", p.Reg, p.Type)
	}
	fmt.Fprintf(w, ") -> %s {\n", joinTypes(g.Outs))
	for i := range g.Blocks {
		printBlock(w, &g.Blocks[i])
	}
	fmt.Fprintln(w, "}")
	return nil
}

func joinTypes(ts []TypeID) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = fmt.Sprintf("t%d", t)
	}
	return strings.Join(parts, ", ")
}

func printBlock(w io.Writer, b *BasicBlock) {
	fmt.Fprintf(w, "  bb%d:\n", b.ID)
	for _, instr := range b.Instrs {
		fmt.Fprintf(w, "    %s\n", formatInstr(instr))
	}
	fmt.Fprintf(w, "    %s\n", formatJump(b.Term))
}

func formatInstr(instr Instruction) string {
	dst := ""
	if instr.Dst != NoRegister {
		dst = fmt.Sprintf("r%d = ", instr.Dst)
	}
	switch instr.Kind {
	case InstrArith:
		return fmt.Sprintf("%sarith.%d r%d, r%d", dst, instr.Arith.Op, instr.Arith.Lhs, instr.Arith.Rhs)
	case InstrCompare:
		return fmt.Sprintf("%scmp.%d r%d, r%d", dst, instr.Compare.Op, instr.Compare.Lhs, instr.Compare.Rhs)
	case InstrCast:
		return fmt.Sprintf("%scast r%d : t%d -> t%d", dst, instr.Cast.Value, instr.Cast.From, instr.Cast.To)
	case InstrLoad:
		return fmt.Sprintf("%sload r%d", dst, instr.Load.Addr)
	case InstrStore:
		return fmt.Sprintf("store r%d, r%d", instr.Store.Addr, instr.Store.Value)
	case InstrAlloca:
		return fmt.Sprintf("%salloca t%d", dst, instr.Alloca.Type)
	case InstrPtrIncr:
		return fmt.Sprintf("%sptr_incr r%d, r%d", dst, instr.PtrIncr.Base, instr.PtrIncr.Index)
	case InstrField:
		return fmt.Sprintf("%sfield r%d.%s[%d]", dst, instr.Field.Object, instr.Field.Name, instr.Field.Index)
	case InstrVariantType:
		return fmt.Sprintf("%svariant_type r%d", dst, instr.VariantType.Value)
	case InstrVariantValue:
		return fmt.Sprintf("%svariant_value r%d as t%d", dst, instr.VariantValue.Value, instr.VariantValue.As)
	case InstrCall:
		callee := instr.Call.StaticName
		if instr.Call.Kind == CalleeDynamic {
			callee = fmt.Sprintf("r%d", instr.Call.Dynamic)
		}
		return fmt.Sprintf("%scall %s(%s)", dst, callee, formatRegs(instr.Call.Args))
	case InstrPhi:
		return fmt.Sprintf("%sphi %s", dst, formatPhiIncoming(instr.Phi.Incoming))
	case InstrTypeCtor:
		return fmt.Sprintf("%stype_ctor.%d(%s)", dst, instr.TypeCtor.Kind, formatRegs(instr.TypeCtor.Operands))
	case InstrInit:
		return fmt.Sprintf("init r%d : t%d", instr.Init.Addr, instr.Init.Type)
	case InstrDestroy:
		return fmt.Sprintf("destroy r%d : t%d", instr.Destroy.Addr, instr.Destroy.Type)
	case InstrMove:
		return fmt.Sprintf("move r%d <- r%d", instr.Move.Dst, instr.Move.Src)
	case InstrCopy:
		return fmt.Sprintf("copy r%d <- r%d", instr.Copy.Dst, instr.Copy.Src)
	case InstrPrint:
		return fmt.Sprintf("print r%d", instr.Print.Value)
	case InstrDebugIr:
		return "debug_ir"
	case InstrConst:
		return fmt.Sprintf("%sconst.%d", dst, instr.Const.Kind)
	default:
		return "<unknown instr>"
	}
}

func formatRegs(regs []Register) string {
	parts := make([]string, len(regs))
	for i, r := range regs {
		parts[i] = fmt.Sprintf("r%d", r)
	}
	return strings.Join(parts, ", ")
}

func formatPhiIncoming(incoming []PhiIncoming) string {
	parts := make([]string, len(incoming))
	for i, in := range incoming {
		parts[i] = fmt.Sprintf("[bb%d: r%d]", in.Block, in.Value)
	}
	return strings.Join(parts, ", ")
}

func formatJump(term JumpCmd) string {
	switch term.Kind {
	case JumpUncond:
		return fmt.Sprintf("goto bb%d", term.Uncond.Target)
	case JumpCond:
		return fmt.Sprintf("if r%d then bb%d else bb%d", term.Cond.Cond, term.Cond.Then, term.Cond.Else)
	case JumpChoose:
		parts := make([]string, len(term.Choose.Names))
		for i, n := range term.Choose.Names {
			parts[i] = fmt.Sprintf("%s->bb%d(%s)", n, term.Choose.Blocks[i], formatRegs(term.Choose.Args[i]))
		}
		return "choose " + strings.Join(parts, ", ")
	case JumpReturn:
		return fmt.Sprintf("return %s", formatRegs(term.Return.Values))
	case JumpUnreachable:
		return "unreachable"
	default:
		return "<no terminator>"
	}
}
