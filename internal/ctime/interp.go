package ctime

import (
	"fmt"

	"icarus/internal/ctx"
	"icarus/internal/ir"
)

// refInterp walks a call-free ir.CompiledFn register by register, following
// Uncond/Cond jumps between its blocks under a step budget, covering the
// constant-expression subset real programs need folded at compile time
// (integer/bool/float arithmetic and comparisons, casts). Grounded on the
// teacher's internal/vm: execInstr/evalOperand/evalBinaryOp's
// dispatch-by-instruction-kind shape (vm.go), simplified to have no
// call/async support — those need the full bytecode VM this package
// deliberately doesn't port.
type refInterp struct{}

func (r *refInterp) Interpret(fn *ir.CompiledFn, args []ctx.Value) (ctx.Value, error) {
	if fn == nil || len(fn.Blocks) == 0 {
		return ctx.Value{}, fmt.Errorf("ctime: empty function")
	}
	regs := make([]ctx.Value, fn.NumRegs)
	for i, p := range fn.Params {
		if i < len(args) {
			regs[p.Reg] = args[i]
		}
	}

	block := fn.Block(fn.Entry)
	for steps := 0; block != nil; steps++ {
		if steps > 1_000_000 {
			return ctx.Value{}, fmt.Errorf("ctime: step budget exceeded (unbounded loop?)")
		}
		for _, instr := range block.Instrs {
			v, err := r.execInstr(regs, instr)
			if err != nil {
				return ctx.Value{}, err
			}
			if instr.Dst != ir.NoRegister {
				regs[instr.Dst] = v
			}
		}
		switch block.Term.Kind {
		case ir.JumpReturn:
			vals := block.Term.Return.Values
			if len(vals) == 0 {
				return ctx.Value{}, nil
			}
			return regs[vals[0]], nil
		case ir.JumpUncond:
			block = fn.Block(block.Term.Uncond.Target)
		case ir.JumpCond:
			if regs[block.Term.Cond.Cond].Bool {
				block = fn.Block(block.Term.Cond.Then)
			} else {
				block = fn.Block(block.Term.Cond.Else)
			}
		default:
			return ctx.Value{}, fmt.Errorf("ctime: terminator kind %v needs the full interpreter", block.Term.Kind)
		}
	}
	return ctx.Value{}, fmt.Errorf("ctime: function never reached a Return")
}

func (r *refInterp) execInstr(regs []ctx.Value, instr ir.Instruction) (ctx.Value, error) {
	switch instr.Kind {
	case ir.InstrConst:
		return constValue(instr.Const), nil
	case ir.InstrArith:
		return r.evalArith(instr.Arith, regs)
	case ir.InstrCompare:
		return r.evalCompare(instr.Compare, regs)
	case ir.InstrCast:
		return evalCast(regs[instr.Cast.Value]), nil
	default:
		return ctx.Value{}, fmt.Errorf("ctime: instruction kind %v needs the full interpreter", instr.Kind)
	}
}

func constValue(c ir.ConstInstr) ctx.Value {
	switch c.Kind {
	case ir.ConstInt:
		return ctx.Value{Kind: ctx.ValueInt, Int: c.IntValue}
	case ir.ConstUint:
		return ctx.Value{Kind: ctx.ValueUint, Uint: c.UintValue}
	case ir.ConstFloat:
		return ctx.Value{Kind: ctx.ValueFloat, Float: c.FloatValue}
	case ir.ConstBool:
		return ctx.Value{Kind: ctx.ValueBool, Bool: c.BoolValue}
	default:
		return ctx.Value{}
	}
}

func (r *refInterp) evalArith(a ir.ArithInstr, regs []ctx.Value) (ctx.Value, error) {
	lhs, rhs := regs[a.Lhs], regs[a.Rhs]
	if lhs.Kind == ctx.ValueFloat || rhs.Kind == ctx.ValueFloat {
		l, rr := asFloat(lhs), asFloat(rhs)
		var out float64
		switch a.Op {
		case ir.ArithAdd:
			out = l + rr
		case ir.ArithSub:
			out = l - rr
		case ir.ArithMul:
			out = l * rr
		case ir.ArithDiv:
			if rr == 0 {
				return ctx.Value{}, fmt.Errorf("ctime: division by zero")
			}
			out = l / rr
		default:
			return ctx.Value{}, fmt.Errorf("ctime: arithmetic op %v not valid on floats", a.Op)
		}
		return ctx.Value{Kind: ctx.ValueFloat, Float: out}, nil
	}
	if lhs.Kind == ctx.ValueUint || rhs.Kind == ctx.ValueUint {
		l, rr := asUint(lhs), asUint(rhs)
		out, err := applyIntOp(a.Op, l, rr)
		if err != nil {
			return ctx.Value{}, err
		}
		return ctx.Value{Kind: ctx.ValueUint, Uint: out}, nil
	}
	l, rr := uint64(asInt(lhs)), uint64(asInt(rhs))
	out, err := applyIntOp(a.Op, l, rr)
	if err != nil {
		return ctx.Value{}, err
	}
	return ctx.Value{Kind: ctx.ValueInt, Int: int64(out)}, nil
}

func applyIntOp(op ir.ArithOp, l, rr uint64) (uint64, error) {
	switch op {
	case ir.ArithAdd:
		return l + rr, nil
	case ir.ArithSub:
		return l - rr, nil
	case ir.ArithMul:
		return l * rr, nil
	case ir.ArithDiv:
		if rr == 0 {
			return 0, fmt.Errorf("ctime: division by zero")
		}
		return l / rr, nil
	case ir.ArithMod:
		if rr == 0 {
			return 0, fmt.Errorf("ctime: modulo by zero")
		}
		return l % rr, nil
	case ir.ArithAnd:
		return l & rr, nil
	case ir.ArithOr:
		return l | rr, nil
	case ir.ArithXor:
		return l ^ rr, nil
	case ir.ArithShl:
		return l << rr, nil
	case ir.ArithShr:
		return l >> rr, nil
	default:
		return 0, fmt.Errorf("ctime: unknown arithmetic op %v", op)
	}
}

func (r *refInterp) evalCompare(c ir.CompareInstr, regs []ctx.Value) (ctx.Value, error) {
	lhs, rhs := regs[c.Lhs], regs[c.Rhs]
	var cmp int
	switch {
	case lhs.Kind == ctx.ValueFloat || rhs.Kind == ctx.ValueFloat:
		l, rr := asFloat(lhs), asFloat(rhs)
		cmp = floatCmp(l, rr)
	case lhs.Kind == ctx.ValueBool:
		cmp = boolCmp(lhs.Bool, rhs.Bool)
	default:
		l, rr := asInt(lhs), asInt(rhs)
		cmp = intCmp(l, rr)
	}
	var out bool
	switch c.Op {
	case ir.CompareEq:
		out = cmp == 0
	case ir.CompareNe:
		out = cmp != 0
	case ir.CompareLt:
		out = cmp < 0
	case ir.CompareLe:
		out = cmp <= 0
	case ir.CompareGt:
		out = cmp > 0
	case ir.CompareGe:
		out = cmp >= 0
	default:
		return ctx.Value{}, fmt.Errorf("ctime: unknown compare op %v", c.Op)
	}
	return ctx.Value{Kind: ctx.ValueBool, Bool: out}, nil
}

func evalCast(v ctx.Value) ctx.Value {
	// Constant-subset casts only need to carry a value across the IR's
	// Type boundary; numeric coercion is resolved by the Value's own Kind,
	// which the Verifier has already checked CanCastExplicitly against.
	return v
}

func asFloat(v ctx.Value) float64 {
	switch v.Kind {
	case ctx.ValueFloat:
		return v.Float
	case ctx.ValueInt:
		return float64(v.Int)
	case ctx.ValueUint:
		return float64(v.Uint)
	default:
		return 0
	}
}

func asInt(v ctx.Value) int64 {
	switch v.Kind {
	case ctx.ValueInt:
		return v.Int
	case ctx.ValueUint:
		return int64(v.Uint)
	default:
		return 0
	}
}

func asUint(v ctx.Value) uint64 {
	switch v.Kind {
	case ctx.ValueUint:
		return v.Uint
	case ctx.ValueInt:
		return uint64(v.Int)
	default:
		return 0
	}
}

func floatCmp(l, r float64) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

func intCmp(l, r int64) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

func boolCmp(l, r bool) int {
	if l == r {
		return 0
	}
	if !l {
		return -1
	}
	return 1
}
