package lower

import (
	"fmt"

	"icarus/internal/ast"
	"icarus/internal/ir"
	"icarus/internal/types"
)

var arithOpFor = map[ast.ExprBinaryOp]ir.ArithOp{
	ast.ExprBinaryAdd: ir.ArithAdd, ast.ExprBinarySub: ir.ArithSub,
	ast.ExprBinaryMul: ir.ArithMul, ast.ExprBinaryDiv: ir.ArithDiv,
	ast.ExprBinaryMod: ir.ArithMod, ast.ExprBinaryBitAnd: ir.ArithAnd,
	ast.ExprBinaryBitOr: ir.ArithOr, ast.ExprBinaryBitXor: ir.ArithXor,
	ast.ExprBinaryShiftLeft: ir.ArithShl, ast.ExprBinaryShiftRight: ir.ArithShr,
}

var compareOpFor = map[ast.ExprBinaryOp]ir.CompareOp{
	ast.ExprBinaryEq: ir.CompareEq, ast.ExprBinaryNotEq: ir.CompareNe,
	ast.ExprBinaryLess: ir.CompareLt, ast.ExprBinaryLessEq: ir.CompareLe,
	ast.ExprBinaryGreater: ir.CompareGt, ast.ExprBinaryGreaterEq: ir.CompareGe,
}

// lowerBinary emits a built-in arithmetic/compare pair or, for an
// assignment form, a Store through the lvalue's address (compound
// assignments first Load the current value, combine, then Store the
// result — the verifier already rejected anything not mutable-referenced
// on the left, per verify/binary.go's compoundAssignOps check).
func (l *Lowerer) lowerBinary(expr ast.ExprID) ir.Register {
	data, ok := l.Builder.Exprs.Binary(expr)
	if !ok {
		panic("lower: malformed binary expr")
	}

	if data.Op == ast.ExprBinaryAssign {
		addr := l.LowerLValue(data.Left)
		val := l.LowerExpr(data.Right)
		qt := l.qualType(data.Right)
		l.IR.Emit(ir.Instruction{Kind: ir.InstrStore, Store: ir.StoreInstr{Addr: addr, Value: val, Type: qt.Type}}, false)
		return val
	}

	if arith, isArith := arithOpFor[compoundBase(data.Op)]; isArith && isCompoundAssign(data.Op) {
		addr := l.LowerLValue(data.Left)
		qt := l.qualType(expr)
		cur := l.IR.Emit(ir.Instruction{Kind: ir.InstrLoad, Load: ir.LoadInstr{Addr: addr, Type: qt.Type}}, true)
		rhs := l.LowerExpr(data.Right)
		result := l.IR.Emit(ir.Instruction{Kind: ir.InstrArith, Arith: ir.ArithInstr{Op: arith, Lhs: cur, Rhs: rhs, Type: qt.Type}}, true)
		l.IR.Emit(ir.Instruction{Kind: ir.InstrStore, Store: ir.StoreInstr{Addr: addr, Value: result, Type: qt.Type}}, false)
		return result
	}

	lhs := l.LowerExpr(data.Left)
	rhs := l.LowerExpr(data.Right)
	qt := l.qualType(expr)

	if arith, ok := arithOpFor[data.Op]; ok {
		return l.IR.Emit(ir.Instruction{Kind: ir.InstrArith, Arith: ir.ArithInstr{Op: arith, Lhs: lhs, Rhs: rhs, Type: qt.Type}}, true)
	}
	if cmp, ok := compareOpFor[data.Op]; ok {
		return l.IR.Emit(ir.Instruction{Kind: ir.InstrCompare, Compare: ir.CompareInstr{Op: cmp, Lhs: lhs, Rhs: rhs}}, true)
	}

	// Operator-overload-resolved binary: the Verifier already picked the
	// concrete overload through Dispatch under the "operator<op>" name
	// (verify/binary.go's operatorCandidates); resolve the same name here
	// through the same Scope-lookup path lowerCall's staticCallee uses, and
	// emit a Call exactly as a named function call would.
	call := ir.CallInstr{Args: []ir.Register{lhs, rhs}, Type: qt.Type}
	if ref, ok := l.resolveStaticCallee(expr, "operator"+data.Op.String()); ok {
		call.Kind = ir.CalleeStatic
		call.StaticName = fmt.Sprintf("fn%d", ref)
	} else {
		panic(fmt.Sprintf("lower: no static overload registered for operator%s", data.Op.String()))
	}
	return l.IR.Emit(ir.Instruction{Kind: ir.InstrCall, Call: call}, true)
}

func isCompoundAssign(op ast.ExprBinaryOp) bool {
	switch op {
	case ast.ExprBinaryAddAssign, ast.ExprBinarySubAssign, ast.ExprBinaryMulAssign,
		ast.ExprBinaryDivAssign, ast.ExprBinaryModAssign, ast.ExprBinaryBitAndAssign,
		ast.ExprBinaryBitOrAssign, ast.ExprBinaryBitXorAssign, ast.ExprBinaryShlAssign,
		ast.ExprBinaryShrAssign:
		return true
	default:
		return false
	}
}

// compoundBase maps a compound-assignment operator to its plain arithmetic
// counterpart for the arithOpFor lookup.
func compoundBase(op ast.ExprBinaryOp) ast.ExprBinaryOp {
	switch op {
	case ast.ExprBinaryAddAssign:
		return ast.ExprBinaryAdd
	case ast.ExprBinarySubAssign:
		return ast.ExprBinarySub
	case ast.ExprBinaryMulAssign:
		return ast.ExprBinaryMul
	case ast.ExprBinaryDivAssign:
		return ast.ExprBinaryDiv
	case ast.ExprBinaryModAssign:
		return ast.ExprBinaryMod
	case ast.ExprBinaryBitAndAssign:
		return ast.ExprBinaryBitAnd
	case ast.ExprBinaryBitOrAssign:
		return ast.ExprBinaryBitOr
	case ast.ExprBinaryBitXorAssign:
		return ast.ExprBinaryBitXor
	case ast.ExprBinaryShlAssign:
		return ast.ExprBinaryShiftLeft
	case ast.ExprBinaryShrAssign:
		return ast.ExprBinaryShiftRight
	default:
		return op
	}
}

// lowerUnary emits a built-in unary operator: negation/not as a Arith
// combine against a zero/true constant is unnecessary here since this IR
// has no dedicated unary-arith instruction; instead it folds `-x` to
// `0 - x` and `not x` to `x == false`, and Ref/Deref to address-taking /
// Load, matching verify/unary.go's accepted operator set.
func (l *Lowerer) lowerUnary(expr ast.ExprID) ir.Register {
	data, ok := l.Builder.Exprs.Unary(expr)
	if !ok {
		panic("lower: malformed unary expr")
	}
	qt := l.qualType(expr)

	switch data.Op {
	case ast.ExprUnaryRef, ast.ExprUnaryRefMut:
		return l.LowerLValue(data.Operand)
	case ast.ExprUnaryDeref:
		operand := l.LowerExpr(data.Operand)
		return l.IR.Emit(ir.Instruction{Kind: ir.InstrLoad, Load: ir.LoadInstr{Addr: operand, Type: qt.Type}}, true)
	case ast.ExprUnaryPlus:
		return l.LowerExpr(data.Operand)
	case ast.ExprUnaryMinus:
		if ref, ok := l.resolveStaticCallee(expr, "operator"+data.Op.String()); ok {
			return l.lowerOperatorUnary(expr, ref, qt)
		}
		operand := l.LowerExpr(data.Operand)
		zero := l.IR.Emit(ir.Instruction{Kind: ir.InstrConst, Const: ir.ConstInstr{Kind: ir.ConstInt, Type: qt.Type}}, true)
		return l.IR.Emit(ir.Instruction{Kind: ir.InstrArith, Arith: ir.ArithInstr{Op: ir.ArithSub, Lhs: zero, Rhs: operand, Type: qt.Type}}, true)
	case ast.ExprUnaryNot:
		if ref, ok := l.resolveStaticCallee(expr, "operator"+data.Op.String()); ok {
			return l.lowerOperatorUnary(expr, ref, qt)
		}
		operand := l.LowerExpr(data.Operand)
		falseReg := l.IR.Emit(ir.Instruction{Kind: ir.InstrConst, Const: ir.ConstInstr{Kind: ir.ConstBool, Type: qt.Type, BoolValue: false}}, true)
		return l.IR.Emit(ir.Instruction{Kind: ir.InstrCompare, Compare: ir.CompareInstr{Op: ir.CompareEq, Lhs: operand, Rhs: falseReg}}, true)
	case ast.ExprUnaryEval:
		// The verifier already required a constant operand; this core has
		// no separate compile-time value representation, so the operand's
		// already-folded IR stands in for the evaluated result.
		return l.LowerExpr(data.Operand)
	case ast.ExprUnaryBufferPointer:
		operand := l.LowerExpr(data.Operand)
		return l.IR.Emit(ir.Instruction{Kind: ir.InstrTypeCtor, TypeCtor: ir.TypeCtorInstr{Kind: ir.TypeCtorBufPtr, Operands: []ir.Register{operand}}}, true)
	case ast.ExprUnaryCopy:
		src := l.LowerLValue(data.Operand)
		dst := l.IR.TmpAlloca(qt.Type)
		l.IR.Emit(ir.Instruction{Kind: ir.InstrCopy, Copy: ir.CopyInstr{Dst: dst, Src: src, Type: qt.Type}}, false)
		return l.IR.Emit(ir.Instruction{Kind: ir.InstrLoad, Load: ir.LoadInstr{Addr: dst, Type: qt.Type}}, true)
	case ast.ExprUnaryMove:
		src := l.LowerLValue(data.Operand)
		dst := l.IR.TmpAlloca(qt.Type)
		l.IR.Emit(ir.Instruction{Kind: ir.InstrMove, Move: ir.MoveInstr{Dst: dst, Src: src, Type: qt.Type}}, false)
		return l.IR.Emit(ir.Instruction{Kind: ir.InstrLoad, Load: ir.LoadInstr{Addr: dst, Type: qt.Type}}, true)
	default:
		panic("lower: unary operator not supported by this core")
	}
}

// lowerOperatorUnary emits a static call to a resolved unary operator
// overload, mirroring lowerBinary's operator-overload call path.
func (l *Lowerer) lowerOperatorUnary(expr ast.ExprID, ref int32, qt types.QualType) ir.Register {
	data, _ := l.Builder.Exprs.Unary(expr)
	operand := l.LowerExpr(data.Operand)
	call := ir.CallInstr{
		Args:       []ir.Register{operand},
		Type:       qt.Type,
		Kind:       ir.CalleeStatic,
		StaticName: fmt.Sprintf("fn%d", ref),
	}
	return l.IR.Emit(ir.Instruction{Kind: ir.InstrCall, Call: call}, true)
}
