package verify

import (
	"icarus/internal/ast"
	"icarus/internal/ctx"
	"icarus/internal/diag"
	"icarus/internal/types"
)

// verifyUnary implements §4.4's UnaryOperator rule.
func (v *Verifier) verifyUnary(c *ctx.Context, expr ast.ExprID) types.QualType {
	data, ok := v.Builder.Exprs.Unary(expr)
	if !ok {
		return errorQT()
	}
	operandQT := v.VerifyType(c, data.Operand)
	if operandQT.IsError() {
		return errorQT()
	}
	operand, _ := v.Types.Lookup(operandQT.Type)

	switch data.Op {
	case ast.ExprUnaryRef, ast.ExprUnaryRefMut:
		// &e -> Ptr(type_of(e))
		return types.QualType{Type: v.Types.Intern(types.MakePointer(operandQT.Type))}

	case ast.ExprUnaryDeref:
		// @p requires a pointer/buffer-pointer operand.
		if operand.Kind != types.KindPointer && operand.Kind != types.KindBufferPointer {
			return v.report(diag.CoreInvalidCast, expr, "@ requires a pointer or buffer-pointer operand")
		}
		elem := operand.Elem
		qt := types.QualType{Type: elem, Quals: types.QualRef}
		return qt

	case ast.ExprUnaryNot, ast.ExprUnaryMinus:
		if data.Op == ast.ExprUnaryNot && operand.Kind == types.KindBool {
			return types.QualType{Type: operandQT.Type}
		}
		if data.Op == ast.ExprUnaryMinus && (operand.Kind == types.KindInt || operand.Kind == types.KindFloat) {
			return types.QualType{Type: operandQT.Type}
		}
		if v.Dispatch == nil {
			return v.report(diag.CoreNoMatchingBinaryOperator, expr,
				"no matching unary operator %q for this operand type", data.Op.String())
		}
		qt, err := v.Dispatch.ResolveCall(c, v.operatorCandidates(expr, data.Op.String()), []Arg{{QualType: operandQT}})
		if err != nil {
			return v.report(diag.CoreNoMatchingBinaryOperator, expr, "%s", err.Error())
		}
		return qt

	case ast.ExprUnaryEval:
		// $e requires a constant operand, lowered later by compile-time
		// evaluation instead of emitted as runtime IR.
		if operandQT.Quals&types.QualConst == 0 {
			return v.report(diag.CoreEvaluationFailure, expr, "$ operand must be constant")
		}
		return types.QualType{Type: operandQT.Type, Quals: types.QualConst}

	case ast.ExprUnaryBufferPointer:
		// [*]T constructs a buffer-pointer type from a type-valued operand.
		if operand.Kind != types.KindType {
			return v.report(diag.CoreInvalidCast, expr, "[*] requires a type operand")
		}
		return types.QualType{Type: v.Types.Intern(types.Type{Kind: types.KindType}), Quals: types.QualConst}

	case ast.ExprUnaryCopy:
		if !v.Types.Traits(operandQT.Type).Copyable {
			return v.report(diag.CoreInvalidCast, expr, "operand is not copyable")
		}
		return types.QualType{Type: operandQT.Type}

	case ast.ExprUnaryMove:
		if !v.Types.Traits(operandQT.Type).Movable {
			return v.report(diag.CoreInvalidCast, expr, "operand is not movable")
		}
		return types.QualType{Type: operandQT.Type}

	default:
		// own/await and other grammar-specific unary ops are out of this
		// core's verification scope; leave untouched (no diagnostic) so a
		// grammar-specific pass upstream can own them.
		return operandQT
	}
}
