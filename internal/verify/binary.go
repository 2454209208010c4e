package verify

import (
	"icarus/internal/ast"
	"icarus/internal/ctx"
	"icarus/internal/diag"
	"icarus/internal/types"
)

var compoundAssignOps = map[ast.ExprBinaryOp]bool{
	ast.ExprBinaryAddAssign: true, ast.ExprBinarySubAssign: true,
	ast.ExprBinaryMulAssign: true, ast.ExprBinaryDivAssign: true,
	ast.ExprBinaryModAssign: true, ast.ExprBinaryBitAndAssign: true,
	ast.ExprBinaryBitOrAssign: true, ast.ExprBinaryBitXorAssign: true,
	ast.ExprBinaryShlAssign: true, ast.ExprBinaryShrAssign: true,
}

var arithOps = map[ast.ExprBinaryOp]bool{
	ast.ExprBinaryAdd: true, ast.ExprBinarySub: true, ast.ExprBinaryMul: true,
	ast.ExprBinaryDiv: true, ast.ExprBinaryMod: true,
}

var flagOps = map[ast.ExprBinaryOp]bool{
	ast.ExprBinaryBitAnd: true, ast.ExprBinaryBitOr: true, ast.ExprBinaryBitXor: true,
}

// verifyBinary implements §4.4's BinaryOperator rule.
func (v *Verifier) verifyBinary(c *ctx.Context, expr ast.ExprID) types.QualType {
	data, ok := v.Builder.Exprs.Binary(expr)
	if !ok {
		return errorQT()
	}
	lhs := v.VerifyType(c, data.Left)
	rhs := v.VerifyType(c, data.Right)
	if lhs.IsError() || rhs.IsError() {
		return errorQT()
	}

	if compoundAssignOps[data.Op] {
		if !lhs.Quals.Has(types.QualRef) || lhs.Quals.Has(types.QualConst) {
			return v.report(diag.CoreInvalidAssignmentOperatorLhsValueCategory, expr,
				"compound assignment requires a mutable reference on the left-hand side")
		}
	}

	ltype, _ := v.Types.Lookup(lhs.Type)
	rtype, _ := v.Types.Lookup(rhs.Type)

	switch {
	case arithOps[data.Op] && sameNumericFamily(ltype, rtype):
		return types.QualType{Type: lhs.Type}
	case (data.Op == ast.ExprBinaryAdd || data.Op == ast.ExprBinarySub) &&
		ltype.Kind == types.KindBufferPointer && isIntegerKind(rtype.Kind):
		return types.QualType{Type: lhs.Type}
	case data.Op == ast.ExprBinarySub && ltype.Kind == types.KindBufferPointer &&
		rtype.Kind == types.KindBufferPointer && ltype.Elem == rtype.Elem:
		return types.QualType{Type: v.Types.Builtins().I64}
	case flagOps[data.Op]:
		if ltype.Kind == types.KindFlags && lhs.Type == rhs.Type {
			return types.QualType{Type: lhs.Type}
		}
		return v.report(diag.CoreLogicalAssignmentNeedsBoolOrFlags, expr,
			"flag operator requires matching Flags operands")
	}

	// Not a built-in pair: resolve via operator overload lookup (§4.5),
	// naming the overload set "operator<op>" the way a call's callee name
	// resolves through Scope.
	if v.Dispatch == nil {
		return v.report(diag.CoreNoMatchingBinaryOperator, expr,
			"no matching binary operator %q for these operand types", data.Op.String())
	}
	qt, err := v.Dispatch.ResolveCall(c, v.operatorCandidates(expr, data.Op.String()), []Arg{{QualType: lhs}, {QualType: rhs}})
	if err != nil {
		return v.report(diag.CoreNoMatchingBinaryOperator, expr, "%s", err.Error())
	}
	return qt
}

// operatorCandidates collects the overload-set TypeIDs visible for a named
// binary/unary operator, letting operator verification dispatch through the
// same Resolver path §4.5's Call rule uses instead of always supplying an
// empty candidate set.
func (v *Verifier) operatorCandidates(expr ast.ExprID, op string) []types.TypeID {
	if v.Scope == nil {
		return nil
	}
	decls, _ := v.Scope.Lookup(expr, "operator"+op)
	candidates := make([]types.TypeID, 0, len(decls))
	for _, d := range decls {
		if d.IsCallable {
			candidates = append(candidates, d.QualType.Type)
		}
	}
	return candidates
}

func sameNumericFamily(a, b types.Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case types.KindInt, types.KindUint, types.KindFloat:
		return a.Width == b.Width || a.Width == types.WidthAny || b.Width == types.WidthAny
	default:
		return false
	}
}

func isIntegerKind(k types.Kind) bool { return k == types.KindInt || k == types.KindUint }
