package verify

import (
	"icarus/internal/ast"
	"icarus/internal/ctx"
	"icarus/internal/diag"
	"icarus/internal/types"
)

// verifyCast implements §4.4's Cast rule.
func (v *Verifier) verifyCast(c *ctx.Context, expr ast.ExprID) types.QualType {
	data, ok := v.Builder.Exprs.Cast(expr)
	if !ok {
		return errorQT()
	}
	valueQT := v.VerifyType(c, data.Value)
	targetQT := v.VerifyType(c, data.RawType)
	if valueQT.IsError() || targetQT.IsError() {
		return errorQT()
	}
	targetType, _ := v.Types.Lookup(targetQT.Type)
	if targetType.Kind != types.KindType {
		return v.report(diag.CoreCastToNonConstantType, expr, "cast target must be a constant of kind Type")
	}
	if !v.Types.CanCastExplicitly(valueQT.Type, targetQT.Type) {
		return v.report(diag.CoreInvalidCast, expr, "invalid cast")
	}
	return types.QualType{Type: targetQT.Type}
}
