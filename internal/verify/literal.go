package verify

import (
	"icarus/internal/ast"
	"icarus/internal/ctx"
	"icarus/internal/types"
)

// verifyLiteral assigns the built-in type for a literal token. Numeric
// literals are left at WidthAny (untyped) so context (an annotation, a
// parameter type) can narrow them during implicit-cast checking; the
// verifier itself never guesses a concrete width.
func (v *Verifier) verifyLiteral(c *ctx.Context, expr ast.ExprID) types.QualType {
	_ = c
	data, ok := v.Builder.Exprs.Literal(expr)
	if !ok {
		return errorQT()
	}
	b := v.Types.Builtins()
	switch data.Kind {
	case ast.ExprLitInt:
		return types.QualType{Type: v.Types.Intern(types.MakeInt(types.WidthAny))}
	case ast.ExprLitUint:
		return types.QualType{Type: v.Types.Intern(types.MakeUint(types.WidthAny))}
	case ast.ExprLitFloat:
		return types.QualType{Type: b.F64}
	case ast.ExprLitString:
		return types.QualType{Type: v.Types.Intern(types.MakeSlice(b.Char))}
	case ast.ExprLitTrue, ast.ExprLitFalse:
		return types.QualType{Type: b.Bool}
	case ast.ExprLitNothing:
		return types.QualType{Type: types.NoTypeID}
	default:
		return errorQT()
	}
}
