package verify

import (
	"icarus/internal/ast"
	"icarus/internal/ctx"
	"icarus/internal/types"
)

// verifyTuple types a tuple expression `(a, b, c)` as Tup(type_of(a),
// type_of(b), type_of(c)), per the Tup construction §4.1/§8 describes
// ("tuples of size 1 are distinct from their element").
func (v *Verifier) verifyTuple(c *ctx.Context, expr ast.ExprID) types.QualType {
	data, ok := v.Builder.Exprs.Tuple(expr)
	if !ok {
		return errorQT()
	}
	elems := make([]types.TypeID, 0, len(data.Elements))
	for _, e := range data.Elements {
		qt := v.VerifyType(c, e)
		if qt.IsError() {
			return errorQT()
		}
		elems = append(elems, qt.Type)
	}
	return types.QualType{Type: v.Types.MakeTuple(elems)}
}
