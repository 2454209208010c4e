package verify

import (
	"icarus/internal/ast"
	"icarus/internal/ctx"
	"icarus/internal/diag"
	"icarus/internal/types"
)

// verifyIdent implements §4.4's Identifier rule: collect all visible
// declarations of the name; a single match uses its qt (adding Ref for a
// non-constant local), multiple matches must all be Callable and become an
// OverloadSet, zero matches is Undeclared/UncapturedIdentifier.
func (v *Verifier) verifyIdent(c *ctx.Context, expr ast.ExprID) types.QualType {
	data, ok := v.Builder.Exprs.Ident(expr)
	if !ok {
		return errorQT()
	}
	name := v.Builder.StringsInterner.MustLookup(data.Name)

	if v.Scope == nil {
		return v.report(diag.CoreUndeclaredIdentifier, expr, "undeclared identifier %q", name)
	}
	decls, uncaptured := v.Scope.Lookup(expr, name)

	switch len(decls) {
	case 0:
		if uncaptured {
			return v.report(diag.CoreUncapturedIdentifier, expr,
				"%q exists but is not captured from an enclosing scope here", name)
		}
		return v.report(diag.CoreUndeclaredIdentifier, expr, "undeclared identifier %q", name)

	case 1:
		d := decls[0]
		if !d.IsConstant && d.RefPos < d.DeclPos {
			return v.report(diag.CoreDeclOutOfOrder, expr, "%q is used before its declaration", name)
		}
		qt := d.QualType
		if d.IsLocal && !d.IsConstant {
			qt.Quals |= types.QualRef
		}
		return qt

	default:
		for _, d := range decls {
			if !d.IsCallable {
				return v.report(diag.CoreNoMatchingBinaryOperator, expr,
					"multiple declarations of %q found, but not all are callable", name)
			}
		}
		members := make([]types.TypeID, len(decls))
		for i, d := range decls {
			members[i] = d.QualType.Type
		}
		c.SetAllOverloads(expr, members)
		ovl := v.Types.MakeOverloadSet(members)
		return types.QualType{Type: ovl}
	}
}
