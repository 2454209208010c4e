package verify

import (
	"icarus/internal/ast"
	"icarus/internal/ctx"
	"icarus/internal/diag"
	"icarus/internal/types"
)

// verifyScopeNode implements §4.4's ScopeNode rule (`scope_name(args)
// [blocks]`): verify args and scope name, verify each block (and its
// enter/exit handlers, if named), then consult the scope's exit
// OverloadSet keyed on yield-argument tuples to determine the result type,
// merging across block expansions via Meet. A scope with no registered
// exit overload falls back to merging its blocks' own result types, which
// covers the common case of a scope that never yields early.
func (v *Verifier) verifyScopeNode(c *ctx.Context, expr ast.ExprID) types.QualType {
	data, ok := v.Builder.Exprs.Scope(expr)
	if !ok {
		return errorQT()
	}

	args := make([]Arg, 0, len(data.Args))
	failed := false
	for _, a := range data.Args {
		qt := v.VerifyType(c, a)
		if qt.IsError() {
			failed = true
		}
		args = append(args, Arg{QualType: qt, Constant: !qt.Quals.Has(types.QualRef)})
	}

	var results []types.QualType
	for _, blk := range data.Blocks {
		if blk.Body.IsValid() {
			qt := v.VerifyType(c, blk.Body)
			if qt.IsError() {
				failed = true
			} else {
				results = append(results, qt)
			}
		}
		if blk.Enter.IsValid() {
			if qt := v.VerifyType(c, blk.Enter); qt.IsError() {
				failed = true
			}
		}
		if blk.Exit.IsValid() {
			if qt := v.VerifyType(c, blk.Exit); qt.IsError() {
				failed = true
			}
		}
	}
	if failed {
		return errorQT()
	}

	name := v.Builder.StringsInterner.MustLookup(data.Name)

	if v.Dispatch != nil && v.Scope != nil {
		decls, _ := v.Scope.Lookup(expr, "scope:"+name)
		candidates := make([]types.TypeID, 0, len(decls))
		for _, d := range decls {
			if d.IsCallable {
				candidates = append(candidates, d.QualType.Type)
			}
		}
		if len(candidates) > 0 {
			if qt, err := v.Dispatch.ResolveCall(c, candidates, args); err == nil {
				return qt
			}
		}
	}

	if len(results) == 0 {
		return v.report(diag.CoreNonCallableInOverloadSet, expr, "scope %q has no exit overload and no block yields a value", name)
	}
	merged := results[0]
	for _, r := range results[1:] {
		merged.Type = v.Types.Meet(merged.Type, r.Type)
	}
	return merged
}
