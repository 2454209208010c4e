package verify

import (
	"icarus/internal/ast"
	"icarus/internal/ctx"
	"icarus/internal/diag"
	"icarus/internal/types"
)

// verifyIndex implements §4.4's Index rule: arrays, buffer-pointers,
// slices, and tuples (the last requiring a constant index) index to their
// element type.
func (v *Verifier) verifyIndex(c *ctx.Context, expr ast.ExprID) types.QualType {
	data, ok := v.Builder.Exprs.Index(expr)
	if !ok {
		return errorQT()
	}
	targetQT := v.VerifyType(c, data.Target)
	indexQT := v.VerifyType(c, data.Index)
	if targetQT.IsError() || indexQT.IsError() {
		return errorQT()
	}
	target, _ := v.Types.Lookup(targetQT.Type)

	switch target.Kind {
	case types.KindArray, types.KindBufferPointer, types.KindSlice:
		qt := types.QualType{Type: target.Elem}
		if targetQT.Quals.Has(types.QualRef) {
			qt.Quals |= types.QualRef
		}
		return qt
	case types.KindTuple:
		// `t[i]` on a tuple requires i to be a compile-time constant
		// position, resolved by the evaluator (§4.8) rather than here; the
		// fixed-field `.0`/`.1` syntax is ExprTupleIndex (verifyTupleIndex),
		// which carries its index directly in the AST and needs no
		// evaluator round-trip.
		return v.report(diag.CoreEvaluationFailure, expr,
			"tuple index must be a compile-time constant")
	default:
		return v.report(diag.CoreTypeMismatch, expr, "type is not indexable")
	}
}

// verifyTupleIndex implements the `.N` fixed-field tuple access, whose
// index is carried directly as an AST field (ExprTupleIndexData.Index),
// sidestepping the evaluator round-trip an `[i]`-bracket index would need.
func (v *Verifier) verifyTupleIndex(c *ctx.Context, expr ast.ExprID) types.QualType {
	data, ok := v.Builder.Exprs.TupleIndex(expr)
	if !ok {
		return errorQT()
	}
	targetQT := v.VerifyType(c, data.Target)
	if targetQT.IsError() {
		return errorQT()
	}
	elems, ok := v.Types.Tuple(targetQT.Type)
	if !ok || int(data.Index) >= len(elems) {
		return v.report(diag.CoreTypeMismatch, expr, "tuple index %d out of range", data.Index)
	}
	qt := types.QualType{Type: elems[data.Index]}
	if targetQT.Quals.Has(types.QualRef) {
		qt.Quals |= types.QualRef
	}
	return qt
}
