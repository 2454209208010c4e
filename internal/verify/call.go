package verify

import (
	"errors"

	"icarus/internal/ast"
	"icarus/internal/ctx"
	"icarus/internal/diag"
	"icarus/internal/types"
)

// verifyCall implements §4.4's Call rule: verify arguments, verify the
// callee (ADL is the dispatch resolver's concern, §4.5), then resolve
// overloads.
func (v *Verifier) verifyCall(c *ctx.Context, expr ast.ExprID) types.QualType {
	data, ok := v.Builder.Exprs.Call(expr)
	if !ok {
		return errorQT()
	}

	args := make([]Arg, 0, len(data.Args))
	argFailed := false
	for _, a := range data.Args {
		qt := v.VerifyType(c, a.Value)
		if qt.IsError() {
			argFailed = true
		}
		name := ""
		if a.Name != 0 {
			name = v.Builder.StringsInterner.MustLookup(a.Name)
		}
		args = append(args, Arg{Name: name, QualType: qt, Constant: !qt.Quals.Has(types.QualRef)})
	}

	calleeQT := v.VerifyType(c, data.Target)
	if argFailed || calleeQT.IsError() {
		return errorQT()
	}

	candidates := candidatesOf(v.Types, calleeQT)
	if len(candidates) == 0 {
		return v.report(diag.CoreNonCallableInOverloadSet, expr, "callee is not callable")
	}
	if v.Dispatch == nil {
		return errorQT()
	}
	qt, err := v.Dispatch.ResolveCall(c, candidates, args)
	if err != nil {
		return v.report(dispatchDiagCode(err), expr, "%s", err.Error())
	}
	return qt
}

// dispatchDiagCode recovers the specific §4.5/§7 dispatch-failure code a
// DispatchError names, falling back to CoreTypeMismatch only for the
// aggregate multi-candidate failures that have no single kind to report.
func dispatchDiagCode(err error) diag.Code {
	var de *DispatchError
	if !errors.As(err, &de) {
		return diag.CoreTypeMismatch
	}
	switch de.Kind {
	case DispatchTooManyArguments:
		return diag.CoreTooManyArguments
	case DispatchNoParameterNamed:
		return diag.CoreNoParameterNamed
	case DispatchPositionalArgumentNamed:
		return diag.CorePositionalArgumentNamed
	case DispatchMissingNonDefaultable:
		return diag.CoreMissingNonDefaultableArguments
	case DispatchTypeMismatch:
		return diag.CoreTypeMismatch
	default:
		return diag.CoreTypeMismatch
	}
}

// candidatesOf expands calleeQT into the set of callable candidates: a
// single Function/GenericFunction is its own one-element set; an
// OverloadSet expands to its members.
func candidatesOf(in *types.Interner, calleeQT types.QualType) []types.TypeID {
	t, ok := in.Lookup(calleeQT.Type)
	if !ok {
		return nil
	}
	if t.Kind == types.KindOverloadSet {
		members, _ := in.OverloadSet(calleeQT.Type)
		return members
	}
	return []types.TypeID{calleeQT.Type}
}
