package dispatch

import (
	"fmt"

	"icarus/internal/source"
	"icarus/internal/types"
	"icarus/internal/verify"
)

// matchOne matches args against one already-instantiated candidate,
// returning its result QualType or the reason matching failed. Only
// Function and Jump candidates carry a Params<TypeID> formal list to match
// against; a Struct candidate reached via GenericStruct instantiation has
// already consumed its arguments during instantiation; per §4.5 step 3
// ("GenericStruct... candidate pre-instantiation") the match here is
// trivially satisfied.
func matchOne(in *types.Interner, strings *source.Interner, concrete types.TypeID, t types.Type, args []verify.Arg) (types.QualType, error) {
	switch t.Kind {
	case types.KindFunction:
		fn, ok := in.Function(concrete)
		if !ok {
			return types.QualType{}, fmt.Errorf("no function info")
		}
		if err := matchParams(in, strings, fn.Params, args); err != nil {
			return types.QualType{}, err
		}
		return returnQualType(in, fn.Returns), nil
	case types.KindJump:
		jmp, ok := in.Jump(concrete)
		if !ok {
			return types.QualType{}, fmt.Errorf("no jump info")
		}
		if err := matchParams(in, strings, jmp.Params, args); err != nil {
			return types.QualType{}, err
		}
		return types.QualType{Type: concrete}, nil
	case types.KindStruct:
		// Reached only via a GenericStruct candidate already instantiated
		// against args (internal/mono consumed them); a bare Struct
		// reaching here as a callee is not itself callable.
		return types.QualType{Type: concrete, Quals: types.QualConst}, nil
	default:
		return types.QualType{}, fmt.Errorf("candidate is not callable")
	}
}

// returnQualType collapses a Function's (possibly multi-valued) Returns
// list to one QualType, tupling when there is more than one, matching
// spec.md's "multiple return values collapse to Tup" convention (§4.1).
func returnQualType(in *types.Interner, returns []types.TypeID) types.QualType {
	switch len(returns) {
	case 0:
		return types.QualType{Type: types.NoTypeID}
	case 1:
		return types.QualType{Type: returns[0]}
	default:
		return types.QualType{Type: in.MakeTuple(returns)}
	}
}

// matchParams implements §4.5's positional/named argument matching against
// one candidate's formal parameter list:
//
//   - every argument past params.Len() with no name is TooManyArguments;
//   - a named argument matching no formal is NoParameterNamed;
//   - a named argument whose formal already received a positional value is
//     PositionalArgumentNamed;
//   - any required (non-default) formal left unfilled is
//     MissingNonDefaultableArguments;
//   - a filled formal whose argument type cannot implicitly cast to the
//     formal's type is TypeMismatch.
func matchParams(in *types.Interner, strings *source.Interner, params types.Params[types.TypeID], args []verify.Arg) error {
	filled := make([]bool, params.Len())
	positionalIdx := 0

	for _, a := range args {
		var idx int
		if a.Name == "" {
			if positionalIdx >= params.Len() {
				return &verify.DispatchError{Kind: verify.DispatchTooManyArguments, Msg: "too many arguments"}
			}
			idx = positionalIdx
			positionalIdx++
		} else {
			found := false
			if strings != nil {
				sid := strings.Intern(a.Name)
				_, foundIdx, ok := params.ByName(sid)
				found = ok
				idx = foundIdx
			}
			if !found {
				return &verify.DispatchError{Kind: verify.DispatchNoParameterNamed, Msg: fmt.Sprintf("no parameter named %q", a.Name)}
			}
			if filled[idx] {
				return &verify.DispatchError{Kind: verify.DispatchPositionalArgumentNamed, Msg: fmt.Sprintf("parameter %q already has a positional argument", a.Name)}
			}
		}

		formal := params.At(idx)
		if !in.CanCastImplicitly(a.QualType.Type, formal.Value) {
			return &verify.DispatchError{Kind: verify.DispatchTypeMismatch, Msg: fmt.Sprintf("argument %d: type mismatch", idx)}
		}
		filled[idx] = true
	}

	for i, f := range params.All() {
		if !filled[i] && !f.HasDefault {
			return &verify.DispatchError{Kind: verify.DispatchMissingNonDefaultable, Msg: fmt.Sprintf("missing non-defaultable argument %d", i)}
		}
	}
	return nil
}
