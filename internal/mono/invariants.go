package mono

import "icarus/internal/types"

// typeArgsAreConcrete is spec.md §4.6 step 2's precondition: substitution
// only proceeds once every argument type is itself free of generic
// parameters (an argument that is still generic means the call site is
// itself inside an uninstantiated generic body, which the dispatch resolver
// handles by deferring rather than asking the instantiator to substitute).
func typeArgsAreConcrete(typesIn *types.Interner, args []types.TypeID) bool {
	if len(args) == 0 {
		return true
	}
	if typesIn == nil {
		return false
	}
	for _, a := range args {
		if a == types.NoTypeID {
			return false
		}
		if typeContainsGenericParam(typesIn, a, make(map[types.TypeID]struct{})) {
			return false
		}
	}
	return true
}

// typeContainsGenericParam walks id's structure looking for a KindGenericParam
// leaf, memoising visited TypeIDs against cycles (a recursive struct field
// pointing back at its own generic template).
func typeContainsGenericParam(typesIn *types.Interner, id types.TypeID, seen map[types.TypeID]struct{}) bool {
	if typesIn == nil || id == types.NoTypeID {
		return false
	}
	if _, ok := seen[id]; ok {
		return false
	}
	seen[id] = struct{}{}

	tt, ok := typesIn.Lookup(id)
	if !ok {
		return false
	}

	switch tt.Kind {
	case types.KindGenericParam:
		return true

	case types.KindPointer, types.KindBufferPointer, types.KindSlice, types.KindArray:
		return typeContainsGenericParam(typesIn, tt.Elem, seen)

	case types.KindTuple:
		elems, ok := typesIn.Tuple(id)
		if !ok {
			return false
		}
		for _, el := range elems {
			if typeContainsGenericParam(typesIn, el, seen) {
				return true
			}
		}
		return false

	case types.KindVariant:
		members, ok := typesIn.Variant(id)
		if !ok {
			return false
		}
		for _, m := range members {
			if typeContainsGenericParam(typesIn, m, seen) {
				return true
			}
		}
		return false

	case types.KindFunction:
		info, ok := typesIn.Function(id)
		if !ok || info == nil {
			return false
		}
		for i := 0; i < info.Params.Len(); i++ {
			if typeContainsGenericParam(typesIn, info.Params.At(i).Value, seen) {
				return true
			}
		}
		for _, r := range info.Returns {
			if typeContainsGenericParam(typesIn, r, seen) {
				return true
			}
		}
		return false

	case types.KindStruct:
		info, ok := typesIn.StructInfo(id)
		if !ok || info == nil {
			return false
		}
		for _, f := range info.Fields {
			if typeContainsGenericParam(typesIn, f.Type, seen) {
				return true
			}
		}
		return false

	case types.KindAlias:
		target, ok := typesIn.AliasTarget(id)
		if !ok {
			return false
		}
		return typeContainsGenericParam(typesIn, target, seen)

	default:
		return false
	}
}
