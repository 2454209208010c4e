package types

// TraitSet bundles the four derived trait flags every Type carries, per
// spec.md §3/§4.1: default-initialisable, copyable, movable, has-destructor.
type TraitSet struct {
	DefaultInitializable bool
	Copyable             bool
	Movable              bool
	HasDestructor        bool
}

// Traits returns the cached trait flags for id, deriving them on first
// request for payload kinds whose constituents were not yet known at
// Intern time (e.g. a Struct completed after its TypeID was minted).
func (in *Interner) Traits(id TypeID) TraitSet {
	in.mu.RLock()
	if ts, ok := in.traits[id]; ok {
		in.mu.RUnlock()
		return ts
	}
	t, ok := in.types[safeIndex(id, len(in.types))], id != NoTypeID && int(id) < len(in.types)
	in.mu.RUnlock()
	if !ok {
		return TraitSet{}
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.deriveTraitsAndLayoutLocked(id, t)
}

func safeIndex(id TypeID, n int) int {
	if int(id) < n {
		return int(id)
	}
	return 0
}

// RefreshTraits recomputes and re-caches id's traits; called by the Lowerer
// after a Struct transitions from Incomplete to Complete, since its field
// types (and therefore its traits) were unknown at Intern time.
func (in *Interner) RefreshTraits(id TypeID) TraitSet {
	in.mu.Lock()
	defer in.mu.Unlock()
	if id == NoTypeID || int(id) >= len(in.types) {
		return TraitSet{}
	}
	t := in.types[id]
	delete(in.traits, id)
	return in.deriveTraitsAndLayoutLocked(id, t)
}

func (in *Interner) deriveTraitsAndLayout(id TypeID, t Type) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.deriveTraitsAndLayoutLocked(id, t)
}

// deriveTraitsAndLayoutLocked implements the bottom-up propagation rules of
// spec.md §4.1:
//
//	Primitive traits are fixed constants.
//	Pointer/BufferPointer/Slice: all four traits true.
//	Array/Tuple/Variant/Struct: AND of constituents for copyable/movable/
//	  default-init; OR for has-destructor.
//	Function/Jump/Generic*/OverloadSet: copyable handles, not
//	  default-initialisable.
func (in *Interner) deriveTraitsAndLayoutLocked(id TypeID, t Type) TraitSet {
	var ts TraitSet
	switch t.Kind {
	case KindBool, KindInt, KindUint, KindFloat, KindChar,
		KindNullPtr, KindLabel, KindEmptyArray:
		ts = TraitSet{DefaultInitializable: true, Copyable: true, Movable: true}
	case KindPointer, KindBufferPointer, KindSlice:
		ts = TraitSet{DefaultInitializable: true, Copyable: true, Movable: true}
	case KindArray:
		elem := in.traits[t.Elem]
		ts = TraitSet{
			DefaultInitializable: elem.DefaultInitializable,
			Copyable:             elem.Copyable,
			Movable:              elem.Movable,
			HasDestructor:        elem.HasDestructor,
		}
	case KindTuple:
		info := in.tupleInfoLocked(id)
		ts = andOfConstituents(in, elemsOf(info))
	case KindVariant:
		info := in.variantInfoLocked(id)
		ts = andOfConstituents(in, elemsOf(info))
	case KindStruct:
		info := in.structInfoLocked(id)
		if info == nil || !in.completenessLocked(id).atLeast(DataComplete) {
			// Incomplete structs are conservatively given no traits; they
			// are refreshed via RefreshTraits once CompleteStructMembers
			// (the work-queue item, §4.9) finishes.
			ts = TraitSet{}
		} else {
			fieldTypes := make([]TypeID, len(info.Fields))
			for i, f := range info.Fields {
				fieldTypes[i] = f.Type
			}
			ts = andOfConstituents(in, fieldTypes)
			if info.HasUserDestructor {
				ts.HasDestructor = true
			}
			if info.Uncopyable {
				ts.Copyable = false
			}
		}
	case KindEnum, KindFlags:
		ts = TraitSet{DefaultInitializable: true, Copyable: true, Movable: true}
	case KindFunction, KindJump, KindGenericFunction, KindGenericStruct, KindOverloadSet,
		KindType, KindModule, KindScope, KindBlock, KindJumpLabel:
		ts = TraitSet{Copyable: true, Movable: true}
	case KindAlias:
		if target, ok := in.aliasTargetLocked(id); ok {
			ts = in.traits[target]
		}
	default:
		ts = TraitSet{}
	}
	in.traits[id] = ts
	in.deriveLayoutLocked(id, t, nil)
	return ts
}

func andOfConstituents(in *Interner, elems []TypeID) TraitSet {
	ts := TraitSet{DefaultInitializable: true, Copyable: true, Movable: true}
	for _, e := range elems {
		et := in.traits[e]
		ts.DefaultInitializable = ts.DefaultInitializable && et.DefaultInitializable
		ts.Copyable = ts.Copyable && et.Copyable
		ts.Movable = ts.Movable && et.Movable
		ts.HasDestructor = ts.HasDestructor || et.HasDestructor
	}
	return ts
}

func elemsOf(v any) []TypeID {
	switch info := v.(type) {
	case *TupleInfo:
		if info == nil {
			return nil
		}
		return info.Elems
	case *VariantInfo:
		if info == nil {
			return nil
		}
		return info.Members
	}
	return nil
}
