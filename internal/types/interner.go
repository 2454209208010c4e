package types

import (
	"fmt"
	"sync"

	"fortio.org/safecast"

	"icarus/internal/source"
)

// Builtins stores TypeIDs for every language-level primitive.
type Builtins struct {
	Bool       TypeID
	I8, I16, I32, I64 TypeID
	U8, U16, U32, U64 TypeID
	F32, F64   TypeID
	Char       TypeID
	Type       TypeID
	Module     TypeID
	Scope      TypeID
	Block      TypeID
	JumpLabel  TypeID
	Label      TypeID
	NullPtr    TypeID
	EmptyArray TypeID
}

// Interner is the process-wide hash-consed Type Universe. Reads of stable
// TypeIDs are lock-free (a TypeID, once handed out, never changes meaning);
// insertion takes a single mutex, matching spec.md §5's "writers take a
// mutex per-bucket for insertion; reads are lock-free on stable handles" —
// simplified here to one mutex guarding the index map, since the dominant
// cost is the map probe, not contention between distinct buckets.
type Interner struct {
	mu       sync.RWMutex
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins

	Strings *source.Interner

	structs  []StructInfo
	aliases  []AliasInfo
	variants []VariantInfo
	enums    []EnumOrFlagsInfo
	tuples   []TupleInfo
	fns      []FnInfo
	jumps    []JumpInfo
	params   []TypeParamInfo
	generics []GenericInfo
	overloadSets []OverloadSetInfo

	tupleIndex   map[string]TypeID
	variantIndex map[string]TypeID
	fnIndex      map[string]TypeID

	traits map[TypeID]TraitSet
	layout map[TypeID]Layout
	target TargetLayout
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner(strings *source.Interner) *Interner {
	in := &Interner{
		index:   make(map[typeKey]TypeID, 256),
		Strings: strings,
		target:  DefaultTargetLayout(),
		traits:  make(map[TypeID]TraitSet),
		layout:  make(map[TypeID]Layout),
	}
	// Reserve slot 0 in every side table so Payload==0 means "none".
	in.structs = append(in.structs, StructInfo{})
	in.aliases = append(in.aliases, AliasInfo{})
	in.variants = append(in.variants, VariantInfo{})
	in.enums = append(in.enums, EnumOrFlagsInfo{})
	in.tuples = append(in.tuples, TupleInfo{})
	in.fns = append(in.fns, FnInfo{})
	in.jumps = append(in.jumps, JumpInfo{})
	in.params = append(in.params, TypeParamInfo{})
	in.generics = append(in.generics, GenericInfo{})
	in.overloadSets = append(in.overloadSets, OverloadSetInfo{})
	in.types = append(in.types, Type{Kind: KindInvalid}) // NoTypeID sentinel

	in.builtins.Bool = in.Intern(MakeBool())
	in.builtins.I8 = in.Intern(MakeInt(Width8))
	in.builtins.I16 = in.Intern(MakeInt(Width16))
	in.builtins.I32 = in.Intern(MakeInt(Width32))
	in.builtins.I64 = in.Intern(MakeInt(Width64))
	in.builtins.U8 = in.Intern(MakeUint(Width8))
	in.builtins.U16 = in.Intern(MakeUint(Width16))
	in.builtins.U32 = in.Intern(MakeUint(Width32))
	in.builtins.U64 = in.Intern(MakeUint(Width64))
	in.builtins.F32 = in.Intern(MakeFloat(Width32))
	in.builtins.F64 = in.Intern(MakeFloat(Width64))
	in.builtins.Char = in.Intern(MakeChar())
	in.builtins.Type = in.Intern(Type{Kind: KindType})
	in.builtins.Module = in.Intern(Type{Kind: KindModule})
	in.builtins.Scope = in.Intern(Type{Kind: KindScope})
	in.builtins.Block = in.Intern(Type{Kind: KindBlock})
	in.builtins.JumpLabel = in.Intern(Type{Kind: KindJumpLabel})
	in.builtins.Label = in.Intern(Type{Kind: KindLabel})
	in.builtins.NullPtr = in.Intern(Type{Kind: KindNullPtr})
	in.builtins.EmptyArray = in.Intern(Type{Kind: KindEmptyArray})

	for id := TypeID(1); int(id) < len(in.types); id++ {
		in.seedPrimitiveDerived(id)
	}
	return in
}

// Builtins returns the TypeIDs of every language primitive.
func (in *Interner) Builtins() Builtins { return in.builtins }

// Intern ensures the descriptor has a stable TypeID, returning the existing
// one if an equal descriptor was interned before.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := keyOf(t)
	in.mu.RLock()
	if id, ok := in.index[key]; ok {
		in.mu.RUnlock()
		return id
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.index[key]; ok {
		return id
	}
	id := in.internRawLocked(t)
	in.index[key] = id
	return id
}

// internRaw appends a descriptor without consulting or updating the
// equality index. Used for payload-bearing kinds (Struct, GenericStruct…)
// whose identity is "one handle per declaration", not structural equality —
// mirroring the teacher's RegisterStruct family, which never returns an
// existing TypeID for a second call.
func (in *Interner) internRaw(t Type) TypeID {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.internRawLocked(t)
}

func (in *Interner) internRawLocked(t Type) TypeID {
	idx, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("types: universe overflow: %w", err))
	}
	id := TypeID(idx)
	in.types = append(in.types, t)
	in.deriveTraitsAndLayoutLocked(id, t)
	return id
}

// Lookup returns the descriptor for id.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics on an invalid TypeID; used where the caller has already
// established validity (e.g. from a QualType produced by the Verifier).
func (in *Interner) MustLookup(id TypeID) Type {
	t, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("types: invalid TypeID %d", id))
	}
	return t
}

func (in *Interner) seedPrimitiveDerived(id TypeID) {
	in.deriveTraitsAndLayout(id, in.types[id])
}

// typeKey is the structural-equality key used by the hash-cons index. It
// intentionally mirrors Type's fields one-for-one, except Payload is
// excluded for kinds where identity is nominal rather than structural (see
// internRaw vs Intern above) — those kinds bypass the index entirely.
type typeKey struct {
	Kind  Kind
	Elem  TypeID
	Count uint64
	Width Width
}

func keyOf(t Type) typeKey {
	return typeKey{Kind: t.Kind, Elem: t.Elem, Count: t.Count, Width: t.Width}
}
