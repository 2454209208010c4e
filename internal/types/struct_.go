package types

import (
	"fmt"

	"fortio.org/safecast"

	"icarus/internal/source"
)

// Completeness tracks how much of a Struct's shape is known, per spec.md
// §3: a struct literal is registered Incomplete immediately (so
// self-reference through a pointer terminates), gains its field table at
// DataComplete, and becomes Complete once its special members are emitted.
type Completeness uint8

const (
	Incomplete Completeness = iota
	DataComplete
	Complete
)

func (c Completeness) atLeast(want Completeness) bool { return c >= want }

func (c Completeness) String() string {
	switch c {
	case Incomplete:
		return "incomplete"
	case DataComplete:
		return "data-complete"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// StructField describes one field of a Struct: name, type, source hashtags
// (`#{export}`, `#{uncopyable}`, …) and an optional default-value marker.
// The default expression itself lives on the AST/Value layer; the type
// universe only records whether one exists, since that is all trait
// derivation and the Lowerer's struct-completion IR need to know here.
type StructField struct {
	Name       source.StringID
	Type       TypeID
	Hashtags   []source.StringID
	HasDefault bool
	Exported   bool
}

// SpecialMembers records which of a struct's special member functions were
// user-supplied (as opposed to synthesised field-wise by the Lowerer's
// struct-completion pass, spec.md §4.7).
type SpecialMembers struct {
	UserCopyInit   bool
	UserMoveInit   bool
	UserCopyAssign bool
	UserMoveAssign bool
	UserDestroy    bool
}

// StructInfo is the side-table payload for a KindStruct TypeID.
type StructInfo struct {
	Module    source.StringID // defining module, for ADL (spec.md §4.5)
	Name      source.StringID // empty for anonymous struct literals
	Decl      source.Span
	Fields    []StructField
	Specials  SpecialMembers
	Completen Completeness

	HasUserDestructor bool // derived from Specials.UserDestroy, cached for traits.go
	Uncopyable        bool // `#{uncopyable}` hashtag on the struct itself
}

// RegisterIncompleteStruct allocates a fresh Struct TypeID with no fields
// yet, per the Verifier's StructLiteral rule ("allocate an incomplete
// Struct immediately and cache it... so self-reference terminates").
// Unlike primitive Intern, this never collapses two calls to the same
// TypeID: every struct literal in the program is a distinct nominal type,
// even if its eventual field table is identical to another's.
func (in *Interner) RegisterIncompleteStruct(module, name source.StringID, decl source.Span) TypeID {
	in.mu.Lock()
	defer in.mu.Unlock()
	slot := in.appendStructInfoLocked(StructInfo{Module: module, Name: name, Decl: decl, Completen: Incomplete})
	return in.internRawLocked(Type{Kind: KindStruct, Payload: slot})
}

// SetStructFields installs the field table, moving the struct to
// DataComplete, and invalidates cached traits so the next Traits() call
// re-derives them from the (now known) field types. Every cached layout is
// dropped as well, since a layout derived while this struct had no fields
// (its own, or that of a type containing it) no longer holds.
func (in *Interner) SetStructFields(id TypeID, fields []StructField) {
	in.mu.Lock()
	defer in.mu.Unlock()
	info := in.structInfoLocked(id)
	if info == nil {
		return
	}
	info.Fields = append([]StructField(nil), fields...)
	if info.Completen < DataComplete {
		info.Completen = DataComplete
	}
	delete(in.traits, id)
	clear(in.layout)
}

// SetStructSpecials records which special members were user-supplied and
// marks the struct Complete.
func (in *Interner) SetStructSpecials(id TypeID, sp SpecialMembers, uncopyable bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	info := in.structInfoLocked(id)
	if info == nil {
		return
	}
	info.Specials = sp
	info.HasUserDestructor = sp.UserDestroy
	info.Uncopyable = uncopyable
	info.Completen = Complete
	delete(in.traits, id)
}

// StructInfo returns a snapshot of the struct's metadata.
func (in *Interner) StructInfo(id TypeID) (*StructInfo, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	info := in.structInfoLocked(id)
	if info == nil {
		return nil, false
	}
	cp := *info
	return &cp, true
}

// Completeness reports how far along a struct's definition is.
func (in *Interner) Completeness(id TypeID) Completeness {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.completenessLocked(id)
}

func (in *Interner) completenessLocked(id TypeID) Completeness {
	info := in.structInfoLocked(id)
	if info == nil {
		return Complete // non-struct types are trivially "complete"
	}
	return info.Completen
}

func (in *Interner) structInfoLocked(id TypeID) *StructInfo {
	if int(id) >= len(in.types) {
		return nil
	}
	t := in.types[id]
	if t.Kind != KindStruct || t.Payload == 0 || int(t.Payload) >= len(in.structs) {
		return nil
	}
	return &in.structs[t.Payload]
}

func (in *Interner) tupleInfoLocked(id TypeID) *TupleInfo {
	if int(id) >= len(in.types) {
		return nil
	}
	t := in.types[id]
	if t.Kind != KindTuple || t.Payload == 0 || int(t.Payload) >= len(in.tuples) {
		return nil
	}
	return &in.tuples[t.Payload]
}

func (in *Interner) variantInfoLocked(id TypeID) *VariantInfo {
	if int(id) >= len(in.types) {
		return nil
	}
	t := in.types[id]
	if t.Kind != KindVariant || t.Payload == 0 || int(t.Payload) >= len(in.variants) {
		return nil
	}
	return &in.variants[t.Payload]
}

func (in *Interner) appendStructInfoLocked(info StructInfo) uint32 {
	in.structs = append(in.structs, info)
	slot, err := safecast.Conv[uint32](len(in.structs) - 1)
	if err != nil {
		panic(fmt.Errorf("types: struct table overflow: %w", err))
	}
	return slot
}

// AliasInfo is the side-table payload for a KindAlias TypeID, used for
// `T ::= U` nominal renaming: identical to U structurally but a distinct
// nominal identity for overload resolution and diagnostics.
type AliasInfo struct {
	Name   source.StringID
	Decl   source.Span
	Target TypeID
}

// RegisterAlias allocates a nominal alias type slot.
func (in *Interner) RegisterAlias(name source.StringID, decl source.Span, target TypeID) TypeID {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.aliases = append(in.aliases, AliasInfo{Name: name, Decl: decl, Target: target})
	slot, err := safecast.Conv[uint32](len(in.aliases) - 1)
	if err != nil {
		panic(fmt.Errorf("types: alias table overflow: %w", err))
	}
	return in.internRawLocked(Type{Kind: KindAlias, Payload: slot})
}

// AliasTarget returns the type an alias stands for.
func (in *Interner) AliasTarget(id TypeID) (TypeID, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.aliasTargetLocked(id)
}

func (in *Interner) aliasTargetLocked(id TypeID) (TypeID, bool) {
	if int(id) >= len(in.types) {
		return NoTypeID, false
	}
	t := in.types[id]
	if t.Kind != KindAlias || int(t.Payload) >= len(in.aliases) {
		return NoTypeID, false
	}
	return in.aliases[t.Payload].Target, true
}

// Resolve follows alias chains to the underlying structural type, used by
// CanCastImplicitly/Meet which operate on structure, not nominal identity.
func (in *Interner) Resolve(id TypeID) TypeID {
	for {
		target, ok := in.AliasTarget(id)
		if !ok {
			return id
		}
		id = target
	}
}
