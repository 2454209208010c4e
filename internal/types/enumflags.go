package types

import (
	"fmt"

	"fortio.org/safecast"

	"icarus/internal/source"
)

// EnumOrFlagsInfo is the shared side-table payload for KindEnum and
// KindFlags: a closed, nominal set of named constant values. Enum values
// are opaque (no arithmetic beyond equality); Flags values combine with
// bitwise operators, per spec.md's distinction between the two.
type EnumOrFlagsInfo struct {
	Module source.StringID
	Name   source.StringID
	Decl   source.Span
	Names  []source.StringID
	Values []uint64
}

// RegisterEnum allocates a nominal Enum type; two enum declarations with
// identical member names are still distinct types (nominal, like Struct).
func (in *Interner) RegisterEnum(module, name source.StringID, decl source.Span, names []source.StringID, values []uint64) TypeID {
	return in.registerEnumOrFlags(KindEnum, module, name, decl, names, values)
}

// RegisterFlags allocates a nominal Flags type.
func (in *Interner) RegisterFlags(module, name source.StringID, decl source.Span, names []source.StringID, values []uint64) TypeID {
	return in.registerEnumOrFlags(KindFlags, module, name, decl, names, values)
}

func (in *Interner) registerEnumOrFlags(kind Kind, module, name source.StringID, decl source.Span, names []source.StringID, values []uint64) TypeID {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.enums = append(in.enums, EnumOrFlagsInfo{
		Module: module,
		Name:   name,
		Decl:   decl,
		Names:  append([]source.StringID(nil), names...),
		Values: append([]uint64(nil), values...),
	})
	slot, err := safecast.Conv[uint32](len(in.enums) - 1)
	if err != nil {
		panic(fmt.Errorf("types: enum table overflow: %w", err))
	}
	return in.internRawLocked(Type{Kind: kind, Payload: slot})
}

// EnumInfo returns the member table for an Enum or Flags TypeID.
func (in *Interner) EnumInfo(id TypeID) (*EnumOrFlagsInfo, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) >= len(in.types) {
		return nil, false
	}
	t := in.types[id]
	if (t.Kind != KindEnum && t.Kind != KindFlags) || int(t.Payload) >= len(in.enums) {
		return nil, false
	}
	cp := in.enums[t.Payload]
	return &cp, true
}
