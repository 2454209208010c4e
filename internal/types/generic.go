package types

import (
	"fmt"

	"fortio.org/safecast"

	"icarus/internal/source"
)

// TypeParamKind distinguishes a generic parameter standing for a type
// (`$T`) from one standing for a compile-time value (`$n: i64`).
type TypeParamKind uint8

const (
	TypeParamIsType TypeParamKind = iota
	TypeParamIsValue
)

// TypeParamInfo is the side-table payload for a KindGenericParam TypeID.
type TypeParamInfo struct {
	Name      source.StringID
	Kind      TypeParamKind
	ValueType TypeID // for TypeParamIsValue: the type the bound value must have
}

// RegisterTypeParam allocates a fresh generic-parameter placeholder. Each
// `$T` occurrence in a distinct generic declaration gets its own nominal
// TypeID, mirroring Struct's registration story — substitution during
// instantiation (internal/mono) replaces the TypeID wholesale rather than
// mutating it.
func (in *Interner) RegisterTypeParam(name source.StringID, kind TypeParamKind, valueType TypeID) TypeID {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.params = append(in.params, TypeParamInfo{Name: name, Kind: kind, ValueType: valueType})
	slot, err := safecast.Conv[uint32](len(in.params) - 1)
	if err != nil {
		panic(fmt.Errorf("types: type-param table overflow: %w", err))
	}
	return in.internRawLocked(Type{Kind: KindGenericParam, Payload: slot})
}

// TypeParam returns the declared shape of a generic-parameter TypeID.
func (in *Interner) TypeParam(id TypeID) (*TypeParamInfo, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) >= len(in.types) {
		return nil, false
	}
	t := in.types[id]
	if t.Kind != KindGenericParam || int(t.Payload) >= len(in.params) {
		return nil, false
	}
	cp := in.params[t.Payload]
	return &cp, true
}

// GenericKind distinguishes a generic function declaration from a generic
// struct declaration, since both share the GenericInfo side table shape
// (a parameter list plus an opaque instantiation callback owned by the
// Generic Instantiator, component §6, not the type universe itself).
type GenericKind uint8

const (
	GenericIsFunction GenericKind = iota
	GenericIsStruct
)

// GenericInfo is the side-table payload for KindGenericFunction and
// KindGenericStruct TypeIDs. The type universe only records the parameter
// list and declaration site; the Generic Instantiator (internal/mono) owns
// the body/field-list template and memoisation, looked up by AST id.
type GenericInfo struct {
	GenKind GenericKind
	Module  source.StringID
	Name    source.StringID
	Decl    source.Span
	Params  []TypeID // KindGenericParam TypeIDs, in declaration order
}

// RegisterGenericFunction allocates a nominal generic-function type.
func (in *Interner) RegisterGenericFunction(module, name source.StringID, decl source.Span, params []TypeID) TypeID {
	return in.registerGeneric(GenericIsFunction, module, name, decl, params)
}

// RegisterGenericStruct allocates a nominal generic-struct type.
func (in *Interner) RegisterGenericStruct(module, name source.StringID, decl source.Span, params []TypeID) TypeID {
	return in.registerGeneric(GenericIsStruct, module, name, decl, params)
}

func (in *Interner) registerGeneric(kind GenericKind, module, name source.StringID, decl source.Span, params []TypeID) TypeID {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.generics = append(in.generics, GenericInfo{
		GenKind: kind, Module: module, Name: name, Decl: decl,
		Params: append([]TypeID(nil), params...),
	})
	slot, err := safecast.Conv[uint32](len(in.generics) - 1)
	if err != nil {
		panic(fmt.Errorf("types: generic table overflow: %w", err))
	}
	tk := KindGenericFunction
	if kind == GenericIsStruct {
		tk = KindGenericStruct
	}
	return in.internRawLocked(Type{Kind: tk, Payload: slot})
}

// Generic returns the declared parameter list for a generic TypeID.
func (in *Interner) Generic(id TypeID) (*GenericInfo, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) >= len(in.types) {
		return nil, false
	}
	t := in.types[id]
	if (t.Kind != KindGenericFunction && t.Kind != KindGenericStruct) || int(t.Payload) >= len(in.generics) {
		return nil, false
	}
	cp := in.generics[t.Payload]
	return &cp, true
}
