// Package types implements the Type Universe: a hash-consed store of
// canonical value-types with derived size/alignment and trait flags.
package types

import "fmt"

// TypeID is a stable handle into the Interner. Equal TypeIDs denote
// structurally equal types; this is the hash-consing identity guarantee.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates every variant a Type can take.
type Kind uint8

const (
	KindInvalid Kind = iota

	// Primitives.
	KindBool
	KindInt
	KindUint
	KindFloat
	KindChar
	KindType
	KindModule
	KindScope
	KindBlock
	KindJumpLabel // "Jump" primitive (unparameterised `jump` keyword type)
	KindLabel
	KindNullPtr
	KindEmptyArray

	// Compound.
	KindPointer
	KindBufferPointer
	KindSlice
	KindArray
	KindTuple
	KindVariant
	KindEnum
	KindFlags
	KindStruct
	KindFunction
	KindJump

	// Generic / overload machinery.
	KindGenericFunction
	KindGenericStruct
	KindGenericParam
	KindOverloadSet

	// Nominal alias (not in spec.md's variant list verbatim, but required to
	// express `T ::= U` nominal renaming the way the teacher's alias kind
	// does; transparent to CanCastImplicitly/Meet).
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindChar:
		return "char"
	case KindType:
		return "type"
	case KindModule:
		return "module"
	case KindScope:
		return "scope"
	case KindBlock:
		return "block"
	case KindJumpLabel:
		return "jump-label"
	case KindLabel:
		return "label"
	case KindNullPtr:
		return "nullptr"
	case KindEmptyArray:
		return "empty-array"
	case KindPointer:
		return "pointer"
	case KindBufferPointer:
		return "buffer-pointer"
	case KindSlice:
		return "slice"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindVariant:
		return "variant"
	case KindEnum:
		return "enum"
	case KindFlags:
		return "flags"
	case KindStruct:
		return "struct"
	case KindFunction:
		return "function"
	case KindJump:
		return "jump"
	case KindGenericFunction:
		return "generic-function"
	case KindGenericStruct:
		return "generic-struct"
	case KindGenericParam:
		return "generic-param"
	case KindOverloadSet:
		return "overload-set"
	case KindAlias:
		return "alias"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of an integer/float primitive.
type Width uint8

const (
	WidthAny Width = 0 // unsized `int`/`uint`, used only for constant literals
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
)

// ArrayDynamicLength marks the element count of a Slice (as opposed to a
// fixed-length Array).
const ArrayDynamicLength = ^uint64(0)

// Type is the compact, copyable descriptor hash-consed by the Interner.
// It is intentionally small (a tag plus two words) so that copying a Type
// value is cheap and equality of two Types produced from the same
// constructor arguments is decided by field-wise comparison during
// interning, then collapses to pointer/ID identity afterwards.
type Type struct {
	Kind  Kind
	Elem  TypeID // Pointer/BufferPointer/Slice/Array element, Jump state
	Count uint64 // Array length, or WidthAny sentinel share for numerics (unused there)
	Width Width  // numeric primitives only

	// Payload indexes into one of the Interner's side tables (fns, structs,
	// variants, enums, tuples, params, generics) depending on Kind. Kept out
	// of the hot fields above so that the common primitive/pointer paths
	// never touch a side table.
	Payload uint32
}

// MakeBool, MakeChar, ... construct primitive descriptors directly; callers
// normally go through Interner.Intern so identical descriptors collapse to
// the same TypeID.

func MakeBool() Type { return Type{Kind: KindBool} }
func MakeChar() Type { return Type{Kind: KindChar} }

// MakeInt describes a signed integer of the given width (WidthAny is used
// only transiently for untyped integer constants before defaulting).
func MakeInt(width Width) Type { return Type{Kind: KindInt, Width: width} }

// MakeUint describes an unsigned integer type.
func MakeUint(width Width) Type { return Type{Kind: KindUint, Width: width} }

// MakeFloat describes a floating-point type.
func MakeFloat(width Width) Type { return Type{Kind: KindFloat, Width: width} }

// MakePointer describes *T.
func MakePointer(elem TypeID) Type { return Type{Kind: KindPointer, Elem: elem} }

// MakeBufferPointer describes [*]T, a pointer to the first element of a
// contiguous buffer of unknown length.
func MakeBufferPointer(elem TypeID) Type { return Type{Kind: KindBufferPointer, Elem: elem} }

// MakeSlice describes a runtime-length view over a contiguous buffer.
func MakeSlice(elem TypeID) Type { return Type{Kind: KindSlice, Elem: elem} }

// MakeArray describes [len; T], a fixed-length array.
func MakeArray(elem TypeID, length uint64) Type {
	return Type{Kind: KindArray, Elem: elem, Count: length}
}
