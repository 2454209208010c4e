package types

import (
	"fmt"
	"strings"
)

// TargetLayout captures the ABI assumptions trait/layout derivation is
// computed against. A single process-wide value today (the host's pointer
// width), but kept as a field on Interner rather than a package constant so
// a future cross-compiling driver can swap it per module.
type TargetLayout struct {
	PointerSize  uint64
	PointerAlign uint64
}

// DefaultTargetLayout assumes a 64-bit host, matching every platform the
// Lowerer currently targets.
func DefaultTargetLayout() TargetLayout {
	return TargetLayout{PointerSize: 8, PointerAlign: 8}
}

// Layout is the derived size/alignment of a Type, cached alongside its
// TraitSet. Struct/Tuple/Array layouts are computed after their element
// types are known; primitives and pointer-likes are computed eagerly at
// Intern time from TargetLayout.
type Layout struct {
	Size  uint64
	Align uint64
}

// LayoutErrorKind enumerates ways a Layout can fail to be derived.
type LayoutErrorKind uint8

const (
	// LayoutErrRecursiveUnsized marks a value type whose layout recurses
	// into itself (through Struct/Tuple/Array/Variant/Alias members) without
	// ever crossing a Pointer/Reference/Slice indirection, so it has no
	// finite size.
	LayoutErrRecursiveUnsized LayoutErrorKind = iota + 1
)

// LayoutError reports why id has no derivable Layout.
type LayoutError struct {
	Kind  LayoutErrorKind
	Type  TypeID
	Cycle []TypeID // populated for LayoutErrRecursiveUnsized
}

func (e *LayoutError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case LayoutErrRecursiveUnsized:
		parts := make([]string, 0, len(e.Cycle))
		for _, id := range e.Cycle {
			parts = append(parts, fmt.Sprintf("type#%d", id))
		}
		return fmt.Sprintf("recursive value type has infinite size (cycle: %s)", strings.Join(parts, " -> "))
	default:
		return fmt.Sprintf("layout error kind=%d type#%d", e.Kind, e.Type)
	}
}

// Layout returns the cached size/alignment for id, deriving it on first
// request the same way Traits does. The bool is false only when id itself
// is not a known TypeID; a recursive-unsized type still reports true with
// a zero Layout — callers that must distinguish the two use LayoutOrError.
func (in *Interner) Layout(id TypeID) (Layout, bool) {
	l, _, ok := in.layoutChecked(id)
	return l, ok
}

// LayoutOrError derives id's Layout, failing with a LayoutErrRecursiveUnsized
// error instead of looping forever when a struct/tuple/array/variant embeds
// itself by value.
func (in *Interner) LayoutOrError(id TypeID) (Layout, error) {
	l, lerr, ok := in.layoutChecked(id)
	if !ok {
		return Layout{}, nil
	}
	if lerr != nil {
		return Layout{}, lerr
	}
	return l, nil
}

func (in *Interner) layoutChecked(id TypeID) (Layout, *LayoutError, bool) {
	in.mu.RLock()
	if l, ok := in.layout[id]; ok {
		in.mu.RUnlock()
		return l, nil, true
	}
	t, ok := in.types[safeIndex(id, len(in.types))], id != NoTypeID && int(id) < len(in.types)
	in.mu.RUnlock()
	if !ok {
		return Layout{}, nil, false
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	l, lerr := in.deriveLayoutLocked(id, t, nil)
	return l, lerr, true
}

// cycleIn reports whether id already occurs in path, returning the cycle
// (path from id's first occurrence through the repeat) for diagnostics.
func cycleIn(path []TypeID, id TypeID) []TypeID {
	for i, p := range path {
		if p == id {
			cyc := append([]TypeID{}, path[i:]...)
			return append(cyc, id)
		}
	}
	return nil
}

func (in *Interner) deriveLayoutLocked(id TypeID, t Type, path []TypeID) (Layout, *LayoutError) {
	if l, ok := in.layout[id]; ok {
		return l, nil
	}
	if cyc := cycleIn(path, id); cyc != nil {
		return Layout{}, &LayoutError{Kind: LayoutErrRecursiveUnsized, Type: id, Cycle: cyc}
	}
	path = append(path, id)

	var l Layout
	var lerr *LayoutError
	switch t.Kind {
	case KindBool, KindChar:
		l = Layout{Size: 1, Align: 1}
	case KindInt, KindUint, KindFloat:
		w := uint64(t.Width)
		if w == 0 {
			w = 64
		}
		bytes := w / 8
		l = Layout{Size: bytes, Align: bytes}
	case KindPointer, KindBufferPointer, KindNullPtr, KindJumpLabel, KindLabel:
		l = Layout{Size: in.target.PointerSize, Align: in.target.PointerAlign}
	case KindSlice:
		// {data *T, len uint} — two machine words.
		l = Layout{Size: 2 * in.target.PointerSize, Align: in.target.PointerAlign}
	case KindArray:
		var elemLayout Layout
		elemLayout, lerr = in.layoutOfLocked(t.Elem, path)
		if lerr == nil {
			l = Layout{Size: elemLayout.Size * t.Count, Align: elemLayout.Align}
			if l.Align == 0 {
				l.Align = 1
			}
		}
	case KindEmptyArray:
		l = Layout{Size: 0, Align: 1}
	case KindTuple:
		info := in.tupleInfoLocked(id)
		l, lerr = in.sequentialLayoutLocked(elemsOf(info), path)
	case KindStruct:
		info := in.structInfoLocked(id)
		if info == nil || !in.completenessLocked(id).atLeast(DataComplete) {
			l = Layout{}
		} else {
			fieldTypes := make([]TypeID, len(info.Fields))
			for i, f := range info.Fields {
				fieldTypes[i] = f.Type
			}
			l, lerr = in.sequentialLayoutLocked(fieldTypes, path)
		}
	case KindVariant:
		info := in.variantInfoLocked(id)
		l, lerr = in.unionLayoutLocked(elemsOf(info), path)
	case KindEnum, KindFlags:
		l = Layout{Size: 4, Align: 4} // stored as i32 discriminant/bitset
	case KindAlias:
		if target, ok := in.aliasTargetLocked(id); ok {
			l, lerr = in.layoutOfLocked(target, path)
		}
	default:
		l = Layout{} // handles (Function, Jump, OverloadSet, Generic*) have no value layout
	}
	if lerr != nil {
		return Layout{}, lerr
	}
	in.layout[id] = l
	return l, nil
}

func (in *Interner) layoutOfLocked(id TypeID, path []TypeID) (Layout, *LayoutError) {
	if l, ok := in.layout[id]; ok {
		return l, nil
	}
	if int(id) >= len(in.types) {
		return Layout{}, nil
	}
	return in.deriveLayoutLocked(id, in.types[id], path)
}

// sequentialLayoutLocked lays out fields back-to-back with natural
// alignment padding, C-struct style — matching how the Lowerer's
// struct-completion pass emits member offsets.
func (in *Interner) sequentialLayoutLocked(elems []TypeID, path []TypeID) (Layout, *LayoutError) {
	var size, align uint64 = 0, 1
	for _, e := range elems {
		el, lerr := in.layoutOfLocked(e, path)
		if lerr != nil {
			return Layout{}, lerr
		}
		if el.Align == 0 {
			el.Align = 1
		}
		if rem := size % el.Align; rem != 0 {
			size += el.Align - rem
		}
		size += el.Size
		if el.Align > align {
			align = el.Align
		}
	}
	if rem := size % align; rem != 0 {
		size += align - rem
	}
	return Layout{Size: size, Align: align}, nil
}

// unionLayoutLocked lays out a Variant as a tag word followed by the widest
// member, overlapping storage the way the Lowerer emits variant locals.
func (in *Interner) unionLayoutLocked(elems []TypeID, path []TypeID) (Layout, *LayoutError) {
	const tagSize = 4
	var maxSize, maxAlign uint64 = 0, 1
	for _, e := range elems {
		el, lerr := in.layoutOfLocked(e, path)
		if lerr != nil {
			return Layout{}, lerr
		}
		if el.Size > maxSize {
			maxSize = el.Size
		}
		if el.Align > maxAlign {
			maxAlign = el.Align
		}
	}
	size := tagSize
	if rem := uint64(size) % maxAlign; rem != 0 {
		size += int(maxAlign - rem)
	}
	total := uint64(size) + maxSize
	if maxAlign < 4 {
		maxAlign = 4
	}
	if rem := total % maxAlign; rem != 0 {
		total += maxAlign - rem
	}
	return Layout{Size: total, Align: maxAlign}, nil
}
