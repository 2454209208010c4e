package types

// CanCastImplicitly reports whether a value of type from may be used where
// a value of type to is expected without an explicit cast expression, per
// spec.md §4.1's implicit-conversion table: numeric widening within the
// same signedness family, any T to a Variant containing T (after Resolve),
// NullPtr to any Pointer/BufferPointer, and identity.
func (in *Interner) CanCastImplicitly(from, to TypeID) bool {
	from, to = in.Resolve(from), in.Resolve(to)
	if from == to {
		return true
	}
	ft, fok := in.Lookup(from)
	tt, tok := in.Lookup(to)
	if !fok || !tok {
		return false
	}

	if tt.Kind == KindVariant {
		if in.VariantContains(to, from) {
			return true
		}
		// A narrower variant implicitly widens into a superset variant.
		if ft.Kind == KindVariant {
			members, _ := in.Variant(from)
			for _, m := range members {
				if !in.VariantContains(to, m) {
					return false
				}
			}
			return len(members) > 0
		}
		return false
	}

	switch ft.Kind {
	case KindNullPtr:
		return tt.Kind == KindPointer || tt.Kind == KindBufferPointer
	case KindInt:
		return tt.Kind == KindInt && (ft.Width == WidthAny || widthRank(tt.Width) >= widthRank(ft.Width))
	case KindUint:
		return tt.Kind == KindUint && (ft.Width == WidthAny || widthRank(tt.Width) >= widthRank(ft.Width))
	case KindFloat:
		return tt.Kind == KindFloat && (ft.Width == WidthAny || widthRank(tt.Width) >= widthRank(ft.Width))
	case KindArray:
		// [n; T] implicitly decays to a Slice or BufferPointer of T.
		if (tt.Kind == KindSlice || tt.Kind == KindBufferPointer) && tt.Elem == ft.Elem {
			return true
		}
	case KindEmptyArray:
		return tt.Kind == KindSlice || tt.Kind == KindArray
	}
	return false
}

func widthRank(w Width) int {
	if w == WidthAny {
		return 0
	}
	return int(w)
}

// CanCastExplicitly reports whether `from as to` is a legal explicit cast:
// every implicit conversion, plus numeric narrowing within a family,
// int<->uint<->float reinterpretation at equal or greater width, and
// Pointer<->BufferPointer of the same element.
func (in *Interner) CanCastExplicitly(from, to TypeID) bool {
	if in.CanCastImplicitly(from, to) {
		return true
	}
	from, to = in.Resolve(from), in.Resolve(to)
	ft, fok := in.Lookup(from)
	tt, tok := in.Lookup(to)
	if !fok || !tok {
		return false
	}
	numeric := func(k Kind) bool { return k == KindInt || k == KindUint || k == KindFloat }
	if numeric(ft.Kind) && numeric(tt.Kind) {
		return true
	}
	if ft.Kind == KindPointer && tt.Kind == KindBufferPointer && ft.Elem == tt.Elem {
		return true
	}
	if ft.Kind == KindBufferPointer && tt.Kind == KindPointer && ft.Elem == tt.Elem {
		return true
	}
	if ft.Kind == KindEnum && tt.Kind == KindInt {
		return true
	}
	if ft.Kind == KindVariant {
		members, _ := in.Variant(from)
		for _, m := range members {
			if m == to {
				return true
			}
		}
	}
	return false
}

// Meet computes the join of two types in the implicit-conversion lattice:
// the narrowest type both a and b can implicitly convert to, or NoTypeID if
// none exists. Used by the Verifier for ternary/branch-merge expressions
// and by the Lowerer when synthesising a Variant for a multi-armed `scope`
// yield, per spec.md §4.1/§4.7.
func (in *Interner) Meet(a, b TypeID) TypeID {
	a, b = in.Resolve(a), in.Resolve(b)
	if a == b {
		return a
	}
	if in.CanCastImplicitly(a, b) {
		return b
	}
	if in.CanCastImplicitly(b, a) {
		return a
	}
	return in.MakeVariant([]TypeID{a, b})
}
