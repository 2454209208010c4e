package types

import (
	"testing"

	"icarus/internal/source"
)

func newTestInterner() *Interner {
	return NewInterner(source.NewInterner())
}

func TestInternDedupesStructurallyEqualTypes(t *testing.T) {
	in := newTestInterner()
	a := in.Intern(MakeSlice(in.Builtins().I32))
	b := in.Intern(MakeSlice(in.Builtins().I32))
	if a != b {
		t.Fatalf("expected structurally equal Slice(i32) to intern to the same TypeID, got %d and %d", a, b)
	}
	c := in.Intern(MakeSlice(in.Builtins().I64))
	if a == c {
		t.Fatalf("expected Slice(i32) and Slice(i64) to intern to distinct TypeIDs")
	}
}

func TestInternRawNeverDeduplicates(t *testing.T) {
	in := newTestInterner()
	a := in.internRaw(Type{Kind: KindStruct})
	b := in.internRaw(Type{Kind: KindStruct})
	if a == b {
		t.Fatalf("internRaw must hand out a fresh TypeID per call, got %d twice", a)
	}
}

func TestLookupRejectsOutOfRangeAndNoTypeID(t *testing.T) {
	in := newTestInterner()
	if _, ok := in.Lookup(NoTypeID); ok {
		t.Fatalf("Lookup(NoTypeID) should report not-found")
	}
	if _, ok := in.Lookup(TypeID(1 << 20)); ok {
		t.Fatalf("Lookup of an out-of-range TypeID should report not-found")
	}
}

func TestCanCastImplicitlyNumericWidening(t *testing.T) {
	in := newTestInterner()
	b := in.Builtins()
	if !in.CanCastImplicitly(b.I8, b.I32) {
		t.Fatalf("i8 should implicitly widen to i32")
	}
	if in.CanCastImplicitly(b.I32, b.I8) {
		t.Fatalf("i32 should not implicitly narrow to i8")
	}
	if in.CanCastImplicitly(b.I32, b.U32) {
		t.Fatalf("int and uint families should not implicitly cross-convert")
	}
	if !in.CanCastImplicitly(b.I32, b.I32) {
		t.Fatalf("identity conversion should always be implicit")
	}
}

func TestCanCastImplicitlyNullPtrToPointer(t *testing.T) {
	in := newTestInterner()
	ptr := in.Intern(MakePointer(in.Builtins().I32))
	if !in.CanCastImplicitly(in.Builtins().NullPtr, ptr) {
		t.Fatalf("nullptr should implicitly convert to any Pointer")
	}
}

func TestCanCastImplicitlyIntoVariant(t *testing.T) {
	in := newTestInterner()
	b := in.Builtins()
	variant := in.MakeVariant([]TypeID{b.I32, b.Bool})
	if !in.CanCastImplicitly(b.I32, variant) {
		t.Fatalf("a member type should implicitly convert into a variant containing it")
	}
	if in.CanCastImplicitly(b.F32, variant) {
		t.Fatalf("a type absent from the variant should not implicitly convert into it")
	}
}

func TestCanCastExplicitlyAllowsNarrowingAndReinterpretation(t *testing.T) {
	in := newTestInterner()
	b := in.Builtins()
	if !in.CanCastExplicitly(b.I32, b.I8) {
		t.Fatalf("explicit cast should allow numeric narrowing")
	}
	if !in.CanCastExplicitly(b.I32, b.U32) {
		t.Fatalf("explicit cast should allow int<->uint reinterpretation")
	}
	if !in.CanCastExplicitly(b.I32, b.F32) {
		t.Fatalf("explicit cast should allow int<->float reinterpretation")
	}
}

func TestMeetFindsNarrowestCommonConversion(t *testing.T) {
	in := newTestInterner()
	b := in.Builtins()
	if got := in.Meet(b.I8, b.I32); got != b.I32 {
		t.Fatalf("Meet(i8, i32) = %d, want %d (i32)", got, b.I32)
	}
	if got := in.Meet(b.I32, b.I32); got != b.I32 {
		t.Fatalf("Meet(i32, i32) = %d, want %d", got, b.I32)
	}
}

func TestMeetOfUnrelatedTypesSynthesizesVariant(t *testing.T) {
	in := newTestInterner()
	b := in.Builtins()
	meet := in.Meet(b.Bool, b.Char)
	members, ok := in.Variant(meet)
	if !ok {
		t.Fatalf("Meet of unrelated types should produce a Variant, got Kind %v", in.MustLookup(meet).Kind)
	}
	if len(members) != 2 {
		t.Fatalf("expected a 2-member variant, got %d members", len(members))
	}
}

func TestMakeVariantFlattensNestedMembership(t *testing.T) {
	in := newTestInterner()
	b := in.Builtins()
	inner := in.MakeVariant([]TypeID{b.I32, b.Bool})
	outer := in.MakeVariant([]TypeID{inner, b.Char})

	members, ok := in.Variant(outer)
	if !ok {
		t.Fatalf("expected outer to be a Variant")
	}
	for _, m := range members {
		if mt, ok := in.Lookup(m); ok && mt.Kind == KindVariant {
			t.Fatalf("MakeVariant must flatten nested variants one level, found a nested Variant member")
		}
	}
	want := map[TypeID]bool{b.I32: true, b.Bool: true, b.Char: true}
	if len(members) != len(want) {
		t.Fatalf("expected %d flattened members, got %d", len(want), len(members))
	}
	for _, m := range members {
		if !want[m] {
			t.Fatalf("unexpected member %d in flattened variant", m)
		}
	}
}
