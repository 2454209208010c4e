package types

import (
	"testing"

	"icarus/internal/source"
)

func TestLayoutOfPrimitivesAndPointers(t *testing.T) {
	in := newTestInterner()
	b := in.Builtins()

	l, ok := in.Layout(b.I32)
	if !ok || l.Size != 4 || l.Align != 4 {
		t.Fatalf("expected i32 layout size=4 align=4, got %+v ok=%v", l, ok)
	}

	ptr := in.Intern(MakePointer(b.I32))
	l, ok = in.Layout(ptr)
	if !ok || l.Size != 8 || l.Align != 8 {
		t.Fatalf("expected pointer layout size=8 align=8, got %+v ok=%v", l, ok)
	}
}

func TestLayoutOfStructSumsFieldsWithPadding(t *testing.T) {
	in := newTestInterner()
	b := in.Builtins()

	id := in.RegisterIncompleteStruct(source.NoStringID, source.NoStringID, source.Span{})
	in.SetStructFields(id, []StructField{
		{Name: source.NoStringID, Type: b.Bool},
		{Name: source.NoStringID, Type: b.I32},
	})

	l, ok := in.Layout(id)
	if !ok {
		t.Fatalf("expected a known layout for a complete struct")
	}
	if l.Size != 8 || l.Align != 4 {
		t.Fatalf("expected {bool, i32} layout size=8 align=4 (1 byte + 3 padding + 4 bytes), got %+v", l)
	}
}

// A struct whose only field is a Pointer back to itself is finite: the
// pointer is sized independently of what it points to.
func TestLayoutOfSelfReferentialPointerStructIsSized(t *testing.T) {
	in := newTestInterner()

	id := in.RegisterIncompleteStruct(source.NoStringID, source.NoStringID, source.Span{})
	selfPtr := in.Intern(MakePointer(id))
	in.SetStructFields(id, []StructField{{Name: source.NoStringID, Type: selfPtr}})

	l, err := in.LayoutOrError(id)
	if err != nil {
		t.Fatalf("expected no error for a pointer-broken cycle, got %v", err)
	}
	if l.Size != 8 || l.Align != 8 {
		t.Fatalf("expected size=8 align=8 for {*Self}, got %+v", l)
	}
}

// A struct embedding itself by value (no pointer indirection) has no
// finite size and must report LayoutErrRecursiveUnsized.
func TestLayoutOfSelfReferentialValueStructReportsRecursiveUnsized(t *testing.T) {
	in := newTestInterner()

	id := in.RegisterIncompleteStruct(source.NoStringID, source.NoStringID, source.Span{})
	in.SetStructFields(id, []StructField{{Name: source.NoStringID, Type: id}})

	_, err := in.LayoutOrError(id)
	if err == nil {
		t.Fatalf("expected a recursive-unsized error for a struct embedding itself by value")
	}
	lerr, ok := err.(*LayoutError)
	if !ok || lerr.Kind != LayoutErrRecursiveUnsized {
		t.Fatalf("expected *LayoutError{Kind: LayoutErrRecursiveUnsized}, got %#v", err)
	}
	if len(lerr.Cycle) == 0 {
		t.Fatalf("expected a non-empty cycle path, got %+v", lerr)
	}
}

// A tag-union (Variant) member storing itself by value is just as infinite
// as a struct field: the widest member is embedded inline.
func TestLayoutOfSelfReferentialVariantReportsRecursiveUnsized(t *testing.T) {
	in := newTestInterner()
	b := in.Builtins()

	id := in.RegisterIncompleteStruct(source.NoStringID, source.NoStringID, source.Span{})
	selfVariant := in.MakeVariant([]TypeID{id, b.Bool})
	in.SetStructFields(id, []StructField{{Name: source.NoStringID, Type: selfVariant}})

	_, err := in.LayoutOrError(id)
	if err == nil {
		t.Fatalf("expected a recursive-unsized error through a value-embedded Variant member")
	}
	lerr, ok := err.(*LayoutError)
	if !ok || lerr.Kind != LayoutErrRecursiveUnsized {
		t.Fatalf("expected *LayoutError{Kind: LayoutErrRecursiveUnsized}, got %#v", err)
	}
}

func TestLayoutRejectsUnknownTypeID(t *testing.T) {
	in := newTestInterner()
	if _, ok := in.Layout(TypeID(99999)); ok {
		t.Fatalf("expected Layout to reject an out-of-range TypeID")
	}
}
