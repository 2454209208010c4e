package types

import (
	"testing"

	"icarus/internal/source"
)

func TestParamsByNameAndPositional(t *testing.T) {
	strings := source.NewInterner()
	a := strings.Intern("a")
	b := strings.Intern("b")

	params := NewParams([]Param[TypeID]{
		{Name: a, HasName: true, Value: TypeID(1)},
		{Value: TypeID(2)},
		{Name: b, HasName: true, Value: TypeID(3), HasDefault: true},
	})

	if params.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", params.Len())
	}
	if got := params.At(1).Value; got != TypeID(2) {
		t.Fatalf("At(1).Value = %d, want 2", got)
	}
	pa, idx, ok := params.ByName(a)
	if !ok || idx != 0 || pa.Value != TypeID(1) {
		t.Fatalf("ByName(a) = (%+v, %d, %v), want value 1 at index 0", pa, idx, ok)
	}
	if _, _, ok := params.ByName(strings.Intern("missing")); ok {
		t.Fatalf("ByName of an undeclared name should fail")
	}
}

func TestParamsRequiredCountExcludesDefaulted(t *testing.T) {
	params := NewParams([]Param[TypeID]{
		{Value: TypeID(1)},
		{Value: TypeID(2)},
		{Value: TypeID(3), HasDefault: true},
	})
	if got := params.RequiredCount(); got != 2 {
		t.Fatalf("RequiredCount() = %d, want 2", got)
	}
}

func TestParamsAllReturnsEveryEntry(t *testing.T) {
	entries := []Param[TypeID]{{Value: TypeID(1)}, {Value: TypeID(2)}}
	params := NewParams(entries)
	all := params.All()
	if len(all) != 2 {
		t.Fatalf("All() returned %d entries, want 2", len(all))
	}
}
