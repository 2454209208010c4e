package mono

import (
	"testing"

	"icarus/internal/source"
	"icarus/internal/types"
)

func newTestInterner() *types.Interner {
	return types.NewInterner(source.NewInterner())
}

func TestTypeArgsAreConcreteAcceptsPlainTypes(t *testing.T) {
	in := newTestInterner()
	b := in.Builtins()
	if !typeArgsAreConcrete(in, []types.TypeID{b.I32, b.Bool}) {
		t.Fatalf("expected plain builtin types to count as concrete")
	}
}

func TestTypeArgsAreConcreteEmptyIsTrue(t *testing.T) {
	in := newTestInterner()
	if !typeArgsAreConcrete(in, nil) {
		t.Fatalf("an empty argument list should be vacuously concrete")
	}
}

func TestTypeArgsAreConcreteRejectsBareGenericParam(t *testing.T) {
	in := newTestInterner()
	strings := in.Strings
	param := in.RegisterTypeParam(strings.Intern("T"), types.TypeParamIsType, types.NoTypeID)
	if typeArgsAreConcrete(in, []types.TypeID{param}) {
		t.Fatalf("a bare generic parameter should not count as concrete")
	}
}

func TestTypeArgsAreConcreteRejectsGenericInsideSlice(t *testing.T) {
	in := newTestInterner()
	strings := in.Strings
	param := in.RegisterTypeParam(strings.Intern("T"), types.TypeParamIsType, types.NoTypeID)
	sliceOfParam := in.Intern(types.MakeSlice(param))
	if typeArgsAreConcrete(in, []types.TypeID{sliceOfParam}) {
		t.Fatalf("a slice of a generic parameter should not count as concrete")
	}
}

func TestTypeArgsAreConcreteRejectsNoTypeID(t *testing.T) {
	in := newTestInterner()
	if typeArgsAreConcrete(in, []types.TypeID{types.NoTypeID}) {
		t.Fatalf("NoTypeID should not count as concrete")
	}
}
