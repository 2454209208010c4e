package mono

import (
	"testing"

	"icarus/internal/ctx"
	"icarus/internal/module"
	"icarus/internal/source"
	"icarus/internal/types"
	"icarus/internal/verify"
)

func TestInstantiateIdentityFunctionBindsConcreteType(t *testing.T) {
	in := newTestInterner()
	b := in.Builtins()
	strings := in.Strings

	tparam := in.RegisterTypeParam(strings.Intern("T"), types.TypeParamIsType, types.NoTypeID)
	candidate := in.RegisterGenericFunction(strings.Intern("mod"), strings.Intern("identity"), source.Span{}, []types.TypeID{tparam})

	m := NewInstantiator(in)
	c := ctx.New(module.ID(1))

	args := []verify.Arg{{QualType: types.QualType{Type: b.I32}}}
	concrete, err := m.Instantiate(c, candidate, args)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	fn, ok := in.Function(concrete)
	if !ok {
		t.Fatalf("expected Instantiate to produce a Function TypeID")
	}
	if fn.Returns[0] != b.I32 {
		t.Fatalf("expected identity(i32) to return i32, got %d", fn.Returns[0])
	}
}

func TestInstantiateMemoisesSameArgumentBinding(t *testing.T) {
	in := newTestInterner()
	b := in.Builtins()
	strings := in.Strings

	tparam := in.RegisterTypeParam(strings.Intern("T"), types.TypeParamIsType, types.NoTypeID)
	candidate := in.RegisterGenericFunction(strings.Intern("mod"), strings.Intern("identity"), source.Span{}, []types.TypeID{tparam})

	m := NewInstantiator(in)
	c := ctx.New(module.ID(1))

	args := []verify.Arg{{QualType: types.QualType{Type: b.I32}}}
	first, err := m.Instantiate(c, candidate, args)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	second, err := m.Instantiate(c, candidate, args)
	if err != nil {
		t.Fatalf("Instantiate (second): %v", err)
	}
	if first != second {
		t.Fatalf("expected repeated instantiation with equal args to reuse the same TypeID, got %d and %d", first, second)
	}
}

func TestInstantiateRejectsNonGenericCandidate(t *testing.T) {
	in := newTestInterner()
	m := NewInstantiator(in)
	c := ctx.New(module.ID(1))

	_, err := m.Instantiate(c, in.Builtins().I32, nil)
	if err == nil {
		t.Fatalf("expected an error when instantiating a non-generic TypeID")
	}
}

func TestInstantiateRejectsTooFewArguments(t *testing.T) {
	in := newTestInterner()
	strings := in.Strings
	tparam := in.RegisterTypeParam(strings.Intern("T"), types.TypeParamIsType, types.NoTypeID)
	candidate := in.RegisterGenericFunction(strings.Intern("mod"), strings.Intern("identity"), source.Span{}, []types.TypeID{tparam})

	m := NewInstantiator(in)
	c := ctx.New(module.ID(1))

	_, err := m.Instantiate(c, candidate, nil)
	if err == nil {
		t.Fatalf("expected an error when fewer arguments than generic parameters are given")
	}
}
