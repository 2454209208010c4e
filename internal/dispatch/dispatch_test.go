package dispatch

import (
	"testing"

	"icarus/internal/ctx"
	"icarus/internal/module"
	"icarus/internal/source"
	"icarus/internal/types"
	"icarus/internal/verify"
)

func newTestResolver() (*Resolver, *types.Interner) {
	strings := source.NewInterner()
	in := types.NewInterner(strings)
	return New(in, strings, nil), in
}

func TestResolveCallMatchesPositionalArgs(t *testing.T) {
	r, in := newTestResolver()
	c := ctx.New(module.ID(1))

	params := types.NewParams([]types.Param[types.TypeID]{{Value: in.Builtins().I32}})
	fn := in.MakeFunction(params, []types.TypeID{in.Builtins().I32})

	args := []verify.Arg{{QualType: types.QualType{Type: in.Builtins().I32}, Constant: true}}
	qt, err := r.ResolveCall(c, []types.TypeID{fn}, args)
	if err != nil {
		t.Fatalf("ResolveCall: %v", err)
	}
	if qt.Type != in.Builtins().I32 {
		t.Fatalf("expected return type i32, got %d", qt.Type)
	}
	if !qt.Quals.Has(types.QualConst) {
		t.Fatalf("expected a call with all-constant args to be constant")
	}
}

func TestResolveCallNonConstantArgPropagates(t *testing.T) {
	r, in := newTestResolver()
	c := ctx.New(module.ID(1))

	params := types.NewParams([]types.Param[types.TypeID]{{Value: in.Builtins().I32}})
	fn := in.MakeFunction(params, []types.TypeID{in.Builtins().I32})

	args := []verify.Arg{{QualType: types.QualType{Type: in.Builtins().I32}, Constant: false}}
	qt, err := r.ResolveCall(c, []types.TypeID{fn}, args)
	if err != nil {
		t.Fatalf("ResolveCall: %v", err)
	}
	if qt.Quals.Has(types.QualConst) {
		t.Fatalf("expected a call with a non-constant arg to not be constant")
	}
}

func TestResolveCallTooManyArguments(t *testing.T) {
	r, in := newTestResolver()
	c := ctx.New(module.ID(1))

	params := types.NewParams([]types.Param[types.TypeID]{{Value: in.Builtins().I32}})
	fn := in.MakeFunction(params, []types.TypeID{in.Builtins().I32})

	args := []verify.Arg{
		{QualType: types.QualType{Type: in.Builtins().I32}},
		{QualType: types.QualType{Type: in.Builtins().I32}},
	}
	_, err := r.ResolveCall(c, []types.TypeID{fn}, args)
	if err == nil {
		t.Fatalf("expected an error for too many positional arguments")
	}
	de, ok := err.(*verify.DispatchError)
	if !ok || de.Kind != verify.DispatchTooManyArguments {
		t.Fatalf("expected a DispatchTooManyArguments error, got %v", err)
	}
}

func TestResolveCallMissingNonDefaultable(t *testing.T) {
	r, in := newTestResolver()
	c := ctx.New(module.ID(1))

	params := types.NewParams([]types.Param[types.TypeID]{{Value: in.Builtins().I32}})
	fn := in.MakeFunction(params, []types.TypeID{in.Builtins().I32})

	_, err := r.ResolveCall(c, []types.TypeID{fn}, nil)
	if err == nil {
		t.Fatalf("expected an error when a required argument is missing")
	}
	de, ok := err.(*verify.DispatchError)
	if !ok || de.Kind != verify.DispatchMissingNonDefaultable {
		t.Fatalf("expected a DispatchMissingNonDefaultable error, got %v", err)
	}
}

func TestResolveCallTypeMismatch(t *testing.T) {
	r, in := newTestResolver()
	c := ctx.New(module.ID(1))

	params := types.NewParams([]types.Param[types.TypeID]{{Value: in.Builtins().I32}})
	fn := in.MakeFunction(params, []types.TypeID{in.Builtins().I32})

	args := []verify.Arg{{QualType: types.QualType{Type: in.Builtins().Bool}}}
	_, err := r.ResolveCall(c, []types.TypeID{fn}, args)
	if err == nil {
		t.Fatalf("expected an error for a bool argument against an i32 parameter")
	}
	de, ok := err.(*verify.DispatchError)
	if !ok || de.Kind != verify.DispatchTypeMismatch {
		t.Fatalf("expected a DispatchTypeMismatch error, got %v", err)
	}
}

func TestResolveCallNamedArgument(t *testing.T) {
	r, in := newTestResolver()
	c := ctx.New(module.ID(1))

	name := in.Strings.Intern("x")
	params := types.NewParams([]types.Param[types.TypeID]{{Name: name, HasName: true, Value: in.Builtins().I32}})
	fn := in.MakeFunction(params, []types.TypeID{in.Builtins().I32})

	args := []verify.Arg{{Name: "x", QualType: types.QualType{Type: in.Builtins().I32}, Constant: true}}
	qt, err := r.ResolveCall(c, []types.TypeID{fn}, args)
	if err != nil {
		t.Fatalf("ResolveCall: %v", err)
	}
	if qt.Type != in.Builtins().I32 {
		t.Fatalf("expected return type i32, got %d", qt.Type)
	}
}

func TestResolveCallUnknownNamedArgument(t *testing.T) {
	r, in := newTestResolver()
	c := ctx.New(module.ID(1))

	params := types.NewParams([]types.Param[types.TypeID]{{Value: in.Builtins().I32, HasDefault: true}})
	fn := in.MakeFunction(params, []types.TypeID{in.Builtins().I32})

	args := []verify.Arg{{Name: "missing", QualType: types.QualType{Type: in.Builtins().I32}}}
	_, err := r.ResolveCall(c, []types.TypeID{fn}, args)
	if err == nil {
		t.Fatalf("expected an error for a named argument matching no formal")
	}
	de, ok := err.(*verify.DispatchError)
	if !ok || de.Kind != verify.DispatchNoParameterNamed {
		t.Fatalf("expected a DispatchNoParameterNamed error, got %v", err)
	}
}

func TestResolveCallMultipleCandidatesMeetResult(t *testing.T) {
	r, in := newTestResolver()
	c := ctx.New(module.ID(1))

	noParams := types.NewParams[types.TypeID](nil)
	fnI32 := in.MakeFunction(noParams, []types.TypeID{in.Builtins().I32})
	fnI8 := in.MakeFunction(noParams, []types.TypeID{in.Builtins().I8})

	qt, err := r.ResolveCall(c, []types.TypeID{fnI32, fnI8}, nil)
	if err != nil {
		t.Fatalf("ResolveCall: %v", err)
	}
	if qt.Type != in.Builtins().I32 {
		t.Fatalf("expected Meet(i32, i8) = i32, got %d", qt.Type)
	}
}

func TestResolveCallNoCandidatesMatchReturnsError(t *testing.T) {
	r, in := newTestResolver()
	c := ctx.New(module.ID(1))

	args := []verify.Arg{{QualType: types.QualType{Type: in.Builtins().Bool}}}
	_, err := r.ResolveCall(c, nil, args)
	if err == nil {
		t.Fatalf("expected an error when there are no candidates at all")
	}
}
