package ctime

import (
	"testing"

	"icarus/internal/ctx"
	"icarus/internal/ir"
	"icarus/internal/source"
)

// buildConstFn constructs a one-block CompiledFn that returns a single
// Const instruction's result, for tests that don't need arithmetic.
func buildConstFn(instr ir.Instruction, dst ir.Register, numRegs int32) *ir.CompiledFn {
	instr.Dst = dst
	block := ir.BasicBlock{
		ID:     0,
		Instrs: []ir.Instruction{instr},
		Term:   ir.JumpCmd{Kind: ir.JumpReturn, Return: ir.ReturnJump{Values: []ir.Register{dst}}},
	}
	return &ir.CompiledFn{
		BlockGroup: ir.BlockGroup{
			Name:    "const",
			Blocks:  []ir.BasicBlock{block},
			Entry:   0,
			NumRegs: numRegs,
		},
	}
}

func TestRefInterpEvaluatesConstInt(t *testing.T) {
	e := New(nil, nil)
	fn := buildConstFn(ir.Instruction{Kind: ir.InstrConst, Const: ir.ConstInstr{Kind: ir.ConstInt, IntValue: 42}}, 0, 1)

	v, err := e.Evaluate(fn, nil, true, source.Span{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.Kind != ctx.ValueInt || v.Int != 42 {
		t.Fatalf("expected ValueInt(42), got %+v", v)
	}
}

func TestRefInterpEvaluatesArithmetic(t *testing.T) {
	e := New(nil, nil)
	block := ir.BasicBlock{
		ID: 0,
		Instrs: []ir.Instruction{
			{Kind: ir.InstrConst, Dst: 0, Const: ir.ConstInstr{Kind: ir.ConstInt, IntValue: 3}},
			{Kind: ir.InstrConst, Dst: 1, Const: ir.ConstInstr{Kind: ir.ConstInt, IntValue: 4}},
			{Kind: ir.InstrArith, Dst: 2, Arith: ir.ArithInstr{Op: ir.ArithAdd, Lhs: 0, Rhs: 1}},
		},
		Term: ir.JumpCmd{Kind: ir.JumpReturn, Return: ir.ReturnJump{Values: []ir.Register{2}}},
	}
	fn := &ir.CompiledFn{BlockGroup: ir.BlockGroup{Name: "add", Blocks: []ir.BasicBlock{block}, Entry: 0, NumRegs: 3}}

	v, err := e.Evaluate(fn, nil, true, source.Span{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.Kind != ctx.ValueInt || v.Int != 7 {
		t.Fatalf("expected ValueInt(7), got %+v", v)
	}
}

func TestRefInterpDivisionByZeroFails(t *testing.T) {
	e := New(nil, nil)
	block := ir.BasicBlock{
		ID: 0,
		Instrs: []ir.Instruction{
			{Kind: ir.InstrConst, Dst: 0, Const: ir.ConstInstr{Kind: ir.ConstInt, IntValue: 1}},
			{Kind: ir.InstrConst, Dst: 1, Const: ir.ConstInstr{Kind: ir.ConstInt, IntValue: 0}},
			{Kind: ir.InstrArith, Dst: 2, Arith: ir.ArithInstr{Op: ir.ArithDiv, Lhs: 0, Rhs: 1}},
		},
		Term: ir.JumpCmd{Kind: ir.JumpReturn, Return: ir.ReturnJump{Values: []ir.Register{2}}},
	}
	fn := &ir.CompiledFn{BlockGroup: ir.BlockGroup{Name: "div", Blocks: []ir.BasicBlock{block}, Entry: 0, NumRegs: 3}}

	_, err := e.Evaluate(fn, nil, true, source.Span{})
	if err == nil {
		t.Fatalf("expected an error for division by zero")
	}
}

func TestRefInterpEvaluatesCondJump(t *testing.T) {
	e := New(nil, nil)
	entry := ir.BasicBlock{
		ID: 0,
		Instrs: []ir.Instruction{
			{Kind: ir.InstrConst, Dst: 0, Const: ir.ConstInstr{Kind: ir.ConstBool, BoolValue: true}},
		},
		Term: ir.JumpCmd{Kind: ir.JumpCond, Cond: ir.CondJump{Cond: 0, Then: 1, Else: 2}},
	}
	thenBlk := ir.BasicBlock{
		ID: 1,
		Instrs: []ir.Instruction{
			{Kind: ir.InstrConst, Dst: 1, Const: ir.ConstInstr{Kind: ir.ConstInt, IntValue: 10}},
		},
		Term: ir.JumpCmd{Kind: ir.JumpReturn, Return: ir.ReturnJump{Values: []ir.Register{1}}},
	}
	elseBlk := ir.BasicBlock{
		ID: 2,
		Instrs: []ir.Instruction{
			{Kind: ir.InstrConst, Dst: 1, Const: ir.ConstInstr{Kind: ir.ConstInt, IntValue: 20}},
		},
		Term: ir.JumpCmd{Kind: ir.JumpReturn, Return: ir.ReturnJump{Values: []ir.Register{1}}},
	}
	fn := &ir.CompiledFn{BlockGroup: ir.BlockGroup{
		Name:    "branch",
		Blocks:  []ir.BasicBlock{entry, thenBlk, elseBlk},
		Entry:   0,
		NumRegs: 2,
	}}

	v, err := e.Evaluate(fn, nil, true, source.Span{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.Kind != ctx.ValueInt || v.Int != 10 {
		t.Fatalf("expected the `then` branch's value 10, got %+v", v)
	}
}

func TestRefInterpEvaluatesParamFromArgs(t *testing.T) {
	e := New(nil, nil)
	block := ir.BasicBlock{
		ID:   0,
		Term: ir.JumpCmd{Kind: ir.JumpReturn, Return: ir.ReturnJump{Values: []ir.Register{0}}},
	}
	fn := &ir.CompiledFn{BlockGroup: ir.BlockGroup{
		Name:    "ident",
		Blocks:  []ir.BasicBlock{block},
		Params:  []ir.Param{{Type: 0, Reg: 0}},
		Entry:   0,
		NumRegs: 1,
	}}

	v, err := e.Evaluate(fn, []ctx.Value{{Kind: ctx.ValueInt, Int: 99}}, true, source.Span{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.Kind != ctx.ValueInt || v.Int != 99 {
		t.Fatalf("expected the bound parameter's argument value 99, got %+v", v)
	}
}

func TestEvaluateAsExtractsInt64(t *testing.T) {
	e := New(nil, nil)
	fn := buildConstFn(ir.Instruction{Kind: ir.InstrConst, Const: ir.ConstInstr{Kind: ir.ConstInt, IntValue: 5}}, 0, 1)

	got, err := EvaluateAs[int64](e, fn, nil, source.Span{})
	if err != nil {
		t.Fatalf("EvaluateAs: %v", err)
	}
	if got != 5 {
		t.Fatalf("EvaluateAs[int64] = %d, want 5", got)
	}
}

func TestEvaluateAsWrongTypeFails(t *testing.T) {
	e := New(nil, nil)
	fn := buildConstFn(ir.Instruction{Kind: ir.InstrConst, Const: ir.ConstInstr{Kind: ir.ConstInt, IntValue: 5}}, 0, 1)

	if _, err := EvaluateAs[bool](e, fn, nil, source.Span{}); err == nil {
		t.Fatalf("expected an error extracting a bool out of an int-valued result")
	}
}

func TestEvaluateOrDiagnoseAsReturnsFalseOnFailure(t *testing.T) {
	e := New(nil, nil)
	emptyFn := &ir.CompiledFn{}

	_, ok := EvaluateOrDiagnoseAs[int64](e, emptyFn, nil, source.Span{})
	if ok {
		t.Fatalf("expected EvaluateOrDiagnoseAs to report failure for an empty function")
	}
}
