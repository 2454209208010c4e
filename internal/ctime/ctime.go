// Package ctime implements the Compile-Time Evaluator interface, spec.md
// §4.8: the sole consumer of an IR interpreter from within the core,
// letting the Verifier fold constant expressions (`$expr`, array lengths,
// type-level computation) without depending on a full executable backend.
//
// The interpreter itself is out of scope here — the teacher's
// `internal/vm` (a full bytecode VM built over its own `mir` IR) is the
// out-of-pack analogue and is deliberately not ported; see DESIGN.md.
// `Interpreter` is the seam a real VM would be wired in behind; `refInterp`
// (interp.go) is a small reference implementation covering the
// constant-expression subset the Verifier's own tests need: integer/bool/
// float arithmetic and comparisons, and casts, over a call-free
// `ir.CompiledFn` whose blocks are joined by `Uncond`/`Cond` jumps.
package ctime

import (
	"fmt"

	"icarus/internal/ctx"
	"icarus/internal/diag"
	"icarus/internal/ir"
	"icarus/internal/source"
)

// EvaluationFailure is the one error shape every Evaluator entry point
// reports through the diagnostic consumer, per spec.md §4.8.
type EvaluationFailure struct {
	Cause string
	Range source.Span
}

func (f EvaluationFailure) Error() string { return f.Cause }

// Interpreter executes a fully-lowered IR function and returns its single
// output value, or fails partway with the register/block it got stuck at.
// A real implementation (a bytecode VM, a tree-walker, ...) satisfies this;
// ctime itself only defines the contract and a reference implementation.
type Interpreter interface {
	Interpret(fn *ir.CompiledFn, args []ctx.Value) (ctx.Value, error)
}

// Evaluator is the Verifier-facing entry point: Evaluate/EvaluateAs/
// EvaluateOrDiagnoseAs/InterpretAtCompileTime, exactly spec.md §4.8's
// four operations.
type Evaluator struct {
	Interp   Interpreter
	Reporter diag.Reporter
}

// New builds an Evaluator around interp, falling back to the reference
// implementation when interp is nil (so callers that only need the
// constant-expression subset don't need to wire a real VM).
func New(interp Interpreter, reporter diag.Reporter) *Evaluator {
	if interp == nil {
		interp = &refInterp{}
	}
	return &Evaluator{Interp: interp, Reporter: reporter}
}

// Evaluate runs fn to completion and returns its Value, or an
// EvaluationFailure if mustComplete and the interpreter could not finish
// (an unbounded loop, a call to an unimplemented intrinsic, ...).
func (e *Evaluator) Evaluate(fn *ir.CompiledFn, args []ctx.Value, mustComplete bool, span source.Span) (ctx.Value, error) {
	v, err := e.Interp.Interpret(fn, args)
	if err != nil {
		if mustComplete {
			return ctx.Value{}, EvaluationFailure{Cause: err.Error(), Range: span}
		}
		return ctx.Value{}, nil
	}
	return v, nil
}

// EvaluateAs runs fn and extracts T from the returned Value's matching
// payload field, failing if the Value's Kind doesn't carry a T.
func EvaluateAs[T any](e *Evaluator, fn *ir.CompiledFn, args []ctx.Value, span source.Span) (T, error) {
	var zero T
	v, err := e.Evaluate(fn, args, true, span)
	if err != nil {
		return zero, err
	}
	t, ok := extract[T](v)
	if !ok {
		return zero, EvaluationFailure{Cause: fmt.Sprintf("compile-time value is not a %T", zero), Range: span}
	}
	return t, nil
}

// EvaluateOrDiagnoseAs runs fn, reporting CoreEvaluationFailure through the
// Evaluator's Reporter (rather than returning an error) and producing the
// zero Option (ok=false) on failure — the "consumes diagnostics on error"
// variant spec.md §4.8 calls for.
func EvaluateOrDiagnoseAs[T any](e *Evaluator, fn *ir.CompiledFn, args []ctx.Value, span source.Span) (T, bool) {
	var zero T
	t, err := EvaluateAs[T](e, fn, args, span)
	if err != nil {
		if e.Reporter != nil {
			diag.ReportError(e.Reporter, diag.CoreEvaluationFailure, span, err.Error()).Emit()
		}
		return zero, false
	}
	return t, true
}

// InterpretAtCompileTime runs a fully-lowered IR function purely for its
// side effects (no result extraction), e.g. a struct-completion function
// building a field table: the caller reads the effect back out of the
// Context the interpretation ran against, not from a return value.
func (e *Evaluator) InterpretAtCompileTime(fn *ir.CompiledFn, args []ctx.Value) error {
	_, err := e.Interp.Interpret(fn, args)
	return err
}

// extract pulls T out of v's matching payload field by type switch; ctx.Value
// is a closed tagged union (see ctx/value.go), so this enumerates every
// payload shape EvaluateAs's callers in this build actually need.
func extract[T any](v ctx.Value) (T, bool) {
	var zero T
	var any_ any
	switch v.Kind {
	case ctx.ValueInt:
		any_ = v.Int
	case ctx.ValueUint:
		any_ = v.Uint
	case ctx.ValueFloat:
		any_ = v.Float
	case ctx.ValueBool:
		any_ = v.Bool
	case ctx.ValueType:
		any_ = v.TypeVal
	default:
		return zero, false
	}
	t, ok := any_.(T)
	return t, ok
}
