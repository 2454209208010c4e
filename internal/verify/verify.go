// Package verify implements the core type verifier: VerifyType walks one
// expression node, producing and caching a QualType per spec.md §4.4.
// Grounded on internal/sema/check.go's typeChecker shape (a struct holding
// the builder, reporter, and type interner, driven by a single entry point
// that switches on ast.ExprKind) but re-targeted at this core's
// Context-tree/QualType model instead of the teacher's flat ExprTypes map.
package verify

import (
	"fmt"

	"icarus/internal/ast"
	"icarus/internal/ctx"
	"icarus/internal/diag"
	"icarus/internal/source"
	"icarus/internal/types"
	"icarus/internal/workqueue"
)

// Verifier holds everything one VerifyType/VerifyAll pass over a module
// needs: the AST builder to read node payloads from, the type universe to
// intern into, and the diagnostic sink.
type Verifier struct {
	Builder  *ast.Builder
	Types    *types.Interner
	Reporter diag.Reporter

	// Dispatch resolves overload sets for Call/BinaryOperator/UnaryOperator
	// verification (§4.5); kept as an interface so internal/dispatch can
	// depend on this package's Value/QualType shapes without a cycle.
	Dispatch Resolver

	// Scope answers "what declarations of this name are visible here" for
	// the Identifier rule.
	Scope Scope

	// Queue receives CompleteStructMembers items as struct literals are
	// verified (§4.9); nil disables scheduling (e.g. in unit tests that
	// only check QualType results).
	Queue *workqueue.Queue

	// Completer emits the IR this core's struct completion step (§4.7)
	// derives once a struct's fields are known; nil leaves structs with no
	// synthesized special members, the same as before completion existed.
	Completer StructCompleter

	// Bodies verifies a function's statements once its signature is known
	// (§4.4's FunctionLiteral rule defers this through the work queue); nil
	// leaves function bodies unverified, matching callers (e.g. signature-
	// only unit tests) that never set it.
	Bodies BodyVerifier

	// inFlight is the per-node cyclic-dependency tracker: a node entering
	// VerifyType while already present here means recursion rediscovered
	// itself, which is CyclicDependency rather than infinite recursion.
	inFlight map[ast.ExprID]bool

	// Module names the module this Verifier's pass belongs to, so a
	// DesignatedInitializer field access (§4.4) can tell whether it crosses
	// a module boundary for the NonExportedField check. Zero value (no
	// module system wired by the caller) disables the cross-module check,
	// matching single-module callers/tests that never set it.
	Module source.StringID
}

// Resolver is the subset of internal/dispatch's API the verifier calls for
// Call/BinaryOperator/UnaryOperator overload resolution, kept as an
// interface here to avoid internal/verify <-> internal/dispatch import
// cycle (dispatch needs Context/QualType verification too).
type Resolver interface {
	ResolveCall(c *ctx.Context, candidates []types.TypeID, args []Arg) (types.QualType, error)
}

// StructCompleter emits struct completion (§4.7): the per-struct special
// member functions a DataComplete struct's field types allow deriving.
// Implemented by internal/lower, kept as an interface here (rather than
// importing internal/lower directly) since internal/lower already imports
// this package for Scope.
type StructCompleter interface {
	CompleteStruct(c *ctx.Context, structID types.TypeID, fields []types.StructField)
}

// Arg is one matched call argument: its name (empty for positional), its
// QualType, and whether it is constant (for the AND-of-constness rule in
// §4.5 step 4).
type Arg struct {
	Name     string
	QualType types.QualType
	Constant bool
}

// New constructs a Verifier for one module's pass.
func New(builder *ast.Builder, interner *types.Interner, reporter diag.Reporter, dispatch Resolver, scope Scope) *Verifier {
	return &Verifier{
		Builder:  builder,
		Types:    interner,
		Reporter: reporter,
		Dispatch: dispatch,
		Scope:    scope,
		inFlight: make(map[ast.ExprID]bool),
	}
}

// errorQT is shorthand for the Error-qualified QualType every failing path
// returns — propagating it marks downstream users Error without emitting a
// second diagnostic for them, per spec.md §7's propagation policy.
func errorQT() types.QualType { return types.ErrorQualType() }

// VerifyType verifies expr in c, returning its QualType. Results are cached
// on c so repeated verification (e.g. from a sibling instantiation sharing
// the same AST node) is idempotent, matching §8's "hash-consing ...
// identity" testable property extended to cached QualTypes.
func (v *Verifier) VerifyType(c *ctx.Context, expr ast.ExprID) types.QualType {
	if qt, ok := c.QualType(expr); ok {
		return qt
	}
	if v.inFlight[expr] {
		v.reportCyclic(expr)
		return c.SetQualType(expr, errorQT())
	}
	v.inFlight[expr] = true
	defer delete(v.inFlight, expr)

	qt := v.dispatchVerify(c, expr)
	return c.SetQualType(expr, qt)
}

func (v *Verifier) dispatchVerify(c *ctx.Context, expr ast.ExprID) types.QualType {
	node := v.Builder.Exprs.Get(expr)
	if node == nil {
		return errorQT()
	}
	switch node.Kind {
	case ast.ExprIdent:
		return v.verifyIdent(c, expr)
	case ast.ExprLit:
		return v.verifyLiteral(c, expr)
	case ast.ExprBinary:
		return v.verifyBinary(c, expr)
	case ast.ExprUnary:
		return v.verifyUnary(c, expr)
	case ast.ExprCall:
		return v.verifyCall(c, expr)
	case ast.ExprCast:
		return v.verifyCast(c, expr)
	case ast.ExprIndex:
		return v.verifyIndex(c, expr)
	case ast.ExprTupleIndex:
		return v.verifyTupleIndex(c, expr)
	case ast.ExprStruct:
		return v.verifyStructLiteral(c, expr)
	case ast.ExprGroup:
		g, ok := v.Builder.Exprs.Group(expr)
		if !ok {
			return errorQT()
		}
		return v.VerifyType(c, g.Inner)
	case ast.ExprTuple:
		return v.verifyTuple(c, expr)
	case ast.ExprScope:
		return v.verifyScopeNode(c, expr)
	default:
		// Node kinds the distilled grammar doesn't name (async/spawn/
		// parallel/select/race/...) are outside this core's scope; treat
		// them as opaque Error so a later pass can extend coverage without
		// this switch silently miscompiling them as some other kind.
		return errorQT()
	}
}

func (v *Verifier) reportCyclic(expr ast.ExprID) {
	if v.Reporter == nil {
		return
	}
	span := v.Builder.Exprs.Get(expr).Span
	diag.ReportError(v.Reporter, diag.CoreCyclicDependency, span,
		"cyclic dependency: verifying this expression recursively requires its own result").Emit()
}

// report is the shared error-emission path every verifyXxx helper uses.
func (v *Verifier) report(code diag.Code, expr ast.ExprID, format string, args ...any) types.QualType {
	if v.Reporter != nil {
		span := v.Builder.Exprs.Get(expr).Span
		diag.ReportError(v.Reporter, code, span, fmt.Sprintf(format, args...)).Emit()
	}
	return errorQT()
}
