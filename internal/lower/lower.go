// Package lower implements the Lowerer of spec.md §4.7: consumes the
// verified AST (QualTypes already attached by internal/verify on the
// Context) and emits internal/ir.
//
// Grounded on the teacher's mir package file split
// (lower_expr.go/lower_expr_calls.go/lower_expr_access.go/...), since mir
// is the teacher's register/basic-block emission target, closest in shape
// to this core's internal/ir; hir's tree-IR stage has no counterpart here
// (this Lowerer emits register IR directly from the AST, per SPEC_FULL.md
// §7). lower_stmt.go carries the statement/declaration/function-body side
// of that split, named after the teacher's own mir/lower_stmt.go.
package lower

import (
	"fmt"

	"icarus/internal/ast"
	"icarus/internal/ctx"
	"icarus/internal/ir"
	"icarus/internal/types"
	"icarus/internal/verify"
)

// Lowerer holds everything one function/jump body's lowering pass needs:
// the AST to read nodes from, the type universe the Verifier already
// populated QualTypes against, the Context carrying those QualTypes, and
// the ir.Builder accumulating the current BlockGroup.
type Lowerer struct {
	Builder *ast.Builder
	Types   *types.Interner
	Ctx     *ctx.Context
	IR      *ir.Builder

	// Scope resolves an identifier to its declaring node, the same
	// abstraction internal/verify.Verifier.Scope uses.
	Scope verify.Scope
}

// New constructs a Lowerer over one BlockGroup's ir.Builder.
func New(builder *ast.Builder, interner *types.Interner, c *ctx.Context, irBuilder *ir.Builder, scope verify.Scope) *Lowerer {
	return &Lowerer{Builder: builder, Types: interner, Ctx: c, IR: irBuilder, Scope: scope}
}

func (l *Lowerer) qualType(expr ast.ExprID) types.QualType {
	qt, ok := l.Ctx.QualType(expr)
	if !ok {
		panic(fmt.Sprintf("lower: expr %d has no QualType; Verifier must run before Lower", expr))
	}
	return qt
}

// LowerExpr emits expr as a value-producing instruction sequence and
// returns the register holding its result, per §4.7's "expression emission
// returns a Value" policy.
func (l *Lowerer) LowerExpr(expr ast.ExprID) ir.Register {
	node := l.Builder.Exprs.Get(expr)
	if node == nil {
		panic("lower: dangling expr id")
	}
	switch node.Kind {
	case ast.ExprLit:
		return l.lowerLiteral(expr)
	case ast.ExprIdent:
		return l.lowerIdentLoad(expr)
	case ast.ExprBinary:
		return l.lowerBinary(expr)
	case ast.ExprUnary:
		return l.lowerUnary(expr)
	case ast.ExprCast:
		return l.lowerCast(expr)
	case ast.ExprCall:
		return l.lowerCall(expr)
	case ast.ExprIndex:
		return l.lowerIndex(expr)
	case ast.ExprTupleIndex:
		return l.lowerTupleIndex(expr)
	case ast.ExprStruct:
		return l.lowerStructLiteral(expr)
	case ast.ExprTuple:
		return l.lowerTuple(expr)
	case ast.ExprScope:
		return l.lowerScopeNode(expr)
	case ast.ExprGroup:
		g, ok := l.Builder.Exprs.Group(expr)
		if !ok {
			panic("lower: malformed group expr")
		}
		return l.LowerExpr(g.Inner)
	default:
		panic(fmt.Sprintf("lower: expr kind %v not supported by this core", node.Kind))
	}
}

// LowerLValue emits expr as an address-producing sequence, returning the
// register holding a pointer to its storage, per §4.7's "lvalue emission
// returns a register holding an address" policy. Only Ident (a declared,
// addressable local), Index/TupleIndex chains and a Group around one of
// these resolve to an address; anything else (Member access included)
// panics, mirroring a
// programming-error precondition the Verifier is responsible for
// rejecting before this stage ever sees it (assigning to a non-lvalue is a
// verification-time error, not a lowering-time one).
func (l *Lowerer) LowerLValue(expr ast.ExprID) ir.Register {
	node := l.Builder.Exprs.Get(expr)
	if node == nil {
		panic("lower: dangling expr id")
	}
	switch node.Kind {
	case ast.ExprIdent:
		return l.lowerIdentAddr(expr)
	case ast.ExprIndex:
		return l.lowerIndexAddr(expr)
	case ast.ExprTupleIndex:
		return l.lowerTupleIndexAddr(expr)
	case ast.ExprGroup:
		g, _ := l.Builder.Exprs.Group(expr)
		return l.LowerLValue(g.Inner)
	default:
		panic("lower: expression is not an lvalue")
	}
}
