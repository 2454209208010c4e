package verify

import (
	"testing"

	"icarus/internal/ast"
	"icarus/internal/ctx"
	"icarus/internal/module"
	"icarus/internal/source"
	"icarus/internal/types"
)

func newTestVerifier() (*Verifier, *ast.Builder) {
	strings := source.NewInterner()
	builder := ast.NewBuilder(ast.Hints{}, strings)
	interner := types.NewInterner(strings)
	v := New(builder, interner, nil, nil, nil)
	return v, builder
}

func TestVerifyLiteralInt(t *testing.T) {
	v, builder := newTestVerifier()
	c := ctx.New(module.ID(1))

	lit := builder.Exprs.NewLiteral(source.Span{}, ast.ExprLitInt, 0)
	qt := v.VerifyType(c, lit)
	if qt.IsError() {
		t.Fatalf("expected an integer literal to verify cleanly, got error QualType")
	}
	ty, ok := v.Types.Lookup(qt.Type)
	if !ok || ty.Kind != types.KindInt {
		t.Fatalf("expected KindInt, got %v", ty.Kind)
	}
}

func TestVerifyLiteralBool(t *testing.T) {
	v, builder := newTestVerifier()
	c := ctx.New(module.ID(1))

	lit := builder.Exprs.NewLiteral(source.Span{}, ast.ExprLitTrue, 0)
	qt := v.VerifyType(c, lit)
	if qt.Type != v.Types.Builtins().Bool {
		t.Fatalf("expected a `true` literal to verify as Bool, got TypeID %d", qt.Type)
	}
}

func TestVerifyTypeCachesResultOnContext(t *testing.T) {
	v, builder := newTestVerifier()
	c := ctx.New(module.ID(1))

	lit := builder.Exprs.NewLiteral(source.Span{}, ast.ExprLitInt, 0)
	first := v.VerifyType(c, lit)
	second := v.VerifyType(c, lit)
	if first != second {
		t.Fatalf("VerifyType should return the cached QualType on a repeated call, got %+v then %+v", first, second)
	}
	if _, ok := c.QualType(lit); !ok {
		t.Fatalf("expected VerifyType to cache its result via ctx.Context.SetQualType")
	}
}

func TestVerifyBinaryArithmeticSameFamily(t *testing.T) {
	v, builder := newTestVerifier()
	c := ctx.New(module.ID(1))

	lhs := builder.Exprs.NewLiteral(source.Span{}, ast.ExprLitInt, 0)
	rhs := builder.Exprs.NewLiteral(source.Span{}, ast.ExprLitInt, 0)
	add := builder.Exprs.NewBinary(source.Span{}, ast.ExprBinaryAdd, lhs, rhs)

	qt := v.VerifyType(c, add)
	if qt.IsError() {
		t.Fatalf("expected i+i to verify cleanly")
	}
}

func TestVerifyBinaryPropagatesOperandError(t *testing.T) {
	v, builder := newTestVerifier()
	c := ctx.New(module.ID(1))

	// An Ident with no Scope wired reports Error (no declaration found).
	badIdent := builder.Exprs.NewIdent(source.Span{}, builder.StringsInterner.Intern("undeclared"))
	rhs := builder.Exprs.NewLiteral(source.Span{}, ast.ExprLitInt, 0)
	add := builder.Exprs.NewBinary(source.Span{}, ast.ExprBinaryAdd, badIdent, rhs)

	qt := v.VerifyType(c, add)
	if !qt.IsError() {
		t.Fatalf("expected a binary expression with an unresolved operand to verify as Error")
	}
}

func TestVerifyTypeDetectsCyclicDependency(t *testing.T) {
	v, builder := newTestVerifier()
	c := ctx.New(module.ID(1))

	lit := builder.Exprs.NewLiteral(source.Span{}, ast.ExprLitInt, 0)
	v.inFlight[lit] = true
	qt := v.VerifyType(c, lit)
	if !qt.IsError() {
		t.Fatalf("re-entering VerifyType on an in-flight node should report a cyclic-dependency Error")
	}
}

func TestVerifyStmtExprVerifiesInnerExpression(t *testing.T) {
	v, builder := newTestVerifier()
	c := ctx.New(module.ID(1))

	lit := builder.Exprs.NewLiteral(source.Span{}, ast.ExprLitInt, 0)
	stmt := builder.Stmts.NewExpr(source.Span{}, lit, false)

	v.VerifyStmt(c, stmt)
	if _, ok := c.QualType(lit); !ok {
		t.Fatalf("VerifyStmt on an StmtExpr should verify its inner expression")
	}
}

func TestVerifyLetStmtInfersFromInitializer(t *testing.T) {
	v, builder := newTestVerifier()
	c := ctx.New(module.ID(1))

	value := builder.Exprs.NewLiteral(source.Span{}, ast.ExprLitInt, 0)
	stmt := builder.Stmts.NewLet(source.Span{}, builder.StringsInterner.Intern("x"), ast.NoExprID, ast.NoTypeID, value, false)

	v.VerifyStmt(c, stmt)
	declKey := ast.StmtDeclKey(stmt)
	qt, ok := c.QualType(declKey)
	if !ok {
		t.Fatalf("verifyLetStmt should bind a QualType under ast.StmtDeclKey")
	}
	if qt.IsError() {
		t.Fatalf("a let with a valid integer initializer should not verify as Error")
	}
}

func TestVerifyLetStmtNoAnnotationNoValueIsUninferrable(t *testing.T) {
	v, builder := newTestVerifier()
	c := ctx.New(module.ID(1))

	stmt := builder.Stmts.NewLet(source.Span{}, builder.StringsInterner.Intern("x"), ast.NoExprID, ast.NoTypeID, ast.NoExprID, false)

	v.VerifyStmt(c, stmt)
	declKey := ast.StmtDeclKey(stmt)
	qt, ok := c.QualType(declKey)
	if !ok || !qt.IsError() {
		t.Fatalf("a let with neither annotation nor initializer should bind an Error QualType")
	}
}
