package lower

import (
	"testing"

	"icarus/internal/ast"
	"icarus/internal/ctx"
	"icarus/internal/ir"
	"icarus/internal/module"
	"icarus/internal/source"
	"icarus/internal/types"
)

func newTestLowerer() (*Lowerer, *ast.Builder, *ctx.Context, *ir.BlockGroup) {
	strings := source.NewInterner()
	builder := ast.NewBuilder(ast.Hints{}, strings)
	interner := types.NewInterner(strings)
	c := ctx.New(module.ID(1))

	group := &ir.BlockGroup{Name: "test"}
	irBuilder := ir.NewBuilder(group, 0)
	entry := irBuilder.NewBlock()
	group.Entry = entry
	irBuilder.SetBlock(entry)

	l := New(builder, interner, c, irBuilder, nil)
	return l, builder, c, group
}

func TestLowerDeclAllocatesAndMovesInitializer(t *testing.T) {
	l, builder, c, group := newTestLowerer()
	in := l.Types

	value := builder.Exprs.NewLiteral(source.Span{}, ast.ExprLitInt, 0)
	c.SetQualType(value, types.QualType{Type: in.Builtins().I32})
	stmt := builder.Stmts.NewLet(source.Span{}, builder.StringsInterner.Intern("x"), ast.NoExprID, ast.NoTypeID, value, false)

	declKey := ast.StmtDeclKey(stmt)
	c.SetQualType(declKey, types.QualType{Type: in.Builtins().I32})

	l.LowerDecl(stmt)

	addr, ok := c.Addr(declKey)
	if !ok {
		t.Fatalf("LowerDecl should bind an address under ast.StmtDeclKey")
	}

	cur := group.Block(l.IR.CurrentBlock())
	foundAlloca, foundMove := false, false
	for _, instr := range cur.Instrs {
		if instr.Kind == ir.InstrAlloca && instr.Dst == addr {
			foundAlloca = true
		}
		if instr.Kind == ir.InstrMove && instr.Move.Dst == addr {
			foundMove = true
		}
	}
	if !foundAlloca {
		t.Fatalf("expected an Alloca for the let's storage")
	}
	if !foundMove {
		t.Fatalf("expected a Move from the initializer into the let's storage")
	}
}

func TestLowerDeclSkipsPatternLets(t *testing.T) {
	l, builder, c, _ := newTestLowerer()

	pattern := builder.Exprs.NewTuple(source.Span{}, nil, nil, false)
	stmt := builder.Stmts.NewLet(source.Span{}, source.NoStringID, pattern, ast.NoTypeID, ast.NoExprID, false)

	l.LowerDecl(stmt)

	declKey := ast.StmtDeclKey(stmt)
	if _, ok := c.Addr(declKey); ok {
		t.Fatalf("a pattern let should not bind any address")
	}
}

func TestLowerStmtReturnTerminatesBlock(t *testing.T) {
	l, builder, c, group := newTestLowerer()
	in := l.Types

	value := builder.Exprs.NewLiteral(source.Span{}, ast.ExprLitInt, 0)
	c.SetQualType(value, types.QualType{Type: in.Builtins().I32})
	stmt := builder.Stmts.NewReturn(source.Span{}, value)

	l.LowerStmt(stmt)

	blk := group.Block(l.IR.CurrentBlock())
	if !blk.Terminated() {
		t.Fatalf("expected StmtReturn to terminate the current block")
	}
	if blk.Term.Kind != ir.JumpReturn {
		t.Fatalf("expected a JumpReturn terminator, got %v", blk.Term.Kind)
	}
}

func TestLowerIfStmtJoinsBothBranches(t *testing.T) {
	l, builder, c, group := newTestLowerer()
	in := l.Types

	cond := builder.Exprs.NewLiteral(source.Span{}, ast.ExprLitTrue, 0)
	c.SetQualType(cond, types.QualType{Type: in.Builtins().Bool})

	thenExpr := builder.Exprs.NewLiteral(source.Span{}, ast.ExprLitInt, 0)
	c.SetQualType(thenExpr, types.QualType{Type: in.Builtins().I32})
	thenStmt := builder.Stmts.NewExpr(source.Span{}, thenExpr, false)

	ifStmt := builder.Stmts.NewIf(source.Span{}, cond, thenStmt, ast.NoStmtID)
	l.LowerStmt(ifStmt)

	final := group.Block(l.IR.CurrentBlock())
	if final.Terminated() {
		t.Fatalf("the joined `after` block should remain open for further lowering")
	}
	if len(group.Blocks) < 4 {
		t.Fatalf("expected at least 4 blocks (entry, then, else, after), got %d", len(group.Blocks))
	}
}

func TestLowerIfStmtDoesNotDoubleTerminateAfterReturn(t *testing.T) {
	l, builder, c, group := newTestLowerer()
	in := l.Types

	cond := builder.Exprs.NewLiteral(source.Span{}, ast.ExprLitTrue, 0)
	c.SetQualType(cond, types.QualType{Type: in.Builtins().Bool})

	retVal := builder.Exprs.NewLiteral(source.Span{}, ast.ExprLitInt, 0)
	c.SetQualType(retVal, types.QualType{Type: in.Builtins().I32})
	thenStmt := builder.Stmts.NewReturn(source.Span{}, retVal)

	ifStmt := builder.Stmts.NewIf(source.Span{}, cond, thenStmt, ast.NoStmtID)

	// Must not panic: the `then` branch already terminated its own block
	// with a return, so lowerIfStmt must not also append an unconditional
	// jump to `after` on top of it.
	l.LowerStmt(ifStmt)
	// The joined `after` block stays open (see the test above); close it so
	// the whole group can be validated.
	l.IR.SetTerm(ir.JumpCmd{Kind: ir.JumpReturn})

	if err := ir.Validate(group); err != nil {
		t.Fatalf("expected a well-formed group after lowering if/return, got %v", err)
	}
}

func TestLowerFnBodyBindsParametersAndReturns(t *testing.T) {
	strings := source.NewInterner()
	builder := ast.NewBuilder(ast.Hints{}, strings)
	interner := types.NewInterner(strings)
	c := ctx.New(module.ID(1))
	l := New(builder, interner, c, nil, nil)

	paramTypeExpr := ast.TypeID(1)
	c.SetQualType(ast.TypeExprKey(paramTypeExpr), types.QualType{Type: interner.Builtins().I32})
	returnTypeExpr := ast.TypeID(2)
	c.SetQualType(ast.TypeExprKey(returnTypeExpr), types.QualType{Type: interner.Builtins().I32})

	paramName := strings.Intern("x")
	param := ast.FnParam{Name: paramName, Type: paramTypeExpr}

	retVal := builder.Exprs.NewLiteral(source.Span{}, ast.ExprLitInt, 0)
	c.SetQualType(retVal, types.QualType{Type: interner.Builtins().I32})
	body := builder.Stmts.NewReturn(source.Span{}, retVal)

	fnItemID := builder.Items.NewFn(strings.Intern("identity"), source.Span{}, []ast.FnParam{param}, returnTypeExpr, body, 0, nil, source.Span{})
	fnItem, ok := builder.Items.Fn(fnItemID)
	if !ok {
		t.Fatalf("failed to construct test FnItem")
	}

	compiled := l.LowerFnBody(fnItemID, fnItem)

	if len(compiled.Params) != 1 {
		t.Fatalf("expected one bound parameter, got %d", len(compiled.Params))
	}
	if len(compiled.Returns) != 1 || compiled.Returns[0] != interner.Builtins().I32 {
		t.Fatalf("expected Returns = [i32], got %v", compiled.Returns)
	}
	if err := ir.Validate(&compiled.BlockGroup); err != nil {
		t.Fatalf("expected the compiled function's BlockGroup to validate, got %v", err)
	}
}
