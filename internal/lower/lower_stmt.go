package lower

import (
	"icarus/internal/ast"
	"icarus/internal/ctx"
	"icarus/internal/ir"
	"icarus/internal/source"
	"icarus/internal/types"
	"icarus/internal/verify"
	"icarus/internal/workqueue"
)

// LowerDecl lowers a local `let` statement (§4.7's "non-constants allocate
// via Alloca at function entry, then initialise"): reserve storage for the
// declared QualType, move- or default-initialise it, then bind the
// statement's ast.StmtDeclKey to the resulting address so later
// lowerIdentAddr lookups through Scope resolve to real storage. Pattern
// lets (`let (x, y) = ...`) are not yet unpacked (see DESIGN.md) and are
// skipped rather than guessed.
func (l *Lowerer) LowerDecl(stmtID ast.StmtID) {
	letStmt := l.Builder.Stmts.Let(stmtID)
	if letStmt == nil || letStmt.Pattern.IsValid() {
		return
	}
	declKey := ast.StmtDeclKey(stmtID)
	qt, ok := l.Ctx.QualType(declKey)
	if !ok || qt.IsError() {
		return
	}

	addr := l.IR.TmpAlloca(qt.Type)
	if letStmt.Value.IsValid() {
		src := l.materializeAddr(letStmt.Value)
		l.IR.Emit(ir.Instruction{Kind: ir.InstrMove, Move: ir.MoveInstr{Dst: addr, Src: src, Type: qt.Type}}, false)
	} else {
		l.IR.Emit(ir.Instruction{Kind: ir.InstrInit, Init: ir.InitInstr{Addr: addr, Type: qt.Type}}, false)
	}
	l.Ctx.SetAddr(declKey, addr)
}

// LowerStmt lowers one statement into the current BlockGroup, mirroring
// internal/verify.VerifyStmt's and internal/symbols' resolve_walk.go
// walkStmt's recursion shape (same statement kinds) since all three exist
// to visit a function body's control-flow tree once per concern —
// verify and lower handled with the same structure here since function
// bodies have no separate HIR stage to run VerifyStmt's pass and this
// pass over (grounded on the same "resolve then generalize" split
// struct_complete.go's struct completion already uses: verify once, emit
// IR directly, no intermediate tree).
func (l *Lowerer) LowerStmt(stmtID ast.StmtID) {
	if !stmtID.IsValid() {
		return
	}
	stmt := l.Builder.Stmts.Get(stmtID)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtBlock:
		block := l.Builder.Stmts.Block(stmtID)
		if block == nil {
			return
		}
		for _, child := range block.Stmts {
			l.LowerStmt(child)
		}
	case ast.StmtLet:
		l.LowerDecl(stmtID)
	case ast.StmtExpr:
		exprStmt := l.Builder.Stmts.Expr(stmtID)
		if exprStmt != nil && exprStmt.Expr.IsValid() {
			l.LowerExpr(exprStmt.Expr)
		}
	case ast.StmtReturn:
		returnStmt := l.Builder.Stmts.Return(stmtID)
		var values []ir.Register
		if returnStmt != nil && returnStmt.Expr.IsValid() {
			values = []ir.Register{l.LowerExpr(returnStmt.Expr)}
		}
		l.IR.SetTerm(ir.JumpCmd{Kind: ir.JumpReturn, Return: ir.ReturnJump{Values: values}})
	case ast.StmtDrop:
		if dropStmt := l.Builder.Stmts.Drop(stmtID); dropStmt != nil && dropStmt.Expr.IsValid() {
			qt := l.qualType(dropStmt.Expr)
			addr := l.materializeAddr(dropStmt.Expr)
			l.IR.Emit(ir.Instruction{Kind: ir.InstrDestroy, Destroy: ir.DestroyInstr{Addr: addr, Type: qt.Type}}, false)
		}
	case ast.StmtIf:
		l.lowerIfStmt(stmtID)
	case ast.StmtWhile:
		l.lowerWhileStmt(stmtID)
	case ast.StmtForClassic:
		l.lowerForClassicStmt(stmtID)
	case ast.StmtSignal, ast.StmtForIn, ast.StmtBreak, ast.StmtContinue:
		// Signal is a deprecated/internal emission form with no lowering
		// target in this core yet; ForIn/Break/Continue need a loop-context
		// stack this Lowerer doesn't carry (see DESIGN.md).
	}
}

func (l *Lowerer) lowerIfStmt(stmtID ast.StmtID) {
	ifStmt := l.Builder.Stmts.If(stmtID)
	if ifStmt == nil {
		return
	}
	cond := l.LowerExpr(ifStmt.Cond)
	thenBlock := l.IR.NewBlock()
	elseBlock := l.IR.NewBlock()
	after := l.IR.NewBlock()
	l.IR.SetTerm(ir.JumpCmd{Kind: ir.JumpCond, Cond: ir.CondJump{Cond: cond, Then: thenBlock, Else: elseBlock}})

	l.IR.SetBlock(thenBlock)
	l.LowerStmt(ifStmt.Then)
	if !l.IR.Group().Block(l.IR.CurrentBlock()).Terminated() {
		l.IR.SetTerm(ir.JumpCmd{Kind: ir.JumpUncond, Uncond: ir.UncondJump{Target: after}})
	}

	l.IR.SetBlock(elseBlock)
	if ifStmt.Else.IsValid() {
		l.LowerStmt(ifStmt.Else)
	}
	if !l.IR.Group().Block(l.IR.CurrentBlock()).Terminated() {
		l.IR.SetTerm(ir.JumpCmd{Kind: ir.JumpUncond, Uncond: ir.UncondJump{Target: after}})
	}

	l.IR.SetBlock(after)
}

func (l *Lowerer) lowerWhileStmt(stmtID ast.StmtID) {
	whileStmt := l.Builder.Stmts.While(stmtID)
	if whileStmt == nil {
		return
	}
	head := l.IR.NewBlock()
	body := l.IR.NewBlock()
	after := l.IR.NewBlock()
	l.IR.SetTerm(ir.JumpCmd{Kind: ir.JumpUncond, Uncond: ir.UncondJump{Target: head}})

	l.IR.SetBlock(head)
	cond := l.LowerExpr(whileStmt.Cond)
	l.IR.SetTerm(ir.JumpCmd{Kind: ir.JumpCond, Cond: ir.CondJump{Cond: cond, Then: body, Else: after}})

	l.IR.SetBlock(body)
	l.LowerStmt(whileStmt.Body)
	if !l.IR.Group().Block(l.IR.CurrentBlock()).Terminated() {
		l.IR.SetTerm(ir.JumpCmd{Kind: ir.JumpUncond, Uncond: ir.UncondJump{Target: head}})
	}

	l.IR.SetBlock(after)
}

func (l *Lowerer) lowerForClassicStmt(stmtID ast.StmtID) {
	forStmt := l.Builder.Stmts.ForClassic(stmtID)
	if forStmt == nil {
		return
	}
	if forStmt.Init.IsValid() {
		l.LowerStmt(forStmt.Init)
	}
	head := l.IR.NewBlock()
	body := l.IR.NewBlock()
	after := l.IR.NewBlock()
	l.IR.SetTerm(ir.JumpCmd{Kind: ir.JumpUncond, Uncond: ir.UncondJump{Target: head}})

	l.IR.SetBlock(head)
	if forStmt.Cond.IsValid() {
		cond := l.LowerExpr(forStmt.Cond)
		l.IR.SetTerm(ir.JumpCmd{Kind: ir.JumpCond, Cond: ir.CondJump{Cond: cond, Then: body, Else: after}})
	} else {
		l.IR.SetTerm(ir.JumpCmd{Kind: ir.JumpUncond, Uncond: ir.UncondJump{Target: body}})
	}

	l.IR.SetBlock(body)
	l.LowerStmt(forStmt.Body)
	if forStmt.Post.IsValid() {
		l.LowerExpr(forStmt.Post)
	}
	if !l.IR.Group().Block(l.IR.CurrentBlock()).Terminated() {
		l.IR.SetTerm(ir.JumpCmd{Kind: ir.JumpUncond, Uncond: ir.UncondJump{Target: head}})
	}

	l.IR.SetBlock(after)
}

// LowerFnBody lowers fnItem's body into a fresh BlockGroup and returns the
// resulting CompiledFn, per §4.7's function-emission shape. Parameters bind
// their Context address the same way a struct-completion function's
// BindParam result does (struct_complete.go's buildCopy/buildMove/buildDestroy
// pattern), via one Alloca+Store per parameter so lowerIdentAddr's uniform
// "addresses come from ctx.Addr" contract holds for parameters too, not
// just locals.
func (l *Lowerer) LowerFnBody(item ast.ItemID, fnItem *ast.FnItem) ir.CompiledFn {
	name := "fn"
	if fnItem.Name != source.NoStringID {
		name = l.Builder.StringsInterner.MustLookup(fnItem.Name)
	}
	group := &ir.BlockGroup{Name: name}
	l.IR = ir.NewBuilder(group, 0)
	entry := l.IR.NewBlock()
	group.Entry = entry
	l.IR.SetBlock(entry)

	paramIDs := l.Builder.Items.GetFnParamIDs(fnItem)
	for _, pid := range paramIDs {
		param := l.Builder.Items.FnParam(pid)
		if param == nil || param.Name == source.NoStringID {
			continue
		}
		pqt, ok := l.Ctx.QualType(ast.TypeExprKey(param.Type))
		if !ok {
			continue
		}
		val := l.IR.BindParam(pqt.Type)
		addr := l.IR.TmpAlloca(pqt.Type)
		l.IR.Emit(ir.Instruction{Kind: ir.InstrStore, Store: ir.StoreInstr{Addr: addr, Value: val, Type: pqt.Type}}, false)
		l.Ctx.SetAddr(ast.ParamDeclKey(pid), addr)
	}

	if fnItem.Body.IsValid() {
		l.LowerStmt(fnItem.Body)
	}
	if !l.IR.Group().Block(l.IR.CurrentBlock()).Terminated() {
		l.IR.SetTerm(ir.JumpCmd{Kind: ir.JumpReturn})
	}

	var returns []types.TypeID
	if fnItem.ReturnType.IsValid() {
		if rqt, ok := l.Ctx.QualType(ast.TypeExprKey(fnItem.ReturnType)); ok {
			returns = []types.TypeID{rqt.Type}
		}
	}
	return ir.CompiledFn{BlockGroup: *group, Returns: returns}
}

// BodyLowerer implements verify.BodyVerifier by running VerifyStmt over a
// function's body (discharging the QualType precondition LowerFnBody's
// LowerExpr calls rely on) and then immediately lowering it to IR, the same
// verify-then-emit-with-no-intermediate-stage combination
// StructCompleter.CompleteStruct already uses for synthesized struct
// members — a function body has no deferred-instantiation concern of its
// own that would need the two kept apart.
type BodyLowerer struct {
	Verifier *verify.Verifier
	Types    *types.Interner
	Builder  *ast.Builder
	Scope    verify.Scope
}

// NewBodyLowerer constructs a BodyLowerer sharing the module's Verifier
// (for VerifyStmt), type universe, AST, and Scope.
func NewBodyLowerer(v *verify.Verifier, interner *types.Interner, builder *ast.Builder, scope verify.Scope) *BodyLowerer {
	return &BodyLowerer{Verifier: v, Types: interner, Builder: builder, Scope: scope}
}

// VerifyBody implements verify.BodyVerifier.
func (bl *BodyLowerer) VerifyBody(c *ctx.Context, fn ast.ItemID) workqueue.Outcome {
	fnItem, ok := bl.Builder.Items.Fn(fn)
	if !ok || fnItem == nil {
		return workqueue.Failure
	}
	if fnItem.Body.IsValid() {
		bl.Verifier.VerifyStmt(c, fnItem.Body)
	}

	l := New(bl.Builder, bl.Types, c, nil, bl.Scope)
	compiled := l.LowerFnBody(fn, fnItem)

	declKey := ast.ItemDeclKey(fn)
	c.AddFunc(ctx.NodeKey(declKey), func() ctx.FuncRef {
		return ctx.FuncRef{ID: c.InternStructFunc(compiled)}
	})
	return workqueue.Success
}
