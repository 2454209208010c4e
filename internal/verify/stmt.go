package verify

import (
	"icarus/internal/ast"
	"icarus/internal/ctx"
	"icarus/internal/diag"
	"icarus/internal/source"
	"icarus/internal/types"
)

// VerifyStmt walks one statement, verifying every expression it contains so
// internal/lower can later assume every ast.ExprID it reaches already has a
// cached QualType on c — the same precondition qualType's panic in lower.go
// documents, just discharged here instead of by a caller that forgot to run
// the Verifier first. Mirrors internal/symbols' resolve_walk.go walkStmt
// shape (same statement kinds, same recursion structure) since both exist to
// visit "every expression reachable from a function body" exactly once per
// concern.
func (v *Verifier) VerifyStmt(c *ctx.Context, stmtID ast.StmtID) {
	if !stmtID.IsValid() {
		return
	}
	stmt := v.Builder.Stmts.Get(stmtID)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtBlock:
		block := v.Builder.Stmts.Block(stmtID)
		if block == nil {
			return
		}
		for _, child := range block.Stmts {
			v.VerifyStmt(c, child)
		}
	case ast.StmtLet:
		v.verifyLetStmt(c, stmtID)
	case ast.StmtIf:
		ifStmt := v.Builder.Stmts.If(stmtID)
		if ifStmt == nil {
			return
		}
		v.VerifyType(c, ifStmt.Cond)
		v.VerifyStmt(c, ifStmt.Then)
		if ifStmt.Else.IsValid() {
			v.VerifyStmt(c, ifStmt.Else)
		}
	case ast.StmtWhile:
		whileStmt := v.Builder.Stmts.While(stmtID)
		if whileStmt == nil {
			return
		}
		v.VerifyType(c, whileStmt.Cond)
		v.VerifyStmt(c, whileStmt.Body)
	case ast.StmtForClassic:
		forStmt := v.Builder.Stmts.ForClassic(stmtID)
		if forStmt == nil {
			return
		}
		if forStmt.Init.IsValid() {
			v.VerifyStmt(c, forStmt.Init)
		}
		if forStmt.Cond.IsValid() {
			v.VerifyType(c, forStmt.Cond)
		}
		if forStmt.Post.IsValid() {
			v.VerifyType(c, forStmt.Post)
		}
		v.VerifyStmt(c, forStmt.Body)
	case ast.StmtForIn:
		forIn := v.Builder.Stmts.ForIn(stmtID)
		if forIn == nil {
			return
		}
		v.VerifyType(c, forIn.Iterable)
		v.VerifyStmt(c, forIn.Body)
	case ast.StmtExpr:
		exprStmt := v.Builder.Stmts.Expr(stmtID)
		if exprStmt != nil && exprStmt.Expr.IsValid() {
			v.VerifyType(c, exprStmt.Expr)
		}
	case ast.StmtSignal:
		signalStmt := v.Builder.Stmts.Signal(stmtID)
		if signalStmt != nil && signalStmt.Value.IsValid() {
			v.VerifyType(c, signalStmt.Value)
		}
	case ast.StmtDrop:
		if dropStmt := v.Builder.Stmts.Drop(stmtID); dropStmt != nil && dropStmt.Expr.IsValid() {
			v.VerifyType(c, dropStmt.Expr)
		}
	case ast.StmtReturn:
		returnStmt := v.Builder.Stmts.Return(stmtID)
		if returnStmt != nil && returnStmt.Expr.IsValid() {
			v.VerifyType(c, returnStmt.Expr)
		}
	case ast.StmtBreak, ast.StmtContinue:
	}
}

// verifyLetStmt applies the Declaration rule's four shapes (§4.4) to a local
// `let`, the same logic verifyDeclShape applies to a top-level let/const,
// keyed by ast.StmtDeclKey instead of ast.ItemDeclKey since a statement has
// no ItemID. Pattern-destructuring lets (`let (x, y) = ...`) verify their
// tuple pattern as an ordinary expression rather than unpacking per-name
// QualTypes; internal/lower's pattern binding is narrowed the same way (see
// DESIGN.md).
func (v *Verifier) verifyLetStmt(c *ctx.Context, stmtID ast.StmtID) {
	letStmt := v.Builder.Stmts.Let(stmtID)
	if letStmt == nil {
		return
	}
	declKey := ast.StmtDeclKey(stmtID)
	if _, ok := c.QualType(declKey); ok {
		return
	}
	stmt := v.Builder.Stmts.Get(stmtID)
	span := source.Span{}
	if stmt != nil {
		span = stmt.Span
	}

	if letStmt.Pattern.IsValid() {
		// Pattern elements (`x`, `y` in `let (x, y) = ...`) are binding
		// targets, not uses, so VerifyType's Identifier rule doesn't apply to
		// them; only the initializer is a real expression to verify. Binding
		// each name its own QualType from the matched tuple slot is left to
		// internal/lower (see DESIGN.md).
		if letStmt.Value.IsValid() {
			v.VerifyType(c, letStmt.Value)
		}
		c.SetQualType(declKey, errorQT())
		return
	}

	var annotationQT types.QualType
	hasAnnotation := letStmt.Type.IsValid()
	if hasAnnotation {
		qt, ok := v.resolveTypeExpr(c, declKey, letStmt.Type)
		if !ok {
			c.SetQualType(declKey, v.reportAt(diag.CoreNonConstantTypeInDeclaration, span, "type annotation could not be resolved"))
			return
		}
		annotationQT = qt
	}

	var valueQT types.QualType
	hasValue := letStmt.Value.IsValid()
	if hasValue {
		valueQT = v.VerifyType(c, letStmt.Value)
	}

	switch {
	case hasAnnotation && hasValue:
		if annotationQT.IsError() || valueQT.IsError() {
			c.SetQualType(declKey, errorQT())
			return
		}
		if !v.Types.CanCastImplicitly(valueQT.Type, annotationQT.Type) {
			c.SetQualType(declKey, v.reportAt(diag.CoreInvalidInitializerType, span,
				"initializer type is not assignable to the declared type"))
			return
		}
		c.SetQualType(declKey, v.declResultQT(annotationQT.Type, false))
	case hasAnnotation && !hasValue:
		c.SetQualType(declKey, v.declResultQT(annotationQT.Type, false))
	case !hasAnnotation && hasValue:
		if valueQT.IsError() {
			c.SetQualType(declKey, errorQT())
			return
		}
		c.SetQualType(declKey, v.declResultQT(valueQT.Type, false))
	default:
		c.SetQualType(declKey, v.reportAt(diag.CoreUninferrableType, span, "declaration has neither a type annotation nor an initialiser"))
	}
}
