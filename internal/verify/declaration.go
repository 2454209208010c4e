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

// DeclBinder writes a verified top-level declaration's type back onto its
// symbol, since internal/verify cannot import internal/symbols (the
// dependency already runs the other way, through Scope) to reach
// symbols.Symbol.Type itself. internal/symbols implements this by looking
// up item's SymbolID(s) in the resolve Result and assigning Type directly.
type DeclBinder interface {
	BindDecl(item ast.ItemID, qt types.QualType)
}

// BodyVerifier verifies one function's body once its signature is known.
// VerifyAll enqueues a call per FunctionLiteral via workqueue.VerifyBody so
// a body that calls a sibling function declared later in the same file
// still sees that sibling's signature by the time the queue drains it.
// Implemented by internal/lower (paired with StructCompleter), kept as an
// interface here for the same reason Completer is.
type BodyVerifier interface {
	VerifyBody(c *ctx.Context, fn ast.ItemID) workqueue.Outcome
}

// itemTarget adapts an ast.ItemID to workqueue.Item's Target field, mirroring
// struct_literal.go's exprTarget for the same reason: debug output only.
type itemTarget ast.ItemID

func (t itemTarget) String() string { return "" }

// VerifyAll implements §4.4's top-level entry point: verify every constant
// declaration first (so a let/fn initializer referencing a constant sees it
// already typed, without relying on declaration order), then the remaining
// items, then drain the work queue so deferred struct completions and
// function bodies run to a fixed point.
func (v *Verifier) VerifyAll(c *ctx.Context, items []ast.ItemID, binder DeclBinder) {
	seen := make(map[string]ast.ItemID)

	var rest []ast.ItemID
	for _, item := range items {
		node := v.Builder.Items.Get(item)
		if node != nil && node.Kind == ast.ItemConst {
			v.VerifyDecl(c, item, binder, seen)
		} else {
			rest = append(rest, item)
		}
	}
	for _, item := range rest {
		v.VerifyDecl(c, item, binder, seen)
	}

	if v.Queue != nil {
		if err := v.Queue.Run(); err != nil && v.Reporter != nil {
			diag.ReportError(v.Reporter, diag.CoreEvaluationFailure, source.Span{}, err.Error()).Emit()
		}
	}
}

// VerifyDecl verifies one top-level item, dispatching on its kind to the
// Declaration (Let/Const), FunctionLiteral, or Import rule (§4.4). seen
// tracks one name -> declaring item per VerifyAll pass, for the shadowing
// check Declaration's rule 4 calls for; callers verifying a single item in
// isolation (e.g. a forward reference forced from resolveTypeExpr) may pass
// a fresh map.
func (v *Verifier) VerifyDecl(c *ctx.Context, item ast.ItemID, binder DeclBinder, seen map[string]ast.ItemID) types.QualType {
	declKey := ast.ItemDeclKey(item)
	if qt, ok := c.QualType(declKey); ok {
		return qt
	}
	node := v.Builder.Items.Get(item)
	if node == nil {
		return c.SetQualType(declKey, errorQT())
	}

	var qt types.QualType
	switch node.Kind {
	case ast.ItemLet:
		letItem, ok := v.Builder.Items.Let(item)
		if !ok || letItem == nil {
			qt = errorQT()
			break
		}
		qt = v.verifyDeclShape(c, item, declKey, letItem.Name, letItem.NameSpan, letItem.Type, letItem.Value, false, seen)
	case ast.ItemConst:
		constItem, ok := v.Builder.Items.Const(item)
		if !ok || constItem == nil {
			qt = errorQT()
			break
		}
		qt = v.verifyDeclShape(c, item, declKey, constItem.Name, constItem.NameSpan, constItem.Type, constItem.Value, true, seen)
	case ast.ItemFn:
		fnItem, ok := v.Builder.Items.Fn(item)
		if !ok || fnItem == nil {
			qt = errorQT()
			break
		}
		qt = v.verifyFnDecl(c, item, declKey, fnItem)
	case ast.ItemImport:
		qt = v.verifyImportDecl()
	default:
		// Tag/Contract/Type/Extern/Pragma/Macro declarations are not one of
		// the four Declaration shapes or the FunctionLiteral/Import rules;
		// leave them untyped rather than guess (see DESIGN.md).
		return types.QualType{}
	}

	c.SetQualType(declKey, qt)
	if binder != nil {
		binder.BindDecl(item, qt)
	}
	return qt
}

// verifyDeclShape implements the Declaration rule's four shapes: `x : T`
// and `x : T = --` are indistinguishable in this AST (both have an invalid
// Value), so both take the annotation-only branch; `x := e` infers from the
// initializer; `x : T = e` checks cast compatibility between the two.
func (v *Verifier) verifyDeclShape(c *ctx.Context, item ast.ItemID, declKey ast.ExprID, name source.StringID, nameSpan source.Span, typeID ast.TypeID, value ast.ExprID, constant bool, seen map[string]ast.ItemID) types.QualType {
	var annotated, hasAnnotation bool
	var annotationQT types.QualType
	if typeID.IsValid() {
		hasAnnotation = true
		annotationQT, annotated = v.resolveTypeExpr(c, declKey, typeID)
		if !annotated {
			return v.reportAt(diag.CoreNonConstantTypeInDeclaration, nameSpan, "type annotation could not be resolved")
		}
	}

	var valueQT types.QualType
	hasValue := value.IsValid()
	if hasValue {
		valueQT = v.VerifyType(c, value)
	}

	v.checkShadowing(name, nameSpan, item, seen)

	switch {
	case hasAnnotation && hasValue:
		if annotationQT.IsError() || valueQT.IsError() {
			return errorQT()
		}
		if !v.Types.CanCastImplicitly(valueQT.Type, annotationQT.Type) {
			return v.reportAt(diag.CoreInvalidInitializerType, nameSpan,
				"initializer type is not assignable to the declared type")
		}
		return v.declResultQT(annotationQT.Type, constant)
	case hasAnnotation && !hasValue:
		if constant {
			return v.reportAt(diag.CoreUninitializedConstant, nameSpan, "constant declared without an initialiser")
		}
		if annotationQT.IsError() {
			return errorQT()
		}
		return v.declResultQT(annotationQT.Type, constant)
	case !hasAnnotation && hasValue:
		if valueQT.IsError() {
			return errorQT()
		}
		return v.declResultQT(valueQT.Type, constant)
	default:
		return v.reportAt(diag.CoreUninferrableType, nameSpan, "declaration has neither a type annotation nor an initialiser")
	}
}

func (v *Verifier) declResultQT(t types.TypeID, constant bool) types.QualType {
	quals := types.Quals(0)
	if constant {
		quals |= types.QualConst
	}
	return types.QualType{Type: t, Quals: quals}
}

// checkShadowing implements Declaration rule 4's narrowing to module-scope
// top-level declarations: two non-function items sharing a name in the same
// VerifyAll pass are flagged. Full ambiguous-callable-set shadowing against
// arbitrary visible scopes needs a scope-chain query this package's Scope
// interface doesn't expose (see DESIGN.md); functions are exempt here since
// they are legitimately overloaded by @overload/@override at the symbol
// level already.
func (v *Verifier) checkShadowing(name source.StringID, span source.Span, item ast.ItemID, seen map[string]ast.ItemID) {
	if name == source.NoStringID || seen == nil {
		return
	}
	key := v.Builder.StringsInterner.MustLookup(name)
	if prior, ok := seen[key]; ok && prior != item {
		if v.Reporter != nil {
			diag.ReportError(v.Reporter, diag.CoreShadowingDeclaration, span,
				"declaration shadows a previous declaration of the same name").Emit()
		}
		return
	}
	seen[key] = item
}

// verifyFnDecl implements the FunctionLiteral rule: verify parameters and
// outputs, classify Generic vs concrete by whether any parameter's own type
// is Type itself (a `$T: type` formal), and enqueue deferred body
// verification.
func (v *Verifier) verifyFnDecl(c *ctx.Context, item ast.ItemID, declKey ast.ExprID, fnItem *ast.FnItem) types.QualType {
	paramIDs := v.Builder.Items.GetFnParamIDs(fnItem)
	entries := make([]types.Param[types.TypeID], 0, len(paramIDs))
	var genericParams []types.TypeID
	isGeneric := false
	anyError := false

	for _, pid := range paramIDs {
		param := v.Builder.Items.FnParam(pid)
		if param == nil {
			continue
		}
		pqt, ok := v.resolveTypeExpr(c, declKey, param.Type)
		if !ok || pqt.IsError() {
			anyError = true
			continue
		}
		if t, ok := v.Types.Lookup(pqt.Type); ok && t.Kind == types.KindType {
			isGeneric = true
			tp := v.Types.RegisterTypeParam(param.Name, types.TypeParamIsType, types.NoTypeID)
			genericParams = append(genericParams, tp)
			entries = append(entries, types.Param[types.TypeID]{
				Name: param.Name, HasName: param.Name != source.NoStringID,
				Value: tp, HasDefault: param.Default.IsValid(),
			})
			continue
		}
		entries = append(entries, types.Param[types.TypeID]{
			Name: param.Name, HasName: param.Name != source.NoStringID,
			Value: pqt.Type, HasDefault: param.Default.IsValid(),
		})
	}

	var returns []types.TypeID
	if fnItem.ReturnType.IsValid() {
		rqt, ok := v.resolveTypeExpr(c, declKey, fnItem.ReturnType)
		if !ok || rqt.IsError() {
			anyError = true
		} else {
			returns = []types.TypeID{rqt.Type}
		}
	}

	if anyError {
		return errorQT()
	}

	var fnType types.TypeID
	if isGeneric {
		fnType = v.Types.RegisterGenericFunction(v.Module, fnItem.Name, fnItem.Span, genericParams)
	} else {
		fnType = v.Types.MakeFunction(types.NewParams(entries), returns)
	}
	qt := types.QualType{Type: fnType, Quals: types.QualConst}

	if fnItem.Body.IsValid() && v.Queue != nil && v.Bodies != nil {
		v.Queue.Push(workqueue.Item{
			Kind:   workqueue.VerifyBody,
			Target: itemTarget(item),
			Run: func() workqueue.Outcome {
				return v.Bodies.VerifyBody(c, item)
			},
		})
	}
	return qt
}

// verifyImportDecl implements the Import rule's result shape. The operand
// locator and the importer invocation itself (§6) already ran in
// internal/module.FileImporter before symbol resolution, since this core's
// ast.ImportItem carries a parsed module-path segment list rather than a
// constant-string expression the distilled Import operator imagines
// operating on; this rule's only remaining job is to give the import's own
// declaration the Module-kind type the rest of verification expects an
// imported name to carry.
func (v *Verifier) verifyImportDecl() types.QualType {
	return types.QualType{Type: v.Types.Builtins().Module, Quals: types.QualConst}
}

// reportAt is report's counterpart for diagnostics anchored to an item's own
// span rather than an ast.ExprID, since item-level declarations (unlike
// their initializer/annotation sub-expressions) have no Exprs-arena node of
// their own for report to read a span from.
func (v *Verifier) reportAt(code diag.Code, span source.Span, format string, args ...any) types.QualType {
	if v.Reporter != nil {
		diag.ReportError(v.Reporter, code, span, fmt.Sprintf(format, args...)).Emit()
	}
	return errorQT()
}
