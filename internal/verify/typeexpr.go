package verify

import (
	"icarus/internal/ast"
	"icarus/internal/ctx"
	"icarus/internal/types"
)

// resolveTypeExpr evaluates a type-syntax node (ast.TypeID, the parser's
// own small type grammar — distinct from the ast.ExprID expression tree
// VerifyType walks) to the types.QualType it names. A named segment
// (`Foo` in `x : Foo`) was already looked up once by internal/symbols'
// walkTypeExpr during name resolution and recorded under
// ast.TypeExprKey(id); this just replays that answer through Scope.Lookup
// and force-verifies a forward reference, the same pattern
// resolveNamedStructType already uses for DesignatedInitializer targets.
// atExpr anchors a forward reference's own VerifyType call to a source
// position; it is not itself verified.
//
// This is the general type-expression resolver (ast.TypeID ->
// types.QualType), narrowed to the forms the Declaration and
// FunctionLiteral rules need (named types, pointers/references, slices/
// arrays, tuples, function types); Optional/Errorable syntax resolves to
// Error rather than guessing a representation, since this core has no
// Option/Result type to lower them onto yet.
func (v *Verifier) resolveTypeExpr(c *ctx.Context, atExpr ast.ExprID, typeID ast.TypeID) (types.QualType, bool) {
	if !typeID.IsValid() {
		return types.QualType{}, false
	}
	if qt, ok := c.QualType(ast.TypeExprKey(typeID)); ok {
		return qt, true
	}
	node := v.Builder.Types.Get(typeID)
	if node == nil {
		return errorQT(), false
	}

	var qt types.QualType
	var ok bool
	switch node.Kind {
	case ast.TypeExprPath:
		qt, ok = v.resolveTypePath(c, atExpr, typeID)
	case ast.TypeExprUnary:
		qt, ok = v.resolveTypeUnary(c, atExpr, typeID)
	case ast.TypeExprArray:
		qt, ok = v.resolveTypeArray(c, atExpr, typeID)
	case ast.TypeExprTuple:
		qt, ok = v.resolveTypeTuple(c, atExpr, typeID)
	case ast.TypeExprFn:
		qt, ok = v.resolveTypeFn(c, atExpr, typeID)
	default:
		// Const/Optional/Errorable: no representation in this core yet.
		qt, ok = errorQT(), true
	}
	// Cached by ast.TypeExprKey so internal/lower (which has no
	// resolveTypeExpr of its own) can recover a declaration's parameter and
	// return types for binding without re-resolving them against Scope.
	if ok {
		c.SetQualType(ast.TypeExprKey(typeID), qt)
	}
	return qt, ok
}

func (v *Verifier) resolveTypePath(c *ctx.Context, atExpr ast.ExprID, typeID ast.TypeID) (types.QualType, bool) {
	path, ok := v.Builder.Types.Path(typeID)
	if !ok || len(path.Segments) == 0 {
		return errorQT(), true
	}
	if v.Scope == nil {
		return errorQT(), true
	}
	name := v.Builder.StringsInterner.MustLookup(path.Segments[0].Name)
	decls, _ := v.Scope.Lookup(ast.TypeExprKey(typeID), name)
	if len(decls) != 1 {
		return errorQT(), true
	}

	declQT, known := c.QualType(decls[0].Key)
	if !known && decls[0].Key.IsValid() {
		declQT = v.VerifyType(c, decls[0].Key)
		known = !declQT.IsError()
	}
	if !known {
		return errorQT(), true
	}
	// A type declaration's own QualType.Type already names the type it
	// declares directly (resolveNamedStructType relies on the same fact for
	// `T.{...}` targets) — no separate meta-type indirection to unwrap.
	return types.QualType{Type: declQT.Type}, true
}

func (v *Verifier) resolveTypeUnary(c *ctx.Context, atExpr ast.ExprID, typeID ast.TypeID) (types.QualType, bool) {
	data, ok := v.Builder.Types.UnaryType(typeID)
	if !ok {
		return errorQT(), true
	}
	inner, ok := v.resolveTypeExpr(c, atExpr, data.Inner)
	if !ok || inner.IsError() {
		return errorQT(), true
	}
	switch data.Op {
	case ast.TypeUnaryPointer, ast.TypeUnaryOwn:
		return types.QualType{Type: v.Types.Intern(types.MakePointer(inner.Type))}, true
	case ast.TypeUnaryRef:
		inner.Quals |= types.QualRef | types.QualConst
		return inner, true
	case ast.TypeUnaryRefMut:
		inner.Quals |= types.QualRef
		return inner, true
	default:
		return errorQT(), true
	}
}

func (v *Verifier) resolveTypeArray(c *ctx.Context, atExpr ast.ExprID, typeID ast.TypeID) (types.QualType, bool) {
	data, ok := v.Builder.Types.Array(typeID)
	if !ok {
		return errorQT(), true
	}
	elem, ok := v.resolveTypeExpr(c, atExpr, data.Elem)
	if !ok || elem.IsError() {
		return errorQT(), true
	}
	if data.Kind == ast.ArraySlice {
		return types.QualType{Type: v.Types.Intern(types.MakeSlice(elem.Type))}, true
	}
	return types.QualType{Type: v.Types.Intern(types.MakeArray(elem.Type, data.ConstLength))}, true
}

func (v *Verifier) resolveTypeTuple(c *ctx.Context, atExpr ast.ExprID, typeID ast.TypeID) (types.QualType, bool) {
	data, ok := v.Builder.Types.Tuple(typeID)
	if !ok {
		return errorQT(), true
	}
	elems := make([]types.TypeID, 0, len(data.Elems))
	for _, e := range data.Elems {
		qt, ok := v.resolveTypeExpr(c, atExpr, e)
		if !ok || qt.IsError() {
			return errorQT(), true
		}
		elems = append(elems, qt.Type)
	}
	return types.QualType{Type: v.Types.MakeTuple(elems)}, true
}

func (v *Verifier) resolveTypeFn(c *ctx.Context, atExpr ast.ExprID, typeID ast.TypeID) (types.QualType, bool) {
	data, ok := v.Builder.Types.Fn(typeID)
	if !ok {
		return errorQT(), true
	}
	entries := make([]types.Param[types.TypeID], 0, len(data.Params))
	for _, p := range data.Params {
		qt, ok := v.resolveTypeExpr(c, atExpr, p.Type)
		if !ok || qt.IsError() {
			return errorQT(), true
		}
		entries = append(entries, types.Param[types.TypeID]{
			Name:    p.Name,
			HasName: p.Name != 0,
			Value:   qt.Type,
		})
	}
	var returns []types.TypeID
	if data.Return.IsValid() {
		retQT, ok := v.resolveTypeExpr(c, atExpr, data.Return)
		if !ok || retQT.IsError() {
			return errorQT(), true
		}
		returns = []types.TypeID{retQT.Type}
	}
	return types.QualType{Type: v.Types.MakeFunction(types.NewParams(entries), returns)}, true
}

