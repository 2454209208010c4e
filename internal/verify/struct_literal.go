package verify

import (
	"icarus/internal/ast"
	"icarus/internal/ctx"
	"icarus/internal/diag"
	"icarus/internal/source"
	"icarus/internal/types"
	"icarus/internal/workqueue"
)

// verifyStructLiteral implements §4.4's StructLiteral /
// ParameterizedStructLiteral rule: allocate an incomplete struct
// immediately and cache it in the context (so a field typed `*S` sees S
// already registered and terminates instead of recursing forever), verify
// fields, then enqueue a CompleteStructMembers work item.
//
// A `T.{f = e, ...}` DesignatedInitializer literal (data.Type set) is
// handed to verifyDesignatedInitializer, which checks it against the
// already-named struct type T; only the bare `{ ... }` form allocates a
// fresh struct here.
func (v *Verifier) verifyStructLiteral(c *ctx.Context, expr ast.ExprID) types.QualType {
	data, ok := v.Builder.Exprs.Struct(expr)
	if !ok {
		return errorQT()
	}

	if data.Type.IsValid() {
		return v.verifyDesignatedInitializer(c, expr, data)
	}

	span := v.Builder.Exprs.Get(expr).Span
	structID := v.Types.RegisterIncompleteStruct(source.NoStringID, source.NoStringID, span)
	c.SetQualType(expr, types.QualType{Type: structID, Quals: types.QualConst})

	fields := make([]types.StructField, 0, len(data.Fields))
	anyError := false
	for _, f := range data.Fields {
		name := v.Builder.StringsInterner.MustLookup(f.Name)
		valQT := v.VerifyType(c, f.Value)
		if valQT.IsError() {
			anyError = true
			continue
		}
		fields = append(fields, types.StructField{
			Name:     f.Name,
			Type:     valQT.Type,
			Exported: isExportedName(name),
		})
	}
	if anyError {
		return errorQT()
	}
	v.Types.SetStructFields(structID, fields)

	if v.Queue != nil {
		v.Queue.Push(workqueue.Item{
			Kind:   workqueue.CompleteStructMembers,
			Target: exprTarget(expr),
			Run: func() workqueue.Outcome {
				for _, f := range fields {
					if _, ok := v.Types.Layout(f.Type); !ok {
						return workqueue.Deferred
					}
					if _, lerr := v.Types.LayoutOrError(f.Type); lerr != nil {
						v.report(diag.SemaRecursiveUnsized, expr, "%s", lerr.Error())
						return workqueue.Success
					}
				}
				if v.Completer != nil {
					v.Completer.CompleteStruct(c, structID, fields)
				}
				v.Types.SetStructSpecials(structID, types.SpecialMembers{}, false)
				return workqueue.Success
			},
		})
	}
	return types.QualType{Type: structID, Quals: types.QualConst}
}

// verifyDesignatedInitializer implements §4.4's named-type literal form
// `T.{f=e,...}`: resolve T to an already-registered struct type, then check
// every field name/type against that struct's declared fields instead of
// synthesizing a fresh anonymous struct the way the bare `{f=e,...}` form
// does.
func (v *Verifier) verifyDesignatedInitializer(c *ctx.Context, expr ast.ExprID, data *ast.ExprStructData) types.QualType {
	structID, ok := v.resolveNamedStructType(c, expr, data.Type)
	if !ok {
		return v.report(diag.CoreNonStructDesignatedInitializerType, expr, "designated initializer target is not a struct type")
	}
	info, ok := v.Types.StructInfo(structID)
	if !ok {
		return v.report(diag.CoreNonStructDesignatedInitializerType, expr, "designated initializer target is not a struct type")
	}

	byName := make(map[string]types.StructField, len(info.Fields))
	for _, f := range info.Fields {
		byName[v.Builder.StringsInterner.MustLookup(f.Name)] = f
	}

	anyError := false
	for _, f := range data.Fields {
		name := v.Builder.StringsInterner.MustLookup(f.Name)
		field, ok := byName[name]
		if !ok {
			v.report(diag.CoreMissingStructField, expr, "struct has no field named %q", name)
			anyError = true
			continue
		}
		if !field.Exported && info.Module != v.Module {
			v.report(diag.CoreNonExportedField, expr, "field %q is not exported from its declaring module", name)
			anyError = true
			continue
		}
		valQT := v.VerifyType(c, f.Value)
		if valQT.IsError() {
			anyError = true
			continue
		}
		if !v.Types.CanCastImplicitly(valQT.Type, field.Type) {
			v.report(diag.CoreInvalidInitializerType, expr, "field %q: value type does not match the declared field type", name)
			anyError = true
		}
	}
	if anyError {
		return errorQT()
	}
	return types.QualType{Type: structID, Quals: types.QualConst}
}

// resolveNamedStructType resolves a single-segment TypePath (T in `T.{...}`)
// to the struct type its declaration was registered under. The
// declaration's own QualType is cached on c by the same VerifyType call
// that verified its right-hand side; a not-yet-verified forward reference is
// verified here on demand, matching how the Identifier rule already forces
// forward-declared names (§4.4).
func (v *Verifier) resolveNamedStructType(c *ctx.Context, expr ast.ExprID, typeID ast.TypeID) (types.TypeID, bool) {
	if v.Scope == nil {
		return types.NoTypeID, false
	}
	path, ok := v.Builder.Types.Path(typeID)
	if !ok || len(path.Segments) != 1 {
		return types.NoTypeID, false
	}
	name := v.Builder.StringsInterner.MustLookup(path.Segments[0].Name)
	decls, _ := v.Scope.Lookup(expr, name)
	if len(decls) != 1 {
		return types.NoTypeID, false
	}

	declQT, known := c.QualType(decls[0].Key)
	if !known && decls[0].Key.IsValid() {
		declQT = v.VerifyType(c, decls[0].Key)
		known = !declQT.IsError()
	}
	if !known {
		return types.NoTypeID, false
	}
	if t, ok := v.Types.Lookup(declQT.Type); ok && t.Kind == types.KindStruct {
		return declQT.Type, true
	}
	return types.NoTypeID, false
}

func isExportedName(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

// exprTarget adapts an ast.ExprID to workqueue.Item's fmt.Stringer Target
// field, for debug output / the deferral-cycle diagnostic.
type exprTarget ast.ExprID

func (t exprTarget) String() string { return "" }
