package symbols

import (
	"icarus/internal/ast"
	"icarus/internal/source"
)

// walkTypeExpr resolves the named segments inside a type annotation
// (`: Foo`, `: &Foo`, `: Foo[]`, `: (Foo, Bar)`, `: fn(Foo) -> Bar`) the same
// way walkExpr resolves identifiers in value position, recording the result
// under ast.TypeExprKey(id) rather than an expression ID, since type syntax
// (internal/ast/typesyn.go) has no ExprID of its own. internal/verify's
// resolveTypeExpr replays this via Scope.Lookup(ast.TypeExprKey(id), name)
// instead of re-walking the scope chain itself.
//
// Only a single-segment path names a declaration directly resolvable this
// way; a qualified path (`pkg.Foo`) is left unresolved here, matching
// resolveNamedStructType's existing single-segment narrowing for designated
// initializers (see DESIGN.md).
func (fr *fileResolver) walkTypeExpr(id ast.TypeID) {
	if !id.IsValid() || fr.builder == nil || fr.builder.Types == nil {
		return
	}
	node := fr.builder.Types.Get(id)
	if node == nil {
		return
	}
	switch node.Kind {
	case ast.TypeExprPath:
		path, ok := fr.builder.Types.Path(id)
		if !ok || len(path.Segments) != 1 {
			return
		}
		name := path.Segments[0].Name
		if name == source.NoStringID || fr.resolver == nil {
			return
		}
		if symID, ok := fr.resolver.Lookup(name); ok {
			fr.result.ExprSymbols[ast.TypeExprKey(id)] = symID
		}
	case ast.TypeExprUnary:
		if data, ok := fr.builder.Types.UnaryType(id); ok {
			fr.walkTypeExpr(data.Inner)
		}
	case ast.TypeExprArray:
		if data, ok := fr.builder.Types.Array(id); ok {
			fr.walkTypeExpr(data.Elem)
		}
	case ast.TypeExprTuple:
		if data, ok := fr.builder.Types.Tuple(id); ok {
			for _, e := range data.Elems {
				fr.walkTypeExpr(e)
			}
		}
	case ast.TypeExprFn:
		if data, ok := fr.builder.Types.Fn(id); ok {
			for _, p := range data.Params {
				fr.walkTypeExpr(p.Type)
			}
			fr.walkTypeExpr(data.Return)
		}
	case ast.TypeExprOptional:
		if data, ok := fr.builder.Types.Optional(id); ok {
			fr.walkTypeExpr(data.Inner)
		}
	case ast.TypeExprErrorable:
		if data, ok := fr.builder.Types.Errorable(id); ok {
			fr.walkTypeExpr(data.Inner)
			fr.walkTypeExpr(data.Error)
		}
	}
}
