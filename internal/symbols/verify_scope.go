package symbols

import (
	"icarus/internal/ast"
	"icarus/internal/types"
	"icarus/internal/verify"
)

// VerifyScope adapts a resolved Table/Result pair to verify.Scope: the
// narrow read-only view the Identifier rule (§4.4) and the Lowerer's
// declaration-address lookups need, without either package reaching into
// the resolver's own scope-chain/NameIndex machinery directly.
//
// Declaration resolution itself was already done by ResolveFile — this
// adapter only replays its answer (Result.ExprSymbols) in verify.Scope's
// vocabulary. Known narrowing: it always returns at most one Decl, so an
// identifier naming more than one visible declaration (the overload-set
// case verifyIdent's `default:` branch handles) only surfaces here if a
// future resolver pass starts recording multiple SymbolIDs per use-site;
// today's resolver already commits to one candidate per Ident expression,
// so multi-candidate overload sets in this build arise from
// candidatesOf's types.KindOverloadSet expansion (see internal/verify's
// call.go), not from this Scope.
type VerifyScope struct {
	Table   *Table
	Results []Result
	Builder *ast.Builder
}

// NewVerifyScope builds a Scope over every file's resolve Result sharing
// one Table, so Lookup works regardless of which file expr belongs to.
func NewVerifyScope(builder *ast.Builder, table *Table, results []Result) *VerifyScope {
	return &VerifyScope{Table: table, Results: results, Builder: builder}
}

func (s *VerifyScope) symbolFor(expr ast.ExprID) (*Symbol, bool) {
	for _, r := range s.Results {
		if id, ok := r.ExprSymbols[expr]; ok {
			return s.Table.Symbols.Get(id), true
		}
	}
	return nil, false
}

func (s *VerifyScope) Lookup(expr ast.ExprID, name string) ([]verify.Decl, bool) {
	sym, ok := s.symbolFor(expr)
	if !ok {
		return nil, false
	}

	declKey := sym.Decl.Expr
	switch {
	case declKey.IsValid():
		// already an expression-keyed declaration (let/const initializer
		// shapes this symbol kind doesn't otherwise produce).
	case sym.Decl.Param.IsValid():
		// A function parameter: keyed on its own FnParamID rather than the
		// owning function's ItemID, since internal/lower allocas and stores
		// each parameter's address individually — falling back to the
		// function's ItemDeclKey would make every parameter of one function
		// collide on a single address slot.
		declKey = ast.ParamDeclKey(sym.Decl.Param)
	case sym.Decl.Stmt.IsValid():
		// A local `let`: keyed on its own StmtID the same way, since a
		// function body can declare many locals that must each bind a
		// distinct address.
		declKey = ast.StmtDeclKey(sym.Decl.Stmt)
	case sym.Decl.Item.IsValid():
		// Item-level declarations (functions, types) have no declaring
		// expression of their own; ctx.Context.Addr/Func key on DeclKey =
		// ast.ExprID specifically, so synthesize one from the ItemID with a
		// high-bit offset that no real arena-assigned ExprID will ever reach,
		// keeping the key identical across every call site naming this item
		// (unlike keying on the use-site expr, which would differ per call).
		// internal/verify computes the same key via ast.ItemDeclKey when it
		// verifies the declaration itself, so the two packages never disagree
		// on the key.
		declKey = ast.ItemDeclKey(sym.Decl.Item)
	}

	constant := sym.Kind != SymbolLet
	local := false
	if scope := s.Table.Scopes.Get(sym.Scope); scope != nil {
		local = scope.Kind == ScopeFunction || scope.Kind == ScopeBlock
	}
	callable := sym.Kind == SymbolFunction

	quals := types.Quals(0)
	if constant {
		quals |= types.QualConst
	}

	declPos, refPos := int(sym.Span.Start), 0
	if node := s.Builder.Exprs.Get(expr); node != nil {
		refPos = int(node.Span.Start)
	}

	return []verify.Decl{{
		Key:        declKey,
		QualType:   types.QualType{Type: sym.Type, Quals: quals},
		IsConstant: constant,
		IsLocal:    local,
		IsCallable: callable,
		DeclPos:    declPos,
		RefPos:     refPos,
	}}, false
}
