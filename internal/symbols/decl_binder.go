package symbols

import (
	"icarus/internal/ast"
	"icarus/internal/types"
	"icarus/internal/verify"
)

// DeclBinder adapts a resolved Table/Result pair to verify.DeclBinder: the
// write side of the same relationship VerifyScope reads (Symbol.Type).
// Kept as its own small type (mirroring VerifyScope) rather than a method
// on Table directly, since binding needs every file's Result to find an
// item's SymbolID the same way VerifyScope.symbolFor does.
type DeclBinder struct {
	Table   *Table
	Results []Result
}

// NewDeclBinder builds a DeclBinder over the same Results NewVerifyScope
// was given, so the two stay in sync for one module's verify pass.
func NewDeclBinder(table *Table, results []Result) DeclBinder {
	return DeclBinder{Table: table, Results: results}
}

// BindDecl writes qt.Type onto every symbol item declared (ordinarily one,
// but @overload functions may share an ItemID with distinct rebinds across
// calls; each call here simply overwrites, matching the declaration's own
// reverification idempotence).
func (b DeclBinder) BindDecl(item ast.ItemID, qt types.QualType) {
	if b.Table == nil || b.Table.Symbols == nil {
		return
	}
	for _, r := range b.Results {
		ids, ok := r.ItemSymbols[item]
		if !ok {
			continue
		}
		for _, id := range ids {
			if sym := b.Table.Symbols.Get(id); sym != nil {
				sym.Type = qt.Type
			}
		}
		return
	}
}

var _ verify.DeclBinder = DeclBinder{}
