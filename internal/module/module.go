package module

import (
	"icarus/internal/ast"
	"icarus/internal/symbols"
)

// Module is one resolved compilation unit: a set of files sharing a module
// path, their parsed AST, and the declaration table/exports the resolver
// built over them — spec.md §3's "Module… declarations indexed by name",
// grounded on the teacher's module concept (`driver.buildModuleMeta`'s
// ModuleMeta) but narrowed to what the Importer below actually needs:
// this core has no lexer/parser of its own (the AST is an external
// contract, per SPEC_FULL.md §0), so a Module only carries what Import
// populated, not a rebuilt notion of "project".
type Module struct {
	ID      ID
	Path    string
	Builder *ast.Builder
	Files   []ast.FileID

	Table   *symbols.Table
	Results []symbols.Result
	Exports *symbols.ModuleExports
	Scope   *symbols.VerifyScope
}
