package verify

import (
	"icarus/internal/ast"
	"icarus/internal/types"
)

// Scope is the name-visibility index the Identifier rule consults: "collect
// all visible declarations of the name" (§4.4). The concrete implementation
// is internal/symbols' resolver (Table/Resolver), which already walks
// lexical scope chains and import visibility for this grammar; verify only
// needs the narrow read-only view below; see DESIGN.md for why the
// resolver itself is not reproduced inside this package.
type Scope interface {
	// Lookup returns every declaration of name visible from expr's
	// position, plus whether any exist only outside the visible-from-scope
	// chain (for UncapturedIdentifier vs UndeclaredIdentifier).
	Lookup(expr ast.ExprID, name string) (decls []Decl, uncaptured bool)
}

// Decl describes one declaration candidate an Identifier expression may
// resolve to.
type Decl struct {
	Key        ast.ExprID
	QualType   types.QualType
	IsConstant bool
	IsLocal    bool
	IsCallable bool
	// DeclPos and RefPos are monotonic source positions (byte offsets),
	// compared to detect DeclOutOfOrder: a non-constant identifier used
	// before its declaration's position is an error.
	DeclPos int
	RefPos  int
}
