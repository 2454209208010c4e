package ctx

import "icarus/internal/ast"

// JumpMap is the reverse index from a `jump`/yield statement to the scope
// it hands control back to, grounded on
// original_source/compiler/jump_map.h's JumpMap (referenced by Context's
// TrackJumps/ReturnsTo/YieldsTo).
type JumpMap struct {
	to map[ast.ExprID]ScopeRef
}

func newJumpMap() *JumpMap {
	return &JumpMap{to: make(map[ast.ExprID]ScopeRef)}
}

func (m *JumpMap) record(from ast.ExprID, to ScopeRef) {
	m.to[from] = to
}

func (m *JumpMap) lookup(from ast.ExprID) (ScopeRef, bool) {
	to, ok := m.to[from]
	return to, ok
}
