// Package ctx implements the Context Tree: a parent-pointer tree of
// per-instantiation compile-time data, grounded directly on
// original_source/compiler/context.h's Context struct.
package ctx

import (
	"icarus/internal/ir"
	"icarus/internal/types"
)

// ValueKind enumerates the tagged shapes a compile-time Value can hold,
// spec.md's "Value" glossary entry.
type ValueKind uint8

const (
	ValueEmpty ValueKind = iota
	ValueInt
	ValueUint
	ValueFloat
	ValueBool
	ValueType
	ValueFunction
	ValueJump
	ValueBlock
	ValueScope
	ValueAddress
	ValueBuffer
)

// Value is a tagged compile-time value: integers, bools, types, functions,
// jumps, blocks, scopes, addresses, or a byte buffer for aggregates,
// exactly spec.md's glossary entry. Only one payload field is meaningful
// per Kind.
type Value struct {
	Kind ValueKind

	Int      int64
	Uint     uint64
	Float    float64
	Bool     bool
	TypeVal  types.TypeID
	FuncRef  FuncRef
	JumpRef  JumpRef
	BlockRef BlockRef
	ScopeRef ScopeRef
	Addr     Register
	Buffer   []byte
}

// Empty reports whether v carries no payload, the Context Tree's sentinel
// for "not yet computed" (mirroring the original's `ir::Value()`).
func (v Value) Empty() bool { return v.Kind == ValueEmpty }

// FuncRef identifies a lowered function (or its not-yet-lowered AST node)
// inside a BlockGroup table owned by the driving Module.
type FuncRef struct{ ID int32 }

// JumpRef identifies a lowered jump, analogous to FuncRef.
type JumpRef struct{ ID int32 }

// BlockRef identifies a runtime `block` value (a `scope`'s resumption
// point), allocated per spec.md's `add_block`.
type BlockRef struct{ ID int32 }

// ScopeRef identifies a runtime `scope` value, allocated per spec.md's
// `add_scope`, parameterised by its state type.
type ScopeRef struct {
	ID        int32
	StateType types.TypeID
}

// Register is the storage-binding handle a Context associates with a
// Declaration (the original's `ir::Reg`): the same ir.Register the Lowerer
// allocates for the declaration's address, stored and returned unchanged.
type Register = ir.Register

// NoRegister marks an unbound declaration address.
const NoRegister = ir.NoRegister
