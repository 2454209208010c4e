package lower

import (
	"fmt"

	"icarus/internal/ast"
	"icarus/internal/ctx"
	"icarus/internal/ir"
	"icarus/internal/types"
)

// structFuncKeyBit marks a ctx.NodeKey as naming a struct-completion
// function rather than an AST declaration's itemDeclKey (internal/symbols'
// VerifyScope reserves bit 31 for that); struct-completion keys live in
// bit 30 instead, disjoint from both AST ExprIDs and item keys.
const structFuncKeyBit ast.ExprID = 1 << 30

const (
	structTagCopy ast.ExprID = iota
	structTagMove
	structTagDestroy
)

func structFuncKey(structID types.TypeID, tag ast.ExprID) ctx.NodeKey {
	return ctx.NodeKey(structFuncKeyBit | (ast.ExprID(structID) << 2) | tag)
}

// StructCompleter implements verify.StructCompleter: §4.7's struct
// completion step, emitting one IR function per special member a struct's
// field types allow deriving (copy-init, move-init, destroy), once every
// field's layout is known. A struct with a user-supplied special (recorded
// in types.SpecialMembers by the declaration that parsed it) is left for
// that declaration's own body to lower instead of synthesizing one here.
type StructCompleter struct {
	Types *types.Interner
}

// NewStructCompleter constructs a StructCompleter over the shared type
// universe.
func NewStructCompleter(interner *types.Interner) *StructCompleter {
	return &StructCompleter{Types: interner}
}

// CompleteStruct implements verify.StructCompleter.
func (sc *StructCompleter) CompleteStruct(c *ctx.Context, structID types.TypeID, fields []types.StructField) {
	traits := sc.Types.RefreshTraits(structID)
	info, ok := sc.Types.StructInfo(structID)
	if !ok {
		return
	}
	if !info.Specials.UserCopyInit && traits.Copyable {
		sc.emit(c, structID, structTagCopy, fields, sc.buildCopy)
	}
	if !info.Specials.UserMoveInit && traits.Movable {
		sc.emit(c, structID, structTagMove, fields, sc.buildMove)
	}
	if !info.Specials.UserDestroy && traits.HasDestructor {
		sc.emit(c, structID, structTagDestroy, fields, sc.buildDestroy)
	}
}

func (sc *StructCompleter) emit(c *ctx.Context, structID types.TypeID, tag ast.ExprID, fields []types.StructField, build func(structID types.TypeID, fields []types.StructField) ir.CompiledFn) {
	c.AddFunc(structFuncKey(structID, tag), func() ctx.FuncRef {
		fn := build(structID, fields)
		return ctx.FuncRef{ID: c.InternStructFunc(fn)}
	})
}

// buildCopy synthesizes struct%d.copy(dst *T, src *T): field-wise
// copy-construct each field of src into the matching field of dst.
func (sc *StructCompleter) buildCopy(structID types.TypeID, fields []types.StructField) ir.CompiledFn {
	group, b := sc.newGroup(fmt.Sprintf("struct%d.copy", structID))
	ptr := sc.Types.Intern(types.MakePointer(structID))
	dst := b.BindParam(ptr)
	src := b.BindParam(ptr)
	for i, f := range fields {
		dstField := b.Emit(ir.Instruction{Kind: ir.InstrField, Field: ir.FieldInstr{Object: dst, Index: i}}, true)
		srcField := b.Emit(ir.Instruction{Kind: ir.InstrField, Field: ir.FieldInstr{Object: src, Index: i}}, true)
		b.Emit(ir.Instruction{Kind: ir.InstrCopy, Copy: ir.CopyInstr{Dst: dstField, Src: srcField, Type: f.Type}}, false)
	}
	b.SetTerm(ir.JumpCmd{Kind: ir.JumpReturn})
	return ir.CompiledFn{BlockGroup: *group}
}

// buildMove synthesizes struct%d.move(dst *T, src *T): field-wise
// move-construct, leaving src's fields in a moved-from state.
func (sc *StructCompleter) buildMove(structID types.TypeID, fields []types.StructField) ir.CompiledFn {
	group, b := sc.newGroup(fmt.Sprintf("struct%d.move", structID))
	ptr := sc.Types.Intern(types.MakePointer(structID))
	dst := b.BindParam(ptr)
	src := b.BindParam(ptr)
	for i, f := range fields {
		dstField := b.Emit(ir.Instruction{Kind: ir.InstrField, Field: ir.FieldInstr{Object: dst, Index: i}}, true)
		srcField := b.Emit(ir.Instruction{Kind: ir.InstrField, Field: ir.FieldInstr{Object: src, Index: i}}, true)
		b.Emit(ir.Instruction{Kind: ir.InstrMove, Move: ir.MoveInstr{Dst: dstField, Src: srcField, Type: f.Type}}, false)
	}
	b.SetTerm(ir.JumpCmd{Kind: ir.JumpReturn})
	return ir.CompiledFn{BlockGroup: *group}
}

// buildDestroy synthesizes struct%d.destroy(self *T): run each field's own
// destructor (a no-op for fields with no destructor, per Destroy's
// semantics) in reverse declaration order, matching this core's RAII
// discipline for nested scopes (internal/ir.Builder.EndStatementScope).
func (sc *StructCompleter) buildDestroy(structID types.TypeID, fields []types.StructField) ir.CompiledFn {
	group, b := sc.newGroup(fmt.Sprintf("struct%d.destroy", structID))
	ptr := sc.Types.Intern(types.MakePointer(structID))
	self := b.BindParam(ptr)
	for i := len(fields) - 1; i >= 0; i-- {
		f := fields[i]
		addr := b.Emit(ir.Instruction{Kind: ir.InstrField, Field: ir.FieldInstr{Object: self, Index: i}}, true)
		b.Emit(ir.Instruction{Kind: ir.InstrDestroy, Destroy: ir.DestroyInstr{Addr: addr, Type: f.Type}}, false)
	}
	b.SetTerm(ir.JumpCmd{Kind: ir.JumpReturn})
	return ir.CompiledFn{BlockGroup: *group}
}

func (sc *StructCompleter) newGroup(name string) (*ir.BlockGroup, *ir.Builder) {
	group := &ir.BlockGroup{Name: name}
	b := ir.NewBuilder(group, 0)
	entry := b.NewBlock()
	group.Entry = entry
	b.SetBlock(entry)
	return group, b
}
