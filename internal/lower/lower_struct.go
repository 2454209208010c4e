package lower

import (
	"icarus/internal/ast"
	"icarus/internal/ir"
	"icarus/internal/types"
)

// materializeAddr returns a register holding the address of target's
// value, taking its lvalue address directly when target already is one,
// or spilling a freshly computed value into a temporary Alloca otherwise.
// Aggregate lowering in this core always goes through an address (Field
// needs one to compute an offset), so every aggregate-producing path
// routes through here rather than threading byte-level layout through
// plain value registers.
func (l *Lowerer) materializeAddr(target ast.ExprID) ir.Register {
	node := l.Builder.Exprs.Get(target)
	switch node.Kind {
	case ast.ExprIdent, ast.ExprIndex, ast.ExprTupleIndex:
		return l.LowerLValue(target)
	default:
		qt := l.qualType(target)
		val := l.LowerExpr(target)
		tmp := l.IR.TmpAlloca(qt.Type)
		l.IR.Emit(ir.Instruction{Kind: ir.InstrStore, Store: ir.StoreInstr{Addr: tmp, Value: val, Type: qt.Type}}, false)
		return tmp
	}
}

// lowerIndex loads the element at an array/buffer-pointer/slice index.
func (l *Lowerer) lowerIndex(expr ast.ExprID) ir.Register {
	addr := l.lowerIndexAddr(expr)
	qt := l.qualType(expr)
	return l.IR.Emit(ir.Instruction{Kind: ir.InstrLoad, Load: ir.LoadInstr{Addr: addr, Type: qt.Type}}, true)
}

// lowerIndexAddr computes the address of an array/buffer-pointer/slice
// element: PtrIncr(base, index, elem). A BufferPointer's value register
// already holds the base pointer directly; an Array/Slice needs its own
// address taken first since indexing offsets from the start of its
// storage, not from a pointer value.
func (l *Lowerer) lowerIndexAddr(expr ast.ExprID) ir.Register {
	data, ok := l.Builder.Exprs.Index(expr)
	if !ok {
		panic("lower: malformed index expr")
	}
	targetQT := l.qualType(data.Target)
	target, _ := l.Types.Lookup(targetQT.Type)
	index := l.LowerExpr(data.Index)

	var base ir.Register
	if target.Kind == types.KindBufferPointer {
		base = l.LowerExpr(data.Target)
	} else {
		base = l.materializeAddr(data.Target)
	}
	return l.IR.Emit(ir.Instruction{
		Kind:    ir.InstrPtrIncr,
		PtrIncr: ir.PtrIncrInstr{Base: base, Index: index, Elem: target.Elem},
	}, true)
}

// lowerTupleIndex loads a `.N` fixed-field tuple element.
func (l *Lowerer) lowerTupleIndex(expr ast.ExprID) ir.Register {
	addr := l.lowerTupleIndexAddr(expr)
	qt := l.qualType(expr)
	return l.IR.Emit(ir.Instruction{Kind: ir.InstrLoad, Load: ir.LoadInstr{Addr: addr, Type: qt.Type}}, true)
}

func (l *Lowerer) lowerTupleIndexAddr(expr ast.ExprID) ir.Register {
	data, ok := l.Builder.Exprs.TupleIndex(expr)
	if !ok {
		panic("lower: malformed tuple index expr")
	}
	base := l.materializeAddr(data.Target)
	return l.IR.Emit(ir.Instruction{
		Kind:  ir.InstrField,
		Field: ir.FieldInstr{Object: base, Index: int(data.Index), Name: ""},
	}, true)
}

// lowerStructLiteral allocates storage for a fresh struct value, stores
// each field, and returns the loaded value register, per §4.7's struct
// completion story (field table construction is the Lowerer's job; the
// Verifier only registered the incomplete struct and its field types).
func (l *Lowerer) lowerStructLiteral(expr ast.ExprID) ir.Register {
	data, ok := l.Builder.Exprs.Struct(expr)
	if !ok {
		panic("lower: malformed struct literal expr")
	}
	qt := l.qualType(expr)
	addr := l.IR.TmpAlloca(qt.Type)
	info, hasInfo := l.Types.StructInfo(qt.Type)

	for i, f := range data.Fields {
		val := l.LowerExpr(f.Value)
		fieldQT := l.qualType(f.Value)
		name := ""
		if hasInfo && i < len(info.Fields) {
			name = l.Builder.StringsInterner.MustLookup(info.Fields[i].Name)
		}
		fieldAddr := l.IR.Emit(ir.Instruction{
			Kind:  ir.InstrField,
			Field: ir.FieldInstr{Object: addr, Index: i, Name: name},
		}, true)
		l.IR.Emit(ir.Instruction{Kind: ir.InstrStore, Store: ir.StoreInstr{Addr: fieldAddr, Value: val, Type: fieldQT.Type}}, false)
	}
	return l.IR.Emit(ir.Instruction{Kind: ir.InstrLoad, Load: ir.LoadInstr{Addr: addr, Type: qt.Type}}, true)
}

// lowerTuple allocates storage for a tuple value and stores each element
// positionally, mirroring lowerStructLiteral's field-store-then-load
// shape.
func (l *Lowerer) lowerTuple(expr ast.ExprID) ir.Register {
	data, ok := l.Builder.Exprs.Tuple(expr)
	if !ok {
		panic("lower: malformed tuple expr")
	}
	qt := l.qualType(expr)
	addr := l.IR.TmpAlloca(qt.Type)
	for i, elem := range data.Elements {
		val := l.LowerExpr(elem)
		elemQT := l.qualType(elem)
		fieldAddr := l.IR.Emit(ir.Instruction{
			Kind:  ir.InstrField,
			Field: ir.FieldInstr{Object: addr, Index: i},
		}, true)
		l.IR.Emit(ir.Instruction{Kind: ir.InstrStore, Store: ir.StoreInstr{Addr: fieldAddr, Value: val, Type: elemQT.Type}}, false)
	}
	return l.IR.Emit(ir.Instruction{Kind: ir.InstrLoad, Load: ir.LoadInstr{Addr: addr, Type: qt.Type}}, true)
}
