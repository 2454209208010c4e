package lower

import (
	"strconv"

	"icarus/internal/ast"
	"icarus/internal/ir"
)

// lowerLiteral materialises a literal as an InstrConst, the per-literal
// register an ir.Instruction needs since this IR carries no standalone
// immediate-operand form (unlike the teacher's mir.Operand{Kind:
// OperandConst}), grounded on mir's ConstKind/Const shape
// (mir/instr.go) but folded into one instruction rather than an
// operand variant.
func (l *Lowerer) lowerLiteral(expr ast.ExprID) ir.Register {
	data, ok := l.Builder.Exprs.Literal(expr)
	if !ok {
		panic("lower: malformed literal expr")
	}
	qt := l.qualType(expr)
	text := l.Builder.StringsInterner.MustLookup(data.Value)

	instr := ir.Instruction{Kind: ir.InstrConst}
	switch data.Kind {
	case ast.ExprLitInt:
		v, _ := strconv.ParseInt(text, 10, 64)
		instr.Const = ir.ConstInstr{Kind: ir.ConstInt, Type: qt.Type, IntValue: v}
	case ast.ExprLitUint:
		v, _ := strconv.ParseUint(text, 10, 64)
		instr.Const = ir.ConstInstr{Kind: ir.ConstUint, Type: qt.Type, UintValue: v}
	case ast.ExprLitFloat:
		v, _ := strconv.ParseFloat(text, 64)
		instr.Const = ir.ConstInstr{Kind: ir.ConstFloat, Type: qt.Type, FloatValue: v}
	case ast.ExprLitString:
		instr.Const = ir.ConstInstr{Kind: ir.ConstString, Type: qt.Type, StringValue: text}
	case ast.ExprLitTrue:
		instr.Const = ir.ConstInstr{Kind: ir.ConstBool, Type: qt.Type, BoolValue: true}
	case ast.ExprLitFalse:
		instr.Const = ir.ConstInstr{Kind: ir.ConstBool, Type: qt.Type, BoolValue: false}
	case ast.ExprLitNothing:
		instr.Const = ir.ConstInstr{Kind: ir.ConstNothing, Type: qt.Type}
	}
	return l.IR.Emit(instr, true)
}

// lowerIdentLoad loads a declared local's current value: take its address
// (as bound in the Context by a prior declaration lowering) and Load
// through it.
func (l *Lowerer) lowerIdentLoad(expr ast.ExprID) ir.Register {
	addr := l.lowerIdentAddr(expr)
	qt := l.qualType(expr)
	return l.IR.Emit(ir.Instruction{
		Kind: ir.InstrLoad,
		Load: ir.LoadInstr{Addr: addr, Type: qt.Type},
	}, true)
}

// lowerIdentAddr resolves an identifier to the register holding its
// storage address, bound by a previous declaration's lowering via
// ctx.Context.SetAddr (internal/verify only records QualTypes; address
// binding happens here, at lowering time, exactly as spec.md §4.7
// describes for declarations: "non-constants allocate via Alloca at
// function entry").
//
// Resolving the identifier back to its declaring node goes through the
// same Scope abstraction internal/verify's verifyIdent uses (Scope.Lookup
// returning a Decl.Key ast.ExprID), not ctx.Context.Decl/SetDecl — those
// are keyed on symbols.SymbolID, the teacher's own name-resolution
// identity, which this package does not use. Lowerer.Scope is that same
// interface, implemented over internal/symbols by symbols.VerifyScope.
func (l *Lowerer) lowerIdentAddr(expr ast.ExprID) ir.Register {
	data, ok := l.Builder.Exprs.Ident(expr)
	if !ok {
		panic("lower: malformed identifier expr")
	}
	if l.Scope == nil {
		panic("lower: no Scope bound; cannot resolve identifier to its declaration")
	}
	name := l.Builder.StringsInterner.MustLookup(data.Name)
	decls, _ := l.Scope.Lookup(expr, name)
	if len(decls) == 0 {
		panic("lower: identifier has no resolved declaration; Verifier must run before Lower")
	}
	addr, ok := l.Ctx.Addr(decls[0].Key)
	if !ok {
		panic("lower: declaration has no bound address; its declaration statement must be lowered first")
	}
	return addr
}
