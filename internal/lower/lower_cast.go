package lower

import (
	"icarus/internal/ast"
	"icarus/internal/ir"
)

// lowerCast emits a Cast instruction per types.CanCastExplicitly having
// already approved the conversion during verification.
func (l *Lowerer) lowerCast(expr ast.ExprID) ir.Register {
	data, ok := l.Builder.Exprs.Cast(expr)
	if !ok {
		panic("lower: malformed cast expr")
	}
	valueQT := l.qualType(data.Value)
	targetQT := l.qualType(expr)
	value := l.LowerExpr(data.Value)
	return l.IR.Emit(ir.Instruction{
		Kind: ir.InstrCast,
		Cast: ir.CastInstr{Value: value, From: valueQT.Type, To: targetQT.Type},
	}, true)
}
