package lower

import (
	"fmt"

	"icarus/internal/ast"
	"icarus/internal/ir"
)

// lowerCall emits arguments in declaration order, then a Call instruction.
// A callee that resolves to an already-registered FuncRef (a named
// declared function, via ctx.Context.Func) is emitted as a static call by
// name; anything else (a function value held in a variable, a field, or
// an overload-resolved closure) is emitted as a dynamic call against the
// callee's value register, per ir.CalleeKind's two cases.
func (l *Lowerer) lowerCall(expr ast.ExprID) ir.Register {
	data, ok := l.Builder.Exprs.Call(expr)
	if !ok {
		panic("lower: malformed call expr")
	}
	qt := l.qualType(expr)

	args := make([]ir.Register, 0, len(data.Args))
	for _, a := range data.Args {
		args = append(args, l.LowerExpr(a.Value))
	}

	call := ir.CallInstr{Args: args, Type: qt.Type}
	if ref, ok := l.staticCallee(data.Target); ok {
		call.Kind = ir.CalleeStatic
		call.StaticName = fmt.Sprintf("fn%d", ref)
	} else {
		call.Kind = ir.CalleeDynamic
		call.Dynamic = l.LowerExpr(data.Target)
	}
	return l.IR.Emit(ir.Instruction{Kind: ir.InstrCall, Call: call}, true)
}

// staticCallee reports the FuncRef a directly-named, already-lowered
// function declaration was registered under, if target is such an
// identifier.
func (l *Lowerer) staticCallee(target ast.ExprID) (int32, bool) {
	node := l.Builder.Exprs.Get(target)
	if node == nil || node.Kind != ast.ExprIdent || l.Scope == nil {
		return 0, false
	}
	data, ok := l.Builder.Exprs.Ident(target)
	if !ok {
		return 0, false
	}
	name := l.Builder.StringsInterner.MustLookup(data.Name)
	return l.resolveStaticCallee(target, name)
}

// resolveStaticCallee is staticCallee's lookup half, reusable from any
// expression site with a synthesized overload name: a function named by
// identifier looks itself up, while an operator-overload site (see
// lowerBinary/lowerUnary) looks up "operator<op>" from its own node instead.
func (l *Lowerer) resolveStaticCallee(expr ast.ExprID, name string) (int32, bool) {
	if l.Scope == nil {
		return 0, false
	}
	decls, _ := l.Scope.Lookup(expr, name)
	if len(decls) != 1 {
		return 0, false
	}
	ref, ok := l.Ctx.Func(decls[0].Key)
	if !ok {
		return 0, false
	}
	return ref.ID, true
}
