package lower

import (
	"icarus/internal/ast"
	"icarus/internal/ctx"
	"icarus/internal/ir"
)

// lowerScopeNode lowers a ScopeNode (`scope_name(args)[blocks]`) per
// §4.7: each block's own expression lives in its own caller block, with
// its declared enter handler (if any) inlined as the path control takes
// to reach it and its exit handler (if any) inlined as the path it takes
// to leave, both spliced in via Inliner.InlineBlocks. A handler's Choose
// terminator resolves against a continuations map naming, for entry, the
// block's own body and, for exit, this ScopeNode's shared exit point —
// so a one-name Choose collapses to a plain fall-through, matching a
// handler that unconditionally resumes the block it wraps.
func (l *Lowerer) lowerScopeNode(expr ast.ExprID) ir.Register {
	data, ok := l.Builder.Exprs.Scope(expr)
	if !ok {
		panic("lower: malformed scope expr")
	}

	for _, a := range data.Args {
		l.LowerExpr(a)
	}

	after := l.IR.NewBlock()

	result := ir.NoRegister
	for _, blk := range data.Blocks {
		name := l.Builder.StringsInterner.MustLookup(blk.Name)
		bodyBlock := l.IR.NewBlock()

		if jmp, ok := l.jumpBody(blk.Enter); ok {
			entry := l.inlineJump(jmp, map[string]ir.BlockID{name: bodyBlock})
			l.IR.SetTerm(ir.JumpCmd{Kind: ir.JumpUncond, Uncond: ir.UncondJump{Target: entry}})
		} else {
			l.IR.SetTerm(ir.JumpCmd{Kind: ir.JumpUncond, Uncond: ir.UncondJump{Target: bodyBlock}})
		}

		l.IR.SetBlock(bodyBlock)
		if blk.Body.IsValid() {
			result = l.LowerExpr(blk.Body)
		}

		if jmp, ok := l.jumpBody(blk.Exit); ok {
			entry := l.inlineJump(jmp, map[string]ir.BlockID{name: after})
			l.IR.SetTerm(ir.JumpCmd{Kind: ir.JumpUncond, Uncond: ir.UncondJump{Target: entry}})
		} else {
			l.IR.SetTerm(ir.JumpCmd{Kind: ir.JumpUncond, Uncond: ir.UncondJump{Target: after}})
		}

		l.IR.SetBlock(after)
	}

	return result
}

// inlineJump splices jmp's blocks into the Lowerer's current BlockGroup,
// resolving its Choose terminators against continuations, and returns the
// caller-space BlockID of jmp's entry block (the target the caller should
// jump to in order to invoke it).
func (l *Lowerer) inlineJump(jmp *ir.CompiledJump, continuations map[string]ir.BlockID) ir.BlockID {
	group := l.IR.Group()
	in := NewInliner(group)
	entry := in.block(jmp.Entry)
	in.InlineBlocks(group, jmp, continuations)
	return entry
}

// jumpBody resolves a ScopeBlock's enter/exit handler (an identifier
// naming a declared jump) to its compiled body, compiling it on first use
// via the shared Context's jump registry — the same lazily-cached pattern
// internal/lower/struct_complete.go uses for synthesized struct specials,
// so a jump referenced by more than one ScopeNode is only lowered once.
func (l *Lowerer) jumpBody(handler ast.ExprID) (*ir.CompiledJump, bool) {
	if !handler.IsValid() || l.Scope == nil {
		return nil, false
	}
	node := l.Builder.Exprs.Get(handler)
	if node == nil || node.Kind != ast.ExprIdent {
		return nil, false
	}
	identData, ok := l.Builder.Exprs.Ident(handler)
	if !ok {
		return nil, false
	}
	name := l.Builder.StringsInterner.MustLookup(identData.Name)
	decls, _ := l.Scope.Lookup(handler, name)
	if len(decls) != 1 {
		return nil, false
	}
	declKey := decls[0].Key

	ref, _ := l.Ctx.AddJump(declKey, func() ctx.JumpRef {
		compiled := l.compileJumpBody(declKey)
		return ctx.JumpRef{ID: l.Ctx.InternJumpBody(compiled)}
	})
	jmp, ok := l.Ctx.JumpBody(ref.ID)
	if !ok {
		return nil, false
	}
	return &jmp, true
}

// compileJumpBody lowers a declared jump's body expression into its own
// BlockGroup, terminated by a Return carrying the body's computed value.
// This is the narrow Jump shape this core lowers: a handler that always
// resumes by yielding a value, not one that itself Chooses between named
// continuations of its own (see DESIGN.md).
func (l *Lowerer) compileJumpBody(declKey ast.ExprID) ir.CompiledJump {
	group := &ir.BlockGroup{Name: "jump"}
	b := ir.NewBuilder(group, 0)
	entry := b.NewBlock()
	group.Entry = entry
	b.SetBlock(entry)

	sub := &Lowerer{Builder: l.Builder, Types: l.Types, Ctx: l.Ctx, IR: b, Scope: l.Scope}
	result := sub.LowerExpr(declKey)
	b.SetTerm(ir.JumpCmd{Kind: ir.JumpReturn, Return: ir.ReturnJump{Values: []ir.Register{result}}})
	return ir.CompiledJump{BlockGroup: *group}
}
