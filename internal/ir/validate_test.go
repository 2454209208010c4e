package ir

import "testing"

func TestValidateAcceptsWellFormedGroup(t *testing.T) {
	group := &BlockGroup{Name: "ok"}
	b := NewBuilder(group, 0)
	entry := b.NewBlock()
	group.Entry = entry
	b.SetBlock(entry)
	b.SetTerm(JumpCmd{Kind: JumpReturn})

	if err := Validate(group); err != nil {
		t.Fatalf("expected a well-formed single-block group to validate, got %v", err)
	}
}

func TestValidateRejectsUnterminatedBlock(t *testing.T) {
	group := &BlockGroup{Name: "unterminated"}
	b := NewBuilder(group, 0)
	entry := b.NewBlock()
	group.Entry = entry

	if err := Validate(group); err == nil {
		t.Fatalf("expected Validate to reject an unterminated block")
	}
}

func TestValidateRejectsDanglingJumpTarget(t *testing.T) {
	group := &BlockGroup{Name: "dangling"}
	b := NewBuilder(group, 0)
	entry := b.NewBlock()
	group.Entry = entry
	b.SetBlock(entry)
	b.SetTerm(JumpCmd{Kind: JumpUncond, Uncond: UncondJump{Target: BlockID(99)}})

	if err := Validate(group); err == nil {
		t.Fatalf("expected Validate to reject a jump to a nonexistent block")
	}
}

func TestValidateRejectsUnreachableBlock(t *testing.T) {
	group := &BlockGroup{Name: "unreachable"}
	b := NewBuilder(group, 0)
	entry := b.NewBlock()
	group.Entry = entry
	b.SetBlock(entry)
	b.SetTerm(JumpCmd{Kind: JumpReturn})

	orphan := b.NewBlock()
	b.SetBlock(orphan)
	b.SetTerm(JumpCmd{Kind: JumpReturn})

	if err := Validate(group); err == nil {
		t.Fatalf("expected Validate to reject a block unreachable from entry")
	}
}

func TestValidatePhiRequiresExactPredecessorMatch(t *testing.T) {
	group := &BlockGroup{Name: "phi"}
	b := NewBuilder(group, 0)
	entry := b.NewBlock()
	group.Entry = entry
	b.SetBlock(entry)

	thenBlk := b.NewBlock()
	elseBlk := b.NewBlock()
	join := b.NewBlock()
	b.SetTerm(JumpCmd{Kind: JumpCond, Cond: CondJump{Cond: 0, Then: thenBlk, Else: elseBlk}})

	b.SetBlock(thenBlk)
	b.SetTerm(JumpCmd{Kind: JumpUncond, Uncond: UncondJump{Target: join}})
	b.AddEdge(thenBlk, join)

	b.SetBlock(elseBlk)
	b.SetTerm(JumpCmd{Kind: JumpUncond, Uncond: UncondJump{Target: join}})
	b.AddEdge(elseBlk, join)

	b.SetBlock(join)
	b.Emit(Instruction{Kind: InstrPhi, Phi: PhiInstr{Type: 1, Incoming: []PhiIncoming{
		{Block: thenBlk, Value: 0},
	}}}, true)
	b.SetTerm(JumpCmd{Kind: JumpReturn})

	if err := Validate(group); err == nil {
		t.Fatalf("expected Validate to reject a Phi missing an incoming predecessor")
	}
}
