package ir

import "testing"

func newTestGroup() (*BlockGroup, *Builder) {
	group := &BlockGroup{Name: "test"}
	b := NewBuilder(group, 0)
	entry := b.NewBlock()
	group.Entry = entry
	b.SetBlock(entry)
	return group, b
}

func TestEmitAssignsFreshRegisterWhenHasResult(t *testing.T) {
	_, b := newTestGroup()
	r1 := b.Emit(Instruction{Kind: InstrAlloca, Alloca: AllocaInstr{Type: 1}}, true)
	r2 := b.Emit(Instruction{Kind: InstrAlloca, Alloca: AllocaInstr{Type: 1}}, true)
	if r1 == r2 {
		t.Fatalf("expected distinct registers, got %d and %d", r1, r2)
	}
	r3 := b.Emit(Instruction{Kind: InstrStore, Store: StoreInstr{Addr: r1, Value: r2, Type: 1}}, false)
	if r3 != NoRegister {
		t.Fatalf("void instruction should return NoRegister, got %d", r3)
	}
}

func TestEmitPanicsAfterTerminated(t *testing.T) {
	_, b := newTestGroup()
	after := b.NewBlock()
	b.SetTerm(JumpCmd{Kind: JumpUncond, Uncond: UncondJump{Target: after}})

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected Emit after SetTerm to panic")
		}
	}()
	b.Emit(Instruction{Kind: InstrAlloca, Alloca: AllocaInstr{Type: 1}}, true)
}

func TestSetTermPanicsOnDoubleTerminate(t *testing.T) {
	_, b := newTestGroup()
	after := b.NewBlock()
	b.SetTerm(JumpCmd{Kind: JumpUncond, Uncond: UncondJump{Target: after}})

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected second SetTerm on the same block to panic")
		}
	}()
	b.SetTerm(JumpCmd{Kind: JumpUncond, Uncond: UncondJump{Target: after}})
}

func TestSetBlockDetectsAlreadyTerminatedTarget(t *testing.T) {
	group, b := newTestGroup()
	other := b.NewBlock()
	b.SetBlock(other)
	b.SetTerm(JumpCmd{Kind: JumpReturn})

	b.SetBlock(group.Entry)
	if b.term != Open {
		t.Fatalf("entry block has no terminator yet, SetBlock should report Open")
	}
	b.SetBlock(other)
	if b.term != Terminated {
		t.Fatalf("SetBlock on an already-terminated block should report Terminated")
	}
}

func TestTmpAllocaLivesInEntryBlock(t *testing.T) {
	group, b := newTestGroup()
	next := b.NewBlock()
	b.SetBlock(next)

	reg := b.TmpAlloca(1)

	entry := group.Block(group.Entry)
	if len(entry.Instrs) != 1 || entry.Instrs[0].Kind != InstrAlloca || entry.Instrs[0].Dst != reg {
		t.Fatalf("expected the Alloca to land in the entry block regardless of current block")
	}
	if len(group.Block(next).Instrs) != 0 {
		t.Fatalf("the current block should not receive the Alloca instruction")
	}
}

func TestScopeDestroyListReturnsReverseAcquisitionOrder(t *testing.T) {
	_, b := newTestGroup()
	mark := b.Save()
	r1 := b.TmpAlloca(1)
	r2 := b.TmpAlloca(1)
	r3 := b.TmpAlloca(1)

	list := b.ScopeDestroyList(mark)
	want := []Register{r3, r2, r1}
	if len(list) != len(want) {
		t.Fatalf("expected %d pending registers, got %d", len(want), len(list))
	}
	for i, r := range want {
		if list[i] != r {
			t.Fatalf("ScopeDestroyList[%d] = %d, want %d (reverse acquisition order)", i, list[i], r)
		}
	}
}

func TestEndStatementScopeEmitsDestroysAndClearsPending(t *testing.T) {
	group, b := newTestGroup()
	mark := b.Save()
	b.TmpAlloca(1)
	b.TmpAlloca(2)

	b.EndStatementScope(mark, []TypeID{2, 1})

	cur := group.Block(b.CurrentBlock())
	destroyCount := 0
	for _, instr := range cur.Instrs {
		if instr.Kind == InstrDestroy {
			destroyCount++
		}
	}
	if destroyCount != 2 {
		t.Fatalf("expected 2 Destroy instructions emitted, got %d", destroyCount)
	}
	if len(b.ScopeDestroyList(mark)) != 0 {
		t.Fatalf("pending destroy list should be empty after EndStatementScope")
	}
}

func TestBindParamAppendsToGroupParams(t *testing.T) {
	group, b := newTestGroup()
	reg := b.BindParam(5)
	if len(group.Params) != 1 || group.Params[0].Type != 5 || group.Params[0].Reg != reg {
		t.Fatalf("BindParam should append a Param{Type, Reg} entry, got %+v", group.Params)
	}
}

func TestSaveRestoreDiscardsPendingDestroys(t *testing.T) {
	_, b := newTestGroup()
	mark := b.Save()
	b.TmpAlloca(1)
	if len(b.pendingDestroy) != 1 {
		t.Fatalf("expected one pending destroy before Restore")
	}
	b.Restore(mark)
	if len(b.pendingDestroy) != 0 {
		t.Fatalf("Restore should discard pending-destroy entries acquired after the mark")
	}
}
