package ctx

import (
	"testing"

	"icarus/internal/ir"
	"icarus/internal/module"
	"icarus/internal/types"
)

func TestQualTypeRoundTrip(t *testing.T) {
	c := New(module.ID(1))
	qt := types.QualType{Type: 7}
	if _, ok := c.QualType(3); ok {
		t.Fatalf("expected no QualType before SetQualType")
	}
	c.SetQualType(3, qt)
	got, ok := c.QualType(3)
	if !ok || got != qt {
		t.Fatalf("QualType(3) = (%+v, %v), want (%+v, true)", got, ok, qt)
	}
}

func TestAddrWalksToParentContext(t *testing.T) {
	root := New(module.ID(1))
	result := root.InsertSubcontext(NodeKey(1), nil)
	child := result.Context

	root.SetAddr(5, Register(42))

	got, ok := child.Addr(5)
	if !ok || got != Register(42) {
		t.Fatalf("child.Addr(5) = (%d, %v), want (42, true) via parent walk", got, ok)
	}
}

func TestSetAddrInChildShadowsParent(t *testing.T) {
	root := New(module.ID(1))
	result := root.InsertSubcontext(NodeKey(1), nil)
	child := result.Context

	root.SetAddr(5, Register(1))
	child.SetAddr(5, Register(2))

	got, ok := child.Addr(5)
	if !ok || got != Register(2) {
		t.Fatalf("child.Addr(5) = (%d, %v), want (2, true) shadowing the parent binding", got, ok)
	}
	rootGot, _ := root.Addr(5)
	if rootGot != Register(1) {
		t.Fatalf("root.Addr(5) should remain 1, got %d", rootGot)
	}
}

func TestLoadConstantFallsThroughToParentWhenChildUnbound(t *testing.T) {
	root := New(module.ID(1))
	result := root.InsertSubcontext(NodeKey(1), nil)
	child := result.Context

	root.SetConstant(9, Value{Kind: ValueInt, Int: 100}, true)
	// Child never binds decl 9, so LoadConstant should fall through to root.
	got := child.LoadConstant(9)
	if got.Kind != ValueInt || got.Int != 100 {
		t.Fatalf("LoadConstant should walk to the parent's complete binding, got %+v", got)
	}
}

func TestInsertSubcontextReusesEqualBinding(t *testing.T) {
	root := New(module.ID(1))
	args := []BoundArg{{Value: Value{Kind: ValueInt, Int: 1}, QualType: types.QualType{Type: 3}}}

	first := root.InsertSubcontext(NodeKey(7), args)
	if !first.Inserted {
		t.Fatalf("first InsertSubcontext of a binding should report Inserted=true")
	}
	second := root.InsertSubcontext(NodeKey(7), args)
	if second.Inserted {
		t.Fatalf("second InsertSubcontext of an equal binding should report Inserted=false")
	}
	if first.Context != second.Context {
		t.Fatalf("equal bindings should resolve to the same child Context")
	}
}

func TestFindSubcontextLocatesInsertedChild(t *testing.T) {
	root := New(module.ID(1))
	args := []BoundArg{{Value: Value{Kind: ValueBool, Bool: true}}}
	inserted := root.InsertSubcontext(NodeKey(2), args)

	found, ok := root.FindSubcontext(NodeKey(2), args)
	if !ok || found != inserted.Context {
		t.Fatalf("FindSubcontext should locate the previously inserted child")
	}
}

func TestScratchpadSubcontextIsNotRegistered(t *testing.T) {
	root := New(module.ID(1))
	scratch := root.ScratchpadSubcontext()
	if scratch == root {
		t.Fatalf("ScratchpadSubcontext should return a distinct child Context")
	}
	if _, ok := root.FindSubcontext(NodeKey(99), nil); ok {
		t.Fatalf("a scratchpad context must not be discoverable via FindSubcontext")
	}
}

func TestAddFuncConstructsOnceAndCaches(t *testing.T) {
	c := New(module.ID(1))
	calls := 0
	alloc := func() FuncRef {
		calls++
		return FuncRef{ID: 11}
	}

	ref, created := c.AddFunc(NodeKey(4), alloc)
	if !created || ref.ID != 11 {
		t.Fatalf("first AddFunc should construct and report created=true, got %+v created=%v", ref, created)
	}
	ref2, created2 := c.AddFunc(NodeKey(4), alloc)
	if created2 || ref2.ID != 11 {
		t.Fatalf("second AddFunc for the same node should reuse the cached ref, got %+v created=%v", ref2, created2)
	}
	if calls != 1 {
		t.Fatalf("alloc should run exactly once, ran %d times", calls)
	}

	got, ok := c.Func(NodeKey(4))
	if !ok || got.ID != 11 {
		t.Fatalf("Func(4) = (%+v, %v), want (11, true)", got, ok)
	}
}

func TestInternStructFuncAndStructFunc(t *testing.T) {
	c := New(module.ID(1))
	fn := ir.CompiledFn{BlockGroup: ir.BlockGroup{Name: "copy_ctor"}}
	id := c.InternStructFunc(fn)

	got, ok := c.StructFunc(id)
	if !ok || got.Name != "copy_ctor" {
		t.Fatalf("StructFunc(%d) = (%+v, %v), want the interned CompiledFn", id, got, ok)
	}
	if _, ok := c.StructFunc(id + 1); ok {
		t.Fatalf("StructFunc of an unregistered id should report not-found")
	}
}

func TestViableOverloadsWalksToParent(t *testing.T) {
	root := New(module.ID(1))
	result := root.InsertSubcontext(NodeKey(1), nil)
	child := result.Context

	root.SetViableOverloads(8, []types.TypeID{1, 2})
	got, ok := child.ViableOverloads(8)
	if !ok || len(got) != 2 {
		t.Fatalf("ViableOverloads should walk to the parent's binding, got %v ok=%v", got, ok)
	}
}
