package spesh

import "testing"

func TestEliminateDeadBBsRemovesUnreachableAndRenumbers(t *testing.T) {
	g := newTestGraph(&StaticFrame{Name: "f"}, 1)
	entry := g.AddBlock()  // idx 0
	dead := g.AddBlock()   // idx 1, never a successor of anything
	live := g.AddBlock()   // idx 2

	entry.AddSuccessor(live)
	_ = dead

	eliminateDeadBBs(g)

	var seen []*BasicBlock
	g.WalkBlocks(func(bb *BasicBlock) { seen = append(seen, bb) })

	if len(seen) != 2 {
		t.Fatalf("expected 2 surviving blocks, got %d", len(seen))
	}
	if seen[0] != entry || seen[1] != live {
		t.Fatalf("expected entry then live to survive in order")
	}
	if seen[0].Idx != 0 || seen[1].Idx != 1 {
		t.Fatalf("expected surviving blocks renumbered 0,1; got %d,%d", seen[0].Idx, seen[1].Idx)
	}
	if !dead.Unreachable {
		t.Fatalf("expected dead block marked Unreachable")
	}
}

func TestEliminateDeadBBsSkipsInlinedBlocks(t *testing.T) {
	g := newTestGraph(&StaticFrame{Name: "f"}, 1)
	entry := g.AddBlock()
	inlined := g.AddBlock()
	inlined.Inlined = true

	eliminateDeadBBs(g)

	var seen []*BasicBlock
	g.WalkBlocks(func(bb *BasicBlock) { seen = append(seen, bb) })
	if len(seen) != 2 {
		t.Fatalf("expected inlined block to survive despite being unreachable by Succ, got %d blocks", len(seen))
	}
	_ = entry
}
