package spesh

import "testing"

func TestEliminateUnusedLogGuardsDeletesUnused(t *testing.T) {
	g := newTestGraph(&StaticFrame{Name: "f"}, 1)
	bb := g.AddBlock()

	guardIns := &Instruction{Op: OpSpLog, Operands: []Operand{RegOperand(0, 0), LitIntOperand(0)}}
	g.EnsureVersion(0, 0)
	bb.InsertBefore(nil, guardIns)

	g.LogGuards = append(g.LogGuards, LogGuard{Ins: guardIns})

	eliminateUnusedLogGuards(g, Capabilities{})

	if bb.FirstIns != nil {
		t.Fatalf("expected unused log guard's instruction to be deleted")
	}
	if g.LogGuards[0].Ins != nil {
		t.Fatalf("expected guard's Ins cleared after deletion")
	}
}

func TestEliminateUnusedLogGuardsKeepsUsed(t *testing.T) {
	g := newTestGraph(&StaticFrame{Name: "f"}, 1)
	bb := g.AddBlock()

	guardIns := &Instruction{Op: OpSpLog, Operands: []Operand{RegOperand(0, 0), LitIntOperand(0)}}
	g.EnsureVersion(0, 0)
	bb.InsertBefore(nil, guardIns)

	g.LogGuards = append(g.LogGuards, LogGuard{Ins: guardIns, Used: true})
	eliminateUnusedLogGuards(g, Capabilities{})

	if bb.FirstIns != guardIns {
		t.Fatalf("expected used log guard's instruction to survive")
	}
}

func TestMarkLogGuardUsedViaGetAndUseFacts(t *testing.T) {
	g := newTestGraph(&StaticFrame{Name: "f"}, 1)
	g.LogGuards = append(g.LogGuards, LogGuard{})

	ref := RegRef{Orig: 0, Version: 0}
	g.EnsureVersion(ref.Orig, ref.Version)
	f := g.GetFacts(ref)
	f.Flags |= FlagFromLogGuard
	f.LogGuard = 0
	f.Usages = 1

	g.GetAndUseFacts(ref)

	if !g.LogGuards[0].Used {
		t.Fatalf("expected log guard marked used after GetAndUseFacts consumed its fact")
	}
}

func TestMarkLogGuardUsedOutOfRangeIsNoop(t *testing.T) {
	g := newTestGraph(&StaticFrame{Name: "f"}, 1)
	g.markLogGuardUsed(5) // no panic expected, out of range is a no-op
}
