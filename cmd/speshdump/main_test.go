package main

import (
	"testing"

	"github.com/sentra-lang/speshopt/internal/spesh"
)

func TestBuildSampleGraphOptimizesAwayTheBranch(t *testing.T) {
	g, caps := buildSampleGraph()
	before := countAll(g)

	if err := spesh.Optimize(g, caps, spesh.DefaultOptions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after := countAll(g)

	if after.instructions >= before.instructions {
		t.Fatalf("expected constant branch folding to remove at least one instruction: before=%d after=%d", before.instructions, after.instructions)
	}
}

func TestCountAllCountsBlocksAndInstructions(t *testing.T) {
	g, _ := buildSampleGraph()
	c := countAll(g)
	if c.blocks != 2 {
		t.Fatalf("expected the sample graph's two blocks, got %d", c.blocks)
	}
	if c.instructions != 2 {
		t.Fatalf("expected the sample graph's two instructions, got %d", c.instructions)
	}
}
