// Command speshdump runs the optimizer over a small built-in sample
// graph and prints a human-readable diagnostic report of what changed:
// instructions eliminated, blocks eliminated, guards dropped. It exists
// to exercise cmd/speshdump's own domain-stack wiring (go-humanize,
// go-isatty) end to end, not as a production bytecode-dump tool.
package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/sentra-lang/speshopt/internal/jit"
	"github.com/sentra-lang/speshopt/internal/spesh"
	"github.com/sentra-lang/speshopt/internal/spesh/repr"
)

func main() {
	g, caps := buildSampleGraph()

	before := countAll(g)
	if err := spesh.Optimize(g, caps, spesh.DefaultOptions()); err != nil {
		fmt.Fprintln(os.Stderr, "speshdump:", err)
		os.Exit(1)
	}
	after := countAll(g)

	color := isatty.IsTerminal(os.Stdout.Fd())
	report(before, after, color)
}

type counts struct {
	instructions int
	blocks       int
	guards       int
}

func countAll(g *spesh.Graph) counts {
	var c counts
	g.WalkBlocks(func(bb *spesh.BasicBlock) {
		c.blocks++
		for ins := bb.FirstIns; ins != nil; ins = ins.Next {
			c.instructions++
		}
	})
	c.guards = len(g.LogGuards)
	return c
}

func report(before, after counts, color bool) {
	insDelta := before.instructions - after.instructions
	bbDelta := before.blocks - after.blocks
	guardDelta := before.guards - after.guards

	line := func(label string, delta int) {
		text := fmt.Sprintf("%-24s %s removed", label, humanize.Comma(int64(delta)))
		if color && delta > 0 {
			fmt.Printf("\033[32m%s\033[0m\n", text)
		} else {
			fmt.Println(text)
		}
	}
	line("instructions", insDelta)
	line("basic blocks", bbDelta)
	line("log guards", guardDelta)
}

// buildSampleGraph constructs a tiny two-block graph: a const_i64_16
// followed by an if_i on it, the Constant branch folding scenario
// spec.md §8 names, so the report always has something to show.
func buildSampleGraph() (*spesh.Graph, spesh.Capabilities) {
	sf := &spesh.StaticFrame{Name: "sample"}
	g := spesh.NewGraph(sampleID(), sf, 4)

	entry := g.AddBlock()
	target := g.AddBlock()

	r1 := spesh.RegRef{Orig: 0, Version: 0}
	g.EnsureVersion(r1.Orig, r1.Version)
	fact := g.GetFacts(r1)
	fact.Flags |= spesh.FlagKnownValue
	fact.Value = spesh.IntValue(1)
	fact.Usages = 1

	entry.InsertBefore(nil, &spesh.Instruction{
		Op:       spesh.OpConstI64_16,
		Operands: []spesh.Operand{spesh.RegOperand(r1.Orig, r1.Version), spesh.LitIntOperand(1)},
	})
	entry.InsertBefore(nil, &spesh.Instruction{
		Op:       spesh.OpIfI,
		Operands: []spesh.Operand{spesh.RegOperand(r1.Orig, r1.Version), spesh.BranchOperand(target.Idx)},
	})
	entry.AddSuccessor(target)

	reprs, containers := repr.Registry()
	caps := spesh.Capabilities{
		Methods:   jit.NewMethodTable(),
		TypeCheck: jit.NewTypeCheckTable(),
		Multi:     jit.NewMultiDispatchTable(),
		Repr:      reprs,
		Container: containers,
		Inline:    jit.NewSimpleInliner(32),
	}
	return g, caps
}

func sampleID() uuid.UUID { return uuid.New() }
