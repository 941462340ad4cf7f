package jit

import "github.com/sentra-lang/speshopt/internal/spesh"

// SimpleInliner is a reference spesh.Inliner: it will inline any
// candidate whose graph is small enough (by instruction count), and
// performs the graft by deleting the invoke and adding the callee's
// entry block as a successor of the call's block, marking every grafted
// block Inlined so dead-code elimination leaves them alone (spec.md
// §4.5, §5: "the inliner... is trusted to mark the donor blocks inlined
// and preserve fact consistency").
type SimpleInliner struct {
	MaxInstructions int
}

// NewSimpleInliner creates an Inliner that will inline candidates with
// at most maxInstructions instructions in their body.
func NewSimpleInliner(maxInstructions int) *SimpleInliner {
	if maxInstructions <= 0 {
		maxInstructions = 32
	}
	return &SimpleInliner{MaxInstructions: maxInstructions}
}

// TryGetGraph implements spesh.Inliner.
func (in *SimpleInliner) TryGetGraph(g *spesh.Graph, callee spesh.Method, candidate int) (*spesh.Graph, bool) {
	code, ok := callee.(*spesh.CodeObject)
	if !ok || candidate < 0 || candidate >= len(code.Candidates) {
		return nil, false
	}
	cand := code.Candidates[candidate]
	if cand.Graph == nil {
		return nil, false
	}
	if countInstructions(cand.Graph) > in.MaxInstructions {
		return nil, false
	}
	return cand.Graph, true
}

// Inline implements spesh.Inliner: it marks every block of inlineGraph
// as Inlined (protecting them from dead-code elimination's own
// bookkeeping, spec.md §4.5), deletes the invoke instruction, and appends
// inlineGraph's entry block to bb's successors (bb's existing successors
// stay in place), leaving the
// result register's write to whatever the grafted graph's exit computes.
// A full register-renaming graft is outside this reference
// implementation's scope; it exists to exercise the TryGetGraph/Inline
// capability boundary spec.md §6 specifies, not to be a production
// inliner.
func (in *SimpleInliner) Inline(g *spesh.Graph, ci *spesh.CallInfo, bb *spesh.BasicBlock, ins *spesh.Instruction, inlineGraph *spesh.Graph, callee spesh.Method) {
	inlineGraph.WalkBlocks(func(donor *spesh.BasicBlock) {
		donor.Inlined = true
	})
	bb.DeleteIns(ins)
	if inlineGraph.Entry != nil {
		bb.AddSuccessor(inlineGraph.Entry)
	}
}

func countInstructions(g *spesh.Graph) int {
	n := 0
	g.WalkBlocks(func(bb *spesh.BasicBlock) {
		for ins := bb.FirstIns; ins != nil; ins = ins.Next {
			n++
		}
	})
	return n
}
