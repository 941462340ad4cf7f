package spesh

// eliminateDeadBBs iterates dead-block elimination to a fixed point
// (spec.md §4.6): compute reachability from the entry block by walking
// successors of every linearly-visited block, then splice out
// non-inlined unreachable blocks from the linear_next chain. After
// convergence, surviving blocks are renumbered 0..N-1 in linear order
// (optimize.c: eliminate_dead_bbs).
func eliminateDeadBBs(g *Graph) {
	for {
		reachable := map[int32]bool{}
		g.WalkBlocks(func(bb *BasicBlock) {
			for _, s := range bb.Succ {
				reachable[s.Idx] = true
			}
		})
		if g.Entry != nil {
			reachable[g.Entry.Idx] = true
		}

		changed := false
		var prev *BasicBlock
		for bb := g.Entry; bb != nil; {
			next := bb.LinearNext
			if bb != g.Entry && !bb.Inlined && !reachable[bb.Idx] {
				bb.Unreachable = true
				if prev != nil {
					prev.LinearNext = next
				}
				for _, s := range bb.Succ {
					bb.RemoveSuccessor(s)
				}
				g.NumBBs--
				changed = true
			} else {
				prev = bb
			}
			bb = next
		}
		if !changed {
			break
		}
	}

	idx := int32(0)
	for bb := g.Entry; bb != nil; bb = bb.LinearNext {
		bb.Idx = idx
		idx++
	}
}
