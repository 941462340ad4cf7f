package spesh

// eliminateDeadIns iterates dead-instruction elimination to a fixed
// point (spec.md §4.5): a backward walk per block deletes a phi whose
// destination has zero usages, or a pure instruction whose write
// register has zero usages, decrementing the usages of every register
// it reads on deletion — which may expose further deletions. Blocks
// marked Inlined are skipped entirely, so inlined bookkeeping is left
// alone (optimize.c: eliminate_dead_ins).
func eliminateDeadIns(g *Graph, caps Capabilities) {
	for {
		changed := false
		g.WalkBlocks(func(bb *BasicBlock) {
			if bb.Inlined {
				return
			}
			for ins := bb.LastIns; ins != nil; {
				prev := ins.Prev
				if instructionIsDead(g, caps, ins) {
					g.DeleteInstruction(caps, bb, ins)
					changed = true
				}
				ins = prev
			}
		})
		if !changed {
			return
		}
	}
}

// instructionIsDead reports whether ins qualifies for removal: a phi
// with zero usages on its destination, or a pure instruction whose
// first (write) operand's register has zero remaining usages.
func instructionIsDead(g *Graph, caps Capabilities, ins *Instruction) bool {
	if ins.Op == OpPhi {
		dst, ok := ins.Writes(caps)
		if !ok {
			return false
		}
		f := g.GetFacts(dst)
		return f != nil && f.Usages == 0
	}

	info := caps.OpDescriptor(ins.Op)
	if info == nil || !info.Pure {
		return false
	}
	dst, ok := ins.Writes(caps)
	if !ok {
		return false
	}
	f := g.GetFacts(dst)
	return f != nil && f.Usages == 0
}
