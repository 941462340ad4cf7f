package spesh

// resolveThrowCat performs the four-step throw-category resolution
// spec.md §4.4 describes, walking the graph's blocks in linear order
// exactly once per throwcat instruction found:
//
//  1. collect the StaticFrame's handlers whose category mask intersects
//     the thrown category named by ins,
//  2. walk the graph from its entry block in linear order, tracking
//     which handler ranges are currently open via FH_START/FH_END
//     annotations, recording FH_GOTO markers as candidate rewrite
//     targets,
//  3. at the throwcat instruction, pick the innermost handler that is
//     both open and in the candidate set,
//  4. rewrite throwcat to a goto naming that handler's target block.
//
// If no candidate handler is open at the throwcat, the instruction is
// left untouched. The walk stops at the throwcat itself, so when the
// chosen handler's FH_GOTO marker comes later in linear order, the
// target is taken from that handler's static Handler.GotoIdx instead.
func resolveThrowCat(g *Graph, bb *BasicBlock, ins *Instruction) bool {
	if len(ins.Operands) < 2 {
		return false
	}
	category := uint32(ins.Operands[1].LitInt)

	candidates := map[int32]bool{}
	for i := range g.StaticFrame.Handlers {
		h := &g.StaticFrame.Handlers[i]
		if h.CategoryMask&category != 0 {
			candidates[int32(i)] = true
		}
	}
	if len(candidates) == 0 {
		return false
	}

	var inHandlers []int32
	gotoBBs := map[int32]int32{} // handler idx -> goto target block idx
	var innermost int32 = -1
	found := false

	g.WalkBlocks(func(cur *BasicBlock) {
		if found {
			return
		}
		for in := cur.FirstIns; in != nil; in = in.Next {
			for _, ann := range in.Annotations {
				switch ann.Kind {
				case AnnFrameHandlerStart:
					inHandlers = append(inHandlers, ann.HandlerIdx)
				case AnnFrameHandlerEnd:
					for i := len(inHandlers) - 1; i >= 0; i-- {
						if inHandlers[i] == ann.HandlerIdx {
							inHandlers = append(inHandlers[:i], inHandlers[i+1:]...)
							break
						}
					}
				case AnnFrameHandlerGoto:
					gotoBBs[ann.HandlerIdx] = cur.Idx
				}
			}
			if in == ins {
				for i := len(inHandlers) - 1; i >= 0; i-- {
					if candidates[inHandlers[i]] {
						innermost = inHandlers[i]
						found = true
						break
					}
				}
				return
			}
		}
	})

	if innermost < 0 {
		return false
	}
	target, ok := gotoBBs[innermost]
	if !ok {
		h := &g.StaticFrame.Handlers[innermost]
		target = h.GotoIdx
	}

	ins.Op = OpGoto
	ins.Operands = []Operand{BranchOperand(target)}
	return true
}
