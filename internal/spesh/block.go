package spesh

// BasicBlock is a maximal straight-line run of instructions, linked into
// the graph's dominator tree and linear (emission) order, per spec.md §3.
type BasicBlock struct {
	Idx int32

	FirstIns *Instruction
	LastIns  *Instruction

	// Succ holds this block's control-flow successors (goto target,
	// fallthrough, branch target).
	Succ []*BasicBlock

	// LinearNext is the next block in emission order — used by
	// eliminate_dead_bbs to walk the whole graph regardless of the
	// dominator tree shape (optimize.c: bb->linear_next).
	LinearNext *BasicBlock

	// Children is this block's children in the dominator tree, walked
	// recursively by optimize_bb (optimize.c: bb->children[i]).
	Children []*BasicBlock

	// Inlined marks a block spliced in from an inlined callee's graph;
	// eliminate_dead_ins must not touch instructions inside it (spec.md
	// §4.5), since their usage counts belong to the inlined graph's own
	// bookkeeping.
	Inlined bool

	// Unreachable is set once eliminate_dead_bbs determines this block
	// has no path from the entry block.
	Unreachable bool
}

// AddSuccessor appends a control-flow edge from bb to target.
func (bb *BasicBlock) AddSuccessor(target *BasicBlock) {
	bb.Succ = append(bb.Succ, target)
}

// RemoveSuccessor deletes the edge from bb to target, if present — the
// "remove_successor" graph primitive named in spec.md §6.
func (bb *BasicBlock) RemoveSuccessor(target *BasicBlock) {
	out := bb.Succ[:0]
	for _, s := range bb.Succ {
		if s != target {
			out = append(out, s)
		}
	}
	bb.Succ = out
}

// Instructions iterates bb's instructions in order, first to last.
func (bb *BasicBlock) Instructions() []*Instruction {
	var out []*Instruction
	for ins := bb.FirstIns; ins != nil; ins = ins.Next {
		out = append(out, ins)
	}
	return out
}

// InsertBefore splices ins into bb immediately before mark (the
// "insert_ins" graph primitive, spec.md §6). If mark is nil, ins is
// appended at the end of bb.
func (bb *BasicBlock) InsertBefore(mark, ins *Instruction) {
	ins.BB = bb
	if mark == nil {
		ins.Prev = bb.LastIns
		ins.Next = nil
		if bb.LastIns != nil {
			bb.LastIns.Next = ins
		} else {
			bb.FirstIns = ins
		}
		bb.LastIns = ins
		return
	}
	ins.Next = mark
	ins.Prev = mark.Prev
	if mark.Prev != nil {
		mark.Prev.Next = ins
	} else {
		bb.FirstIns = ins
	}
	mark.Prev = ins
}

// InsertAfter splices ins into bb immediately after mark.
func (bb *BasicBlock) InsertAfter(mark, ins *Instruction) {
	if mark == nil {
		ins.BB = bb
		ins.Prev = nil
		ins.Next = bb.FirstIns
		if bb.FirstIns != nil {
			bb.FirstIns.Prev = ins
		} else {
			bb.LastIns = ins
		}
		bb.FirstIns = ins
		return
	}
	if mark.Next == nil {
		bb.InsertBefore(nil, ins)
		return
	}
	bb.InsertBefore(mark.Next, ins)
}

// DeleteIns unlinks ins from bb (the "delete_ins" graph primitive,
// spec.md §6). Usage bookkeeping is the caller's responsibility — see
// Graph.DeleteInstruction for the version that also releases usages.
func (bb *BasicBlock) DeleteIns(ins *Instruction) {
	if ins.Prev != nil {
		ins.Prev.Next = ins.Next
	} else {
		bb.FirstIns = ins.Next
	}
	if ins.Next != nil {
		ins.Next.Prev = ins.Prev
	} else {
		bb.LastIns = ins.Prev
	}
	ins.Prev, ins.Next, ins.BB = nil, nil, nil
}
