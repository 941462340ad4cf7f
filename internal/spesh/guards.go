package spesh

// eliminateUnusedLogGuards walks the log-guard table once, deleting the
// guard instruction of every guard whose Used flag was never set by a
// rewriter reading a FROM_LOG_GUARD fact (spec.md §4.7; optimize.c:
// eliminate_unused_log_guards).
func eliminateUnusedLogGuards(g *Graph, caps Capabilities) {
	for i := range g.LogGuards {
		lg := &g.LogGuards[i]
		if lg.Used || lg.Ins == nil {
			continue
		}
		bb := lg.Ins.BB
		if bb == nil {
			continue
		}
		g.DeleteInstruction(caps, bb, lg.Ins)
		lg.Ins = nil
	}
}

// markLogGuardUsed flags guardIdx as load-bearing — called wherever a
// rewriter consumes a fact carrying FlagFromLogGuard via GetAndUseFacts
// or UseFacts (spec.md §4.1's get_and_use_facts contract).
func (g *Graph) markLogGuardUsed(guardIdx int32) {
	if guardIdx < 0 || int(guardIdx) >= len(g.LogGuards) {
		return
	}
	g.LogGuards[guardIdx].Used = true
}
