package spesh

// optimizeResidualMarker deletes sp_log and sp_osrfinalize unconditionally
// — both are residual analyzer markers with no runtime meaning once the
// peephole pass has consumed whatever logged observation they carried
// (spec.md §4.2: "sp_log, sp_osrfinalize | always | delete").
func optimizeResidualMarker(g *Graph, caps Capabilities, bb *BasicBlock, ins *Instruction) bool {
	if ins.Op != OpSpLog && ins.Op != OpSpOsrFinalize {
		return false
	}
	g.DeleteInstruction(caps, bb, ins)
	return true
}
