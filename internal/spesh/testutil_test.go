package spesh

import "github.com/google/uuid"

// newTestGraph builds an empty graph with numRegs fact rows and the
// given static frame, for table-driven rewriter tests.
func newTestGraph(sf *StaticFrame, numRegs uint16) *Graph {
	return NewGraph(uuid.New(), sf, numRegs)
}

// setKnownInt marks ref as carrying a known int64 value, the precondition
// most peephole rewriters in spec.md §4.2 test for.
func setKnownInt(g *Graph, ref RegRef, v int64, usages int32) {
	g.EnsureVersion(ref.Orig, ref.Version)
	f := g.GetFacts(ref)
	f.Flags |= FlagKnownValue
	f.Value = IntValue(v)
	f.Usages = usages
}

// setKnownType marks ref as carrying a known static type, with optional
// concreteness.
func setKnownType(g *Graph, ref RegRef, typ *TypeInfo, concrete bool) {
	g.EnsureVersion(ref.Orig, ref.Version)
	f := g.GetFacts(ref)
	f.Flags |= FlagKnownType
	f.Type = typ
	if concrete {
		f.Flags |= FlagConcrete
	} else {
		f.Flags |= FlagTypeObj
	}
}

func testCaps() Capabilities {
	return Capabilities{}
}
