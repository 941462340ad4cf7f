package spesh

// FactFlag is the bitset MVMSpeshFacts.flags corresponds to.
type FactFlag uint32

const (
	FlagKnownType FactFlag = 1 << iota
	FlagKnownValue
	FlagKnownDecontType
	FlagConcrete
	FlagTypeObj
	FlagDeconted
	FlagDecontConcrete
	FlagDecontTypeObj
	FlagFromLogGuard
)

// Has reports whether all bits in want are set.
func (f FactFlag) Has(want FactFlag) bool { return f&want == want }

// Fact is everything known at compile time about one (register, version)
// pair: its flags, its type (if known), its decontainerized type (if
// known), its literal value (if known), and the log guard it traces back
// to, if its knowledge came from a speculative log rather than a static
// proof (spec.md §3, §4.7).
type Fact struct {
	Flags       FactFlag
	Type        *TypeInfo
	DecontType  *TypeInfo
	Value       Value
	LogGuard    int32 // index into Graph.LogGuards, or -1

	// Usages counts the remaining reads of this (register, version).
	// eliminate_dead_ins deletes the defining instruction once this
	// reaches zero for a pure instruction (spec.md §4.5).
	Usages int32

	// Writer is the instruction that defines this (register, version),
	// when whoever built the graph recorded it. Nothing in this package
	// sets or reads it, so a nil Writer says nothing about where the
	// value comes from.
	Writer *Instruction
}

// getFactsDirect returns the fact row for ref without incrementing or
// decrementing anything (optimize.c: get_facts_direct).
func (g *Graph) getFactsDirect(ref RegRef) *Fact {
	row := g.Facts[ref.Orig]
	if int(ref.Version) >= len(row) {
		return nil
	}
	return &row[ref.Version]
}

// GetFacts returns the fact row for ref (optimize.c: MVM_spesh_get_facts).
func (g *Graph) GetFacts(ref RegRef) *Fact {
	return g.getFactsDirect(ref)
}

// GetAndUseFacts returns the fact row for ref and marks one more usage of
// it as consumed, decrementing Usages (optimize.c:
// MVM_spesh_get_and_use_facts). Rewriters that fold a read away (replacing
// it with a constant, say) must call this, not GetFacts, so dead-code
// elimination's usage accounting stays correct.
func (g *Graph) GetAndUseFacts(ref RegRef) *Fact {
	f := g.getFactsDirect(ref)
	if f != nil {
		if f.Usages > 0 {
			f.Usages--
		}
		if f.Flags.Has(FlagFromLogGuard) {
			g.markLogGuardUsed(f.LogGuard)
		}
	}
	return f
}

// UseFacts decrements ref's usage count without returning anything
// (optimize.c: MVM_spesh_use_facts) — used when a rewriter consumes an
// operand's value but has no further interest in its Fact.
func (g *Graph) UseFacts(ref RegRef) {
	if f := g.getFactsDirect(ref); f != nil {
		if f.Usages > 0 {
			f.Usages--
		}
		if f.Flags.Has(FlagFromLogGuard) {
			g.markLogGuardUsed(f.LogGuard)
		}
	}
}

// GetString resolves a string-table operand to its string value
// (optimize.c: MVM_spesh_get_string) — backed by the graph's
// StaticFrame string table.
func (g *Graph) GetString(idx uint32) string {
	if int(idx) >= len(g.StaticFrame.Strings) {
		return ""
	}
	return g.StaticFrame.Strings[idx]
}

// CopyFacts copies flags, type, decont type, value, and log guard from
// src to dst — but NOT usage counts, which belong to dst's own readers
// (optimize.c: copy_facts). Used whenever a rewrite replaces one
// register version with another that is known to carry the same
// compile-time knowledge (e.g. hllize into a same-HLL value, set
// propagation).
func CopyFacts(dst, src *Fact) {
	dst.Flags = src.Flags
	dst.Type = src.Type
	dst.DecontType = src.DecontType
	dst.Value = src.Value
	dst.LogGuard = src.LogGuard
}
