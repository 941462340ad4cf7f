// Package repr provides reference representation- and container-specific
// specializers (spesh.ReprSpecializer, spesh.ContainerSpecializer):
// the per-representation "spesh hooks" optimize_repr_op, optimize_decont,
// and optimize_smart_coerce delegate to (spec.md §1, §6). A real object
// model would have one of these per representation it ships; these three
// — string, array, hash — are the ones spec.md's smrt_strify/smrt_numify
// rewrite names explicitly.
package repr

import "github.com/sentra-lang/speshopt/internal/spesh"

// String is the ReprSpecializer for string-boxed values: unbox_s/box_s
// are direct storage operations with no further rewrite available once
// reached, so Spesh is a no-op: the peephole driver has already folded
// everything this representation can offer by the time it delegates
// here (e.g. via smrt_strify).
type String struct{}

func (String) Spesh(g *spesh.Graph, bb *spesh.BasicBlock, ins *spesh.Instruction) {}

func (String) StorageSpec(typ spesh.TypeHandle) spesh.StorageSpec {
	if typ == nil {
		return spesh.StorageSpec{}
	}
	return typ.Storage
}

func (String) ID() spesh.ReprID { return spesh.ReprStr }

// Array is the ReprSpecializer for list-shaped values. Its Spesh is
// reached through optimize_repr_op's delegation once the driver has
// established KNOWN_TYPE (spec.md §4.2's "representation ops" row), and
// leaves the instruction as it is: folding elems any further would need
// the array's current length, a runtime fact the optimizer never holds.
type Array struct{}

func (Array) Spesh(g *spesh.Graph, bb *spesh.BasicBlock, ins *spesh.Instruction) {}

func (Array) StorageSpec(typ spesh.TypeHandle) spesh.StorageSpec {
	if typ == nil {
		return spesh.StorageSpec{}
	}
	return typ.Storage
}

func (Array) ID() spesh.ReprID { return spesh.ReprArray }

// Hash is the ReprSpecializer for hash-shaped values, symmetric with
// Array.
type Hash struct{}

func (Hash) Spesh(g *spesh.Graph, bb *spesh.BasicBlock, ins *spesh.Instruction) {}

func (Hash) StorageSpec(typ spesh.TypeHandle) spesh.StorageSpec {
	if typ == nil {
		return spesh.StorageSpec{}
	}
	return typ.Storage
}

func (Hash) ID() spesh.ReprID { return spesh.ReprHash }

// ScalarContainer is a ContainerSpecializer for the common case of a
// plain scalar container (the Scalar/Proxy-equivalent in spec.md's
// domain): fetching its value never invokes user code, so optimize_decont
// is free to delegate to it (spec.md §4.2's decont row).
type ScalarContainer struct{}

func (ScalarContainer) FetchNeverInvokes() bool { return true }

func (ScalarContainer) Spesh(g *spesh.Graph, bb *spesh.BasicBlock, ins *spesh.Instruction) {}

// Registry builds the Capabilities.Repr/Container maps these
// specializers populate, for convenience at wiring time.
func Registry() (map[spesh.ReprID]spesh.ReprSpecializer, map[string]spesh.ContainerSpecializer) {
	reprs := map[spesh.ReprID]spesh.ReprSpecializer{
		spesh.ReprStr:   String{},
		spesh.ReprArray: Array{},
		spesh.ReprHash:  Hash{},
	}
	containers := map[string]spesh.ContainerSpecializer{
		"scalar": ScalarContainer{},
	}
	return reprs, containers
}
