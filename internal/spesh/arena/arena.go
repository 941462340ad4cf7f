// Package arena implements a bump allocator scoped to one optimizer run,
// standing in for MoarVM's MVM_spesh_alloc. spesh.NewGraph attaches one
// Arena to every Graph; the rewriters in internal/spesh build their
// synthesized Instructions and Operand slices with ordinary Go
// allocation and do not draw from it.
package arena

// Arena is a simple growing-slab bump allocator. It holds no locks: a
// Graph and its Arena are private to the goroutine optimizing that graph
// (spec.md §5), so nothing here needs to be safe for concurrent use.
type Arena struct {
	slabs   [][]byte
	cur     []byte
	off     int
	slabCap int
}

const defaultSlabCap = 4096

// New creates an Arena with a default slab size.
func New() *Arena {
	return &Arena{slabCap: defaultSlabCap}
}

// NewSize creates an Arena whose slabs are at least slabCap bytes.
func NewSize(slabCap int) *Arena {
	if slabCap <= 0 {
		slabCap = defaultSlabCap
	}
	return &Arena{slabCap: slabCap}
}

// Alloc returns n zeroed bytes carved out of the arena's current slab,
// growing the arena with a fresh slab if the current one is exhausted.
func (a *Arena) Alloc(n int) []byte {
	if n <= 0 {
		return nil
	}
	if a.cur == nil || a.off+n > len(a.cur) {
		size := a.slabCap
		if n > size {
			size = n
		}
		a.cur = make([]byte, size)
		a.slabs = append(a.slabs, a.cur)
		a.off = 0
	}
	b := a.cur[a.off : a.off+n]
	a.off += n
	return b
}

// Reset drops every slab, allowing the arena's memory to be reused by a
// subsequent optimization run on a fresh Graph.
func (a *Arena) Reset() {
	a.slabs = nil
	a.cur = nil
	a.off = 0
}

// Bytes reports how many bytes are currently held across all slabs, for
// diagnostics.
func (a *Arena) Bytes() int {
	total := 0
	for _, s := range a.slabs {
		total += len(s)
	}
	return total
}
