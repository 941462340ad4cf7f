package spesh

import (
	"github.com/google/uuid"

	"github.com/sentra-lang/speshopt/internal/spesh/arena"
)

// HandlerAction mirrors MVMExceptionHandler's action field: what happens
// when a thrown category matches this handler.
type HandlerAction uint8

const (
	HandlerGoto HandlerAction = iota
	HandlerGotoWithPayload
	HandlerLastResort
)

// Handler is one entry of a StaticFrame's exception-handler table,
// matched by category mask during throwcat resolution (spec.md §4.4).
type Handler struct {
	CategoryMask uint32
	Action       HandlerAction
	GotoIdx      int32 // target BasicBlock.Idx
	StartIdx     int32 // block where the protected region begins
	EndIdx       int32 // block where the protected region ends
}

// Callsite describes one invocation's argument shape: how many
// positional/named arguments of each flavor it passes, enough for
// try_find_spesh_candidate's guard matching (spec.md §4.3).
type Callsite struct {
	NumArgs    int
	ArgIsConst []bool
	HasFlatten bool
}

// StaticFrame is the read-only subroutine metadata a Graph points to:
// name, handler table, callsite table, and string table (spec.md §3).
type StaticFrame struct {
	Name      string
	Handlers  []Handler
	Callsites []Callsite
	Strings   []string
}

// GuardKind names the four guard kinds try_find_spesh_candidate checks
// (optimize.c: MVM_SPESH_GUARD_CONC/TYPE/DC_CONC/DC_TYPE).
type GuardKind uint8

const (
	GuardConcrete GuardKind = iota
	GuardType
	GuardDecontConcrete
	GuardDecontType
)

// Guard is one per-argument guard a specialized candidate requires.
type Guard struct {
	ArgIdx int
	Kind   GuardKind
	Type   *TypeInfo
}

// SpeshCandidate is one pre-specialized, guarded version of a callee
// available for try_find_spesh_candidate to match against a call site's
// known argument facts (optimize.c: MVMSpeshCandidate).
type SpeshCandidate struct {
	ID     uuid.UUID
	Guards []Guard

	// Graph is the specialized callee body, present only for
	// candidates an Inliner can actually inline; nil means "invoke via
	// sp_fastinvoke_* only, do not inline."
	Graph *Graph
}

// LogGuard records a speculative fact traced back to a logged
// observation (spec.md §4.7): the instruction it annotates and whether
// anything still reads the fact it enabled.
type LogGuard struct {
	Ins  *Instruction
	Used bool
}

// CallsiteID indexes into StaticFrame.Callsites.
type CallsiteID = uint32

// Graph is one subroutine body: its basic blocks (dominator-tree rooted
// at Entry), its fact table (indexed by original register then
// version), its spesh-slot table, its log guards, and the StaticFrame
// it belongs to (spec.md §3).
type Graph struct {
	ID uuid.UUID

	Entry  *BasicBlock
	NumBBs int32

	// Blocks indexes every block by its Idx, for branch-target
	// resolution (interpretation, diagnostics). Graph construction
	// helpers keep this in sync; it is not consulted by the optimizer
	// itself, which only ever follows Succ/Children/LinearNext.
	Blocks []*BasicBlock

	// Facts is indexed [orig_register][version].
	Facts [][]Fact

	SpeshSlots []Object

	LogGuards []LogGuard

	// LoggedValues is the analyzer-supplied table of runtime values
	// observed at sp_log sites, indexed by sp_log's literal-int
	// operand — the concrete object getlexstatic_o/getlexperinvtype_o
	// rewrites fold in when the following sp_log records one (spec.md
	// §4.2).
	LoggedValues []Object

	StaticFrame *StaticFrame

	Arena *arena.Arena

	// nextVersion tracks the next free SSA version per original
	// register, used by get_temp_reg.
	nextVersion []uint16

	// freeTemps holds original-register numbers allocated as scratch
	// registers by get_temp_reg and since released, available for
	// reuse (optimize_smart_coerce's fast paths use this, spec.md §4.2).
	freeTemps []uint16

	// numOrigRegs is one past the highest original register number any
	// instruction in this graph mentions, the base for allocating new
	// temporaries.
	numOrigRegs uint16
}

// NewGraph builds an empty Graph over the given StaticFrame, with fact
// storage pre-sized for numOrigRegs original registers.
func NewGraph(id uuid.UUID, sf *StaticFrame, numOrigRegs uint16) *Graph {
	return &Graph{
		ID:          id,
		StaticFrame: sf,
		Facts:       make([][]Fact, numOrigRegs),
		Arena:       arena.New(),
		nextVersion: make([]uint16, numOrigRegs),
		numOrigRegs: numOrigRegs,
	}
}

// EnsureVersion grows the fact row for orig so version v is addressable,
// and reports its row.
func (g *Graph) EnsureVersion(orig uint16, v uint16) []Fact {
	row := g.Facts[orig]
	if int(v) >= len(row) {
		grown := make([]Fact, v+1)
		copy(grown, row)
		for i := len(row); i <= int(v); i++ {
			grown[i].LogGuard = -1
		}
		row = grown
		g.Facts[orig] = row
	}
	if v >= g.nextVersion[orig] {
		g.nextVersion[orig] = v + 1
	}
	return row
}

// GetTempReg allocates a fresh scratch register version, reusing a
// released original register if one is free, otherwise minting a new
// original register number (spec.md §6: "get_temp_reg").
func (g *Graph) GetTempReg() RegRef {
	var orig uint16
	if n := len(g.freeTemps); n > 0 {
		orig = g.freeTemps[n-1]
		g.freeTemps = g.freeTemps[:n-1]
	} else {
		orig = g.numOrigRegs
		g.numOrigRegs++
		g.Facts = append(g.Facts, nil)
		g.nextVersion = append(g.nextVersion, 0)
	}
	v := g.nextVersion[orig]
	g.EnsureVersion(orig, v)
	return RegRef{Orig: orig, Version: v}
}

// ReleaseTempReg returns a scratch register minted by GetTempReg to the
// free list (spec.md §6: "release_temp_reg").
func (g *Graph) ReleaseTempReg(ref RegRef) {
	g.freeTemps = append(g.freeTemps, ref.Orig)
}

// AddSpeshSlot appends obj to the spesh-slot table and returns its
// index (optimize.c: MVM_spesh_add_spesh_slot). Growth is left to
// append, which enlarges the backing array geometrically.
func (g *Graph) AddSpeshSlot(obj Object) uint32 {
	idx := uint32(len(g.SpeshSlots))
	g.SpeshSlots = append(g.SpeshSlots, obj)
	return idx
}

// DeleteInstruction unlinks ins from its block and releases the usage
// count of every register it reads (the "delete_ins" graph primitive
// plus the usage bookkeeping eliminate_dead_ins relies on, spec.md §4.5).
func (g *Graph) DeleteInstruction(caps Capabilities, bb *BasicBlock, ins *Instruction) {
	for _, r := range ins.ReadRegs(caps) {
		g.UseFacts(r)
	}
	bb.DeleteIns(ins)
}

// InsertInstruction links ins into bb before mark (appending when mark
// is nil) and sets its BB (the "insert_ins" graph primitive, spec.md
// §6). It does not create or change any Fact row for a register ins
// writes.
func (g *Graph) InsertInstruction(bb *BasicBlock, mark, ins *Instruction) {
	bb.InsertBefore(mark, ins)
}

// AddBlock allocates a new block, appends it to Blocks, and links it
// after the current last block in linear order — the construction
// helper tests use to build a Graph by hand.
func (g *Graph) AddBlock() *BasicBlock {
	bb := &BasicBlock{Idx: int32(len(g.Blocks))}
	if len(g.Blocks) > 0 {
		g.Blocks[len(g.Blocks)-1].LinearNext = bb
	}
	g.Blocks = append(g.Blocks, bb)
	g.NumBBs++
	if g.Entry == nil {
		g.Entry = bb
	}
	return bb
}

// BlockByIdx resolves a branch-target block index, or nil if out of
// range.
func (g *Graph) BlockByIdx(idx int32) *BasicBlock {
	if idx < 0 || int(idx) >= len(g.Blocks) {
		return nil
	}
	return g.Blocks[idx]
}

// WalkBlocks visits every block reachable from Entry via LinearNext, in
// emission order — the traversal eliminate_dead_bbs uses (optimize.c:
// bb->linear_next).
func (g *Graph) WalkBlocks(fn func(*BasicBlock)) {
	for bb := g.Entry; bb != nil; bb = bb.LinearNext {
		fn(bb)
	}
}
