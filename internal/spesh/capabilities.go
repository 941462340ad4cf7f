package spesh

// TypeHandle is an opaque reference to a runtime type, as the object
// model (out of scope, spec.md §1) would hand back from a type lookup.
// The optimizer never dereferences one itself — it only ever threads a
// TypeHandle through to a Capabilities method or stores it behind a
// *TypeInfo it already resolved.
type TypeHandle = *TypeInfo

// MethodCache is the black-box method-resolution collaborator spec.md §1
// and §6 name: "method lookup result caching."
type MethodCache interface {
	// Lookup resolves typ's method named name, if the cache has already
	// seen and recorded that resolution.
	Lookup(typ TypeHandle, name string) (Method, bool)

	// CanOnly answers whether typ is known to respond (1), known not to
	// respond (0), or unknown (-1) to method name, without invoking
	// user-level introspection (optimize_can_op's guard).
	CanOnly(typ TypeHandle, name string) int8
}

// TypeCheckCache is the black-box type-check collaborator (spec.md §1:
// "type check caching").
type TypeCheckCache interface {
	// TryCheck answers whether a value of objType passes an istype
	// check against checkType, if this can be decided without running
	// user-level type-check logic. ok is false when the cache has no
	// opinion and the rewriter must bail.
	TryCheck(objType, checkType TypeHandle) (result bool, ok bool)
}

// MultiDispatchCache is the black-box multi-dispatch collaborator
// (spec.md §1: "multi-dispatch cache lookups").
type MultiDispatchCache interface {
	// Find resolves the candidate a multi-dispatch proto routine would
	// pick for the arguments described by ci, if the cache already has
	// an entry for this exact argument shape.
	Find(cache Method, ci *CallInfo) (Method, bool)
}

// ReprSpecializer is the black-box representation-specific optimizer
// hook (spec.md §1: "representation-specific optimization hooks";
// optimize.c: REPR(type)->spesh).
type ReprSpecializer interface {
	// Spesh rewrites ins in place (or replaces it) using whatever this
	// representation knows about its own storage layout. Concrete
	// implementations live in internal/spesh/repr.
	Spesh(g *Graph, bb *BasicBlock, ins *Instruction)

	// StorageSpec reports what primitive typ's representation can
	// box/unbox directly (backs optimize_objprimspec).
	StorageSpec(typ TypeHandle) StorageSpec

	// ID names which representation this specializer serves.
	ID() ReprID
}

// ContainerSpecializer is the black-box container-specific optimizer
// hook (spec.md §1: "container-specific optimization hooks"; optimize.c:
// container_spec->spesh).
type ContainerSpecializer interface {
	// FetchNeverInvokes reports whether fetching this container's
	// value is guaranteed never to run user code — a precondition
	// optimize_decont checks before delegating to Spesh.
	FetchNeverInvokes() bool

	// Spesh rewrites a decont instruction in place using container-
	// specific knowledge.
	Spesh(g *Graph, bb *BasicBlock, ins *Instruction)
}

// Inliner is the black-box inlining collaborator (spec.md §1: "deciding
// whether/how to inline a call").
type Inliner interface {
	// TryGetGraph asks whether candidate-numbered specialization of
	// callee can be inlined at all, returning its graph if so.
	TryGetGraph(g *Graph, callee Method, candidate int) (*Graph, bool)

	// Inline splices inlineGraph's body into g in place of the
	// prepargs/invoke sequence ci describes, rooted at ins in bb.
	Inline(g *Graph, ci *CallInfo, bb *BasicBlock, ins *Instruction, inlineGraph *Graph, callee Method)
}

// Capabilities bundles the optimizer's outbound collaborators plus the
// op descriptor table (spec.md §6).
type Capabilities struct {
	Methods   MethodCache
	TypeCheck TypeCheckCache
	Multi     MultiDispatchCache
	Repr      map[ReprID]ReprSpecializer
	Container map[string]ContainerSpecializer
	Inline    Inliner
}

// OpDescriptor looks up op's descriptor (spec.md §6:
// "op_descriptor(opcode)").
func (Capabilities) OpDescriptor(op OpCode) *OpInfo {
	return OpDescriptor(op)
}

// ReprFor returns the registered ReprSpecializer for id, if any.
func (c Capabilities) ReprFor(id ReprID) (ReprSpecializer, bool) {
	rs, ok := c.Repr[id]
	return rs, ok
}

// ContainerFor returns the registered ContainerSpecializer for kind, if
// any.
func (c Capabilities) ContainerFor(kind string) (ContainerSpecializer, bool) {
	cs, ok := c.Container[kind]
	return cs, ok
}
