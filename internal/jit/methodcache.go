package jit

import "github.com/sentra-lang/speshopt/internal/spesh"

// MethodTable is a reference spesh.MethodCache: a flat map from
// (type, method name) to the resolved method, standing in for the
// object model's real method-resolution-order cache (spec.md §1,
// out of scope; spec.md §6's method_cache_lookup/can_method_cache_only).
type MethodTable struct {
	methods map[methodKey]spesh.Method
}

type methodKey struct {
	typ  spesh.TypeHandle
	name string
}

// NewMethodTable creates an empty method cache.
func NewMethodTable() *MethodTable {
	return &MethodTable{methods: make(map[methodKey]spesh.Method)}
}

// Register records that typ resolves name to method — the population
// step a real object model would perform at class-composition time.
func (t *MethodTable) Register(typ spesh.TypeHandle, name string, method spesh.Method) {
	t.methods[methodKey{typ, name}] = method
}

// Lookup implements spesh.MethodCache.
func (t *MethodTable) Lookup(typ spesh.TypeHandle, name string) (spesh.Method, bool) {
	m, ok := t.methods[methodKey{typ, name}]
	return m, ok
}

// CanOnly implements spesh.MethodCache: returns 1 if name is registered
// for typ, 0 if typ is fully known but has no such method, -1 if this
// cache has nothing recorded for typ at all (so the rewriter must bail
// rather than assume "no").
func (t *MethodTable) CanOnly(typ spesh.TypeHandle, name string) int8 {
	if _, ok := t.methods[methodKey{typ, name}]; ok {
		return 1
	}
	for k := range t.methods {
		if k.typ == typ {
			return 0
		}
	}
	return -1
}

// TypeCheckTable is a reference spesh.TypeCheckCache: a flat map
// recording the definitive outcome of an istype check between two
// known types (spec.md §6's try_cache_type_check).
type TypeCheckTable struct {
	results map[typeCheckKey]bool
}

type typeCheckKey struct {
	objType, checkType spesh.TypeHandle
}

// NewTypeCheckTable creates an empty type-check cache.
func NewTypeCheckTable() *TypeCheckTable {
	return &TypeCheckTable{results: make(map[typeCheckKey]bool)}
}

// Register records the outcome of objType istype checkType.
func (t *TypeCheckTable) Register(objType, checkType spesh.TypeHandle, result bool) {
	t.results[typeCheckKey{objType, checkType}] = result
}

// TryCheck implements spesh.TypeCheckCache.
func (t *TypeCheckTable) TryCheck(objType, checkType spesh.TypeHandle) (bool, bool) {
	r, ok := t.results[typeCheckKey{objType, checkType}]
	return r, ok
}

// MultiDispatchTable is a reference spesh.MultiDispatchCache: a flat map
// from a proto routine plus the exact argument-fact shape it was last
// resolved for, to the chosen candidate (spec.md §6's multi_cache_find).
type MultiDispatchTable struct {
	results map[multiKey]spesh.Method
}

type multiKey struct {
	proto    spesh.Method
	numArgs  int
	argTypes [spesh.MaxArgsForOpt]spesh.TypeHandle
}

// NewMultiDispatchTable creates an empty multi-dispatch cache.
func NewMultiDispatchTable() *MultiDispatchTable {
	return &MultiDispatchTable{results: make(map[multiKey]spesh.Method)}
}

func keyFor(proto spesh.Method, ci *spesh.CallInfo) multiKey {
	k := multiKey{proto: proto, numArgs: ci.NumArgs}
	for i := 0; i < ci.NumArgs && i < spesh.MaxArgsForOpt; i++ {
		if f := ci.ArgFacts[i]; f != nil && f.Flags.Has(spesh.FlagKnownType) {
			k.argTypes[i] = f.Type
		}
	}
	return k
}

// Register records that, for proto dispatched with the argument shape
// ci describes, target is the resolved candidate.
func (t *MultiDispatchTable) Register(proto spesh.Method, ci *spesh.CallInfo, target spesh.Method) {
	t.results[keyFor(proto, ci)] = target
}

// Find implements spesh.MultiDispatchCache.
func (t *MultiDispatchTable) Find(cache spesh.Method, ci *spesh.CallInfo) (spesh.Method, bool) {
	m, ok := t.results[keyFor(cache, ci)]
	return m, ok
}
