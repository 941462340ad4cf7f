package spesh

// Compile-time value representation for facts.
//
// MoarVM's spesh graph stores a known literal value as a tagged union
// inside MVMSpeshFacts (value.i64/value.n64/value.s/value.o). The teacher
// VM (sentra-language-sentra/internal/vmregister/value.go) represents
// every *runtime* value this way too, via NaN-boxing a uint64. A spesh
// fact only ever needs to carry a handful of compile-time-known shapes
// (an int, a float, a string, or a handle to some heap object such as a
// resolved method or a logged lexical), so this is a small tagged struct
// rather than a full NaN-boxed runtime representation — there is no hot
// loop here re-encoding values billions of times a second, just a few
// fields set once per rewrite.

// ValueKind discriminates the Value union.
type ValueKind uint8

const (
	ValueNone ValueKind = iota
	ValueInt
	ValueNum
	ValueStr
	ValueObj
)

// Value is a compile-time-known value, as recorded in a Fact.
type Value struct {
	Kind ValueKind
	I64  int64
	N64  float64
	Str  string
	Obj  Object
}

func IntValue(i int64) Value   { return Value{Kind: ValueInt, I64: i} }
func NumValue(n float64) Value { return Value{Kind: ValueNum, N64: n} }
func StrValue(s string) Value  { return Value{Kind: ValueStr, Str: s} }
func ObjValue(o Object) Value  { return Value{Kind: ValueObj, Obj: o} }

// AsBool interprets an int-kind Value as a truth value, the way
// MVM_SPESH_FACT_KNOWN_VALUE integers are read for if_i/unless_i.
func (v Value) AsBool() bool {
	switch v.Kind {
	case ValueInt:
		return v.I64 != 0
	case ValueNum:
		return v.N64 != 0.0
	default:
		return false
	}
}

// ReprID names the representation kind a TypeInfo declares, standing in
// for MoarVM's REPR(type)->ID. Only the representations the rewriter
// catalogue (spec.md §4.2) actually probes get a name here.
type ReprID uint8

const (
	ReprGeneric ReprID = iota
	ReprArray
	ReprHash
	ReprInt
	ReprNum
	ReprStr
	ReprException
	ReprCode
)

// BoolMode mirrors MVMBoolificationSpec.mode: how a type's concrete
// instances boolify, used by optimize_iffy / optimize_istrue_isfalse.
type BoolMode uint8

const (
	BoolModeNotTypeObject BoolMode = iota
	BoolModeUnboxInt
	BoolModeUnboxNum
	BoolModeUnboxStrNotEmpty
	BoolModeHasElems
	BoolModeIter
	BoolModeBigInt
	BoolModeCallMethod // unsafe: can invoke user code, rewriters must bail
)

// StorageSpec mirrors MVMStorageSpec: what primitive a representation
// can box/unbox directly, and the boxed_primitive code objprimspec reads.
type StorageSpec struct {
	CanBoxInt      bool
	CanBoxNum      bool
	CanBoxStr      bool
	BoxedPrimitive int16
}

// ContainerSpec mirrors MVMContainerSpec: whether fetching this
// container's value can never invoke user code (required before decont
// can safely delegate to a representation-specific spesh hook) and which
// ContainerSpecializer (if any) is registered for it.
type ContainerSpec struct {
	FetchNeverInvokes bool
	Kind              string // keys into Capabilities.Container
}

// InvocationSpec mirrors MVMInvocationSpec: how to unwrap a non-code
// invocable object into the code object it ultimately calls.
type InvocationSpec struct {
	MultiDispatch       bool
	MDClassHandle       string
	MDValidAttrName     string
	MDCacheAttrName     string
	ClassHandle         string
	AttrName            string
	NestedClassHandle   string
	NestedAttrName      string
}

// TypeInfo is the compile-time metaobject a Fact's Type/DecontType field
// points to — the Go stand-in for MVMSTable plus the MVMObject WHAT it
// describes. It is intentionally a plain read-only record: the object
// model itself (method resolution tables, multi-dispatch caches) lives
// behind the Capabilities interfaces in capabilities.go, not here.
type TypeInfo struct {
	Name           string
	Repr           ReprID
	HLL            string
	Boolification  BoolMode
	Storage        StorageSpec
	Invocation     *InvocationSpec
	Container      *ContainerSpec
}

// Object is anything a spesh slot or a Fact's KNOWN_VALUE can hold: a
// resolved method, a logged lexical value, a code object. Real object
// identity and attribute storage is a GC/object-model concern (out of
// scope, spec.md §1); this interface exposes just enough for the
// rewriters that inspect objects directly (optimize_call's invocation
// unwrapping, optimize_getlex_known's concreteness check).
type Object interface {
	TypeInfo() *TypeInfo
	Concrete() bool
	GetAttr(classHandle, attrName string) (Object, bool)
}

// CodeObject is an Object whose representation is ReprCode: something
// optimize_call can invoke directly once resolved.
type CodeObject struct {
	Name           string
	IsCompilerStub bool
	Candidates     []SpeshCandidate
	Info           *TypeInfo
}

func (c *CodeObject) TypeInfo() *TypeInfo { return c.Info }
func (c *CodeObject) Concrete() bool      { return true }
func (c *CodeObject) GetAttr(string, string) (Object, bool) { return nil, false }

// Method is what the method cache resolves to: always some Object
// (usually a *CodeObject, but multi-dispatch proto routines are plain
// objects with their own InvocationSpec).
type Method = Object
