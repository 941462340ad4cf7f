package spesh

// OpCode enumerates the instruction opcodes the optimizer knows about.
// This mirrors the switch in MVM_spesh_optimize's optimize_bb (spec.md
// §4.2's rewrite table, and optimize.c's final switch), generalized from
// MoarVM's ~1400 opcodes down to the ones the spec actually names, plus
// the synthetic "sp_*" forms rewrites produce. Extension opcodes (spec's
// "opcode = sentinel -1") are represented by OpExt.
type OpCode int32

const (
	OpInvalid OpCode = iota

	// Generic.
	OpSet
	OpGoto
	OpPhi

	// Boolification.
	OpIsTrue
	OpIsFalse
	OpNotI

	// Conditional branches.
	OpIfI
	OpUnlessI
	OpIfN
	OpUnlessN
	OpIfO
	OpUnlessO

	// Constants.
	OpConstI64_16
	OpConstN64

	// Smart coercions.
	OpSmrtStrify
	OpSmrtNumify
	OpCoerceIn  // int -> num, via known value
	OpCoerceNS  // num -> str
	OpCoerceIS  // int -> str
	OpUnboxS
	OpUnboxI
	OpUnboxN
	OpBoxI
	OpBoxN
	OpBoxS
	OpElems

	// Method resolution.
	OpFindMeth
	OpSpGetSpeshSlot
	OpSpFindMeth // cache-bearing fallback form of findmeth
	OpCan
	OpCanS

	// Representation probes.
	OpIsList
	OpIsHash
	OpIsInt
	OpIsNum
	OpIsStr
	OpIsNonNull
	OpIsConcrete
	OpIsType
	OpObjPrimSpec
	OpHllize
	OpDecont

	// Attribute/representation ops (delegate to a ReprSpecializer).
	OpCreate
	OpGetAttrI
	OpGetAttrN
	OpGetAttrS
	OpGetAttrO
	OpBindAttrI
	OpBindAttrN
	OpBindAttrS
	OpBindAttrO

	// Parameter checking.
	OpAssertParamCheck

	// Calls.
	OpPrepArgs
	OpArgI
	OpArgN
	OpArgS
	OpArgO
	OpArgConstI
	OpArgConstN
	OpArgConstS
	OpInvokeV
	OpInvokeI
	OpInvokeN
	OpInvokeS
	OpInvokeO
	OpSpFastInvokeV
	OpSpFastInvokeI
	OpSpFastInvokeN
	OpSpFastInvokeS
	OpSpFastInvokeO

	// Lexical lookup.
	OpGetLexStaticO
	OpGetLexPerInvTypeO

	// Exceptions.
	OpThrowCatDyn
	OpThrowCatLex
	OpThrowCatLexotic
	OpSpGetS // direct attribute fetch, e.g. an exception's message slot

	// Analyzer residue.
	OpSpLog
	OpSpOsrFinalize

	// Extension point.
	OpExt OpCode = -1
)

// RWKind is the read/write kind of one operand slot, per spec.md §3:
// "the first operand's read/write kind determines whether the
// instruction defines a register."
type RWKind uint8

const (
	RWNone RWKind = iota
	RWRead
	RWWrite
)

// OperandKind names what flavor of operand a slot holds, independent of
// its read/write role.
type OperandKind uint8

const (
	OperandKindReg OperandKind = iota
	OperandKindLitInt
	OperandKindLitNum
	OperandKindLitStrIdx
	OperandKindCallsiteIdx
	OperandKindBranchTarget
	OperandKindSpeshSlot
)

// OpInfo is the op descriptor spec.md §3 calls for: opcode, operand
// layout/count, per-operand read/write kind, and the `pure` flag dead
// code elimination reads (spec.md §4.5).
type OpInfo struct {
	Opcode      OpCode
	Name        string
	OperandKind []OperandKind
	OperandRW   []RWKind
	Pure        bool
}

// op descriptors, keyed by opcode. Registered once in init() and looked
// up read-only by OpDescriptor (spec.md §6's op_descriptor(opcode)).
var opTable = map[OpCode]*OpInfo{}

func define(op OpCode, name string, pure bool, operands ...struct {
	Kind OperandKind
	RW   RWKind
}) {
	info := &OpInfo{Opcode: op, Name: name, Pure: pure}
	for _, o := range operands {
		info.OperandKind = append(info.OperandKind, o.Kind)
		info.OperandRW = append(info.OperandRW, o.RW)
	}
	opTable[op] = info
}

func o(k OperandKind, rw RWKind) struct {
	Kind OperandKind
	RW   RWKind
} {
	return struct {
		Kind OperandKind
		RW   RWKind
	}{k, rw}
}

func init() {
	w := OperandKindReg
	define(OpSet, "set", true, o(w, RWWrite), o(w, RWRead))
	define(OpGoto, "goto", false, o(OperandKindBranchTarget, RWNone))
	define(OpPhi, "phi", true, o(w, RWWrite)) // variadic reads appended dynamically

	define(OpIsTrue, "istrue", true, o(w, RWWrite), o(w, RWRead))
	define(OpIsFalse, "isfalse", true, o(w, RWWrite), o(w, RWRead))
	define(OpNotI, "not_i", true, o(w, RWWrite), o(w, RWRead))

	define(OpIfI, "if_i", false, o(w, RWRead), o(OperandKindBranchTarget, RWNone))
	define(OpUnlessI, "unless_i", false, o(w, RWRead), o(OperandKindBranchTarget, RWNone))
	define(OpIfN, "if_n", false, o(w, RWRead), o(OperandKindBranchTarget, RWNone))
	define(OpUnlessN, "unless_n", false, o(w, RWRead), o(OperandKindBranchTarget, RWNone))
	define(OpIfO, "if_o", false, o(w, RWRead), o(OperandKindBranchTarget, RWNone))
	define(OpUnlessO, "unless_o", false, o(w, RWRead), o(OperandKindBranchTarget, RWNone))

	define(OpConstI64_16, "const_i64_16", true, o(w, RWWrite), o(OperandKindLitInt, RWNone))
	define(OpConstN64, "const_n64", true, o(w, RWWrite), o(OperandKindLitNum, RWNone))

	define(OpSmrtStrify, "smrt_strify", true, o(w, RWWrite), o(w, RWRead))
	define(OpSmrtNumify, "smrt_numify", true, o(w, RWWrite), o(w, RWRead))
	define(OpCoerceIn, "coerce_in", true, o(w, RWWrite), o(w, RWRead))
	define(OpCoerceNS, "coerce_ns", true, o(w, RWWrite), o(w, RWRead))
	define(OpCoerceIS, "coerce_is", true, o(w, RWWrite), o(w, RWRead))
	define(OpUnboxS, "unbox_s", true, o(w, RWWrite), o(w, RWRead))
	define(OpUnboxI, "unbox_i", true, o(w, RWWrite), o(w, RWRead))
	define(OpUnboxN, "unbox_n", true, o(w, RWWrite), o(w, RWRead))
	define(OpBoxI, "box_i", true, o(w, RWWrite), o(w, RWRead), o(w, RWRead))
	define(OpBoxN, "box_n", true, o(w, RWWrite), o(w, RWRead), o(w, RWRead))
	define(OpBoxS, "box_s", true, o(w, RWWrite), o(w, RWRead), o(w, RWRead))
	define(OpElems, "elems", true, o(w, RWWrite), o(w, RWRead))

	define(OpFindMeth, "findmeth", false, o(w, RWWrite), o(w, RWRead), o(OperandKindLitStrIdx, RWNone))
	define(OpSpGetSpeshSlot, "sp_getspeshslot", true, o(w, RWWrite), o(OperandKindSpeshSlot, RWNone))
	define(OpSpFindMeth, "sp_findmeth", false, o(w, RWWrite), o(w, RWRead), o(OperandKindLitStrIdx, RWNone), o(OperandKindSpeshSlot, RWNone))
	define(OpCan, "can", false, o(w, RWWrite), o(w, RWRead), o(OperandKindLitStrIdx, RWNone))
	define(OpCanS, "can_s", false, o(w, RWWrite), o(w, RWRead), o(w, RWRead))

	define(OpIsList, "islist", true, o(w, RWWrite), o(w, RWRead))
	define(OpIsHash, "ishash", true, o(w, RWWrite), o(w, RWRead))
	define(OpIsInt, "isint", true, o(w, RWWrite), o(w, RWRead))
	define(OpIsNum, "isnum", true, o(w, RWWrite), o(w, RWRead))
	define(OpIsStr, "isstr", true, o(w, RWWrite), o(w, RWRead))
	define(OpIsNonNull, "isnonnull", true, o(w, RWWrite), o(w, RWRead))
	define(OpIsConcrete, "isconcrete", true, o(w, RWWrite), o(w, RWRead))
	define(OpIsType, "istype", true, o(w, RWWrite), o(w, RWRead), o(w, RWRead))
	define(OpObjPrimSpec, "objprimspec", true, o(w, RWWrite), o(w, RWRead))
	define(OpHllize, "hllize", true, o(w, RWWrite), o(w, RWRead))
	define(OpDecont, "decont", true, o(w, RWWrite), o(w, RWRead))

	define(OpCreate, "create", false, o(w, RWWrite), o(w, RWRead))
	define(OpGetAttrI, "getattr_i", false, o(w, RWWrite), o(w, RWRead), o(OperandKindLitStrIdx, RWNone))
	define(OpGetAttrN, "getattr_n", false, o(w, RWWrite), o(w, RWRead), o(OperandKindLitStrIdx, RWNone))
	define(OpGetAttrS, "getattr_s", false, o(w, RWWrite), o(w, RWRead), o(OperandKindLitStrIdx, RWNone))
	define(OpGetAttrO, "getattr_o", false, o(w, RWWrite), o(w, RWRead), o(OperandKindLitStrIdx, RWNone))
	define(OpBindAttrI, "bindattr_i", false, o(w, RWWrite), o(w, RWRead), o(OperandKindLitStrIdx, RWNone))
	define(OpBindAttrN, "bindattr_n", false, o(w, RWWrite), o(w, RWRead), o(OperandKindLitStrIdx, RWNone))
	define(OpBindAttrS, "bindattr_s", false, o(w, RWWrite), o(w, RWRead), o(OperandKindLitStrIdx, RWNone))
	define(OpBindAttrO, "bindattr_o", false, o(w, RWWrite), o(w, RWRead), o(OperandKindLitStrIdx, RWNone))

	define(OpAssertParamCheck, "assertparamcheck", false, o(w, RWRead))

	define(OpPrepArgs, "prepargs", false, o(OperandKindCallsiteIdx, RWNone))
	define(OpArgI, "arg_i", false, o(OperandKindLitInt, RWNone), o(w, RWRead))
	define(OpArgN, "arg_n", false, o(OperandKindLitInt, RWNone), o(w, RWRead))
	define(OpArgS, "arg_s", false, o(OperandKindLitInt, RWNone), o(w, RWRead))
	define(OpArgO, "arg_o", false, o(OperandKindLitInt, RWNone), o(w, RWRead))
	define(OpArgConstI, "argconst_i", false, o(OperandKindLitInt, RWNone))
	define(OpArgConstN, "argconst_n", false, o(OperandKindLitInt, RWNone))
	define(OpArgConstS, "argconst_s", false, o(OperandKindLitInt, RWNone))
	define(OpInvokeV, "invoke_v", false, o(w, RWRead))
	define(OpInvokeI, "invoke_i", false, o(w, RWWrite), o(w, RWRead))
	define(OpInvokeN, "invoke_n", false, o(w, RWWrite), o(w, RWRead))
	define(OpInvokeS, "invoke_s", false, o(w, RWWrite), o(w, RWRead))
	define(OpInvokeO, "invoke_o", false, o(w, RWWrite), o(w, RWRead))
	define(OpSpFastInvokeV, "sp_fastinvoke_v", false, o(w, RWRead), o(OperandKindLitInt, RWNone))
	define(OpSpFastInvokeI, "sp_fastinvoke_i", false, o(w, RWWrite), o(w, RWRead), o(OperandKindLitInt, RWNone))
	define(OpSpFastInvokeN, "sp_fastinvoke_n", false, o(w, RWWrite), o(w, RWRead), o(OperandKindLitInt, RWNone))
	define(OpSpFastInvokeS, "sp_fastinvoke_s", false, o(w, RWWrite), o(w, RWRead), o(OperandKindLitInt, RWNone))
	define(OpSpFastInvokeO, "sp_fastinvoke_o", false, o(w, RWWrite), o(w, RWRead), o(OperandKindLitInt, RWNone))

	define(OpGetLexStaticO, "getlexstatic_o", false, o(w, RWWrite), o(w, RWRead))
	define(OpGetLexPerInvTypeO, "getlexperinvtype_o", false, o(w, RWWrite), o(w, RWRead))

	define(OpThrowCatDyn, "throwcatdyn", false, o(w, RWWrite), o(OperandKindLitInt, RWNone))
	define(OpThrowCatLex, "throwcatlex", false, o(w, RWWrite), o(OperandKindLitInt, RWNone))
	define(OpThrowCatLexotic, "throwcatlexotic", false, o(w, RWWrite), o(OperandKindLitInt, RWNone))
	define(OpSpGetS, "sp_get_s", true, o(w, RWWrite), o(w, RWRead), o(OperandKindLitInt, RWNone))

	define(OpSpLog, "sp_log", false, o(w, RWWrite), o(OperandKindLitInt, RWNone))
	define(OpSpOsrFinalize, "sp_osrfinalize", false)
}

// OpDescriptor returns the op descriptor for an opcode (spec.md §6).
func OpDescriptor(op OpCode) *OpInfo {
	if info, ok := opTable[op]; ok {
		return info
	}
	return nil
}
