package spesh

// RegRef names one SSA-like version of an original register, the key
// the fact table is indexed by (spec.md §3: "facts are indexed by
// (orig_register, version)").
type RegRef struct {
	Orig    uint16
	Version uint16
}

// Operand is the tagged-union operand spec.md §3 describes: a register
// reference with a version, a literal int/num, a string-table index, a
// callsite-table index, a branch target block index, or a spesh-slot
// index.
type Operand struct {
	Kind OperandKind

	Reg RegRef

	LitInt int64
	LitNum float64

	StrIdx      uint32
	CallsiteIdx uint32
	SpeshSlot   uint32

	// BranchTarget is the index of the target BasicBlock, resolved
	// once the graph's blocks are all allocated.
	BranchTarget int32
}

func RegOperand(orig, version uint16) Operand {
	return Operand{Kind: OperandKindReg, Reg: RegRef{Orig: orig, Version: version}}
}

func LitIntOperand(v int64) Operand {
	return Operand{Kind: OperandKindLitInt, LitInt: v}
}

func LitNumOperand(v float64) Operand {
	return Operand{Kind: OperandKindLitNum, LitNum: v}
}

func StrIdxOperand(idx uint32) Operand {
	return Operand{Kind: OperandKindLitStrIdx, StrIdx: idx}
}

func CallsiteOperand(idx uint32) Operand {
	return Operand{Kind: OperandKindCallsiteIdx, CallsiteIdx: idx}
}

func BranchOperand(target int32) Operand {
	return Operand{Kind: OperandKindBranchTarget, BranchTarget: target}
}

func SpeshSlotOperand(idx uint32) Operand {
	return Operand{Kind: OperandKindSpeshSlot, SpeshSlot: idx}
}
