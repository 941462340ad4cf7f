package spesh

// optimizeIffy rewrites a conditional branch (if_i/unless_i/if_n/
// unless_n/if_o/unless_o) to an unconditional goto or a deletion when the
// tested register's truth value is statically known (optimize.c:
// optimize_iffy). Only int, num, and object forms are handled; any other
// form bails, matching the original's own incompleteness here.
func optimizeIffy(g *Graph, bb *BasicBlock, ins *Instruction) bool {
	if len(ins.Operands) < 2 || ins.Operands[0].Kind != OperandKindReg {
		return false
	}
	negated := ins.Op == OpUnlessI || ins.Op == OpUnlessN || ins.Op == OpUnlessO
	fact := g.GetFacts(ins.Operands[0].Reg)
	if fact == nil || !fact.Flags.Has(FlagKnownValue) {
		return false
	}

	var truthy bool
	switch ins.Op {
	case OpIfI, OpUnlessI:
		if fact.Value.Kind != ValueInt {
			return false
		}
		truthy = fact.Value.AsBool()
	case OpIfN, OpUnlessN:
		if fact.Value.Kind != ValueNum {
			return false
		}
		truthy = fact.Value.AsBool()
	case OpIfO, OpUnlessO:
		if fact.Value.Kind != ValueObj {
			return false
		}
		truthy = fact.Value.Obj != nil && fact.Value.Obj.Concrete()
	default:
		return false
	}
	if negated {
		truthy = !truthy
	}

	g.UseFacts(ins.Operands[0].Reg)
	target := ins.Operands[1]
	if truthy {
		ins.Op = OpGoto
		ins.Operands = []Operand{target}
		return true
	}
	bb.DeleteIns(ins)
	return true
}

// optimizeIsTrueIsFalse rewrites istrue/isfalse to a direct read of the
// operand's known boolification mode (optimize.c:
// optimize_istrue_isfalse). Only two modes have a fast path in the
// original and here: BoolModeUnboxInt unboxes straight to the backing
// int and recurses into the representation sub-specializer;
// BoolModeNotTypeObject — the default mode when a type declares none,
// and the common case — is the same question as isconcrete, so it
// rewrites to isconcrete and recurses into that fold. Every other mode
// (num/string/collection boolification, and BoolModeCallMethod, which
// is unsafe to fold since it can invoke user code) has no fast path and
// is left untouched.
func optimizeIsTrueIsFalse(g *Graph, caps Capabilities, bb *BasicBlock, ins *Instruction) bool {
	if len(ins.Operands) < 2 || ins.Operands[0].Kind != OperandKindReg || ins.Operands[1].Kind != OperandKindReg {
		return false
	}
	dst := ins.Operands[0].Reg
	src := ins.Operands[1].Reg
	fact := g.GetFacts(src)
	if fact == nil || !fact.Flags.Has(FlagKnownType) || fact.Type == nil {
		return false
	}
	negate := ins.Op == OpIsFalse

	switch fact.Type.Boolification {
	case BoolModeUnboxInt:
		ins.Op = OpUnboxI
		ins.Operands = []Operand{RegOperand(dst.Orig, dst.Version), RegOperand(src.Orig, src.Version)}
		optimizeReprOp(g, caps, bb, ins)
	case BoolModeNotTypeObject:
		ins.Op = OpIsConcrete
		ins.Operands = []Operand{RegOperand(dst.Orig, dst.Version), RegOperand(src.Orig, src.Version)}
		optimizeIsConcrete(g, ins)
	default:
		return false
	}

	if negate {
		notIns := &Instruction{Op: OpNotI, Operands: []Operand{RegOperand(dst.Orig, dst.Version), RegOperand(dst.Orig, dst.Version)}}
		bb.InsertAfter(ins, notIns)
		if resFact := g.GetFacts(dst); resFact != nil && resFact.Flags.Has(FlagKnownValue) {
			resFact.Value.I64 = boolToInt(resFact.Value.I64 == 0)
		}
	}

	g.UseFacts(src)
	return true
}
