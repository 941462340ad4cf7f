package spesh

// optimizeCoerce folds coerce_in (int-to-num) when the source register's
// value is a known int literal, replacing it with a const_n64 carrying
// the converted value (optimize.c: optimize_coerce).
func optimizeCoerce(g *Graph, ins *Instruction) bool {
	if ins.Op != OpCoerceIn {
		return false
	}
	if len(ins.Operands) < 2 || ins.Operands[1].Kind != OperandKindReg {
		return false
	}
	dst := ins.Operands[0]
	fact := g.GetFacts(ins.Operands[1].Reg)
	if fact == nil || !fact.Flags.Has(FlagKnownValue) || fact.Value.Kind != ValueInt {
		return false
	}
	g.UseFacts(ins.Operands[1].Reg)
	n := float64(fact.Value.I64)
	ins.Op = OpConstN64
	ins.Operands = []Operand{dst, LitNumOperand(n)}

	if dst.Kind == OperandKindReg {
		if f := g.GetFacts(dst.Reg); f != nil {
			f.Flags |= FlagKnownValue
			f.Value = NumValue(n)
		}
	}
	return true
}

// exceptionMessageSlot stands in for offsetof(MVMException, body.message):
// the attribute slot sp_get_s reads directly when smrt_strify's fallback
// fires on a known MVMException-repr type.
const exceptionMessageSlot = 0

// optimizeSmartCoerce implements smrt_strify/smrt_numify (optimize.c:
// optimize_smart_coerce). When the operand's representation unboxes the
// target primitive directly, it rewrites straight to unbox_s/unbox_n and
// recurses into the representation sub-specializer. Otherwise, if the
// method cache conclusively says there's no Str/Num method, it falls back
// to the two named representation-specific rewrites: a direct attribute
// load for an exception's message, or elems+coerce_in (through a fresh
// temp register) for an array or hash's count. A conclusive "yes" or an
// inconclusive cache answer leaves the instruction untouched — the former
// for a future inlined .Str/.Num invocation, the latter because it's
// unsafe to guess.
func optimizeSmartCoerce(g *Graph, caps Capabilities, bb *BasicBlock, ins *Instruction) bool {
	if ins.Op != OpSmrtStrify && ins.Op != OpSmrtNumify {
		return false
	}
	if len(ins.Operands) < 2 || ins.Operands[1].Kind != OperandKindReg {
		return false
	}
	dst := ins.Operands[0]
	src := ins.Operands[1].Reg
	fact := g.GetFacts(src)
	if fact == nil || !fact.Flags.Has(FlagKnownType) || fact.Type == nil {
		return false
	}
	isStrify := ins.Op == OpSmrtStrify

	storage := fact.Type.Storage
	if isStrify && storage.CanBoxStr {
		g.UseFacts(src)
		ins.Op = OpUnboxS
		ins.Operands = []Operand{dst, RegOperand(src.Orig, src.Version)}
		optimizeReprOp(g, caps, bb, ins)
		return true
	}
	if !isStrify && storage.CanBoxNum {
		g.UseFacts(src)
		ins.Op = OpUnboxN
		ins.Operands = []Operand{dst, RegOperand(src.Orig, src.Version)}
		optimizeReprOp(g, caps, bb, ins)
		return true
	}

	if caps.Methods == nil {
		return false
	}
	methodName := "Num"
	if isStrify {
		methodName = "Str"
	}
	switch caps.Methods.CanOnly(fact.Type, methodName) {
	case -1:
		// Can't safely tell whether the type has a Str/Num method.
		return false
	case 1:
		// Has one; left for a future inlined invocation.
		return false
	}

	if isStrify && fact.Type.Repr == ReprException {
		g.UseFacts(src)
		ins.Op = OpSpGetS
		ins.Operands = []Operand{dst, RegOperand(src.Orig, src.Version), LitIntOperand(exceptionMessageSlot)}
		return true
	}
	if !isStrify && (fact.Type.Repr == ReprArray || fact.Type.Repr == ReprHash) {
		g.UseFacts(src)
		temp := g.GetTempReg()
		origDst := dst

		ins.Op = OpElems
		ins.Operands = []Operand{RegOperand(temp.Orig, temp.Version), RegOperand(src.Orig, src.Version)}

		newIns := &Instruction{Op: OpCoerceIn, Operands: []Operand{origDst, RegOperand(temp.Orig, temp.Version)}}
		bb.InsertAfter(ins, newIns)
		if tf := g.GetFacts(temp); tf != nil {
			tf.Usages++
		}

		optimizeReprOp(g, caps, bb, ins)
		g.ReleaseTempReg(temp)
		return true
	}
	return false
}
