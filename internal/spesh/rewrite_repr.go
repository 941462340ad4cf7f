package spesh

// optimizeIsType folds istype against a known type (optimize.c:
// optimize_istype), delegating to the TypeCheckCache when the static
// answer isn't trivially derivable from matching *TypeInfo identity.
func optimizeIsType(g *Graph, caps Capabilities, ins *Instruction) bool {
	if ins.Op != OpIsType {
		return false
	}
	if len(ins.Operands) < 3 || ins.Operands[1].Kind != OperandKindReg || ins.Operands[2].Kind != OperandKindReg {
		return false
	}
	dst := ins.Operands[0]
	objFact := g.GetFacts(ins.Operands[1].Reg)
	typeFact := g.GetFacts(ins.Operands[2].Reg)
	if objFact == nil || typeFact == nil {
		return false
	}
	if !objFact.Flags.Has(FlagKnownType) || !typeFact.Flags.Has(FlagKnownValue) || typeFact.Value.Kind != ValueObj {
		return false
	}
	checkType := typeFact.Value.Obj
	if checkType == nil {
		return false
	}

	var result bool
	var ok bool
	if objFact.Type == checkType.TypeInfo() {
		result, ok = true, true
	} else if caps.TypeCheck != nil {
		result, ok = caps.TypeCheck.TryCheck(objFact.Type, checkType.TypeInfo())
	}
	if !ok {
		return false
	}

	g.UseFacts(ins.Operands[1].Reg)
	g.UseFacts(ins.Operands[2].Reg)
	ins.Op = OpConstI64_16
	ins.Operands = []Operand{dst, LitIntOperand(boolToInt(result))}
	return true
}

// optimizeIsReprID folds islist/ishash/isint/isnum/isstr against a
// statically known representation (optimize.c: optimize_is_reprid). A
// matching representation folds to isnonnull (since the match is a
// necessary but not sufficient rewrite when the value could still be a
// type object); a non-matching representation folds straight to a
// false constant.
func optimizeIsReprID(g *Graph, ins *Instruction) bool {
	var want ReprID
	switch ins.Op {
	case OpIsList:
		want = ReprArray
	case OpIsHash:
		want = ReprHash
	case OpIsInt:
		want = ReprInt
	case OpIsNum:
		want = ReprNum
	case OpIsStr:
		want = ReprStr
	default:
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

	if fact.Type.Repr == want {
		ins.Op = OpIsNonNull
		ins.Operands = []Operand{dst, RegOperand(src.Orig, src.Version)}
		return true
	}
	g.UseFacts(src)
	ins.Op = OpConstI64_16
	ins.Operands = []Operand{dst, LitIntOperand(0)}
	return true
}

// optimizeIsConcrete folds isconcrete when the operand's concreteness is
// already known (optimize.c: optimize_isconcrete).
func optimizeIsConcrete(g *Graph, ins *Instruction) bool {
	if ins.Op != OpIsConcrete {
		return false
	}
	if len(ins.Operands) < 2 || ins.Operands[1].Kind != OperandKindReg {
		return false
	}
	dst := ins.Operands[0]
	src := ins.Operands[1].Reg
	fact := g.GetFacts(src)
	if fact == nil {
		return false
	}
	var known, concrete bool
	if fact.Flags.Has(FlagConcrete) {
		known, concrete = true, true
	} else if fact.Flags.Has(FlagTypeObj) {
		known, concrete = true, false
	}
	if !known {
		return false
	}
	g.UseFacts(src)
	ins.Op = OpConstI64_16
	ins.Operands = []Operand{dst, LitIntOperand(boolToInt(concrete))}
	return true
}

// optimizeObjPrimSpec folds objprimspec to the known boxed-primitive code
// of a statically known type (optimize.c: optimize_objprimspec).
func optimizeObjPrimSpec(g *Graph, caps Capabilities, ins *Instruction) bool {
	if ins.Op != OpObjPrimSpec {
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
	g.UseFacts(src)
	ins.Op = OpConstI64_16
	ins.Operands = []Operand{dst, LitIntOperand(int64(fact.Type.Storage.BoxedPrimitive))}
	return true
}

// optimizeHllize folds hllize to a plain set when the value is already
// in the target HLL (optimize.c: optimize_hllize).
func optimizeHllize(g *Graph, ins *Instruction, targetHLL string) bool {
	if ins.Op != OpHllize {
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
	if fact.Type.HLL != targetHLL {
		return false
	}
	ins.Op = OpSet
	CopyFacts(g.GetFacts(dst.Reg), fact)
	if fact.Flags.Has(FlagFromLogGuard) {
		g.markLogGuardUsed(fact.LogGuard)
	}
	return true
}

// optimizeDecont folds decont when the source is already known
// decontainerized or a type object (direct case), and otherwise
// delegates to a registered ContainerSpecializer when fetching the
// container's value is known never to invoke user code, propagating the
// decontainerized type/concreteness facts either way (optimize.c:
// optimize_decont).
func optimizeDecont(g *Graph, caps Capabilities, bb *BasicBlock, ins *Instruction) bool {
	if ins.Op != OpDecont {
		return false
	}
	if len(ins.Operands) < 2 || ins.Operands[1].Kind != OperandKindReg {
		return false
	}
	dst := ins.Operands[0]
	src := ins.Operands[1].Reg
	fact := g.GetFacts(src)
	if fact == nil {
		return false
	}

	if fact.Flags.Has(FlagDeconted) || fact.Flags.Has(FlagTypeObj) {
		ins.Op = OpSet
		if dstFact := g.GetFacts(dst.Reg); dstFact != nil {
			CopyFacts(dstFact, fact)
		}
		if fact.Flags.Has(FlagFromLogGuard) {
			g.markLogGuardUsed(fact.LogGuard)
		}
		return true
	}

	if !fact.Flags.Has(FlagKnownType) || fact.Type == nil || fact.Type.Container == nil {
		return false
	}
	cspec := fact.Type.Container
	if !cspec.FetchNeverInvokes {
		return false
	}
	cs, ok := caps.ContainerFor(cspec.Kind)
	if !ok {
		return false
	}
	cs.Spesh(g, bb, ins)

	if dstFact := g.GetFacts(dst.Reg); dstFact != nil {
		if fact.Flags.Has(FlagKnownDecontType) {
			dstFact.Flags |= FlagKnownType
			dstFact.Type = fact.DecontType
			if fact.Flags.Has(FlagDecontConcrete) {
				dstFact.Flags |= FlagConcrete
			}
			if fact.Flags.Has(FlagDecontTypeObj) {
				dstFact.Flags |= FlagTypeObj
			}
		}
	}
	return true
}

// optimizeAssertParamCheck deletes assertparamcheck once its condition
// register is known truthy (optimize.c: optimize_assertparamcheck).
func optimizeAssertParamCheck(g *Graph, bb *BasicBlock, ins *Instruction) bool {
	if ins.Op != OpAssertParamCheck {
		return false
	}
	if len(ins.Operands) < 1 || ins.Operands[0].Kind != OperandKindReg {
		return false
	}
	fact := g.GetFacts(ins.Operands[0].Reg)
	if fact == nil || !fact.Flags.Has(FlagKnownValue) {
		return false
	}
	if !fact.Value.AsBool() {
		return false
	}
	g.UseFacts(ins.Operands[0].Reg)
	bb.DeleteIns(ins)
	return true
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
