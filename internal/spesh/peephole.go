package spesh

// pass bundles the per-run options the peephole driver consults at every
// instruction, so optimizeBB's recursion doesn't grow a new positional
// parameter each time spec.md §4.2 gains an options-sensitive rewrite.
type pass struct {
	caps Capabilities
	opts Options
}

// optimizeBBOpts is the peephole specialization pass (spec.md §2 phase
// 1, optimize.c: optimize_bb): a recursive descent of the dominator tree
// rooted at bb, rewriting each instruction in place via the per-opcode
// catalogue (spec.md §4.2) before recursing into bb's dominator-tree
// children. Order matters: a parent's rewrites can sharpen the facts a
// child block's instructions read.
func optimizeBBOpts(g *Graph, p pass, bb *BasicBlock) error {
	for ins := bb.FirstIns; ins != nil; {
		next := ins.Next
		if err := optimizeInstruction(g, p, bb, ins); err != nil {
			return err
		}
		ins = next
	}
	for _, child := range bb.Children {
		if err := optimizeBBOpts(g, p, child); err != nil {
			return err
		}
	}
	return nil
}

// optimizeInstruction dispatches one instruction to its rewriter, per
// the catalogue in spec.md §4.2. Every rewriter bails (returns false, no
// mutation visible) independently; optimizeInstruction itself never
// errors except for the one hard case spec.md §7 names.
func optimizeInstruction(g *Graph, p pass, bb *BasicBlock, ins *Instruction) error {
	caps := p.caps
	switch ins.Op {
	case OpSet:
		if len(ins.Operands) >= 2 && ins.Operands[1].Kind == OperandKindReg {
			if src := g.GetFacts(ins.Operands[1].Reg); src != nil {
				if dst := g.GetFacts(ins.Operands[0].Reg); dst != nil {
					CopyFacts(dst, src)
				}
			}
		}
	case OpIfI, OpUnlessI, OpIfN, OpUnlessN, OpIfO, OpUnlessO:
		optimizeIffy(g, bb, ins)
	case OpIsTrue, OpIsFalse:
		optimizeIsTrueIsFalse(g, caps, bb, ins)
	case OpCoerceIn:
		optimizeCoerce(g, ins)
	case OpSmrtStrify, OpSmrtNumify:
		optimizeSmartCoerce(g, caps, bb, ins)
	case OpFindMeth:
		optimizeMethodLookup(g, caps, ins)
	case OpCan, OpCanS:
		if p.opts.EnableCanOp {
			optimizeCanOp(g, caps, ins)
		}
	case OpIsList, OpIsHash, OpIsInt, OpIsNum, OpIsStr:
		optimizeIsReprID(g, ins)
	case OpIsConcrete:
		optimizeIsConcrete(g, ins)
	case OpIsType:
		optimizeIsType(g, caps, ins)
	case OpObjPrimSpec:
		optimizeObjPrimSpec(g, caps, ins)
	case OpHllize:
		optimizeHllize(g, ins, p.opts.TargetHLL)
	case OpDecont:
		optimizeDecont(g, caps, bb, ins)
	case OpAssertParamCheck:
		optimizeAssertParamCheck(g, bb, ins)
	case OpGetLexStaticO, OpGetLexPerInvTypeO:
		optimizeGetLexKnown(g, caps, bb, ins)
	case OpThrowCatDyn, OpThrowCatLex, OpThrowCatLexotic:
		resolveThrowCat(g, bb, ins)
	case OpInvokeV, OpInvokeI, OpInvokeN, OpInvokeS, OpInvokeO:
		if err := optimizeCall(g, caps, bb, ins); err != nil {
			return err
		}
	case OpCreate, OpGetAttrI, OpGetAttrN, OpGetAttrS, OpGetAttrO,
		OpBindAttrI, OpBindAttrN, OpBindAttrS, OpBindAttrO,
		OpBoxI, OpBoxN, OpBoxS, OpUnboxI, OpUnboxN, OpUnboxS, OpElems:
		optimizeReprOp(g, caps, bb, ins)
	case OpSpLog, OpSpOsrFinalize:
		optimizeResidualMarker(g, caps, bb, ins)
	case OpExt:
		optimizeExtOp(g, caps, bb, ins)
	}
	return nil
}

// optimizeReprOp delegates a representation-specific op to the
// ReprSpecializer registered for the operand's known representation
// (optimize.c: optimize_repr_op delegates to REPR(type)->spesh). Bails
// silently when the representation is unknown or has no specializer.
func optimizeReprOp(g *Graph, caps Capabilities, bb *BasicBlock, ins *Instruction) bool {
	if len(ins.Operands) < 2 || ins.Operands[1].Kind != OperandKindReg {
		return false
	}
	fact := g.GetFacts(ins.Operands[1].Reg)
	if fact == nil || !fact.Flags.Has(FlagKnownType) || fact.Type == nil {
		return false
	}
	rs, ok := caps.ReprFor(fact.Type.Repr)
	if !ok {
		return false
	}
	rs.Spesh(g, bb, ins)
	return true
}

// optimizeExtOp is the extension-opcode dispatch point (spec.md §4.2's
// final row: "opcode = sentinel -1, extension table lookup"). Real
// extension ops are registered by embedders outside this package; none
// ship with the optimizer itself, so this always bails.
func optimizeExtOp(g *Graph, caps Capabilities, bb *BasicBlock, ins *Instruction) bool {
	return false
}
