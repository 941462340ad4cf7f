package spesh

// optimizeMethodLookup rewrites findmeth to a direct spesh-slot fetch
// when the invocant's type is statically known and the method cache
// already holds the resolution; otherwise it falls back to sp_findmeth,
// which still carries a cache slot to consult at runtime but skips the
// cache's own type-dispatch step (optimize.c: optimize_method_lookup).
func optimizeMethodLookup(g *Graph, caps Capabilities, ins *Instruction) bool {
	if ins.Op != OpFindMeth {
		return false
	}
	if len(ins.Operands) < 3 || ins.Operands[1].Kind != OperandKindReg {
		return false
	}
	dst := ins.Operands[0]
	invocant := ins.Operands[1].Reg
	nameIdx := ins.Operands[2].StrIdx

	fact := g.GetFacts(invocant)
	if fact == nil || !fact.Flags.Has(FlagKnownType) || fact.Type == nil {
		return false
	}
	name := g.GetString(nameIdx)
	if caps.Methods == nil {
		return false
	}

	if method, ok := caps.Methods.Lookup(fact.Type, name); ok {
		g.UseFacts(invocant)
		slot := g.AddSpeshSlot(method)
		ins.Op = OpSpGetSpeshSlot
		ins.Operands = []Operand{dst, SpeshSlotOperand(slot)}
		if dst.Kind == OperandKindReg {
			if df := g.GetFacts(dst.Reg); df != nil {
				df.Flags |= FlagKnownValue
				df.Value = ObjValue(method)
			}
		}
		return true
	}

	slot := g.AddSpeshSlot(nil) // cache slot reserved for runtime fill-in
	nullSlot := g.AddSpeshSlot(nil)
	_ = nullSlot
	ins.Op = OpSpFindMeth
	ins.Operands = append(ins.Operands, SpeshSlotOperand(slot))
	return true
}

// optimizeCanOp implements the can/can_s rewrite (optimize.c:
// optimize_can_op, disabled upstream behind a handler-fixup bug — this
// Go model resolves that Open Question in full, see SPEC_FULL.md §4).
// When the method cache can answer definitively that a type does or does
// not respond to a name, the can check folds to a known boolean.
func optimizeCanOp(g *Graph, caps Capabilities, ins *Instruction) bool {
	if ins.Op != OpCan && ins.Op != OpCanS {
		return false
	}
	if len(ins.Operands) < 3 || ins.Operands[1].Kind != OperandKindReg {
		return false
	}
	dst := ins.Operands[0]
	invocant := ins.Operands[1].Reg
	fact := g.GetFacts(invocant)
	if fact == nil || !fact.Flags.Has(FlagKnownType) || fact.Type == nil {
		return false
	}

	var name string
	switch ins.Op {
	case OpCan:
		name = g.GetString(ins.Operands[2].StrIdx)
	case OpCanS:
		if ins.Operands[2].Kind != OperandKindReg {
			return false
		}
		nameFact := g.GetFacts(ins.Operands[2].Reg)
		if nameFact == nil || !nameFact.Flags.Has(FlagKnownValue) || nameFact.Value.Kind != ValueStr {
			return false
		}
		name = nameFact.Value.Str
	}
	if caps.Methods == nil {
		return false
	}
	result := caps.Methods.CanOnly(fact.Type, name)
	if result < 0 {
		return false
	}

	g.UseFacts(invocant)
	if ins.Op == OpCanS {
		g.UseFacts(ins.Operands[2].Reg)
	}
	ins.Op = OpConstI64_16
	ins.Operands = []Operand{dst, LitIntOperand(int64(result))}
	if dst.Kind == OperandKindReg {
		if df := g.GetFacts(dst.Reg); df != nil {
			df.Flags |= FlagKnownValue
			df.Value = IntValue(int64(result))
		}
	}
	return true
}

// optimizeGetLexKnown rewrites getlexstatic_o/getlexperinvtype_o followed
// by an sp_log into a direct spesh-slot fetch of the logged value when
// one was observed at all, matching optimize.c's optimize_getlex_known:
// the logged observation becomes a speculative constant, guarded by the
// log-guard bookkeeping the caller maintains, and the consumed sp_log is
// deleted (spec.md §4.2). A concrete logged value additionally marks
// FlagDeconted when its type has no container spec (a decontainerized
// read needs no further decont step); a type object just marks
// FlagTypeObj.
func optimizeGetLexKnown(g *Graph, caps Capabilities, bb *BasicBlock, ins *Instruction) bool {
	if ins.Op != OpGetLexStaticO && ins.Op != OpGetLexPerInvTypeO {
		return false
	}
	next := ins.Next
	if next == nil || next.Op != OpSpLog || len(next.Operands) < 2 {
		return false
	}
	logIdx := next.Operands[1].LitInt
	if logIdx < 0 || int(logIdx) >= len(g.LoggedValues) {
		return false
	}
	logged := g.LoggedValues[logIdx]
	if logged == nil {
		return false
	}

	dst := ins.Operands[0]
	slot := g.AddSpeshSlot(logged)
	guardIdx := int32(len(g.LogGuards))
	g.LogGuards = append(g.LogGuards, LogGuard{Ins: ins})

	ins.Op = OpSpGetSpeshSlot
	ins.Operands = []Operand{dst, SpeshSlotOperand(slot)}
	if dst.Kind == OperandKindReg {
		if df := g.GetFacts(dst.Reg); df != nil {
			info := logged.TypeInfo()
			df.Flags |= FlagKnownType | FlagKnownValue | FlagFromLogGuard
			df.Type = info
			if logged.Concrete() {
				df.Flags |= FlagConcrete
				if info == nil || info.Container == nil {
					df.Flags |= FlagDeconted
				}
			} else {
				df.Flags |= FlagTypeObj
			}
			df.Value = ObjValue(logged)
			df.LogGuard = guardIdx
		}
	}

	g.DeleteInstruction(caps, next.BB, next)
	return true
}
