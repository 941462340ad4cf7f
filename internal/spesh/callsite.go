package spesh

// MaxArgsForOpt bounds how many arguments optimize_call will track facts
// for — spec.md §4.3 says "typically 8."
const MaxArgsForOpt = 8

// CallInfo captures one call site's prepargs/arg/invoke instruction
// sequence and what is known about each argument, the structure
// optimize_call and try_find_spesh_candidate both consume (spec.md §3,
// §4.3).
type CallInfo struct {
	Callsite CallsiteID

	PrepArgsIns *Instruction
	PrepArgsBB  *BasicBlock

	NumArgs int
	ArgFacts [MaxArgsForOpt]*Fact
	ArgIns   [MaxArgsForOpt]*Instruction
	ArgIsConst [MaxArgsForOpt]bool

	InvokeIns *Instruction
	InvokeBB  *BasicBlock
}

// buildCallInfo walks backward from an invoke instruction to its
// prepargs, collecting the arg_* instructions in between (optimize_call's
// first step in optimize.c: locating the callsite's argument sequence).
// It returns nil if the sequence does not look like a well-formed call
// (too many arguments for MaxArgsForOpt, or no prepargs found) — callers
// must bail in that case, matching spec.md §7's "leave the instruction
// untouched" default.
func buildCallInfo(g *Graph, bb *BasicBlock, invoke *Instruction) *CallInfo {
	var prep *Instruction
	var prepBB *BasicBlock
	args := make([]*Instruction, 0, MaxArgsForOpt)

	for cur, curBB := invoke.Prev, bb; ; {
		if cur == nil {
			if curBB.LinearNext == nil {
				return nil
			}
			// Only same-block scanning is modeled; prepargs always
			// shares a block with its arg_* run and invoke in this
			// graph shape.
			return nil
		}
		if cur.Op == OpPrepArgs {
			prep = cur
			prepBB = curBB
			break
		}
		switch cur.Op {
		case OpArgI, OpArgN, OpArgS, OpArgO, OpArgConstI, OpArgConstN, OpArgConstS:
			args = append(args, cur)
		default:
			return nil
		}
		cur = cur.Prev
	}

	if len(args) > MaxArgsForOpt {
		return nil
	}

	ci := &CallInfo{
		PrepArgsIns: prep,
		PrepArgsBB:  prepBB,
		InvokeIns:   invoke,
		InvokeBB:    bb,
		NumArgs:     len(args),
	}
	if len(prep.Operands) > 0 {
		ci.Callsite = prep.Operands[0].CallsiteIdx
	}
	// args were collected walking backward from invoke; reverse to put
	// them in call order.
	for i := len(args) - 1; i >= 0; i-- {
		idx := len(args) - 1 - i
		a := args[i]
		ci.ArgIns[idx] = a
		switch a.Op {
		case OpArgConstI, OpArgConstN, OpArgConstS:
			ci.ArgIsConst[idx] = true
		default:
			if len(a.Operands) > 1 && a.Operands[1].Kind == OperandKindReg {
				ci.ArgFacts[idx] = g.GetFacts(a.Operands[1].Reg)
			}
		}
	}
	return ci
}

// tryFindSpeshCandidate matches callee's guarded candidates against ci's
// known argument facts, returning the first candidate all of whose
// guards are satisfied by what is statically known (optimize.c:
// try_find_spesh_candidate). This never invokes user code: an
// unsatisfiable or unknown guard simply skips that candidate.
func tryFindSpeshCandidate(ci *CallInfo, candidates []SpeshCandidate) (*SpeshCandidate, int) {
candidateLoop:
	for idx := range candidates {
		cand := &candidates[idx]
		for _, guard := range cand.Guards {
			if guard.ArgIdx >= ci.NumArgs {
				continue candidateLoop
			}
			fact := ci.ArgFacts[guard.ArgIdx]
			if fact == nil {
				continue candidateLoop
			}
			switch guard.Kind {
			case GuardConcrete:
				if !fact.Flags.Has(FlagKnownType | FlagConcrete) {
					continue candidateLoop
				}
			case GuardType:
				if !fact.Flags.Has(FlagKnownType) || fact.Type != guard.Type {
					continue candidateLoop
				}
			case GuardDecontConcrete:
				if !fact.Flags.Has(FlagKnownDecontType | FlagDecontConcrete) {
					continue candidateLoop
				}
			case GuardDecontType:
				if !fact.Flags.Has(FlagKnownDecontType) || fact.DecontType != guard.Type {
					continue candidateLoop
				}
			}
		}
		return cand, idx
	}
	return nil, -1
}

// optimizeCall performs the five-step call-site specialization spec.md
// §4.3 describes:
//  1. resolve the callee (direct code object, or unwrap an invocation
//     spec for single/multi dispatch),
//  2. if resolution unwrapped the callee to a different code object,
//     insert an sp_getspeshslot loading it into the callee register
//     before prepargs,
//  3. match the resolved callee's candidate table against known
//     argument facts via tryFindSpeshCandidate,
//  4. on a match, ask the Inliner whether to inline; otherwise
//  5. rewrite the generic invoke_* to the matching sp_fastinvoke_* form.
//
// Any step that cannot prove its precondition bails by returning nil,
// leaving the instruction untouched (spec.md §7). The only error this
// returns is the hard "unhandled invoke instruction" case: a candidate
// was matched and fastinvoke rewriting was reached, but the invoke
// opcode has no sp_fastinvoke_* counterpart registered — a dispatch
// table that was not updated to cover a new invoke variant.
func optimizeCall(g *Graph, caps Capabilities, bb *BasicBlock, invoke *Instruction) error {
	if len(invoke.Operands) == 0 {
		return nil
	}
	calleeOperand := invoke.Operands[len(invoke.Operands)-1]
	if calleeOperand.Kind != OperandKindReg {
		return nil
	}
	calleeFact := g.GetFacts(calleeOperand.Reg)
	if calleeFact == nil || !calleeFact.Flags.Has(FlagKnownValue) {
		return nil
	}
	ci := buildCallInfo(g, bb, invoke)
	if ci == nil {
		return nil
	}

	callee := resolveCallee(g, caps, ci, calleeFact.Value.Obj)
	if callee == nil {
		return nil
	}

	code, ok := callee.(*CodeObject)
	if !ok || code.IsCompilerStub {
		return nil
	}
	if Object(code) != calleeFact.Value.Obj {
		// Load the unwrapped target into the callee register ahead of
		// prepargs, so prepargs/arg*/invoke stay one contiguous unit.
		slot := g.AddSpeshSlot(code)
		g.InsertInstruction(ci.PrepArgsBB, ci.PrepArgsIns, &Instruction{
			Op:       OpSpGetSpeshSlot,
			Operands: []Operand{calleeOperand, SpeshSlotOperand(slot)},
		})
	}

	cand, candIdx := tryFindSpeshCandidate(ci, code.Candidates)
	if cand == nil {
		return nil
	}

	if caps.Inline != nil {
		if inlineGraph, ok := caps.Inline.TryGetGraph(g, code, candIdx); ok {
			caps.Inline.Inline(g, ci, bb, invoke, inlineGraph, code)
			return nil
		}
	}

	if !rewriteToFastInvoke(g, caps, bb, invoke, candIdx) {
		return errUnhandledInvoke(g, bb, invoke)
	}
	return nil
}

// resolveCallee unwraps a non-code invocable object via its
// InvocationSpec (multi-dispatch proto routine, single-dispatch thunk)
// until it reaches a ReprCode object, or gives up and returns nil
// (optimize.c's callee-resolution block inside optimize_call). A
// multi-dispatch proto consults caps.Multi's cache for ci's argument
// shape; the cache's answer may itself need one more level of
// single-dispatch-style unwrapping before it names a code object.
func resolveCallee(g *Graph, caps Capabilities, ci *CallInfo, obj Object) Object {
	seen := 0
	for obj != nil && seen < 8 {
		seen++
		info := obj.TypeInfo()
		if info == nil {
			return nil
		}
		if info.Repr == ReprCode {
			return obj
		}
		spec := info.Invocation
		if spec == nil {
			return nil
		}
		if spec.MultiDispatch {
			if caps.Multi == nil || ci == nil {
				return nil
			}
			cache, ok := obj.GetAttr(spec.MDClassHandle, spec.MDCacheAttrName)
			if !ok || cache == nil {
				return nil
			}
			found, ok := caps.Multi.Find(cache, ci)
			if !ok || found == nil {
				return nil
			}
			foundInfo := found.TypeInfo()
			if foundInfo == nil {
				return nil
			}
			if foundInfo.Repr == ReprCode {
				return found
			}
			if foundInfo.Invocation != nil && spec.ClassHandle != "" {
				next, ok := found.GetAttr(spec.ClassHandle, spec.AttrName)
				if ok && next != nil {
					if nextInfo := next.TypeInfo(); nextInfo != nil && nextInfo.Repr == ReprCode {
						return next
					}
				}
			}
			return nil
		}
		next, ok := obj.GetAttr(spec.ClassHandle, spec.AttrName)
		if !ok {
			return nil
		}
		obj = next
	}
	return nil
}

// rewriteToFastInvoke replaces a generic invoke_* instruction with its
// sp_fastinvoke_* counterpart carrying the chosen candidate's index,
// preserving the result-register write shape (optimize.c's final
// fallback of optimize_call when inlining does not apply).
func rewriteToFastInvoke(g *Graph, caps Capabilities, bb *BasicBlock, invoke *Instruction, candIdx int) bool {
	var newOp OpCode
	switch invoke.Op {
	case OpInvokeV:
		newOp = OpSpFastInvokeV
	case OpInvokeI:
		newOp = OpSpFastInvokeI
	case OpInvokeN:
		newOp = OpSpFastInvokeN
	case OpInvokeS:
		newOp = OpSpFastInvokeS
	case OpInvokeO:
		newOp = OpSpFastInvokeO
	default:
		return false
	}
	invoke.Op = newOp
	invoke.Operands = append(invoke.Operands, LitIntOperand(int64(candIdx)))
	return true
}
