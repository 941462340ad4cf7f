// Package interp is a minimal reference interpreter for spesh graphs,
// used only in tests to check Testable Property 1 (semantic
// preservation, spec.md §8): a graph is executed before and after
// Optimize with identical starting register state, and the exit-block
// register values and accumulated side effects are compared. It covers
// the subset of opcodes the rewriter catalogue (spec.md §4.2) actually
// produces or consumes — set, constants, branches, boxing, a handful of
// representation probes, and method-resolution slot fetches — not a
// general-purpose bytecode VM.
package interp

import (
	"fmt"

	"github.com/sentra-lang/speshopt/internal/spesh"
)

// Machine executes one graph. Regs holds the current value of every
// (orig, version) the graph has assigned so far; Effects accumulates a
// log standing in for observable side effects (the real VM's I/O,
// mutation of shared objects) so tests can compare effect traces instead
// of needing real I/O.
type Machine struct {
	Caps    spesh.Capabilities
	Regs    map[spesh.RegRef]spesh.Value
	Effects []string
}

// NewMachine creates a Machine with an empty register file.
func NewMachine(caps spesh.Capabilities) *Machine {
	return &Machine{Caps: caps, Regs: make(map[spesh.RegRef]spesh.Value)}
}

// Run executes g starting at its entry block and returns the register
// file and effect log once runBlock reports no next block to run.
func (m *Machine) Run(g *spesh.Graph) (map[spesh.RegRef]spesh.Value, []string, error) {
	bb := g.Entry
	steps := 0
	const maxSteps = 1 << 20
	for bb != nil {
		steps++
		if steps > maxSteps {
			return nil, nil, fmt.Errorf("interp: exceeded step budget, possible infinite loop")
		}
		next, err := m.runBlock(g, bb)
		if err != nil {
			return nil, nil, err
		}
		bb = next
	}
	return m.Regs, m.Effects, nil
}

// runBlock executes bb's instructions and returns the next block to
// run: a taken branch's or goto's target; otherwise bb's sole successor
// when it has exactly one, or bb's LinearNext (the fall-through block)
// when it has none or several. A nil result ends execution.
func (m *Machine) runBlock(g *spesh.Graph, bb *spesh.BasicBlock) (*spesh.BasicBlock, error) {
	for ins := bb.FirstIns; ins != nil; ins = ins.Next {
		switch ins.Op {
		case spesh.OpSet:
			m.Regs[ins.Operands[0].Reg] = m.Regs[ins.Operands[1].Reg]

		case spesh.OpConstI64_16:
			m.Regs[ins.Operands[0].Reg] = spesh.IntValue(ins.Operands[1].LitInt)

		case spesh.OpConstN64:
			m.Regs[ins.Operands[0].Reg] = spesh.NumValue(ins.Operands[1].LitNum)

		case spesh.OpNotI:
			v := m.Regs[ins.Operands[1].Reg]
			m.Regs[ins.Operands[0].Reg] = spesh.IntValue(boolToInt(!v.AsBool()))

		case spesh.OpUnboxI, spesh.OpUnboxN, spesh.OpUnboxS, spesh.OpIsNonNull, spesh.OpElems:
			m.Regs[ins.Operands[0].Reg] = m.Regs[ins.Operands[1].Reg]

		case spesh.OpBoxI, spesh.OpBoxN, spesh.OpBoxS:
			m.Regs[ins.Operands[0].Reg] = m.Regs[ins.Operands[1].Reg]

		case spesh.OpGoto:
			return g.BlockByIdx(ins.Operands[0].BranchTarget), nil

		case spesh.OpIfI, spesh.OpIfN, spesh.OpIfO:
			if m.Regs[ins.Operands[0].Reg].AsBool() {
				return g.BlockByIdx(ins.Operands[1].BranchTarget), nil
			}

		case spesh.OpUnlessI, spesh.OpUnlessN, spesh.OpUnlessO:
			if !m.Regs[ins.Operands[0].Reg].AsBool() {
				return g.BlockByIdx(ins.Operands[1].BranchTarget), nil
			}

		case spesh.OpSpGetSpeshSlot:
			idx := ins.Operands[1].SpeshSlot
			if int(idx) < len(g.SpeshSlots) {
				m.Regs[ins.Operands[0].Reg] = spesh.ObjValue(g.SpeshSlots[idx])
			}

		case spesh.OpAssertParamCheck:
			// no-op once reached: a surviving assertparamcheck means the
			// optimizer could not prove it truthy, so interpretation must
			// not assume a result; absence of a violation is itself the
			// effect worth recording.
			m.Effects = append(m.Effects, "assertparamcheck")

		case spesh.OpPhi:
			// Facts-only construct in this model; a surviving phi after
			// optimization means something reads it, but this reference
			// interpreter only exercises graphs small enough that phis
			// are resolved away by dead-code elimination before Run is
			// ever asked to execute them in a test.
			return nil, fmt.Errorf("interp: cannot execute unresolved phi at block %d", bb.Idx)

		default:
			// Everything else (invoke forms, throwcat, representation
			// delegation) is outside this reference interpreter's
			// covered subset; tests that need it model effects via the
			// Effects log directly instead of relying on Run.
			m.Effects = append(m.Effects, fmt.Sprintf("skip:%d", int32(ins.Op)))
		}
	}

	if len(bb.Succ) == 1 {
		return bb.Succ[0], nil
	}
	if bb.LinearNext != nil {
		return bb.LinearNext, nil
	}
	return nil, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
