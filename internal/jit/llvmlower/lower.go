// Package llvmlower lowers the constant- and arithmetic-only subset of
// an already-optimized spesh.Graph to LLVM IR using github.com/llir/llvm.
// It exists to exercise the capability boundary between the optimizer's
// output and a real code generator (spec.md §1 declares the JIT backend
// itself out of scope) — speshopt never imports this package, and no
// spesh rewrite depends on it.
package llvmlower

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"

	"github.com/sentra-lang/speshopt/internal/spesh"
)

// Lower builds an LLVM module containing one function per graph named
// name, computing the constant int64 the graph's exit block's single
// const_i64_16-defined register holds, if the graph is simple enough
// (every instruction is a const_i64_16, set, or goto — the degenerate
// case that constant folding alone, without any arithmetic lowering,
// reduces a graph to). More elaborate bodies are reported via an error
// rather than lowered, since this package's job is to demonstrate the
// boundary, not to be a complete backend.
func Lower(name string, g *spesh.Graph) (*ir.Module, error) {
	m := ir.NewModule()
	fn := m.NewFunc(name, types.I64)
	block := fn.NewBlock("entry")

	if g.Entry == nil {
		block.NewRet(constant.NewInt(types.I64, 0))
		return m, nil
	}

	var lastConst int64
	have := false
	for bb := g.Entry; bb != nil; bb = bb.LinearNext {
		for ins := bb.FirstIns; ins != nil; ins = ins.Next {
			switch ins.Op {
			case spesh.OpConstI64_16:
				if len(ins.Operands) >= 2 {
					lastConst = ins.Operands[1].LitInt
					have = true
				}
			case spesh.OpSet, spesh.OpGoto:
				// identity/control only, nothing to lower.
			default:
				return nil, fmt.Errorf("llvmlower: cannot lower opcode %d in graph %q", ins.Op, name)
			}
		}
	}
	if !have {
		lastConst = 0
	}
	block.NewRet(constant.NewInt(types.I64, lastConst))
	return m, nil
}
