package spesh

import (
	"fmt"

	"github.com/pkg/errors"

	sentraerrors "github.com/sentra-lang/speshopt/internal/errors"
)

// UnhandledInvokeError is the one hard error spec.md §7 names: an
// invoke_* instruction optimize_call could not resolve to either an
// inline or a fastinvoke form, and no fallback exists at the bytecode
// level (every invoke must end up resolved to something invokable, or
// the containing frame cannot run at all). Every other rewriter bails
// silently by design; this one alone signals a broken dispatch table,
// not a missed optimization.
type UnhandledInvokeError struct {
	*sentraerrors.SentraError
	GraphID  string
	BlockIdx int32
	Op       OpCode
}

// errUnhandledInvoke builds and stack-traces an UnhandledInvokeError via
// github.com/pkg/errors, so a caller that logs the returned error sees
// where in this package the failure originated; the wrapped
// SentraError carries the message in the teacher's own error-reporting
// shape.
func errUnhandledInvoke(g *Graph, bb *BasicBlock, ins *Instruction) error {
	msg := fmt.Sprintf("unhandled invoke instruction (graph %s, block %d, op %d)", g.ID, bb.Idx, int32(ins.Op))
	base := &UnhandledInvokeError{
		SentraError: sentraerrors.NewInternalError(msg),
		GraphID:     g.ID.String(),
		BlockIdx:    bb.Idx,
		Op:          ins.Op,
	}
	return errors.WithStack(base)
}
