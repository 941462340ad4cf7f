// Package spesh implements the speculative-specialization graph
// optimizer: given a control-flow graph of register-machine instructions
// annotated with profile-derived facts, it rewrites generic dispatching
// operations to cheaper specialized forms, removes redundant work, and
// drives guarded inlining of call sites.
package spesh

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Options configures one Optimize run.
type Options struct {
	// TargetHLL is the high-level-language scope hllize checks against
	// (spec.md §4.2's hllize rewrite: "already belongs to the
	// destination high-level-language scope").
	TargetHLL string

	// EnableCanOp gates the can/can_s rewrite (SPEC_FULL.md §4's
	// resolution of spec.md §9's Open Question). Defaults to true: the
	// rewrite is pure and local in this graph model, with no in-place
	// handler-fixup step to trip over.
	EnableCanOp bool

	// MaxConcurrency bounds how many graphs OptimizeAll runs at once.
	// Zero means unbounded (errgroup.SetLimit(-1)).
	MaxConcurrency int
}

// DefaultOptions returns the options spec.md's defaults correspond to.
func DefaultOptions() Options {
	return Options{EnableCanOp: true}
}

// Optimize runs the four ordered phases spec.md §2 describes over g:
// peephole specialization, dead-instruction elimination, dead-block
// elimination, and log-guard cleanup. It returns the one hard error
// spec.md §7 names if the call rewriter reaches an invoke opcode with no
// fastinvoke counterpart; every other uncertainty is a silent bail
// (spec.md §7).
func Optimize(g *Graph, caps Capabilities, opts Options) error {
	if g.Entry == nil {
		return nil
	}

	if err := optimizeBBOpts(g, pass{caps: caps, opts: opts}, g.Entry); err != nil {
		return err
	}
	eliminateDeadIns(g, caps)
	eliminateDeadBBs(g)
	eliminateUnusedLogGuards(g, caps)
	return nil
}

// OptimizeAll runs Optimize over each of graphs concurrently, one
// goroutine per graph, bounded by opts.MaxConcurrency (spec.md §5:
// "many graphs may be optimized in parallel across threads"; each
// graph's fact table, spesh-slot table, and static frame stay private to
// its own goroutine — nothing here is shared). It returns the first
// error encountered. That error cancels the group's context: a graph
// whose goroutine has not started optimizing yet returns the context's
// error instead, while an Optimize call already under way runs to
// completion (Optimize takes no context).
func OptimizeAll(ctx context.Context, graphs []*Graph, caps Capabilities, opts Options) error {
	g, ctx := errgroup.WithContext(ctx)
	if opts.MaxConcurrency > 0 {
		g.SetLimit(opts.MaxConcurrency)
	}
	for _, graph := range graphs {
		graph := graph
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return Optimize(graph, caps, opts)
		})
	}
	return g.Wait()
}
