// Package jit provides the reference implementations of the optimizer's
// outbound collaborators (method cache, type-check cache, multi-dispatch
// cache, inliner) plus a tiered-compilation profiler that decides when a
// Function has been called often enough to warrant asking the optimizer
// for a specialized candidate. None of this package is a real JIT
// backend — spec.md §1 declares machine-code emission out of scope — it
// exists so internal/spesh is independently testable against something
// that plays every collaborator role for real.
package jit

import (
	"github.com/google/uuid"

	"github.com/sentra-lang/speshopt/internal/spesh"
)

// CompilationTier names how aggressively a Function has been specialized.
type CompilationTier int

const (
	TierInterpreted CompilationTier = iota
	TierQuickSpesh
	TierOptimized
)

// Profiler counts invocations per Function and decides tier transitions,
// grounded on the teacher's own invocation-counting profiler.
type Profiler struct {
	callCounts map[*Function]int
}

// NewProfiler creates a new tiered-compilation profiler.
func NewProfiler() *Profiler {
	return &Profiler{callCounts: make(map[*Function]int)}
}

// RecordCall records one invocation of fn and reports whether this call
// crossed a tier threshold, and which tier it crossed into.
func (p *Profiler) RecordCall(fn *Function) (bool, CompilationTier) {
	p.callCounts[fn]++
	count := p.callCounts[fn]
	switch count {
	case 100:
		return true, TierQuickSpesh
	case 1000:
		return true, TierOptimized
	default:
		return false, TierInterpreted
	}
}

// CallCount reports how many times fn has been recorded as called.
func (p *Profiler) CallCount(fn *Function) int {
	return p.callCounts[fn]
}

// Function is a subroutine eligible for specialization: its static frame
// (the optimizer's read-only metadata) and the growing table of
// specialized candidates built up as it tiers up.
type Function struct {
	Name        string
	StaticFrame *spesh.StaticFrame
	Candidates  []spesh.SpeshCandidate
}

// CompiledFunction is the result of compiling fn at a tier: the
// optimized graph plus the candidate index it was registered under.
type CompiledFunction struct {
	Graph     *spesh.Graph
	Candidate int
}

// Compiler runs the optimizer over a Function's unoptimized graph at the
// tier the Profiler recommends, then registers the result as a new
// SpeshCandidate on the Function so future invocations can match against
// it via try_find_spesh_candidate.
type Compiler struct {
	profiler *Profiler
	caps     spesh.Capabilities
	opts     spesh.Options
}

// NewCompiler creates a Compiler that optimizes with caps under opts,
// recording tier decisions in profiler.
func NewCompiler(profiler *Profiler, caps spesh.Capabilities, opts spesh.Options) *Compiler {
	return &Compiler{profiler: profiler, caps: caps, opts: opts}
}

// Compile specializes g for fn, registers the result as a new candidate
// with the given guards, and returns the CompiledFunction.
func (c *Compiler) Compile(fn *Function, g *spesh.Graph, guards []spesh.Guard) (*CompiledFunction, error) {
	if err := spesh.Optimize(g, c.caps, c.opts); err != nil {
		return nil, err
	}
	cand := spesh.SpeshCandidate{ID: uuid.New(), Guards: guards, Graph: g}
	idx := len(fn.Candidates)
	fn.Candidates = append(fn.Candidates, cand)
	return &CompiledFunction{Graph: g, Candidate: idx}, nil
}
