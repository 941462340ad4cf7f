package jit

import (
	"testing"

	"github.com/google/uuid"

	"github.com/sentra-lang/speshopt/internal/spesh"
)

func TestProfilerTierTransitions(t *testing.T) {
	p := NewProfiler()
	fn := &Function{Name: "foo"}

	tests := []struct {
		upTo      int
		wantTier  bool
		wantValue CompilationTier
	}{
		{upTo: 99, wantTier: false},
		{upTo: 100, wantTier: true, wantValue: TierQuickSpesh},
		{upTo: 999, wantTier: false},
		{upTo: 1000, wantTier: true, wantValue: TierOptimized},
	}

	count := 0
	for _, tt := range tests {
		var crossed bool
		var tier CompilationTier
		for count < tt.upTo {
			crossed, tier = p.RecordCall(fn)
			count++
		}
		if crossed != tt.wantTier {
			t.Fatalf("at call %d: crossed=%v want %v", tt.upTo, crossed, tt.wantTier)
		}
		if tt.wantTier && tier != tt.wantValue {
			t.Fatalf("at call %d: tier=%v want %v", tt.upTo, tier, tt.wantValue)
		}
	}
	if p.CallCount(fn) != 1000 {
		t.Fatalf("expected 1000 recorded calls, got %d", p.CallCount(fn))
	}
}

func TestProfilerTracksFunctionsIndependently(t *testing.T) {
	p := NewProfiler()
	a := &Function{Name: "a"}
	b := &Function{Name: "b"}
	p.RecordCall(a)
	p.RecordCall(a)
	p.RecordCall(b)
	if p.CallCount(a) != 2 || p.CallCount(b) != 1 {
		t.Fatalf("expected independent counts, got a=%d b=%d", p.CallCount(a), p.CallCount(b))
	}
}

func TestCompilerCompileRegistersCandidate(t *testing.T) {
	fn := &Function{Name: "f", StaticFrame: &spesh.StaticFrame{Name: "f"}}
	g := spesh.NewGraph(uuid.New(), fn.StaticFrame, 1)
	g.AddBlock()

	c := NewCompiler(NewProfiler(), spesh.Capabilities{}, spesh.DefaultOptions())
	guards := []spesh.Guard{{ArgIdx: 0, Kind: spesh.GuardConcrete}}

	compiled, err := c.Compile(fn, g, guards)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fn.Candidates) != 1 {
		t.Fatalf("expected 1 registered candidate, got %d", len(fn.Candidates))
	}
	if compiled.Candidate != 0 || compiled.Graph != g {
		t.Fatalf("unexpected CompiledFunction: %+v", compiled)
	}
	if len(fn.Candidates[0].Guards) != 1 {
		t.Fatalf("expected candidate to carry the guards passed in")
	}
}

func TestMethodTableCanOnlyDistinguishesUnknownFromAbsent(t *testing.T) {
	mt := NewMethodTable()
	typeA := &spesh.TypeInfo{Name: "A"}
	typeB := &spesh.TypeInfo{Name: "B"}
	mt.Register(typeA, "foo", &spesh.CodeObject{Name: "foo", Info: &spesh.TypeInfo{Repr: spesh.ReprCode}})

	if got := mt.CanOnly(typeA, "foo"); got != 1 {
		t.Fatalf("expected CanOnly=1 for registered method, got %d", got)
	}
	if got := mt.CanOnly(typeA, "bar"); got != 0 {
		t.Fatalf("expected CanOnly=0 for known type without method, got %d", got)
	}
	if got := mt.CanOnly(typeB, "foo"); got != -1 {
		t.Fatalf("expected CanOnly=-1 for a type the cache has never seen, got %d", got)
	}
}

func TestTypeCheckTableRoundTrip(t *testing.T) {
	tc := NewTypeCheckTable()
	a := &spesh.TypeInfo{Name: "A"}
	b := &spesh.TypeInfo{Name: "B"}

	if _, ok := tc.TryCheck(a, b); ok {
		t.Fatalf("expected no opinion before Register")
	}
	tc.Register(a, b, true)
	result, ok := tc.TryCheck(a, b)
	if !ok || !result {
		t.Fatalf("expected registered result true, got %v ok=%v", result, ok)
	}
}

func TestMultiDispatchTableKeysOnArgTypes(t *testing.T) {
	mdt := NewMultiDispatchTable()
	proto := &spesh.CodeObject{Name: "proto", Info: &spesh.TypeInfo{Repr: spesh.ReprCode}}
	typeInt := &spesh.TypeInfo{Name: "Int"}
	target := &spesh.CodeObject{Name: "target", Info: &spesh.TypeInfo{Repr: spesh.ReprCode}}

	ci := &spesh.CallInfo{NumArgs: 1}
	ci.ArgFacts[0] = &spesh.Fact{Flags: spesh.FlagKnownType, Type: typeInt}

	mdt.Register(proto, ci, target)
	found, ok := mdt.Find(proto, ci)
	if !ok || found != target {
		t.Fatalf("expected Find to resolve the registered target")
	}

	otherCi := &spesh.CallInfo{NumArgs: 1}
	otherCi.ArgFacts[0] = &spesh.Fact{Flags: spesh.FlagKnownType, Type: &spesh.TypeInfo{Name: "Str"}}
	if _, ok := mdt.Find(proto, otherCi); ok {
		t.Fatalf("expected a different argument shape to miss the cache")
	}
}

func TestSimpleInlinerRespectsSizeLimit(t *testing.T) {
	small := spesh.NewGraph(uuid.New(), &spesh.StaticFrame{Name: "small"}, 1)
	bb := small.AddBlock()
	bb.InsertBefore(nil, &spesh.Instruction{Op: spesh.OpConstI64_16, Operands: []spesh.Operand{spesh.RegOperand(0, 0), spesh.LitIntOperand(1)}})

	big := spesh.NewGraph(uuid.New(), &spesh.StaticFrame{Name: "big"}, 1)
	bigBB := big.AddBlock()
	for i := 0; i < 5; i++ {
		bigBB.InsertBefore(nil, &spesh.Instruction{Op: spesh.OpConstI64_16, Operands: []spesh.Operand{spesh.RegOperand(0, 0), spesh.LitIntOperand(int64(i))}})
	}

	inliner := NewSimpleInliner(3)
	code := &spesh.CodeObject{
		Info: &spesh.TypeInfo{Repr: spesh.ReprCode},
		Candidates: []spesh.SpeshCandidate{
			{Graph: small},
			{Graph: big},
		},
	}

	if _, ok := inliner.TryGetGraph(small, code, 0); !ok {
		t.Fatalf("expected small candidate to be inlinable")
	}
	if _, ok := inliner.TryGetGraph(big, code, 1); ok {
		t.Fatalf("expected oversized candidate to be rejected")
	}
}

func TestSimpleInlinerInlineMarksDonorBlocksAndSplices(t *testing.T) {
	caller := spesh.NewGraph(uuid.New(), &spesh.StaticFrame{Name: "caller"}, 2)
	callerBB := caller.AddBlock()
	invoke := &spesh.Instruction{Op: spesh.OpInvokeV, Operands: []spesh.Operand{spesh.RegOperand(0, 0)}}
	caller.EnsureVersion(0, 0)
	callerBB.InsertBefore(nil, invoke)

	callee := spesh.NewGraph(uuid.New(), &spesh.StaticFrame{Name: "callee"}, 1)
	calleeEntry := callee.AddBlock()

	inliner := NewSimpleInliner(32)
	inliner.Inline(caller, &spesh.CallInfo{}, callerBB, invoke, callee, &spesh.CodeObject{Info: &spesh.TypeInfo{Repr: spesh.ReprCode}})

	if !calleeEntry.Inlined {
		t.Fatalf("expected donor block marked Inlined")
	}
	if callerBB.FirstIns != nil {
		t.Fatalf("expected invoke instruction removed from caller block")
	}
	found := false
	for _, s := range callerBB.Succ {
		if s == calleeEntry {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected callee entry spliced in as caller block successor")
	}
}
