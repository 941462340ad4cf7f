package spesh

import "testing"

type fakeTypeCheck struct {
	result bool
	ok     bool
}

func (f *fakeTypeCheck) TryCheck(objType, checkType TypeHandle) (bool, bool) {
	return f.result, f.ok
}

func TestOptimizeIsTypeIdentityMatch(t *testing.T) {
	g := newTestGraph(&StaticFrame{Name: "f"}, 3)
	typ := &TypeInfo{Name: "T"}
	obj := RegRef{Orig: 1, Version: 0}
	setKnownType(g, obj, typ, true)
	checkReg := RegRef{Orig: 2, Version: 0}
	g.EnsureVersion(checkReg.Orig, checkReg.Version)
	checkFact := g.GetFacts(checkReg)
	checkFact.Flags |= FlagKnownValue
	checkFact.Value = ObjValue(&CodeObject{Name: "T", Info: typ})
	g.EnsureVersion(0, 0)

	ins := &Instruction{Op: OpIsType, Operands: []Operand{RegOperand(0, 0), RegOperand(1, 0), RegOperand(2, 0)}}

	if !optimizeIsType(g, Capabilities{}, ins) {
		t.Fatalf("expected optimizeIsType to fire on identical *TypeInfo")
	}
	if ins.Op != OpConstI64_16 || ins.Operands[1].LitInt != 1 {
		t.Fatalf("expected const_i64_16 1, got op %d val %d", ins.Op, ins.Operands[1].LitInt)
	}
}

func TestOptimizeIsTypeDelegatesToTypeCheckCache(t *testing.T) {
	g := newTestGraph(&StaticFrame{Name: "f"}, 3)
	objType := &TypeInfo{Name: "T"}
	checkType := &TypeInfo{Name: "U"}
	obj := RegRef{Orig: 1, Version: 0}
	setKnownType(g, obj, objType, true)
	checkReg := RegRef{Orig: 2, Version: 0}
	g.EnsureVersion(checkReg.Orig, checkReg.Version)
	checkFact := g.GetFacts(checkReg)
	checkFact.Flags |= FlagKnownValue
	checkFact.Value = ObjValue(&CodeObject{Name: "U", Info: checkType})
	g.EnsureVersion(0, 0)

	ins := &Instruction{Op: OpIsType, Operands: []Operand{RegOperand(0, 0), RegOperand(1, 0), RegOperand(2, 0)}}

	if !optimizeIsType(g, Capabilities{TypeCheck: &fakeTypeCheck{result: false, ok: true}}, ins) {
		t.Fatalf("expected optimizeIsType to fire via the type-check cache")
	}
	if ins.Operands[1].LitInt != 0 {
		t.Fatalf("expected const_i64_16 0, got %d", ins.Operands[1].LitInt)
	}
}

func TestOptimizeIsTypeBailsWhenCacheHasNoOpinion(t *testing.T) {
	g := newTestGraph(&StaticFrame{Name: "f"}, 3)
	objType := &TypeInfo{Name: "T"}
	checkType := &TypeInfo{Name: "U"}
	obj := RegRef{Orig: 1, Version: 0}
	setKnownType(g, obj, objType, true)
	checkReg := RegRef{Orig: 2, Version: 0}
	g.EnsureVersion(checkReg.Orig, checkReg.Version)
	checkFact := g.GetFacts(checkReg)
	checkFact.Flags |= FlagKnownValue
	checkFact.Value = ObjValue(&CodeObject{Name: "U", Info: checkType})
	g.EnsureVersion(0, 0)

	ins := &Instruction{Op: OpIsType, Operands: []Operand{RegOperand(0, 0), RegOperand(1, 0), RegOperand(2, 0)}}

	if optimizeIsType(g, Capabilities{TypeCheck: &fakeTypeCheck{ok: false}}, ins) {
		t.Fatalf("expected optimizeIsType to bail when the cache has no opinion")
	}
}

func TestOptimizeObjPrimSpecFoldsBoxedPrimitive(t *testing.T) {
	g := newTestGraph(&StaticFrame{Name: "f"}, 2)
	typ := &TypeInfo{Storage: StorageSpec{BoxedPrimitive: 3}}
	src := RegRef{Orig: 1, Version: 0}
	setKnownType(g, src, typ, true)
	g.EnsureVersion(0, 0)

	ins := &Instruction{Op: OpObjPrimSpec, Operands: []Operand{RegOperand(0, 0), RegOperand(1, 0)}}

	if !optimizeObjPrimSpec(g, Capabilities{}, ins) {
		t.Fatalf("expected optimizeObjPrimSpec to fire")
	}
	if ins.Operands[1].LitInt != 3 {
		t.Fatalf("expected boxed primitive code 3, got %d", ins.Operands[1].LitInt)
	}
}

func TestOptimizeHllizeFoldsSameHLL(t *testing.T) {
	g := newTestGraph(&StaticFrame{Name: "f"}, 2)
	typ := &TypeInfo{HLL: "sentra"}
	src := RegRef{Orig: 1, Version: 0}
	setKnownType(g, src, typ, true)
	g.EnsureVersion(0, 0)

	ins := &Instruction{Op: OpHllize, Operands: []Operand{RegOperand(0, 0), RegOperand(1, 0)}}

	if !optimizeHllize(g, ins, "sentra") {
		t.Fatalf("expected optimizeHllize to fire when HLLs already match")
	}
	if ins.Op != OpSet {
		t.Fatalf("expected set, got op %d", ins.Op)
	}
}

func TestOptimizeHllizeBailsOnDifferentHLL(t *testing.T) {
	g := newTestGraph(&StaticFrame{Name: "f"}, 2)
	typ := &TypeInfo{HLL: "other"}
	src := RegRef{Orig: 1, Version: 0}
	setKnownType(g, src, typ, true)
	g.EnsureVersion(0, 0)

	ins := &Instruction{Op: OpHllize, Operands: []Operand{RegOperand(0, 0), RegOperand(1, 0)}}

	if optimizeHllize(g, ins, "sentra") {
		t.Fatalf("expected optimizeHllize to bail on a mismatched HLL")
	}
}

func TestOptimizeHllizeMarksSourceLogGuardUsedWithoutDecrementingUsages(t *testing.T) {
	g := newTestGraph(&StaticFrame{Name: "f"}, 2)
	typ := &TypeInfo{HLL: "sentra"}
	src := RegRef{Orig: 1, Version: 0}
	setKnownType(g, src, typ, true)
	g.EnsureVersion(0, 0)

	g.LogGuards = append(g.LogGuards, LogGuard{})
	srcFact := g.GetFacts(src)
	srcFact.Flags |= FlagFromLogGuard
	srcFact.LogGuard = 0
	srcFact.Usages = 2

	ins := &Instruction{Op: OpHllize, Operands: []Operand{RegOperand(0, 0), RegOperand(1, 0)}}

	if !optimizeHllize(g, ins, "sentra") {
		t.Fatalf("expected optimizeHllize to fire when HLLs already match")
	}
	if !g.LogGuards[0].Used {
		t.Fatalf("expected the source fact's log guard to be marked used")
	}
	if srcFact.Usages != 2 {
		t.Fatalf("marking the guard used must not decrement usages, got %d", srcFact.Usages)
	}
}

func TestOptimizeDecontDirectBranchMarksSourceLogGuardUsedWithoutDecrementingUsages(t *testing.T) {
	g := newTestGraph(&StaticFrame{Name: "f"}, 2)
	bb := g.AddBlock()

	src := RegRef{Orig: 0, Version: 0}
	g.EnsureVersion(src.Orig, src.Version)
	srcFact := g.GetFacts(src)
	srcFact.Flags |= FlagDeconted | FlagFromLogGuard
	srcFact.Usages = 3
	g.LogGuards = append(g.LogGuards, LogGuard{})
	srcFact.LogGuard = 0

	g.EnsureVersion(1, 0)
	ins := &Instruction{Op: OpDecont, Operands: []Operand{RegOperand(1, 0), RegOperand(0, 0)}}
	bb.InsertBefore(nil, ins)

	if !optimizeDecont(g, Capabilities{}, bb, ins) {
		t.Fatalf("expected optimizeDecont to fire")
	}
	if !g.LogGuards[0].Used {
		t.Fatalf("expected the source fact's log guard to be marked used")
	}
	if srcFact.Usages != 3 {
		t.Fatalf("marking the guard used must not decrement usages, got %d", srcFact.Usages)
	}
}

func TestOptimizeAssertParamCheckDeletesOnKnownTruthy(t *testing.T) {
	g := newTestGraph(&StaticFrame{Name: "f"}, 1)
	bb := g.AddBlock()
	cond := RegRef{Orig: 0, Version: 0}
	setKnownInt(g, cond, 1, 1)

	ins := &Instruction{Op: OpAssertParamCheck, Operands: []Operand{RegOperand(0, 0)}}
	bb.InsertBefore(nil, ins)

	if !optimizeAssertParamCheck(g, bb, ins) {
		t.Fatalf("expected optimizeAssertParamCheck to fire")
	}
	if bb.FirstIns != nil {
		t.Fatalf("expected assertparamcheck to be deleted from the block")
	}
}

func TestOptimizeAssertParamCheckBailsOnKnownFalsy(t *testing.T) {
	g := newTestGraph(&StaticFrame{Name: "f"}, 1)
	bb := g.AddBlock()
	cond := RegRef{Orig: 0, Version: 0}
	setKnownInt(g, cond, 0, 1)

	ins := &Instruction{Op: OpAssertParamCheck, Operands: []Operand{RegOperand(0, 0)}}
	bb.InsertBefore(nil, ins)

	if optimizeAssertParamCheck(g, bb, ins) {
		t.Fatalf("expected optimizeAssertParamCheck to bail on a known-false condition")
	}
}
