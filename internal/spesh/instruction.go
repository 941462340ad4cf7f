package spesh

// AnnotationKind names the frame-handler markers optimize_throwcat walks
// (optimize.c: MVM_SPESH_ANN_FH_START/END/GOTO).
type AnnotationKind uint8

const (
	AnnNone AnnotationKind = iota
	AnnFrameHandlerStart
	AnnFrameHandlerEnd
	AnnFrameHandlerGoto
)

// Annotation attaches a frame-handler marker to an Instruction, carrying
// the index of the StaticFrame.Handlers entry it refers to.
type Annotation struct {
	Kind        AnnotationKind
	HandlerIdx  int32
}

// Instruction is one op plus its operands, doubly linked within its
// owning BasicBlock (spec.md §3).
type Instruction struct {
	Op       OpCode
	Operands []Operand

	Prev *Instruction
	Next *Instruction

	Annotations []Annotation

	// BB is the owning block, set when the instruction is linked in.
	BB *BasicBlock
}

// HasAnnotation reports whether ins carries an annotation of kind k, and
// returns it.
func (ins *Instruction) HasAnnotation(k AnnotationKind) (Annotation, bool) {
	for _, a := range ins.Annotations {
		if a.Kind == k {
			return a, true
		}
	}
	return Annotation{}, false
}

// Writes reports whether this instruction's first operand is a written
// register, per op_descriptor's RWKind — and if so returns it.
func (ins *Instruction) Writes(caps Capabilities) (RegRef, bool) {
	info := caps.OpDescriptor(ins.Op)
	if info == nil || len(info.OperandRW) == 0 {
		return RegRef{}, false
	}
	if info.OperandRW[0] != RWWrite {
		return RegRef{}, false
	}
	if len(ins.Operands) == 0 || ins.Operands[0].Kind != OperandKindReg {
		return RegRef{}, false
	}
	return ins.Operands[0].Reg, true
}

// ReadRegs returns every register operand this instruction reads, per
// op_descriptor's RWKind.
func (ins *Instruction) ReadRegs(caps Capabilities) []RegRef {
	info := caps.OpDescriptor(ins.Op)
	var out []RegRef
	for i, opnd := range ins.Operands {
		if opnd.Kind != OperandKindReg {
			continue
		}
		if info != nil && i < len(info.OperandRW) && info.OperandRW[i] == RWWrite {
			continue
		}
		out = append(out, opnd.Reg)
	}
	return out
}
