package spesh

import "testing"

func TestOpDescriptorKnownOpcode(t *testing.T) {
	info := OpDescriptor(OpIfI)
	if info == nil {
		t.Fatalf("expected a descriptor for if_i")
	}
	if info.Name != "if_i" {
		t.Fatalf("expected name if_i, got %q", info.Name)
	}
	if info.Pure {
		t.Fatalf("if_i is a branch, should not be marked pure")
	}
	if len(info.OperandRW) != 2 || info.OperandRW[0] != RWRead {
		t.Fatalf("expected if_i's first operand to be a read, got %+v", info.OperandRW)
	}
}

func TestOpDescriptorMarksPureOpsForDeadCodeElimination(t *testing.T) {
	info := OpDescriptor(OpConstI64_16)
	if info == nil || !info.Pure {
		t.Fatalf("expected const_i64_16 to be marked pure")
	}
	info = OpDescriptor(OpAssertParamCheck)
	if info == nil || info.Pure {
		t.Fatalf("expected assertparamcheck to be marked impure (has a side effect on failure)")
	}
}

func TestOpDescriptorUnknownOpcodeReturnsNil(t *testing.T) {
	if info := OpDescriptor(OpCode(9999)); info != nil {
		t.Fatalf("expected nil descriptor for an unregistered opcode, got %+v", info)
	}
}
