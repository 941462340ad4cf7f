package llvmlower

import (
	"testing"

	"github.com/google/uuid"

	"github.com/sentra-lang/speshopt/internal/spesh"
)

func TestLowerConstantOnlyGraph(t *testing.T) {
	g := spesh.NewGraph(uuid.New(), &spesh.StaticFrame{Name: "f"}, 1)
	bb := g.AddBlock()
	bb.InsertBefore(nil, &spesh.Instruction{
		Op:       spesh.OpConstI64_16,
		Operands: []spesh.Operand{spesh.RegOperand(0, 0), spesh.LitIntOperand(7)},
	})

	m, err := Lower("f", g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Funcs) != 1 {
		t.Fatalf("expected one function in the module, got %d", len(m.Funcs))
	}
	fn := m.Funcs[0]
	if fn.GlobalName != "f" {
		t.Fatalf("expected function named f, got %s", fn.GlobalName)
	}
}

func TestLowerRejectsUnsupportedOpcode(t *testing.T) {
	g := spesh.NewGraph(uuid.New(), &spesh.StaticFrame{Name: "f"}, 1)
	bb := g.AddBlock()
	bb.InsertBefore(nil, &spesh.Instruction{
		Op:       spesh.OpDecont,
		Operands: []spesh.Operand{spesh.RegOperand(0, 0), spesh.RegOperand(0, 0)},
	})

	if _, err := Lower("f", g); err == nil {
		t.Fatalf("expected an error for an opcode this backend cannot lower")
	}
}

func TestLowerEmptyGraphReturnsZero(t *testing.T) {
	g := spesh.NewGraph(uuid.New(), &spesh.StaticFrame{Name: "empty"}, 0)
	m, err := Lower("empty", g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Funcs) != 1 {
		t.Fatalf("expected one function even for an empty graph")
	}
}
