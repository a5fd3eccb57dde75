// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package ir

import "testing"

func TestAddInstructionTypeDuplicate(t *testing.T) {
	r := NewInstructionRegistry()
	qubit := Qubit("qubit")
	ops := []OperandType{{Mode: Write, Type: qubit}}
	if _, err := r.AddInstructionType(&InstructionType{Name: "x", Operands: ops}, nil); err != nil {
		t.Fatalf("first AddInstructionType: %v", err)
	}
	if _, err := r.AddInstructionType(&InstructionType{Name: "x", Operands: ops}, nil); err == nil {
		t.Fatal("expected ErrDuplicate re-adding identical operand signature, got nil")
	}
}

func TestAddInstructionTypeSpecialization(t *testing.T) {
	r := NewInstructionRegistry()
	qubit := Qubit("qubit")
	intType := Int("int", true, 32)
	qreg := &PhysicalObject{Name: "q", Type: qubit, Shape: []int{4}}
	general := &InstructionType{
		Name: "cnot",
		Operands: []OperandType{{Mode: CommuteZ, Type: qubit}, {Mode: CommuteX, Type: qubit}},
		Duration: 40,
	}
	if _, err := r.AddInstructionType(general, nil); err != nil {
		t.Fatalf("AddInstructionType(general): %v", err)
	}

	// Template operands are pinned-qubit references, not bare literals;
	// exprEqual compares them by pointer identity for non-literal kinds,
	// so every call below that should match an existing node reuses q0.
	// Finding the existing generalization to descend from requires an
	// exact operand-list match, so the specialization request repeats
	// the generalization's full signature; the descent loop itself
	// narrows cur.Operands one template operand at a time.
	q0 := NewReference(qreg, []*Expr{NewLiteral(&Literal{Type: intType, Int: 0})}, false)
	special, err := r.AddInstructionType(&InstructionType{
		Name: "cnot",
		Operands: append([]OperandType(nil), general.Operands...),
		Duration: 40,
	}, []*Expr{q0})
	if err != nil {
		t.Fatalf("AddInstructionType(specialization): %v", err)
	}
	if len(special.TemplateOperands) != 1 {
		t.Fatalf("specialization has %d template operands, want 1", len(special.TemplateOperands))
	}
	if special.Generalization == nil || special.Generalization.Name != "cnot" {
		t.Fatalf("specialization.Generalization = %v, want the cnot generalization", special.Generalization)
	}
	found := false
	for _, c := range r.byName["cnot"][0].Specializations {
		if c == special {
			found = true
		}
	}
	if !found {
		t.Fatal("specialization not linked into the generalization's Specializations list")
	}

	// Re-adding with the same template operand pointer must return the
	// existing node, not create a sibling.
	again, err := r.AddInstructionType(&InstructionType{
		Name: "cnot",
		Operands: append([]OperandType(nil), general.Operands...),
		Duration: 40,
	}, []*Expr{q0})
	if err != nil {
		t.Fatalf("AddInstructionType(specialization again): %v", err)
	}
	if again != special {
		t.Fatalf("re-adding an identical specialization produced a distinct node")
	}
	if len(r.byName["cnot"][0].Specializations) != 1 {
		t.Fatalf("got %d specializations, want exactly 1 (no duplicate sibling)", len(r.byName["cnot"][0].Specializations))
	}
}

func TestFindInstructionTypeDeepestMatch(t *testing.T) {
	r := NewInstructionRegistry()
	qubit := Qubit("qubit")
	intType := Int("int", true, 32)
	general := &InstructionType{
		Name: "cnot",
		Operands: []OperandType{{Mode: CommuteZ, Type: qubit}, {Mode: CommuteX, Type: qubit}},
	}
	if _, err := r.AddInstructionType(general, nil); err != nil {
		t.Fatal(err)
	}
	q0 := NewLiteral(&Literal{Type: intType, Int: 0})
	if _, err := r.AddInstructionType(&InstructionType{
		Name: "cnot",
		Operands: []OperandType{{Mode: CommuteX, Type: qubit}},
	}, []*Expr{q0}); err != nil {
		t.Fatal(err)
	}

	it, err := r.FindInstructionType("cnot", []*DataType{qubit, qubit}, false)
	if err != nil {
		t.Fatalf("FindInstructionType: %v", err)
	}
	if it != general {
		t.Fatalf("FindInstructionType matched %v, want the top-level generalization (no specialization narrows on type alone)", it)
	}

	if _, err := r.FindInstructionType("missing", []*DataType{qubit, qubit}, false); err == nil {
		t.Fatal("expected ErrNoSuchInstruction for an unregistered name, got nil")
	}

	synth, err := r.FindInstructionType("missing", []*DataType{qubit}, false)
	if err == nil || synth != nil {
		t.Fatalf("FindInstructionType with synthesize=false should fail cleanly, got (%v, %v)", synth, err)
	}
}

func TestFindInstructionTypeSynthesize(t *testing.T) {
	r := NewInstructionRegistry()
	qubit := Qubit("qubit")
	if _, err := r.AddInstructionType(&InstructionType{
		Name: "h",
		Operands: []OperandType{{Mode: Write, Type: qubit}},
	}, nil); err != nil {
		t.Fatal(err)
	}
	// No instruction named "h" takes two qubits; synthesize should clone
	// the first match and overwrite its operands with Write-mode.
	it, err := r.FindInstructionType("h", []*DataType{qubit, qubit}, true)
	if err != nil {
		t.Fatalf("FindInstructionType(synthesize): %v", err)
	}
	if len(it.Operands) != 2 {
		t.Fatalf("synthesized type has %d operands, want 2", len(it.Operands))
	}
	for _, op := range it.Operands {
		if op.Mode != Write {
			t.Fatalf("synthesized operand mode = %v, want Write", op.Mode)
		}
	}
}

func TestGeneralizeInstructionRoundTrip(t *testing.T) {
	r := NewInstructionRegistry()
	qubit := Qubit("qubit")
	intType := Int("int", true, 32)
	qreg := &PhysicalObject{Name: "q", Type: qubit, Shape: []int{2}}
	generalOperands := []OperandType{{Mode: CommuteZ, Type: qubit}, {Mode: CommuteX, Type: qubit}}
	if _, err := r.AddInstructionType(&InstructionType{
		Name: "cnot",
		Operands: generalOperands,
	}, nil); err != nil {
		t.Fatal(err)
	}
	q0 := NewReference(qreg, []*Expr{NewLiteral(&Literal{Type: intType, Int: 0})}, false)
	special, err := r.AddInstructionType(&InstructionType{
		Name: "cnot",
		Operands: append([]OperandType(nil), generalOperands...),
	}, []*Expr{q0})
	if err != nil {
		t.Fatal(err)
	}

	target := NewReference(qreg, []*Expr{NewLiteral(&Literal{Type: intType, Int: 1})}, false)
	inst := &CustomInstruction{Type: special, Operands: []*Expr{target}}

	GeneralizeInstruction(inst)
	if inst.Type.Generalization != nil {
		t.Fatalf("after GeneralizeInstruction, Type still has a Generalization: %v", inst.Type)
	}
	if len(inst.Operands) != 2 {
		t.Fatalf("after GeneralizeInstruction, got %d operands, want 2 (template operand prepended)", len(inst.Operands))
	}
	if inst.Operands[0] != q0 {
		t.Fatalf("after GeneralizeInstruction, operand 0 = %v, want the pinned template operand %v", inst.Operands[0], q0)
	}

	// SpecializeInstruction matches against the fully-generalized operand
	// list, which is the root's own signature, so it resolves back to the
	// root rather than re-descending into the now-implicit specialization.
	SpecializeInstruction(inst)
	if inst.Type.Generalization != nil {
		t.Fatalf("after SpecializeInstruction, Type = %v still has a Generalization", inst.Type)
	}
}
