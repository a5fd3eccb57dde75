// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package ir

import "testing"

func TestStatementIsDummy(t *testing.T) {
	if !NewDummy().IsDummy() {
		t.Fatal("NewDummy() should report IsDummy")
	}
	custom := &Statement{Kind: StmtCustomInstruction, Custom: &CustomInstruction{}}
	if custom.IsDummy() {
		t.Fatal("a custom instruction should not report IsDummy")
	}
}

func TestStatementGetSetCycleCustomInstruction(t *testing.T) {
	s := &Statement{Kind: StmtCustomInstruction, Custom: &CustomInstruction{}}
	s.SetCycle(5)
	if s.GetCycle() != 5 {
		t.Fatalf("GetCycle() = %d, want 5", s.GetCycle())
	}
	if s.Custom.Cycle != 5 {
		t.Fatalf("Custom.Cycle = %d, want 5", s.Custom.Cycle)
	}
}

func TestStatementGetSetCycleSetInstruction(t *testing.T) {
	s := &Statement{Kind: StmtSet, Set: &SetInstruction{}}
	s.SetCycle(3)
	if s.GetCycle() != 3 || s.Set.Cycle != 3 {
		t.Fatalf("GetCycle()/Set.Cycle = %d/%d, want 3/3", s.GetCycle(), s.Set.Cycle)
	}
}

func TestStatementGetSetCycleFallsBackToPrivateField(t *testing.T) {
	s := &Statement{Kind: StmtGoto}
	s.SetCycle(7)
	if s.GetCycle() != 7 {
		t.Fatalf("GetCycle() = %d, want 7", s.GetCycle())
	}
}

func TestStatementDuration(t *testing.T) {
	qubit := Qubit("qubit")
	it := &InstructionType{Name: "x", Operands: []OperandType{{Mode: Write, Type: qubit}}, Duration: 20}
	custom := &Statement{Kind: StmtCustomInstruction, Custom: &CustomInstruction{Type: it}}
	if custom.Duration() != 20 {
		t.Fatalf("Duration() = %d, want 20", custom.Duration())
	}

	wait := &Statement{Kind: StmtWait, WaitDuration: 15}
	if wait.Duration() != 15 {
		t.Fatalf("Duration() = %d, want 15", wait.Duration())
	}

	dummy := NewDummy()
	if dummy.Duration() != 0 {
		t.Fatalf("Duration() = %d, want 0", dummy.Duration())
	}
}
