// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package placement

import (
	"context"
	"testing"

	"github.com/QuTech-Delft/OpenQL-sub006/ir"
)

func testQubitReg() (*ir.PhysicalObject, *ir.DataType) {
	intType := ir.Int("int", true, 32)
	qreg := &ir.PhysicalObject{Name: "q", Type: ir.Qubit("qubit"), Shape: []int{8}}
	return qreg, intType
}

func qref(qreg *ir.PhysicalObject, intType *ir.DataType, i int64) *ir.Expr {
	return ir.NewReference(qreg, []*ir.Expr{ir.NewLiteral(&ir.Literal{Type: intType, Int: i})}, false)
}

func twoQubitInstr(qreg *ir.PhysicalObject, intType *ir.DataType, q0, q1 int64) *ir.Statement {
	it := &ir.InstructionType{Name: "cnot", Operands: []ir.OperandType{{Mode: ir.CommuteZ}, {Mode: ir.CommuteX}}}
	return &ir.Statement{Kind: ir.StmtCustomInstruction, Custom: &ir.CustomInstruction{
		Type: it, Operands: []*ir.Expr{qref(qreg, intType, q0), qref(qreg, intType, q1)},
	}}
}

func TestExtractTwoQubitGatesCollectsPairs(t *testing.T) {
	qreg, intType := testQubitReg()
	block := ir.NewSubBlock()
	block.Append(twoQubitInstr(qreg, intType, 0, 1))
	block.Append(twoQubitInstr(qreg, intType, 2, 3))

	gates, err := ExtractTwoQubitGates(block)
	if err != nil {
		t.Fatalf("ExtractTwoQubitGates: %v", err)
	}
	want := []TwoQubitGate{{Q0: 0, Q1: 1}, {Q0: 2, Q1: 3}}
	if len(gates) != len(want) {
		t.Fatalf("gates = %v, want %v", gates, want)
	}
	for i, g := range gates {
		if g != want[i] {
			t.Fatalf("gates[%d] = %v, want %v", i, g, want[i])
		}
	}
}

func TestExtractTwoQubitGatesIgnoresSingleQubitInstructions(t *testing.T) {
	qreg, intType := testQubitReg()
	it := &ir.InstructionType{Name: "x", Operands: []ir.OperandType{{Mode: ir.Write}}}
	block := ir.NewSubBlock()
	block.Append(&ir.Statement{Kind: ir.StmtCustomInstruction, Custom: &ir.CustomInstruction{
		Type: it, Operands: []*ir.Expr{qref(qreg, intType, 0)},
	}})

	gates, err := ExtractTwoQubitGates(block)
	if err != nil {
		t.Fatalf("ExtractTwoQubitGates: %v", err)
	}
	if len(gates) != 0 {
		t.Fatalf("gates = %v, want none", gates)
	}
}

func TestExtractTwoQubitGatesRejectsTooManyOperands(t *testing.T) {
	qreg, intType := testQubitReg()
	it := &ir.InstructionType{Name: "toffoli", Operands: []ir.OperandType{{Mode: ir.CommuteZ}, {Mode: ir.CommuteZ}, {Mode: ir.CommuteX}}}
	block := ir.NewSubBlock()
	block.Append(&ir.Statement{Kind: ir.StmtCustomInstruction, Custom: &ir.CustomInstruction{
		Type: it, Operands: []*ir.Expr{qref(qreg, intType, 0), qref(qreg, intType, 1), qref(qreg, intType, 2)},
	}})

	if _, err := ExtractTwoQubitGates(block); err == nil {
		t.Fatal("expected an error for an instruction with 3 qubit operands")
	}
}

func TestPlaceReturnsAnyWhenNoTwoQubitGates(t *testing.T) {
	topo := ir.NewFullyConnectedTopology(4)
	v2r := []int{Undefined, Undefined, Undefined, Undefined}
	res, err := Place(context.Background(), 4, topo, nil, v2r, Options{})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if res != Any {
		t.Fatalf("Place() = %v, want Any", res)
	}
}

func TestPlaceReturnsCurrentWhenExistingMapIsAlreadyGood(t *testing.T) {
	topo := ir.NewFullyConnectedTopology(4)
	gates := []TwoQubitGate{{Q0: 0, Q1: 1}}
	v2r := []int{0, 1, Undefined, Undefined}
	res, err := Place(context.Background(), 4, topo, gates, v2r, Options{})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if res != Current {
		t.Fatalf("Place() = %v, want Current", res)
	}
}

func TestPlaceFindsNewMapOnLineTopology(t *testing.T) {
	// A 4-qubit line: 0-1-2-3. Two virtual qubits interact heavily and
	// must land on adjacent physical locations; the initial map places
	// them far apart, so Place must produce a new one.
	topo := ir.NewTopology(4, 1, []ir.TopologyEdge{{Src: 0, Dst: 1}, {Src: 1, Dst: 2}, {Src: 2, Dst: 3}})
	gates := []TwoQubitGate{{Q0: 0, Q1: 1}, {Q0: 0, Q1: 1}, {Q0: 0, Q1: 1}}
	v2r := []int{0, 3, Undefined, Undefined}

	res, err := Place(context.Background(), 4, topo, gates, v2r, Options{})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if res != NewMap {
		t.Fatalf("Place() = %v, want NewMap", res)
	}
	if topo.Distance(v2r[0], v2r[1]) != 1 {
		t.Fatalf("new map places interacting qubits at distance %d, want 1", topo.Distance(v2r[0], v2r[1]))
	}
}

func TestPlaceMapAllAssignsRemainingVirtualQubits(t *testing.T) {
	topo := ir.NewFullyConnectedTopology(4)
	gates := []TwoQubitGate{{Q0: 0, Q1: 1}}
	v2r := []int{Undefined, Undefined, Undefined, Undefined}
	_, err := Place(context.Background(), 4, topo, gates, v2r, Options{MapAll: true})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	for v, r := range v2r {
		if r == Undefined {
			t.Fatalf("v2r[%d] left undefined with MapAll set", v)
		}
	}
}

func TestPlaceWithoutMapAllLeavesUnusedQubitsUndefined(t *testing.T) {
	topo := ir.NewFullyConnectedTopology(4)
	gates := []TwoQubitGate{{Q0: 0, Q1: 1}}
	v2r := []int{Undefined, Undefined, Undefined, Undefined}
	_, err := Place(context.Background(), 4, topo, gates, v2r, Options{})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if v2r[2] != Undefined || v2r[3] != Undefined {
		t.Fatalf("v2r = %v, want qubits 2 and 3 undefined", v2r)
	}
}

func TestPlaceHonorsCanceledContext(t *testing.T) {
	topo := ir.NewTopology(6, 1, []ir.TopologyEdge{{Src: 0, Dst: 1}, {Src: 1, Dst: 2}, {Src: 2, Dst: 3}, {Src: 3, Dst: 4}, {Src: 4, Dst: 5}})
	gates := []TwoQubitGate{{Q0: 0, Q1: 5}, {Q0: 1, Q1: 4}, {Q0: 2, Q1: 3}}
	v2r := []int{0, 1, 2, 3, 4, 5}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Place(ctx, 6, topo, gates, v2r, Options{})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if res != TimedOut {
		t.Fatalf("Place() with canceled context = %v, want TimedOut", res)
	}
}

func TestResultString(t *testing.T) {
	cases := map[Result]string{Failed: "failed", Any: "any", Current: "current", NewMap: "newmap", TimedOut: "timedout"}
	for r, want := range cases {
		if got := r.String(); got != want {
			t.Errorf("Result(%d).String() = %q, want %q", r, got, want)
		}
	}
}
