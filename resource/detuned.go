// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package resource

import (
	"fmt"

	"github.com/QuTech-Delft/OpenQL-sub006/ir"
)

type detunedState struct {
	w window
	opType string
}

// detunedResource implements detuned-qubits resource: a
// two-qubit flux gate parks (detunes) a configured list of additional
// qubits; single-qubit microwave gates on a detuned qubit are forbidden;
// same-type operations may overlap.
type detunedResource struct {
	name string
	parks map[[2]int][]int // edge qubit pair -> parked qubit indices
	qubits map[int]detunedState
}

func newDetunedResource(c Config) *detunedResource {
	r := &detunedResource{name: c.Name, parks: make(map[[2]int][]int), qubits: make(map[int]detunedState)}
	for _, e := range listParam(c.Params["detunes"]) {
		em := mapParam(e)
		qs := intsParam(em["edge_qubits"])
		if len(qs) != 2 {
			continue
		}
		r.parks[sortedPair(qs[0], qs[1])] = intsParam(em["parked"])
	}
	return r
}

func (r *detunedResource) Name() string { return r.name }

func isTwoQubitFlux(inst *ir.Statement, qs []int) bool { return len(qs) == 2 }

func (r *detunedResource) parkedQubits(inst *ir.Statement) []int {
	qs := qubitsOf(inst)
	if !isTwoQubitFlux(inst, qs) {
		return nil
	}
	return r.parks[sortedPair(qs[0], qs[1])]
}

func (r *detunedResource) Available(direction Direction, cycle int, inst *ir.Statement) bool {
	name := instructionName(inst)
	qs := qubitsOf(inst)
	w := occupiedRange(direction, cycle, instructionDuration(inst))

	if isTwoQubitFlux(inst, qs) {
		for _, q := range append(append([]int(nil), qs...), r.parkedQubits(inst)...) {
			if st, ok := r.qubits[q]; ok && st.w.overlaps(w) && st.opType != name {
				return false
			}
		}
		return true
	}

	// Single-qubit (microwave) instruction: forbidden on a currently
	// detuned qubit unless it matches the parking op's type.
	for _, q := range qs {
		if st, ok := r.qubits[q]; ok && st.w.overlaps(w) && st.opType != name {
			return false
		}
	}
	return true
}

func (r *detunedResource) Reserve(direction Direction, cycle int, inst *ir.Statement) {
	name := instructionName(inst)
	qs := qubitsOf(inst)
	w := occupiedRange(direction, cycle, instructionDuration(inst))

	targets := qs
	if isTwoQubitFlux(inst, qs) {
		targets = append(append([]int(nil), qs...), r.parkedQubits(inst)...)
	}
	for _, q := range targets {
		r.qubits[q] = detunedState{w: w, opType: name}
	}
}

func (r *detunedResource) Dump() StateDump {
	return StateDump{Name: r.name, Detail: fmt.Sprintf("%d qubits detuned: %+v", len(r.qubits), r.qubits)}
}

func (r *detunedResource) Clone() Resource {
	return &detunedResource{name: r.name, parks: r.parks, qubits: make(map[int]detunedState)}
}
