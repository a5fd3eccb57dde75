// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package resource

import (
	"fmt"

	"github.com/QuTech-Delft/OpenQL-sub006/ir"
)

type measUnitState struct {
	reserved bool
	startCycle int
	w window
}

// measurementResource implements measurement-unit
// resource: each unit controls a fixed set of qubits; concurrent
// measurements on the same unit must start in the exact same cycle.
type measurementResource struct {
	name string
	qubitToUnit map[int]int
	units []measUnitState
}

func newMeasurementResource(c Config) *measurementResource {
	r := &measurementResource{name: c.Name, qubitToUnit: make(map[int]int)}
	units := listParam(c.Params["units"])
	for ui, u := range units {
		um := mapParam(u)
		for _, q := range intsParam(um["qubits"]) {
			r.qubitToUnit[q] = ui
		}
	}
	r.units = make([]measUnitState, len(units))
	return r
}

func (r *measurementResource) Name() string { return r.name }

func isMeasure(inst *ir.Statement) bool {
	return inst.Kind == ir.StmtCustomInstruction &&
		len(inst.Custom.Type.Operands) > 0 &&
		hasMeasureOperand(inst.Custom.Type.Operands)
}

func hasMeasureOperand(ops []ir.OperandType) bool {
	for _, o := range ops {
		if o.Mode == ir.Measure {
			return true
		}
	}
	return false
}

func (r *measurementResource) unitsOf(inst *ir.Statement) map[int]bool {
	units := make(map[int]bool)
	for _, q := range qubitsOf(inst) {
		if u, ok := r.qubitToUnit[q]; ok {
			units[u] = true
		}
	}
	return units
}

func (r *measurementResource) Available(direction Direction, cycle int, inst *ir.Statement) bool {
	if !isMeasure(inst) {
		return true
	}
	w := occupiedRange(direction, cycle, instructionDuration(inst))
	for u := range r.unitsOf(inst) {
		st := r.units[u]
		if st.reserved && st.w.overlaps(w) && st.startCycle != cycle {
			return false
		}
	}
	return true
}

func (r *measurementResource) Reserve(direction Direction, cycle int, inst *ir.Statement) {
	if !isMeasure(inst) {
		return
	}
	w := occupiedRange(direction, cycle, instructionDuration(inst))
	for u := range r.unitsOf(inst) {
		r.units[u] = measUnitState{reserved: true, startCycle: cycle, w: w}
	}
}

func (r *measurementResource) Dump() StateDump {
	return StateDump{Name: r.name, Detail: fmt.Sprintf("%d units: %+v", len(r.units), r.units)}
}

func (r *measurementResource) Clone() Resource {
	return &measurementResource{name: r.name, qubitToUnit: r.qubitToUnit, units: make([]measUnitState, len(r.units))}
}
