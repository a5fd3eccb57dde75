// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package resource

import (
	"fmt"

	"github.com/QuTech-Delft/OpenQL-sub006/ir"
)

// qubitResource implements qubit resource: each qubit may
// be used by at most one instruction at any cycle, whatever the access
// mode; commuting accesses are not allowed to overlap either.
type qubitResource struct {
	name string
	windows map[int]window // qubit index -> currently occupied range
}

func newQubitResource(c Config) *qubitResource {
	return &qubitResource{name: c.Name, windows: make(map[int]window)}
}

func (r *qubitResource) Name() string { return r.name }

func (r *qubitResource) Available(direction Direction, cycle int, inst *ir.Statement) bool {
	w := occupiedRange(direction, cycle, instructionDuration(inst))
	for _, q := range qubitsOf(inst) {
		if existing, ok := r.windows[q]; ok && existing.overlaps(w) {
			return false
		}
	}
	return true
}

func (r *qubitResource) Reserve(direction Direction, cycle int, inst *ir.Statement) {
	w := occupiedRange(direction, cycle, instructionDuration(inst))
	for _, q := range qubitsOf(inst) {
		r.windows[q] = w
	}
}

func (r *qubitResource) Dump() StateDump {
	return StateDump{Name: r.name, Detail: fmt.Sprintf("%d qubits tracked: %v", len(r.windows), r.windows)}
}

func (r *qubitResource) Clone() Resource {
	return &qubitResource{name: r.name, windows: make(map[int]window)}
}
