// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package resource

import (
	"fmt"

	"github.com/QuTech-Delft/OpenQL-sub006/ir"
)

// qwgState is one waveform generator's reservation: the cycle window it
// is playing in, and the instruction name it is playing.
type qwgState struct {
	w window
	opName string
	reserved bool
}

// qwgResource implements waveform-generator resource:
// while playing an instruction of a given name, a generator may accept
// concurrent instructions of the *same* name starting in the overlap
// window, but not of a different name.
type qwgResource struct {
	name string
	qubitToGen map[int]int
	gens []qwgState
}

func newQWGResource(c Config) *qwgResource {
	r := &qwgResource{name: c.Name, qubitToGen: make(map[int]int)}
	for gi, g := range listParam(c.Params["generators"]) {
		gm := mapParam(g)
		for _, q := range intsParam(gm["qubits"]) {
			r.qubitToGen[q] = gi
		}
	}
	r.gens = make([]qwgState, len(listParam(c.Params["generators"])))
	return r
}

func (r *qwgResource) Name() string { return r.name }

func (r *qwgResource) generatorsOf(inst *ir.Statement) map[int]bool {
	gens := make(map[int]bool)
	for _, q := range qubitsOf(inst) {
		if g, ok := r.qubitToGen[q]; ok {
			gens[g] = true
		}
	}
	return gens
}

func (r *qwgResource) Available(direction Direction, cycle int, inst *ir.Statement) bool {
	name := instructionName(inst)
	w := occupiedRange(direction, cycle, instructionDuration(inst))
	for g := range r.generatorsOf(inst) {
		st := r.gens[g]
		if st.reserved && st.w.overlaps(w) && st.opName != name {
			return false
		}
	}
	return true
}

func (r *qwgResource) Reserve(direction Direction, cycle int, inst *ir.Statement) {
	name := instructionName(inst)
	w := occupiedRange(direction, cycle, instructionDuration(inst))
	for g := range r.generatorsOf(inst) {
		st := r.gens[g]
		if st.reserved {
			st.w = window{Lo: min(st.w.Lo, w.Lo), Hi: max(st.w.Hi, w.Hi)}
		} else {
			st.w = w
		}
		st.opName = name
		st.reserved = true
		r.gens[g] = st
	}
}

func (r *qwgResource) Dump() StateDump {
	return StateDump{Name: r.name, Detail: fmt.Sprintf("%d generators: %+v", len(r.gens), r.gens)}
}

func (r *qwgResource) Clone() Resource {
	c := &qwgResource{name: r.name, qubitToGen: r.qubitToGen, gens: make([]qwgState, len(r.gens))}
	return c
}

