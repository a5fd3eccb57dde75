// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package resource

import (
	"fmt"

	"github.com/QuTech-Delft/OpenQL-sub006/ir"
)

type edgeConfig struct {
	id int
	qubits [2]int
	conflicts []int
}

// edgeResource implements edge resource: two-qubit flux
// gates occupy an edge for their full duration; edges listed as
// conflicting in configuration also conflict.
type edgeResource struct {
	name string
	edges []edgeConfig
	byPair map[[2]int]int // qubit pair (sorted) -> edge index
	windows map[int]window // edge index -> occupied range
}

func newEdgeResource(c Config) *edgeResource {
	r := &edgeResource{name: c.Name, byPair: make(map[[2]int]int), windows: make(map[int]window)}
	for _, e := range listParam(c.Params["edges"]) {
		em := mapParam(e)
		qs := intsParam(em["qubits"])
		if len(qs) != 2 {
			continue
		}
		ec := edgeConfig{id: intParam(em["id"], len(r.edges)), qubits: [2]int{qs[0], qs[1]}, conflicts: intsParam(em["conflicts"])}
		idx := len(r.edges)
		r.edges = append(r.edges, ec)
		r.byPair[sortedPair(qs[0], qs[1])] = idx
	}
	return r
}

func sortedPair(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func (r *edgeResource) Name() string { return r.name }

func (r *edgeResource) edgeOf(inst *ir.Statement) (int, bool) {
	qs := qubitsOf(inst)
	if len(qs) != 2 {
		return 0, false
	}
	idx, ok := r.byPair[sortedPair(qs[0], qs[1])]
	return idx, ok
}

func (r *edgeResource) conflictingIndices(idx int) []int {
	out := []int{idx}
	for _, cid := range r.edges[idx].conflicts {
		for i, e := range r.edges {
			if e.id == cid {
				out = append(out, i)
			}
		}
	}
	return out
}

func (r *edgeResource) Available(direction Direction, cycle int, inst *ir.Statement) bool {
	idx, ok := r.edgeOf(inst)
	if !ok {
		return true
	}
	w := occupiedRange(direction, cycle, instructionDuration(inst))
	for _, i := range r.conflictingIndices(idx) {
		if existing, ok := r.windows[i]; ok && existing.overlaps(w) {
			return false
		}
	}
	return true
}

func (r *edgeResource) Reserve(direction Direction, cycle int, inst *ir.Statement) {
	idx, ok := r.edgeOf(inst)
	if !ok {
		return
	}
	w := occupiedRange(direction, cycle, instructionDuration(inst))
	r.windows[idx] = w
}

func (r *edgeResource) Dump() StateDump {
	return StateDump{Name: r.name, Detail: fmt.Sprintf("%d edges busy: %v", len(r.windows), r.windows)}
}

func (r *edgeResource) Clone() Resource {
	return &edgeResource{name: r.name, edges: r.edges, byPair: r.byPair, windows: make(map[int]window)}
}
