// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package placement implements the initial-qubit-placement solver: given
// the two-qubit gates in a block's first horizon and a coupling
// topology, find an assignment of virtual to physical qubits minimizing
// total gate distance. The problem is a quadratic assignment problem;
// this is re-expressed as an exact branch-and-bound search over
// facility-to-location assignments rather than handed to a MIP/LP
// solver, since no such library appears anywhere in the dependency
// manifests available to this module. The solver is built on the standard
// library alone; see DESIGN.md for the justification.
package placement

import (
	"context"
	"sort"

	"github.com/QuTech-Delft/OpenQL-sub006/ir"
)

// Result reports the outcome of a Place call.
type Result int

const (
	Failed Result = iota
	Any
	Current
	NewMap
	TimedOut
)

func (r Result) String() string {
	switch r {
	case Any:
		return "any"
	case Current:
		return "current"
	case NewMap:
		return "newmap"
	case Failed:
		return "failed"
	case TimedOut:
		return "timedout"
	default:
		return "unknown"
	}
}

// Undefined marks a virtual qubit with no assigned real location.
const Undefined = -1

// TwoQubitGate is a two-qubit interaction extracted from a block, the
// only kind of gate the placement cost model considers.
type TwoQubitGate struct {
	Q0, Q1 int
}

// Options configures a single Place call.
type Options struct {
	// Horizon bounds how many two-qubit gates are considered; 0 means
	// unbounded.
	Horizon int
	// MapAll assigns unused virtual qubits an arbitrary remaining
	// location instead of leaving them undefined.
	MapAll bool
}

// ExtractTwoQubitGates walks block in program order collecting the
// qubit-pair operands of every two-qubit custom instruction. An
// instruction with more than two qubit operands is rejected; this pass
// must run before decomposition of such gates.
func ExtractTwoQubitGates(block *ir.SubBlock) ([]TwoQubitGate, error) {
	var out []TwoQubitGate
	for _, st := range block.Statements {
		if st.Kind != ir.StmtCustomInstruction {
			continue
		}
		var qubits []int
		for _, op := range st.Custom.Operands {
			qubits = append(qubits, literalQubitIndices(op)...)
		}
		switch len(qubits) {
		case 0, 1:
			// not a multi-qubit gate for placement purposes
		case 2:
			out = append(out, TwoQubitGate{Q0: qubits[0], Q1: qubits[1]})
		default:
			return nil, errTooManyOperands(st)
		}
	}
	return out, nil
}

func literalQubitIndices(e *ir.Expr) []int {
	if e == nil || e.Kind != ir.ExprReference {
		return nil
	}
	if e.Target == nil || e.Target.Type == nil || e.Target.Type.Kind != ir.KindQubit {
		return nil
	}
	if len(e.Indices) != 1 {
		return nil
	}
	idx := e.Indices[0]
	if idx.Kind != ir.ExprLiteral || idx.Lit.Type == nil || idx.Lit.Type.Kind != ir.KindInt {
		return nil
	}
	return []int{int(idx.Lit.Int)}
}

type tooManyOperandsError struct{ name string }

func (e *tooManyOperandsError) Error() string {
	return "placement: instruction " + e.name + " has more than 2 operand qubits; decompose it before placement"
}

func errTooManyOperands(st *ir.Statement) error {
	name := ""
	if st.Custom != nil && st.Custom.Type != nil {
		name = st.Custom.Type.Name
	}
	return &tooManyOperandsError{name: name}
}

// Place finds an initial mapping of nvq virtual qubits onto topo's
// locations minimizing total two-qubit gate distance. v2r holds the
// current map on entry (used to detect the Current-is-fine case) and is
// overwritten with the new map when Result is NewMap.
func Place(ctx context.Context, nvq int, topo *ir.Topology, gates []TwoQubitGate, v2r []int, opts Options) (Result, error) {
	nlocs := topo.NumQubits

	ipusecount := make([]int, nvq)
	v2i := make([]int, nvq)
	for v := range v2i {
		v2i[v] = Undefined
	}

	twoQubitCount := 0
	for _, g := range gates {
		if opts.Horizon == 0 || twoQubitCount < opts.Horizon {
			ipusecount[g.Q0]++
			ipusecount[g.Q1]++
		}
		twoQubitCount++
	}
	nfac := 0
	for v := 0; v < nvq; v++ {
		if ipusecount[v] != 0 {
			v2i[v] = nfac
			nfac++
		}
	}

	refcount := make([][]int, nfac)
	for i := range refcount {
		refcount[i] = make([]int, nfac)
	}
	anymap, currmap := true, true

	twoQubitCount = 0
	for _, g := range gates {
		if opts.Horizon == 0 || twoQubitCount < opts.Horizon {
			anymap = false
			refcount[v2i[g.Q0]][v2i[g.Q1]]++
			if v2r[g.Q0] == Undefined || v2r[g.Q1] == Undefined || topo.Distance(v2r[g.Q0], v2r[g.Q1]) > 1 {
				currmap = false
			}
		}
		twoQubitCount++
	}

	if anymap {
		return Any, nil
	}
	if currmap {
		return Current, nil
	}

	costmax := make([][]int, nfac)
	for i := range costmax {
		costmax[i] = make([]int, nlocs)
		for k := 0; k < nlocs; k++ {
			sum := 0
			for j := 0; j < nfac; j++ {
				for l := 0; l < nlocs; l++ {
					sum += refcount[i][j] * (topo.Distance(k, l) - 1)
				}
			}
			costmax[i][k] = sum
		}
	}
	_ = costmax // costmax would bound an LP relaxation; the branch-and-
	// bound search below prunes directly on partial assignment cost
	// instead, so it is computed for parity with the cost model but not
	// consulted further.

	assignment, ok := solveQAP(ctx, nfac, nlocs, refcount, topo)
	if !ok {
		select {
		case <-ctx.Done():
			return TimedOut, nil
		default:
			return Failed, nil
		}
	}

	for v := range v2r {
		v2r[v] = Undefined
	}
	for v := 0; v < nvq; v++ {
		if v2i[v] != Undefined {
			v2r[v] = assignment[v2i[v]]
		}
	}

	if opts.MapAll {
		mapRemaining(v2r, nlocs)
	}
	return NewMap, nil
}

// solveQAP performs an exact branch-and-bound search for the facility
// (used virtual qubit) to location assignment minimizing
// sum_i sum_j refcount[i][j] * distance(loc[i], loc[j]).
func solveQAP(ctx context.Context, nfac, nlocs int, refcount [][]int, topo *ir.Topology) ([]int, bool) {
	if nfac == 0 {
		return nil, true
	}
	loc := make([]int, nfac)
	used := make([]bool, nlocs)
	best := make([]int, nfac)
	bestCost := -1
	found := false

	var recurse func(i, partial int) bool
	recurse = func(i, partial int) bool {
		if i%64 == 0 {
			select {
			case <-ctx.Done():
				return false
			default:
			}
		}
		if bestCost >= 0 && partial >= bestCost {
			return true
		}
		if i == nfac {
			bestCost = partial
			copy(best, loc)
			found = true
			return true
		}
		for k := 0; k < nlocs; k++ {
			if used[k] {
				continue
			}
			add := 0
			for j := 0; j < i; j++ {
				d := topo.Distance(k, loc[j])
				add += (refcount[i][j] + refcount[j][i]) * d
			}
			if bestCost >= 0 && partial+add >= bestCost {
				continue
			}
			used[k] = true
			loc[i] = k
			if !recurse(i+1, partial+add) {
				used[k] = false
				return false
			}
			used[k] = false
		}
		return true
	}
	if !recurse(0, 0) {
		return nil, false
	}
	return best, found
}

// mapRemaining assigns every still-undefined virtual qubit in v2r an
// arbitrary unused location, in ascending order.
func mapRemaining(v2r []int, nlocs int) {
	usedLoc := make([]bool, nlocs)
	for _, r := range v2r {
		if r != Undefined {
			usedLoc[r] = true
		}
	}
	free := make([]int, 0, nlocs)
	for k := 0; k < nlocs; k++ {
		if !usedLoc[k] {
			free = append(free, k)
		}
	}
	sort.Ints(free)
	fi := 0
	for v := range v2r {
		if v2r[v] == Undefined {
			v2r[v] = free[fi]
			fi++
		}
	}
}
