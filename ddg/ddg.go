// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package ddg builds a commutation-aware data-dependency graph over an IR
// block. The adjacency-list shape is grounded on the kegliz/qplay qc/dag
// package's Node/parents/children design (see DESIGN.md), retargeted from
// gate/qubit indices to access.ObjectAccesses reference keys and weighted
// edges; acyclicity is checked with a depth-first search.
package ddg

import (
	"errors"
	"fmt"

	"github.com/QuTech-Delft/OpenQL-sub006/access"
	"github.com/QuTech-Delft/OpenQL-sub006/ir"
)

// ErrCycle indicates a cyclic DDG, which classifies as an
// internal-consistency bug ("indicates a bug"), not an expected failure.
var ErrCycle = errors.New("ddg: cyclic dependency graph")

type writerState struct {
	mode ir.AccessMode // mode shared by the current writer group
	writers []*ir.Statement
	readers []*ir.Statement
}

// Build constructs the DDG for block and attaches DdgNode annotations to
// every statement, including a synthetic source dummy prepended to
// block.Statements and a synthetic sink dummy appended to it. It sets
// block.Direction to ir.Forward.
func Build(block *ir.SubBlock, flags access.Flags) error {
	source := ir.NewDummy()
	sink := ir.NewDummy()

	stmts := make([]*ir.Statement, 0, len(block.Statements)+2)
	stmts = append(stmts, source)
	stmts = append(stmts, block.Statements...)
	stmts = append(stmts, sink)

	for i, s := range stmts {
		s.DDG = &ir.DdgNode{Order: i}
	}

	addEdge := func(from, to *ir.Statement, weight int) {
		from.DDG.Successors = append(from.DDG.Successors, ir.Edge{Statement: to, Weight: weight})
		to.DDG.Predecessors = append(to.DDG.Predecessors, ir.Edge{Statement: from, Weight: weight})
	}

	state := make(map[ir.RefKey]*writerState)
	touched := map[*ir.Statement]bool{}

	for _, s := range stmts[1: len(stmts)-1] {
		accesses := access.Walk(s, flags)
		if len(accesses.Keys()) == 0 {
			continue
		}
		touched[s] = true
		for _, key := range accesses.Keys() {
			mode := accesses.Mode(key)
			st, ok := state[key]
			if !ok {
				st = &writerState{}
				state[key] = st
			}
			// A fresh state has mode Write, which commutes with nothing.
			commutesWithWriters := ir.Commutes(mode, st.mode)
			if commutesWithWriters {
				// Joins the current commuting group: depends on what
				// preceded the group, not on the group's members.
				for _, w := range st.writers {
					addEdge(w, s, w.Duration())
				}
				st.readers = append(st.readers, s)
			} else {
				// Depends on everything recorded so far, then either
				// opens a new commuting group or becomes the sole writer.
				for _, w := range st.writers {
					addEdge(w, s, w.Duration())
				}
				for _, r := range st.readers {
					addEdge(r, s, r.Duration())
				}
				if ir.Commutes(mode, mode) {
					deps := st.readers
					if len(deps) == 0 {
						deps = st.writers
					}
					st.writers = deps
					st.readers = []*ir.Statement{s}
				} else {
					st.readers = nil
					st.writers = []*ir.Statement{s}
				}
				st.mode = mode
			}
		}
	}

	// Sink collects final writers/readers of every key.
	for _, st := range state {
		for _, w := range st.writers {
			addEdge(w, sink, w.Duration())
		}
		for _, r := range st.readers {
			addEdge(r, sink, r.Duration())
		}
	}

	// Source links to every statement with no real predecessor.
	for _, s := range stmts[1: len(stmts)-1] {
		if len(s.DDG.Predecessors) == 0 {
			addEdge(source, s, 0)
		}
	}
	if len(sink.DDG.Predecessors) == 0 {
		addEdge(source, sink, 0)
	}

	block.Statements = stmts
	block.Direction = ir.Forward

	return checkAcyclic(stmts)
}

func checkAcyclic(stmts []*ir.Statement) error {
	const (
		white = 0
		gray = 1
		black = 2
	)
	color := make(map[*ir.Statement]int, len(stmts))
	var visit func(s *ir.Statement) error
	visit = func(s *ir.Statement) error {
		switch color[s] {
		case gray:
			return fmt.Errorf("%w at statement order %d", ErrCycle, s.DDG.Order)
		case black:
			return nil
		}
		color[s] = gray
		for _, e := range s.DDG.Successors {
			if err := visit(e.Statement); err != nil {
				return err
			}
		}
		color[s] = black
		return nil
	}
	for _, s := range stmts {
		if color[s] == white {
			if err := visit(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// Reverse swaps each node's predecessor/successor lists and toggles the
// block's direction flag. Weights are stored as non-negative magnitudes with
// direction tracked separately on the block, so the stored Weight values
// are left unchanged and Direction flips which way they apply.
func Reverse(block *ir.SubBlock) {
	for _, s := range block.Statements {
		if s.DDG == nil {
			continue
		}
		s.DDG.Predecessors, s.DDG.Successors = s.DDG.Successors, s.DDG.Predecessors
	}
	block.Direction = -block.Direction
}
