// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package sched implements a resource-constrained list scheduler: its
// worklist-of-available-statements, readiness-predicate loop generalizes
// a register allocator's worklist-of-available-registers approach to
// DDG-readiness-driven statement scheduling.
package sched

import (
	"fmt"
	"sort"

	"github.com/QuTech-Delft/OpenQL-sub006/ir"
	"github.com/QuTech-Delft/OpenQL-sub006/resource"
	"github.com/rs/zerolog"
)

// DeadlockError is raised when the cycle is advanced more than
// MaxBlockedCycles times in a row with no scheduling progress.
type DeadlockError struct {
	Cycle int
	Dump []resource.StateDump
}

func (e *DeadlockError) Error() string {
	return fmt.Sprintf("sched: resource deadlock at cycle %d", e.Cycle)
}

// Options configures a single Run call.
type Options struct {
	// MaxBlockedCycles bounds consecutive no-progress cycle advances
	// before raising a DeadlockError. Zero disables the bound.
	MaxBlockedCycles int
	Criticality Criticality

	// Log receives a debug event per scheduled statement. A nil Log
	// disables logging; a non-nil one is copied once when Run starts.
	Log *zerolog.Logger
}

type scheduler struct {
	block *ir.SubBlock
	state *resource.State
	direction resource.Direction
	opts Options
	log zerolog.Logger

	cycle int

	scheduled map[*ir.Statement]bool
	available []*ir.Statement
	availableIn map[int][]*ir.Statement
	waiting map[*ir.Statement]int // statement -> remaining unscheduled predecessor count
}

// Run schedules every statement in block (which must already have a DDG
// built, per package ddg) against the resources tracked by state. On
// success every statement's cycle is set and block's statements are left
// exactly as
// built by ddg.Build (including source/sink dummies); call ConvertCycles
// afterwards to normalize and sort.
func Run(block *ir.SubBlock, state *resource.State, opts Options) error {
	if opts.Criticality == nil {
		opts.Criticality = Trivial{}
	}
	log := zerolog.Nop()
	if opts.Log != nil {
		log = *opts.Log
	}
	s := &scheduler{
		block: block,
		state: state,
		direction: block.Direction,
		opts: opts,
		log: log,
		scheduled: make(map[*ir.Statement]bool),
		availableIn: make(map[int][]*ir.Statement),
		waiting: make(map[*ir.Statement]int),
	}
	return s.run()
}

func (s *scheduler) run() error {
	var source *ir.Statement
	for _, st := range s.block.Statements {
		if len(st.DDG.Predecessors) == 0 {
			source = st
		}
		s.waiting[st] = len(st.DDG.Predecessors)
	}
	if source == nil {
		return fmt.Errorf("sched: block has no DDG source statement")
	}

	s.cycle = 0
	if s.direction == resource.Reversed {
		s.cycle = 0
	}
	s.available = []*ir.Statement{source}
	delete(s.waiting, source)
	s.schedule(source)

	blockedStreak := 0
	for len(s.scheduled) < len(s.block.Statements) {
		if len(s.available) == 0 {
			s.advanceCycle()
			if len(s.available) == 0 {
				blockedStreak++
				if s.opts.MaxBlockedCycles > 0 && blockedStreak > s.opts.MaxBlockedCycles {
					return &DeadlockError{Cycle: s.cycle, Dump: s.state.Dump()}
				}
				continue
			}
		}
		s.sortAvailable()

		picked := -1
		for i, st := range s.available {
			if s.state.Available(s.direction, s.cycle, st) {
				picked = i
				break
			}
		}
		if picked < 0 {
			blockedStreak++
			if s.opts.MaxBlockedCycles > 0 && blockedStreak > s.opts.MaxBlockedCycles {
				return &DeadlockError{Cycle: s.cycle, Dump: s.state.Dump()}
			}
			s.cycle += int(s.direction)
			s.migrateAvailableIn()
			continue
		}
		blockedStreak = 0
		st := s.available[picked]
		s.available = append(s.available[:picked], s.available[picked+1:]...)
		s.schedule(st)
	}
	return nil
}

func (s *scheduler) advanceCycle() {
	s.cycle += int(s.direction)
	s.migrateAvailableIn()
	if len(s.available) == 0 && len(s.availableIn) > 0 {
		// Jump straight to the nearest pending cycle: if available became
		// empty, jump the cycle to the availableIn key closest to it in
		// the scheduling direction.
		best, ok := s.nearestKey()
		if ok {
			s.cycle = best
			s.migrateAvailableIn()
		}
	}
}

func (s *scheduler) nearestKey() (int, bool) {
	found := false
	best := 0
	for k := range s.availableIn {
		dist := (k - s.cycle) * int(s.direction)
		if !found || dist < (best-s.cycle)*int(s.direction) {
			best = k
			found = true
		}
	}
	return best, found
}

func (s *scheduler) migrateAvailableIn() {
	if lst, ok := s.availableIn[s.cycle]; ok {
		s.available = append(s.available, lst...)
		delete(s.availableIn, s.cycle)
	}
}

func (s *scheduler) sortAvailable() {
	sort.SliceStable(s.available, func(i, j int) bool {
		a, b := s.available[i], s.available[j]
		if s.opts.Criticality.Less(a, b) {
			return false // b more critical -> b first
		}
		if s.opts.Criticality.Less(b, a) {
			return true
		}
		return a.DDG.Order < b.DDG.Order
	})
}

func (s *scheduler) schedule(st *ir.Statement) {
	s.state.Reserve(s.direction, s.cycle, st)
	st.SetCycle(s.cycle)
	s.scheduled[st] = true

	s.log.Debug().
		Int("kind", int(st.Kind)).
		Str("instruction", instructionName(st)).
		Int("cycle", s.cycle).
		Int("scheduled", len(s.scheduled)).
		Int("total", len(s.block.Statements)).
		Msg("sched: scheduled statement")

	for _, e := range st.DDG.Successors {
		t := e.Statement
		remaining, ok := s.waiting[t]
		if !ok {
			continue
		}
		remaining--
		if remaining > 0 {
			s.waiting[t] = remaining
			continue
		}
		delete(s.waiting, t)
		earliest := s.earliestStart(t)
		if earliest == s.cycle {
			s.available = append(s.available, t)
		} else {
			s.availableIn[earliest] = append(s.availableIn[earliest], t)
		}
	}

	if len(s.available) == 0 {
		if k, ok := s.nearestKey(); ok {
			s.cycle = k
			s.migrateAvailableIn()
		}
	}
}

// instructionName returns a short label for a statement's operation for
// log correlation, falling back to its kind for statements with no named
// instruction type.
func instructionName(st *ir.Statement) string {
	switch st.Kind {
	case ir.StmtCustomInstruction:
		return st.Custom.Type.Name
	case ir.StmtSet:
		return "set"
	case ir.StmtWait:
		return "wait"
	case ir.StmtGoto:
		return "goto"
	case ir.StmtDummy:
		return "dummy"
	default:
		return "stmt"
	}
}

// earliestStart computes, forward, the maximum over predecessors p of
// p.cycle + weight, and, reversed, the minimum of p.cycle - weight: weights
// are stored as magnitudes and the block's direction gives their sign.
func (s *scheduler) earliestStart(t *ir.Statement) int {
	best := 0
	first := true
	for _, e := range t.DDG.Predecessors {
		v := e.Statement.GetCycle() + int(s.direction)*e.Weight
		if first || (s.direction == resource.Forward && v > best) || (s.direction == resource.Reversed && v < best) {
			best = v
			first = false
		}
	}
	return best
}

// ConvertCycles implements convert_cycles: subtract the
// minimum cycle so the source statement sits at zero, then stable-sort
// statements by cycle.
func ConvertCycles(block *ir.SubBlock) {
	if len(block.Statements) == 0 {
		return
	}
	min := block.Statements[0].GetCycle()
	for _, s := range block.Statements {
		if s.GetCycle() < min {
			min = s.GetCycle()
		}
	}
	if min != 0 {
		for _, s := range block.Statements {
			s.SetCycle(s.GetCycle() - min)
		}
	}
	sort.SliceStable(block.Statements, func(i, j int) bool {
		return block.Statements[i].GetCycle() < block.Statements[j].GetCycle()
	})
}
