// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package sched

import "github.com/QuTech-Delft/OpenQL-sub006/ir"

// Criticality is the pluggable comparator for scheduling order:
// Less(a, b) reports whether a is strictly less critical than b (so the
// scheduler should prefer scheduling b first).
type Criticality interface {
	Less(a, b *ir.Statement) bool
}

// Trivial always returns equal criticality.
type Trivial struct{}

func (Trivial) Less(a, b *ir.Statement) bool { return false }

// CriticalPath compares statements by abs(cycle), which must have been
// assigned by a prior reverse-direction ASAP/ALAP schedule.
type CriticalPath struct{}

func (CriticalPath) Less(a, b *ir.Statement) bool {
	return abs(a.GetCycle()) < abs(b.GetCycle())
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// DeepCriticality compares statements by their DeepCriticality
// annotation: first by CriticalPathLength, then by the criticality of
// each statement's MostCriticalDependent, with an empty dependent always
// losing.
type DeepCriticality struct{}

func (DeepCriticality) Less(a, b *ir.Statement) bool {
	da, db := a.Deep, b.Deep
	if da == nil || db == nil {
		return da == nil && db != nil
	}
	if da.CriticalPathLength != db.CriticalPathLength {
		return da.CriticalPathLength < db.CriticalPathLength
	}
	ad, bd := da.MostCriticalDependent, db.MostCriticalDependent
	if ad == nil || bd == nil {
		return ad == nil && bd != nil
	}
	return DeepCriticality{}.Less(ad, bd)
}

// ComputeDeepCriticality annotates every statement in block with a
// DeepCriticality value, using the block's current DDG direction and
// comparing successors via this same comparator.
func ComputeDeepCriticality(block *ir.SubBlock) {
	memo := make(map[*ir.Statement]bool)
	var visit func(s *ir.Statement)
	visit = func(s *ir.Statement) {
		if memo[s] {
			return
		}
		memo[s] = true
		var best *ir.Statement
		for _, e := range s.DDG.Successors {
			visit(e.Statement)
			dep := e.Statement
			if best == nil || (DeepCriticality{}).Less(best, dep) {
				best = dep
			}
		}
		length := 0
		if best != nil {
			length = best.Deep.CriticalPathLength + 1
		}
		s.Deep = &ir.DeepCriticality{CriticalPathLength: length, MostCriticalDependent: best}
	}
	for _, s := range block.Statements {
		visit(s)
	}
}

// ClearDeepCriticality removes the transient DeepCriticality annotation
// from every statement; it must be cleared before the block leaves the
// current pass.
func ClearDeepCriticality(block *ir.SubBlock) {
	for _, s := range block.Statements {
		s.Deep = nil
	}
}
