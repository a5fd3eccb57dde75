// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package resource implements the pluggable resource model: qubit,
// waveform-generator, measurement-unit, edge, detuned-qubits, and
// inter-core-channel resources, plus the factory that instantiates a
// State for one scheduling run.
//
// The per-resource busy-until/busy-from bookkeeping is grounded on a
// register allocator's free-at-a-given-program-point tracking,
// generalized here from "one register, one program point" to "one
// hardware resource, one cycle, one direction".
package resource

import (
	"fmt"

	"github.com/QuTech-Delft/OpenQL-sub006/ir"
)

// Direction mirrors ir.Direction: Forward for ASAP (busy-until
// bookkeeping), Reversed for ALAP (busy-from bookkeeping).
type Direction = ir.Direction

const (
	Forward = ir.Forward
	Reversed = ir.Reversed
)

// StateDump is one resource's internal-state snapshot, attached to a
// sched.DeadlockError.
type StateDump struct {
	Name string
	Detail string
}

// Resource is the contract every configured resource implements: can this instruction start at this cycle, and reserve it having
// done so.
type Resource interface {
	// Name returns the resource's configured name.
	Name() string
	// Available reports whether inst may start at cycle without
	// violating this resource's constraint.
	Available(direction Direction, cycle int, inst *ir.Statement) bool
	// Reserve commits inst's use of this resource starting at cycle.
	// Callers must only call Reserve after Available returned true for
	// the same (direction, cycle, inst).
	Reserve(direction Direction, cycle int, inst *ir.Statement)
	// Dump renders the resource's current state for diagnostics.
	Dump() StateDump
	// Clone returns a fresh copy of the resource with no reservations.
	// Manager.NewState does not use it; it builds each resource anew from
	// its Config.
	Clone() Resource
}

// Config is one named resource's configuration, as decoded from the
// platform's resources{} JSON section.
type Config struct {
	Name string
	Kind string
	Params map[string]any
}

// Manager owns an immutable resource configuration and factory; it may be
// shared by reference to build many States.
type Manager struct {
	configs []Config
}

// NewManager builds a Manager from decoded resource configuration.
func NewManager(configs []Config) *Manager { return &Manager{configs: configs} }

// NewState instantiates one resource.State by building a fresh Resource
// for every configured entry.
func (m *Manager) NewState() (*State, error) {
	s := &State{}
	for _, c := range m.configs {
		r, err := build(c)
		if err != nil {
			return nil, fmt.Errorf("resource: building %q: %w", c.Name, err)
		}
		s.resources = append(s.resources, r)
	}
	return s, nil
}

func build(c Config) (Resource, error) {
	switch c.Kind {
	case "qubit":
		return newQubitResource(c), nil
	case "qwg":
		return newQWGResource(c), nil
	case "measurement", "meas_unit":
		return newMeasurementResource(c), nil
	case "edge":
		return newEdgeResource(c), nil
	case "detuned_qubits":
		return newDetunedResource(c), nil
	case "channel":
		return newChannelResource(c), nil
	default:
		return nil, fmt.Errorf("unknown resource kind %q", c.Kind)
	}
}

// State is a per-direction mutable instantiation of every configured
// resource, exclusively owned by one scheduling run.
type State struct {
	resources []Resource
}

// Available reports whether inst may start at cycle under every
// configured resource.
func (s *State) Available(direction Direction, cycle int, inst *ir.Statement) bool {
	for _, r := range s.resources {
		if !r.Available(direction, cycle, inst) {
			return false
		}
	}
	return true
}

// Reserve commits inst's use of every configured resource at cycle.
func (s *State) Reserve(direction Direction, cycle int, inst *ir.Statement) {
	for _, r := range s.resources {
		r.Reserve(direction, cycle, inst)
	}
}

// Dump renders every resource's current state, for sched.DeadlockError
// diagnostics.
func (s *State) Dump() []StateDump {
	out := make([]StateDump, len(s.resources))
	for i, r := range s.resources {
		out[i] = r.Dump()
	}
	return out
}

// qubitsOf returns the integer qubit indices of inst's qubit operands that
// are indexed by a single literal, whatever their access mode; every
// resource uses it to find which hardware qubits an instruction occupies.
func qubitsOf(inst *ir.Statement) []int {
	if inst.Kind != ir.StmtCustomInstruction {
		return nil
	}
	var out []int
	for i, op := range inst.Custom.Operands {
		if op.Kind != ir.ExprReference || op.Target == nil || op.Target.Type == nil || op.Target.Type.Kind != ir.KindQubit {
			continue
		}
		_ = i
		if len(op.Indices) == 1 && op.Indices[0].Kind == ir.ExprLiteral {
			out = append(out, int(op.Indices[0].Lit.Int))
		}
	}
	return out
}

func instructionName(inst *ir.Statement) string {
	if inst.Kind == ir.StmtCustomInstruction {
		return inst.Custom.Type.Name
	}
	return ""
}

func instructionDuration(inst *ir.Statement) int {
	return inst.Duration()
}
