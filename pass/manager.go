// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package pass

import (
	"fmt"

	"github.com/QuTech-Delft/OpenQL-sub006/ir"
	"github.com/QuTech-Delft/OpenQL-sub006/options"
	"github.com/rs/zerolog"
)

// Factory registers pass types by a dotted type name and builds new
// Pass instances from it.
type Factory struct {
	ctors map[string]func(typeName, instanceName string) *Pass
}

// NewFactory returns a Factory pre-populated with the builtin "group" pass
// type; callers register additional pass types, including conditional
// groups built with NewConditionalGroup, with Register.
func NewFactory() *Factory {
	f := &Factory{ctors: make(map[string]func(string, string) *Pass)}
	f.Register("group", buildGroup(NodeGroup))
	return f
}

// Register adds a named pass type, whose build function is invoked with
// (typeName, instanceName) whenever New is asked to instantiate it.
func (f *Factory) Register(typeName string, build func(typeName, instanceName string) *Pass) {
	f.ctors[typeName] = build
}

// New instantiates a pass of the given registered typeName.
func (f *Factory) New(typeName, instanceName string) (*Pass, error) {
	build, ok := f.ctors[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPassType, typeName)
	}
	p := build(typeName, instanceName)
	p.factory = f
	return p, nil
}

func buildGroup(kind NodeKind) func(string, string) *Pass {
	return func(typeName, instanceName string) *Pass {
		return &Pass{
			TypeName: typeName,
			InstanceName: instanceName,
			Options: options.NewSet(),
			kind: kind,
			construct: func(*Pass) (NodeKind, Condition, error) { return kind, nil, nil },
		}
	}
}

// NewNormal returns a constructor for a leaf pass type backed by run, for
// use with Register.
func NewNormal(typeName string, run RunFunc) func(typeName, instanceName string) *Pass {
	return func(tn, instanceName string) *Pass {
		return &Pass{
			TypeName: tn,
			InstanceName: instanceName,
			Options: options.NewSet(),
			run: run,
			construct: func(*Pass) (NodeKind, Condition, error) { return NodeNormal, nil, nil },
		}
	}
}

// NewConditionalGroup returns a constructor for a group pass type whose
// node kind and condition are supplied by makeCondition, invoked once at
// Construct.
func NewConditionalGroup(kind NodeKind, run RunFunc, makeCondition func(*Pass) Condition) func(string, string) *Pass {
	return func(tn, instanceName string) *Pass {
		p := &Pass{
			TypeName: tn,
			InstanceName: instanceName,
			Options: options.NewSet(),
			run: run,
			kind: kind,
		}
		p.construct = func(self *Pass) (NodeKind, Condition, error) {
			return kind, makeCondition(self), nil
		}
		return p
	}
}

// Manager owns the root of the pass strategy tree: Root is an
// unconditional group pass whose InstanceName is always empty.
type Manager struct {
	Root *Pass
	Factory *Factory
	Log zerolog.Logger
}

// NewManager returns an empty Manager backed by factory.
func NewManager(factory *Factory) *Manager {
	root := &Pass{
		TypeName: "root",
		InstanceName: "",
		Options: options.NewSet(),
		kind: NodeGroup,
		construct: func(*Pass) (NodeKind, Condition, error) { return NodeGroup, nil, nil },
		factory: factory,
	}
	return &Manager{Root: root, Factory: factory, Log: zerolog.Nop()}
}

// Append instantiates typeName under instanceName and appends it to the
// manager's root.
func (m *Manager) Append(typeName, instanceName string) (*Pass, error) {
	p, err := m.Factory.New(typeName, instanceName)
	if err != nil {
		return nil, err
	}
	if err := m.Root.AppendSubPass(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Find resolves a dotted instance-name path (no wildcards) to the pass
// at that path.
func (m *Manager) Find(path string) (*Pass, bool) {
	if path == "" {
		return m.Root, true
	}
	cur := m.Root
	for _, seg := range splitPath(path) {
		i := cur.indexOf(seg)
		if i < 0 {
			return nil, false
		}
		cur = cur.subPasses[i]
	}
	return cur, true
}

func splitPath(path string) []string {
	var out []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			out = append(out, path[start:i])
			start = i + 1
		}
	}
	out = append(out, path[start:])
	return out
}

// SetOption forwards to the root's SetOption, resolving sub-pass paths
// and wildcards relative to the whole strategy.
func (m *Manager) SetOption(path, value string, mustExist bool) (int, error) {
	return m.Root.SetOption(path, value, mustExist)
}

// Construct constructs the entire strategy tree, recursively, enforcing
// uniqueness of instance names within every group.
func (m *Manager) Construct() error {
	return m.Root.ConstructRecursive()
}

// Compile runs the whole strategy against program, constructing first if
// needed.
func (m *Manager) Compile(program *ir.Program, outputPrefix string) error {
	if err := m.Construct(); err != nil {
		return err
	}
	return m.Root.Compile(program, outputPrefix, m.Log)
}

// Dump renders the whole strategy tree.
func (m *Manager) Dump() string {
	s := ""
	for _, sp := range m.Root.subPasses {
		s += sp.Dump("")
	}
	return s
}
