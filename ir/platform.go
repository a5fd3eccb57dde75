// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package ir

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Platform owns a device's data types, physical objects, instruction
// types, function types, topology, architecture identifier, and resource
// configuration.
type Platform struct {
	Name string

	types []*DataType
	objects []*PhysicalObject
	functions []*FunctionType

	Instructions *InstructionRegistry

	Topology *Topology
	Architecture string

	// ResourceConfig is the raw resources{} section of the platform
	// JSON config; the resource package turns it
	// into a live resource.Manager.
	ResourceConfig map[string]json.RawMessage

	// Extra carries whatever platform-specific JSON the config document
	// contains beyond the recognized sections, as a JSON object; config.Load
	// fills it, config.Build alone does not.
	Extra json.RawMessage
}

// NewPlatform returns an empty platform ready for registry population.
func NewPlatform(name string) *Platform {
	return &Platform{Name: name, Instructions: NewInstructionRegistry()}
}

// AddType implements add_type: validate, check for a
// duplicate name, and insert in sorted order.
func (p *Platform) AddType(t *DataType) (*DataType, error) {
	if !ValidIdentifier(t.Name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, t.Name)
	}
	i := sort.Search(len(p.types), func(i int) bool { return p.types[i].Name >= t.Name })
	if i < len(p.types) && p.types[i].Name == t.Name {
		return nil, fmt.Errorf("%w: type %q", ErrDuplicate, t.Name)
	}
	p.types = append(p.types, nil)
	copy(p.types[i+1:], p.types[i:])
	p.types[i] = t
	return t, nil
}

// FindType implements find_type.
func (p *Platform) FindType(name string) *DataType {
	i := sort.Search(len(p.types), func(i int) bool { return p.types[i].Name >= name })
	if i < len(p.types) && p.types[i].Name == name {
		return p.types[i]
	}
	return nil
}

// Types returns the name-sorted type registry.
func (p *Platform) Types() []*DataType { return p.types }

// AddPhysicalObject implements add_physical_object.
func (p *Platform) AddPhysicalObject(o *PhysicalObject) (*PhysicalObject, error) {
	if !ValidIdentifier(o.Name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, o.Name)
	}
	i := sort.Search(len(p.objects), func(i int) bool { return p.objects[i].Name >= o.Name })
	if i < len(p.objects) && p.objects[i].Name == o.Name {
		return nil, fmt.Errorf("%w: object %q", ErrDuplicate, o.Name)
	}
	p.objects = append(p.objects, nil)
	copy(p.objects[i+1:], p.objects[i:])
	p.objects[i] = o
	return o, nil
}

// FindPhysicalObject implements find_physical_object.
func (p *Platform) FindPhysicalObject(name string) *PhysicalObject {
	i := sort.Search(len(p.objects), func(i int) bool { return p.objects[i].Name >= name })
	if i < len(p.objects) && p.objects[i].Name == name {
		return p.objects[i]
	}
	return nil
}

// Objects returns the name-sorted physical-object registry.
func (p *Platform) Objects() []*PhysicalObject { return p.objects }

// AddFunctionType inserts a function type in sorted order, mirroring the
// type/object registries.
func (p *Platform) AddFunctionType(f *FunctionType) (*FunctionType, error) {
	if !ValidIdentifier(f.Name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, f.Name)
	}
	i := sort.Search(len(p.functions), func(i int) bool { return p.functions[i].Name >= f.Name })
	if i < len(p.functions) && p.functions[i].Name == f.Name {
		return nil, fmt.Errorf("%w: function %q", ErrDuplicate, f.Name)
	}
	p.functions = append(p.functions, nil)
	copy(p.functions[i+1:], p.functions[i:])
	p.functions[i] = f
	return f, nil
}

// FindFunctionType looks up a function type by name.
func (p *Platform) FindFunctionType(name string) *FunctionType {
	i := sort.Search(len(p.functions), func(i int) bool { return p.functions[i].Name >= name })
	if i < len(p.functions) && p.functions[i].Name == name {
		return p.functions[i]
	}
	return nil
}

// MainQubitRegister returns the platform's main qubit register: the first
// physical object whose element type has Kind == KindQubit. By the
// implicit-bit rule, it also carries an implicit bit register of
// identical shape (addressed via Expr.ImplicitBit), which is not a
// separate registry entry.
func (p *Platform) MainQubitRegister() *PhysicalObject {
	for _, o := range p.objects {
		if o.Type != nil && o.Type.Kind == KindQubit {
			return o
		}
	}
	return nil
}
