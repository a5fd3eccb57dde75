// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package ir

import (
	"fmt"
	"sort"
)

// InstructionType describes a named gate or classical operation: its
// operand prototype, duration, and (if it is a specialization) the
// template operands that were pinned to produce it from a more general
// form.
//
// The specialization tree is owned top-down (Specializations); the
// Generalization pointer is a non-owning back-edge into the same tree.
type InstructionType struct {
	Name string
	ExternalName string
	Operands []OperandType
	Duration int

	TemplateOperands []*Expr
	Generalization *InstructionType
	Specializations []*InstructionType
	Decompositions []*DecompositionRule
}

// DecompositionRule expands one instruction type into a fixed sequence of
// others.
type DecompositionRule struct {
	Name string
	Parameters []*PhysicalObject
	Expansion []*CustomInstruction
}

// InstructionRegistry is a platform's name-sorted list of top-level
// (non-specialized) instruction types.
type InstructionRegistry struct {
	byName map[string][]*InstructionType // all top-level generalizations sharing a name
	sorted []*InstructionType // name-sorted, for deterministic iteration
}

func NewInstructionRegistry() *InstructionRegistry {
	return &InstructionRegistry{byName: make(map[string][]*InstructionType)}
}

// All iterates top-level instruction types in sorted-name order.
func (r *InstructionRegistry) All() []*InstructionType { return r.sorted }

func (r *InstructionRegistry) insertSorted(it *InstructionType) {
	r.byName[it.Name] = append(r.byName[it.Name], it)
	i := sort.Search(len(r.sorted), func(i int) bool { return r.sorted[i].Name >= it.Name })
	r.sorted = append(r.sorted, nil)
	copy(r.sorted[i+1:], r.sorted[i:])
	r.sorted[i] = it
}

// operandsEqual compares two operand-type lists by (mode, type) pairs.
func operandsEqual(a, b []OperandType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Mode != b[i].Mode || !a[i].Type.Equal(b[i].Type) {
			return false
		}
	}
	return true
}

func exprEqual(a, b *Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != ExprLiteral || b.Kind != ExprLiteral {
		return a == b
	}
	return a.Lit.Type.Equal(b.Lit.Type) && a.Lit.Int == b.Lit.Int && a.Lit.Uint == b.Lit.Uint &&
		a.Lit.Bit == b.Lit.Bit && a.Lit.Real == b.Lit.Real && a.Lit.Complex == b.Lit.Complex && a.Lit.Str == b.Lit.Str
}

// AddInstructionType registers it under the registry, creating or
// descending a specialization tree as needed.
//
// It validates the name, looks for an existing instruction type with a
// matching name and operand-type list, and either fails with ErrDuplicate
// (exact match, no template operands requested), descends an existing
// specialization tree, or clones-and-narrows the generalization one
// template operand at a time until the requested specialization exists.
// It returns the deepest (most-specialized) instruction type.
func (r *InstructionRegistry) AddInstructionType(it *InstructionType, templateOperands []*Expr) (*InstructionType, error) {
	if !ValidIdentifier(it.Name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, it.Name)
	}

	var generalization *InstructionType
	for _, cand := range r.byName[it.Name] {
		if operandsEqual(cand.Operands, it.Operands) {
			generalization = cand
			break
		}
	}

	if generalization == nil {
		if len(templateOperands) > 0 {
			// Synthesize the generalization implicitly: the caller is
			// asking to create a specialization of a type that does
			// not exist yet, so register the general form first.
			full := &InstructionType{
				Name: it.Name,
				ExternalName: it.ExternalName,
				Operands: append(append([]OperandType(nil), operandTypesOf(templateOperands)...), it.Operands...),
				Duration: it.Duration,
			}
			r.insertSorted(full)
			generalization = full
		} else {
			clone := *it
			r.insertSorted(&clone)
			return &clone, nil
		}
	} else if len(templateOperands) == 0 {
		return nil, fmt.Errorf("%w: instruction %q with these operand types", ErrDuplicate, it.Name)
	}

	// Descend/build the specialization tree one template operand at a
	// time.
	cur := generalization
	for i, tmpl := range templateOperands {
		var next *InstructionType
		for _, child := range cur.Specializations {
			if len(child.TemplateOperands) == i+1 && exprEqual(child.TemplateOperands[i], tmpl) {
				match := true
				for j := 0; j < i; j++ {
					if !exprEqual(child.TemplateOperands[j], cur.TemplateOperands[j]) {
						match = false
						break
					}
				}
				if match {
					next = child
					break
				}
			}
		}
		if next == nil {
			next = &InstructionType{
				Name: cur.Name,
				ExternalName: cur.ExternalName,
				Operands: append([]OperandType(nil), cur.Operands[1:]...),
				Duration: cur.Duration,
				TemplateOperands: append(append([]*Expr(nil), cur.TemplateOperands...), tmpl),
				Generalization: cur,
			}
			cur.Specializations = append(cur.Specializations, next)
		}
		cur = next
	}
	return cur, nil
}

func operandTypesOf(exprs []*Expr) []OperandType {
	out := make([]OperandType, len(exprs))
	for i, e := range exprs {
		out[i] = OperandType{Mode: Literal, Type: e.Type()}
	}
	return out
}

// FindInstructionType returns the
// most specialized match for the given name and operand *types*. If no
// match exists and synthesize is true, it clones the first instruction
// type with a matching name, overwrites its operands with operandTypes
// all in Write mode, and inserts the clone in sorted order.
func (r *InstructionRegistry) FindInstructionType(name string, operandTypes []*DataType, synthesize bool) (*InstructionType, error) {
	candidates := r.byName[name]
	var best *InstructionType
	for _, c := range candidates {
		if m := deepestMatch(c, operandTypes); m != nil {
			if best == nil || len(m.TemplateOperands) > len(best.TemplateOperands) {
				best = m
			}
		}
	}
	if best != nil {
		return best, nil
	}
	if !synthesize || len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchInstruction, name)
	}
	ops := make([]OperandType, len(operandTypes))
	for i, t := range operandTypes {
		ops[i] = OperandType{Mode: Write, Type: t}
	}
	clone := *candidates[0]
	clone.Operands = ops
	clone.TemplateOperands, clone.Generalization, clone.Specializations = nil, nil, nil
	r.insertSorted(&clone)
	return &clone, nil
}

// deepestMatch walks it's specialization tree looking for the deepest
// node whose full operand-type signature matches operandTypes.
func deepestMatch(it *InstructionType, operandTypes []*DataType) *InstructionType {
	if len(it.Operands) == len(operandTypes) {
		ok := true
		for i, op := range it.Operands {
			if !op.Type.Equal(operandTypes[i]) {
				ok = false
				break
			}
		}
		if ok {
			for _, child := range it.Specializations {
				if m := deepestMatch(child, operandTypes); m != nil {
					return m
				}
			}
			return it
		}
	}
	for _, child := range it.Specializations {
		if m := deepestMatch(child, operandTypes); m != nil {
			return m
		}
	}
	return nil
}

// SpecializeInstruction walks inst.Type's specialization tree using
// inst.Operands and replaces inst.Type with the deepest match.
func SpecializeInstruction(inst *CustomInstruction) {
	types := make([]*DataType, len(inst.Operands))
	for i, o := range inst.Operands {
		types[i] = o.Type()
	}
	root := inst.Type
	for root.Generalization != nil {
		root = root.Generalization
	}
	if m := deepestMatch(root, types); m != nil {
		inst.Type = m
	}
}

// GeneralizeInstruction walks upward through inst.Type's generalizations,
// prepending each level's template operands to inst.Operands.
func GeneralizeInstruction(inst *CustomInstruction) {
	for inst.Type.Generalization != nil {
		g := inst.Type.Generalization
		inst.Operands = append(append([]*Expr(nil), inst.Type.TemplateOperands...), inst.Operands...)
		inst.Type = g
	}
}
