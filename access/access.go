// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package access implements access-mode analysis: mapping
// each statement's operands to per-object access descriptors, the input
// the DDG builder (package ddg) commutes over.
package access

import "github.com/QuTech-Delft/OpenQL-sub006/ir"

// Flags controls the two commutation-disabling options
type Flags struct {
	DisableSingleQubitCommutation bool
	DisableMultiQubitCommutation bool
}

// ObjectAccesses is the per-statement map from reference key to
// aggregated access mode, built by Walk.
type ObjectAccesses struct {
	modes map[ir.RefKey]ir.AccessMode
	order []ir.RefKey
}

func newObjectAccesses() *ObjectAccesses {
	return &ObjectAccesses{modes: make(map[ir.RefKey]ir.AccessMode)}
}

// Keys returns the accessed reference keys in first-seen order.
func (a *ObjectAccesses) Keys() []ir.RefKey { return a.order }

// Mode returns the aggregated access mode for key.
func (a *ObjectAccesses) Mode(key ir.RefKey) ir.AccessMode { return a.modes[key] }

func (a *ObjectAccesses) add(key ir.RefKey, mode ir.AccessMode) {
	if mode == ir.Literal {
		// "Literal mode is upgraded to Read on insertion."
		mode = ir.Read
	}
	existing, seen := a.modes[key]
	if !seen {
		a.modes[key] = mode
		a.order = append(a.order, key)
		return
	}
	if existing != mode {
		// "different mode" => combined mode becomes Write.
		a.modes[key] = ir.Write
	}
}

// Walk computes the ObjectAccesses for a single statement, recursing into
// nested control flow: every statement of an if/else or loop sub-block is
// walked and its accesses are folded into the same ObjectAccesses.
func Walk(stmt *ir.Statement, flags Flags) *ObjectAccesses {
	a := newObjectAccesses()
	walkInto(a, stmt, flags)
	return a
}

func walkInto(a *ObjectAccesses, stmt *ir.Statement, flags Flags) {
	switch stmt.Kind {
	case ir.StmtCustomInstruction:
		walkCondition(a, stmt.Custom.Condition, flags)
		for i, operand := range stmt.Custom.Operands {
			mode := stmt.Custom.Type.Operands[i].Mode
			walkOperand(a, operand, mode, flags)
		}
	case ir.StmtSet:
		walkCondition(a, stmt.Set.Condition, flags)
		walkOperand(a, stmt.Set.LHS, ir.Write, flags)
		walkOperand(a, stmt.Set.RHS, ir.Read, flags)
	case ir.StmtWait:
		for _, o := range stmt.WaitObjects {
			walkOperand(a, o, ir.Write, flags)
		}
	case ir.StmtIfElse:
		for _, br := range stmt.Branches {
			walkCondition(a, br.Condition, flags)
			for _, s := range br.Body.Statements {
				walkInto(a, s, flags)
			}
		}
		if stmt.Otherwise != nil {
			for _, s := range stmt.Otherwise.Statements {
				walkInto(a, s, flags)
			}
		}
	case ir.StmtStaticLoop:
		a.add(stmt.LoopLHS.Key(), ir.Write)
		for _, s := range stmt.Body.Statements {
			walkInto(a, s, flags)
		}
	case ir.StmtForLoop:
		if stmt.ForInit != nil {
			walkInto(a, stmt.ForInit, flags)
		}
		walkCondition(a, stmt.ForCond, flags)
		if stmt.ForUpdate != nil {
			walkInto(a, stmt.ForUpdate, flags)
		}
		for _, s := range stmt.Body.Statements {
			walkInto(a, s, flags)
		}
	case ir.StmtRepeatUntilLoop:
		for _, s := range stmt.Body.Statements {
			walkInto(a, s, flags)
		}
		walkCondition(a, stmt.ForCond, flags)
	}
}

func walkCondition(a *ObjectAccesses, cond *ir.Expr, flags Flags) {
	if cond == nil {
		return
	}
	walkOperand(a, cond, ir.Read, flags)
}

// walkOperand records accesses to the references inside e, tagging direct
// references with mode (upgraded per the commutation-disable flags and
// the Measure-decomposition rule), and recursing into index/inner
// expressions as plain reads.
func walkOperand(a *ObjectAccesses, e *ir.Expr, mode ir.AccessMode, flags Flags) {
	if e == nil {
		return
	}
	switch e.Kind {
	case ir.ExprLiteral:
		return
	case ir.ExprReference:
		for _, idx := range e.Indices {
			walkOperand(a, idx, ir.Read, flags)
		}
		if mode == ir.CommuteX || mode == ir.CommuteY || mode == ir.CommuteZ {
			if e.ImplicitBit || isMultiQubitCommute(mode, e) {
				if flags.DisableMultiQubitCommutation {
					mode = ir.Write
				}
			}
			if flags.DisableSingleQubitCommutation {
				mode = ir.Write
			}
		}
		if mode == ir.Measure {
			// "Measure mode is decomposed into Write on the qubit plus
			// Write on the implicit bit of the same qubit."
			a.add(e.Key(), ir.Write)
			bitKey := e.Key()
			bitKey.ImplicitBit = true
			a.add(bitKey, ir.Write)
			return
		}
		a.add(e.Key(), mode)
	case ir.ExprTypeCast:
		walkOperand(a, e.Inner, ir.Read, flags)
	case ir.ExprFunctionCall:
		for i, op := range e.Operands {
			m := ir.Read
			if e.Function != nil && i < len(e.Function.Operands) {
				m = e.Function.Operands[i].Mode
			}
			walkOperand(a, op, m, flags)
		}
	}
}

// isMultiQubitCommute is a conservative placeholder distinguishing
// single- from multi-qubit commuting accesses for the disable flags: a
// reference with no statically known index is treated as potentially
// multi-qubit (it may alias several physical qubits).
func isMultiQubitCommute(mode ir.AccessMode, e *ir.Expr) bool {
	return e.Key().Index == "*"
}

// Commutes reports whether two ObjectAccesses sets may be reordered: true
// iff for every key present in both, the modes match and are in the
// commuting set.
func Commutes(a, b *ObjectAccesses) bool {
	for k, ma := range a.modes {
		if mb, ok := b.modes[k]; ok {
			if !ir.Commutes(ma, mb) {
				return false
			}
		}
	}
	return true
}
