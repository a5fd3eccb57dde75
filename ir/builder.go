// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package ir

import "fmt"

// trueBit is the literal used as a statement's condition when none is
// supplied.
func trueBit(bitType *DataType) *Expr {
	return NewLiteral(&Literal{Type: bitType, Bit: true})
}

// MakeInstruction implements make_instruction: it
// dispatches on name to build a "set", "wait"/"barrier", or custom
// statement, validating operand counts and types.
//
// bitType is the platform's Bit data type, used for the default true
// condition.
func MakeInstruction(p *Platform, bitType *DataType, name string, operands []*Expr, condition *Expr, allowFail, synthesize bool) (*Statement, error) {
	if condition == nil {
		condition = trueBit(bitType)
	}

	switch name {
	case "set":
		if len(operands) != 2 {
			return nil, fmt.Errorf("%w: set requires exactly two operands, got %d", ErrInvalidOperand, len(operands))
		}
		lhs, rhs := operands[0], operands[1]
		if lhs.Kind != ExprReference {
			return nil, fmt.Errorf("%w: set LHS must be an assignable reference", ErrInvalidOperand)
		}
		if !lhs.Type().Equal(rhs.Type()) {
			return nil, fmt.Errorf("%w: set RHS type %v does not match LHS type %v", ErrOperandTypeMismatch, rhs.Type(), lhs.Type())
		}
		return &Statement{Kind: StmtSet, Set: &SetInstruction{LHS: lhs, RHS: rhs, Condition: condition}}, nil

	case "wait", "barrier":
		duration := 0
		objs := operands
		if name == "wait" {
			if len(operands) == 0 {
				return nil, fmt.Errorf("%w: wait requires a duration operand", ErrInvalidOperand)
			}
			d := operands[0]
			if d.Kind != ExprLiteral || d.Lit.Type.Kind != KindInt || d.Lit.Int < 0 {
				return nil, fmt.Errorf("%w: wait duration must be a non-negative integer literal", ErrInvalidOperand)
			}
			duration = int(d.Lit.Int)
			objs = operands[1:]
		}
		if condition != nil && !(condition.Kind == ExprLiteral && condition.Lit.Bit) {
			return nil, fmt.Errorf("%w: wait/barrier may not carry a condition", ErrInvalidCondition)
		}
		return &Statement{Kind: StmtWait, WaitDuration: duration, WaitObjects: objs}, nil

	default:
		types := make([]*DataType, len(operands))
		for i, o := range operands {
			types[i] = o.Type()
		}
		it, err := p.Instructions.FindInstructionType(name, types, synthesize)
		if err != nil {
			if allowFail {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %q", ErrNoSuchInstruction, name)
		}
		if len(it.Operands) != len(operands) {
			return nil, fmt.Errorf("%w: %q expects %d operands, got %d", ErrOperandTypeMismatch, name, len(it.Operands), len(operands))
		}
		for i, proto := range it.Operands {
			if !proto.Type.Equal(operands[i].Type()) {
				return nil, fmt.Errorf("%w: %q operand %d: expected %v, got %v", ErrOperandTypeMismatch, name, i, proto.Type, operands[i].Type())
			}
		}
		return &Statement{Kind: StmtCustomInstruction, Custom: &CustomInstruction{Type: it, Operands: operands, Condition: condition}}, nil
	}
}

// NewDummy returns a DummyInstruction placeholder, used as a DDG source
// or sink.
func NewDummy() *Statement { return &Statement{Kind: StmtDummy} }

// NewGoto returns a GotoInstruction targeting block.
func NewGoto(block *Block) *Statement { return &Statement{Kind: StmtGoto, GotoTarget: block} }
