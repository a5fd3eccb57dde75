// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package ir

// ExprKind identifies which variant of the Expr tagged union a value
// holds.
type ExprKind int

const (
	ExprLiteral ExprKind = iota
	ExprReference
	ExprTypeCast
	ExprFunctionCall
)

// Literal is any compile-time-known value: int, bit, real, complex,
// string, or matrix, tagged by its DataType.
type Literal struct {
	Type *DataType

	Int int64
	Uint uint64
	Bit bool
	Real float64
	Complex complex128
	Str string
	Matrix []complex128 // row-major, len must match Type.Shape product
}

// Expr is a tagged union over Literal, Reference, TypeCast, and
// FunctionCall.
type Expr struct {
	Kind ExprKind

	// ExprLiteral
	Lit *Literal

	// ExprReference
	Target *PhysicalObject
	Indices []*Expr
	ImplicitBit bool

	// ExprTypeCast
	Inner *Expr
	Target_ *DataType // cast target type; named to avoid clashing with Target above in docs

	// ExprFunctionCall
	Function *FunctionType
	Operands []*Expr
}

// NewLiteral builds a literal expression.
func NewLiteral(l *Literal) *Expr { return &Expr{Kind: ExprLiteral, Lit: l} }

// NewReference builds a reference expression to target, optionally
// indexed, optionally selecting the implicit bit of a qubit reference.
func NewReference(target *PhysicalObject, indices []*Expr, implicitBit bool) *Expr {
	return &Expr{Kind: ExprReference, Target: target, Indices: indices, ImplicitBit: implicitBit}
}

// NewTypeCast builds a type-cast expression.
func NewTypeCast(inner *Expr, target *DataType) *Expr {
	return &Expr{Kind: ExprTypeCast, Inner: inner, Target_: target}
}

// NewFunctionCall builds a function-call expression.
func NewFunctionCall(fn *FunctionType, operands []*Expr) *Expr {
	return &Expr{Kind: ExprFunctionCall, Function: fn, Operands: operands}
}

// Type returns the static data type of the expression.
func (e *Expr) Type() *DataType {
	switch e.Kind {
	case ExprLiteral:
		return e.Lit.Type
	case ExprReference:
		if e.ImplicitBit {
			return nil // resolved by caller against the platform's implicit bit type
		}
		return e.Target.Type
	case ExprTypeCast:
		return e.Target_
	case ExprFunctionCall:
		return e.Function.Result
	default:
		return nil
	}
}

// RefKey identifies the object (and, where statically known, the index
// path and implicit-bit flag) that an access touches; it is the key used
// by access-mode aggregation and by the DDG builder.
type RefKey struct {
	Object *PhysicalObject
	Index string // "*" if not statically known, else a decimal-joined path
	ImplicitBit bool
}

// Key computes the RefKey for a reference expression. Indices that are not
// literal ints are treated as unknown ("*"), which conservatively makes the
// reference alias every element of the object.
func (e *Expr) Key() RefKey {
	idx := "*"
	if len(e.Indices) == 0 {
		idx = ""
	} else {
		allLiteral := true
		s := ""
		for i, ix := range e.Indices {
			if ix.Kind != ExprLiteral || ix.Lit.Type.Kind != KindInt {
				allLiteral = false
				break
			}
			if i > 0 {
				s += ","
			}
			s += itoa(ix.Lit.Int)
		}
		if allLiteral {
			idx = s
		}
	}
	return RefKey{Object: e.Target, Index: idx, ImplicitBit: e.ImplicitBit}
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
