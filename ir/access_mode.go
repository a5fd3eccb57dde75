// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package ir

// AccessMode classifies how an instruction operand touches the object it
// refers to. Two accesses commute iff their modes are equal
// and belong to {Read, CommuteX, CommuteY, CommuteZ, Literal, Ignore}.
type AccessMode int

const (
	Write AccessMode = iota
	Read
	Literal
	CommuteX
	CommuteY
	CommuteZ
	Measure
	Ignore
)

func (m AccessMode) String() string {
	switch m {
	case Write:
		return "write"
	case Read:
		return "read"
	case Literal:
		return "literal"
	case CommuteX:
		return "commute_x"
	case CommuteY:
		return "commute_y"
	case CommuteZ:
		return "commute_z"
	case Measure:
		return "measure"
	case Ignore:
		return "ignore"
	default:
		return "invalid"
	}
}

// Commutes reports whether two accesses with modes a and b, on the same
// reference key, may be reordered.
func Commutes(a, b AccessMode) bool {
	if a != b {
		return false
	}
	switch a {
	case Read, CommuteX, CommuteY, CommuteZ, Literal, Ignore:
		return true
	default:
		return false
	}
}

// OperandType is one entry in an instruction type's operand prototype: an
// access mode and a data type.
type OperandType struct {
	Mode AccessMode
	Type *DataType
}
