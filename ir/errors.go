// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package ir

import "errors"

// Sentinel errors for IR construction failures. Callers match with errors.Is.
var (
	ErrInvalidName = errors.New("ir: invalid identifier")
	ErrDuplicate = errors.New("ir: duplicate name")
	ErrNotFound = errors.New("ir: not found")
	ErrNoSuchInstruction = errors.New("ir: no matching instruction overload")
	ErrOperandTypeMismatch = errors.New("ir: operand type mismatch")
	ErrInvalidCondition = errors.New("ir: invalid condition")
	ErrInvalidOperand = errors.New("ir: invalid operand")
)
