// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package ir

// StmtKind identifies which variant of the Statement tagged union a value
// holds.
type StmtKind int

const (
	StmtCustomInstruction StmtKind = iota
	StmtSet
	StmtGoto
	StmtWait
	StmtIfElse
	StmtStaticLoop
	StmtForLoop
	StmtRepeatUntilLoop
	StmtLoopControl
	StmtDummy
)

// LoopControlKind distinguishes break from continue.
type LoopControlKind int

const (
	LoopBreak LoopControlKind = iota
	LoopContinue
)

// Branch is one arm of an IfElse statement.
type Branch struct {
	Condition *Expr
	Body *SubBlock
}

// CustomInstruction is a gate or classical-operation application. Cycle is filled in by the scheduler; it is meaningless before a
// successful schedule.
type CustomInstruction struct {
	Type *InstructionType
	Operands []*Expr
	Condition *Expr // nil means "always"; literal true bit if omitted at build time
	Cycle int
}

// SetInstruction assigns rhs to an assignable classical reference.
type SetInstruction struct {
	LHS *Expr
	RHS *Expr
	Condition *Expr
	Cycle int
}

// Statement is a tagged union over the statement forms.
// Exactly one of the pointer fields matching Kind is non-nil.
type Statement struct {
	Kind StmtKind

	Custom *CustomInstruction
	Set *SetInstruction

	GotoTarget *Block

	WaitDuration int
	WaitObjects []*Expr

	Branches []Branch
	Otherwise *SubBlock

	// StaticLoop
	LoopLHS *Expr
	LoopFrom int
	LoopTo int
	Body *SubBlock

	// ForLoop
	ForInit *Statement
	ForCond *Expr
	ForUpdate *Statement

	// RepeatUntilLoop reuses Body and ForCond (the until-condition).

	LoopControlKind LoopControlKind

	// annotations, attached by later passes
	DDG *DdgNode
	Deep *DeepCriticality

	// cycle backs GetCycle/SetCycle for statement kinds with no natural
	// cycle field of their own (dummy, control flow, wait, goto,
	// loop-control).
	cycle int
}

// IsDummy reports whether s is a DummyInstruction placeholder used as a
// DDG source/sink.
func (s *Statement) IsDummy() bool { return s.Kind == StmtDummy }

// GetCycle returns the statement's scheduling cycle. Statement kinds that
// do not carry one directly (dummies, control flow) keep it in a private
// field set by SetCycle, which starts at 0.
func (s *Statement) GetCycle() int {
	switch s.Kind {
	case StmtCustomInstruction:
		return s.Custom.Cycle
	case StmtSet:
		return s.Set.Cycle
	default:
		return s.cycle
	}
}

// SetCycle sets the statement's scheduling cycle.
func (s *Statement) SetCycle(c int) {
	switch s.Kind {
	case StmtCustomInstruction:
		s.Custom.Cycle = c
	case StmtSet:
		s.Set.Cycle = c
	default:
		s.cycle = c
	}
}

// Duration returns the statement's duration in cycles for DDG edge-weight
// computation.
func (s *Statement) Duration() int {
	switch s.Kind {
	case StmtCustomInstruction:
		return s.Custom.Type.Duration
	case StmtWait:
		return s.WaitDuration
	default:
		return 0
	}
}
