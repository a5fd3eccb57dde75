// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package ir

// Direction is the orientation of a block's DDG: Forward for ASAP
// scheduling, Reversed for ALAP.
type Direction int

const (
	Forward Direction = 1
	Reversed Direction = -1
)

// SubBlock owns an ordered sequence of statements plus optional DDG and
// scheduling metadata. A SubBlock that has not been built
// into a DDG has a zero Direction.
type SubBlock struct {
	Statements []*Statement
	Direction Direction
}

// Block is a named SubBlock that can be the target of a GotoInstruction.
type Block struct {
	Name string
	*SubBlock
}

// NewSubBlock returns an empty sub-block.
func NewSubBlock() *SubBlock { return &SubBlock{} }

// Append adds a statement to the end of the block.
func (b *SubBlock) Append(s *Statement) { b.Statements = append(b.Statements, s) }

// Program is the root of an IR tree: a platform reference, a name, and an
// ordered list of top-level blocks.
type Program struct {
	Name string
	Platform *Platform
	Blocks []*Block
}

// FindBlock returns the block with the given name, or nil.
func (p *Program) FindBlock(name string) *Block {
	for _, b := range p.Blocks {
		if b.Name == name {
			return b
		}
	}
	return nil
}
