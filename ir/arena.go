// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package ir implements the owned-tree intermediate representation for a
// quantum program: platforms, data types, physical objects, instruction
// types (with specialization and decomposition), expressions, statements,
// and blocks.
package ir

// Ref is a non-owning, index-based reference into an Arena of T. The zero
// value refers to the first slot; a negative value such as Nil refers to
// nothing.
type Ref[T any] int

// Nil is the reference that refers to no value.
const Nil Ref[int] = -1

// Valid reports whether r refers to a live slot.
func (r Ref[T]) Valid() bool { return r >= 0 }

// Arena owns a growable slice of T, handed out to callers as stable
// Ref[T] indices. Arena never reclaims slots: destroying a node in this
// IR means unlinking it from its owner, not freeing arena storage, which
// keeps Ref[T] valid for the lifetime of the owning Platform or Program.
type Arena[T any] struct {
	items []T
}

// Add appends v and returns a reference to it.
func (a *Arena[T]) Add(v T) Ref[T] {
	a.items = append(a.items, v)
	return Ref[T](len(a.items) - 1)
}

// At returns a pointer to the value referred to by r. It panics if r is
// out of range: an out-of-range ref is an internal-consistency bug, not
// an expected failure.
func (a *Arena[T]) At(r Ref[T]) *T {
	return &a.items[r]
}

// Len returns the number of values stored in the arena.
func (a *Arena[T]) Len() int { return len(a.items) }

// All iterates every stored value in insertion order.
func (a *Arena[T]) All(yield func(Ref[T], *T) bool) {
	for i := range a.items {
		if !yield(Ref[T](i), &a.items[i]) {
			return
		}
	}
}
