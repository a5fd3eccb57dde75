// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package resource

// window is a half-open occupied-cycle range [Lo, Hi).
type window struct {
	Lo, Hi int
}

func (w window) overlaps(o window) bool { return w.Lo < o.Hi && o.Lo < w.Hi }

// occupiedRange computes the absolute cycle range an instruction of the
// given duration occupies when started at cycle in the given direction:
// forward instructions occupy [cycle, cycle+duration); reversed
// (ALAP/backward) instructions occupy [cycle-duration+1, cycle+1), i.e.
// duration cycles ending at cycle.
func occupiedRange(direction Direction, cycle, duration int) window {
	if duration < 1 {
		duration = 1
	}
	if direction == Forward {
		return window{Lo: cycle, Hi: cycle + duration}
	}
	return window{Lo: cycle - duration + 1, Hi: cycle + 1}
}
