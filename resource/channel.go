// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package resource

import (
	"fmt"

	"github.com/QuTech-Delft/OpenQL-sub006/ir"
)

// channelResource implements channel resource: each core
// has a fixed number of inter-core channels; an "extern" instruction must
// find one free channel on each of its operand qubits' cores.
type channelResource struct {
	name string
	coreSize int
	channelsPerCore int
	channels map[int][]window // core -> per-channel occupied window (zero window = free)
}

func newChannelResource(c Config) *channelResource {
	r := &channelResource{
		name: c.Name,
		coreSize: intParam(c.Params["core_size"], 1),
		channelsPerCore: intParam(c.Params["channels_per_core"], 1),
		channels: make(map[int][]window),
	}
	return r
}

func (r *channelResource) Name() string { return r.name }

func (r *channelResource) coreOf(q int) int {
	if r.coreSize < 1 {
		return 0
	}
	return q / r.coreSize
}

func (r *channelResource) coresOf(inst *ir.Statement) map[int]bool {
	cores := make(map[int]bool)
	for _, q := range qubitsOf(inst) {
		cores[r.coreOf(q)] = true
	}
	return cores
}

func (r *channelResource) freeChannel(core int, w window) (int, bool) {
	chans := r.channels[core]
	for i := 0; i < r.channelsPerCore; i++ {
		if i >= len(chans) || !chans[i].overlaps(w) {
			return i, true
		}
	}
	return 0, false
}

func (r *channelResource) Available(direction Direction, cycle int, inst *ir.Statement) bool {
	if instructionName(inst) != "extern" {
		return true
	}
	w := occupiedRange(direction, cycle, instructionDuration(inst))
	for core := range r.coresOf(inst) {
		if _, ok := r.freeChannel(core, w); !ok {
			return false
		}
	}
	return true
}

func (r *channelResource) Reserve(direction Direction, cycle int, inst *ir.Statement) {
	if instructionName(inst) != "extern" {
		return
	}
	w := occupiedRange(direction, cycle, instructionDuration(inst))
	for core := range r.coresOf(inst) {
		idx, _ := r.freeChannel(core, w)
		chans := r.channels[core]
		for len(chans) <= idx {
			chans = append(chans, window{})
		}
		chans[idx] = w
		r.channels[core] = chans
	}
}

func (r *channelResource) Dump() StateDump {
	return StateDump{Name: r.name, Detail: fmt.Sprintf("%d cores tracked: %+v", len(r.channels), r.channels)}
}

func (r *channelResource) Clone() Resource {
	return &channelResource{name: r.name, coreSize: r.coreSize, channelsPerCore: r.channelsPerCore, channels: make(map[int][]window)}
}
