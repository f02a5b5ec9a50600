// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plugin

import (
	"math"
	"sync"

	"github.com/emer/slowsyn/slowsyn"
)

// Handle is the opaque reference a host holds for one instance.
// The low 32 bits are the slot index + 1, the high 32 bits the slot generation,
// so a handle to a destroyed instance never matches a later occupant of its slot.
type Handle uint64

// NullHandle is never returned by Create and is ignored by every entry point
const NullHandle Handle = 0

func makeHandle(idx int, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(idx+1))
}

// Index returns the slot index encoded in the handle, -1 for the null handle
func (h Handle) Index() int {
	return int(uint32(h)) - 1
}

// Gen returns the slot generation encoded in the handle
func (h Handle) Gen() uint32 {
	return uint32(h >> 32)
}

// slot holds one instance, nil when free
type slot struct {
	syn *slowsyn.Synapse
	gen uint32
}

// Instances is the process-owned table of live synapse instances.
// Slots are reused after Delete, with a new generation.
// The table lock only protects the slots: an instance is owned
// by whoever holds its handle, and calls on it are not serialized here.
type Instances struct {
	mu    sync.RWMutex
	slots []slot
	free  []int
	live  int
}

// New allocates a default Synapse and returns its handle.
// Running out of slot indexes is fatal.
func (it *Instances) New() Handle {
	syn := slowsyn.New()
	it.mu.Lock()
	defer it.mu.Unlock()
	var idx int
	if n := len(it.free); n > 0 {
		idx = it.free[n-1]
		it.free = it.free[:n-1]
	} else {
		if uint64(len(it.slots)) >= math.MaxUint32-1 {
			panic("plugin: instance table is full")
		}
		idx = len(it.slots)
		it.slots = append(it.slots, slot{})
	}
	sl := &it.slots[idx]
	sl.gen++
	if sl.gen == 0 { // wrapped
		sl.gen = 1
	}
	sl.syn = syn
	it.live++
	return makeHandle(idx, sl.gen)
}

// get returns the slot for h, nil if h is null, out of range, free or stale.
// Must be called with the lock held.
func (it *Instances) get(h Handle) *slot {
	idx := h.Index()
	if idx < 0 || idx >= len(it.slots) {
		return nil
	}
	sl := &it.slots[idx]
	if sl.syn == nil || sl.gen != h.Gen() {
		return nil
	}
	return sl
}

// Synapse returns the instance for h, nil if h does not refer to a live instance
func (it *Instances) Synapse(h Handle) *slowsyn.Synapse {
	it.mu.RLock()
	defer it.mu.RUnlock()
	sl := it.get(h)
	if sl == nil {
		return nil
	}
	return sl.syn
}

// Delete releases the instance for h.  Returns false, doing nothing,
// if h does not refer to a live instance.
func (it *Instances) Delete(h Handle) bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	sl := it.get(h)
	if sl == nil {
		return false
	}
	sl.syn = nil
	it.free = append(it.free, h.Index())
	it.live--
	return true
}

// Len returns the number of live instances
func (it *Instances) Len() int {
	it.mu.RLock()
	defer it.mu.RUnlock()
	return it.live
}
