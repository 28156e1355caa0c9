// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

// handle addresses an arena slot. The generation starts at 1, so the zero
// handle never resolves.
type handle struct {
	index uint32
	gen   uint32
}

type slot[T any] struct {
	gen   uint32
	alive bool
	value T
}

// arena stores values in stable slots. Removing a value bumps its slot
// generation, so stale handles stop resolving instead of aliasing the next
// occupant.
type arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

func (a *arena[T]) insert(v T) handle {
	a.count++
	if n := len(a.free); n > 0 {
		i := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[i]
		s.alive = true
		s.value = v
		return handle{index: i, gen: s.gen}
	}
	a.slots = append(a.slots, slot[T]{gen: 1, alive: true, value: v})
	return handle{index: uint32(len(a.slots) - 1), gen: 1}
}

func (a *arena[T]) get(h handle) (*T, bool) {
	if int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.index]
	if !s.alive || s.gen != h.gen {
		return nil, false
	}
	return &s.value, true
}

func (a *arena[T]) remove(h handle) bool {
	if _, ok := a.get(h); !ok {
		return false
	}
	s := &a.slots[h.index]
	var zero T
	s.value = zero
	s.alive = false
	s.gen++
	a.free = append(a.free, h.index)
	a.count--
	return true
}

// each visits live values in slot order.
func (a *arena[T]) each(fn func(handle, *T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.alive {
			fn(handle{index: uint32(i), gen: s.gen}, &s.value)
		}
	}
}

func (a *arena[T]) len() int { return a.count }
