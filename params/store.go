// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package params

import (
	"fmt"
	"sync"
)

// MaxFrameDelta bounds the time step applied by Advance, so a stalled frame
// does not make the tremor jump.
const MaxFrameDelta = 0.1

// Store is the parameter store. It is safe for concurrent use.
//
// Writes go to the live values and become visible to passes at the next
// Sync, which a renderer calls once at the start of each frame.
type Store struct {
	mu    sync.Mutex
	live  Parameters
	frame Parameters
	dirty bool
}

// NewStore returns a store holding p. It fails when p violates a hint.
func NewStore(p Parameters) (*Store, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Store{live: p, frame: p}, nil
}

// Set stages a numeric or boolean write. Booleans are true for non-zero v.
func (s *Store) Set(name string, v float64) error {
	f, err := lookup(name)
	if err != nil {
		return err
	}
	if f.kind == KindBool {
		v = boolFloat(v != 0)
	}
	return s.apply(f, v)
}

// SetString stages a write given in text form, the way the command line and
// the tuning channel supply values.
func (s *Store) SetString(name, value string) error {
	f, err := lookup(name)
	if err != nil {
		return err
	}
	v, err := f.parse(value)
	if err != nil {
		return err
	}
	return s.apply(f, v)
}

// SetValue stages a write from a decoded document value.
func (s *Store) SetValue(name string, value any) error {
	f, err := lookup(name)
	if err != nil {
		return err
	}
	switch v := value.(type) {
	case string:
		return s.SetString(name, v)
	case bool:
		return s.apply(f, boolFloat(v))
	case int:
		return s.apply(f, float64(v))
	case float64:
		return s.apply(f, v)
	default:
		return fmt.Errorf("%w: %s = %v (%T)", ErrInvalidValue, name, value, value)
	}
}

func (s *Store) apply(f *field, v any) error {
	if err := f.check(v); err != nil {
		return err
	}
	s.mu.Lock()
	f.set(&s.live, v)
	s.dirty = true
	s.mu.Unlock()
	return nil
}

// Get returns the latest value written to name, including staged writes.
// Numbers are float64, ints are int, booleans bool and strings string.
func (s *Store) Get(name string) (any, error) {
	f, err := lookup(name)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return f.hint(&s.live).Value, nil
}

// Describe returns a hint with the latest value for every parameter.
func (s *Store) Describe() []Hint {
	s.mu.Lock()
	defer s.mu.Unlock()
	hints := make([]Hint, len(fields))
	for i := range fields {
		hints[i] = fields[i].hint(&s.live)
	}
	return hints
}

// Advance moves the animation clock forward by dt seconds, at most
// MaxFrameDelta.
func (s *Store) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	dt = min(dt, MaxFrameDelta)
	s.mu.Lock()
	s.live.Time += float32(dt)
	s.dirty = true
	s.mu.Unlock()
}

// Sync applies staged writes and returns the parameters for the frame about
// to start. Passes must read only the returned copy.
func (s *Store) Sync() Parameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dirty {
		s.frame = s.live
		s.dirty = false
	}
	return s.frame
}

// Current returns the parameters of the last Sync without applying staged
// writes.
func (s *Store) Current() Parameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Snapshot returns the latest values, including staged writes.
func (s *Store) Snapshot() Parameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}
