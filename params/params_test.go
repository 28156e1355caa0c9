// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package params

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(Defaults())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestDefaultsValid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Errorf("Defaults().Validate() = %v", err)
	}
	if err := Neutral().Validate(); err != nil {
		t.Errorf("Neutral().Validate() = %v", err)
	}
}

func TestDefaultValues(t *testing.T) {
	p := Defaults()
	if p.Speed != 13 || p.Frequency != 0.02 || p.TremorAmount != 0.5 {
		t.Errorf("tremor defaults = %v/%v/%v", p.Speed, p.Frequency, p.TremorAmount)
	}
	if p.DA != 0.12 || p.Cangiante != 0.05 || p.Dilution != 0.95 || p.Density != 1 {
		t.Errorf("pigment defaults = %v/%v/%v/%v", p.DA, p.Cangiante, p.Dilution, p.Density)
	}
	if p.BlurAmount != 5 || p.Show != StageFinal || !p.Bleed || !p.Distortion {
		t.Errorf("pipeline defaults = %v/%v/%v/%v", p.BlurAmount, p.Show, p.Bleed, p.Distortion)
	}
}

func TestSetIsStagedUntilSync(t *testing.T) {
	s := newStore(t)
	before := s.Sync()

	if err := s.Set("dilution_variable", 0.3); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := s.Current().Dilution; got != before.Dilution {
		t.Errorf("Current().Dilution = %v before Sync, want %v", got, before.Dilution)
	}
	if got, _ := s.Get("dilution_variable"); got != float64(float32(0.3)) {
		t.Errorf("Get = %v, want staged 0.3", got)
	}
	if got := s.Sync().Dilution; got != 0.3 {
		t.Errorf("Sync().Dilution = %v, want 0.3", got)
	}
}

func TestSyncReturnsCopy(t *testing.T) {
	s := newStore(t)
	p := s.Sync()
	p.Dilution = 0
	p.TremorAmount = 0
	if got := s.Sync(); got.Dilution != Defaults().Dilution || got.TremorAmount != Defaults().TremorAmount {
		t.Errorf("modifying a synced copy changed the store: %+v", got)
	}
}

func TestSetErrors(t *testing.T) {
	tests := []struct {
		name  string
		param string
		value float64
		want  error
	}{
		{"unknown", "nope", 1, ErrUnknownParameter},
		{"below range", "dA", 0, ErrOutOfRange},
		{"above range", "dilution_variable", 1.5, ErrOutOfRange},
		{"blur too large", "blur_amount", 21, ErrOutOfRange},
		{"blur zero", "blur_amount", 0, ErrOutOfRange},
		{"fractional int", "blur_amount", 2.5, ErrInvalidValue},
		{"show too large", "show", 8, ErrOutOfRange},
		{"string as number", "capture", 1, ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			if err := s.Set(tt.param, tt.value); !errors.Is(err, tt.want) {
				t.Errorf("Set(%q, %v) = %v, want %v", tt.param, tt.value, err, tt.want)
			}
			if got := s.Snapshot(); got != Defaults() {
				t.Errorf("rejected write changed the store: %+v", got)
			}
		})
	}
}

func TestSetString(t *testing.T) {
	tests := []struct {
		param string
		value string
		check func(Parameters) bool
	}{
		{"bleed", "false", func(p Parameters) bool { return !p.Bleed }},
		{"distortion", "0", func(p Parameters) bool { return !p.Distortion }},
		{"show", "pigment", func(p Parameters) bool { return p.Show == StagePigment }},
		{"show", "4", func(p Parameters) bool { return p.Show == StageGaussianBlur }},
		{"blur_amount", " 12 ", func(p Parameters) bool { return p.BlurAmount == 12 }},
		{"capture", "shot", func(p Parameters) bool { return p.Capture == "shot" }},
		{"frequency", "0.5", func(p Parameters) bool { return p.Frequency == 0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.param+"="+tt.value, func(t *testing.T) {
			s := newStore(t)
			if err := s.SetString(tt.param, tt.value); err != nil {
				t.Fatalf("SetString: %v", err)
			}
			if p := s.Sync(); !tt.check(p) {
				t.Errorf("unexpected parameters after SetString: %+v", p)
			}
		})
	}
}

func TestSetStringInvalid(t *testing.T) {
	s := newStore(t)
	for _, tc := range [][2]string{{"bleed", "maybe"}, {"speed", "fast"}, {"show", "sideways"}} {
		if err := s.SetString(tc[0], tc[1]); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("SetString(%q, %q) = %v, want ErrInvalidValue", tc[0], tc[1], err)
		}
	}
}

func TestSetBoolNonZero(t *testing.T) {
	s := newStore(t)
	if err := s.Set("bleed", 0); err != nil {
		t.Fatal(err)
	}
	if s.Sync().Bleed {
		t.Error("bleed = true after Set(0)")
	}
	if err := s.Set("bleed", 3); err != nil {
		t.Fatal(err)
	}
	if !s.Sync().Bleed {
		t.Error("bleed = false after Set(3)")
	}
}

func TestDescribe(t *testing.T) {
	s := newStore(t)
	hints := s.Describe()
	if len(hints) != len(Names()) {
		t.Fatalf("len(Describe()) = %d, want %d", len(hints), len(Names()))
	}
	byName := make(map[string]Hint, len(hints))
	for _, h := range hints {
		byName[h.Name] = h
	}

	blur := byName["blur_amount"]
	if !blur.Ranged || blur.Min != 1 || blur.Max != 20 || blur.Value != 5 || blur.Type != "int" {
		t.Errorf("blur_amount hint = %+v", blur)
	}
	if bleed := byName["bleed"]; bleed.Value != true || bleed.Type != "bool" {
		t.Errorf("bleed hint = %+v", bleed)
	}
	if capture := byName["capture"]; capture.Value != "" || capture.Type != "string" {
		t.Errorf("capture hint = %+v", capture)
	}
	if speed := byName["speed"]; speed.Ranged {
		t.Errorf("speed should not be ranged: %+v", speed)
	}
}

func TestAdvanceClampsDelta(t *testing.T) {
	s := newStore(t)
	s.Advance(5)
	if got := s.Sync().Time; got != float32(MaxFrameDelta) {
		t.Errorf("Time = %v after Advance(5), want %v", got, MaxFrameDelta)
	}
	s.Advance(-1)
	if got := s.Sync().Time; got != float32(MaxFrameDelta) {
		t.Errorf("negative Advance changed time to %v", got)
	}
}

func TestConcurrentWritesAndSync(t *testing.T) {
	s := newStore(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.Set("blur_amount", float64(1+(i+j)%20))
				_ = s.Sync()
			}
		}(i)
	}
	wg.Wait()
	if got := s.Sync().BlurAmount; got < 1 || got > 20 {
		t.Errorf("BlurAmount = %d after concurrent writes", got)
	}
}

func TestParseStage(t *testing.T) {
	for i := 0; i < StageCount; i++ {
		st := Stage(i)
		got, err := ParseStage(st.String())
		if err != nil || got != st {
			t.Errorf("ParseStage(%q) = %v, %v", st.String(), got, err)
		}
	}
	if _, err := ParseStage("-1"); err == nil {
		t.Error("ParseStage(-1) succeeded")
	}
	if got := Stage(42).String(); got != "Stage(42)" {
		t.Errorf("Stage(42).String() = %q", got)
	}
}

func TestApplyPreset(t *testing.T) {
	s := newStore(t)
	preset := "dilution_variable: 0.5\nblur_amount: 9\nshow: surface\nbleed: false\n"
	if err := ApplyPreset(strings.NewReader(preset), s); err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}
	p := s.Sync()
	if p.Dilution != 0.5 || p.BlurAmount != 9 || p.Show != StageSurface || p.Bleed {
		t.Errorf("preset not applied: %+v", p)
	}
}

func TestApplyPresetRejectsAtomically(t *testing.T) {
	for _, preset := range []string{
		"dilution_variable: 0.5\nblur_amount: 99\n",
		"dilution_variable: 0.5\nno_such_thing: 1\n",
		"dilution_variable: [1, 2]\n",
	} {
		s := newStore(t)
		if err := ApplyPreset(strings.NewReader(preset), s); err == nil {
			t.Errorf("ApplyPreset(%q) succeeded, want error", preset)
		}
		if got := s.Snapshot(); got != Defaults() {
			t.Errorf("failed preset %q changed the store", preset)
		}
	}
}

func TestApplyPresetEmpty(t *testing.T) {
	s := newStore(t)
	if err := ApplyPreset(strings.NewReader(""), s); err != nil {
		t.Errorf("ApplyPreset(empty) = %v", err)
	}
}

func TestWritePresetRoundTrip(t *testing.T) {
	want := Defaults()
	want.Dilution = 0.25
	want.Show = StageBilateralBlur

	var buf bytes.Buffer
	if err := WritePreset(&buf, want); err != nil {
		t.Fatalf("WritePreset: %v", err)
	}
	s := newStore(t)
	if err := ApplyPreset(&buf, s); err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}
	if got := s.Sync(); got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}
