// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package params holds the named render parameters read by every pass.
//
// Parameters is a plain value: a frame works on its own copy, so a pass can
// adjust fields for its own use without affecting the next frame. The Store
// owns the live values and hands out a copy at each frame boundary; writes
// from a tuning channel are staged until then.
package params

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrUnknownParameter is returned for names the store does not hold.
	ErrUnknownParameter = errors.New("params: unknown parameter")

	// ErrOutOfRange is returned when a value falls outside its hint range.
	ErrOutOfRange = errors.New("params: value out of range")

	// ErrInvalidValue is returned when a value cannot be parsed or does not
	// fit the parameter type.
	ErrInvalidValue = errors.New("params: invalid value")
)

// Parameters are the values read by the passes of one frame.
type Parameters struct {
	Time             float32 `yaml:"time" json:"time"`
	Speed            float32 `yaml:"speed" json:"speed"`
	Frequency        float32 `yaml:"frequency" json:"frequency"`
	TremorAmount     float32 `yaml:"tremor_amount" json:"tremor_amount"`
	DA               float32 `yaml:"dA" json:"dA"`
	Cangiante        float32 `yaml:"cangiante_variable" json:"cangiante_variable"`
	Dilution         float32 `yaml:"dilution_variable" json:"dilution_variable"`
	Density          float32 `yaml:"density_amount" json:"density_amount"`
	DepthThreshold   float32 `yaml:"depth_threshold" json:"depth_threshold"`
	BlurAmount       int     `yaml:"blur_amount" json:"blur_amount"`
	Show             Stage   `yaml:"show" json:"show"`
	Bleed            bool    `yaml:"bleed" json:"bleed"`
	Distortion       bool    `yaml:"distortion" json:"distortion"`
	DistortionAmount float32 `yaml:"distortion_amount" json:"distortion_amount"`
	CameraSpin       float32 `yaml:"camera_spin" json:"camera_spin"` // degrees
	Capture          string  `yaml:"capture" json:"capture"`
}

// Defaults returns the stock parameter values.
func Defaults() Parameters {
	return Parameters{
		Speed:            13,
		Frequency:        0.02,
		TremorAmount:     0.5,
		DA:               0.12,
		Cangiante:        0.05,
		Dilution:         0.95,
		Density:          1,
		DepthThreshold:   0,
		BlurAmount:       5,
		Show:             StageFinal,
		Bleed:            true,
		Distortion:       true,
		DistortionAmount: 5,
	}
}

// Neutral returns parameters under which every stylization step reduces to
// the identity.
func Neutral() Parameters {
	p := Defaults()
	p.Speed = 0
	p.TremorAmount = 0
	p.Cangiante = 0
	p.Dilution = 0
	p.Density = 0
	p.BlurAmount = 1
	p.DepthThreshold = 0
	p.Bleed = false
	p.Distortion = false
	return p
}

// Validate checks every field against its hint.
func (p Parameters) Validate() error {
	for _, f := range fields {
		if err := f.check(f.get(&p)); err != nil {
			return err
		}
	}
	return nil
}

// Kind is the type of a parameter.
type Kind uint8

const (
	// KindFloat is a float parameter.
	KindFloat Kind = iota

	// KindInt is an integer parameter.
	KindInt

	// KindBool is a boolean parameter.
	KindBool

	// KindString is a string parameter.
	KindString
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Hint describes a parameter for tuning UIs.
type Hint struct {
	Name   string  `json:"name"`
	Kind   Kind    `json:"-"`
	Type   string  `json:"type"`
	Ranged bool    `json:"ranged"`
	Min    float64 `json:"min,omitempty"`
	Max    float64 `json:"max,omitempty"`
	Value  any     `json:"value"`
	Usage  string  `json:"usage"`
}

// field binds a parameter name to a Parameters field. Numeric and bool
// values travel as float64, strings as string.
type field struct {
	name   string
	kind   Kind
	ranged bool
	min    float64
	max    float64
	usage  string
	get    func(*Parameters) any
	set    func(*Parameters, any)
}

func floatField(name string, ptr func(*Parameters) *float32, usage string) field {
	return field{
		name:  name,
		kind:  KindFloat,
		usage: usage,
		get:   func(p *Parameters) any { return float64(*ptr(p)) },
		set:   func(p *Parameters, v any) { *ptr(p) = float32(v.(float64)) },
	}
}

func rangedFloat(name string, lo, hi float64, ptr func(*Parameters) *float32, usage string) field {
	f := floatField(name, ptr, usage)
	f.ranged, f.min, f.max = true, lo, hi
	return f
}

var fields = []field{
	floatField("time", func(p *Parameters) *float32 { return &p.Time }, "animation time in seconds"),
	floatField("speed", func(p *Parameters) *float32 { return &p.Speed }, "hand tremor speed"),
	floatField("frequency", func(p *Parameters) *float32 { return &p.Frequency }, "hand tremor spatial frequency"),
	floatField("tremor_amount", func(p *Parameters) *float32 { return &p.TremorAmount }, "hand tremor amplitude in pixels"),
	rangedFloat("dA", 0.0001, 1, func(p *Parameters) *float32 { return &p.DA }, "dilution area width"),
	rangedFloat("cangiante_variable", 0, 1, func(p *Parameters) *float32 { return &p.Cangiante }, "cangiante hue shift"),
	rangedFloat("dilution_variable", 0, 1, func(p *Parameters) *float32 { return &p.Dilution }, "pigment dilution toward paper"),
	rangedFloat("density_amount", 0, 1, func(p *Parameters) *float32 { return &p.Density }, "granulation density"),
	rangedFloat("depth_threshold", 0, 0.001, func(p *Parameters) *float32 { return &p.DepthThreshold }, "bleed depth threshold"),
	{
		name: "blur_amount", kind: KindInt, ranged: true, min: 1, max: 20,
		usage: "Gaussian blur radius in pixels",
		get:   func(p *Parameters) any { return float64(p.BlurAmount) },
		set:   func(p *Parameters, v any) { p.BlurAmount = int(v.(float64)) },
	},
	{
		name: "show", kind: KindInt, ranged: true, min: 0, max: float64(StageFinal),
		usage: "debug stage to display",
		get:   func(p *Parameters) any { return float64(p.Show) },
		set:   func(p *Parameters, v any) { p.Show = Stage(v.(float64)) },
	},
	{
		name: "bleed", kind: KindBool, usage: "enable color bleeding",
		get: func(p *Parameters) any { return boolFloat(p.Bleed) },
		set: func(p *Parameters, v any) { p.Bleed = v.(float64) != 0 },
	},
	{
		name: "distortion", kind: KindBool, usage: "enable paper distortion",
		get: func(p *Parameters) any { return boolFloat(p.Distortion) },
		set: func(p *Parameters, v any) { p.Distortion = v.(float64) != 0 },
	},
	rangedFloat("distortion_amount", 0, 20, func(p *Parameters) *float32 { return &p.DistortionAmount }, "paper distortion in pixels"),
	floatField("camera_spin", func(p *Parameters) *float32 { return &p.CameraSpin }, "camera rotation about the vertical axis in degrees"),
	{
		name: "capture", kind: KindString, usage: "capture the next frame to renders/<name>.png",
		get: func(p *Parameters) any { return p.Capture },
		set: func(p *Parameters, v any) { p.Capture = v.(string) },
	},
}

// Names returns every parameter name in declaration order.
func Names() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

func lookup(name string) (*field, error) {
	for i := range fields {
		if fields[i].name == name {
			return &fields[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
}

func (f *field) hint(p *Parameters) Hint {
	h := Hint{
		Name:   f.name,
		Kind:   f.kind,
		Type:   f.kind.String(),
		Ranged: f.ranged,
		Min:    f.min,
		Max:    f.max,
		Usage:  f.usage,
	}
	switch v := f.get(p).(type) {
	case float64:
		switch f.kind {
		case KindInt:
			h.Value = int(v)
		case KindBool:
			h.Value = v != 0
		default:
			h.Value = v
		}
	default:
		h.Value = v
	}
	return h
}

// check validates a value already converted to the field's carrier type.
func (f *field) check(v any) error {
	switch f.kind {
	case KindString:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("%w: %s expects a string", ErrInvalidValue, f.name)
		}
		return nil
	}
	x, ok := v.(float64)
	if !ok {
		return fmt.Errorf("%w: %s expects a number", ErrInvalidValue, f.name)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Errorf("%w: %s = %v", ErrInvalidValue, f.name, x)
	}
	if f.kind == KindInt && x != math.Trunc(x) {
		return fmt.Errorf("%w: %s expects an integer, got %v", ErrInvalidValue, f.name, x)
	}
	// float32 storage rounds ranged bounds slightly; compare in float32.
	if f.ranged && (float32(x) < float32(f.min) || float32(x) > float32(f.max)) {
		return fmt.Errorf("%w: %s = %v not in [%v, %v]", ErrOutOfRange, f.name, x, f.min, f.max)
	}
	return nil
}

// parse converts a textual value to the field's carrier type.
func (f *field) parse(s string) (any, error) {
	s = strings.TrimSpace(s)
	switch f.kind {
	case KindString:
		return s, nil
	case KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s = %q", ErrInvalidValue, f.name, s)
		}
		return boolFloat(b), nil
	}
	if f.name == "show" {
		st, err := ParseStage(s)
		if err != nil {
			return nil, err
		}
		return float64(st), nil
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s = %q", ErrInvalidValue, f.name, s)
	}
	return x, nil
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
