// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package watercolor

import (
	"github.com/gogpu/watercolor/internal/pass"
	"github.com/gogpu/watercolor/params"
	"github.com/gogpu/watercolor/render"
	"github.com/gogpu/watercolor/texture"
)

// Lighting is the sun and sky light of the scene pass. A directional lamp
// named "Sun" and a hemisphere lamp named "Sky" in the scene override the
// matching half.
type Lighting = pass.Lighting

// DefaultLighting returns the lighting used when neither an option nor the
// scene provides one.
func DefaultLighting() Lighting { return pass.DefaultLighting() }

// DefaultRendersDir is where captures are written unless WithRendersDir
// says otherwise.
const DefaultRendersDir = "renders"

// DefaultPaperSize is the side of the procedural paper generated when no
// paper texture is given.
const DefaultPaperSize = 256

// Option configures a Renderer during creation.
// Use functional options to customize Renderer behavior.
//
// Example:
//
//	// CPU rendering with default parameters
//	r, err := watercolor.New(s)
//
//	// Shared parameter store and a scanned paper
//	r, err := watercolor.New(s,
//	    watercolor.WithParameters(store),
//	    watercolor.WithPaper(paper))
type Option func(*options)

// options holds optional configuration for Renderer creation.
type options struct {
	device     render.DeviceHandle
	paper      *texture.Texture
	store      *params.Store
	rendersDir string
	lighting   Lighting
}

// defaultOptions returns the default renderer options.
func defaultOptions() options {
	return options{
		device:     render.NullDeviceHandle{},
		rendersDir: DefaultRendersDir,
		lighting:   pass.DefaultLighting(),
	}
}

// WithDevice supplies the host GPU device. Without it, or with a handle that
// carries no device, the renderer runs on the CPU only.
func WithDevice(h render.DeviceHandle) Option {
	return func(o *options) {
		if h != nil {
			o.device = h
		}
	}
}

// WithPaper sets the paper texture. Its red channel is the paper height.
// The texture tiles across the frame at one texel per pixel.
func WithPaper(t *texture.Texture) Option {
	return func(o *options) {
		o.paper = t
	}
}

// WithParameters shares a parameter store with the renderer, so a tuning
// channel or command line can write to it.
func WithParameters(s *params.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithRendersDir sets the directory captures are written to.
func WithRendersDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.rendersDir = dir
		}
	}
}

// WithLighting replaces the default sun and sky.
func WithLighting(l Lighting) Option {
	return func(o *options) {
		o.lighting = l
	}
}
