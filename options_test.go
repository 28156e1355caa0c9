// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package watercolor

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/watercolor/params"
	"github.com/gogpu/watercolor/render"
)

// TestDefaultOptions tests the configuration used without options.
func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.rendersDir != DefaultRendersDir {
		t.Errorf("rendersDir = %q, want %q", o.rendersDir, DefaultRendersDir)
	}
	if render.HasGPU(o.device) {
		t.Error("default device reports a GPU")
	}
	if o.store != nil || o.paper != nil {
		t.Error("default options carry a store or paper")
	}
	if o.lighting != DefaultLighting() {
		t.Errorf("lighting = %+v, want default", o.lighting)
	}
}

func TestOptionsApply(t *testing.T) {
	store, err := params.NewStore(params.Neutral())
	if err != nil {
		t.Fatal(err)
	}
	paper := whitePaper(t)
	light := DefaultLighting()
	light.SunColor = mgl32.Vec3{1, 0, 0}

	o := defaultOptions()
	for _, opt := range []Option{
		WithParameters(store),
		WithPaper(paper),
		WithRendersDir("out"),
		WithLighting(light),
		WithDevice(render.NullDeviceHandle{}),
	} {
		opt(&o)
	}
	if o.store != store || o.paper != paper {
		t.Error("store or paper not applied")
	}
	if o.rendersDir != "out" {
		t.Errorf("rendersDir = %q", o.rendersDir)
	}
	if o.lighting.SunColor != light.SunColor {
		t.Errorf("SunColor = %v", o.lighting.SunColor)
	}
}

// TestOptionsIgnoreEmpty tests that zero values keep the defaults.
func TestOptionsIgnoreEmpty(t *testing.T) {
	o := defaultOptions()
	WithRendersDir("")(&o)
	WithDevice(nil)(&o)
	if o.rendersDir != DefaultRendersDir {
		t.Errorf("empty dir replaced the default: %q", o.rendersDir)
	}
	if o.device == nil {
		t.Error("nil device replaced the null device")
	}
}

// TestNewUsesSharedStore tests that a renderer reads the injected store.
func TestNewUsesSharedStore(t *testing.T) {
	store, err := params.NewStore(params.Defaults())
	if err != nil {
		t.Fatal(err)
	}
	r, err := New(loadScene(t, cardScene), WithParameters(store))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Params() != store {
		t.Error("renderer did not keep the injected store")
	}
}
