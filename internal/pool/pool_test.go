// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pool

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/watercolor/render"
)

func newPool() *Pool {
	return New(render.DeviceCapabilities{MaxTextureSize: 64})
}

func TestEnsureSizeIdempotent(t *testing.T) {
	p := newPool()
	if err := p.EnsureSize(8, 4); err != nil {
		t.Fatalf("EnsureSize: %v", err)
	}
	first := p.Allocations()
	if first != int(RoleCount) {
		t.Fatalf("allocations after first EnsureSize = %d, want %d", first, RoleCount)
	}
	color := p.Texture(RoleColor)

	if err := p.EnsureSize(8, 4); err != nil {
		t.Fatalf("second EnsureSize: %v", err)
	}
	if got := p.Allocations() - first; got != 0 {
		t.Errorf("second EnsureSize allocated %d textures, want 0", got)
	}
	if p.Texture(RoleColor) != color {
		t.Error("second EnsureSize replaced the color buffer")
	}
}

func TestEnsureSizeReallocatesWholeSet(t *testing.T) {
	p := newPool()
	if err := p.EnsureSize(8, 4); err != nil {
		t.Fatal(err)
	}
	if err := p.EnsureSize(5, 7); err != nil {
		t.Fatal(err)
	}
	if got, want := p.Allocations(), 2*int(RoleCount); got != want {
		t.Errorf("allocations = %d, want %d", got, want)
	}
	for r := Role(0); r < RoleCount; r++ {
		tex := p.Texture(r)
		if tex == nil {
			t.Fatalf("%s is nil", r)
		}
		if w, h := tex.Size(); w != 5 || h != 7 {
			t.Errorf("%s size = %dx%d, want 5x7", r, w, h)
		}
		if tex.Format() != r.Format() {
			t.Errorf("%s format = %v, want %v", r, tex.Format(), r.Format())
		}
		if tex.Label() != r.String() {
			t.Errorf("%s label = %q", r, tex.Label())
		}
		d := p.Descriptor(r)
		if d.Width != 5 || d.Height != 7 {
			t.Errorf("%s descriptor size = %dx%d", r, d.Width, d.Height)
		}
		if d.Usage&gputypes.TextureUsageRenderAttachment == 0 {
			t.Errorf("%s descriptor lacks render attachment usage", r)
		}
	}
}

func TestRoleFormats(t *testing.T) {
	tests := []struct {
		role Role
		want gputypes.TextureFormat
	}{
		{RoleColor, gputypes.TextureFormatRGBA8Unorm},
		{RoleFinal, gputypes.TextureFormatRGBA8Unorm},
		{RoleSurface, gputypes.TextureFormatRGBA8Unorm},
		{RoleControl, gputypes.TextureFormatRGBA32Float},
		{RoleBlurTemp, gputypes.TextureFormatRGBA32Float},
		{RoleBleedTemp, gputypes.TextureFormatRGBA32Float},
		{RoleControlTemp, gputypes.TextureFormatRGBA32Float},
		{RoleBlurred, gputypes.TextureFormatRGBA32Float},
		{RoleBleeded, gputypes.TextureFormatRGBA32Float},
		{RoleDepth, gputypes.TextureFormatDepth24Plus},
		{RoleCount, gputypes.TextureFormatUndefined},
	}
	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			if got := tt.role.Format(); got != tt.want {
				t.Errorf("Format() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnsureSizeInvalid(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 4},
		{"zero height", 4, 0},
		{"negative", -1, 4},
		{"over limit", 65, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPool()
			if err := p.EnsureSize(4, 4); err != nil {
				t.Fatal(err)
			}
			err := p.EnsureSize(tt.w, tt.h)
			if !errors.Is(err, ErrInvalidSize) {
				t.Fatalf("EnsureSize(%d, %d) = %v, want ErrInvalidSize", tt.w, tt.h, err)
			}
			if w, h := p.Size(); w != 4 || h != 4 {
				t.Errorf("size after failure = %dx%d, want previous 4x4", w, h)
			}
			if p.Allocations() != int(RoleCount) {
				t.Errorf("failed EnsureSize allocated textures")
			}
		})
	}
}

func TestSurfaceStale(t *testing.T) {
	p := newPool()
	if !p.SurfaceStale() {
		t.Error("new pool surface is not stale")
	}
	if err := p.EnsureSize(4, 4); err != nil {
		t.Fatal(err)
	}
	p.MarkSurfaceFresh()
	if p.SurfaceStale() {
		t.Fatal("MarkSurfaceFresh did not clear the flag")
	}

	if err := p.EnsureSize(4, 4); err != nil {
		t.Fatal(err)
	}
	if p.SurfaceStale() {
		t.Error("same-size EnsureSize marked the surface stale")
	}

	if err := p.EnsureSize(6, 4); err != nil {
		t.Fatal(err)
	}
	if !p.SurfaceStale() {
		t.Error("resize did not mark the surface stale")
	}

	p.MarkSurfaceFresh()
	p.MarkSurfaceStale()
	if !p.SurfaceStale() {
		t.Error("MarkSurfaceStale did not set the flag")
	}
}

func TestResizeStartsCleared(t *testing.T) {
	p := newPool()
	if err := p.EnsureSize(2, 2); err != nil {
		t.Fatal(err)
	}
	p.Texture(RoleFinal).Clear(mgl32.Vec4{1, 1, 1, 1})
	if err := p.EnsureSize(3, 3); err != nil {
		t.Fatal(err)
	}
	if got := p.Texture(RoleFinal).Fetch(0, 0); got != (mgl32.Vec4{}) {
		t.Errorf("new final buffer texel = %v, want zero", got)
	}
}

func TestBytes(t *testing.T) {
	p := newPool()
	if p.Bytes() != 0 {
		t.Errorf("Bytes before allocation = %d", p.Bytes())
	}
	if err := p.EnsureSize(2, 3); err != nil {
		t.Fatal(err)
	}
	// 3 RGBA8 + 1 depth at 4 bytes, 6 RGBA32Float at 16 bytes.
	want := 2 * 3 * (4*4 + 6*16)
	if got := p.Bytes(); got != want {
		t.Errorf("Bytes = %d, want %d", got, want)
	}
}

func TestDefaultLimit(t *testing.T) {
	p := New(render.DeviceCapabilities{})
	if err := p.EnsureSize(render.DefaultMaxTextureSize+1, 1); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("EnsureSize above default limit = %v", err)
	}
}
