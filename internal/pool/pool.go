// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pool owns the frame buffer set shared by the render passes.
//
// Every buffer in the set has the same size. A resize builds a complete new
// set and swaps it in at once, so passes never observe buffers of mixed
// sizes.
package pool

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/watercolor/render"
	"github.com/gogpu/watercolor/texture"
)

// ErrInvalidSize is returned by EnsureSize for sizes the device cannot hold.
var ErrInvalidSize = errors.New("pool: invalid frame buffer size")

// Role names one buffer of the set.
type Role int

const (
	// RoleColor is the lit scene color written by the scene pass.
	RoleColor Role = iota

	// RoleControl holds the per-pixel effect controls. The vertical blur
	// rewrites its alpha to mark bled pixels.
	RoleControl

	// RoleDepth is the scene depth buffer.
	RoleDepth

	// RoleBlurTemp holds the horizontally blurred color.
	RoleBlurTemp

	// RoleBleedTemp holds the horizontally bled color.
	RoleBleedTemp

	// RoleControlTemp holds the control buffer after the horizontal pass.
	RoleControlTemp

	// RoleBlurred is the separable Gaussian blur of the color buffer.
	RoleBlurred

	// RoleBleeded is the depth and control aware bleed of the color buffer.
	RoleBleeded

	// RoleSurface holds paper height, normal and tint.
	RoleSurface

	// RoleFinal is the stylized image.
	RoleFinal

	// RoleCount is the number of roles.
	RoleCount
)

var roleInfo = [RoleCount]struct {
	name   string
	format gputypes.TextureFormat
}{
	RoleColor:       {"color", gputypes.TextureFormatRGBA8Unorm},
	RoleControl:     {"control", gputypes.TextureFormatRGBA32Float},
	RoleDepth:       {"depth", gputypes.TextureFormatDepth24Plus},
	RoleBlurTemp:    {"blur_temp", gputypes.TextureFormatRGBA32Float},
	RoleBleedTemp:   {"bleed_temp", gputypes.TextureFormatRGBA32Float},
	RoleControlTemp: {"control_temp", gputypes.TextureFormatRGBA32Float},
	RoleBlurred:     {"blurred", gputypes.TextureFormatRGBA32Float},
	RoleBleeded:     {"bleeded", gputypes.TextureFormatRGBA32Float},
	RoleSurface:     {"surface", gputypes.TextureFormatRGBA8Unorm},
	RoleFinal:       {"final", gputypes.TextureFormatRGBA8Unorm},
}

// String returns the buffer label of the role.
func (r Role) String() string {
	if r < 0 || r >= RoleCount {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleInfo[r].name
}

// Format returns the texture format the role is allocated with.
func (r Role) Format() gputypes.TextureFormat {
	if r < 0 || r >= RoleCount {
		return gputypes.TextureFormatUndefined
	}
	return roleInfo[r].format
}

// Pool is the frame buffer set. The zero value is not usable; call New.
//
// Pool is not safe for concurrent use. It is driven by the single goroutine
// that renders frames.
type Pool struct {
	caps          render.DeviceCapabilities
	width, height int
	set           [RoleCount]*texture.Texture
	descriptors   [RoleCount]render.TextureDescriptor

	allocations  int
	surfaceStale bool
}

// New returns an empty pool bounded by caps. Buffers are allocated lazily by
// the first EnsureSize.
func New(caps render.DeviceCapabilities) *Pool {
	if caps.MaxTextureSize == 0 {
		caps.MaxTextureSize = render.DefaultMaxTextureSize
	}
	return &Pool{caps: caps, surfaceStale: true}
}

// EnsureSize makes every buffer width x height. It does nothing when the set
// already has that size. Otherwise the whole set is reallocated and the
// surface buffer is marked stale. On error the previous set is kept.
func (p *Pool) EnsureSize(width, height int) error {
	if p.set[0] != nil && width == p.width && height == p.height {
		return nil
	}
	limit := int(p.caps.MaxTextureSize)
	if width <= 0 || height <= 0 || width > limit || height > limit {
		return fmt.Errorf("%w: %dx%d (limit %d)", ErrInvalidSize, width, height, limit)
	}

	var (
		set   [RoleCount]*texture.Texture
		descs [RoleCount]render.TextureDescriptor
	)
	for r := Role(0); r < RoleCount; r++ {
		d := render.AttachmentDescriptor(r.String(), uint32(width), uint32(height), r.Format())
		t, err := texture.New(int(d.Width), int(d.Height), d.Format)
		if err != nil {
			return fmt.Errorf("pool: allocate %s: %w", r, err)
		}
		t.SetLabel(d.Label)
		set[r], descs[r] = t, d
	}

	p.set, p.descriptors = set, descs
	p.width, p.height = width, height
	p.allocations += int(RoleCount)
	p.surfaceStale = true
	return nil
}

// Size returns the current buffer size, or 0, 0 before the first EnsureSize.
func (p *Pool) Size() (int, int) { return p.width, p.height }

// Texture returns the buffer for role, or nil before the first EnsureSize.
func (p *Pool) Texture(r Role) *texture.Texture {
	if r < 0 || r >= RoleCount {
		return nil
	}
	return p.set[r]
}

// Descriptor returns the descriptor the buffer for role was created from.
func (p *Pool) Descriptor(r Role) render.TextureDescriptor {
	if r < 0 || r >= RoleCount {
		return render.TextureDescriptor{}
	}
	return p.descriptors[r]
}

// Allocations returns the number of textures allocated over the lifetime of
// the pool.
func (p *Pool) Allocations() int { return p.allocations }

// SurfaceStale reports whether the surface buffer must be recomputed.
func (p *Pool) SurfaceStale() bool { return p.surfaceStale }

// MarkSurfaceStale forces the surface buffer to be recomputed, for example
// after the paper texture changed.
func (p *Pool) MarkSurfaceStale() { p.surfaceStale = true }

// MarkSurfaceFresh records that the surface buffer is up to date.
func (p *Pool) MarkSurfaceFresh() { p.surfaceStale = false }

// Bytes returns the memory held by the current set.
func (p *Pool) Bytes() int {
	n := 0
	for r := Role(0); r < RoleCount; r++ {
		n += p.width * p.height * texture.BytesPerTexel(r.Format())
	}
	return n
}
