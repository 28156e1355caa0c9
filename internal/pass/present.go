// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pass

import (
	"fmt"
	"image/color"

	"github.com/gogpu/watercolor/internal/pool"
	"github.com/gogpu/watercolor/params"
	"github.com/gogpu/watercolor/render"
	"github.com/gogpu/watercolor/texture"
)

// PresentUniforms are the values of the present program.
type PresentUniforms struct {
	Show params.Stage
}

// Kind returns KindPresent.
func (PresentUniforms) Kind() Kind { return KindPresent }

// Bytes encodes the uniform block of present.wgsl. The program itself only
// needs to know whether to swizzle for a BGRA surface; the stage is carried
// for debugging.
func (u PresentUniforms) Bytes() []byte {
	var w uniformWriter
	w.i32(int32(u.Show))
	return w.bytes()
}

// Source returns the buffer shown for stage. The three shading stages all
// show the color buffer; they differ in how the scene pass shades it.
func Source(stage params.Stage) pool.Role {
	switch stage {
	case params.StageFinal:
		return pool.RoleFinal
	case params.StageControlColors:
		return pool.RoleControl
	case params.StageGaussianBlur:
		return pool.RoleBlurred
	case params.StageBilateralBlur:
		return pool.RoleBleeded
	case params.StageSurface:
		return pool.RoleSurface
	default:
		return pool.RoleColor
	}
}

// Present copies src texel for texel into dst, converting to the target's
// surface format.
func Present(src *texture.Texture, dst *render.ScreenTarget, u PresentUniforms) error {
	if src == nil || dst == nil {
		return fmt.Errorf("present pass: %w", ErrMismatchedTextures)
	}
	width, height := src.Size()
	if dst.Width() != width || dst.Height() != height {
		return fmt.Errorf("present pass: %w: source %dx%d, target %dx%d",
			ErrMismatchedTextures, width, height, dst.Width(), dst.Height())
	}
	for y := range height {
		for x := range width {
			v := src.Fetch(x, y)
			dst.SetTexel(x, y, color.NRGBA{
				R: texture.Unorm8(v[0]),
				G: texture.Unorm8(v[1]),
				B: texture.Unorm8(v[2]),
				A: texture.Unorm8(v[3]),
			})
		}
	}
	slogger().Debug("present pass", "show", u.Show, "source", src.Label())
	return nil
}
