// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pass

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/watercolor/params"
	"github.com/gogpu/watercolor/texture"
)

// Axis is the direction of one half of the dual blur.
type Axis uint8

const (
	// AxisHorizontal samples along rows.
	AxisHorizontal Axis = iota

	// AxisVertical samples along columns.
	AxisVertical
)

func (a Axis) step() (int, int) {
	if a == AxisVertical {
		return 0, 1
	}
	return 1, 0
}

// BlurUniforms are the values of one blur program.
type BlurUniforms struct {
	Axis           Axis
	Radius         int
	DepthThreshold float32

	// Weights holds the half kernel for Radius in its first Radius entries.
	Weights [MaxBlurRadius]float32
}

// NewBlurUniforms derives the blur values for axis from p.
func NewBlurUniforms(p params.Parameters, axis Axis) BlurUniforms {
	u := BlurUniforms{
		Axis:           axis,
		Radius:         ClampRadius(p.BlurAmount),
		DepthThreshold: p.DepthThreshold,
	}
	copy(u.Weights[:], Weights.Row(u.Radius))
	return u
}

// Kind returns KindBlurHorizontal or KindBlurVertical.
func (u BlurUniforms) Kind() Kind {
	if u.Axis == AxisVertical {
		return KindBlurVertical
	}
	return KindBlurHorizontal
}

// Bytes encodes the uniform block of blur.wgsl. Weights are packed four to
// a vec4 since uniform arrays have a 16 byte stride.
func (u BlurUniforms) Bytes() []byte {
	var w uniformWriter
	w.i32(int32(u.Radius))
	w.f32(u.DepthThreshold)
	dx, dy := u.Axis.step()
	w.i32(int32(dx))
	w.i32(int32(dy))
	for i := 0; i < MaxBlurRadius; i += 4 {
		w.vec4(mgl32.Vec4{u.Weights[i], u.Weights[i+1], u.Weights[i+2], u.Weights[i+3]})
	}
	return w.bytes()
}

// BlurSources are the textures one blur program reads. The horizontal
// program reads the scene color for both filters; the vertical program
// reads each filter's own intermediate.
type BlurSources struct {
	Blur    *texture.Texture
	Bleed   *texture.Texture
	Control *texture.Texture
	Depth   *texture.Texture
}

// BlurTargets are the textures one blur program writes.
type BlurTargets struct {
	Blurred *texture.Texture
	Bleeded *texture.Texture
	Control *texture.Texture
}

// Blur runs one half of the dual blur. It writes the Gaussian blur of
// src.Blur, the depth and control aware bleed of src.Bleed, and the control
// buffer with alpha set to 1 where a neighbor's color bled in. The vertical
// half keeps the marks of the horizontal half.
func Blur(src BlurSources, dst BlurTargets, u BlurUniforms) error {
	if err := sameSize(src.Blur, src.Bleed, src.Control, src.Depth, dst.Blurred, dst.Bleeded, dst.Control); err != nil {
		return fmt.Errorf("%s pass: %w", u.Kind(), err)
	}
	width, height := src.Blur.Size()
	dx, dy := u.Axis.step()
	radius := ClampRadius(u.Radius)
	weights := u.Weights[:radius]

	bled := 0
	for y := range height {
		for x := range width {
			dst.Blurred.Store(x, y, gaussian(src.Blur, x, y, dx, dy, weights))

			c, flagged := bleed(src, x, y, dx, dy, u.DepthThreshold)
			dst.Bleeded.Store(x, y, c)

			ctrl := src.Control.Fetch(x, y)
			if u.Axis == AxisVertical && ctrl[3] > 0 {
				flagged = true
			}
			ctrl[3] = 0
			if flagged {
				ctrl[3] = 1
				bled++
			}
			dst.Control.Store(x, y, ctrl)
		}
	}
	slogger().Debug("blur pass", "axis", u.Kind(), "radius", radius, "bled", bled)
	return nil
}

// gaussian filters t along (dx, dy) with a symmetric half kernel.
func gaussian(t *texture.Texture, x, y, dx, dy int, weights []float32) mgl32.Vec4 {
	acc := t.Fetch(x, y).Mul(weights[0])
	for i := 1; i < len(weights); i++ {
		a := t.Fetch(x+dx*i, y+dy*i)
		b := t.Fetch(x-dx*i, y-dy*i)
		acc = acc.Add(a.Add(b).Mul(weights[i]))
	}
	return acc
}

// bleed filters src.Bleed with the fixed kernel, letting a neighbor's color
// in only where the control and depth test allows it. Other taps take the
// center color. It also reports whether any neighbor bled in.
func bleed(src BlurSources, x, y, dx, dy int, threshold float32) (mgl32.Vec4, bool) {
	center := src.Bleed.Fetch(x, y)
	ctrlX := src.Control.Fetch(x, y)[2]
	zX := src.Depth.Fetch(x, y)[0]

	var acc mgl32.Vec4
	flagged := false
	for i := -BleedRadius; i <= BleedRadius; i++ {
		nx, ny := x+dx*i, y+dy*i
		w := bleedKernel[i+BleedRadius]
		if BleedsFrom(ctrlX, src.Control.Fetch(nx, ny)[2], zX, src.Depth.Fetch(nx, ny)[0], threshold) {
			acc = acc.Add(src.Bleed.Fetch(nx, ny).Mul(w))
			flagged = flagged || i != 0
		} else {
			acc = acc.Add(center.Mul(w))
		}
	}
	return acc, flagged
}

// BleedsFrom reports whether a neighbor's color bleeds into the center
// pixel. ctrl values are the control buffer blue channels and z values the
// depths of the center and the neighbor.
//
// When the neighbor is nearer than the center by more than threshold, the
// neighbor's control bit decides; otherwise the center's does. This is the
// rule of the published algorithm as written; it is asymmetric on purpose
// and still awaits review by someone who knows the paper well.
func BleedsFrom(ctrlCenter, ctrlNeighbor, zCenter, zNeighbor, threshold float32) bool {
	if ctrlCenter <= 0 && ctrlNeighbor <= 0 {
		return false
	}
	if zCenter-threshold > zNeighbor {
		return ctrlNeighbor > 0
	}
	return ctrlCenter > 0
}

// DualBlurTextures are the buffers the two blur halves run over.
type DualBlurTextures struct {
	Color, Control, Depth            *texture.Texture
	BlurTemp, BleedTemp, ControlTemp *texture.Texture
	Blurred, Bleeded                 *texture.Texture
}

// DualBlur runs the horizontal then the vertical blur. The vertical half
// writes its control output back into t.Control.
func DualBlur(t DualBlurTextures, p params.Parameters) error {
	h := NewBlurUniforms(p, AxisHorizontal)
	if err := Blur(
		BlurSources{Blur: t.Color, Bleed: t.Color, Control: t.Control, Depth: t.Depth},
		BlurTargets{Blurred: t.BlurTemp, Bleeded: t.BleedTemp, Control: t.ControlTemp},
		h,
	); err != nil {
		return err
	}
	v := NewBlurUniforms(p, AxisVertical)
	return Blur(
		BlurSources{Blur: t.BlurTemp, Bleed: t.BleedTemp, Control: t.ControlTemp, Depth: t.Depth},
		BlurTargets{Blurred: t.Blurred, Bleeded: t.Bleeded, Control: t.Control},
		v,
	)
}
