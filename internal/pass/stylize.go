// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pass

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/watercolor/params"
	"github.com/gogpu/watercolor/texture"
)

// edgeGain scales local contrast into the edge darkening exponent.
const edgeGain = 5

// StylizeUniforms are the values of the stylization program.
type StylizeUniforms struct {
	Bleed            bool
	Distortion       bool
	DistortionAmount float32
	Density          float32
}

// NewStylizeUniforms derives the stylization values from p.
func NewStylizeUniforms(p params.Parameters) StylizeUniforms {
	return StylizeUniforms{
		Bleed:            p.Bleed,
		Distortion:       p.Distortion,
		DistortionAmount: p.DistortionAmount,
		Density:          p.Density,
	}
}

// Kind returns KindStylize.
func (StylizeUniforms) Kind() Kind { return KindStylize }

// Bytes encodes the uniform block of stylize.wgsl.
func (u StylizeUniforms) Bytes() []byte {
	var w uniformWriter
	w.bool32(u.Bleed)
	w.bool32(u.Distortion)
	w.f32(u.DistortionAmount)
	w.f32(u.Density)
	return w.bytes()
}

// StylizeTextures are the buffers the stylization program reads and the
// final buffer it writes.
type StylizeTextures struct {
	Color   *texture.Texture
	Control *texture.Texture
	Blurred *texture.Texture
	Bleeded *texture.Texture
	Surface *texture.Texture
	Final   *texture.Texture
}

// Stylize composites the final image: color bleeding, edge darkening,
// granulation and paper tint, optionally at a location pushed around by
// the paper relief.
func Stylize(t StylizeTextures, u StylizeUniforms) error {
	if err := sameSize(t.Color, t.Control, t.Blurred, t.Bleeded, t.Surface, t.Final); err != nil {
		return fmt.Errorf("stylize pass: %w", err)
	}
	width, height := t.Final.Size()
	for y := range height {
		for x := range width {
			surface := t.Surface.Fetch(x, y)
			qx, qy := x, y
			if u.Distortion {
				qx, qy = distort(x, y, surface, t.Control.Fetch(x, y)[0], u.DistortionAmount)
			}
			t.Final.Store(x, y, stylizePixel(
				t.Color.Fetch(qx, qy),
				t.Control.Fetch(qx, qy),
				t.Blurred.Fetch(qx, qy),
				t.Bleeded.Fetch(qx, qy),
				surface,
				&u,
			))
		}
	}
	slogger().Debug("stylize pass", "bleed", u.Bleed, "distortion", u.Distortion)
	return nil
}

// distort shifts (x, y) along the paper relief normal stored in the surface
// green and blue channels, scaled by the control red channel. Fetches clamp,
// so the result may point outside the image.
func distort(x, y int, surface mgl32.Vec4, strength, amount float32) (int, int) {
	ox := (surface[1]*2 - 1) * strength * amount
	oy := (surface[2]*2 - 1) * strength * amount
	return x + int(math.Round(float64(ox))), y + int(math.Round(float64(oy)))
}

func stylizePixel(color, control, blurred, bleeded, surface mgl32.Vec4, u *StylizeUniforms) mgl32.Vec4 {
	c := color.Vec3()
	if u.Bleed {
		b := control[2]
		c = c.Add(bleeded.Vec3().Sub(c).Mul(b))
	}

	maxDiff := float32(0)
	for i := range 3 {
		maxDiff = max(maxDiff, float32(math.Abs(float64(blurred[i]-color[i]))))
	}
	c = darken(c, EdgeExponent(maxDiff, control[2]))

	piv := PigmentValley(surface[0])
	c = Granulate(c, control[1]*u.Density*piv)

	tint := surface[3]
	return mgl32.Vec4{c[0] * tint, c[1] * tint, c[2] * tint, 1}
}

// EdgeExponent returns the power applied to a pixel's color for edge
// darkening. It grows with the local contrast maxDiff and shrinks to 1 as
// the bleed control approaches 1.
func EdgeExponent(maxDiff, bleedControl float32) float32 {
	return 1 + (1-bleedControl)*maxDiff*edgeGain
}

func darken(c mgl32.Vec3, e float32) mgl32.Vec3 {
	if e == 1 {
		return c
	}
	for i := range c {
		c[i] = float32(math.Pow(float64(max(c[i], 0)), float64(e)))
	}
	return c
}

// PigmentValley returns the pigment valley factor of a paper height.
func PigmentValley(height float32) float32 {
	return 0.5 * (1 - height)
}

// Granulate blends c toward its square by weight w, clamped to [0, 1].
// A zero weight returns c unchanged.
func Granulate(c mgl32.Vec3, w float32) mgl32.Vec3 {
	w = mgl32.Clamp(w, 0, 1)
	if w == 0 {
		return c
	}
	for i := range c {
		c[i] += (c[i]*c[i] - c[i]) * w
	}
	return c
}
