// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pass

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/watercolor/scene"
	"github.com/gogpu/watercolor/texture"
)

// ErrNoPaper is returned by the surface pass when no paper is bound.
var ErrNoPaper = errors.New("pass: no paper texture")

// Surface tint range: valleys facing away from the light darken to the
// first value, ridges facing it brighten toward the second.
const (
	tintLow  = 0.65
	tintHigh = 1.1
)

// SurfaceUniforms are the values of the surface program.
type SurfaceUniforms struct {
	// Light is the fixed direction lighting the paper relief.
	Light mgl32.Vec3
}

// DefaultSurfaceUniforms lights the paper from the upper right.
func DefaultSurfaceUniforms() SurfaceUniforms {
	return SurfaceUniforms{Light: scene.Normalize(mgl32.Vec3{1, 1, 1})}
}

// Kind returns KindSurface.
func (SurfaceUniforms) Kind() Kind { return KindSurface }

// Bytes encodes the uniform block of surface.wgsl.
func (u SurfaceUniforms) Bytes() []byte {
	var w uniformWriter
	w.vec3(u.Light)
	return w.bytes()
}

// Surface writes paper height, relief normal and tint into dst. The paper
// is tiled at one texel per pixel. Normals come from height differences
// taken once per 2x2 pixel quad, the way fragment derivatives are.
func Surface(paper, dst *texture.Texture, u SurfaceUniforms) error {
	if paper == nil {
		return ErrNoPaper
	}
	if dst == nil {
		return fmt.Errorf("surface pass: %w", ErrMismatchedTextures)
	}
	width, height := dst.Size()
	heightAt := func(x, y int) float32 { return paper.FetchWrap(x, y)[0] }

	for y := range height {
		qy := y &^ 1
		for x := range width {
			qx := x &^ 1
			h := heightAt(x, y)
			// Derivatives use window coordinates, where y grows upward.
			dx := heightAt(qx+1, qy) - heightAt(qx, qy)
			dy := heightAt(qx, qy) - heightAt(qx, qy+1)

			n := ReliefNormal(dx, dy)
			dst.Store(x, y, mgl32.Vec4{h, 0.5*n[0] + 0.5, 0.5*n[1] + 0.5, Tint(n, u.Light)})
		}
	}
	slogger().Debug("surface pass", "size", fmt.Sprintf("%dx%d", width, height))
	return nil
}

// ReliefNormal returns the normal of a height field with slopes dx and dy.
func ReliefNormal(dx, dy float32) mgl32.Vec3 {
	tx := scene.Normalize(mgl32.Vec3{1, 0, dx})
	ty := scene.Normalize(mgl32.Vec3{0, 1, dy})
	return scene.Normalize(tx.Cross(ty))
}

// Tint returns the paper shading factor for normal n under light l.
func Tint(n, l mgl32.Vec3) float32 {
	t := (n.Dot(l) + 1) / 2
	return tintLow + (tintHigh-tintLow)*t
}

