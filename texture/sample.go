// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AddressMode selects how out-of-range coordinates are resolved when sampling.
type AddressMode uint8

const (
	// AddressClampToEdge clamps coordinates to the edge texels.
	AddressClampToEdge AddressMode = iota

	// AddressRepeat tiles the texture.
	AddressRepeat
)

// Sample performs bilinear filtering at normalized coordinates (u, v), where
// (0, 0) is the top-left corner of the texture and (1, 1) the bottom-right.
// A nil texture samples as opaque white, the way an unbound material slot is
// treated.
func (t *Texture) Sample(u, v float32, mode AddressMode) mgl32.Vec4 {
	if t == nil {
		return mgl32.Vec4{1, 1, 1, 1}
	}
	fx := float64(u)*float64(t.width) - 0.5
	fy := float64(v)*float64(t.height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := float32(fx - float64(x0))
	ty := float32(fy - float64(y0))

	fetch := t.Fetch
	if mode == AddressRepeat {
		fetch = t.FetchWrap
	}

	c00 := fetch(x0, y0)
	c10 := fetch(x0+1, y0)
	c01 := fetch(x0, y0+1)
	c11 := fetch(x0+1, y0+1)

	top := lerp(c00, c10, tx)
	bottom := lerp(c01, c11, tx)
	return lerp(top, bottom, ty)
}

func lerp(a, b mgl32.Vec4, t float32) mgl32.Vec4 {
	return a.Add(b.Sub(a).Mul(t))
}
