// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
)

// Uniform returns an RGBA8Unorm texture filled with c.
func Uniform(width, height int, c mgl32.Vec4) (*Texture, error) {
	t, err := New(width, height, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		return nil, err
	}
	t.Clear(c)
	return t, nil
}

// Paper returns a grayscale paper height texture built from two octaves of
// value noise. It tiles seamlessly when both sides are multiples of 16, and
// the same seed always produces the same texels. Heights stay within
// [0.55, 1] so granulation has valleys to settle in without the sheet
// reading as dark.
func Paper(width, height int, seed uint32) (*Texture, error) {
	t, err := New(width, height, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		return nil, err
	}
	const (
		coarseCell = 16
		fineCell   = 4
	)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			n := 0.65*valueNoise(x, y, coarseCell, width, height, seed) +
				0.35*valueNoise(x, y, fineCell, width, height, seed^0x9e3779b9)
			h := float32(0.55 + 0.45*n)
			t.Store(x, y, mgl32.Vec4{h, h, h, 1})
		}
	}
	return t, nil
}

// valueNoise samples smoothly interpolated lattice noise with a lattice that
// wraps at the texture size, so the result tiles.
func valueNoise(x, y, cell, width, height int, seed uint32) float64 {
	cols := max(1, (width+cell-1)/cell)
	rows := max(1, (height+cell-1)/cell)

	fx := float64(x) / float64(cell)
	fy := float64(y) / float64(cell)
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := smoothstep(fx - float64(x0))
	ty := smoothstep(fy - float64(y0))

	v00 := lattice(wrap(x0, cols), wrap(y0, rows), seed)
	v10 := lattice(wrap(x0+1, cols), wrap(y0, rows), seed)
	v01 := lattice(wrap(x0, cols), wrap(y0+1, rows), seed)
	v11 := lattice(wrap(x0+1, cols), wrap(y0+1, rows), seed)

	top := v00 + (v10-v00)*tx
	bottom := v01 + (v11-v01)*tx
	return top + (bottom-top)*ty
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// lattice hashes a lattice point to [0, 1].
func lattice(x, y int, seed uint32) float64 {
	h := uint32(x)*0x8da6b343 ^ uint32(y)*0xd8163841 ^ seed*0xcb1ab31f
	h ^= h >> 13
	h *= 0x5bd1e995
	h ^= h >> 15
	return float64(h) / float64(math.MaxUint32)
}
