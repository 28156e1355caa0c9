// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
)

const (
	unorm8Max  = 255
	unorm24Max = 1<<24 - 1
)

// Supported reports whether the software backend can store format.
func Supported(format gputypes.TextureFormat) bool {
	switch format {
	case gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureFormatBGRA8Unorm,
		gputypes.TextureFormatRGBA32Float,
		gputypes.TextureFormatDepth24Plus:
		return true
	default:
		return false
	}
}

// IsDepth reports whether format is a depth format.
func IsDepth(format gputypes.TextureFormat) bool {
	return format == gputypes.TextureFormatDepth24Plus
}

// BytesPerTexel returns the GPU storage size of one texel.
func BytesPerTexel(format gputypes.TextureFormat) int {
	switch format {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return 4
	case gputypes.TextureFormatDepth24Plus:
		return 4
	case gputypes.TextureFormatRGBA32Float:
		return 16
	default:
		return 0
	}
}

// Quantize rounds v the way storing it into a texture of format would.
func Quantize(format gputypes.TextureFormat, v mgl32.Vec4) mgl32.Vec4 {
	switch format {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		for i := range v {
			v[i] = unorm(v[i], unorm8Max)
		}
	case gputypes.TextureFormatDepth24Plus:
		// Depth reads back replicated in rgb, alpha 1.
		d := unorm(v[0], unorm24Max)
		v = mgl32.Vec4{d, d, d, 1}
	}
	return v
}

func unorm(v float32, steps float64) float32 {
	if v != v { // NaN
		return 0
	}
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 1
	}
	return float32(math.Round(float64(v)*steps) / steps)
}

// Unorm8 converts a channel value to its 8-bit unorm encoding.
func Unorm8(v float32) uint8 {
	return uint8(math.Round(float64(unorm(v, unorm8Max)) * unorm8Max))
}
