// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
)

var (
	// ErrInvalidTargetSize is returned for a target with a negative size.
	ErrInvalidTargetSize = errors.New("render: invalid target size")

	// ErrUnsupportedSurfaceFormat is returned for presentation formats other
	// than RGBA8Unorm and BGRA8Unorm.
	ErrUnsupportedSurfaceFormat = errors.New("render: unsupported surface format")
)

// ScreenTarget is the presentable surface a frame is copied into.
//
// Pixels are stored 8 bits per channel in the surface format's byte order,
// the way a swapchain image would hold them. A zero-area target is valid and
// models a minimized window.
type ScreenTarget struct {
	width  int
	height int
	format gputypes.TextureFormat
	pix    []byte
}

// NewScreenTarget creates a target of the given size and format.
func NewScreenTarget(width, height int, format gputypes.TextureFormat) (*ScreenTarget, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTargetSize, width, height)
	}
	if format != gputypes.TextureFormatRGBA8Unorm && format != gputypes.TextureFormatBGRA8Unorm {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedSurfaceFormat, format)
	}
	return &ScreenTarget{
		width:  width,
		height: height,
		format: format,
		pix:    make([]byte, width*height*4),
	}, nil
}

// Width returns the target width in pixels.
func (t *ScreenTarget) Width() int { return t.width }

// Height returns the target height in pixels.
func (t *ScreenTarget) Height() int { return t.height }

// Empty reports whether the target has no pixels.
func (t *ScreenTarget) Empty() bool { return t.width == 0 || t.height == 0 }

// Format returns the surface format.
func (t *ScreenTarget) Format() gputypes.TextureFormat { return t.format }

// Pixels returns direct access to the pixel data in surface byte order.
func (t *ScreenTarget) Pixels() []byte { return t.pix }

// Stride returns the number of bytes per row.
func (t *ScreenTarget) Stride() int { return t.width * 4 }

// Resize changes the target dimensions. The contents are not preserved.
func (t *ScreenTarget) Resize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidTargetSize, width, height)
	}
	t.width, t.height = width, height
	t.pix = make([]byte, width*height*4)
	return nil
}

// SetTexel writes a pixel given in RGBA order.
func (t *ScreenTarget) SetTexel(x, y int, c color.NRGBA) {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return
	}
	i := (y*t.width + x) * 4
	p := t.pix[i : i+4 : i+4]
	if t.format == gputypes.TextureFormatBGRA8Unorm {
		p[0], p[1], p[2], p[3] = c.B, c.G, c.R, c.A
		return
	}
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Texel returns the pixel at (x, y) in RGBA order.
func (t *ScreenTarget) Texel(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return color.NRGBA{}
	}
	i := (y*t.width + x) * 4
	p := t.pix[i : i+4 : i+4]
	if t.format == gputypes.TextureFormatBGRA8Unorm {
		return color.NRGBA{R: p[2], G: p[1], B: p[0], A: p[3]}
	}
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Image returns a copy of the target contents in RGBA order.
func (t *ScreenTarget) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.width, t.height))
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			img.SetNRGBA(x, y, t.Texel(x, y))
		}
	}
	return img
}
