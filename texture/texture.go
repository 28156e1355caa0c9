// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package texture provides CPU-resident textures with GPU format semantics.
//
// A Texture stores four float32 channels per texel regardless of format, and
// quantizes on Store the way the declared [gputypes.TextureFormat] would on a
// GPU: 8-bit unorm formats clamp to [0, 1] and round to 1/255 steps, 24-bit
// depth rounds to 1/(2^24-1) steps, 32-bit float formats store values as is.
// This keeps the software passes bit-compatible with what a GPU host would see
// when it samples the same render targets.
//
// Texel addressing uses image conventions: (0, 0) is the top-left texel and y
// grows downward.
package texture

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
)

// Texture errors.
var (
	// ErrInvalidSize is returned when a texture is created with a
	// non-positive width or height.
	ErrInvalidSize = errors.New("texture: invalid size")

	// ErrUnsupportedFormat is returned for formats the software backend
	// cannot store.
	ErrUnsupportedFormat = errors.New("texture: unsupported format")
)

// Texture is a 2D texel array with a declared GPU format.
type Texture struct {
	label  string
	width  int
	height int
	format gputypes.TextureFormat
	pix    []float32 // 4 channels per texel, row-major
}

// New allocates a texture of the given size and format, cleared to zero.
func New(width, height int, format gputypes.TextureFormat) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if !Supported(format) {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	return &Texture{
		width:  width,
		height: height,
		format: format,
		pix:    make([]float32, width*height*4),
	}, nil
}

// MustNew is like New but panics on error. It is intended for tests and
// fixed-size helper textures.
func MustNew(width, height int, format gputypes.TextureFormat) *Texture {
	t, err := New(width, height, format)
	if err != nil {
		panic(err)
	}
	return t
}

// Width returns the texture width in texels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in texels.
func (t *Texture) Height() int { return t.height }

// Size returns width and height.
func (t *Texture) Size() (int, int) { return t.width, t.height }

// Format returns the declared texel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Label returns the debug label.
func (t *Texture) Label() string { return t.label }

// SetLabel sets a debug label used in log output.
func (t *Texture) SetLabel(label string) { t.label = label }

// Fetch returns the texel at integer coordinates. Coordinates outside the
// texture clamp to the nearest edge texel.
func (t *Texture) Fetch(x, y int) mgl32.Vec4 {
	x = clampInt(x, 0, t.width-1)
	y = clampInt(y, 0, t.height-1)
	i := (y*t.width + x) * 4
	return mgl32.Vec4{t.pix[i], t.pix[i+1], t.pix[i+2], t.pix[i+3]}
}

// FetchWrap returns the texel at integer coordinates with repeat addressing.
func (t *Texture) FetchWrap(x, y int) mgl32.Vec4 {
	return t.Fetch(wrap(x, t.width), wrap(y, t.height))
}

// Store writes a texel, quantizing it to the texture format. Writes outside
// the texture are dropped.
func (t *Texture) Store(x, y int, v mgl32.Vec4) {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return
	}
	v = Quantize(t.format, v)
	i := (y*t.width + x) * 4
	t.pix[i] = v[0]
	t.pix[i+1] = v[1]
	t.pix[i+2] = v[2]
	t.pix[i+3] = v[3]
}

// Clear fills every texel with v, quantized to the texture format.
func (t *Texture) Clear(v mgl32.Vec4) {
	v = Quantize(t.format, v)
	for i := 0; i < len(t.pix); i += 4 {
		t.pix[i] = v[0]
		t.pix[i+1] = v[1]
		t.pix[i+2] = v[2]
		t.pix[i+3] = v[3]
	}
}

// CopyFrom copies the overlapping region of src into t, re-quantizing to
// t's format.
func (t *Texture) CopyFrom(src *Texture) {
	w := min(t.width, src.width)
	h := min(t.height, src.height)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t.Store(x, y, src.Fetch(x, y))
		}
	}
}

// Clone returns a deep copy of the texture.
func (t *Texture) Clone() *Texture {
	c := *t
	c.pix = make([]float32, len(t.pix))
	copy(c.pix, t.pix)
	return &c
}

// Equal reports whether both textures have the same size, format and texels.
func (t *Texture) Equal(o *Texture) bool {
	if t.width != o.width || t.height != o.height || t.format != o.format {
		return false
	}
	for i := range t.pix {
		if t.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
