// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestNewScreenTarget(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		format gputypes.TextureFormat
	}{
		{"rgba", 100, 100, gputypes.TextureFormatRGBA8Unorm},
		{"bgra", 800, 600, gputypes.TextureFormatBGRA8Unorm},
		{"wide", 1000, 1, gputypes.TextureFormatRGBA8Unorm},
		{"minimized", 0, 0, gputypes.TextureFormatBGRA8Unorm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := NewScreenTarget(tt.width, tt.height, tt.format)
			if err != nil {
				t.Fatalf("NewScreenTarget: %v", err)
			}
			if target.Width() != tt.width || target.Height() != tt.height {
				t.Errorf("size = %dx%d, want %dx%d", target.Width(), target.Height(), tt.width, tt.height)
			}
			if target.Format() != tt.format {
				t.Errorf("Format() = %v, want %v", target.Format(), tt.format)
			}
			if target.Stride() != tt.width*4 {
				t.Errorf("Stride() = %d, want %d", target.Stride(), tt.width*4)
			}
			if len(target.Pixels()) != tt.width*tt.height*4 {
				t.Errorf("len(Pixels()) = %d, want %d", len(target.Pixels()), tt.width*tt.height*4)
			}
			if target.Empty() != (tt.width == 0) {
				t.Errorf("Empty() = %v", target.Empty())
			}
		})
	}
}

func TestNewScreenTargetErrors(t *testing.T) {
	if _, err := NewScreenTarget(-1, 4, gputypes.TextureFormatRGBA8Unorm); !errors.Is(err, ErrInvalidTargetSize) {
		t.Errorf("negative size error = %v, want ErrInvalidTargetSize", err)
	}
	if _, err := NewScreenTarget(4, 4, gputypes.TextureFormatR8Unorm); !errors.Is(err, ErrUnsupportedSurfaceFormat) {
		t.Errorf("R8 error = %v, want ErrUnsupportedSurfaceFormat", err)
	}
}

func TestScreenTargetBGRASwizzle(t *testing.T) {
	target, err := NewScreenTarget(2, 1, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatal(err)
	}
	c := color.NRGBA{R: 10, G: 20, B: 30, A: 40}
	target.SetTexel(1, 0, c)

	pix := target.Pixels()[4:8]
	if pix[0] != 30 || pix[1] != 20 || pix[2] != 10 || pix[3] != 40 {
		t.Errorf("raw bytes = %v, want BGRA order [30 20 10 40]", pix)
	}
	if got := target.Texel(1, 0); got != c {
		t.Errorf("Texel = %v, want %v", got, c)
	}
	if got := target.Image().NRGBAAt(1, 0); got != c {
		t.Errorf("Image pixel = %v, want %v", got, c)
	}
}

func TestScreenTargetOutOfBounds(t *testing.T) {
	target, err := NewScreenTarget(2, 2, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		t.Fatal(err)
	}
	target.SetTexel(5, 5, color.NRGBA{R: 255, A: 255})
	if got := target.Texel(5, 5); got != (color.NRGBA{}) {
		t.Errorf("out-of-bounds Texel = %v, want zero", got)
	}
	for _, b := range target.Pixels() {
		if b != 0 {
			t.Fatal("out-of-bounds SetTexel modified the target")
		}
	}
}

func TestScreenTargetResize(t *testing.T) {
	target, err := NewScreenTarget(4, 4, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		t.Fatal(err)
	}
	if err := target.Resize(8, 2); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if target.Width() != 8 || target.Height() != 2 || len(target.Pixels()) != 64 {
		t.Errorf("after Resize size = %dx%d len %d", target.Width(), target.Height(), len(target.Pixels()))
	}
	if err := target.Resize(-1, 2); !errors.Is(err, ErrInvalidTargetSize) {
		t.Errorf("Resize(-1) error = %v, want ErrInvalidTargetSize", err)
	}
}
