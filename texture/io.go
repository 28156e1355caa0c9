// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	_ "golang.org/x/image/bmp" // register BMP decoder
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// ErrEmptyImage is returned when decoding yields an image with no texels.
var ErrEmptyImage = errors.New("texture: empty image")

// FromImage converts img into an RGBA8Unorm texture.
func FromImage(img image.Image) (*Texture, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}
	// Normalize the source to non-premultiplied RGBA so every decoder's color
	// model reads back the same way.
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(nrgba, nrgba.Bounds(), img, b.Min, xdraw.Src)

	t, err := New(b.Dx(), b.Dy(), gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		return nil, err
	}
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			i := nrgba.PixOffset(x, y)
			p := nrgba.Pix[i : i+4 : i+4]
			t.Store(x, y, mgl32.Vec4{
				float32(p[0]) / unorm8Max,
				float32(p[1]) / unorm8Max,
				float32(p[2]) / unorm8Max,
				float32(p[3]) / unorm8Max,
			})
		}
	}
	return t, nil
}

// Scaled returns a copy of t resampled to width x height with Catmull-Rom
// filtering. The result is RGBA8Unorm.
func (t *Texture) Scaled(width, height int) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), t.ToImage(), image.Rect(0, 0, t.width, t.height), xdraw.Src, nil)
	return FromImage(dst)
}

// ToImage reads the texture back into an 8-bit image. Float channels clamp to
// [0, 1]. BGRA textures are returned in RGBA order.
func (t *Texture) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.width, t.height))
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			c := t.Fetch(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i] = Unorm8(c[0])
			img.Pix[i+1] = Unorm8(c[1])
			img.Pix[i+2] = Unorm8(c[2])
			img.Pix[i+3] = Unorm8(c[3])
		}
	}
	return img
}

// Decode decodes a PNG, JPEG, BMP, TIFF or WebP image into a texture.
func Decode(r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("texture: decode: %w", err)
	}
	return FromImage(img)
}

// Load decodes the image file at path into a texture.
func Load(path string) (*Texture, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("texture: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	t, err := Decode(f)
	if err != nil {
		return nil, err
	}
	t.SetLabel(filepath.Base(path))
	return t, nil
}

// EncodePNG writes the texture as an 8-bit PNG.
func (t *Texture) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, t.ToImage()); err != nil {
		return fmt.Errorf("texture: encode PNG: %w", err)
	}
	return nil
}

// SavePNG writes the texture to a PNG file, creating parent directories.
func (t *Texture) SavePNG(path string) error {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("texture: create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("texture: create file: %w", err)
	}
	if err := t.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
