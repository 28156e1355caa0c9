// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/watercolor/texture"
)

// ErrIncompleteFramebuffer is returned when attachments are missing, have
// the wrong format or disagree in size.
var ErrIncompleteFramebuffer = errors.New("raster: incomplete framebuffer")

// MaxColorAttachments bounds the number of color targets of one draw.
const MaxColorAttachments = 4

// Framebuffer binds color attachments and an optional depth attachment.
type Framebuffer struct {
	Color []*texture.Texture
	Depth *texture.Texture
}

// Validate checks that the framebuffer can be drawn to.
func (fb *Framebuffer) Validate() error {
	if len(fb.Color) == 0 && fb.Depth == nil {
		return fmt.Errorf("%w: no attachments", ErrIncompleteFramebuffer)
	}
	if len(fb.Color) > MaxColorAttachments {
		return fmt.Errorf("%w: %d color attachments", ErrIncompleteFramebuffer, len(fb.Color))
	}
	w, h := -1, -1
	check := func(name string, t *texture.Texture) error {
		if t == nil {
			return fmt.Errorf("%w: %s attachment is nil", ErrIncompleteFramebuffer, name)
		}
		if w < 0 {
			w, h = t.Width(), t.Height()
			return nil
		}
		if t.Width() != w || t.Height() != h {
			return fmt.Errorf("%w: %s is %dx%d, want %dx%d", ErrIncompleteFramebuffer, name, t.Width(), t.Height(), w, h)
		}
		return nil
	}
	for i, c := range fb.Color {
		name := fmt.Sprintf("color%d", i)
		if err := check(name, c); err != nil {
			return err
		}
		if texture.IsDepth(c.Format()) {
			return fmt.Errorf("%w: %s has depth format %v", ErrIncompleteFramebuffer, name, c.Format())
		}
	}
	if fb.Depth != nil {
		if err := check("depth", fb.Depth); err != nil {
			return err
		}
		if !texture.IsDepth(fb.Depth.Format()) {
			return fmt.Errorf("%w: depth has color format %v", ErrIncompleteFramebuffer, fb.Depth.Format())
		}
	}
	return nil
}

// Size returns the attachment size. The framebuffer must be valid.
func (fb *Framebuffer) Size() (int, int) {
	if len(fb.Color) > 0 {
		return fb.Color[0].Size()
	}
	if fb.Depth != nil {
		return fb.Depth.Size()
	}
	return 0, 0
}

// Clear fills color attachment i with c.
func (fb *Framebuffer) Clear(i int, c mgl32.Vec4) {
	if i >= 0 && i < len(fb.Color) {
		fb.Color[i].Clear(c)
	}
}

// ClearDepth fills the depth attachment with d.
func (fb *Framebuffer) ClearDepth(d float32) {
	if fb.Depth != nil {
		fb.Depth.Clear(mgl32.Vec4{d, d, d, 1})
	}
}
