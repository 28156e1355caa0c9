// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pass

import (
	"errors"
	"fmt"

	"github.com/gogpu/watercolor/texture"
)

// ErrMismatchedTextures is returned when a pass is bound to textures that
// are missing or differ in size.
var ErrMismatchedTextures = errors.New("pass: missing or mismatched textures")

func sameSize(ts ...*texture.Texture) error {
	w, h := -1, -1
	for i, t := range ts {
		if t == nil {
			return fmt.Errorf("%w: binding %d is nil", ErrMismatchedTextures, i)
		}
		if w < 0 {
			w, h = t.Size()
			continue
		}
		if tw, th := t.Size(); tw != w || th != h {
			return fmt.Errorf("%w: binding %d is %dx%d, want %dx%d", ErrMismatchedTextures, i, tw, th, w, h)
		}
	}
	return nil
}
