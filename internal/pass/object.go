// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pass

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/watercolor/scene"
)

// ObjectUniforms is the per-draw block of the scene and depth programs,
// bound at group 1.
type ObjectUniforms struct {
	ObjectToClip  mgl32.Mat4
	ObjectToWorld mgl32.Mat4
	NormalToWorld mgl32.Mat3
}

// NewObjectUniforms copies the matrices of dc.
func NewObjectUniforms(dc scene.DrawCall) ObjectUniforms {
	return ObjectUniforms{
		ObjectToClip:  dc.ObjectToClip,
		ObjectToWorld: dc.ObjectToWorld,
		NormalToWorld: dc.NormalToWorld,
	}
}

// Bytes encodes the block: two mat4x4 followed by a mat3x3 with padded
// columns, 176 bytes in total.
func (o ObjectUniforms) Bytes() []byte {
	var w uniformWriter
	w.mat4(o.ObjectToClip)
	w.mat4(o.ObjectToWorld)
	w.mat3(o.NormalToWorld)
	return w.bytes()
}
