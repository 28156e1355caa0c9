// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/watercolor/texture"
)

// ProgramSlot selects which material of each object a draw uses.
type ProgramSlot uint8

const (
	// SlotDefault is the shaded watercolor program.
	SlotDefault ProgramSlot = iota

	// SlotDepth writes depth only.
	SlotDepth

	// SlotCount is the number of program slots.
	SlotCount
)

// String returns the slot name.
func (s ProgramSlot) String() string {
	switch s {
	case SlotDefault:
		return "default"
	case SlotDepth:
		return "depth"
	default:
		return "unknown"
	}
}

// Material is what an object draws with in one program slot.
type Material struct {
	Name string

	// Texture modulates the vertex color. Nil samples as white.
	Texture *texture.Texture
}

// DrawCall is one object ready for the rasterizer.
type DrawCall struct {
	Mesh          *Mesh
	ObjectToClip  mgl32.Mat4
	ObjectToWorld mgl32.Mat4

	// NormalToWorld is the inverse transpose of the upper 3x3 of
	// ObjectToWorld.
	NormalToWorld mgl32.Mat3
	Material      *Material
}

// Encoder receives draw calls.
type Encoder interface {
	Encode(DrawCall)
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(DrawCall)

// Encode calls f(dc).
func (f EncoderFunc) Encode(dc DrawCall) { f(dc) }

// Draw issues one DrawCall for every object that has a mesh and a material
// in slot, in insertion order. It returns the number of calls issued.
func (s *Scene) Draw(enc Encoder, worldToClip mgl32.Mat4, slot ProgramSlot) int {
	if slot >= SlotCount {
		return 0
	}
	n := 0
	s.objects.each(func(_ handle, o *Object) {
		mat := o.Materials[slot]
		if o.Mesh == nil || mat == nil || o.Mesh.Triangles() == 0 {
			return
		}
		objectToWorld := s.WorldFromLocal(o.Transform)
		enc.Encode(DrawCall{
			Mesh:          o.Mesh,
			ObjectToClip:  worldToClip.Mul4(objectToWorld),
			ObjectToWorld: objectToWorld,
			NormalToWorld: normalMatrix(objectToWorld),
			Material:      mat,
		})
		n++
	})
	return n
}

// normalMatrix returns the inverse transpose of m's upper 3x3. A singular
// matrix falls back to the plain 3x3.
func normalMatrix(m mgl32.Mat4) mgl32.Mat3 {
	m3 := m.Mat3()
	if m3.Det() == 0 {
		return m3
	}
	return m3.Inv().Transpose()
}
