// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pass implements the render passes of the watercolor pipeline.
//
// Each pass is a pure function of its input textures and its uniforms. The
// uniforms of every pass are a distinct struct tagged with a Kind, and each
// encodes to the byte layout its WGSL program declares, so the same values
// drive the software backend and a GPU submission.
package pass

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Kind identifies a pass program.
type Kind uint8

const (
	// KindScene shades scene geometry into color and control.
	KindScene Kind = iota

	// KindDepth draws occluders into the depth buffer only.
	KindDepth

	// KindBlurHorizontal is the horizontal half of the dual blur.
	KindBlurHorizontal

	// KindBlurVertical is the vertical half of the dual blur.
	KindBlurVertical

	// KindSurface derives the paper surface buffer.
	KindSurface

	// KindStylize composites the final image.
	KindStylize

	// KindPresent copies a buffer to the screen.
	KindPresent

	// KindCount is the number of pass kinds.
	KindCount
)

var kindNames = [KindCount]string{
	"scene",
	"depth",
	"blur_horizontal",
	"blur_vertical",
	"surface",
	"stylize",
	"present",
}

// String returns the program name of the kind.
func (k Kind) String() string {
	if k >= KindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Uniforms are the per-pass values handed to a program.
type Uniforms interface {
	// Kind returns the program the values belong to.
	Kind() Kind

	// Bytes encodes the values in the layout of the program's uniform
	// block. The length is a multiple of 16.
	Bytes() []byte
}

// uniformWriter lays out values following WGSL uniform address space rules:
// vec3 and vec4 align to 16 bytes, matrix columns are padded to 16 bytes.
type uniformWriter struct {
	buf []byte
}

func (w *uniformWriter) align(n int) {
	for len(w.buf)%n != 0 {
		w.buf = append(w.buf, 0)
	}
}

func (w *uniformWriter) f32(v float32) {
	w.align(4)
	w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(v))
}

func (w *uniformWriter) i32(v int32) {
	w.align(4)
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
}

func (w *uniformWriter) u32(v uint32) {
	w.align(4)
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *uniformWriter) bool32(v bool) {
	if v {
		w.u32(1)
	} else {
		w.u32(0)
	}
}

func (w *uniformWriter) vec2(v mgl32.Vec2) {
	w.align(8)
	for _, c := range v {
		w.f32(c)
	}
}

func (w *uniformWriter) vec3(v mgl32.Vec3) {
	w.align(16)
	for _, c := range v {
		w.f32(c)
	}
}

func (w *uniformWriter) vec4(v mgl32.Vec4) {
	w.align(16)
	for _, c := range v {
		w.f32(c)
	}
}

func (w *uniformWriter) mat4(m mgl32.Mat4) {
	w.align(16)
	for _, c := range m {
		w.f32(c)
	}
}

func (w *uniformWriter) mat3(m mgl32.Mat3) {
	for col := range 3 {
		w.vec3(m.Col(col))
	}
	w.align(16)
}

// bytes returns the block padded to a multiple of 16.
func (w *uniformWriter) bytes() []byte {
	w.align(16)
	return w.buf
}
