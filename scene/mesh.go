// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one mesh vertex.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3

	// Color is the pigment color.
	Color mgl32.Vec4

	// Control drives the stylization: r distortion, g granulation, b bleed
	// source, a pigment contrast (0.5 is neutral).
	Control mgl32.Vec4

	TexCoord mgl32.Vec2
}

// NeutralControl leaves every stylization effect at its default strength.
var NeutralControl = mgl32.Vec4{0, 0, 0, 0.5}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// NewMesh validates an indexed triangle list.
func NewMesh(vertices []Vertex, indices []uint32) (*Mesh, error) {
	if len(indices)%3 != 0 {
		return nil, &LoadError{Kind: MalformedChunk, Err: fmt.Errorf("%d indices is not a triangle list", len(indices))}
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, &LoadError{Kind: IndexOutOfRange, Index: i, Err: fmt.Errorf("index %d >= %d vertices", idx, len(vertices))}
		}
	}
	return &Mesh{Vertices: vertices, Indices: indices}, nil
}

// Triangles returns the number of triangles.
func (m *Mesh) Triangles() int { return len(m.Indices) / 3 }

// Paint sets the color and control of every vertex.
func (m *Mesh) Paint(color, control mgl32.Vec4) {
	for i := range m.Vertices {
		m.Vertices[i].Color = color
		m.Vertices[i].Control = control
	}
}

// Quad returns a width x height quad in the XY plane facing +z.
func Quad(width, height float32) *Mesh {
	return Plane(width, height, 1)
}

// Plane returns a width x height grid in the XY plane facing +z, split into
// segments x segments cells. Subdivision gives hand tremor vertices to move.
func Plane(width, height float32, segments int) *Mesh {
	segments = max(segments, 1)
	n := segments + 1
	m := &Mesh{
		Vertices: make([]Vertex, 0, n*n),
		Indices:  make([]uint32, 0, segments*segments*6),
	}
	for j := 0; j < n; j++ {
		v := float32(j) / float32(segments)
		for i := 0; i < n; i++ {
			u := float32(i) / float32(segments)
			m.Vertices = append(m.Vertices, Vertex{
				Position: mgl32.Vec3{(u - 0.5) * width, (v - 0.5) * height, 0},
				Normal:   mgl32.Vec3{0, 0, 1},
				Color:    mgl32.Vec4{1, 1, 1, 1},
				Control:  NeutralControl,
				TexCoord: mgl32.Vec2{u, 1 - v},
			})
		}
	}
	for j := 0; j < segments; j++ {
		for i := 0; i < segments; i++ {
			a := uint32(j*n + i)
			b := a + 1
			c := a + uint32(n)
			d := c + 1
			m.Indices = append(m.Indices, a, b, d, a, d, c)
		}
	}
	return m
}

// Cube returns an axis-aligned cube with edge length size centered on the
// origin, with flat per-face normals.
func Cube(size float32) *Mesh {
	h := size / 2
	faces := [6]struct {
		normal, u, v mgl32.Vec3
	}{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}
	corners := [4]mgl32.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	m := &Mesh{
		Vertices: make([]Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	for _, f := range faces {
		base := uint32(len(m.Vertices))
		for _, c := range corners {
			p := f.normal.Add(f.u.Mul(c[0])).Add(f.v.Mul(c[1])).Mul(h)
			m.Vertices = append(m.Vertices, Vertex{
				Position: p,
				Normal:   f.normal,
				Color:    mgl32.Vec4{1, 1, 1, 1},
				Control:  NeutralControl,
				TexCoord: mgl32.Vec2{(c[0] + 1) / 2, (1 - c[1]) / 2},
			})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}
