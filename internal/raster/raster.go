// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster provides triangle rasterization for the software backend.
//
// Triangles arrive in clip space. They are clipped against the near and far
// planes, mapped to the viewport with row 0 at the top, and filled with the
// top-left rule at pixel centers. Depth uses the LESS test with writes, and
// varyings are interpolated perspective-correct.
package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/watercolor/texture"
)

// MaxVaryings is the number of scalar varyings a vertex can carry.
const MaxVaryings = 16

// ClipVertex is a vertex after the vertex stage.
type ClipVertex struct {
	Clip     mgl32.Vec4
	Varyings [MaxVaryings]float32
}

// Fragment is one covered pixel handed to the fragment stage.
type Fragment struct {
	X, Y int

	// Depth is the window-space depth in [0, 1].
	Depth float32

	// FrontFacing reports counter-clockwise winding in normalized device
	// coordinates.
	FrontFacing bool

	Varyings [MaxVaryings]float32
}

// FragmentFunc shades a fragment into one output per color attachment. It
// returns false to discard the fragment, which also skips the depth write.
type FragmentFunc func(f *Fragment, out []mgl32.Vec4) bool

// Stats counts rasterizer work over the lifetime of a Rasterizer.
type Stats struct {
	Triangles  int
	Clipped    int
	Degenerate int
	Fragments  int
}

// Rasterizer draws triangles into a framebuffer.
type Rasterizer struct {
	fb       *Framebuffer
	varyings int
	out      []mgl32.Vec4
	poly     []ClipVertex
	scratch  []ClipVertex

	Stats Stats
}

// New returns a rasterizer for fb, interpolating the first varyings
// components of each vertex. fb must be valid.
func New(fb *Framebuffer, varyings int) *Rasterizer {
	return &Rasterizer{
		fb:       fb,
		varyings: min(max(varyings, 0), MaxVaryings),
		out:      make([]mgl32.Vec4, len(fb.Color)),
		poly:     make([]ClipVertex, 0, 8),
		scratch:  make([]ClipVertex, 0, 8),
	}
}

// DrawTriangle rasterizes one triangle. A nil fs draws depth only.
func (r *Rasterizer) DrawTriangle(v [3]ClipVertex, fs FragmentFunc) {
	r.Stats.Triangles++
	for i := range v {
		if !finite(v[i].Clip) {
			r.Stats.Degenerate++
			return
		}
	}

	poly := append(r.poly[:0], v[0], v[1], v[2])
	clipped := false
	for _, plane := range clipPlanes {
		if poly, clipped = r.clip(poly, plane, clipped); len(poly) < 3 {
			r.Stats.Clipped++
			return
		}
	}
	if clipped {
		r.Stats.Clipped++
	}
	for i := 1; i+1 < len(poly); i++ {
		r.fill(&poly[0], &poly[i], &poly[i+1], fs)
	}
}

// clipPlanes are signed distances that must be non-negative: near (z >= -w),
// far (z <= w) and a guard keeping w positive for the divide.
var clipPlanes = [...]func(c mgl32.Vec4) float32{
	func(c mgl32.Vec4) float32 { return c[2] + c[3] },
	func(c mgl32.Vec4) float32 { return c[3] - c[2] },
	func(c mgl32.Vec4) float32 { return c[3] - 1e-6 },
}

// clip runs one Sutherland-Hodgman stage.
func (r *Rasterizer) clip(poly []ClipVertex, dist func(mgl32.Vec4) float32, clipped bool) ([]ClipVertex, bool) {
	out := r.scratch[:0]
	for i := range poly {
		a := &poly[i]
		b := &poly[(i+1)%len(poly)]
		da, db := dist(a.Clip), dist(b.Clip)
		if da >= 0 {
			out = append(out, *a)
		}
		if (da >= 0) != (db >= 0) {
			clipped = true
			out = append(out, r.lerp(a, b, da/(da-db)))
		}
	}
	// Swap buffers so the next stage reads what this one wrote.
	r.scratch, r.poly = poly[:0], out
	return out, clipped
}

func (r *Rasterizer) lerp(a, b *ClipVertex, t float32) ClipVertex {
	var v ClipVertex
	v.Clip = a.Clip.Add(b.Clip.Sub(a.Clip).Mul(t))
	for k := 0; k < r.varyings; k++ {
		v.Varyings[k] = a.Varyings[k] + (b.Varyings[k]-a.Varyings[k])*t
	}
	return v
}

type screenVertex struct {
	x, y, z float64
	invW    float64
	src     *ClipVertex
}

func (r *Rasterizer) toScreen(v *ClipVertex, w, h int) screenVertex {
	invW := 1 / float64(v.Clip[3])
	nx := float64(v.Clip[0]) * invW
	ny := float64(v.Clip[1]) * invW
	nz := float64(v.Clip[2]) * invW
	return screenVertex{
		x:    (nx*0.5 + 0.5) * float64(w),
		y:    (1 - (ny*0.5 + 0.5)) * float64(h),
		z:    nz*0.5 + 0.5,
		invW: invW,
		src:  v,
	}
}

// orient returns twice the signed area of (a, b, p). It is positive when p
// lies clockwise of a->b on a screen with y pointing down.
func orient(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// topLeft reports whether edge a->b of a positively oriented triangle is a
// top or left edge, which own the pixel centers lying exactly on them.
func topLeft(a, b *screenVertex) bool {
	dy := b.y - a.y
	return dy < 0 || (dy == 0 && b.x > a.x)
}

func (r *Rasterizer) fill(c0, c1, c2 *ClipVertex, fs FragmentFunc) {
	width, height := r.fb.Size()
	v := [3]screenVertex{
		r.toScreen(c0, width, height),
		r.toScreen(c1, width, height),
		r.toScreen(c2, width, height),
	}

	area := orient(v[0].x, v[0].y, v[1].x, v[1].y, v[2].x, v[2].y)
	if area == 0 || math.IsNaN(area) || math.IsInf(area, 0) {
		r.Stats.Degenerate++
		return
	}
	// Positive area is clockwise on the y-down screen, so counter-clockwise
	// triangles in NDC come out negative.
	front := area < 0
	if area < 0 {
		v[1], v[2] = v[2], v[1]
		area = -area
	}

	minX := max(int(math.Ceil(min(v[0].x, v[1].x, v[2].x)-0.5)), 0)
	maxX := min(int(math.Floor(max(v[0].x, v[1].x, v[2].x)-0.5)), width-1)
	minY := max(int(math.Ceil(min(v[0].y, v[1].y, v[2].y)-0.5)), 0)
	maxY := min(int(math.Floor(max(v[0].y, v[1].y, v[2].y)-0.5)), height-1)
	if minX > maxX || minY > maxY {
		return
	}

	tl := [3]bool{topLeft(&v[1], &v[2]), topLeft(&v[2], &v[0]), topLeft(&v[0], &v[1])}
	inside := func(e float64, owns bool) bool {
		return e > 0 || (e == 0 && owns)
	}

	var frag Fragment
	frag.FrontFacing = front
	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			// e0 weighs v0, opposite edge v1->v2.
			e0 := orient(v[1].x, v[1].y, v[2].x, v[2].y, px, py)
			e1 := orient(v[2].x, v[2].y, v[0].x, v[0].y, px, py)
			e2 := orient(v[0].x, v[0].y, v[1].x, v[1].y, px, py)
			if !inside(e0, tl[0]) || !inside(e1, tl[1]) || !inside(e2, tl[2]) {
				continue
			}
			b0, b1, b2 := e0/area, e1/area, e2/area

			// Compare at storage precision so equal depths fail LESS.
			z := float32(b0*v[0].z + b1*v[1].z + b2*v[2].z)
			if r.fb.Depth != nil {
				z = texture.Quantize(r.fb.Depth.Format(), mgl32.Vec4{z})[0]
				if z >= r.fb.Depth.Fetch(x, y)[0] {
					continue
				}
			}

			frag.X, frag.Y = x, y
			frag.Depth = z
			if fs != nil {
				r.interpolate(&frag, &v, b0, b1, b2)
				clear(r.out)
				if !fs(&frag, r.out) {
					continue
				}
				for i, t := range r.fb.Color {
					t.Store(x, y, r.out[i])
				}
			}
			if r.fb.Depth != nil {
				r.fb.Depth.Store(x, y, mgl32.Vec4{frag.Depth})
			}
			r.Stats.Fragments++
		}
	}
}

func (r *Rasterizer) interpolate(f *Fragment, v *[3]screenVertex, b0, b1, b2 float64) {
	p0 := b0 * v[0].invW
	p1 := b1 * v[1].invW
	p2 := b2 * v[2].invW
	norm := p0 + p1 + p2
	if norm == 0 {
		return
	}
	p0, p1, p2 = p0/norm, p1/norm, p2/norm
	for k := 0; k < r.varyings; k++ {
		f.Varyings[k] = float32(p0*float64(v[0].src.Varyings[k]) +
			p1*float64(v[1].src.Varyings[k]) +
			p2*float64(v[2].src.Varyings[k]))
	}
}

func finite(v mgl32.Vec4) bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
