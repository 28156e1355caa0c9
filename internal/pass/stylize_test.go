// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pass

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/watercolor/internal/pool"
	"github.com/gogpu/watercolor/params"
	"github.com/gogpu/watercolor/render"
	"github.com/gogpu/watercolor/texture"
)

func stylizeTextures(t *testing.T, w, h int) StylizeTextures {
	t.Helper()
	f32 := gputypes.TextureFormatRGBA32Float
	st := StylizeTextures{
		Color:   texture.MustNew(w, h, gputypes.TextureFormatRGBA8Unorm),
		Control: texture.MustNew(w, h, f32),
		Blurred: texture.MustNew(w, h, f32),
		Bleeded: texture.MustNew(w, h, f32),
		Surface: texture.MustNew(w, h, gputypes.TextureFormatRGBA8Unorm),
		Final:   texture.MustNew(w, h, gputypes.TextureFormatRGBA8Unorm),
	}
	for y := range h {
		for x := range w {
			st.Color.Store(x, y, mgl32.Vec4{float32(x) / float32(w), float32(y) / float32(h), 0.3, 1})
			st.Blurred.Store(x, y, st.Color.Fetch(x, y))
			st.Bleeded.Store(x, y, mgl32.Vec4{0.8, 0.2, 0.6, 1})
			st.Control.Store(x, y, mgl32.Vec4{1, 0.7, 0, 0})
		}
	}
	paper, err := texture.Uniform(w, h, mgl32.Vec4{1, 1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := Surface(paper, st.Surface, DefaultSurfaceUniforms()); err != nil {
		t.Fatal(err)
	}
	return st
}

func TestStylizeNeutralIsIdentity(t *testing.T) {
	st := stylizeTextures(t, 6, 4)
	if err := Stylize(st, NewStylizeUniforms(params.Neutral())); err != nil {
		t.Fatal(err)
	}
	for y := range 4 {
		for x := range 6 {
			got, want := st.Final.Fetch(x, y), st.Color.Fetch(x, y)
			if got.Vec3() != want.Vec3() || got[3] != 1 {
				t.Fatalf("final(%d,%d) = %v, want %v with alpha 1", x, y, got, want)
			}
		}
	}
}

func TestStylizeBleed(t *testing.T) {
	st := stylizeTextures(t, 4, 4)
	for y := range 4 {
		for x := range 4 {
			st.Control.Store(x, y, mgl32.Vec4{0, 0, 1, 0})
		}
	}
	u := NewStylizeUniforms(params.Neutral())
	u.Bleed = true
	if err := Stylize(st, u); err != nil {
		t.Fatal(err)
	}
	want := texture.Quantize(gputypes.TextureFormatRGBA8Unorm, mgl32.Vec4{0.8, 0.2, 0.6, 1})
	if got := st.Final.Fetch(2, 2); got != want {
		t.Errorf("full bleed control gave %v, want bleeded color %v", got, want)
	}
}

func TestEdgeDarkeningAfterDualBlur(t *testing.T) {
	const w, h = 16, 4
	bt := blurTextures(w, h)
	for y := range h {
		for x := range w {
			gray := float32(0.6)
			if x >= w/2 {
				gray = 0.2
			}
			bt.Color.Store(x, y, mgl32.Vec4{gray, gray, gray, 1})
			bt.Control.Store(x, y, mgl32.Vec4{0, 0, 0.3, 0.5})
			bt.Depth.Store(x, y, mgl32.Vec4{0.5})
		}
	}
	if err := DualBlur(bt, params.Defaults()); err != nil {
		t.Fatal(err)
	}

	st := StylizeTextures{
		Color:   bt.Color,
		Control: bt.Control,
		Blurred: bt.Blurred,
		Bleeded: bt.Bleeded,
		Surface: texture.MustNew(w, h, gputypes.TextureFormatRGBA8Unorm),
		Final:   texture.MustNew(w, h, gputypes.TextureFormatRGBA8Unorm),
	}
	// Full height keeps granulation out; tint 1.
	st.Surface.Clear(mgl32.Vec4{1, 0.5, 0.5, 1})
	u := NewStylizeUniforms(params.Defaults())
	u.Bleed = false
	u.Distortion = false
	if err := Stylize(st, u); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		x      int
		darker bool
	}{
		{"far from the edge", 1, false},
		{"light side of the edge", w/2 - 1, true},
		{"dark side of the edge", w / 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := bt.Color.Fetch(tt.x, 1)[0]
			maxDiff := float32(math.Abs(float64(bt.Blurred.Fetch(tt.x, 1)[0] - c)))
			e := EdgeExponent(maxDiff, 0.3)
			want := texture.Quantize(gputypes.TextureFormatRGBA8Unorm,
				mgl32.Vec4{float32(math.Pow(float64(c), float64(e)))})[0]
			got := st.Final.Fetch(tt.x, 1)[0]
			if got != want {
				t.Errorf("final = %v, want %v (color %v, exponent %v)", got, want, c, e)
			}
			if darker := got < c; darker != tt.darker {
				t.Errorf("final %v darker than color %v = %v, want %v", got, c, darker, tt.darker)
			}
		})
	}
}

func TestStylizeDistortion(t *testing.T) {
	st := stylizeTextures(t, 6, 1)
	// Relief pointing along +x; the y component quantizes to 128/255 and
	// rounds away.
	st.Surface.Clear(mgl32.Vec4{1, 1, 0.5, 1})
	u := NewStylizeUniforms(params.Neutral())
	u.Distortion = true
	u.DistortionAmount = 2
	if err := Stylize(st, u); err != nil {
		t.Fatal(err)
	}
	tests := []struct{ x, from int }{
		{0, 2},
		{1, 3},
		{4, 5}, // clamped at the right edge
	}
	for _, tt := range tests {
		got, want := st.Final.Fetch(tt.x, 0).Vec3(), st.Color.Fetch(tt.from, 0).Vec3()
		if got != want {
			t.Errorf("final(%d) = %v, want color(%d) = %v", tt.x, got, tt.from, want)
		}
	}
}

func TestEdgeExponentMonotonic(t *testing.T) {
	for _, b := range []float32{0, 0.25, 0.5, 0.99, 1} {
		prev := EdgeExponent(0, b)
		if prev != 1 {
			t.Errorf("EdgeExponent(0, %v) = %v, want 1", b, prev)
		}
		for i := 1; i <= 100; i++ {
			e := EdgeExponent(float32(i)/100, b)
			if e < prev {
				t.Fatalf("b=%v: exponent fell from %v to %v at maxDiff %v", b, prev, e, float32(i)/100)
			}
			prev = e
		}
	}
	if got := EdgeExponent(1, 1); got != 1 {
		t.Errorf("full bleed control exponent = %v, want 1", got)
	}
	if got := EdgeExponent(1, 0); got != 6 {
		t.Errorf("max contrast exponent = %v, want 6", got)
	}
}

func TestGranulationIdentity(t *testing.T) {
	c := mgl32.Vec3{0.3, 0.6, 0.9}
	for _, g := range []float32{0, 0.5, 1} {
		for _, h := range []float32{0, 0.4, 1} {
			if got := Granulate(c, g*0*PigmentValley(h)); got != c {
				t.Errorf("density 0, green %v, height %v: %v, want %v", g, h, got, c)
			}
		}
		if got := Granulate(c, g*1*PigmentValley(1)); got != c {
			t.Errorf("Piv 0, green %v: %v, want %v", g, got, c)
		}
	}
	want := mgl32.Vec3{0.09, 0.36, 0.81}
	if got := Granulate(c, 1); !nearVec3(got, want, 1e-6) {
		t.Errorf("full granulation = %v, want %v", got, want)
	}
	if got := Granulate(c, 5); !nearVec3(got, want, 1e-6) {
		t.Errorf("weight above 1 = %v, want clamped %v", got, want)
	}
}

func TestSurfaceFlatPaper(t *testing.T) {
	paper, err := texture.Uniform(3, 3, mgl32.Vec4{1, 1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	dst := texture.MustNew(5, 4, gputypes.TextureFormatRGBA8Unorm)
	if err := Surface(paper, dst, DefaultSurfaceUniforms()); err != nil {
		t.Fatal(err)
	}
	want := texture.Quantize(gputypes.TextureFormatRGBA8Unorm, mgl32.Vec4{1, 0.5, 0.5, 1})
	for y := range 4 {
		for x := range 5 {
			if got := dst.Fetch(x, y); got != want {
				t.Fatalf("surface(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestSurfaceQuadDerivatives(t *testing.T) {
	paper := texture.MustNew(4, 2, gputypes.TextureFormatRGBA32Float)
	for y := range 2 {
		for x := range 4 {
			h := float32(x) * 0.25
			paper.Store(x, y, mgl32.Vec4{h, h, h, 1})
		}
	}
	dst := texture.MustNew(4, 2, gputypes.TextureFormatRGBA32Float)
	if err := Surface(paper, dst, DefaultSurfaceUniforms()); err != nil {
		t.Fatal(err)
	}
	a, b := dst.Fetch(0, 0), dst.Fetch(1, 1)
	if a[0] == b[0] {
		t.Error("heights in a quad should differ")
	}
	if a[1] != b[1] || a[2] != b[2] || a[3] != b[3] {
		t.Errorf("quad pixels disagree on normal or tint: %v vs %v", a, b)
	}
	// Rising height toward +x tilts the normal toward -x.
	if a[1] >= 0.5 {
		t.Errorf("normal x = %v, want < 0.5", a[1])
	}
	if err := Surface(nil, dst, DefaultSurfaceUniforms()); !errors.Is(err, ErrNoPaper) {
		t.Errorf("nil paper: err = %v, want ErrNoPaper", err)
	}
}

func TestTintRange(t *testing.T) {
	l := DefaultSurfaceUniforms().Light
	if got := Tint(l, l); !approx(got, tintHigh, 1e-6) {
		t.Errorf("facing light = %v, want %v", got, tintHigh)
	}
	if got := Tint(l.Mul(-1), l); !approx(got, tintLow, 1e-6) {
		t.Errorf("facing away = %v, want %v", got, tintLow)
	}
	if got := ReliefNormal(0, 0); got != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("flat normal = %v", got)
	}
}

func TestSource(t *testing.T) {
	tests := []struct {
		stage params.Stage
		want  pool.Role
	}{
		{params.StageVertexColors, pool.RoleColor},
		{params.StageControlColors, pool.RoleControl},
		{params.StageHandTremors, pool.RoleColor},
		{params.StagePigment, pool.RoleColor},
		{params.StageGaussianBlur, pool.RoleBlurred},
		{params.StageBilateralBlur, pool.RoleBleeded},
		{params.StageSurface, pool.RoleSurface},
		{params.StageFinal, pool.RoleFinal},
	}
	if len(tests) != params.StageCount {
		t.Fatalf("table covers %d stages, want %d", len(tests), params.StageCount)
	}
	for _, tt := range tests {
		if got := Source(tt.stage); got != tt.want {
			t.Errorf("Source(%s) = %s, want %s", tt.stage, got, tt.want)
		}
	}
}

func TestPresent(t *testing.T) {
	src := texture.MustNew(2, 2, gputypes.TextureFormatRGBA32Float)
	src.Store(1, 0, mgl32.Vec4{1, 0.5, 0, 1})
	src.Store(0, 1, mgl32.Vec4{2, -1, 0.25, 0})

	for _, format := range []gputypes.TextureFormat{gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm} {
		dst, err := render.NewScreenTarget(2, 2, format)
		if err != nil {
			t.Fatal(err)
		}
		if err := Present(src, dst, PresentUniforms{Show: params.StageFinal}); err != nil {
			t.Fatal(err)
		}
		if got, want := dst.Texel(1, 0), (color.NRGBA{R: 255, G: 128, B: 0, A: 255}); got != want {
			t.Errorf("%v: texel(1,0) = %v, want %v", format, got, want)
		}
		if got, want := dst.Texel(0, 1), (color.NRGBA{R: 255, G: 0, B: 64, A: 0}); got != want {
			t.Errorf("%v: texel(0,1) = %v, want %v", format, got, want)
		}
	}

	small, _ := render.NewScreenTarget(1, 1, gputypes.TextureFormatRGBA8Unorm)
	if err := Present(src, small, PresentUniforms{}); !errors.Is(err, ErrMismatchedTextures) {
		t.Errorf("size mismatch: err = %v, want ErrMismatchedTextures", err)
	}
}
