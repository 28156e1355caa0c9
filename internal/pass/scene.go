// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pass

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/watercolor/internal/raster"
	"github.com/gogpu/watercolor/params"
	"github.com/gogpu/watercolor/scene"
	"github.com/gogpu/watercolor/texture"
)

// ErrNoCamera is returned when the scene pass is given a deleted camera.
var ErrNoCamera = errors.New("pass: camera does not exist")

var (
	// ClearColor is paper white with zero alpha, meaning no pigment.
	ClearColor = mgl32.Vec4{1, 1, 1, 0}

	// ClearControl is the control sentinel of pixels no geometry covers.
	ClearControl = mgl32.Vec4{0, 0, 0, 0}

	// PaperWhite is the reference color pigment dilutes toward.
	PaperWhite = mgl32.Vec3{1, 1, 1}
)

// shadeGain brightens shaded color slightly, as the painterly look is tuned
// for it.
const shadeGain = 1.08

// Lighting is the two-light rig of the scene program: a directional sun and
// a hemisphere sky.
type Lighting struct {
	SunDirection mgl32.Vec3
	SunColor     mgl32.Vec3
	SkyDirection mgl32.Vec3
	SkyColor     mgl32.Vec3
}

// DefaultLighting returns the rig used when the scene has no Sun or Sky lamp.
func DefaultLighting() Lighting {
	return Lighting{
		SunDirection: scene.Normalize(mgl32.Vec3{0.5, 0.1, 1}),
		SunColor:     mgl32.Vec3{0.5, 0.5, 0.5},
		SkyDirection: mgl32.Vec3{0, 0, 1},
		SkyColor:     mgl32.Vec3{0.5, 0.5, 0.5},
	}
}

// SceneUniforms are the frame values of the scene program.
type SceneUniforms struct {
	// Set by DrawScene from the camera and target size.
	WorldToClip       mgl32.Mat4
	ViewPos           mgl32.Vec3
	ClipUnitsPerPixel mgl32.Vec2

	Time         float32
	Speed        float32
	Frequency    float32
	TremorAmount float32

	// Pigment enables dilution, cangiante and the control alpha curve.
	Pigment   bool
	DA        float32
	Cangiante float32
	Dilution  float32
	Paper     mgl32.Vec3

	Lighting Lighting
}

// NewSceneUniforms derives the scene program values from p. Debug stages
// below pigment get no pigment effects, and stages below hand tremors get
// no tremor either. p itself is never modified.
func NewSceneUniforms(p params.Parameters, light Lighting) SceneUniforms {
	if p.Show < params.StagePigment {
		p.DA, p.Cangiante, p.Dilution = 0, 0, 0
		if p.Show < params.StageHandTremors {
			p.Speed, p.TremorAmount = 0, 0
		}
	}
	return SceneUniforms{
		Time:         p.Time,
		Speed:        p.Speed,
		Frequency:    p.Frequency,
		TremorAmount: p.TremorAmount,
		Pigment:      p.Show >= params.StagePigment,
		DA:           p.DA,
		Cangiante:    p.Cangiante,
		Dilution:     p.Dilution,
		Paper:        PaperWhite,
		Lighting:     light,
	}
}

// Kind returns KindScene.
func (SceneUniforms) Kind() Kind { return KindScene }

// Bytes encodes the uniform block of scene.wgsl.
func (u SceneUniforms) Bytes() []byte {
	var w uniformWriter
	w.mat4(u.WorldToClip)
	w.vec3(u.ViewPos)
	w.f32(u.Time)
	w.vec2(u.ClipUnitsPerPixel)
	w.f32(u.Speed)
	w.f32(u.Frequency)
	w.f32(u.TremorAmount)
	w.f32(u.DA)
	w.f32(u.Cangiante)
	w.f32(u.Dilution)
	w.vec3(u.Paper)
	w.bool32(u.Pigment)
	w.vec3(u.Lighting.SunDirection)
	w.vec3(u.Lighting.SunColor)
	w.vec3(u.Lighting.SkyDirection)
	w.vec3(u.Lighting.SkyColor)
	return w.bytes()
}

// SceneTargets are the attachments of the scene pass.
type SceneTargets struct {
	Color   *texture.Texture
	Control *texture.Texture
	Depth   *texture.Texture
}

// Varying layout of the scene program.
const (
	varyWorld    = 0
	varyNormal   = 3
	varyColor    = 6
	varyControl  = 10
	varyTexCoord = 14
	varyCount    = 16
)

// DrawScene renders the scene seen from cam into t. It sets the camera
// aspect from the target size, draws depth-only occluders and then every
// shaded object.
func DrawScene(t SceneTargets, s *scene.Scene, cam scene.CameraID, u SceneUniforms) (raster.Stats, error) {
	fb := &raster.Framebuffer{Color: []*texture.Texture{t.Color, t.Control}, Depth: t.Depth}
	if err := fb.Validate(); err != nil {
		return raster.Stats{}, fmt.Errorf("scene pass: %w", err)
	}
	c, ok := s.Camera(cam)
	if !ok {
		return raster.Stats{}, ErrNoCamera
	}

	width, height := fb.Size()
	c.Aspect = float32(width) / float32(height)
	u.WorldToClip, _ = s.WorldToClip(cam)
	u.ViewPos = s.CameraPosition(cam)
	u.ClipUnitsPerPixel = mgl32.Vec2{2 / float32(width), 2 / float32(height)}

	fb.Clear(0, ClearColor)
	fb.Clear(1, ClearControl)
	fb.ClearDepth(1)

	r := raster.New(fb, varyCount)
	occluders := s.Draw(scene.EncoderFunc(func(dc scene.DrawCall) {
		drawMesh(r, &dc, &u, false, nil)
	}), u.WorldToClip, scene.SlotDepth)

	shaded := s.Draw(scene.EncoderFunc(func(dc scene.DrawCall) {
		tex := dc.Material.Texture
		drawMesh(r, &dc, &u, true, func(f *raster.Fragment, out []mgl32.Vec4) bool {
			out[0], out[1] = shadeFragment(&u, tex, f)
			return true
		})
	}), u.WorldToClip, scene.SlotDefault)

	slogger().Debug("scene pass",
		"size", fmt.Sprintf("%dx%d", width, height),
		"occluders", occluders,
		"objects", shaded,
		"triangles", r.Stats.Triangles,
		"fragments", r.Stats.Fragments)
	return r.Stats, nil
}

// drawMesh runs the vertex stage over one draw call and rasterizes its
// triangles.
func drawMesh(r *raster.Rasterizer, dc *scene.DrawCall, u *SceneUniforms, tremor bool, fs raster.FragmentFunc) {
	m := dc.Mesh
	verts := make([]raster.ClipVertex, len(m.Vertices))
	for i := range m.Vertices {
		verts[i] = shadeVertex(dc, u, &m.Vertices[i], tremor)
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		r.DrawTriangle([3]raster.ClipVertex{
			verts[m.Indices[i]],
			verts[m.Indices[i+1]],
			verts[m.Indices[i+2]],
		}, fs)
	}
}

// shadeVertex is the vertex stage of the scene program.
func shadeVertex(dc *scene.DrawCall, u *SceneUniforms, v *scene.Vertex, tremor bool) raster.ClipVertex {
	p := v.Position.Vec4(1)
	clip := dc.ObjectToClip.Mul4x1(p)
	world := dc.ObjectToWorld.Mul4x1(p).Vec3()
	normal := dc.NormalToWorld.Mul3x1(v.Normal)

	if tremor {
		clip = applyTremor(clip, world, normal, u)
	}

	out := raster.ClipVertex{Clip: clip}
	copy(out.Varyings[varyWorld:], world[:])
	copy(out.Varyings[varyNormal:], normal[:])
	copy(out.Varyings[varyColor:], v.Color[:])
	copy(out.Varyings[varyControl:], v.Control[:])
	copy(out.Varyings[varyTexCoord:], v.TexCoord[:])
	return out
}

// applyTremor jitters a clip position by a screen-space wobble that grows
// at grazing view angles and vanishes when a face is seen head on.
func applyTremor(clip mgl32.Vec4, world, normal mgl32.Vec3, u *SceneUniforms) mgl32.Vec4 {
	if u.TremorAmount == 0 {
		return clip
	}
	view := scene.Normalize(u.ViewPos.Sub(world))
	n := scene.Normalize(normal)
	if view == (mgl32.Vec3{}) || n == (mgl32.Vec3{}) {
		return clip
	}
	phase := u.Time*u.Speed + (clip[0]+clip[1]+clip[2])*u.Frequency
	wobble := float32(math.Sin(float64(phase))) * u.TremorAmount * (1 - view.Dot(n))
	clip[0] += wobble * u.ClipUnitsPerPixel[0] * clip[3]
	clip[1] += wobble * u.ClipUnitsPerPixel[1] * clip[3]
	return clip
}

// shadeFragment is the fragment stage of the scene program. It returns the
// color and control outputs.
func shadeFragment(u *SceneUniforms, tex *texture.Texture, f *raster.Fragment) (mgl32.Vec4, mgl32.Vec4) {
	vary := &f.Varyings
	n := scene.Normalize(mgl32.Vec3{vary[varyNormal], vary[varyNormal+1], vary[varyNormal+2]})
	color := mgl32.Vec4{vary[varyColor], vary[varyColor+1], vary[varyColor+2], vary[varyColor+3]}
	control := mgl32.Vec4{vary[varyControl], vary[varyControl+1], vary[varyControl+2], vary[varyControl+3]}

	l := &u.Lighting
	skyNL := 0.5 + 0.5*n.Dot(l.SkyDirection)
	sunNL := max(0, n.Dot(l.SunDirection))
	light := l.SkyColor.Mul(skyNL).Add(l.SunColor.Mul(sunNL))

	texel := tex.Sample(vary[varyTexCoord], vary[varyTexCoord+1], texture.AddressRepeat)
	c := mgl32.Vec3{
		texel[0] * color[0] * shadeGain * light[0],
		texel[1] * color[1] * shadeGain * light[1],
		texel[2] * color[2] * shadeGain * light[2],
	}
	if u.Pigment {
		c = pigment(c, n, control[3], u)
	}
	return c.Vec4(texel[3]), control
}

// pigment applies dilution, the cangiante shift and the control alpha
// contrast curve to the shaded color c.
func pigment(c, n mgl32.Vec3, controlAlpha float32, u *SceneUniforms) mgl32.Vec3 {
	da := DilutionArea(n, u.Lighting, u.DA)
	c = c.Add(mgl32.Vec3{1, 1, 1}.Mul(da * u.Cangiante))
	c = u.Paper.Sub(c).Mul(u.Dilution * da).Add(c)
	return ControlCurve(c, controlAlpha)
}

// DilutionArea returns how strongly a fragment with normal n lies in the
// light transition zone, in [0, 1]. A non-positive dA disables it.
func DilutionArea(n mgl32.Vec3, l Lighting, dA float32) float32 {
	if dA <= 0 {
		return 0
	}
	nl := max(n.Dot(l.SunDirection), n.Dot(l.SkyDirection))
	return mgl32.Clamp((nl+dA-1)/dA, 0, 1)
}

// ControlCurve raises contrast for control alpha below one half and
// lightens toward white above it. One half leaves c unchanged.
func ControlCurve(c mgl32.Vec3, a float32) mgl32.Vec3 {
	switch {
	case a < 0.5:
		e := float64(3 - 4*a)
		for i := range c {
			c[i] = float32(math.Pow(float64(max(c[i], 0)), e))
		}
	case a > 0.5:
		t := min(2*a-1, 1)
		for i := range c {
			c[i] += (1 - c[i]) * t
		}
	}
	return c
}
