// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera looking down the -z axis of its transform.
type Camera struct {
	Transform TransformID

	// FovY is the vertical field of view in radians.
	FovY float32

	// Aspect is width over height. The renderer sets it once per frame.
	Aspect float32

	// Near is the near plane distance. There is no far plane.
	Near float32
}

// Projection returns the infinite perspective projection of c. Depth maps
// the near plane to -1 and infinity to 1 in clip space.
func (c *Camera) Projection() mgl32.Mat4 {
	f := float32(1 / math.Tan(float64(c.FovY)/2))
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	var m mgl32.Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = -1
	m[11] = -1
	m[14] = -2 * c.Near
	return m
}

// WorldToClip returns projection·view for camera id, or false when the
// camera does not exist.
func (s *Scene) WorldToClip(id CameraID) (mgl32.Mat4, bool) {
	c, ok := s.cameras.get(id.h)
	if !ok {
		return mgl32.Mat4{}, false
	}
	return c.Projection().Mul4(s.LocalFromWorld(c.Transform)), true
}

// CameraPosition returns the world position of camera id.
func (s *Scene) CameraPosition(id CameraID) mgl32.Vec3 {
	c, ok := s.cameras.get(id.h)
	if !ok {
		return mgl32.Vec3{}
	}
	return s.WorldFromLocal(c.Transform).Col(3).Vec3()
}

// LampType is the kind of a lamp.
type LampType uint8

const (
	// LampPoint emits in every direction.
	LampPoint LampType = iota

	// LampHemisphere lights from the upper hemisphere around its +z axis.
	LampHemisphere

	// LampSpot is a cone along -z.
	LampSpot

	// LampDirectional shines along -z from infinitely far.
	LampDirectional
)

// String returns the lamp type name.
func (t LampType) String() string {
	switch t {
	case LampPoint:
		return "point"
	case LampHemisphere:
		return "hemisphere"
	case LampSpot:
		return "spot"
	case LampDirectional:
		return "directional"
	default:
		return "unknown"
	}
}

// Lamp is a light attached to a transform.
type Lamp struct {
	Transform TransformID
	Type      LampType

	// Energy is the light color scaled by its strength.
	Energy mgl32.Vec3
}

// ToLight returns the world direction pointing from the scene toward lamp
// id, the +z axis of its transform.
func (s *Scene) ToLight(id LampID) mgl32.Vec3 {
	l, ok := s.lamps.get(id.h)
	if !ok {
		return mgl32.Vec3{}
	}
	return Normalize(s.WorldFromLocal(l.Transform).Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3())
}

// FindLamp returns the first lamp of type typ whose transform is named name.
func (s *Scene) FindLamp(name string, typ LampType) (LampID, bool) {
	var found LampID
	s.lamps.each(func(h handle, l *Lamp) {
		if found.Valid() || l.Type != typ {
			return
		}
		if t, ok := s.transforms.get(l.Transform.h); ok && t.Name == name {
			found = LampID{h}
		}
	})
	return found, found.Valid()
}

// Normalize returns v scaled to unit length, or the zero vector when v has
// no length.
func Normalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 || l != l {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}
