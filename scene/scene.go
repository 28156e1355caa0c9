// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scene provides the scene collaborator of the watercolor renderer:
// transforms, objects, cameras and lamps stored in arenas and addressed by
// generational handles.
//
// The renderer only needs Draw, which walks every object and hands one
// DrawCall per object to an Encoder, plus the camera and lamp accessors.
// Scenes are built in code or loaded from YAML with Load.
package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrStaleHandle is returned for handles whose node was deleted or never
	// existed.
	ErrStaleHandle = errors.New("scene: stale handle")

	// ErrCycle is returned when a reparent would make a transform its own
	// ancestor.
	ErrCycle = errors.New("scene: transform cycle")

	// ErrInUse is returned when deleting a transform that objects, cameras
	// or lamps still reference.
	ErrInUse = errors.New("scene: transform in use")
)

// TransformID addresses a transform.
type TransformID struct{ h handle }

// ObjectID addresses an object.
type ObjectID struct{ h handle }

// CameraID addresses a camera.
type CameraID struct{ h handle }

// LampID addresses a lamp.
type LampID struct{ h handle }

// Valid reports whether the id was ever issued. It does not report whether
// the node still exists.
func (id TransformID) Valid() bool { return id.h.gen != 0 }

// Valid reports whether the id was ever issued.
func (id ObjectID) Valid() bool { return id.h.gen != 0 }

// Valid reports whether the id was ever issued.
func (id CameraID) Valid() bool { return id.h.gen != 0 }

// Valid reports whether the id was ever issued.
func (id LampID) Valid() bool { return id.h.gen != 0 }

// Transform places a node relative to its parent.
type Transform struct {
	Name     string
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	parent TransformID
}

// NewTransform returns an identity transform named name.
func NewTransform(name string) Transform {
	return Transform{
		Name:     name,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Local returns the parent-from-local matrix T·R·S.
func (t *Transform) Local() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	m = m.Mul4(t.Rotation.Normalize().Mat4())
	return m.Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// Object is a drawable mesh attached to a transform.
type Object struct {
	Transform TransformID
	Mesh      *Mesh
	Materials [SlotCount]*Material
}

// Scene owns every node. The zero value is not usable; call New.
type Scene struct {
	transforms arena[Transform]
	objects    arena[Object]
	cameras    arena[Camera]
	lamps      arena[Lamp]
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// AddTransform inserts t. A parent set on t is ignored; use SetParent.
func (s *Scene) AddTransform(t Transform) TransformID {
	t.parent = TransformID{}
	if t.Rotation == (mgl32.Quat{}) {
		t.Rotation = mgl32.QuatIdent()
	}
	return TransformID{s.transforms.insert(t)}
}

// Transform returns the transform for id.
func (s *Scene) Transform(id TransformID) (*Transform, bool) {
	return s.transforms.get(id.h)
}

// Parent returns the parent of id, or the zero id for roots.
func (s *Scene) Parent(id TransformID) TransformID {
	t, ok := s.transforms.get(id.h)
	if !ok {
		return TransformID{}
	}
	return t.parent
}

// SetParent attaches child under parent. The zero parent detaches it.
func (s *Scene) SetParent(child, parent TransformID) error {
	t, ok := s.transforms.get(child.h)
	if !ok {
		return fmt.Errorf("%w: transform", ErrStaleHandle)
	}
	if !parent.Valid() {
		t.parent = TransformID{}
		return nil
	}
	if _, ok := s.transforms.get(parent.h); !ok {
		return fmt.Errorf("%w: parent transform", ErrStaleHandle)
	}
	for p := parent; p.Valid(); p = s.Parent(p) {
		if p == child {
			return fmt.Errorf("%w: %q", ErrCycle, t.Name)
		}
	}
	t.parent = parent
	return nil
}

// DeleteTransform removes id. Its children become roots. It fails with
// ErrInUse while any object, camera or lamp references id.
func (s *Scene) DeleteTransform(id TransformID) error {
	t, ok := s.transforms.get(id.h)
	if !ok {
		return fmt.Errorf("%w: transform", ErrStaleHandle)
	}
	inUse := false
	s.objects.each(func(_ handle, o *Object) { inUse = inUse || o.Transform == id })
	s.cameras.each(func(_ handle, c *Camera) { inUse = inUse || c.Transform == id })
	s.lamps.each(func(_ handle, l *Lamp) { inUse = inUse || l.Transform == id })
	if inUse {
		return fmt.Errorf("%w: %q", ErrInUse, t.Name)
	}
	s.transforms.each(func(_ handle, c *Transform) {
		if c.parent == id {
			c.parent = TransformID{}
		}
	})
	s.transforms.remove(id.h)
	return nil
}

// WorldFromLocal returns the world-from-local matrix of id.
func (s *Scene) WorldFromLocal(id TransformID) mgl32.Mat4 {
	m := mgl32.Ident4()
	for p := id; p.Valid(); {
		t, ok := s.transforms.get(p.h)
		if !ok {
			break
		}
		m = t.Local().Mul4(m)
		p = t.parent
	}
	return m
}

// LocalFromWorld returns the inverse of WorldFromLocal.
func (s *Scene) LocalFromWorld(id TransformID) mgl32.Mat4 {
	return s.WorldFromLocal(id).Inv()
}

// FindTransforms returns every transform named name, in slot order.
func (s *Scene) FindTransforms(name string) []TransformID {
	var ids []TransformID
	s.transforms.each(func(h handle, t *Transform) {
		if t.Name == name {
			ids = append(ids, TransformID{h})
		}
	})
	return ids
}

// LookupTransform returns the single transform named name. It fails with a
// MissingNode or DuplicateNode LoadError otherwise.
func (s *Scene) LookupTransform(name string) (TransformID, error) {
	ids := s.FindTransforms(name)
	switch len(ids) {
	case 0:
		return TransformID{}, &LoadError{Kind: MissingNode, Name: name}
	case 1:
		return ids[0], nil
	default:
		return TransformID{}, &LoadError{Kind: DuplicateNode, Name: name}
	}
}

// AddObject inserts o.
func (s *Scene) AddObject(o Object) (ObjectID, error) {
	if _, ok := s.transforms.get(o.Transform.h); !ok {
		return ObjectID{}, fmt.Errorf("%w: object transform", ErrStaleHandle)
	}
	return ObjectID{s.objects.insert(o)}, nil
}

// Object returns the object for id.
func (s *Scene) Object(id ObjectID) (*Object, bool) {
	return s.objects.get(id.h)
}

// DeleteObject removes id.
func (s *Scene) DeleteObject(id ObjectID) bool {
	return s.objects.remove(id.h)
}

// AddCamera inserts c.
func (s *Scene) AddCamera(c Camera) (CameraID, error) {
	if _, ok := s.transforms.get(c.Transform.h); !ok {
		return CameraID{}, fmt.Errorf("%w: camera transform", ErrStaleHandle)
	}
	return CameraID{s.cameras.insert(c)}, nil
}

// Camera returns the camera for id.
func (s *Scene) Camera(id CameraID) (*Camera, bool) {
	return s.cameras.get(id.h)
}

// DeleteCamera removes id.
func (s *Scene) DeleteCamera(id CameraID) bool {
	return s.cameras.remove(id.h)
}

// Cameras returns every camera in slot order.
func (s *Scene) Cameras() []CameraID {
	var ids []CameraID
	s.cameras.each(func(h handle, _ *Camera) { ids = append(ids, CameraID{h}) })
	return ids
}

// AddLamp inserts l.
func (s *Scene) AddLamp(l Lamp) (LampID, error) {
	if _, ok := s.transforms.get(l.Transform.h); !ok {
		return LampID{}, fmt.Errorf("%w: lamp transform", ErrStaleHandle)
	}
	return LampID{s.lamps.insert(l)}, nil
}

// Lamp returns the lamp for id.
func (s *Scene) Lamp(id LampID) (*Lamp, bool) {
	return s.lamps.get(id.h)
}

// DeleteLamp removes id.
func (s *Scene) DeleteLamp(id LampID) bool {
	return s.lamps.remove(id.h)
}

// Lamps returns every lamp in slot order.
func (s *Scene) Lamps() []LampID {
	var ids []LampID
	s.lamps.each(func(h handle, _ *Lamp) { ids = append(ids, LampID{h}) })
	return ids
}

// Counts returns the number of transforms, objects, cameras and lamps.
func (s *Scene) Counts() (transforms, objects, cameras, lamps int) {
	return s.transforms.len(), s.objects.len(), s.cameras.len(), s.lamps.len()
}
