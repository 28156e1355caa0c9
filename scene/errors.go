// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"errors"
	"strings"
)

// LoadErrorKind classifies scene load failures.
type LoadErrorKind uint8

const (
	// MissingNode means a required or referenced node does not exist.
	MissingNode LoadErrorKind = iota + 1

	// DuplicateNode means a name that must be unique is not.
	DuplicateNode

	// MalformedChunk means a section of the scene description is invalid.
	MalformedChunk

	// IndexOutOfRange means a mesh index points past its vertices.
	IndexOutOfRange
)

// String returns the kind name.
func (k LoadErrorKind) String() string {
	switch k {
	case MissingNode:
		return "missing node"
	case DuplicateNode:
		return "duplicate node"
	case MalformedChunk:
		return "malformed chunk"
	case IndexOutOfRange:
		return "index out of range"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching against a LoadError kind.
var (
	ErrMissingNode     = errors.New("scene: missing node")
	ErrDuplicateNode   = errors.New("scene: duplicate node")
	ErrMalformedChunk  = errors.New("scene: malformed chunk")
	ErrIndexOutOfRange = errors.New("scene: index out of range")
)

// LoadError is a structured scene load failure.
type LoadError struct {
	Kind LoadErrorKind

	// Name is the node or section involved, if any.
	Name string

	// Index is the offending element index for IndexOutOfRange.
	Index int

	Err error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("scene: ")
	b.WriteString(e.Kind.String())
	if e.Name != "" {
		b.WriteString(" \"")
		b.WriteString(e.Name)
		b.WriteByte('"')
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error { return e.Err }

// Is matches the sentinel for e.Kind.
func (e *LoadError) Is(target error) bool {
	switch target {
	case ErrMissingNode:
		return e.Kind == MissingNode
	case ErrDuplicateNode:
		return e.Kind == DuplicateNode
	case ErrMalformedChunk:
		return e.Kind == MalformedChunk
	case ErrIndexOutOfRange:
		return e.Kind == IndexOutOfRange
	}
	return false
}

// Required node names.
const (
	CameraParentName = "CameraParent"
	CameraName       = "Camera"
)

// RequireNodes resolves the transform named CameraParent and the camera
// whose transform is named Camera. Both must exist exactly once.
func RequireNodes(s *Scene) (TransformID, CameraID, error) {
	parent, err := s.LookupTransform(CameraParentName)
	if err != nil {
		return TransformID{}, CameraID{}, err
	}
	var found []CameraID
	s.cameras.each(func(h handle, c *Camera) {
		if t, ok := s.transforms.get(c.Transform.h); ok && t.Name == CameraName {
			found = append(found, CameraID{h})
		}
	})
	switch len(found) {
	case 0:
		return TransformID{}, CameraID{}, &LoadError{Kind: MissingNode, Name: CameraName}
	case 1:
		return parent, found[0], nil
	default:
		return TransformID{}, CameraID{}, &LoadError{Kind: DuplicateNode, Name: CameraName}
	}
}
