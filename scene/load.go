// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/watercolor/internal/cache"
	"github.com/gogpu/watercolor/texture"
)

// document is the YAML scene description.
//
//	transforms:
//	  - name: CameraParent
//	  - name: Camera
//	    parent: CameraParent
//	    position: [0, -6, 3]
//	    rotation: [65, 0, 0]   # XYZ euler degrees
//	cameras:
//	  - transform: Camera
//	    fovy: 40               # degrees
//	    near: 0.1
//	lamps:
//	  - transform: Sun
//	    type: directional
//	    energy: [1, 1, 1]
//	objects:
//	  - transform: Cube
//	    mesh: {primitive: cube, size: [1]}
//	    color: [0.8, 0.3, 0.2, 1]
//	    control: [0, 1, 0, 0.5]
//	    texture: wood.png
type document struct {
	Transforms []transformDoc `yaml:"transforms"`
	Cameras    []cameraDoc    `yaml:"cameras"`
	Lamps      []lampDoc      `yaml:"lamps"`
	Objects    []objectDoc    `yaml:"objects"`
}

type transformDoc struct {
	Name     string    `yaml:"name"`
	Parent   string    `yaml:"parent"`
	Position []float32 `yaml:"position"`
	Rotation []float32 `yaml:"rotation"`
	Scale    []float32 `yaml:"scale"`
}

type cameraDoc struct {
	Transform string  `yaml:"transform"`
	FovY      float32 `yaml:"fovy"`
	Near      float32 `yaml:"near"`
}

type lampDoc struct {
	Transform string    `yaml:"transform"`
	Type      string    `yaml:"type"`
	Energy    []float32 `yaml:"energy"`
}

type objectDoc struct {
	Transform string    `yaml:"transform"`
	Mesh      meshDoc   `yaml:"mesh"`
	Color     []float32 `yaml:"color"`
	Control   []float32 `yaml:"control"`
	Texture   string    `yaml:"texture"`
	DepthOnly bool      `yaml:"depth_only"`
}

type meshDoc struct {
	Primitive string      `yaml:"primitive"`
	Size      []float32   `yaml:"size"`
	Segments  int         `yaml:"segments"`
	Positions [][]float32 `yaml:"positions"`
	Normals   [][]float32 `yaml:"normals"`
	TexCoords [][]float32 `yaml:"texcoords"`
	Indices   []uint32    `yaml:"indices"`
}

// Default camera values for entries that omit them.
const (
	defaultFovYDegrees = 40
	defaultNear        = 0.1
)

// LoadFile loads the scene description at name. Texture paths resolve
// relative to the scene file.
func LoadFile(name string) (*Scene, error) {
	name = filepath.Clean(name)
	return Load(os.DirFS(filepath.Dir(name)), filepath.Base(name))
}

// Load reads the scene description name from fsys. Texture paths resolve
// relative to name within fsys.
func Load(fsys fs.FS, name string) (*Scene, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("scene: open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	var doc document
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{Kind: MalformedChunk, Name: name, Err: err}
	}
	return build(&doc, fsys, path.Dir(name))
}

// Decode reads a scene description from r. Scenes decoded this way cannot
// reference textures.
func Decode(r io.Reader) (*Scene, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{Kind: MalformedChunk, Err: err}
	}
	return build(&doc, nil, ".")
}

func build(doc *document, fsys fs.FS, dir string) (*Scene, error) {
	s := New()

	for i, td := range doc.Transforms {
		if td.Name == "" {
			return nil, &LoadError{Kind: MalformedChunk, Name: "transforms", Index: i, Err: errors.New("transform without a name")}
		}
		t := NewTransform(td.Name)
		var err error
		if t.Position, err = vec3(td.Position, mgl32.Vec3{}); err != nil {
			return nil, chunkErr(td.Name, "position", err)
		}
		if t.Scale, err = vec3(td.Scale, mgl32.Vec3{1, 1, 1}); err != nil {
			return nil, chunkErr(td.Name, "scale", err)
		}
		euler, err := vec3(td.Rotation, mgl32.Vec3{})
		if err != nil {
			return nil, chunkErr(td.Name, "rotation", err)
		}
		t.Rotation = EulerXYZ(euler)
		s.AddTransform(t)
	}

	// Parents may be declared after their children.
	for _, td := range doc.Transforms {
		if td.Parent == "" {
			continue
		}
		child, err := s.LookupTransform(td.Name)
		if err != nil {
			return nil, err
		}
		parent, err := s.LookupTransform(td.Parent)
		if err != nil {
			return nil, err
		}
		if err := s.SetParent(child, parent); err != nil {
			return nil, &LoadError{Kind: MalformedChunk, Name: td.Name, Err: err}
		}
	}

	for _, cd := range doc.Cameras {
		id, err := s.LookupTransform(cd.Transform)
		if err != nil {
			return nil, err
		}
		fovy := cd.FovY
		if fovy == 0 {
			fovy = defaultFovYDegrees
		}
		near := cd.Near
		if near == 0 {
			near = defaultNear
		}
		if fovy <= 0 || fovy >= 180 || near < 0 {
			return nil, &LoadError{Kind: MalformedChunk, Name: cd.Transform, Err: fmt.Errorf("camera fovy %v near %v", fovy, near)}
		}
		if _, err := s.AddCamera(Camera{Transform: id, FovY: mgl32.DegToRad(fovy), Aspect: 1, Near: near}); err != nil {
			return nil, err
		}
	}

	for _, ld := range doc.Lamps {
		id, err := s.LookupTransform(ld.Transform)
		if err != nil {
			return nil, err
		}
		typ, err := parseLampType(ld.Type)
		if err != nil {
			return nil, chunkErr(ld.Transform, "type", err)
		}
		energy, err := vec3(ld.Energy, mgl32.Vec3{1, 1, 1})
		if err != nil {
			return nil, chunkErr(ld.Transform, "energy", err)
		}
		if _, err := s.AddLamp(Lamp{Transform: id, Type: typ, Energy: energy}); err != nil {
			return nil, err
		}
	}

	// Objects naming the same file share one decoded texture.
	textures := cache.New[string, *texture.Texture](0)
	for _, od := range doc.Objects {
		if err := addObject(s, &od, fsys, dir, textures); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func addObject(s *Scene, od *objectDoc, fsys fs.FS, dir string, textures *cache.Cache[string, *texture.Texture]) error {
	id, err := s.LookupTransform(od.Transform)
	if err != nil {
		return err
	}
	mesh, err := buildMesh(&od.Mesh)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) && le.Name == "" {
			le.Name = od.Transform
		}
		return err
	}
	color, err := vec4(od.Color, mgl32.Vec4{1, 1, 1, 1})
	if err != nil {
		return chunkErr(od.Transform, "color", err)
	}
	control, err := vec4(od.Control, NeutralControl)
	if err != nil {
		return chunkErr(od.Transform, "control", err)
	}
	mesh.Paint(color, control)

	mat := &Material{Name: od.Transform}
	if od.Texture != "" {
		if fsys == nil {
			return chunkErr(od.Transform, "texture", errors.New("no file system to load textures from"))
		}
		name := path.Join(dir, filepath.ToSlash(od.Texture))
		tex, err := textures.GetOrLoad(name, func() (*texture.Texture, error) {
			return loadTexture(fsys, name)
		})
		if err != nil {
			return chunkErr(od.Transform, "texture", err)
		}
		mat.Name = tex.Label()
		mat.Texture = tex
	}

	// Depth-only objects are invisible occluders drawn before the shaded
	// geometry.
	o := Object{Transform: id, Mesh: mesh}
	if od.DepthOnly {
		o.Materials[SlotDepth] = &Material{Name: "depth"}
	} else {
		o.Materials[SlotDefault] = mat
	}
	_, err = s.AddObject(o)
	return err
}

func buildMesh(md *meshDoc) (*Mesh, error) {
	size := func(i int, def float32) float32 {
		if i < len(md.Size) {
			return md.Size[i]
		}
		if len(md.Size) > 0 {
			return md.Size[0]
		}
		return def
	}
	switch strings.ToLower(md.Primitive) {
	case "quad":
		return Quad(size(0, 1), size(1, 1)), nil
	case "plane":
		return Plane(size(0, 1), size(1, 1), md.Segments), nil
	case "cube":
		return Cube(size(0, 1)), nil
	case "":
	default:
		return nil, &LoadError{Kind: MalformedChunk, Err: fmt.Errorf("unknown primitive %q", md.Primitive)}
	}

	vertices := make([]Vertex, len(md.Positions))
	for i, p := range md.Positions {
		pos, err := vec3(p, mgl32.Vec3{})
		if err != nil {
			return nil, &LoadError{Kind: MalformedChunk, Index: i, Err: fmt.Errorf("position: %w", err)}
		}
		vertices[i] = Vertex{Position: pos, Color: mgl32.Vec4{1, 1, 1, 1}, Control: NeutralControl}
	}
	if len(md.Normals) != 0 && len(md.Normals) != len(vertices) {
		return nil, &LoadError{Kind: MalformedChunk, Err: fmt.Errorf("%d normals for %d positions", len(md.Normals), len(vertices))}
	}
	for i, n := range md.Normals {
		v, err := vec3(n, mgl32.Vec3{})
		if err != nil {
			return nil, &LoadError{Kind: MalformedChunk, Index: i, Err: fmt.Errorf("normal: %w", err)}
		}
		vertices[i].Normal = Normalize(v)
	}
	if len(md.TexCoords) != 0 && len(md.TexCoords) != len(vertices) {
		return nil, &LoadError{Kind: MalformedChunk, Err: fmt.Errorf("%d texcoords for %d positions", len(md.TexCoords), len(vertices))}
	}
	for i, uv := range md.TexCoords {
		if len(uv) != 2 {
			return nil, &LoadError{Kind: MalformedChunk, Index: i, Err: fmt.Errorf("texcoord has %d components", len(uv))}
		}
		vertices[i].TexCoord = mgl32.Vec2{uv[0], uv[1]}
	}
	m, err := NewMesh(vertices, md.Indices)
	if err != nil {
		return nil, err
	}
	if len(md.Normals) == 0 {
		m.ComputeNormals()
	}
	return m, nil
}

// ComputeNormals sets every vertex normal to the normalized sum of the face
// normals of the triangles that use it.
func (m *Mesh) ComputeNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = mgl32.Vec3{}
	}
	for t := 0; t+2 < len(m.Indices); t += 3 {
		a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		pa, pb, pc := m.Vertices[a].Position, m.Vertices[b].Position, m.Vertices[c].Position
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		m.Vertices[a].Normal = m.Vertices[a].Normal.Add(n)
		m.Vertices[b].Normal = m.Vertices[b].Normal.Add(n)
		m.Vertices[c].Normal = m.Vertices[c].Normal.Add(n)
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = Normalize(m.Vertices[i].Normal)
	}
}

func loadTexture(fsys fs.FS, name string) (*texture.Texture, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	tex, err := texture.Decode(f)
	if err != nil {
		return nil, err
	}
	tex.SetLabel(path.Base(name))
	return tex, nil
}

func parseLampType(s string) (LampType, error) {
	switch strings.ToLower(s) {
	case "", "point":
		return LampPoint, nil
	case "hemisphere", "hemi":
		return LampHemisphere, nil
	case "spot":
		return LampSpot, nil
	case "directional", "sun":
		return LampDirectional, nil
	default:
		return 0, fmt.Errorf("unknown lamp type %q", s)
	}
}

// EulerXYZ converts XYZ euler angles in degrees to a quaternion. X is
// applied first.
func EulerXYZ(deg mgl32.Vec3) mgl32.Quat {
	qx := mgl32.QuatRotate(mgl32.DegToRad(deg[0]), mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(mgl32.DegToRad(deg[1]), mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(mgl32.DegToRad(deg[2]), mgl32.Vec3{0, 0, 1})
	return qz.Mul(qy).Mul(qx)
}

func chunkErr(name, field string, err error) error {
	return &LoadError{Kind: MalformedChunk, Name: name, Err: fmt.Errorf("%s: %w", field, err)}
}

func vec3(v []float32, def mgl32.Vec3) (mgl32.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return mgl32.Vec3{v[0], v[1], v[2]}, nil
	default:
		return def, fmt.Errorf("want 3 components, got %d", len(v))
	}
}

func vec4(v []float32, def mgl32.Vec4) (mgl32.Vec4, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return mgl32.Vec4{v[0], v[1], v[2], def[3]}, nil
	case 4:
		return mgl32.Vec4{v[0], v[1], v[2], v[3]}, nil
	default:
		return def, fmt.Errorf("want 3 or 4 components, got %d", len(v))
	}
}
