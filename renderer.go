// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package watercolor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/watercolor/internal/pass"
	"github.com/gogpu/watercolor/internal/pool"
	"github.com/gogpu/watercolor/internal/shaders"
	"github.com/gogpu/watercolor/params"
	"github.com/gogpu/watercolor/render"
	"github.com/gogpu/watercolor/scene"
	"github.com/gogpu/watercolor/texture"
)

var (
	// ErrNilScene is returned by New without a scene.
	ErrNilScene = errors.New("watercolor: nil scene")

	// ErrNilTarget is returned by RenderFrame without a target.
	ErrNilTarget = errors.New("watercolor: nil target")
)

// Lamp names that override the default lighting.
const (
	SunLampName = "Sun"
	SkyLampName = "Sky"
)

// Frame reports what one call to RenderFrame did.
type Frame struct {
	// Number counts RenderFrame calls, starting at 1.
	Number uint64

	// Skipped is set when the target had no pixels and nothing was drawn.
	Skipped bool

	// Show is the stage that was presented.
	Show params.Stage

	// SurfaceUpdated is set when the paper surface was recomputed.
	SurfaceUpdated bool

	// Rasterizer counts of the scene pass.
	Triangles int
	Fragments int

	// Done is set when the frame was captured to CapturePath. A single-shot
	// render stops here.
	Done        bool
	CapturePath string

	// CaptureErr holds a failed capture. The capture is abandoned and
	// rendering may continue.
	CaptureErr error
}

// Renderer runs the watercolor passes over a scene.
//
// A Renderer is driven from one goroutine. Parameter writes may come from
// any goroutine through its store; they apply at the next frame.
type Renderer struct {
	scene        *scene.Scene
	cameraParent scene.TransformID
	camera       scene.CameraID

	store      *params.Store
	pool       *pool.Pool
	paper      *texture.Texture
	lighting   Lighting
	rendersDir string

	// programs holds SPIR-V per pass when a GPU device is attached.
	programs [pass.KindCount][]uint32
	frames   uint64

	mu     sync.Mutex
	latest *image.NRGBA
}

// New creates a renderer for s. The scene must contain exactly one
// transform named CameraParent and one camera on a transform named Camera.
func New(s *scene.Scene, opts ...Option) (*Renderer, error) {
	if s == nil {
		return nil, ErrNilScene
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	parent, cam, err := scene.RequireNodes(s)
	if err != nil {
		return nil, err
	}

	store := o.store
	if store == nil {
		if store, err = params.NewStore(params.Defaults()); err != nil {
			return nil, err
		}
	}
	paper := o.paper
	if paper == nil {
		if paper, err = texture.Paper(DefaultPaperSize, DefaultPaperSize, 1); err != nil {
			return nil, err
		}
		paper.SetLabel("procedural paper")
	}

	r := &Renderer{
		scene:        s,
		cameraParent: parent,
		camera:       cam,
		store:        store,
		pool:         pool.New(render.CapabilitiesOf(o.device)),
		paper:        paper,
		lighting:     o.lighting,
		rendersDir:   o.rendersDir,
	}

	if render.HasGPU(o.device) {
		programs, err := shaders.CompileAll()
		if err != nil {
			return nil, err
		}
		r.programs = programs
		Logger().Info("watercolor: pass programs compiled",
			"programs", len(programs),
			"surface_format", render.SurfaceFormat(o.device))
	}

	Logger().Info("watercolor: renderer created",
		"gpu", r.Accelerated(),
		"paper", paper.Label(),
		"renders", r.rendersDir)
	return r, nil
}

// Params returns the parameter store the renderer reads.
func (r *Renderer) Params() *params.Store { return r.store }

// Scene returns the rendered scene.
func (r *Renderer) Scene() *scene.Scene { return r.scene }

// Accelerated reports whether pass programs were compiled for a GPU device.
func (r *Renderer) Accelerated() bool { return r.programs[0] != nil }

// SetPaper replaces the paper texture. The surface is recomputed on the next
// frame.
func (r *Renderer) SetPaper(t *texture.Texture) error {
	if t == nil {
		return pass.ErrNoPaper
	}
	r.paper = t
	r.pool.MarkSurfaceStale()
	return nil
}

// Buffer returns the frame buffer presented for stage, or nil before the
// first frame.
func (r *Renderer) Buffer(stage params.Stage) *texture.Texture {
	return r.pool.Texture(pass.Source(stage))
}

// SurfaceStale reports whether the next frame recomputes the paper surface.
func (r *Renderer) SurfaceStale() bool { return r.pool.SurfaceStale() }

// Allocations returns the number of frame buffer textures allocated so far.
func (r *Renderer) Allocations() int { return r.pool.Allocations() }

// LatestFrame returns the most recently presented image, or nil before the
// first frame. Each frame publishes a new image. It is safe to call from any goroutine.
func (r *Renderer) LatestFrame() image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latest == nil {
		return nil
	}
	return r.latest
}

// RenderFrame runs every pass once and presents the result into target.
//
// Parameters are read once from the store at the start of the frame. A
// target without pixels skips the frame. Resource errors are returned;
// a failed capture is reported in Frame.CaptureErr and is not an error.
func (r *Renderer) RenderFrame(ctx context.Context, target *render.ScreenTarget) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	if target == nil {
		return Frame{}, ErrNilTarget
	}
	r.frames++
	f := Frame{Number: r.frames}
	if target.Empty() {
		f.Skipped = true
		Logger().Debug("watercolor: zero-area target, frame skipped", "frame", f.Number)
		return f, nil
	}

	p := r.store.Sync()
	f.Show = p.Show

	width, height := target.Width(), target.Height()
	if err := r.pool.EnsureSize(width, height); err != nil {
		return f, fmt.Errorf("watercolor: frame buffers: %w", err)
	}
	if err := r.spinCamera(p.CameraSpin); err != nil {
		return f, err
	}

	tex := r.pool.Texture
	stats, err := pass.DrawScene(pass.SceneTargets{
		Color:   tex(pool.RoleColor),
		Control: tex(pool.RoleControl),
		Depth:   tex(pool.RoleDepth),
	}, r.scene, r.camera, pass.NewSceneUniforms(p, r.sceneLighting()))
	if err != nil {
		return f, err
	}
	f.Triangles, f.Fragments = stats.Triangles, stats.Fragments

	if err := pass.DualBlur(pass.DualBlurTextures{
		Color:       tex(pool.RoleColor),
		Control:     tex(pool.RoleControl),
		Depth:       tex(pool.RoleDepth),
		BlurTemp:    tex(pool.RoleBlurTemp),
		BleedTemp:   tex(pool.RoleBleedTemp),
		ControlTemp: tex(pool.RoleControlTemp),
		Blurred:     tex(pool.RoleBlurred),
		Bleeded:     tex(pool.RoleBleeded),
	}, p); err != nil {
		return f, err
	}

	if r.pool.SurfaceStale() {
		if err := pass.Surface(r.paper, tex(pool.RoleSurface), pass.DefaultSurfaceUniforms()); err != nil {
			return f, err
		}
		r.pool.MarkSurfaceFresh()
		f.SurfaceUpdated = true
	}

	if err := pass.Stylize(pass.StylizeTextures{
		Color:   tex(pool.RoleColor),
		Control: tex(pool.RoleControl),
		Blurred: tex(pool.RoleBlurred),
		Bleeded: tex(pool.RoleBleeded),
		Surface: tex(pool.RoleSurface),
		Final:   tex(pool.RoleFinal),
	}, pass.NewStylizeUniforms(p)); err != nil {
		return f, err
	}

	src := tex(pass.Source(p.Show))
	if err := pass.Present(src, target, pass.PresentUniforms{Show: p.Show}); err != nil {
		return f, err
	}
	r.publish(target)

	if p.Capture != "" {
		r.capture(&f, src, p.Capture)
	}
	return f, nil
}

// spinCamera turns the camera parent about the world z axis by degrees.
func (r *Renderer) spinCamera(degrees float32) error {
	t, ok := r.scene.Transform(r.cameraParent)
	if !ok {
		return &scene.LoadError{Kind: scene.MissingNode, Name: scene.CameraParentName}
	}
	t.Rotation = mgl32.QuatRotate(mgl32.DegToRad(degrees), mgl32.Vec3{0, 0, 1})
	return nil
}

// sceneLighting applies the Sun and Sky lamps of the scene over the
// configured lighting.
func (r *Renderer) sceneLighting() Lighting {
	l := r.lighting
	if id, ok := r.scene.FindLamp(SunLampName, scene.LampDirectional); ok {
		lamp, _ := r.scene.Lamp(id)
		l.SunDirection = r.scene.ToLight(id)
		l.SunColor = lamp.Energy
	}
	if id, ok := r.scene.FindLamp(SkyLampName, scene.LampHemisphere); ok {
		lamp, _ := r.scene.Lamp(id)
		l.SkyDirection = r.scene.ToLight(id)
		l.SkyColor = lamp.Energy
	}
	return l
}

func (r *Renderer) publish(target *render.ScreenTarget) {
	img := target.Image()
	r.mu.Lock()
	r.latest = img
	r.mu.Unlock()
}

// capture writes src to <renders>/<name>.png. On failure the capture
// parameter is cleared so the next frame does not retry.
func (r *Renderer) capture(f *Frame, src *texture.Texture, name string) {
	path := filepath.Join(r.rendersDir, name+".png")
	if err := src.SavePNG(path); err != nil {
		f.CaptureErr = fmt.Errorf("watercolor: capture %s: %w", path, err)
		Logger().Warn("watercolor: capture failed, continuing", "path", path, "err", err)
		if err := r.store.SetString("capture", ""); err != nil {
			Logger().Warn("watercolor: clear capture", "err", err)
		}
		return
	}
	f.Done = true
	f.CapturePath = path
	Logger().Info("watercolor: frame captured", "path", path, "show", f.Show)
}
