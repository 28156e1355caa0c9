// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package watercolor renders 3D scenes as watercolor paintings in real time.
//
// # Overview
//
// A frame runs a fixed, linear sequence of off-screen passes:
//
//	Scene → Dual-Blur → Surface → Stylization → Present
//
// The scene pass shades geometry with hand tremor, pigment dilution and
// cangiante color shift, writing a color buffer and a per-pixel control
// buffer. The dual-blur pass produces a Gaussian blur and a depth-aware
// bleed of the color buffer. The surface pass derives paper height, normals
// and tint from the paper texture, and only runs when the frame buffers
// change. The stylization pass combines everything into the final image with
// edge darkening, pigment granulation and paper distortion. The present pass
// copies the buffer selected by the "show" parameter to the screen.
//
// # Quick Start
//
//	s, err := scene.LoadFile("scenes/demo.yaml")
//	if err != nil { ... }
//	r, err := watercolor.New(s)
//	if err != nil { ... }
//
//	target, _ := render.NewScreenTarget(800, 600, gputypes.TextureFormatRGBA8Unorm)
//	frame, err := r.RenderFrame(ctx, target)
//
// # Parameters
//
// Every tunable value lives in a [params.Store]. Writes from the command
// line, presets or the HTTP tuning channel are staged and become visible at
// the start of the next frame, so passes of one frame always agree.
//
// # Backends
//
// Every pass runs on the CPU software backend, which is deterministic and
// needs no device. When a GPU device is supplied with [WithDevice], the pass
// programs are compiled to SPIR-V at startup so compile errors surface
// before the first frame.
package watercolor

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
