// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shaders holds the WGSL programs of the watercolor passes and
// compiles them to SPIR-V for GPU devices.
//
// Screen-space passes share the fullscreen triangle vertex stage, which is
// prepended to their fragment source. Both blur directions use one program
// and select the axis through a uniform.
package shaders

import (
	"embed"
	"fmt"

	"github.com/gogpu/naga"

	"github.com/gogpu/watercolor/internal/cache"
	"github.com/gogpu/watercolor/internal/pass"
)

//go:embed wgsl/*.wgsl
var files embed.FS

// SPIRVMagic is the first word of every SPIR-V module.
const SPIRVMagic = 0x07230203

var programs = [pass.KindCount]struct {
	file       string
	fullscreen bool
}{
	pass.KindScene:          {"scene.wgsl", false},
	pass.KindDepth:          {"depth.wgsl", false},
	pass.KindBlurHorizontal: {"blur.wgsl", true},
	pass.KindBlurVertical:   {"blur.wgsl", true},
	pass.KindSurface:        {"surface.wgsl", true},
	pass.KindStylize:        {"stylize.wgsl", true},
	pass.KindPresent:        {"present.wgsl", true},
}

// CompileError reports a pass program that failed to build.
type CompileError struct {
	Kind pass.Kind
	Err  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shaders: compile %s: %v", e.Kind, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Source returns the complete WGSL source of the program for kind.
func Source(kind pass.Kind) (string, error) {
	if kind >= pass.KindCount {
		return "", &CompileError{Kind: kind, Err: fmt.Errorf("unknown pass")}
	}
	p := programs[kind]
	body, err := files.ReadFile("wgsl/" + p.file)
	if err != nil {
		return "", &CompileError{Kind: kind, Err: err}
	}
	if !p.fullscreen {
		return string(body), nil
	}
	vs, err := files.ReadFile("wgsl/fullscreen.wgsl")
	if err != nil {
		return "", &CompileError{Kind: kind, Err: err}
	}
	return string(vs) + "\n" + string(body), nil
}

// compiled memoizes SPIR-V per program. Programs are immutable, so the
// limit only bounds the table.
var compiled = cache.New[pass.Kind, []uint32](int(pass.KindCount))

// Compile returns the SPIR-V words of the program for kind. Results are
// cached for the life of the process.
func Compile(kind pass.Kind) ([]uint32, error) {
	return compiled.GetOrLoad(kind, func() ([]uint32, error) {
		src, err := Source(kind)
		if err != nil {
			return nil, err
		}
		spirv, err := naga.Compile(src)
		if err != nil {
			return nil, &CompileError{Kind: kind, Err: err}
		}
		return words(spirv), nil
	})
}

// CompileAll compiles every pass program, stopping at the first failure.
func CompileAll() ([pass.KindCount][]uint32, error) {
	var out [pass.KindCount][]uint32
	for k := range pass.KindCount {
		code, err := Compile(k)
		if err != nil {
			return out, err
		}
		out[k] = code
	}
	return out, nil
}

// CacheStats reports hits and misses of the compiled program cache.
func CacheStats() cache.Stats {
	return compiled.Stats()
}

// words packs little-endian SPIR-V bytes into 32-bit words.
func words(b []byte) []uint32 {
	code := make([]uint32, len(b)/4)
	for i := range code {
		code[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return code
}
