// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides the integration layer between the watercolor
// renderer and GPU frameworks.
//
// # Key Principle
//
// The renderer RECEIVES a GPU device from the host application, it does NOT
// create its own. A host passes a DeviceHandle (an alias for
// gpucontext.DeviceProvider); without one the renderer runs every pass on
// the software backend.
//
// # Core Types
//
//   - DeviceHandle: GPU device access from the host application
//   - NullDeviceHandle: the CPU-only handle
//   - TextureDescriptor: how pass attachments are allocated
//   - DeviceCapabilities: limits that bound attachment sizes
//   - ScreenTarget: the presentable surface the final image is copied into
//
// # Usage
//
//	target, err := render.NewScreenTarget(1280, 800, gputypes.TextureFormatBGRA8Unorm)
//	if err != nil {
//	    return err
//	}
//	frame, err := r.RenderFrame(ctx, target)
//	img := target.Image()
package render
