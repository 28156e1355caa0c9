// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host (for example a gogpu.App) implements DeviceHandle and passes it to
// the renderer through an option. The renderer never creates a device itself.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, keeping full
// compatibility with the gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// HasGPU reports whether h carries a real device.
func HasGPU(h DeviceHandle) bool {
	return h != nil && h.Device() != nil
}

// SurfaceFormat returns the presentation format of h, falling back to
// RGBA8Unorm for CPU-only handles.
func SurfaceFormat(h DeviceHandle) gputypes.TextureFormat {
	if h == nil {
		return gputypes.TextureFormatRGBA8Unorm
	}
	switch f := h.SurfaceFormat(); f {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return f
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}

// TextureDescriptor describes parameters for creating a texture.
// This mirrors the WebGPU GPUTextureDescriptor.
type TextureDescriptor struct {
	// Label is an optional debug label for the texture.
	Label string

	// Width is the texture width in pixels.
	Width uint32

	// Height is the texture height in pixels.
	Height uint32

	// Format is the texture pixel format.
	Format gputypes.TextureFormat

	// Usage specifies how the texture will be used.
	Usage gputypes.TextureUsage
}

// Size returns the descriptor extent as a gputypes.Extent3D.
func (d TextureDescriptor) Size() gputypes.Extent3D {
	return gputypes.Extent3D{Width: d.Width, Height: d.Height, DepthOrArrayLayers: 1}
}

// AttachmentDescriptor returns a descriptor for a texture that is rendered
// into by one pass and sampled by a later one.
func AttachmentDescriptor(label string, width, height uint32, format gputypes.TextureFormat) TextureDescriptor {
	return TextureDescriptor{
		Label:  label,
		Width:  width,
		Height: height,
		Format: format,
		Usage:  gputypes.TextureUsageTextureBinding | gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	}
}

// DefaultMaxTextureSize is the texture dimension limit assumed when the host
// does not report one.
const DefaultMaxTextureSize = 8192

// DeviceCapabilities describes the limits of a device that matter to the
// renderer.
type DeviceCapabilities struct {
	// MaxTextureSize is the maximum texture dimension supported.
	MaxTextureSize uint32

	// GPU reports whether passes may be submitted to a device.
	GPU bool
}

// CapabilitiesOf returns the capabilities of h.
func CapabilitiesOf(h DeviceHandle) DeviceCapabilities {
	return DeviceCapabilities{
		MaxTextureSize: DefaultMaxTextureSize,
		GPU:            HasGPU(h),
	}
}

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used for CPU-only rendering where no GPU is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
