// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

func TestNullDeviceHandle(t *testing.T) {
	var handle DeviceHandle = NullDeviceHandle{}

	if handle.Device() != nil {
		t.Error("NullDeviceHandle.Device() should return nil")
	}
	if handle.Queue() != nil {
		t.Error("NullDeviceHandle.Queue() should return nil")
	}
	if handle.Adapter() != nil {
		t.Error("NullDeviceHandle.Adapter() should return nil")
	}
	if handle.SurfaceFormat() != gputypes.TextureFormatUndefined {
		t.Error("NullDeviceHandle.SurfaceFormat() should return Undefined")
	}
}

func TestHasGPU(t *testing.T) {
	if HasGPU(nil) {
		t.Error("HasGPU(nil) = true, want false")
	}
	if HasGPU(NullDeviceHandle{}) {
		t.Error("HasGPU(NullDeviceHandle) = true, want false")
	}
}

func TestDeviceHandleAlias(t *testing.T) {
	// DeviceHandle should be an alias for gpucontext.DeviceProvider.
	var provider gpucontext.DeviceProvider = NullDeviceHandle{}
	var handle DeviceHandle = provider
	_ = handle
}

type formatHandle struct {
	NullDeviceHandle
	format gputypes.TextureFormat
}

func (h formatHandle) SurfaceFormat() gputypes.TextureFormat { return h.format }

func TestSurfaceFormat(t *testing.T) {
	tests := []struct {
		name   string
		handle DeviceHandle
		want   gputypes.TextureFormat
	}{
		{"nil", nil, gputypes.TextureFormatRGBA8Unorm},
		{"null", NullDeviceHandle{}, gputypes.TextureFormatRGBA8Unorm},
		{"bgra", formatHandle{format: gputypes.TextureFormatBGRA8Unorm}, gputypes.TextureFormatBGRA8Unorm},
		{"rgba", formatHandle{format: gputypes.TextureFormatRGBA8Unorm}, gputypes.TextureFormatRGBA8Unorm},
		{"depth", formatHandle{format: gputypes.TextureFormatDepth24PlusStencil8}, gputypes.TextureFormatRGBA8Unorm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SurfaceFormat(tt.handle); got != tt.want {
				t.Errorf("SurfaceFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAttachmentDescriptor(t *testing.T) {
	desc := AttachmentDescriptor("color", 256, 128, gputypes.TextureFormatRGBA8Unorm)

	if desc.Label != "color" {
		t.Errorf("Label = %q, want color", desc.Label)
	}
	size := desc.Size()
	if size.Width != 256 || size.Height != 128 || size.DepthOrArrayLayers != 1 {
		t.Errorf("Size() = %+v, want 256x128x1", size)
	}
	for _, u := range []gputypes.TextureUsage{
		gputypes.TextureUsageTextureBinding,
		gputypes.TextureUsageRenderAttachment,
		gputypes.TextureUsageCopySrc,
	} {
		if desc.Usage&u == 0 {
			t.Errorf("Usage %v missing flag %v", desc.Usage, u)
		}
	}
}

func TestCapabilitiesOf(t *testing.T) {
	caps := CapabilitiesOf(NullDeviceHandle{})
	if caps.MaxTextureSize != DefaultMaxTextureSize {
		t.Errorf("MaxTextureSize = %d, want %d", caps.MaxTextureSize, DefaultMaxTextureSize)
	}
	if caps.GPU {
		t.Error("GPU = true for the null device")
	}
}
