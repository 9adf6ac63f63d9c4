// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/vidview/internal/gpu"
	"github.com/gogpu/wgpu/hal"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host owns the device and passes it to the renderer. Device() and
// Queue() must return a hal.Device and hal.Queue, or the handle must expose
// them through HalDevice() and HalQueue().
//
// DeviceHandle is an alias for gpucontext.DeviceProvider.
type DeviceHandle = gpucontext.DeviceProvider

// HALDeviceHandle is a DeviceHandle over raw HAL objects.
type HALDeviceHandle struct {
	HalDev   hal.Device
	HalQueue hal.Queue
	Info     gputypes.AdapterInfo
	Format   gputypes.TextureFormat

	dev *gpu.Device
}

// Device returns the hal.Device.
func (h *HALDeviceHandle) Device() gpucontext.Device { return h.HalDev }

// Queue returns the hal.Queue.
func (h *HALDeviceHandle) Queue() gpucontext.Queue { return h.HalQueue }

// Adapter returns nil; adapters are not retained after the device is opened.
func (h *HALDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns the drawable format, BGRA8Unorm unless overridden.
func (h *HALDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	if h.Format == gputypes.TextureFormatUndefined {
		return gputypes.TextureFormatBGRA8Unorm
	}
	return h.Format
}

// AdapterInfo reports the adapter name and class.
func (h *HALDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: h.Info.Name, Type: adapterType(h.Info.DeviceType)}
}

// Close destroys a device opened with OpenDevice. It is a no-op for
// handles wrapping a host device. Safe to call multiple times.
func (h *HALDeviceHandle) Close() {
	if h.dev != nil {
		h.dev.Close()
	}
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

// OpenDevice opens a device on a registered HAL backend. The caller owns
// the returned handle and must Close it, or hand it to NewOwned.
//
// Backends register themselves when their package is imported, for
// example github.com/gogpu/wgpu/hal/vulkan or github.com/gogpu/wgpu/hal/noop.
func OpenDevice(backend gputypes.Backend) (*HALDeviceHandle, error) {
	d, err := gpu.OpenDevice(backend)
	if err != nil {
		return nil, err
	}
	return &HALDeviceHandle{
		HalDev:   d.Device,
		HalQueue: d.Queue,
		Info:     d.Info,
		dev:      d,
	}, nil
}

// ParseBackend maps a backend name to a HAL backend.
// "noop" and "empty" select the noop backend used for headless runs.
func ParseBackend(name string) (gputypes.Backend, error) {
	switch name {
	case "vulkan":
		return gputypes.BackendVulkan, nil
	case "metal":
		return gputypes.BackendMetal, nil
	case "dx12":
		return gputypes.BackendDX12, nil
	case "gl", "gles":
		return gputypes.BackendGL, nil
	case "noop", "empty":
		return gputypes.BackendEmpty, nil
	}
	return gputypes.BackendEmpty, fmt.Errorf("render: unknown backend %q", name)
}

// halDevices extracts HAL objects from a handle.
func halDevices(h DeviceHandle) (hal.Device, hal.Queue, error) {
	if h == nil {
		return nil, nil, ErrNoDevice
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	if hp, ok := h.(halProvider); ok {
		device, dok := hp.HalDevice().(hal.Device)
		queue, qok := hp.HalQueue().(hal.Queue)
		if dok && qok && device != nil && queue != nil {
			return device, queue, nil
		}
	}
	device, ok := h.Device().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("%w: device provider does not expose a hal.Device", ErrNoDevice)
	}
	queue, ok := h.Queue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("%w: device provider does not expose a hal.Queue", ErrNoDevice)
	}
	return device, queue, nil
}

// NullDeviceHandle is a DeviceHandle without a device. Renderers cannot be
// built from it; it stands in where a host has no GPU.
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

// AdapterInfo reports an unknown adapter.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

var (
	_ DeviceHandle = NullDeviceHandle{}
	_ DeviceHandle = (*HALDeviceHandle)(nil)
)
