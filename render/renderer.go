// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/vidview/internal/gpu"
	"github.com/gogpu/wgpu/hal"
)

// Renderer draws one video frame per Render call into a Target.
// See the package documentation for the lifecycle.
type Renderer = gpu.Renderer

// State is the renderer lifecycle state.
type State = gpu.State

// Renderer states.
const (
	StateUninitialized = gpu.StateUninitialized
	StateReady         = gpu.StateReady
	StateDestroyed     = gpu.StateDestroyed
)

// Stats counts presented and skipped frames.
type Stats = gpu.RenderStats

// TextureCacheStats counts texture cache activity.
type TextureCacheStats = gpu.TextureCacheStats

// Option configures a Renderer.
type Option = gpu.RendererOption

// Renderer options.
var (
	WithLabel            = gpu.WithLabel
	WithClearColor       = gpu.WithClearColor
	WithTextureCacheSize = gpu.WithTextureCacheSize
	WithSPIRV            = gpu.WithSPIRV
	WithRelease          = gpu.WithRelease
)

// Errors.
var (
	ErrNoDevice            = gpu.ErrNoDevice
	ErrUnsupportedFrame    = gpu.ErrUnsupportedFrame
	ErrDrawableUnavailable = gpu.ErrDrawableUnavailable
)

// New builds a renderer on a HAL device and queue supplied by the caller.
// The renderer does not take ownership of the device.
func New(device hal.Device, queue hal.Queue, opts ...Option) (*Renderer, error) {
	return gpu.New(device, queue, opts...)
}

// NewFromHandle builds a renderer on the host's device.
func NewFromHandle(h DeviceHandle, opts ...Option) (*Renderer, error) {
	device, queue, err := halDevices(h)
	if err != nil {
		return nil, err
	}
	return gpu.New(device, queue, opts...)
}

// NewOwned opens a device on backend and builds a renderer that closes the
// device when destroyed. The handle is returned so callers can create
// targets on the same device.
func NewOwned(backend gputypes.Backend, opts ...Option) (*Renderer, *HALDeviceHandle, error) {
	h, err := OpenDevice(backend)
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, WithRelease(h.Close))
	r, err := gpu.New(h.HalDev, h.HalQueue, opts...)
	if err != nil {
		return nil, nil, err
	}
	return r, h, nil
}

// MustNew is like NewFromHandle but panics on error. Use it where a missing
// GPU is unrecoverable.
func MustNew(h DeviceHandle, opts ...Option) *Renderer {
	r, err := NewFromHandle(h, opts...)
	if err != nil {
		panic("render: " + err.Error())
	}
	return r
}
