// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

type noopGPU struct {
	device  hal.Device
	queue   hal.Queue
	surface hal.Surface
}

// openNoop opens a noop device, queue and window surface.
func openNoop(t *testing.T) noopGPU {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		t.Fatal("noop backend returned no adapters")
	}
	open, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	surf, err := instance.CreateSurface(0, 0)
	if err != nil {
		t.Fatalf("CreateSurface failed: %v", err)
	}
	t.Cleanup(func() {
		surf.Destroy()
		open.Device.Destroy()
		instance.Destroy()
	})
	return noopGPU{device: open.Device, queue: open.Queue, surface: surf}
}

// scriptedSurface wraps a surface, counts calls and replays acquire errors.
type scriptedSurface struct {
	hal.Surface

	acquireErrs []error
	suboptimal  bool

	configures   int
	unconfigures int
	discards     int
	lastConfig   hal.SurfaceConfiguration
}

func (s *scriptedSurface) Configure(device hal.Device, cfg *hal.SurfaceConfiguration) error {
	s.configures++
	s.lastConfig = *cfg
	return s.Surface.Configure(device, cfg)
}

func (s *scriptedSurface) Unconfigure(device hal.Device) {
	s.unconfigures++
	s.Surface.Unconfigure(device)
}

func (s *scriptedSurface) AcquireTexture(fence hal.Fence) (*hal.AcquiredSurfaceTexture, error) {
	if len(s.acquireErrs) > 0 {
		err := s.acquireErrs[0]
		s.acquireErrs = s.acquireErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	acquired, err := s.Surface.AcquireTexture(fence)
	if err != nil {
		return nil, err
	}
	acquired.Suboptimal = s.suboptimal
	return acquired, nil
}

func (s *scriptedSurface) DiscardTexture(tex hal.SurfaceTexture) {
	s.discards++
	s.Surface.DiscardTexture(tex)
}

// presentQueue wraps a queue and fails Present with err.
type presentQueue struct {
	hal.Queue
	err      error
	presents int
}

func (q *presentQueue) Present(s hal.Surface, tex hal.SurfaceTexture, damage []image.Rectangle) error {
	q.presents++
	if q.err != nil {
		return q.err
	}
	return q.Queue.Present(s, tex, damage)
}
