// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vidview"
	"github.com/gogpu/vidview/render"
	"github.com/gogpu/wgpu/hal"
)

// HALTarget presents into a window swapchain.
//
// The swapchain is configured lazily: Resize only records the new size and
// the next AcquireDrawable reconfigures. Outdated or lost swapchains are
// reconfigured once and the acquire retried; a second failure is reported
// as an unavailable drawable so the frame is skipped.
type HALTarget struct {
	mu sync.Mutex

	device  hal.Device
	queue   hal.Queue
	surface hal.Surface
	mode    gputypes.PresentMode

	width, height uint32
	configured    bool
	stale         bool
	destroyed     bool

	reconfigures uint64
}

// NewHALTarget creates a window target. The surface must belong to the
// instance that opened opts.Device.
func NewHALTarget(opts Options) (*HALTarget, error) {
	if opts.Surface == nil {
		return nil, ErrNoSurface
	}
	if opts.Device == nil || opts.Queue == nil {
		return nil, ErrNoDevice
	}
	mode := opts.PresentMode
	if mode == gputypes.PresentModeUndefined {
		mode = gputypes.PresentModeFifo
	}
	t := &HALTarget{
		device:  opts.Device,
		queue:   opts.Queue,
		surface: opts.Surface,
		mode:    mode,
		width:   opts.Width,
		height:  opts.Height,
	}
	if t.width > 0 && t.height > 0 {
		if err := t.configure(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// DrawableSize implements render.Target.
func (t *HALTarget) DrawableSize() (uint32, uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

// Resize records a new swapchain size. A zero size unconfigures the
// swapchain until the window becomes visible again.
func (t *HALTarget) Resize(width, height uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return render.ErrDrawableUnavailable
	}
	if width == t.width && height == t.height {
		return nil
	}
	t.width, t.height = width, height
	if width == 0 || height == 0 {
		if t.configured {
			t.surface.Unconfigure(t.device)
			t.configured = false
		}
		return nil
	}
	t.stale = true
	return nil
}

// Reconfigures returns how many times the swapchain was reconfigured after
// the first configuration.
func (t *HALTarget) Reconfigures() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reconfigures
}

// AcquireDrawable implements render.Target.
func (t *HALTarget) AcquireDrawable() (render.Drawable, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.destroyed {
		return nil, unavailable("window target destroyed")
	}
	if t.width == 0 || t.height == 0 {
		return nil, unavailable("window has zero size")
	}
	if !t.configured || t.stale {
		if err := t.configure(); err != nil {
			return nil, errors.Join(render.ErrDrawableUnavailable, err)
		}
	}

	acquired, err := t.surface.AcquireTexture(nil)
	if errors.Is(err, hal.ErrSurfaceOutdated) || errors.Is(err, hal.ErrSurfaceLost) {
		vidview.Logger().Debug("surface: swapchain outdated, reconfiguring", "err", err)
		if cerr := t.configure(); cerr != nil {
			return nil, errors.Join(render.ErrDrawableUnavailable, cerr)
		}
		acquired, err = t.surface.AcquireTexture(nil)
	}
	if err != nil {
		return nil, errors.Join(render.ErrDrawableUnavailable, err)
	}
	if acquired.Suboptimal {
		t.stale = true
	}

	view, err := t.device.CreateTextureView(acquired.Texture, &hal.TextureViewDescriptor{
		Label:           "swapchain_view",
		Format:          DrawableFormat,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		t.surface.DiscardTexture(acquired.Texture)
		return nil, errors.Join(render.ErrDrawableUnavailable, fmt.Errorf("create swapchain view: %w", err))
	}
	return &halDrawable{target: t, texture: acquired.Texture, view: view}, nil
}

// Destroy unconfigures the swapchain. The hal.Surface itself stays owned
// by the caller.
func (t *HALTarget) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return
	}
	t.destroyed = true
	if t.configured {
		t.surface.Unconfigure(t.device)
		t.configured = false
	}
}

// configure must be called with t.mu held.
func (t *HALTarget) configure() error {
	err := t.surface.Configure(t.device, &hal.SurfaceConfiguration{
		Width:       t.width,
		Height:      t.height,
		Format:      DrawableFormat,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: t.mode,
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	})
	if err != nil {
		return fmt.Errorf("configure surface %dx%d: %w", t.width, t.height, err)
	}
	if t.configured {
		t.reconfigures++
	}
	t.configured = true
	t.stale = false
	return nil
}

type halDrawable struct {
	target  *HALTarget
	texture hal.SurfaceTexture
	view    hal.TextureView
	done    bool
}

func (d *halDrawable) View() hal.TextureView { return d.view }

func (d *halDrawable) Present() error {
	if d.done {
		return nil
	}
	d.done = true
	t := d.target
	t.mu.Lock()
	defer t.mu.Unlock()
	t.device.DestroyTextureView(d.view)
	err := t.queue.Present(t.surface, d.texture, nil)
	if errors.Is(err, hal.ErrSurfaceOutdated) || errors.Is(err, hal.ErrSurfaceLost) {
		t.stale = true
	}
	if err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}

func (d *halDrawable) Discard() {
	if d.done {
		return
	}
	d.done = true
	t := d.target
	t.mu.Lock()
	defer t.mu.Unlock()
	t.device.DestroyTextureView(d.view)
	t.surface.DiscardTexture(d.texture)
}

var _ Target = (*HALTarget)(nil)
