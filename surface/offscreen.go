// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vidview/render"
	"github.com/gogpu/wgpu/hal"
)

// OffscreenTarget renders into a texture it owns. Presenting only counts
// the frame; the texture can be copied out by the caller.
type OffscreenTarget struct {
	mu sync.Mutex

	device        hal.Device
	width, height uint32
	texture       hal.Texture
	view          hal.TextureView

	available bool
	presents  uint64
	discards  uint64
}

// NewOffscreen creates an offscreen target of the given size.
func NewOffscreen(device hal.Device, width, height uint32) (*OffscreenTarget, error) {
	if device == nil {
		return nil, ErrNoDevice
	}
	t := &OffscreenTarget{device: device, available: true}
	if err := t.Resize(width, height); err != nil {
		return nil, err
	}
	return t, nil
}

// DrawableSize implements render.Target.
func (t *OffscreenTarget) DrawableSize() (uint32, uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

// AcquireDrawable implements render.Target.
func (t *OffscreenTarget) AcquireDrawable() (render.Drawable, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.available {
		return nil, unavailable("offscreen target suspended")
	}
	if t.view == nil {
		return nil, unavailable("offscreen target has zero size")
	}
	return &offscreenDrawable{target: t, view: t.view}, nil
}

// SetAvailable suspends or resumes drawable acquisition, as a hidden or
// backgrounded view would.
func (t *OffscreenTarget) SetAvailable(available bool) {
	t.mu.Lock()
	t.available = available
	t.mu.Unlock()
}

// Resize reallocates the backing texture.
func (t *OffscreenTarget) Resize(width, height uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if width == t.width && height == t.height && t.view != nil {
		return nil
	}
	t.release()
	t.width, t.height = width, height
	if width == 0 || height == 0 {
		return nil
	}

	tex, err := t.device.CreateTexture(&hal.TextureDescriptor{
		Label:         fmt.Sprintf("offscreen_target_%dx%d", width, height),
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        DrawableFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create offscreen texture: %w", err)
	}
	view, err := t.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           "offscreen_target_view",
		Format:          DrawableFormat,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		t.device.DestroyTexture(tex)
		return fmt.Errorf("create offscreen texture view: %w", err)
	}
	t.texture, t.view = tex, view
	return nil
}

// Texture returns the backing texture, or nil at zero size.
func (t *OffscreenTarget) Texture() hal.Texture {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.texture
}

// Presents returns how many drawables were presented.
func (t *OffscreenTarget) Presents() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.presents
}

// Discards returns how many drawables were discarded.
func (t *OffscreenTarget) Discards() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.discards
}

// Destroy releases the backing texture.
func (t *OffscreenTarget) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.release()
	t.width, t.height = 0, 0
}

func (t *OffscreenTarget) release() {
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		t.device.DestroyTexture(t.texture)
		t.texture = nil
	}
}

type offscreenDrawable struct {
	target *OffscreenTarget
	view   hal.TextureView
}

func (d *offscreenDrawable) View() hal.TextureView { return d.view }

func (d *offscreenDrawable) Present() error {
	d.target.mu.Lock()
	d.target.presents++
	d.target.mu.Unlock()
	return nil
}

func (d *offscreenDrawable) Discard() {
	d.target.mu.Lock()
	d.target.discards++
	d.target.mu.Unlock()
}

var _ Target = (*OffscreenTarget)(nil)
