// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vidview/render"
	"github.com/gogpu/wgpu/hal"
)

// Target is a render.Target that can be resized and released.
type Target interface {
	render.Target

	// Resize changes the drawable size. A zero size is allowed and makes
	// AcquireDrawable fail until the next non-zero resize.
	Resize(width, height uint32) error

	// Destroy releases the target's GPU objects. Safe to call multiple times.
	Destroy()
}

// Options describes a target to create.
type Options struct {
	Device hal.Device
	Queue  hal.Queue

	// Surface is the window surface. Only the window target uses it.
	Surface hal.Surface

	// Width and Height are the drawable size in physical pixels.
	Width  uint32
	Height uint32

	// PresentMode selects swapchain pacing. Default: FIFO (vsync).
	PresentMode gputypes.PresentMode
}

// DrawableFormat is the color format of every target's drawables.
const DrawableFormat = gputypes.TextureFormatBGRA8Unorm

var (
	// ErrNoSurface is returned when a window target is requested without a hal.Surface.
	ErrNoSurface = errors.New("surface: no window surface")

	// ErrNoDevice is returned when Options lacks a device or queue.
	ErrNoDevice = errors.New("surface: no device")
)

func unavailable(reason string) error {
	return errors.Join(render.ErrDrawableUnavailable, errors.New("surface: "+reason))
}
