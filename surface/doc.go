// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides render targets for video frames.
//
// Two targets are built in:
//
//   - HALTarget presents into a window swapchain (hal.Surface)
//   - OffscreenTarget draws into a texture it owns, for headless preview,
//     tools and tests
//
// Targets are created directly or through the registry, which picks the
// highest-priority kind that can be built from the given Options:
//
//	t, err := surface.NewTarget(surface.Options{
//	    Device: device, Queue: queue, Surface: halSurface,
//	    Width: 1080, Height: 1920,
//	})
//
// Failing to acquire a drawable is never fatal: AcquireDrawable returns an
// error wrapping render.ErrDrawableUnavailable and the renderer skips the
// frame.
package surface
