// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render draws decoded video frames onto GPU views.
//
// A Renderer owns the quad pipeline, the texture upload cache and the
// per-frame vertex buffers for one device. It is created once, driven from
// a single serial context with Render, and released with Destroy.
//
// # Devices
//
// The device usually comes from the host application through a
// DeviceHandle (gpucontext.DeviceProvider). Headless tools can open their
// own with NewOwned, which also closes the device on Destroy.
//
// # Targets
//
// A Target supplies the drawable for each display refresh. See package
// surface for swapchain and offscreen implementations.
//
// # Usage
//
//	r, err := render.NewFromHandle(host.DeviceHandle())
//	if err != nil {
//	    return err // no GPU, the preview cannot exist
//	}
//	defer r.Destroy()
//
//	// once per redraw:
//	r.Render(frame, target, vidview.OrientationPortrait)
//
// Render never returns an error. Frames that cannot be drawn are skipped,
// counted in Stats and logged through vidview.Logger.
package render
