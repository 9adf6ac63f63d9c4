// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package hostview binds a video preview to a host window.
//
// A View owns a renderer built on the host's GPU device and a frame
// Source that asks the host window for redraws. The host drives it from
// its display loop:
//
//	v, err := hostview.New(app.GPUContextProvider(), app.WindowProvider(),
//	    hostview.WithOrientation(device))
//	defer v.Close()
//	v.Attach(p)
//
//	// once per vsync
//	v.Tick(nextVsync)
//
//	// in the redraw callback
//	v.Draw(target)
//
// # Ownership
//
// The View keeps a non-owning reference to the attached player. Close
// detaches it before destroying the renderer; a redraw that was already
// scheduled may still show the last frame, which is harmless.
//
// # Thread Safety
//
// Tick and Draw are expected on the host's UI goroutine. Close may be
// called from any goroutine.
package hostview
