// Package vidview renders decoded video frames onto a GPU-backed view.
//
// # Overview
//
// vidview is the frame-pump, texture upload and quad drawing core of a video
// preview. A display-synchronized driver asks a media player for the frame
// that should be visible at the next refresh, the frame is uploaded into a
// reused GPU texture, and a single four-vertex triangle strip draws it
// letterboxed or pillarboxed into the view, rotated to the device orientation.
//
// # Packages
//
// The module is organized into:
//   - vidview (this package): Frame, Orientation, ComputeQuad, logging
//   - render: Renderer, Target and Drawable over a wgpu HAL device
//   - surface: swapchain and offscreen Target implementations
//   - player: media player contract, software sequence player, frame source
//     and frame-pump driver
//   - media: decoding still images and GIF animations into frames
//   - integration/hostview: binding to a gpucontext host window
//
// # Quick Start
//
//	q, err := vidview.ComputeQuad(1920, 1080, 1080, 1920, vidview.Rotation0)
//	if err != nil {
//		return err
//	}
//	// q.ScaleX == 1, q.ScaleY ~= 0.3164 (letterboxed)
//
// # Logging
//
// vidview is silent by default. Call [SetLogger] to route lifecycle and
// per-frame diagnostics to a [log/slog] logger.
package vidview
