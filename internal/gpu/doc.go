//go:build !nogpu

// Package gpu draws decoded video frames with the gogpu/wgpu HAL.
//
// This is an internal package used by the render package. It is Pure Go
// (zero CGO) and runs on any backend registered with the HAL, including the
// noop backend used by tests.
//
// # Architecture Overview
//
// Every displayed frame is one textured quad:
//
//	Frame -> TextureCache.Import -> ComputeQuad -> vertex buffer -> render pass -> Present
//
// Key components:
//
//   - Renderer: owns the pipeline and texture cache, renders one frame per call
//   - TextureCache: BGRA8 textures keyed by frame size with LRU eviction
//   - quadPipeline: render pipeline, sampler and bind group layout for the quad
//   - Target, Drawable: the view the renderer draws into, one drawable per refresh
//
// # Frame Lifecycle
//
// Render acquires a drawable only after the quad geometry is known to be
// valid, then uploads the frame, encodes a single render pass that clears
// to the letterbox color and draws the quad, submits, and presents. Any
// failure skips the frame: the drawable is discarded, a counter in
// RenderStats is bumped, and the next refresh starts clean.
//
// Per-frame vertex buffers and command buffers are kept until the queue
// reports their submission complete. Evicted textures still referenced by
// an unfinished submission are released once that submission completes.
//
// # Shaders
//
// The quad shader is WGSL. With WithSPIRV it is compiled to SPIR-V by
// gogpu/naga before the shader module is created.
package gpu
