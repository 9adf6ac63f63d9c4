//go:build !nogpu

package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vidview"
	"github.com/gogpu/wgpu/hal"
)

// State is the renderer lifecycle state.
type State int32

const (
	StateUninitialized State = iota
	StateReady
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// RenderStats counts what happened to each Render call.
type RenderStats struct {
	// Presented is the number of frames submitted and presented.
	Presented uint64

	SkippedNoDrawable uint64
	SkippedGeometry   uint64
	SkippedImport     uint64
	SkippedEncode     uint64

	// PresentFailures counts frames that were submitted but failed to present.
	PresentFailures uint64

	// FallbackQuads counts frames drawn with the full-frame fallback quad
	// because the per-frame vertex buffer could not be created.
	FallbackQuads uint64

	LastSubmission uint64
	InFlight       int

	Cache TextureCacheStats
}

// Skipped returns the total number of skipped Render calls.
func (s RenderStats) Skipped() uint64 {
	return s.SkippedNoDrawable + s.SkippedGeometry + s.SkippedImport + s.SkippedEncode
}

// frameResources are the per-frame objects kept alive until the GPU has
// finished the submission that uses them.
type frameResources struct {
	submission uint64
	vertBuf    hal.Buffer
	encoder    hal.CommandEncoder
	cmdBuf     hal.CommandBuffer
}

// Renderer draws video frames onto a Target with one textured quad.
//
// The renderer exclusively owns its pipeline state and texture cache.
// Render is expected to be called from a single serial context; the mutex
// only guards Stats and Destroy calls from other goroutines.
type Renderer struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue
	opts   rendererOptions

	state State

	pipeline    *quadPipeline
	cache       *TextureCache
	fallbackBuf hal.Buffer
	fallback    []byte

	inFlight []frameResources

	// lastVertexData is the vertex data of the most recent draw.
	lastVertexData []byte

	stats RenderStats
}

// New builds a renderer on device and queue.
//
// It compiles the quad pipeline, creates the texture cache and uploads the
// full-frame fallback quad. A nil device or queue fails with ErrNoDevice.
func New(device hal.Device, queue hal.Queue, opts ...RendererOption) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, ErrNoDevice
	}
	o := defaultRendererOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Renderer{
		device: device,
		queue:  queue,
		opts:   o,
		state:  StateUninitialized,
	}
	if err := r.init(); err != nil {
		r.releaseResources()
		if o.release != nil {
			o.release()
		}
		return nil, fmt.Errorf("%s: %w", o.label, err)
	}
	r.state = StateReady
	slogger().Info("video renderer ready",
		"label", o.label,
		"spirv", o.spirv,
		"cache_size", o.cacheSize)
	return r, nil
}

func (r *Renderer) init() error {
	pipeline, err := newQuadPipeline(r.device, r.opts.format, r.opts.spirv)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	r.pipeline = pipeline
	r.cache = NewTextureCache(r.device, r.queue, r.opts.cacheSize)

	r.fallback = buildQuadVertexData(vidview.FullFrameQuad())
	buf, err := r.createAndUploadBuffer("video_quad_fallback_verts", r.fallback,
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return fmt.Errorf("create fallback vertex buffer: %w", err)
	}
	r.fallbackBuf = buf
	return nil
}

// State returns the lifecycle state.
func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Render draws frame into target, rotated for orientation.
//
// Render never returns an error. A missing drawable, invalid geometry or a
// failed texture import skips the frame; the next tick retries. Render
// returns once the command buffer is submitted, not when the GPU finishes.
func (r *Renderer) Render(frame *vidview.Frame, target Target, orientation vidview.Orientation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateReady || frame == nil || target == nil {
		return
	}

	w, h := target.DrawableSize()
	quad, err := vidview.ComputeQuad(float64(frame.Width), float64(frame.Height),
		float64(w), float64(h), orientation.Rotation())
	if err != nil {
		r.stats.SkippedGeometry++
		slogger().Debug("video renderer: skip frame", "reason", "geometry", "err", err)
		return
	}

	drawable, err := target.AcquireDrawable()
	if err != nil || drawable == nil {
		r.stats.SkippedNoDrawable++
		slogger().Debug("video renderer: skip frame", "reason", "no drawable", "err", err)
		return
	}

	r.reclaim()

	vertexData := buildQuadVertexData(quad)
	vertBuf, err := r.createAndUploadBuffer("video_quad_verts", vertexData,
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	drawBuf := vertBuf
	if err != nil {
		slogger().Warn("video renderer: using fallback quad", "err", err)
		r.stats.FallbackQuads++
		drawBuf = r.fallbackBuf
		vertexData = r.fallback
	}

	abort := func(counter *uint64, reason string, err error) {
		drawable.Discard()
		if vertBuf != nil {
			r.device.DestroyBuffer(vertBuf)
		}
		*counter++
		slogger().Warn("video renderer: skip frame", "reason", reason, "err", err)
	}

	tex, err := r.cache.Import(frame)
	if err != nil {
		abort(&r.stats.SkippedImport, "texture import", err)
		return
	}
	bindGroup, err := tex.bindGroupFor(r.pipeline)
	if err != nil {
		abort(&r.stats.SkippedImport, "bind group", err)
		return
	}

	encoder, cmdBuf, err := r.encode(drawable.View(), drawBuf, bindGroup)
	if err != nil {
		abort(&r.stats.SkippedEncode, "encode", err)
		return
	}
	submission, err := r.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		r.device.FreeCommandBuffer(cmdBuf)
		encoder.Destroy()
		abort(&r.stats.SkippedEncode, "submit", err)
		return
	}

	tex.lastSubmission = submission
	r.inFlight = append(r.inFlight, frameResources{
		submission: submission,
		vertBuf:    vertBuf,
		encoder:    encoder,
		cmdBuf:     cmdBuf,
	})
	r.lastVertexData = vertexData
	r.stats.LastSubmission = submission

	if err := drawable.Present(); err != nil {
		r.stats.PresentFailures++
		slogger().Warn("video renderer: present failed", "err", err)
		return
	}
	r.stats.Presented++
}

// encode records one render pass that clears the target and draws the quad.
func (r *Renderer) encode(view hal.TextureView, vertBuf hal.Buffer, bindGroup hal.BindGroup) (hal.CommandEncoder, hal.CommandBuffer, error) {
	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "video_quad_encoder",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("video_frame"); err != nil {
		encoder.Destroy()
		return nil, nil, fmt.Errorf("begin encoding: %w", err)
	}

	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "video_quad_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: r.opts.clearColor,
		}},
	})
	pass.SetPipeline(r.pipeline.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.SetVertexBuffer(0, vertBuf, 0)
	pass.Draw(quadVertexCount, 1, 0, 0)
	pass.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.Destroy()
		return nil, nil, fmt.Errorf("end encoding: %w", err)
	}
	return encoder, cmdBuf, nil
}

// reclaim releases per-frame resources of completed submissions.
func (r *Renderer) reclaim() {
	if len(r.inFlight) == 0 {
		return
	}
	completed := r.queue.PollCompleted()
	kept := r.inFlight[:0]
	for _, fr := range r.inFlight {
		if fr.submission > completed {
			kept = append(kept, fr)
			continue
		}
		r.releaseFrame(fr)
	}
	clear(r.inFlight[len(kept):])
	r.inFlight = kept
}

func (r *Renderer) releaseFrame(fr frameResources) {
	if fr.cmdBuf != nil {
		r.device.FreeCommandBuffer(fr.cmdBuf)
	}
	if fr.encoder != nil {
		fr.encoder.Destroy()
	}
	if fr.vertBuf != nil {
		r.device.DestroyBuffer(fr.vertBuf)
	}
}

func (r *Renderer) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if err := r.queue.WriteBuffer(buf, 0, data); err != nil {
		r.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("write %s: %w", label, err)
	}
	return buf, nil
}

// LastVertexData returns a copy of the vertex bytes used by the most recent
// draw, or nil if nothing has been drawn.
func (r *Renderer) LastVertexData() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastVertexData == nil {
		return nil
	}
	return append([]byte(nil), r.lastVertexData...)
}

// Stats returns a snapshot of the render counters.
func (r *Renderer) Stats() RenderStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.stats
	s.InFlight = len(r.inFlight)
	if r.cache != nil {
		s.Cache = r.cache.Stats()
	}
	return s
}

// Destroy waits for submitted work to finish and releases all GPU
// resources. Submitted command buffers are never cancelled. If the renderer
// owns its device, the device is released last. Safe to call multiple times.
func (r *Renderer) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateDestroyed {
		return
	}
	if err := r.device.WaitIdle(); err != nil {
		slogger().Warn("video renderer: wait idle failed", "err", err)
	}
	r.releaseResources()
	r.state = StateDestroyed
	if r.opts.release != nil {
		r.opts.release()
		r.opts.release = nil
	}
	slogger().Info("video renderer destroyed", "label", r.opts.label, "presented", r.stats.Presented)
}

func (r *Renderer) releaseResources() {
	for _, fr := range r.inFlight {
		r.releaseFrame(fr)
	}
	r.inFlight = nil
	if r.cache != nil {
		r.cache.Destroy()
	}
	if r.fallbackBuf != nil {
		r.device.DestroyBuffer(r.fallbackBuf)
		r.fallbackBuf = nil
	}
	if r.pipeline != nil {
		r.pipeline.destroy()
		r.pipeline = nil
	}
}
