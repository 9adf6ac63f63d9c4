//go:build !nogpu

package gpu

import (
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vidview"
	"github.com/gogpu/wgpu/hal"
)

// DefaultTextureCacheSize is the number of frame sizes kept resident.
// Two covers a resolution switch without thrashing.
const DefaultTextureCacheSize = 2

// CachedTexture is a GPU texture holding the most recently imported frame
// of one size.
type CachedTexture struct {
	width, height uint32

	texture   hal.Texture
	view      hal.TextureView
	bindGroup hal.BindGroup

	// lastUse orders entries for eviction.
	lastUse uint64

	// lastSubmission is the queue submission that last sampled the texture.
	lastSubmission uint64
}

// Size returns the texture dimensions.
func (t *CachedTexture) Size() (uint32, uint32) { return t.width, t.height }

// View returns the sampleable view.
func (t *CachedTexture) View() hal.TextureView { return t.view }

// bindGroupFor returns the entry's bind group, creating it on first use.
func (t *CachedTexture) bindGroupFor(p *quadPipeline) (hal.BindGroup, error) {
	if t.bindGroup != nil {
		return t.bindGroup, nil
	}
	group, err := p.createBindGroup(fmt.Sprintf("video_frame_bind_%dx%d", t.width, t.height), t.view)
	if err != nil {
		return nil, err
	}
	t.bindGroup = group
	return group, nil
}

func (t *CachedTexture) destroy(device hal.Device) {
	if t.bindGroup != nil {
		device.DestroyBindGroup(t.bindGroup)
		t.bindGroup = nil
	}
	if t.view != nil {
		device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		device.DestroyTexture(t.texture)
		t.texture = nil
	}
}

// TextureCacheStats is a snapshot of cache counters.
type TextureCacheStats struct {
	Imports     uint64
	Allocations uint64
	Evictions   uint64
	Failures    uint64
	Resident    int
	Retired     int
}

// TextureCache uploads BGRA8 frames into reused GPU textures.
//
// Textures are keyed by frame size. A frame of a size already resident is
// written into the existing texture, so steady playback allocates nothing.
// When more than capacity sizes are seen, the least recently used texture is
// evicted; if the GPU may still be sampling it, destruction is deferred until
// its submission completes.
//
// A TextureCache is owned by one Renderer and is not safe for concurrent use.
type TextureCache struct {
	device hal.Device
	queue  hal.Queue

	capacity  int
	maxExtent uint32

	entries []*CachedTexture
	retired []*CachedTexture
	clock   uint64

	stats     TextureCacheStats
	destroyed bool
}

// NewTextureCache creates a cache that keeps up to capacity frame sizes
// resident. A capacity below 1 selects DefaultTextureCacheSize.
func NewTextureCache(device hal.Device, queue hal.Queue, capacity int) *TextureCache {
	if capacity < 1 {
		capacity = DefaultTextureCacheSize
	}
	return &TextureCache{
		device:    device,
		queue:     queue,
		capacity:  capacity,
		maxExtent: gputypes.DefaultLimits().MaxTextureDimension2D,
	}
}

// Import uploads frame into a texture of matching size and returns it.
//
// The pixel bytes are handed to the queue straight from frame.Data; rows
// are addressed with the frame's stride, so padded frames need no repacking.
// Failures wrap ErrUnsupportedFrame. A texture allocated for a frame whose
// upload fails is released again; entries evicted to make room for it stay
// evicted.
func (c *TextureCache) Import(frame *vidview.Frame) (*CachedTexture, error) {
	if c.destroyed {
		return nil, ErrCacheDestroyed
	}
	if err := frame.Validate(); err != nil {
		c.stats.Failures++
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFrame, err)
	}
	if uint64(frame.Width) > uint64(c.maxExtent) || uint64(frame.Height) > uint64(c.maxExtent) {
		c.stats.Failures++
		return nil, fmt.Errorf("%w: %dx%d exceeds max texture dimension %d",
			ErrUnsupportedFrame, frame.Width, frame.Height, c.maxExtent)
	}
	if uint64(frame.Stride) > math.MaxUint32 {
		c.stats.Failures++
		return nil, fmt.Errorf("%w: stride %d exceeds 32 bits", ErrUnsupportedFrame, frame.Stride)
	}
	w, h := uint32(frame.Width), uint32(frame.Height)

	c.releaseRetired()

	entry := c.lookup(w, h)
	fresh := entry == nil
	if fresh {
		var err error
		entry, err = c.allocate(w, h)
		if err != nil {
			c.stats.Failures++
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedFrame, err)
		}
	}

	size := frame.Stride*(frame.Height-1) + frame.Width*4
	err := c.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  entry.texture,
			MipLevel: 0,
			Origin:   hal.Origin3D{},
			Aspect:   gputypes.TextureAspectAll,
		},
		frame.Data[:size],
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(frame.Stride),
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		c.stats.Failures++
		if fresh {
			c.remove(entry)
			entry.destroy(c.device)
		}
		return nil, fmt.Errorf("%w: upload %dx%d: %w", ErrUnsupportedFrame, w, h, err)
	}

	c.clock++
	entry.lastUse = c.clock
	c.stats.Imports++
	return entry, nil
}

func (c *TextureCache) lookup(w, h uint32) *CachedTexture {
	for _, e := range c.entries {
		if e.width == w && e.height == h {
			return e
		}
	}
	return nil
}

func (c *TextureCache) allocate(w, h uint32) (*CachedTexture, error) {
	tex, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label:         fmt.Sprintf("video_frame_%dx%d", w, h),
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create frame texture: %w", err)
	}
	view, err := c.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         fmt.Sprintf("video_frame_view_%dx%d", w, h),
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		c.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create frame texture view: %w", err)
	}

	if len(c.entries) >= c.capacity {
		c.evictOldest()
	}
	entry := &CachedTexture{width: w, height: h, texture: tex, view: view}
	c.entries = append(c.entries, entry)
	c.stats.Allocations++
	slogger().Debug("texture cache: allocated frame texture", "width", w, "height", h)
	return entry, nil
}

func (c *TextureCache) remove(entry *CachedTexture) {
	for i, e := range c.entries {
		if e == entry {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
	}
}

func (c *TextureCache) evictOldest() {
	oldest := 0
	for i, e := range c.entries {
		if e.lastUse < c.entries[oldest].lastUse {
			oldest = i
		}
	}
	victim := c.entries[oldest]
	c.entries = append(c.entries[:oldest], c.entries[oldest+1:]...)
	c.stats.Evictions++

	if victim.lastSubmission > c.queue.PollCompleted() {
		c.retired = append(c.retired, victim)
		return
	}
	victim.destroy(c.device)
}

// releaseRetired destroys evicted textures whose last submission finished.
func (c *TextureCache) releaseRetired() {
	if len(c.retired) == 0 {
		return
	}
	completed := c.queue.PollCompleted()
	kept := c.retired[:0]
	for _, e := range c.retired {
		if e.lastSubmission > completed {
			kept = append(kept, e)
			continue
		}
		e.destroy(c.device)
	}
	clear(c.retired[len(kept):])
	c.retired = kept
}

// Stats returns a snapshot of the cache counters.
func (c *TextureCache) Stats() TextureCacheStats {
	s := c.stats
	s.Resident = len(c.entries)
	s.Retired = len(c.retired)
	return s
}

// Destroy releases every texture. The caller must ensure the GPU is idle.
// Safe to call multiple times.
func (c *TextureCache) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	for _, e := range c.entries {
		e.destroy(c.device)
	}
	for _, e := range c.retired {
		e.destroy(c.device)
	}
	c.entries = nil
	c.retired = nil
}
