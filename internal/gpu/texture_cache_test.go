//go:build !nogpu

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/vidview"
)

func TestTextureCacheReusesSameSize(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	c := NewTextureCache(device, queue, 0)
	defer c.Destroy()

	a, err := c.Import(vidview.NewFrame(16, 9))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	b, err := c.Import(vidview.NewFrame(16, 9))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if a != b {
		t.Error("same-size frames should share one cached texture")
	}
	if w, h := a.Size(); w != 16 || h != 9 {
		t.Errorf("Size() = %dx%d, want 16x9", w, h)
	}
	if a.View() == nil {
		t.Error("View() is nil")
	}
	s := c.Stats()
	if s.Allocations != 1 || s.Imports != 2 || s.Resident != 1 {
		t.Errorf("stats = %+v", s)
	}
}

func TestTextureCacheEvictsLeastRecentlyUsed(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	c := NewTextureCache(device, queue, 2)
	defer c.Destroy()

	small, _ := c.Import(vidview.NewFrame(2, 2))
	if _, err := c.Import(vidview.NewFrame(4, 4)); err != nil {
		t.Fatal(err)
	}
	// Touch 2x2 so 4x4 becomes the eviction candidate.
	if _, err := c.Import(vidview.NewFrame(2, 2)); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Import(vidview.NewFrame(8, 8)); err != nil {
		t.Fatal(err)
	}

	s := c.Stats()
	if s.Evictions != 1 || s.Resident != 2 {
		t.Errorf("stats = %+v, want 1 eviction and 2 resident", s)
	}
	if c.lookup(4, 4) != nil {
		t.Error("4x4 texture should have been evicted")
	}
	if c.lookup(2, 2) != small {
		t.Error("recently used 2x2 texture should stay resident")
	}
}

func TestTextureCacheDefersEvictionOfInFlightTexture(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	c := NewTextureCache(device, queue, 1)
	defer c.Destroy()

	first, err := c.Import(vidview.NewFrame(2, 2))
	if err != nil {
		t.Fatal(err)
	}
	first.lastSubmission = 3 // not yet completed on the noop queue

	if _, err := c.Import(vidview.NewFrame(4, 4)); err != nil {
		t.Fatal(err)
	}
	if s := c.Stats(); s.Retired != 1 {
		t.Fatalf("Retired = %d, want 1", s.Retired)
	}
	if first.texture == nil {
		t.Fatal("in-flight texture destroyed before its submission completed")
	}

	for range 3 {
		if _, err := queue.Submit(nil); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := c.Import(vidview.NewFrame(4, 4)); err != nil {
		t.Fatal(err)
	}
	if s := c.Stats(); s.Retired != 0 {
		t.Errorf("Retired = %d after completion, want 0", s.Retired)
	}
	if first.texture != nil {
		t.Error("retired texture not destroyed after completion")
	}
}

func TestTextureCacheRejectsInvalidFrames(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	c := NewTextureCache(device, queue, 2)
	defer c.Destroy()

	tests := []struct {
		name  string
		frame *vidview.Frame
	}{
		{"nil", nil},
		{"zero size", &vidview.Frame{Format: vidview.PixelFormatBGRA8}},
		{"wrong format", &vidview.Frame{Width: 2, Height: 2, Stride: 8, Data: make([]byte, 16)}},
		{"short data", &vidview.Frame{Width: 2, Height: 2, Stride: 8, Format: vidview.PixelFormatBGRA8, Data: make([]byte, 4)}},
		{"too large", &vidview.Frame{Width: 1 << 20, Height: 1, Stride: 4 << 20, Format: vidview.PixelFormatBGRA8, Data: make([]byte, 4<<20)}},
		{"stride overflow", &vidview.Frame{Width: 1, Height: 3, Stride: 1 << 62, Format: vidview.PixelFormatBGRA8, Data: make([]byte, 16)}},
		{"stride beyond 32 bits", &vidview.Frame{Width: 1, Height: 1, Stride: 1 << 33, Format: vidview.PixelFormatBGRA8, Data: make([]byte, 4)}},
		{"height beyond 32 bits", &vidview.Frame{Width: 1, Height: 1<<32 + 1, Stride: 4, Format: vidview.PixelFormatBGRA8, Data: make([]byte, 4)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Import(tt.frame); !errors.Is(err, ErrUnsupportedFrame) {
				t.Errorf("Import() error = %v, want ErrUnsupportedFrame", err)
			}
		})
	}
	if s := c.Stats(); s.Allocations != 0 || s.Failures != uint64(len(tests)) {
		t.Errorf("stats = %+v", s)
	}
}

func TestTextureCacheAllocationFailure(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	fd := &failingDevice{Device: device, failTextures: true}
	c := NewTextureCache(fd, queue, 2)
	defer c.Destroy()

	_, err := c.Import(vidview.NewFrame(8, 8))
	if !errors.Is(err, ErrUnsupportedFrame) || !errors.Is(err, errInjected) {
		t.Errorf("Import() error = %v, want ErrUnsupportedFrame wrapping the device error", err)
	}
}

func TestTextureCachePaddedStride(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	c := NewTextureCache(device, queue, 2)
	defer c.Destroy()

	f := &vidview.Frame{Width: 3, Height: 2, Stride: 16, Format: vidview.PixelFormatBGRA8, Data: make([]byte, 16+12)}
	if _, err := c.Import(f); err != nil {
		t.Errorf("Import(padded) error = %v", err)
	}
}

func TestTextureCacheDestroy(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	c := NewTextureCache(device, queue, 2)
	entry, _ := c.Import(vidview.NewFrame(2, 2))
	c.Destroy()
	c.Destroy()

	if entry.texture != nil || entry.view != nil {
		t.Error("Destroy did not release resident textures")
	}
	if _, err := c.Import(vidview.NewFrame(2, 2)); !errors.Is(err, ErrCacheDestroyed) {
		t.Errorf("Import after Destroy error = %v, want ErrCacheDestroyed", err)
	}
}

func TestTextureCacheUploadFailureReleasesTexture(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	fq := &failingQueue{Queue: queue}
	c := NewTextureCache(device, fq, 2)
	defer c.Destroy()

	if _, err := c.Import(vidview.NewFrame(8, 8)); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	fq.failWrites = true
	_, err := c.Import(vidview.NewFrame(4, 4))
	if !errors.Is(err, ErrUnsupportedFrame) || !errors.Is(err, errInjected) {
		t.Fatalf("Import() error = %v, want ErrUnsupportedFrame wrapping the queue error", err)
	}
	if s := c.Stats(); s.Resident != 1 || s.Failures != 1 {
		t.Errorf("stats = %+v, want the failed size released and one failure", s)
	}

	// A resident size keeps its texture when a later upload fails.
	if _, err := c.Import(vidview.NewFrame(8, 8)); err == nil {
		t.Fatal("Import() succeeded with failing writes")
	}
	if s := c.Stats(); s.Resident != 1 {
		t.Errorf("Resident = %d, want 1", s.Resident)
	}

	fq.failWrites = false
	if _, err := c.Import(vidview.NewFrame(4, 4)); err != nil {
		t.Fatalf("Import() after recovery error = %v", err)
	}
	if s := c.Stats(); s.Resident != 2 {
		t.Errorf("Resident = %d, want 2", s.Resident)
	}
}
