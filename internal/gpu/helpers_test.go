//go:build !nogpu

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

var errInjected = errors.New("injected failure")

// failingDevice wraps a device and fails selected resource creation.
type failingDevice struct {
	hal.Device
	failBuffers  bool
	failTextures bool
	failEncoders bool
}

func (d *failingDevice) CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	if d.failBuffers {
		return nil, errInjected
	}
	return d.Device.CreateBuffer(desc)
}

func (d *failingDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	if d.failTextures {
		return nil, errInjected
	}
	return d.Device.CreateTexture(desc)
}

func (d *failingDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	if d.failEncoders {
		return nil, errInjected
	}
	return d.Device.CreateCommandEncoder(desc)
}

// failingQueue wraps a queue and fails texture uploads on demand.
type failingQueue struct {
	hal.Queue
	failWrites bool
}

func (q *failingQueue) WriteTexture(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) error {
	if q.failWrites {
		return errInjected
	}
	return q.Queue.WriteTexture(dst, data, layout, size)
}

// fakeTarget is an in-memory Target backed by a noop texture view.
type fakeTarget struct {
	device        hal.Device
	width, height uint32
	unavailable   bool
	presentErr    error

	acquires int
	presents int
	discards int
}

func newFakeTarget(device hal.Device, w, h uint32) *fakeTarget {
	return &fakeTarget{device: device, width: w, height: h}
}

func (t *fakeTarget) DrawableSize() (uint32, uint32) { return t.width, t.height }

func (t *fakeTarget) AcquireDrawable() (Drawable, error) {
	if t.unavailable {
		return nil, ErrDrawableUnavailable
	}
	t.acquires++
	tex, err := t.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "fake_target",
		Size:          hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, err
	}
	view, err := t.device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: "fake_target_view"})
	if err != nil {
		return nil, err
	}
	return &fakeDrawable{target: t, view: view}, nil
}

type fakeDrawable struct {
	target *fakeTarget
	view   hal.TextureView
}

func (d *fakeDrawable) View() hal.TextureView { return d.view }

func (d *fakeDrawable) Present() error {
	if d.target.presentErr != nil {
		return d.target.presentErr
	}
	d.target.presents++
	return nil
}

func (d *fakeDrawable) Discard() { d.target.discards++ }
