//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Device is a HAL device opened and owned by vidview.
type Device struct {
	Instance hal.Instance
	Device   hal.Device
	Queue    hal.Queue
	Info     gputypes.AdapterInfo
	Backend  gputypes.Backend

	closed bool
}

// OpenDevice opens a device on the given registered backend, preferring a
// discrete GPU, then an integrated one, then the first adapter found.
// The backend package must be linked in (for example with a blank import
// of github.com/gogpu/wgpu/hal/vulkan). Every failure wraps ErrNoDevice.
func OpenDevice(backend gputypes.Backend) (*Device, error) {
	b, ok := hal.GetBackend(backend)
	if !ok {
		return nil, fmt.Errorf("%w: %s backend not available", ErrNoDevice, backend)
	}
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", ErrNoDevice, err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: no GPU adapters found", ErrNoDevice)
	}
	selected := selectAdapter(adapters)
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: open device: %w", ErrNoDevice, err)
	}
	slogger().Info("gpu device opened",
		"backend", backend,
		"adapter", selected.Info.Name,
		"type", selected.Info.DeviceType)
	return &Device{
		Instance: instance,
		Device:   openDev.Device,
		Queue:    openDev.Queue,
		Info:     selected.Info,
		Backend:  backend,
	}, nil
}

func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	for _, want := range []gputypes.DeviceType{gputypes.DeviceTypeDiscreteGPU, gputypes.DeviceTypeIntegratedGPU} {
		for i := range adapters {
			if adapters[i].Info.DeviceType == want {
				return &adapters[i]
			}
		}
	}
	return &adapters[0]
}

// Close destroys the device and instance. Safe to call multiple times.
func (d *Device) Close() {
	if d == nil || d.closed {
		return
	}
	d.closed = true
	if d.Device != nil {
		d.Device.Destroy()
	}
	if d.Instance != nil {
		d.Instance.Destroy()
	}
}
