//go:build !nogpu

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

func TestOpenDeviceNoop(t *testing.T) {
	d, err := OpenDevice(gputypes.BackendEmpty)
	if err != nil {
		t.Fatalf("OpenDevice(noop) error = %v", err)
	}
	if d.Device == nil || d.Queue == nil {
		t.Fatal("OpenDevice returned nil device or queue")
	}
	if d.Info.Name == "" {
		t.Error("adapter info not recorded")
	}
	d.Close()
	d.Close()
}

func TestOpenDeviceMissingBackend(t *testing.T) {
	if _, ok := hal.GetBackend(gputypes.BackendMetal); ok {
		t.Skip("metal backend registered in this build")
	}
	_, err := OpenDevice(gputypes.BackendMetal)
	if !errors.Is(err, ErrNoDevice) {
		t.Errorf("OpenDevice(metal) error = %v, want ErrNoDevice", err)
	}
}

func TestSelectAdapterPrefersDiscrete(t *testing.T) {
	adapters := []hal.ExposedAdapter{
		{Info: gputypes.AdapterInfo{Name: "cpu", DeviceType: gputypes.DeviceTypeCPU}},
		{Info: gputypes.AdapterInfo{Name: "igpu", DeviceType: gputypes.DeviceTypeIntegratedGPU}},
		{Info: gputypes.AdapterInfo{Name: "dgpu", DeviceType: gputypes.DeviceTypeDiscreteGPU}},
	}
	if got := selectAdapter(adapters).Info.Name; got != "dgpu" {
		t.Errorf("selectAdapter = %q, want dgpu", got)
	}
	if got := selectAdapter(adapters[:2]).Info.Name; got != "igpu" {
		t.Errorf("selectAdapter = %q, want igpu", got)
	}
	if got := selectAdapter(adapters[:1]).Info.Name; got != "cpu" {
		t.Errorf("selectAdapter = %q, want cpu", got)
	}
}

func TestRendererOwnsOpenedDevice(t *testing.T) {
	d, err := OpenDevice(gputypes.BackendEmpty)
	if err != nil {
		t.Fatal(err)
	}
	r, err := New(d.Device, d.Queue, WithRelease(d.Close))
	if err != nil {
		t.Fatal(err)
	}
	r.Destroy()
	if !d.closed {
		t.Error("renderer did not close its owned device")
	}
}
