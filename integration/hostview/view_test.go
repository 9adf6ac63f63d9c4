// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hostview

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/vidview"
	"github.com/gogpu/vidview/player"
	"github.com/gogpu/vidview/render"
	"github.com/gogpu/vidview/surface"
	_ "github.com/gogpu/wgpu/hal/noop"
)

// mockWindow counts redraw requests.
type mockWindow struct {
	gpucontext.NullWindowProvider
	redraws int
}

func (w *mockWindow) RequestRedraw() { w.redraws++ }

type fixture struct {
	handle *render.HALDeviceHandle
	window *mockWindow
	view   *View
	target *surface.OffscreenTarget
	player *player.SequencePlayer
	frames player.Frames
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	h, err := render.OpenDevice(gputypes.BackendEmpty)
	if err != nil {
		t.Fatalf("OpenDevice: %v", err)
	}
	t.Cleanup(h.Close)

	win := &mockWindow{NullWindowProvider: gpucontext.NullWindowProvider{W: 360, H: 640, SF: 3}}
	v, err := New(h, win, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = v.Close() })

	w, hgt := v.PhysicalSize()
	target, err := surface.NewOffscreen(h.HalDev, w, hgt)
	if err != nil {
		t.Fatalf("NewOffscreen: %v", err)
	}
	t.Cleanup(target.Destroy)

	frames := make(player.Frames, 3)
	for i := range frames {
		frames[i] = vidview.NewFrame(1920, 1080)
		frames[i].PTS = time.Duration(i) * 100 * time.Millisecond
	}
	p, err := player.NewSequencePlayer(frames)
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{handle: h, window: win, view: v, target: target, player: p, frames: frames}
}

func TestNew_NilProvider(t *testing.T) {
	if _, err := New(nil, nil); !errors.Is(err, ErrNilProvider) {
		t.Errorf("error = %v, want ErrNilProvider", err)
	}
}

func TestNew_ProviderWithoutDevice(t *testing.T) {
	_, err := New(render.NullDeviceHandle{}, nil)
	if !errors.Is(err, render.ErrNoDevice) {
		t.Errorf("error = %v, want ErrNoDevice", err)
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew(nil) did not panic")
		}
	}()
	MustNew(nil, nil)
}

func TestView_PhysicalSize(t *testing.T) {
	f := newFixture(t)
	if w, h := f.view.PhysicalSize(); w != 1080 || h != 1920 {
		t.Errorf("PhysicalSize = %dx%d, want 1080x1920", w, h)
	}
}

func TestView_TickDrawPresents(t *testing.T) {
	f := newFixture(t)
	if err := f.view.Attach(f.player); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	f.player.Play(0)

	// Nothing to draw before the first tick.
	if err := f.view.Draw(f.target); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if f.target.Presents() != 0 {
		t.Fatal("presented without a frame")
	}

	f.view.Tick(16 * time.Millisecond)
	if f.window.redraws != 1 {
		t.Errorf("redraws = %d, want 1", f.window.redraws)
	}
	if err := f.view.Draw(f.target); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if f.target.Presents() != 1 {
		t.Errorf("Presents = %d, want 1", f.target.Presents())
	}

	// Same frame again: no redraw request.
	f.view.Tick(32 * time.Millisecond)
	if f.window.redraws != 1 {
		t.Errorf("redraws after idle tick = %d, want 1", f.window.redraws)
	}

	st := f.view.Stats()
	if st.Source.Delivered != 1 || st.Renderer.Presented != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestView_OrientationChangesGeometry(t *testing.T) {
	f := newFixture(t, WithOrientation(vidview.FixedOrientation(vidview.OrientationLandscapeLeft)))
	_ = f.view.Attach(f.player)
	f.view.Tick(0)
	_ = f.view.Draw(f.target)
	rotated := f.view.Renderer().LastVertexData()
	if len(rotated) == 0 {
		t.Fatal("no vertex data recorded")
	}

	f.view.SetOrientation(nil)
	_ = f.view.Draw(f.target)
	upright := f.view.Renderer().LastVertexData()

	if bytes.Equal(rotated, upright) {
		t.Error("orientation change did not change the quad")
	}
	if f.target.Presents() != 2 {
		t.Errorf("Presents = %d, want 2", f.target.Presents())
	}
}

func TestView_CloseIdempotent(t *testing.T) {
	f := newFixture(t)
	_ = f.view.Attach(f.player)

	if err := f.view.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := f.view.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if f.player.Outputs() != 0 {
		t.Error("Close did not detach the player")
	}
	if f.view.Renderer() != nil || f.view.Provider() != nil {
		t.Error("closed view still exposes renderer or provider")
	}
	if err := f.view.Draw(f.target); !errors.Is(err, ErrViewClosed) {
		t.Errorf("Draw after Close = %v, want ErrViewClosed", err)
	}
	if err := f.view.Attach(f.player); !errors.Is(err, ErrViewClosed) {
		t.Errorf("Attach after Close = %v, want ErrViewClosed", err)
	}
	f.view.Tick(0)
}

func TestView_DetachKeepsLastFrame(t *testing.T) {
	f := newFixture(t)
	_ = f.view.Attach(f.player)
	f.view.Tick(0)
	f.view.Detach()

	if err := f.view.Draw(f.target); err != nil {
		t.Fatal(err)
	}
	if f.target.Presents() != 1 {
		t.Errorf("pending redraw after Detach presented %d frames, want 1", f.target.Presents())
	}
}
