// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package hostview

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/vidview"
	"github.com/gogpu/vidview/player"
	"github.com/gogpu/vidview/render"
)

// Common errors returned by View operations.
var (
	// ErrViewClosed is returned when operations are attempted on a closed view.
	ErrViewClosed = errors.New("hostview: view is closed")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("hostview: nil DeviceProvider")
)

// Option configures a View.
type Option func(*options)

type options struct {
	orientation vidview.OrientationProvider
	renderer    []render.Option
}

// WithOrientation sets where Draw reads the device rotation from.
// Default: portrait, no rotation.
func WithOrientation(p vidview.OrientationProvider) Option {
	return func(o *options) { o.orientation = p }
}

// WithRendererOptions passes options to the renderer.
func WithRendererOptions(opts ...render.Option) Option {
	return func(o *options) { o.renderer = append(o.renderer, opts...) }
}

// View is a video preview embedded in a host window.
type View struct {
	mu sync.Mutex

	provider    gpucontext.DeviceProvider
	window      gpucontext.WindowProvider
	renderer    *render.Renderer
	source      *player.Source
	orientation vidview.OrientationProvider
	closed      bool
}

// New creates a View rendering with provider's device. window receives
// redraw requests and may be nil for hosts that redraw continuously.
func New(provider gpucontext.DeviceProvider, window gpucontext.WindowProvider, opts ...Option) (*View, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	r, err := render.NewFromHandle(provider, o.renderer...)
	if err != nil {
		return nil, fmt.Errorf("hostview: %w", err)
	}

	var redrawer player.Redrawer
	if window != nil {
		redrawer = window
	}

	info := provider.AdapterInfo()
	vidview.Logger().Info("hostview: view created", "adapter", info.Name, "type", info.Type)
	return &View{
		provider:    provider,
		window:      window,
		renderer:    r,
		source:      player.NewSource(redrawer),
		orientation: o.orientation,
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(provider gpucontext.DeviceProvider, window gpucontext.WindowProvider, opts ...Option) *View {
	v, err := New(provider, window, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// Attach starts pulling frames from p, replacing any attached player.
func (v *View) Attach(p player.Player) error {
	if v.isClosed() {
		return ErrViewClosed
	}
	return v.source.Attach(p)
}

// Detach stops frame delivery. The last frame stays drawable.
func (v *View) Detach() {
	v.source.Detach()
}

// Tick polls the attached player for the frame at host, the timestamp of
// the upcoming vsync.
func (v *View) Tick(host time.Duration) {
	if v.isClosed() {
		return
	}
	v.source.OnTick(host)
}

// Draw renders the current frame into target. It is a no-op before the
// first frame arrives.
func (v *View) Draw(target render.Target) error {
	v.mu.Lock()
	closed, r, op := v.closed, v.renderer, v.orientation
	v.mu.Unlock()
	if closed {
		return ErrViewClosed
	}
	frame := v.source.TakeCurrent()
	if frame == nil {
		return nil
	}
	r.Render(frame, target, vidview.CurrentOrientation(op))
	return nil
}

// SetOrientation replaces the orientation provider.
func (v *View) SetOrientation(p vidview.OrientationProvider) {
	v.mu.Lock()
	v.orientation = p
	v.mu.Unlock()
}

// PhysicalSize returns the window size in physical pixels, or 0x0 without
// a window. Hosts use it to size their render target.
func (v *View) PhysicalSize() (uint32, uint32) {
	if v.window == nil {
		return 0, 0
	}
	w, h := v.window.Size()
	scale := v.window.ScaleFactor()
	if scale <= 0 {
		scale = 1
	}
	return physical(w, scale), physical(h, scale)
}

func physical(logical int, scale float64) uint32 {
	if logical <= 0 {
		return 0
	}
	return uint32(math.Round(float64(logical) * scale))
}

// Provider returns the DeviceProvider the view renders with.
// Returns nil if the view is closed.
func (v *View) Provider() gpucontext.DeviceProvider {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.provider
}

// Source returns the frame source.
func (v *View) Source() *player.Source { return v.source }

// Renderer returns the renderer, or nil after Close.
func (v *View) Renderer() *render.Renderer {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	return v.renderer
}

// Stats combines source and renderer counters.
type Stats struct {
	Source   player.SourceStats
	Renderer render.Stats
}

// Stats returns a snapshot of the view counters.
func (v *View) Stats() Stats {
	return Stats{Source: v.source.Stats(), Renderer: v.renderer.Stats()}
}

// Close detaches the player and destroys the renderer.
// Close is idempotent - multiple calls are safe.
func (v *View) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	v.provider = nil
	v.mu.Unlock()

	v.source.Detach()
	v.renderer.Destroy()
	vidview.Logger().Info("hostview: view closed")
	return nil
}

func (v *View) isClosed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}
