package player

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/vidview"
)

// DefaultInterval is the refresh interval of a 60 Hz display.
const DefaultInterval = time.Second / 60

// DrawFunc renders one frame. It runs on the Driver's goroutine.
type DrawFunc func(frame *vidview.Frame)

// DriverStats counts driver activity.
type DriverStats struct {
	Ticks          uint64
	Draws          uint64
	RedrawRequests uint64
}

// Coalesced returns how many redraw requests were folded into another draw.
func (s DriverStats) Coalesced() uint64 {
	if s.RedrawRequests <= s.Draws {
		return 0
	}
	return s.RedrawRequests - s.Draws
}

// Driver is the refresh timer of the frame pump.
//
// Every tick polls the Source for the frame at the upcoming refresh. If a
// redraw was requested since the last draw, draw is called once with the
// current frame. Ticks and draws run serially.
type Driver struct {
	source    *Source
	draw      DrawFunc
	interval  time.Duration
	clock     Clock
	newTicker TickerFunc

	step    sync.Mutex
	pending atomic.Bool
	forward Redrawer

	ticks    atomic.Uint64
	draws    atomic.Uint64
	requests atomic.Uint64
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithInterval sets the refresh interval. Non-positive values are ignored.
// Default: DefaultInterval.
func WithInterval(d time.Duration) DriverOption {
	return func(dr *Driver) {
		if d > 0 {
			dr.interval = d
		}
	}
}

// WithClock sets the host clock. Default: a MonotonicClock started by NewDriver.
func WithClock(c Clock) DriverOption {
	return func(dr *Driver) {
		if c != nil {
			dr.clock = c
		}
	}
}

// WithTicker sets the tick source used by Run. Default: NewTimeTicker.
func WithTicker(f TickerFunc) DriverOption {
	return func(dr *Driver) {
		if f != nil {
			dr.newTicker = f
		}
	}
}

// NewDriver creates a driver for source. The driver installs itself as the
// source's Redrawer; a previously installed Redrawer is still notified.
// draw may be nil when frames are drawn elsewhere.
func NewDriver(source *Source, draw DrawFunc, opts ...DriverOption) (*Driver, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	d := &Driver{
		source:    source,
		draw:      draw,
		interval:  DefaultInterval,
		newTicker: NewTimeTicker,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.clock == nil {
		d.clock = NewMonotonicClock()
	}

	source.mu.Lock()
	d.forward = source.redrawer
	source.redrawer = d
	source.mu.Unlock()
	return d, nil
}

// Interval returns the refresh interval.
func (d *Driver) Interval() time.Duration { return d.interval }

// Clock returns the host clock.
func (d *Driver) Clock() Clock { return d.clock }

// RequestRedraw implements Redrawer. Requests made before the next tick
// are coalesced into one draw.
func (d *Driver) RequestRedraw() {
	d.requests.Add(1)
	d.pending.Store(true)
	if d.forward != nil {
		d.forward.RequestRedraw()
	}
}

// Run ticks until ctx is done and returns ctx.Err().
func (d *Driver) Run(ctx context.Context) error {
	t := d.newTicker(d.interval)
	defer t.Stop()

	log := vidview.Logger()
	log.Debug("player: driver started", "interval", d.interval)
	defer log.Debug("player: driver stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C():
			d.Step(d.clock.Now() + d.interval)
		}
	}
}

// Step runs one tick for the refresh at host.
func (d *Driver) Step(host time.Duration) {
	d.step.Lock()
	defer d.step.Unlock()

	d.ticks.Add(1)
	d.source.OnTick(host)
	if !d.pending.Swap(false) {
		return
	}
	frame := d.source.TakeCurrent()
	if frame == nil || d.draw == nil {
		return
	}
	d.draws.Add(1)
	d.draw(frame)
}

// Stats returns a snapshot of the driver counters.
func (d *Driver) Stats() DriverStats {
	return DriverStats{
		Ticks:          d.ticks.Load(),
		Draws:          d.draws.Load(),
		RedrawRequests: d.requests.Load(),
	}
}
