package player

import (
	"time"

	"github.com/gogpu/vidview"
)

// makeFrames builds n 2x2 frames spaced step apart.
func makeFrames(n int, step time.Duration) Frames {
	frames := make(Frames, n)
	for i := range frames {
		f := vidview.NewFrame(2, 2)
		f.PTS = time.Duration(i) * step
		frames[i] = f
	}
	return frames
}

// fakePlayer scripts readiness and frame availability.
type fakePlayer struct {
	ready   bool
	offset  time.Duration
	frame   *vidview.Frame
	hasNew  bool
	copyOK  bool
	addErr  error
	added   int
	removed int
	lastReq time.Duration
}

func (p *fakePlayer) Ready() bool { return p.ready }

func (p *fakePlayer) HostToItemTime(host time.Duration) time.Duration { return host - p.offset }

func (p *fakePlayer) AddOutput(format vidview.PixelFormat) (Output, error) {
	if p.addErr != nil {
		return nil, p.addErr
	}
	p.added++
	return &fakeOutput{p: p}, nil
}

func (p *fakePlayer) RemoveOutput(Output) { p.removed++ }

type fakeOutput struct{ p *fakePlayer }

func (o *fakeOutput) HasNewFrame(item time.Duration) bool {
	o.p.lastReq = item
	return o.p.hasNew
}

func (o *fakeOutput) CopyFrame(time.Duration) (*vidview.Frame, bool) {
	if !o.p.copyOK {
		return nil, false
	}
	return o.p.frame, true
}

type countRedrawer struct{ n int }

func (r *countRedrawer) RequestRedraw() { r.n++ }

// manualClock returns a fixed time that tests advance.
type manualClock struct{ now time.Duration }

func (c *manualClock) Now() time.Duration { return c.now }

// manualTicker is fed by the test.
type manualTicker struct {
	ch      chan time.Time
	stopped chan struct{}
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time), stopped: make(chan struct{})}
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               { close(t.stopped) }
