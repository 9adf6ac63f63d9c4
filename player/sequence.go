package player

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/gogpu/vidview"
)

// DefaultFrameDuration is the display time of the last frame of a
// single-frame sequence.
const DefaultFrameDuration = time.Second / 30

// SequencePlayer plays a frame Sequence against the host clock.
//
// While playing, item time advances as
//
//	item = anchorItem + (host - anchorHost) * rate
//
// and is wrapped modulo Duration when looping, or clamped to
// [0, Duration] otherwise. Play, Pause, Seek and SetRate re-anchor the
// timeline so it stays continuous.
type SequencePlayer struct {
	mu sync.Mutex

	seq      Sequence
	pts      []time.Duration
	duration time.Duration

	playing    bool
	rate       float64
	loop       bool
	anchorHost time.Duration
	anchorItem time.Duration
	closed     bool

	outputs map[*sequenceOutput]struct{}
}

// SequenceOption configures a SequencePlayer.
type SequenceOption func(*sequenceOptions)

type sequenceOptions struct {
	rate          float64
	loop          bool
	frameDuration time.Duration
}

// WithRate sets the initial playback rate. Non-positive or non-finite
// rates are ignored. Default: 1.
func WithRate(rate float64) SequenceOption {
	return func(o *sequenceOptions) {
		if rate > 0 && !math.IsInf(rate, 0) {
			o.rate = rate
		}
	}
}

// WithLoop makes playback wrap around at the end.
func WithLoop(loop bool) SequenceOption {
	return func(o *sequenceOptions) { o.loop = loop }
}

// WithFrameDuration sets how long the last frame is shown. Default: the
// gap between the last two frames, or DefaultFrameDuration.
func WithFrameDuration(d time.Duration) SequenceOption {
	return func(o *sequenceOptions) {
		if d > 0 {
			o.frameDuration = d
		}
	}
}

// NewSequencePlayer creates a paused player positioned at item time 0.
func NewSequencePlayer(seq Sequence, opts ...SequenceOption) (*SequencePlayer, error) {
	if seq == nil || seq.Len() == 0 {
		return nil, ErrEmptySequence
	}
	o := sequenceOptions{rate: 1}
	for _, opt := range opts {
		opt(&o)
	}

	n := seq.Len()
	pts := make([]time.Duration, n)
	for i := range pts {
		pts[i] = seq.PTS(i)
		if i > 0 && pts[i] < pts[i-1] {
			return nil, fmt.Errorf("%w: frame %d at %v after %v", ErrUnorderedSequence, i, pts[i], pts[i-1])
		}
	}

	last := o.frameDuration
	if last == 0 {
		last = DefaultFrameDuration
		if n > 1 && pts[n-1] > pts[n-2] {
			last = pts[n-1] - pts[n-2]
		}
	}

	return &SequencePlayer{
		seq:      seq,
		pts:      pts,
		duration: pts[n-1] + last,
		rate:     o.rate,
		loop:     o.loop,
		outputs:  make(map[*sequenceOutput]struct{}),
	}, nil
}

// Ready implements Player. It is false once the player is closed.
func (p *SequencePlayer) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.closed
}

// Duration returns the item time at which the last frame ends.
func (p *SequencePlayer) Duration() time.Duration { return p.duration }

// Len returns the number of frames.
func (p *SequencePlayer) Len() int { return len(p.pts) }

// Playing reports whether the item clock is advancing.
func (p *SequencePlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Play starts advancing item time from the current position at host.
func (p *SequencePlayer) Play(host time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		return
	}
	p.anchorHost = host
	p.playing = true
}

// Pause freezes item time at its value at host.
func (p *SequencePlayer) Pause(host time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return
	}
	p.anchorItem = p.itemAt(host)
	p.playing = false
}

// Seek jumps to item time at host. Playback state is unchanged.
func (p *SequencePlayer) Seek(host, item time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.anchorHost = host
	p.anchorItem = p.normalize(item)
}

// SetRate changes the playback rate at host. Non-positive or non-finite
// rates are ignored.
func (p *SequencePlayer) SetRate(host time.Duration, rate float64) {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		p.anchorItem = p.itemAt(host)
		p.anchorHost = host
	}
	p.rate = rate
}

// SetLoop enables or disables wrap-around at the end.
func (p *SequencePlayer) SetLoop(loop bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loop = loop
}

// HostToItemTime implements Player.
func (p *SequencePlayer) HostToItemTime(host time.Duration) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.itemAt(host)
}

// AddOutput implements Player.
func (p *SequencePlayer) AddOutput(format vidview.PixelFormat) (Output, error) {
	if format != vidview.PixelFormatBGRA8 {
		return nil, fmt.Errorf("%w: %v", vidview.ErrUnsupportedPixelFormat, format)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := &sequenceOutput{player: p, last: -1}
	p.outputs[out] = struct{}{}
	return out, nil
}

// RemoveOutput implements Player.
func (p *SequencePlayer) RemoveOutput(out Output) {
	so, ok := out.(*sequenceOutput)
	if !ok {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.outputs, so)
	so.removed = true
}

// Outputs returns the number of registered outputs.
func (p *SequencePlayer) Outputs() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.outputs)
}

// Close stops delivery. Ready reports false afterwards.
func (p *SequencePlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.playing = false
}

// itemAt must be called with p.mu held.
func (p *SequencePlayer) itemAt(host time.Duration) time.Duration {
	item := p.anchorItem
	if p.playing {
		item += time.Duration(float64(host-p.anchorHost) * p.rate)
	}
	return p.normalize(item)
}

func (p *SequencePlayer) normalize(item time.Duration) time.Duration {
	if p.loop {
		item %= p.duration
		if item < 0 {
			item += p.duration
		}
		return item
	}
	return min(max(item, 0), p.duration)
}

// indexAt returns the frame shown at item, or -1 before the first frame.
func (p *SequencePlayer) indexAt(item time.Duration) int {
	return sort.Search(len(p.pts), func(i int) bool { return p.pts[i] > item }) - 1
}

type sequenceOutput struct {
	player  *SequencePlayer
	last    int
	removed bool
}

func (o *sequenceOutput) HasNewFrame(item time.Duration) bool {
	p := o.player
	p.mu.Lock()
	defer p.mu.Unlock()
	if o.removed || p.closed {
		return false
	}
	i := p.indexAt(item)
	return i >= 0 && i != o.last
}

func (o *sequenceOutput) CopyFrame(item time.Duration) (*vidview.Frame, bool) {
	p := o.player
	p.mu.Lock()
	if o.removed || p.closed {
		p.mu.Unlock()
		return nil, false
	}
	i := p.indexAt(item)
	p.mu.Unlock()
	if i < 0 {
		return nil, false
	}

	frame, err := p.seq.Frame(i)
	if err != nil || frame == nil {
		vidview.Logger().Debug("player: frame unavailable", "index", i, "err", err)
		return nil, false
	}

	p.mu.Lock()
	o.last = i
	p.mu.Unlock()
	return frame, true
}
