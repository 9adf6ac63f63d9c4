package player

import (
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/vidview"
)

// SourceStats counts what each tick did.
type SourceStats struct {
	// Ticks is the number of OnTick calls.
	Ticks uint64

	// Delivered counts frames stored as current.
	Delivered uint64

	// Dropped counts frames replaced before they were taken for drawing.
	Dropped uint64

	// Detached, NotReady, NoNewFrame and CopyMisses count no-op ticks by cause.
	Detached   uint64
	NotReady   uint64
	NoNewFrame uint64
	CopyMisses uint64
}

// Idle returns the number of ticks that delivered nothing.
func (s SourceStats) Idle() uint64 {
	return s.Detached + s.NotReady + s.NoNewFrame + s.CopyMisses
}

// Source bridges a Player to the renderer. It keeps only the latest frame.
//
// OnTick and TakeCurrent are expected on one serial context (the refresh
// loop); the mutex makes Attach, Detach and Stats safe from other
// goroutines.
type Source struct {
	mu sync.Mutex

	redrawer Redrawer
	player   Player
	output   Output

	current *vidview.Frame
	drawn   bool
	stats   SourceStats
}

// NewSource creates a detached source. r may be nil.
func NewSource(r Redrawer) *Source {
	return &Source{redrawer: r}
}

// SetRedrawer replaces the redraw target.
func (s *Source) SetRedrawer(r Redrawer) {
	s.mu.Lock()
	s.redrawer = r
	s.mu.Unlock()
}

// Attach registers a BGRA8 output on p. Any previously attached player is
// detached first.
func (s *Source) Attach(p Player) error {
	s.Detach()
	if p == nil {
		return nil
	}
	out, err := p.AddOutput(vidview.PixelFormatBGRA8)
	if err != nil {
		return fmt.Errorf("player: attach output: %w", err)
	}
	s.mu.Lock()
	s.player, s.output = p, out
	s.mu.Unlock()
	vidview.Logger().Debug("player: source attached")
	return nil
}

// Detach removes the output from the attached player. The current frame is
// kept so a pending redraw can still show it. Safe to call multiple times.
func (s *Source) Detach() {
	s.mu.Lock()
	p, out := s.player, s.output
	s.player, s.output = nil, nil
	s.mu.Unlock()
	if p != nil && out != nil {
		p.RemoveOutput(out)
		vidview.Logger().Debug("player: source detached")
	}
}

// Attached reports whether a player is attached.
func (s *Source) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player != nil
}

// OnTick polls the player for the frame at host, the timestamp of the
// upcoming refresh. A new frame becomes current and a redraw is requested.
func (s *Source) OnTick(host time.Duration) {
	s.mu.Lock()
	s.stats.Ticks++
	p, out := s.player, s.output
	if p == nil || out == nil {
		s.stats.Detached++
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if !p.Ready() {
		s.count(func(st *SourceStats) { st.NotReady++ })
		return
	}
	item := p.HostToItemTime(host)
	if !out.HasNewFrame(item) {
		s.count(func(st *SourceStats) { st.NoNewFrame++ })
		return
	}
	frame, ok := out.CopyFrame(item)
	if !ok || frame == nil {
		s.count(func(st *SourceStats) { st.CopyMisses++ })
		return
	}

	s.mu.Lock()
	if s.output != out {
		// Detached while copying.
		s.stats.Detached++
		s.mu.Unlock()
		return
	}
	if s.current != nil && !s.drawn {
		s.stats.Dropped++
	}
	s.current, s.drawn = frame, false
	s.stats.Delivered++
	r := s.redrawer
	s.mu.Unlock()

	if r != nil {
		r.RequestRedraw()
	}
}

// Current returns the latest frame, or nil before the first delivery.
func (s *Source) Current() *vidview.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// TakeCurrent returns the latest frame and marks it drawn.
func (s *Source) TakeCurrent() *vidview.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawn = true
	return s.current
}

// Stats returns a snapshot of the tick counters.
func (s *Source) Stats() SourceStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Source) count(f func(*SourceStats)) {
	s.mu.Lock()
	f(&s.stats)
	s.mu.Unlock()
}
