package player

import (
	"errors"
	"time"

	"github.com/gogpu/vidview"
)

// Player is the media playback clock a Source pulls frames from.
type Player interface {
	// Ready reports whether the current item can deliver frames.
	Ready() bool

	// HostToItemTime converts a host timestamp to the item timeline.
	HostToItemTime(host time.Duration) time.Duration

	// AddOutput registers a frame sink. Only vidview.PixelFormatBGRA8 is
	// supported; other formats fail with vidview.ErrUnsupportedPixelFormat.
	AddOutput(format vidview.PixelFormat) (Output, error)

	// RemoveOutput unregisters a sink. Removing an unknown or already
	// removed output is a no-op.
	RemoveOutput(out Output)
}

// Output is a frame sink registered on a Player.
type Output interface {
	// HasNewFrame reports whether the frame at item differs from the one
	// this output copied last.
	HasNewFrame(item time.Duration) bool

	// CopyFrame returns the frame at item. It reports false when no frame
	// can be produced; the frame is then skipped.
	CopyFrame(item time.Duration) (*vidview.Frame, bool)
}

// Sequence is an ordered set of frames with ascending presentation times.
type Sequence interface {
	Len() int

	// PTS returns the presentation time of frame i.
	PTS(i int) time.Duration

	// Frame returns frame i. Lazily decoded sequences may fail.
	Frame(i int) (*vidview.Frame, error)
}

// Frames is a Sequence held in memory.
type Frames []*vidview.Frame

// Len implements Sequence.
func (f Frames) Len() int { return len(f) }

// PTS implements Sequence.
func (f Frames) PTS(i int) time.Duration { return f[i].PTS }

// Frame implements Sequence.
func (f Frames) Frame(i int) (*vidview.Frame, error) { return f[i], nil }

// Redrawer is asked to schedule a redraw when a new frame is stored.
// gpucontext.WindowProvider satisfies it.
type Redrawer interface {
	RequestRedraw()
}

// RedrawFunc adapts a function to Redrawer.
type RedrawFunc func()

// RequestRedraw calls f.
func (f RedrawFunc) RequestRedraw() { f() }

// Errors.
var (
	// ErrEmptySequence is returned when a player is built over no frames.
	ErrEmptySequence = errors.New("player: empty frame sequence")

	// ErrUnorderedSequence is returned when presentation times decrease.
	ErrUnorderedSequence = errors.New("player: presentation times not ascending")

	// ErrNilSource is returned when a Driver is built without a Source.
	ErrNilSource = errors.New("player: nil source")
)
