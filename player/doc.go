// Package player feeds decoded frames to a renderer at display rate.
//
// The pieces follow the frame-pump loop of a live preview:
//
//   - a Player is the media playback clock. It maps host time to item time
//     and hands out frames through an Output registered for BGRA8 pixels.
//     SequencePlayer implements it over an in-memory or lazily decoded
//     frame Sequence.
//   - a Source polls the attached Player once per display refresh. When a
//     newer frame exists it keeps it as the current frame and asks its
//     Redrawer for a redraw. Only the latest frame is kept; a frame that is
//     replaced before it was drawn counts as dropped.
//   - a Driver is the refresh timer. Each tick it asks the Source for the
//     frame at the upcoming refresh and, when a redraw is pending, calls the
//     draw function once with the current frame.
//
// Ticks that find no player, an unready player or no new frame are silent
// no-ops: the view keeps showing the previous frame.
package player
