package media

import (
	"fmt"
	"image"
	"image/gif"
	"io"
	"time"

	"golang.org/x/image/draw"

	"github.com/gogpu/vidview/player"
)

// LoadGIF decodes every frame of an animated GIF. Frames are composited on
// a canvas of the logical screen size honouring each frame's disposal
// method. PTS accumulates the per-frame delays.
func LoadGIF(r io.Reader, opts Options) (player.Frames, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("media: decode gif: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, ErrNoFrames
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)
	var saved *image.RGBA

	frames := make(player.Frames, 0, len(g.Image))
	var pts time.Duration
	for i, src := range g.Image {
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			saved = cloneRGBA(canvas)
		}

		draw.Draw(canvas, src.Bounds(), src, src.Bounds().Min, draw.Over)

		f, err := FrameFromImage(canvas, opts)
		if err != nil {
			return nil, fmt.Errorf("media: gif frame %d: %w", i, err)
		}
		f.PTS = pts
		frames = append(frames, f)

		delay := DefaultGIFDelay
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		pts += delay

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, src.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			if saved != nil {
				canvas = saved
			}
		}
	}
	return frames, nil
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
