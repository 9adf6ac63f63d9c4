package main

import (
	"time"

	"github.com/gogpu/vidview"
	"github.com/gogpu/vidview/player"
)

// Colour bars in BGRA order.
var bars = [...][3]uint8{
	{255, 255, 255},
	{0, 255, 255},
	{255, 255, 0},
	{0, 255, 0},
	{255, 0, 255},
	{0, 0, 255},
	{255, 0, 0},
}

// testPattern builds n frames of colour bars with a white marker column that
// sweeps across the frame, so dropped and repeated frames are visible.
func testPattern(width, height, n int, fps float64) player.Frames {
	if fps <= 0 {
		fps = 30
	}
	frames := make(player.Frames, n)
	barW := (width + len(bars) - 1) / len(bars)
	for i := range frames {
		f := vidview.NewFrame(width, height)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c := bars[x/barW]
				f.SetBGRA(x, y, c[0], c[1], c[2], 255)
			}
		}
		marker := i * width / n
		for y := 0; y < height; y++ {
			f.SetBGRA(marker, y, 0, 0, 0, 255)
		}
		f.PTS = time.Duration(float64(i) * float64(time.Second) / fps)
		frames[i] = f
	}
	return frames
}
