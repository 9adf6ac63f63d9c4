package vidview

import (
	"fmt"
	"math"
	"time"
)

// PixelFormat identifies the memory layout of frame pixels.
type PixelFormat uint8

const (
	// PixelFormatUnknown is the zero value and is never accepted.
	PixelFormatUnknown PixelFormat = iota

	// PixelFormatBGRA8 is 8-bit blue, green, red, alpha, 4 bytes per pixel.
	// Alpha is carried but ignored when drawing.
	PixelFormatBGRA8
)

// String returns a human-readable name for the format.
func (f PixelFormat) String() string {
	switch f {
	case PixelFormatBGRA8:
		return "BGRA8"
	default:
		return fmt.Sprintf("PixelFormat(%d)", uint8(f))
	}
}

// BytesPerPixel returns the pixel size in bytes, or 0 for unknown formats.
func (f PixelFormat) BytesPerPixel() int {
	if f == PixelFormatBGRA8 {
		return 4
	}
	return 0
}

// Frame is one decoded video image.
//
// Rows are Stride bytes apart; Stride may exceed Width*4 when the decoder
// pads rows. A Frame is treated as immutable once handed to a Source.
type Frame struct {
	Width  int
	Height int
	Stride int
	Format PixelFormat

	// PTS is the presentation timestamp on the media timeline.
	PTS time.Duration

	Data []byte
}

// NewFrame allocates a tightly packed opaque black BGRA8 frame.
func NewFrame(width, height int) *Frame {
	if width <= 0 || height <= 0 {
		return &Frame{Format: PixelFormatBGRA8}
	}
	data := make([]byte, width*height*4)
	for i := 3; i < len(data); i += 4 {
		data[i] = 0xFF
	}
	return &Frame{
		Width:  width,
		Height: height,
		Stride: width * 4,
		Format: PixelFormatBGRA8,
		Data:   data,
	}
}

// Validate reports whether the frame can be uploaded as-is.
func (f *Frame) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidFrame)
	}
	if f.Format != PixelFormatBGRA8 {
		return fmt.Errorf("%w: %s", ErrUnsupportedPixelFormat, f.Format)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidFrame, f.Width, f.Height)
	}
	if f.Width > math.MaxInt/4 {
		return fmt.Errorf("%w: width %d too large", ErrInvalidFrame, f.Width)
	}
	row := f.Width * 4
	if f.Stride < row {
		return fmt.Errorf("%w: stride %d < row size %d", ErrInvalidFrame, f.Stride, row)
	}
	if f.Height > 1 && f.Stride > (math.MaxInt-row)/(f.Height-1) {
		return fmt.Errorf("%w: stride %d too large for %d rows", ErrInvalidFrame, f.Stride, f.Height)
	}
	if need := f.Stride*(f.Height-1) + row; len(f.Data) < need {
		return fmt.Errorf("%w: data length %d < %d", ErrInvalidFrame, len(f.Data), need)
	}
	return nil
}

// Size returns the frame dimensions.
func (f *Frame) Size() (int, int) {
	return f.Width, f.Height
}

// PixelOffset returns the byte offset of pixel (x, y) in Data.
func (f *Frame) PixelOffset(x, y int) int {
	return y*f.Stride + x*4
}

// SetBGRA writes one pixel. Out-of-range coordinates are ignored.
func (f *Frame) SetBGRA(x, y int, b, g, r, a uint8) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	i := f.PixelOffset(x, y)
	f.Data[i], f.Data[i+1], f.Data[i+2], f.Data[i+3] = b, g, r, a
}

// Fill sets every pixel to the given color.
func (f *Frame) Fill(b, g, r, a uint8) {
	for y := 0; y < f.Height; y++ {
		row := f.Data[y*f.Stride : y*f.Stride+f.Width*4]
		for i := 0; i < len(row); i += 4 {
			row[i], row[i+1], row[i+2], row[i+3] = b, g, r, a
		}
	}
}
