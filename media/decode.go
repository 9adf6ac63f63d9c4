package media

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	_ "image/jpeg"
	_ "image/png"
	"io"
	"time"

	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/vidview"
)

// DefaultFPS is the frame rate assigned to image directories.
const DefaultFPS = 30

// DefaultGIFDelay replaces zero GIF frame delays.
const DefaultGIFDelay = 100 * time.Millisecond

// Options controls decoding.
type Options struct {
	// MaxWidth and MaxHeight bound the frame size. Larger images are
	// downscaled preserving aspect ratio. Zero means unbounded.
	MaxWidth  int
	MaxHeight int

	// FPS sets the frame rate of directory sequences. Default: DefaultFPS.
	FPS float64

	// Lazy decodes directory frames on demand instead of up front.
	Lazy bool

	// CacheSize bounds the decoded frames kept by lazy sequences.
	// Default: DefaultCacheSize.
	CacheSize int

	// Workers is the number of goroutines decoding a directory up front.
	// Zero uses GOMAXPROCS; 1 decodes sequentially.
	Workers int
}

func (o Options) fps() float64 {
	if o.FPS > 0 {
		return o.FPS
	}
	return DefaultFPS
}

// frameTime returns the presentation time of frame i at the configured rate.
func (o Options) frameTime(i int) time.Duration {
	return time.Duration(float64(i) / o.fps() * float64(time.Second))
}

// Errors.
var (
	// ErrNoFrames is returned when an input yields no decodable frame.
	ErrNoFrames = errors.New("media: no frames")

	// ErrEmptyImage is returned for images with zero width or height.
	ErrEmptyImage = errors.New("media: empty image")
)

// DecodeFrame decodes one image in any registered format.
func DecodeFrame(r io.Reader, opts Options) (*vidview.Frame, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("media: decode: %w", err)
	}
	f, err := FrameFromImage(img, opts)
	if err != nil {
		return nil, fmt.Errorf("media: %s: %w", format, err)
	}
	return f, nil
}

// FrameFromImage converts img to a BGRA8 frame, downscaling it to fit
// opts.MaxWidth and opts.MaxHeight. Alpha is dropped: translucent pixels
// end up composited over black.
func FrameFromImage(img image.Image, opts Options) (*vidview.Frame, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyImage
	}
	w, h := fitSize(b.Dx(), b.Dy(), opts.MaxWidth, opts.MaxHeight)

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(rgba, rgba.Bounds(), img, b, draw.Src, nil)
	}
	return frameFromRGBA(rgba), nil
}

// frameFromRGBA swizzles premultiplied RGBA into opaque BGRA.
func frameFromRGBA(img *image.RGBA) *vidview.Frame {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	f := &vidview.Frame{
		Width:  w,
		Height: h,
		Stride: w * 4,
		Format: vidview.PixelFormatBGRA8,
		Data:   make([]byte, w*h*4),
	}
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		dst := f.Data[y*f.Stride : y*f.Stride+w*4]
		for x := 0; x < len(src); x += 4 {
			dst[x+0] = src[x+2]
			dst[x+1] = src[x+1]
			dst[x+2] = src[x+0]
			dst[x+3] = 0xff
		}
	}
	return f
}

// fitSize scales w x h down to fit maxW x maxH. It never upscales and
// never returns a zero dimension.
func fitSize(w, h, maxW, maxH int) (int, int) {
	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = float64(maxW) / float64(w)
	}
	if maxH > 0 && h > maxH {
		scale = min(scale, float64(maxH)/float64(h))
	}
	if scale >= 1 {
		return w, h
	}
	return max(1, int(float64(w)*scale+0.5)), max(1, int(float64(h)*scale+0.5))
}
