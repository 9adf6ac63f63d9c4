//go:build !nogpu

package gpu

import "github.com/gogpu/wgpu/hal"

// Target is a view the renderer draws into.
type Target interface {
	// DrawableSize returns the current drawable size in pixels.
	DrawableSize() (width, height uint32)

	// AcquireDrawable returns the drawable for this refresh. Failure is
	// transient: the renderer skips the frame and tries again next tick.
	AcquireDrawable() (Drawable, error)
}

// Drawable is the renderable surface for one display refresh.
// Exactly one of Present or Discard is called for each acquired Drawable.
type Drawable interface {
	// View returns the color attachment. Its format must be BGRA8Unorm.
	View() hal.TextureView

	// Present queues the drawable for display after submitted work.
	Present() error

	// Discard releases the drawable without presenting it.
	Discard()
}
