//go:build !nogpu

package gpu

import "errors"

var (
	// ErrNoDevice is returned when no HAL device or queue is available.
	// Without one the renderer cannot exist.
	ErrNoDevice = errors.New("gpu: no device available")

	// ErrUnsupportedFrame is returned by TextureCache.Import for frames that
	// cannot be turned into a sampleable texture.
	ErrUnsupportedFrame = errors.New("gpu: unsupported frame")

	// ErrDrawableUnavailable is returned by targets that have no drawable for
	// the current refresh (zero size, outdated swapchain, backgrounded view).
	ErrDrawableUnavailable = errors.New("gpu: drawable unavailable")

	// ErrRendererDestroyed is returned when operating on a destroyed renderer.
	ErrRendererDestroyed = errors.New("gpu: renderer destroyed")

	// ErrCacheDestroyed is returned by a destroyed texture cache.
	ErrCacheDestroyed = errors.New("gpu: texture cache destroyed")
)
