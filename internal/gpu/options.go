//go:build !nogpu

package gpu

import "github.com/gogpu/gputypes"

// RendererOption configures a Renderer.
type RendererOption func(*rendererOptions)

type rendererOptions struct {
	label      string
	clearColor gputypes.Color
	cacheSize  int
	spirv      bool
	format     gputypes.TextureFormat

	// release is called once after Destroy has released everything.
	release func()
}

func defaultRendererOptions() rendererOptions {
	return rendererOptions{
		label:      "video renderer",
		clearColor: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		cacheSize:  DefaultTextureCacheSize,
		format:     gputypes.TextureFormatBGRA8Unorm,
	}
}

// WithLabel sets the name used in logs and error messages.
func WithLabel(label string) RendererOption {
	return func(o *rendererOptions) {
		if label != "" {
			o.label = label
		}
	}
}

// WithClearColor sets the color of the letterbox or pillarbox bars.
// The default is opaque black.
func WithClearColor(c gputypes.Color) RendererOption {
	return func(o *rendererOptions) {
		o.clearColor = c
	}
}

// WithTextureCacheSize sets how many frame sizes stay resident on the GPU.
func WithTextureCacheSize(n int) RendererOption {
	return func(o *rendererOptions) {
		o.cacheSize = n
	}
}

// WithSPIRV compiles the quad shader to SPIR-V with naga instead of handing
// WGSL to the backend.
func WithSPIRV(enabled bool) RendererOption {
	return func(o *rendererOptions) {
		o.spirv = enabled
	}
}

// WithRelease registers a function that Destroy calls after all GPU work
// has finished. Renderers that own their device use it to close the device.
// It is also called if New fails.
func WithRelease(release func()) RendererOption {
	return func(o *rendererOptions) {
		o.release = release
	}
}
