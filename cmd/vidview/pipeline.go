package main

import (
	"fmt"

	"github.com/gogpu/vidview"
	"github.com/gogpu/vidview/render"
	"github.com/gogpu/vidview/surface"
)

// pipeline is the GPU side of a run: an offscreen target and the renderer
// drawing into it, both on a device owned by the caller.
type pipeline struct {
	target   surface.Target
	renderer *render.Renderer
}

func newPipeline(h *render.HALDeviceHandle, cfg config) (*pipeline, error) {
	target, err := surface.NewTargetByName("offscreen", surface.Options{
		Device: h.HalDev,
		Queue:  h.HalQueue,
		Width:  uint32(cfg.Width),
		Height: uint32(cfg.Height),
	})
	if err != nil {
		return nil, err
	}
	r, err := render.NewFromHandle(h, render.WithSPIRV(cfg.SPIRV))
	if err != nil {
		target.Destroy()
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	return &pipeline{target: target, renderer: r}, nil
}

func (p *pipeline) draw(frame *vidview.Frame, orientation vidview.Orientation) {
	p.renderer.Render(frame, p.target, orientation)
}

// close destroys the renderer, which waits for the GPU, and then the target
// its submissions drew into. The device stays open.
func (p *pipeline) close() {
	p.renderer.Destroy()
	p.target.Destroy()
}
