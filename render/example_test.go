// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render_test

import (
	"fmt"
	"log"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vidview"
	"github.com/gogpu/vidview/render"
	"github.com/gogpu/vidview/surface"
	_ "github.com/gogpu/wgpu/hal/noop"
)

// Render one frame headless on the noop backend.
func ExampleNewOwned() {
	r, h, err := render.NewOwned(gputypes.BackendEmpty)
	if err != nil {
		log.Fatal(err)
	}
	defer r.Destroy()

	target, err := surface.NewOffscreen(h.HalDev, 1080, 1920)
	if err != nil {
		log.Fatal(err)
	}
	defer target.Destroy()

	frame := vidview.NewFrame(1920, 1080)
	frame.Fill(0x20, 0x40, 0x80, 0xff)
	r.Render(frame, target, vidview.OrientationPortrait)

	s := r.Stats()
	fmt.Println("presented:", s.Presented, "skipped:", s.Skipped())
	// Output:
	// presented: 1 skipped: 0
}

// A target with no drawable skips the frame without error.
func ExampleRenderer_Render_skipped() {
	r, h, err := render.NewOwned(gputypes.BackendEmpty)
	if err != nil {
		log.Fatal(err)
	}
	defer r.Destroy()

	target, err := surface.NewOffscreen(h.HalDev, 640, 480)
	if err != nil {
		log.Fatal(err)
	}
	defer target.Destroy()
	target.SetAvailable(false)

	r.Render(vidview.NewFrame(320, 240), target, vidview.OrientationLandscapeLeft)

	s := r.Stats()
	fmt.Println("presented:", s.Presented, "no drawable:", s.SkippedNoDrawable)
	// Output:
	// presented: 0 no drawable: 1
}

func ExampleNullDeviceHandle() {
	_, err := render.NewFromHandle(render.NullDeviceHandle{})
	fmt.Println(err != nil)
	// Output:
	// true
}
