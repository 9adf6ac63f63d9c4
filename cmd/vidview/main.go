// Command vidview plays an image sequence through the GPU preview pipeline
// and reports what was presented.
//
// Usage:
//
//	vidview [flags]
//
// Without -input a colour-bar test pattern is played. Frames are drawn into
// an offscreen target, so the command also runs on headless machines with
// the noop backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gogpu/vidview"
	"github.com/gogpu/vidview/media"
	"github.com/gogpu/vidview/player"
	"github.com/gogpu/vidview/render"

	_ "github.com/gogpu/wgpu/hal/noop"
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

const (
	patternWidth  = 640
	patternHeight = 360
	patternFrames = 90
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "vidview: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := parseConfig(args, stderr)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		vidview.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
		vidview.SetHALLogging(true)
		defer vidview.SetLogger(nil)
	}

	orientation, err := vidview.ParseOrientation(cfg.Orientation)
	if err != nil {
		return err
	}
	backend, err := render.ParseBackend(cfg.Backend)
	if err != nil {
		return err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid view size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Refresh <= 0 {
		return fmt.Errorf("invalid refresh rate %g", cfg.Refresh)
	}

	seq, err := openSequence(cfg)
	if err != nil {
		return err
	}
	p, err := player.NewSequencePlayer(seq,
		player.WithLoop(cfg.Loop),
		player.WithRate(cfg.Rate),
	)
	if err != nil {
		return err
	}
	defer p.Close()

	h, err := render.OpenDevice(backend)
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	defer h.Close()

	gpu, err := newPipeline(h, cfg)
	if err != nil {
		return err
	}
	defer gpu.close()

	source := player.NewSource(nil)
	driver, err := player.NewDriver(source, func(frame *vidview.Frame) {
		gpu.draw(frame, orientation)
	}, player.WithInterval(time.Duration(float64(time.Second)/cfg.Refresh)))
	if err != nil {
		return err
	}
	if err := source.Attach(p); err != nil {
		return err
	}
	defer source.Detach()

	vidview.Logger().Info("vidview: playing",
		"backend", cfg.Backend,
		"adapter", h.AdapterInfo().Name,
		"frames", p.Len(),
		"duration", p.Duration(),
		"view", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"orientation", orientation)

	start := time.Now()
	p.Play(driver.Clock().Now())

	runCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Duration))
	defer cancel()
	if err := driver.Run(runCtx); err != nil &&
		!errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return err
	}

	return writeReport(stdout, cfg.Lang, report{
		Elapsed: time.Since(start),
		Source:  source.Stats(),
		Driver:  driver.Stats(),
		Render:  gpu.renderer.Stats(),
	})
}

// openSequence loads the configured input, or the test pattern when none
// is given.
func openSequence(cfg config) (player.Sequence, error) {
	if cfg.Input == "" {
		return testPattern(patternWidth, patternHeight, patternFrames, cfg.FPS), nil
	}
	seq, err := media.Load(cfg.Input, media.Options{
		MaxWidth:  cfg.MaxWidth,
		MaxHeight: cfg.MaxHeight,
		FPS:       cfg.FPS,
		Lazy:      cfg.Lazy,
		Workers:   cfg.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.Input, err)
	}
	return seq, nil
}
