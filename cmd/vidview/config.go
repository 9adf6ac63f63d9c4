package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// config holds the command settings. A TOML file supplies defaults and
// command-line flags override them.
type config struct {
	Input       string   `toml:"input"`
	FPS         float64  `toml:"fps"`
	Width       int      `toml:"width"`
	Height      int      `toml:"height"`
	Orientation string   `toml:"orientation"`
	Duration    duration `toml:"duration"`
	Refresh     float64  `toml:"refresh"`
	Backend     string   `toml:"backend"`
	SPIRV       bool     `toml:"spirv"`
	Loop        bool     `toml:"loop"`
	Rate        float64  `toml:"rate"`
	MaxWidth    int      `toml:"max_width"`
	MaxHeight   int      `toml:"max_height"`
	Lazy        bool     `toml:"lazy"`
	Workers     int      `toml:"workers"`
	Lang        string   `toml:"lang"`
	Verbose     bool     `toml:"verbose"`

	configPath string
}

func defaultConfig() config {
	return config{
		FPS:         30,
		Width:       1080,
		Height:      1920,
		Orientation: "portrait",
		Duration:    duration(3 * time.Second),
		Refresh:     60,
		Backend:     "noop",
		Loop:        true,
		Rate:        1,
		Lang:        "en",
	}
}

// duration is a time.Duration read from TOML as a string like "1m30s".
type duration time.Duration

func (d duration) String() string { return time.Duration(d).String() }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Set implements flag.Value.
func (d *duration) Set(s string) error { return d.UnmarshalText([]byte(s)) }

func (c *config) bind(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", c.configPath, "TOML config file")
	fs.StringVar(&c.Input, "input", c.Input, "image, animated GIF or directory of images (default: test pattern)")
	fs.Float64Var(&c.FPS, "fps", c.FPS, "frame rate of image directories and the test pattern")
	fs.IntVar(&c.Width, "width", c.Width, "view width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "view height in pixels")
	fs.StringVar(&c.Orientation, "orientation", c.Orientation, "portrait, upside-down, landscape-left or landscape-right")
	fs.Var(&c.Duration, "duration", "how long to play")
	fs.Float64Var(&c.Refresh, "refresh", c.Refresh, "display refresh rate in Hz")
	fs.StringVar(&c.Backend, "backend", c.Backend, "GPU backend: noop or vulkan")
	fs.BoolVar(&c.SPIRV, "spirv", c.SPIRV, "compile the shader to SPIR-V")
	fs.BoolVar(&c.Loop, "loop", c.Loop, "loop playback")
	fs.Float64Var(&c.Rate, "rate", c.Rate, "playback rate")
	fs.IntVar(&c.MaxWidth, "max-width", c.MaxWidth, "downscale frames wider than this")
	fs.IntVar(&c.MaxHeight, "max-height", c.MaxHeight, "downscale frames taller than this")
	fs.BoolVar(&c.Lazy, "lazy", c.Lazy, "decode directory frames on demand")
	fs.IntVar(&c.Workers, "workers", c.Workers, "decoding goroutines for directories (0: one per CPU)")
	fs.StringVar(&c.Lang, "lang", c.Lang, "language for number formatting")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "verbose logging")
}

// parseConfig reads flags, loading the -config file first when given so
// flags take precedence over file values.
func parseConfig(args []string, stderr io.Writer) (config, error) {
	cfg := defaultConfig()
	fs := newFlagSet(&cfg, stderr)
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if cfg.configPath == "" {
		return cfg, nil
	}

	path := cfg.configPath
	cfg = defaultConfig()
	if err := loadConfigFile(path, &cfg); err != nil {
		return config{}, err
	}
	cfg.configPath = path
	fs = newFlagSet(&cfg, stderr)
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func newFlagSet(cfg *config, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("vidview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg.bind(fs)
	return fs
}

func loadConfigFile(path string, cfg *config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}
