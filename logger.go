package vidview

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/wgpu/hal"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for vidview and all its sub-packages.
// By default, vidview produces no log output.
//
// Pass nil to restore the default silent behavior. After [SetHALLogging]
// has been enabled, the same logger is installed in the wgpu HAL layer too.
//
// Log levels used by vidview:
//   - [slog.LevelDebug]: per-frame diagnostics (skipped frames, cache hits)
//   - [slog.LevelInfo]: lifecycle events (device opened, renderer ready)
//   - [slog.LevelWarn]: non-fatal issues (texture import failures, resource release errors)
//
// Example:
//
//	vidview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	if halLogging.Load() {
		hal.SetLogger(l)
	}
}

// Logger returns the current logger used by vidview.
// Sub-packages call this to share the same logger configuration.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

var halLogging atomic.Bool

// SetHALLogging controls whether SetLogger also configures the wgpu HAL
// logger. Enabling it immediately installs the current logger; disabling it
// silences the HAL again.
func SetHALLogging(enabled bool) {
	halLogging.Store(enabled)
	if enabled {
		hal.SetLogger(Logger())
	} else {
		hal.SetLogger(nil)
	}
}
