package main

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/vidview/player"
	"github.com/gogpu/vidview/render"
)

// report is the end-of-run summary.
type report struct {
	Elapsed time.Duration
	Source  player.SourceStats
	Driver  player.DriverStats
	Render  render.Stats
}

type line struct {
	format string
	args   []any
}

// writeReport prints r with numbers formatted for lang.
func writeReport(w io.Writer, lang string, r report) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("language %q: %w", lang, err)
	}
	p := message.NewPrinter(tag)

	lines := []line{
		{"elapsed:      %v\n", []any{r.Elapsed.Round(time.Millisecond)}},
		{"ticks:        %d\n", []any{r.Driver.Ticks}},
		{"draws:        %d (%d redraw requests, %d coalesced)\n", []any{r.Driver.Draws, r.Driver.RedrawRequests, r.Driver.Coalesced()}},
		{"delivered:    %d (%d dropped, %d idle ticks)\n", []any{r.Source.Delivered, r.Source.Dropped, r.Source.Idle()}},
		{"presented:    %d\n", []any{r.Render.Presented}},
		{"skipped:      %d\n", []any{r.Render.Skipped()}},
		{"textures:     %d imports, %d allocations, %d evictions\n", []any{r.Render.Cache.Imports, r.Render.Cache.Allocations, r.Render.Cache.Evictions}},
	}
	if secs := r.Elapsed.Seconds(); secs > 0 {
		lines = append(lines, line{"rate:         %.1f fps\n", []any{float64(r.Render.Presented) / secs}})
	}
	for _, l := range lines {
		if _, err := p.Fprintf(w, l.format, l.args...); err != nil {
			return err
		}
	}
	return nil
}
