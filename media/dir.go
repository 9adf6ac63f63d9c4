package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gogpu/vidview"
	"github.com/gogpu/vidview/cache"
	"github.com/gogpu/vidview/internal/parallel"
	"github.com/gogpu/vidview/player"
)

// DefaultCacheSize is the number of decoded frames a lazy sequence keeps.
const DefaultCacheSize = 16

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsImageFile reports whether name has a supported image extension.
func IsImageFile(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// imagePaths lists supported files in dir sorted by name.
func imagePaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("media: read dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsImageFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFrames, dir)
	}
	return paths, nil
}

// LoadFile decodes a single image file.
func LoadFile(path string, opts Options) (*vidview.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("media: %w", err)
	}
	defer f.Close()
	frame, err := DecodeFrame(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return frame, nil
}

// LoadDir decodes every image in dir, sorted by file name, on
// Options.Workers goroutines. Frame i is presented at i/FPS.
func LoadDir(dir string, opts Options) (player.Frames, error) {
	paths, err := imagePaths(dir)
	if err != nil {
		return nil, err
	}
	frames := make(player.Frames, len(paths))
	load := func(i int) error {
		f, err := LoadFile(paths[i], opts)
		if err != nil {
			return err
		}
		f.PTS = opts.frameTime(i)
		frames[i] = f
		return nil
	}

	if opts.Workers == 1 || len(paths) == 1 {
		for i := range paths {
			if err := load(i); err != nil {
				return nil, err
			}
		}
		return frames, nil
	}

	pool := parallel.NewPool(min(opts.Workers, len(paths)))
	defer pool.Close()
	if err := pool.Map(len(paths), load); err != nil {
		return nil, err
	}
	return frames, nil
}

// DirSequence is a player.Sequence that decodes files on demand and keeps
// the most recently used frames.
type DirSequence struct {
	paths  []string
	opts   Options
	frames *cache.Cache[int, *vidview.Frame]
}

// OpenDir lists dir without decoding it.
func OpenDir(dir string, opts Options) (*DirSequence, error) {
	paths, err := imagePaths(dir)
	if err != nil {
		return nil, err
	}
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &DirSequence{
		paths:  paths,
		opts:   opts,
		frames: cache.New[int, *vidview.Frame](size),
	}, nil
}

// Len implements player.Sequence.
func (s *DirSequence) Len() int { return len(s.paths) }

// PTS implements player.Sequence.
func (s *DirSequence) PTS(i int) time.Duration { return s.opts.frameTime(i) }

// Path returns the file of frame i.
func (s *DirSequence) Path(i int) string { return s.paths[i] }

// Frame implements player.Sequence.
func (s *DirSequence) Frame(i int) (*vidview.Frame, error) {
	if i < 0 || i >= len(s.paths) {
		return nil, fmt.Errorf("media: frame %d out of range [0, %d)", i, len(s.paths))
	}
	return s.frames.GetOrLoad(i, func() (*vidview.Frame, error) {
		f, err := LoadFile(s.paths[i], s.opts)
		if err != nil {
			return nil, err
		}
		f.PTS = s.PTS(i)
		return f, nil
	})
}

// CacheStats reports decoded-frame cache activity.
func (s *DirSequence) CacheStats() cache.Stats { return s.frames.Stats() }

// Load opens path as a frame sequence: a directory of images, an animated
// GIF, or a single image shown as a one-frame sequence.
func Load(path string, opts Options) (player.Sequence, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("media: %w", err)
	}
	if info.IsDir() {
		if opts.Lazy {
			return OpenDir(path, opts)
		}
		return LoadDir(path, opts)
	}
	if strings.EqualFold(filepath.Ext(path), ".gif") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("media: %w", err)
		}
		defer f.Close()
		return LoadGIF(f, opts)
	}
	frame, err := LoadFile(path, opts)
	if err != nil {
		return nil, err
	}
	return player.Frames{frame}, nil
}

var _ player.Sequence = (*DirSequence)(nil)
