// Package media decodes still images into BGRA frame sequences for preview.
//
// Supported inputs are single images (PNG, JPEG, GIF, BMP, TIFF, WebP),
// animated GIFs and directories of numbered image files. Frames are
// converted to vidview.PixelFormatBGRA8 and optionally downscaled to fit a
// maximum size with a Catmull-Rom filter.
//
//	seq, err := media.Load("frames/", media.Options{FPS: 24, MaxWidth: 1280})
//	p, err := player.NewSequencePlayer(seq)
package media
