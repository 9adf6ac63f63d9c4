package vidview

import "errors"

var (
	// ErrInvalidFrame is returned when a frame's dimensions, stride or pixel
	// data are inconsistent.
	ErrInvalidFrame = errors.New("vidview: invalid frame")

	// ErrUnsupportedPixelFormat is returned when a frame or output uses a
	// pixel format other than BGRA8.
	ErrUnsupportedPixelFormat = errors.New("vidview: unsupported pixel format")

	// ErrInvalidGeometry is returned by ComputeQuad when a video or view
	// dimension is zero, negative or not finite.
	ErrInvalidGeometry = errors.New("vidview: invalid geometry")

	// ErrInvalidRotation is returned when a rotation is not a multiple of 90 degrees.
	ErrInvalidRotation = errors.New("vidview: rotation must be a multiple of 90 degrees")

	// ErrUnknownOrientation is returned by ParseOrientation.
	ErrUnknownOrientation = errors.New("vidview: unknown orientation")
)
