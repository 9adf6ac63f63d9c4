package vidview

import (
	"fmt"
	"math"
	"strings"
)

// Rotation is a counter-clockwise quad rotation in degrees. Only multiples
// of 90 are valid; values are normalized into [0, 360).
type Rotation int

// Supported rotations.
const (
	Rotation0   Rotation = 0
	Rotation90  Rotation = 90
	Rotation180 Rotation = 180
	Rotation270 Rotation = 270
)

// NewRotation normalizes degrees into [0, 360), so -90 becomes 270.
func NewRotation(degrees int) (Rotation, error) {
	d := degrees % 360
	if d < 0 {
		d += 360
	}
	if d%90 != 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRotation, degrees)
	}
	return Rotation(d), nil
}

// Valid reports whether r is one of the four supported rotations.
func (r Rotation) Valid() bool {
	switch r {
	case Rotation0, Rotation90, Rotation180, Rotation270:
		return true
	}
	return false
}

// SwapsAxes reports whether the rotation exchanges the effective width and height.
func (r Rotation) SwapsAxes() bool {
	return r == Rotation90 || r == Rotation270
}

// Radians returns 0, π/2, π or -π/2.
func (r Rotation) Radians() float64 {
	switch r {
	case Rotation90:
		return math.Pi / 2
	case Rotation180:
		return math.Pi
	case Rotation270:
		return -math.Pi / 2
	default:
		return 0
	}
}

// sinCos returns exact values for the four right angles so rotated
// corners carry no trigonometric rounding.
func (r Rotation) sinCos() (sin, cos float64) {
	switch r {
	case Rotation90:
		return 1, 0
	case Rotation180:
		return 0, -1
	case Rotation270:
		return -1, 0
	default:
		return 0, 1
	}
}

func (r Rotation) String() string {
	return fmt.Sprintf("%d°", int(r))
}

// Orientation is a discrete device orientation.
// The zero value is OrientationPortrait, which applies no rotation.
type Orientation uint8

const (
	OrientationPortrait Orientation = iota
	OrientationPortraitUpsideDown
	OrientationLandscapeLeft
	OrientationLandscapeRight
)

// Rotation maps the orientation to the quad rotation applied at render time.
func (o Orientation) Rotation() Rotation {
	switch o {
	case OrientationPortraitUpsideDown:
		return Rotation180
	case OrientationLandscapeLeft:
		return Rotation90
	case OrientationLandscapeRight:
		return Rotation270
	default:
		return Rotation0
	}
}

func (o Orientation) String() string {
	switch o {
	case OrientationPortrait:
		return "portrait"
	case OrientationPortraitUpsideDown:
		return "upside-down"
	case OrientationLandscapeLeft:
		return "landscape-left"
	case OrientationLandscapeRight:
		return "landscape-right"
	default:
		return fmt.Sprintf("Orientation(%d)", uint8(o))
	}
}

// ParseOrientation accepts an orientation name as printed by String, or a
// rotation in degrees ("0", "90", "180", "270", "-90").
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "portrait", "0":
		return OrientationPortrait, nil
	case "upside-down", "portrait-upside-down", "180":
		return OrientationPortraitUpsideDown, nil
	case "landscape-left", "90":
		return OrientationLandscapeLeft, nil
	case "landscape-right", "270", "-90":
		return OrientationLandscapeRight, nil
	}
	return OrientationPortrait, fmt.Errorf("%w: %q", ErrUnknownOrientation, s)
}

// OrientationProvider supplies the current device orientation at render time.
// A nil provider means no rotation.
type OrientationProvider interface {
	Orientation() Orientation
}

// FixedOrientation is an OrientationProvider that never changes.
type FixedOrientation Orientation

// Orientation implements OrientationProvider.
func (f FixedOrientation) Orientation() Orientation { return Orientation(f) }

// CurrentOrientation queries p, treating nil as OrientationPortrait.
func CurrentOrientation(p OrientationProvider) Orientation {
	if p == nil {
		return OrientationPortrait
	}
	return p.Orientation()
}
