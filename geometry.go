package vidview

import (
	"fmt"
	"math"
)

// Corner indices of a Quad in triangle-strip order.
const (
	CornerBottomLeft = iota
	CornerTopLeft
	CornerBottomRight
	CornerTopRight
)

// quadTexCoords is the fixed corner-to-texel mapping. Rotation moves the
// positions only, never the sampling.
var quadTexCoords = [4][2]float32{
	{0, 1}, // bottom-left
	{0, 0}, // top-left
	{1, 1}, // bottom-right
	{1, 0}, // top-right
}

// Quad is a triangle-strip rectangle in normalized device coordinates.
//
// Positions are (x, y, 0, 1). ScaleX and ScaleY are the half-extents before
// rotation; both lie in (0, 1] and at least one equals 1.
type Quad struct {
	Positions [4][4]float32
	TexCoords [4][2]float32
	ScaleX    float64
	ScaleY    float64
}

// FullFrameQuad returns the unscaled, unrotated quad covering the whole view.
func FullFrameQuad() Quad {
	return buildQuad(1, 1, Rotation0)
}

// ComputeQuad fits a videoW x videoH image into a viewW x viewH view,
// letterboxing or pillarboxing to preserve aspect ratio, and rotates the
// result by rot.
//
// For 90 and 270 degree rotations the video aspect is inverted before
// fitting. Non-positive or non-finite dimensions fail with
// ErrInvalidGeometry before any division takes place.
func ComputeQuad(videoW, videoH, viewW, viewH float64, rot Rotation) (Quad, error) {
	for _, v := range [...]float64{videoW, videoH, viewW, viewH} {
		if !(v > 0) || math.IsInf(v, 0) {
			return Quad{}, fmt.Errorf("%w: video %vx%v, view %vx%v",
				ErrInvalidGeometry, videoW, videoH, viewW, viewH)
		}
	}
	if !rot.Valid() {
		return Quad{}, fmt.Errorf("%w: %d", ErrInvalidRotation, int(rot))
	}

	videoAspect := videoW / videoH
	if rot.SwapsAxes() {
		videoAspect = 1 / videoAspect
	}
	viewAspect := viewW / viewH

	scaleX, scaleY := 1.0, 1.0
	if videoAspect > viewAspect {
		scaleY = viewAspect / videoAspect
	} else {
		scaleX = videoAspect / viewAspect
	}
	return buildQuad(scaleX, scaleY, rot), nil
}

func buildQuad(scaleX, scaleY float64, rot Rotation) Quad {
	corners := [4][2]float64{
		{-scaleX, -scaleY},
		{-scaleX, scaleY},
		{scaleX, -scaleY},
		{scaleX, scaleY},
	}
	sin, cos := rot.sinCos()

	q := Quad{TexCoords: quadTexCoords, ScaleX: scaleX, ScaleY: scaleY}
	for i, c := range corners {
		x := c[0]*cos - c[1]*sin
		y := c[0]*sin + c[1]*cos
		q.Positions[i] = [4]float32{float32(x), float32(y), 0, 1}
	}
	return q
}

// Bounds returns the axis-aligned extent of the rotated quad.
func (q Quad) Bounds() (minX, minY, maxX, maxY float32) {
	minX, minY = q.Positions[0][0], q.Positions[0][1]
	maxX, maxY = minX, minY
	for _, p := range q.Positions[1:] {
		minX = min(minX, p[0])
		minY = min(minY, p[1])
		maxX = max(maxX, p[0])
		maxY = max(maxY, p[1])
	}
	return minX, minY, maxX, maxY
}
