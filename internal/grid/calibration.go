// Package grid implements the azimuthal grid calibration and the
// pixel-to-polar coordinate transform.
//
// A Calibration owns the grid center, the nominal scale value, and the
// reference pixel distance that maps to it. The reference is either the
// default (vertical distance from the center to the image bottom edge)
// or a custom one defined by an operator-chosen scale edge point. The
// reference distance is always derived, never stored, so a persisted
// CalibrationState round-trips exactly.
package grid

import (
	"errors"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/scopemark/scopemark/pkg/core"
)

// ErrInvalidScale is returned when a requested scale value is not a
// member of the allowed scale set.
var ErrInvalidScale = errors.New("scale value not in allowed set")

// ErrDegenerateCalibration is returned when a scale edge point
// coincides with the grid center, which would produce a zero reference
// distance.
var ErrDegenerateCalibration = errors.New("scale edge coincides with grid center")

// ScaleValues is the fixed ordered set of allowed scale values. The
// values are unit-less until combined with a real-world unit label.
var ScaleValues = []int{25, 35, 50, 75, 80, 90, 100, 150, 200, 250, 300, 350}

// DefaultScale is the scale value a fresh calibration starts with.
const DefaultScale = 300

// ValidScale reports whether v is a member of ScaleValues.
func ValidScale(v int) bool {
	for _, s := range ScaleValues {
		if s == v {
			return true
		}
	}
	return false
}

// Calibration is the calibration of an azimuthal grid overlaid on one
// image. The zero value is not usable; create one with New or
// FromState. Mutating methods keep the invariant that the reference
// pixel distance is strictly positive.
type Calibration struct {
	size   core.ImageSize
	center core.PixelPoint
	scale  int
	edge   *core.PixelPoint // nil while the default reference is active
}

// New creates a calibration for an image of the given size, centered on
// the image with the default scale and the default bottom-edge
// reference.
func New(size core.ImageSize) Calibration {
	return Calibration{
		size:   size,
		center: size.Center(),
		scale:  DefaultScale,
	}
}

// ImageSize returns the image dimensions the calibration applies to.
func (c Calibration) ImageSize() core.ImageSize { return c.size }

// Center returns the grid center in pixel coordinates.
func (c Calibration) Center() core.PixelPoint { return c.center }

// ScaleValue returns the nominal real-world unit value represented by
// the reference pixel distance.
func (c Calibration) ScaleValue() int { return c.scale }

// ScaleEdge returns the custom scale edge point and whether custom
// calibration is active.
func (c Calibration) ScaleEdge() (core.PixelPoint, bool) {
	if c.edge == nil {
		return core.PixelPoint{}, false
	}
	return *c.edge, true
}

// ReferencePixelDistance returns the pixel distance that maps to
// ScaleValue units. With a custom scale edge this is the Euclidean
// distance from the center to the edge point; otherwise it is the
// vertical distance from the center to the image bottom edge. The
// result is strictly positive for any calibration built through this
// package.
func (c Calibration) ReferencePixelDistance() float64 {
	if c.edge != nil {
		return pixelVector(c.center, *c.edge).Length()
	}
	return float64(c.size.Height - c.center.Y)
}

// MoveCenter translates the grid center by the given pixel offset. The
// result is clamped to the image bounds; the call never fails. If the
// move lands the center exactly on an active scale edge the custom
// reference is dropped in favor of the default, keeping the positive
// reference invariant.
func (c *Calibration) MoveCenter(dx, dy int) {
	c.placeCenter(c.center.X+dx, c.center.Y+dy)
}

// SetCenter moves the grid center to an absolute position, clamped to
// the image bounds. Never fails.
func (c *Calibration) SetCenter(x, y int) {
	c.placeCenter(x, y)
}

func (c *Calibration) placeCenter(x, y int) {
	c.center = c.size.Clamp(core.PixelPoint{X: x, Y: y})
	if c.edge != nil && *c.edge == c.center {
		c.edge = nil
	}
}

// SetScaleValue updates the nominal scale value. Returns
// ErrInvalidScale (leaving the calibration unchanged) if the value is
// not in ScaleValues.
func (c *Calibration) SetScaleValue(v int) error {
	if !ValidScale(v) {
		return ErrInvalidScale
	}
	c.scale = v
	return nil
}

// SetScaleEdge activates custom calibration using the given point as
// the scale edge. The point is clamped to the image bounds first. If
// the clamped point coincides with the center the call fails with
// ErrDegenerateCalibration and the calibration is left unchanged.
func (c *Calibration) SetScaleEdge(x, y int) error {
	p := c.size.Clamp(core.PixelPoint{X: x, Y: y})
	if pixelVector(c.center, p).Length() == 0 {
		return ErrDegenerateCalibration
	}
	c.edge = &p
	return nil
}

// ClearCustomScale reverts to the default bottom-edge reference.
func (c *Calibration) ClearCustomScale() {
	c.edge = nil
}

// Snapshot exports the calibration as a plain key/value state for an
// external settings store.
func (c Calibration) Snapshot() core.CalibrationState {
	st := core.CalibrationState{
		CenterX:    c.center.X,
		CenterY:    c.center.Y,
		ScaleValue: c.scale,
	}
	if c.edge != nil {
		ex, ey := c.edge.X, c.edge.Y
		st.ScaleEdgeX = &ex
		st.ScaleEdgeY = &ey
		st.HasCustomScale = true
	}
	return st
}

// FromState rebuilds a calibration from a persisted state for an image
// of the given size. The center is clamped to the image bounds. An
// out-of-set scale value fails with ErrInvalidScale. A persisted scale
// edge that turns out degenerate after clamping is dropped, retaining
// the default reference, mirroring how a live degenerate edge is
// rejected.
func FromState(st core.CalibrationState, size core.ImageSize) (Calibration, error) {
	if !ValidScale(st.ScaleValue) {
		return Calibration{}, ErrInvalidScale
	}
	c := New(size)
	c.scale = st.ScaleValue
	c.placeCenter(st.CenterX, st.CenterY)
	if st.HasCustomScale && st.ScaleEdgeX != nil && st.ScaleEdgeY != nil {
		// Ignore the error: degenerate persisted edges fall back to default.
		_ = c.SetScaleEdge(*st.ScaleEdgeX, *st.ScaleEdgeY)
	}
	return c, nil
}

// pixelVector returns the vector from a to b in pixel space.
func pixelVector(a, b core.PixelPoint) geom.XY {
	return geom.XY{X: float64(b.X - a.X), Y: float64(b.Y - a.Y)}
}
