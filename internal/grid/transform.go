package grid

import (
	"math"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/scopemark/scopemark/pkg/core"
)

// Compute maps a pixel position through a calibration into a compass
// bearing and a scaled range. It is a pure function of its inputs.
//
// The image Y axis grows downward, so the vertical delta is inverted to
// make "up" positive. The bearing uses atan2(dx, dy) - the arguments
// are deliberately swapped relative to the mathematical convention so
// that 0 degrees points at grid-north (image "up") and angles increase
// clockwise. A point exactly on the center yields range 0 and azimuth 0
// (atan2(0,0) == 0); that is defined behavior, not an error.
//
// The calibration invariant guarantees a positive reference distance;
// Compute still checks it and reports ErrDegenerateCalibration rather
// than divide by zero.
func Compute(p core.PixelPoint, cal Calibration) (core.Polar, error) {
	ref := cal.ReferencePixelDistance()
	if ref <= 0 {
		return core.Polar{}, ErrDegenerateCalibration
	}

	center := cal.Center()
	d := geom.XY{
		X: float64(p.X - center.X),
		Y: float64(center.Y - p.Y),
	}

	az := math.Atan2(d.X, d.Y) * 180 / math.Pi
	if az < 0 {
		az += 360
	}

	return core.Polar{
		AzimuthDeg: az,
		RangeUnits: d.Length() / ref * float64(cal.ScaleValue()),
	}, nil
}
