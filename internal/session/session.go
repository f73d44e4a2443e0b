// Package session ties a grid calibration to the analysis point marked
// on the current image and keeps the two in sync: every successful
// calibration mutation recomputes the bound point before returning, so
// calibration and derived azimuth/range are never observed stale.
package session

import (
	"errors"
	"log/slog"
	"time"

	"github.com/scopemark/scopemark/internal/grid"
	"github.com/scopemark/scopemark/pkg/core"
)

// ErrMissingAnalysisPoint is returned by Capture when no point has been
// placed on the current image.
var ErrMissingAnalysisPoint = errors.New("no analysis point placed on image")

// ErrInvalidImageSize is returned by New when the image dimensions are
// not positive.
var ErrInvalidImageSize = errors.New("invalid image dimensions")

// AnalysisPoint is a marked target position together with its derived
// bearing and range.
type AnalysisPoint struct {
	Position core.PixelPoint
	Polar    core.Polar
}

// Session is the marking session for one loaded image. It owns the
// calibration; callers mutate the calibration only through the session
// so the recompute contract holds. Sessions are not safe for concurrent
// use; the host drives them from a single UI goroutine.
type Session struct {
	log       *slog.Logger
	imagePath string
	size      core.ImageSize
	cal       grid.Calibration
	point     *AnalysisPoint
}

// New starts a session for a newly loaded image. The size must be that
// of a real image; zero or negative dimensions fail with
// ErrInvalidImageSize. Any previous session's point is gone by
// construction: a new image means a new session.
func New(imagePath string, size core.ImageSize, log *slog.Logger) (*Session, error) {
	if !size.Valid() {
		return nil, ErrInvalidImageSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		log:       log,
		imagePath: imagePath,
		size:      size,
		cal:       grid.New(size),
	}, nil
}

// ImagePath returns the path of the image this session annotates.
func (s *Session) ImagePath() string { return s.imagePath }

// ImageSize returns the dimensions of the loaded image.
func (s *Session) ImageSize() core.ImageSize { return s.size }

// Calibration returns a copy of the current calibration.
func (s *Session) Calibration() grid.Calibration { return s.cal }

// Point returns the current analysis point and whether one is placed.
func (s *Session) Point() (AnalysisPoint, bool) {
	if s.point == nil {
		return AnalysisPoint{}, false
	}
	return *s.point, true
}

// MoveCenter translates the grid center, clamped to image bounds, and
// recomputes the bound point. Never fails.
func (s *Session) MoveCenter(dx, dy int) {
	s.cal.MoveCenter(dx, dy)
	s.mustRecompute()
	s.log.Debug("grid center moved", "center", s.cal.Center())
}

// SetCenter moves the grid center to an absolute clamped position and
// recomputes the bound point. Never fails.
func (s *Session) SetCenter(x, y int) {
	s.cal.SetCenter(x, y)
	s.mustRecompute()
	s.log.Debug("grid center set", "center", s.cal.Center())
}

// SetScaleValue updates the scale value and recomputes the bound point.
// An invalid value fails with grid.ErrInvalidScale and changes nothing.
func (s *Session) SetScaleValue(v int) error {
	if err := s.cal.SetScaleValue(v); err != nil {
		return err
	}
	s.mustRecompute()
	s.log.Debug("scale value set", "scale", v)
	return nil
}

// SetScaleEdge activates custom calibration and recomputes the bound
// point. A degenerate edge fails with grid.ErrDegenerateCalibration,
// leaving both calibration and point untouched.
func (s *Session) SetScaleEdge(x, y int) error {
	if err := s.cal.SetScaleEdge(x, y); err != nil {
		return err
	}
	s.mustRecompute()
	s.log.Debug("scale edge set", "edge", core.PixelPoint{X: x, Y: y})
	return nil
}

// ClearCustomScale reverts to the default reference and recomputes the
// bound point.
func (s *Session) ClearCustomScale() {
	s.cal.ClearCustomScale()
	s.mustRecompute()
	s.log.Debug("custom scale cleared")
}

// RestoreCalibration replaces the calibration from a persisted state
// and recomputes the bound point. Fails with grid.ErrInvalidScale on a
// corrupt state, changing nothing.
func (s *Session) RestoreCalibration(st core.CalibrationState) error {
	cal, err := grid.FromState(st, s.size)
	if err != nil {
		return err
	}
	s.cal = cal
	s.mustRecompute()
	s.log.Debug("calibration restored", "image", s.imagePath)
	return nil
}

// PlacePoint marks the analysis point at the given pixel position,
// clamped to image bounds, and derives its polar coordinates. Placing
// again moves the existing point.
func (s *Session) PlacePoint(x, y int) AnalysisPoint {
	pos := s.size.Clamp(core.PixelPoint{X: x, Y: y})
	polar, err := grid.Compute(pos, s.cal)
	if err != nil {
		// Unreachable while the calibration invariant holds.
		panic(err)
	}
	s.point = &AnalysisPoint{Position: pos, Polar: polar}
	return *s.point
}

// Recompute re-derives the point's polar coordinates against the
// current calibration. It is idempotent: with no calibration change the
// result is bit-identical. No-op when no point is placed.
func (s *Session) Recompute() {
	s.mustRecompute()
}

// ClearPoint removes the analysis point.
func (s *Session) ClearPoint() {
	s.point = nil
}

// Capture freezes the current point, attributes, and calibration into
// an annotation record. Fails with ErrMissingAnalysisPoint when no
// point is placed; nothing is produced in that case.
func (s *Session) Capture(attrs core.TargetAttributes) (core.AnnotationRecord, error) {
	if s.point == nil {
		return core.AnnotationRecord{}, ErrMissingAnalysisPoint
	}
	return core.AnnotationRecord{
		ImagePath:   s.imagePath,
		Position:    s.point.Position,
		Polar:       s.point.Polar,
		Attributes:  attrs,
		Calibration: s.cal.Snapshot(),
		CapturedAt:  time.Now().UTC(),
	}, nil
}

func (s *Session) mustRecompute() {
	if s.point == nil {
		return
	}
	polar, err := grid.Compute(s.point.Position, s.cal)
	if err != nil {
		panic(err)
	}
	s.point.Polar = polar
}
