// Package handlers binds front-end commands to the annotation engine:
// one marking session at a time, an album batch, the persistence store,
// and the export worker.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/scopemark/scopemark/internal/album"
	"github.com/scopemark/scopemark/internal/dispatcher"
	"github.com/scopemark/scopemark/internal/metrics"
	"github.com/scopemark/scopemark/internal/session"
	"github.com/scopemark/scopemark/internal/store"
	"github.com/scopemark/scopemark/internal/util"
	"github.com/scopemark/scopemark/internal/worker"
	"github.com/scopemark/scopemark/pkg/core"
)

// ErrNoImageLoaded is returned for grid/point/capture commands issued
// before an image has been loaded.
var ErrNoImageLoaded = errors.New("no image loaded")

// Dependencies holds everything the handler service needs. Metrics may
// be nil.
type Dependencies struct {
	Store    store.Store
	Batch    *album.Batch
	Exporter *worker.Manager
	Metrics  *metrics.Manager
	Log      *slog.Logger
	PageSize int
}

// Service processes front-end commands against the current session.
type Service struct {
	deps    Dependencies
	current *session.Session
}

// NewService creates the handler service.
func NewService(deps Dependencies) *Service {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	return &Service{deps: deps}
}

// Session returns the current marking session, or nil before the first
// image load.
func (s *Service) Session() *session.Session {
	return s.current
}

// RegisterHandlers registers all command handlers with the dispatcher.
// Grid and point commands stay synchronous: the UI needs the recomputed
// values before it repaints.
func (s *Service) RegisterHandlers(d *dispatcher.Dispatcher) {
	d.Register(":IMAGE:LOAD:", s.handleImageLoad, dispatcher.Logged())

	d.Register(":GRID:CENTER:MOVE:", s.handleCenterMove)
	d.Register(":GRID:CENTER:SET:", s.handleCenterSet)
	d.Register(":GRID:SCALE:", s.handleScale, dispatcher.Logged())
	d.Register(":GRID:EDGE:SET:", s.handleEdgeSet, dispatcher.Logged())
	d.Register(":GRID:EDGE:CLEAR:", s.handleEdgeClear, dispatcher.Logged())

	d.Register(":POINT:PLACE:", s.handlePointPlace)
	d.Register(":POINT:CLEAR:", s.handlePointClear)

	d.Register(":ALBUM:ADD:", s.handleAlbumAdd, dispatcher.Logged())
	d.Register(":ALBUM:REMOVE:", s.handleAlbumRemove, dispatcher.Logged())
	d.Register(":ALBUM:CLEAR:", s.handleAlbumClear, dispatcher.Logged())

	d.Register(":REPORT:EXPORT:", s.handleReportExport, dispatcher.Logged())
}

// handleImageLoad starts a session for a new image. Args: path, "WxH".
// A calibration persisted for the image is restored; otherwise the
// default calibration applies. Any previous session's point is gone.
func (s *Service) handleImageLoad(e dispatcher.Event) (any, error) {
	if len(e.Args) != 2 {
		return nil, fmt.Errorf("IMAGE:LOAD expects [path, WxH], got %d args", len(e.Args))
	}
	w, h, err := util.ParseSize(e.Args[1])
	if err != nil {
		return nil, err
	}
	size := core.ImageSize{Width: w, Height: h}
	sess, err := session.New(e.Args[0], size, s.deps.Log)
	if err != nil {
		return nil, fmt.Errorf("invalid image size %dx%d: %w", w, h, err)
	}
	if st, ok, err := s.deps.Store.LoadCalibration(e.Args[0]); err != nil {
		s.deps.Log.Warn("failed to load persisted calibration", "image", e.Args[0], "error", err)
	} else if ok {
		if err := sess.RestoreCalibration(st); err != nil {
			s.deps.Log.Warn("persisted calibration rejected", "image", e.Args[0], "error", err)
		}
	}
	s.current = sess
	return sess.Calibration().Snapshot(), nil
}

func (s *Service) handleCenterMove(e dispatcher.Event) (any, error) {
	if s.current == nil {
		return nil, ErrNoImageLoaded
	}
	if len(e.Args) != 1 {
		return nil, fmt.Errorf("GRID:CENTER:MOVE expects [dx,dy]")
	}
	dx, dy, err := util.ParsePixelPair(e.Args[0])
	if err != nil {
		return nil, err
	}
	s.current.MoveCenter(dx, dy)
	return s.current.Calibration().Snapshot(), nil
}

func (s *Service) handleCenterSet(e dispatcher.Event) (any, error) {
	if s.current == nil {
		return nil, ErrNoImageLoaded
	}
	if len(e.Args) != 1 {
		return nil, fmt.Errorf("GRID:CENTER:SET expects [x,y]")
	}
	x, y, err := util.ParsePixelPair(e.Args[0])
	if err != nil {
		return nil, err
	}
	s.current.SetCenter(x, y)
	return s.current.Calibration().Snapshot(), nil
}

func (s *Service) handleScale(e dispatcher.Event) (any, error) {
	if s.current == nil {
		return nil, ErrNoImageLoaded
	}
	if len(e.Args) != 1 {
		return nil, fmt.Errorf("GRID:SCALE expects [value]")
	}
	v, err := strconv.Atoi(e.Args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid scale value %q: %w", e.Args[0], err)
	}
	if err := s.current.SetScaleValue(v); err != nil {
		return nil, err
	}
	return s.current.Calibration().Snapshot(), nil
}

func (s *Service) handleEdgeSet(e dispatcher.Event) (any, error) {
	if s.current == nil {
		return nil, ErrNoImageLoaded
	}
	if len(e.Args) != 1 {
		return nil, fmt.Errorf("GRID:EDGE:SET expects [x,y]")
	}
	x, y, err := util.ParsePixelPair(e.Args[0])
	if err != nil {
		return nil, err
	}
	if err := s.current.SetScaleEdge(x, y); err != nil {
		return nil, err
	}
	return s.current.Calibration().Snapshot(), nil
}

func (s *Service) handleEdgeClear(e dispatcher.Event) (any, error) {
	if s.current == nil {
		return nil, ErrNoImageLoaded
	}
	s.current.ClearCustomScale()
	return s.current.Calibration().Snapshot(), nil
}

func (s *Service) handlePointPlace(e dispatcher.Event) (any, error) {
	if s.current == nil {
		return nil, ErrNoImageLoaded
	}
	if len(e.Args) != 1 {
		return nil, fmt.Errorf("POINT:PLACE expects [x,y]")
	}
	x, y, err := util.ParsePixelPair(e.Args[0])
	if err != nil {
		return nil, err
	}
	return s.current.PlacePoint(x, y), nil
}

func (s *Service) handlePointClear(e dispatcher.Event) (any, error) {
	if s.current == nil {
		return nil, ErrNoImageLoaded
	}
	s.current.ClearPoint()
	return nil, nil
}

// handleAlbumAdd captures the current image into the album. Args: id,
// height, obstacles, status. The captured record and the session's
// calibration are also persisted to the store.
func (s *Service) handleAlbumAdd(e dispatcher.Event) (any, error) {
	if s.current == nil {
		return nil, ErrNoImageLoaded
	}
	if len(e.Args) != 4 {
		return nil, fmt.Errorf("ALBUM:ADD expects [id, height, obstacles, status], got %d args", len(e.Args))
	}
	attrs := core.TargetAttributes{
		ID:        e.Args[0],
		Height:    e.Args[1],
		Obstacles: core.Obstacles(e.Args[2]),
		Status:    core.TrackStatus(e.Args[3]),
	}

	rec, err := s.current.Capture(attrs)
	if err != nil {
		return nil, err
	}

	s.deps.Batch.Upsert(rec)
	if err := s.deps.Store.SaveRecord(rec); err != nil {
		s.deps.Log.Warn("failed to persist record", "image", rec.ImagePath, "error", err)
	}
	if err := s.deps.Store.SaveCalibration(rec.ImagePath, rec.Calibration); err != nil {
		s.deps.Log.Warn("failed to persist calibration", "image", rec.ImagePath, "error", err)
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordCapture(rec)
	}
	return rec, nil
}

func (s *Service) handleAlbumRemove(e dispatcher.Event) (any, error) {
	if len(e.Args) != 1 {
		return nil, fmt.Errorf("ALBUM:REMOVE expects [path]")
	}
	removed := s.deps.Batch.Remove(e.Args[0])
	if err := s.deps.Store.DeleteRecord(e.Args[0]); err != nil {
		s.deps.Log.Warn("failed to delete persisted record", "image", e.Args[0], "error", err)
	}
	return removed, nil
}

func (s *Service) handleAlbumClear(e dispatcher.Event) (any, error) {
	s.deps.Batch.Clear()
	if err := s.deps.Store.ClearRecords(); err != nil {
		s.deps.Log.Warn("failed to clear persisted records", "error", err)
	}
	return nil, nil
}

// handleReportExport snapshots the batch and queues a background
// export. Args: title.
func (s *Service) handleReportExport(e dispatcher.Event) (any, error) {
	if len(e.Args) != 1 {
		return nil, fmt.Errorf("REPORT:EXPORT expects [title]")
	}
	records := s.deps.Batch.Records()
	if len(records) == 0 {
		return nil, errors.New("album is empty")
	}
	s.deps.Exporter.Submit(worker.ExportJob{
		Title:    e.Args[0],
		Records:  records,
		PageSize: s.deps.PageSize,
	})
	return "queued", nil
}
