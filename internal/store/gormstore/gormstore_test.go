package gormstore_test

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/scopemark/scopemark/internal/store"
	"github.com/scopemark/scopemark/internal/store/gormstore"
	"github.com/scopemark/scopemark/pkg/core"
)

// Compile-time interface check
var _ store.Store = (*gormstore.Store)(nil)

func newTestStore(t *testing.T) *gormstore.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	s := gormstore.New(db, zerolog.Nop())
	require.NoError(t, s.Init())
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(path string) core.AnnotationRecord {
	return core.AnnotationRecord{
		ImagePath: path,
		Position:  core.PixelPoint{X: 300, Y: 200},
		Polar:     core.Polar{AzimuthDeg: 90, RangeUnits: 150},
		Attributes: core.TargetAttributes{
			ID:        "T-1",
			Height:    "4500",
			Obstacles: core.ObstaclesNone,
			Status:    core.StatusTrack,
		},
		Calibration: core.CalibrationState{CenterX: 200, CenterY: 200, ScaleValue: 300},
		CapturedAt:  time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}
}

func TestCalibrationRoundTrip(t *testing.T) {
	s := newTestStore(t)

	ex, ey := 210, 260
	st := core.CalibrationState{
		CenterX:        200,
		CenterY:        200,
		ScaleValue:     150,
		ScaleEdgeX:     &ex,
		ScaleEdgeY:     &ey,
		HasCustomScale: true,
	}
	require.NoError(t, s.SaveCalibration("a.png", st))

	got, ok, err := s.LoadCalibration("a.png")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, st, got)
}

func TestLoadCalibrationAbsent(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.LoadCalibration("missing.png")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveCalibrationUpserts(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveCalibration("a.png", core.CalibrationState{CenterX: 10, CenterY: 10, ScaleValue: 100}))
	require.NoError(t, s.SaveCalibration("a.png", core.CalibrationState{CenterX: 20, CenterY: 30, ScaleValue: 250}))

	got, ok, err := s.LoadCalibration("a.png")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 20, got.CenterX)
	assert.Equal(t, 250, got.ScaleValue)

	// Upsert with a cleared edge must null out a previously stored one.
	ex, ey := 15, 15
	require.NoError(t, s.SaveCalibration("b.png", core.CalibrationState{
		CenterX: 5, CenterY: 5, ScaleValue: 100,
		ScaleEdgeX: &ex, ScaleEdgeY: &ey, HasCustomScale: true,
	}))
	require.NoError(t, s.SaveCalibration("b.png", core.CalibrationState{CenterX: 5, CenterY: 5, ScaleValue: 100}))

	got, _, err = s.LoadCalibration("b.png")
	require.NoError(t, err)
	assert.False(t, got.HasCustomScale)
	assert.Nil(t, got.ScaleEdgeX)
}

func TestDeleteCalibration(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveCalibration("a.png", core.CalibrationState{ScaleValue: 100}))
	require.NoError(t, s.DeleteCalibration("a.png"))

	_, ok, err := s.LoadCalibration("a.png")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.DeleteCalibration("a.png"), "deleting an absent calibration is a no-op")
}

func TestRecordRoundTrip(t *testing.T) {
	s := newTestStore(t)

	rec := testRecord("a.png")
	require.NoError(t, s.SaveRecord(rec))

	records, err := s.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec.ImagePath, records[0].ImagePath)
	assert.Equal(t, rec.Position, records[0].Position)
	assert.Equal(t, rec.Polar, records[0].Polar)
	assert.Equal(t, rec.Attributes, records[0].Attributes)
	assert.Equal(t, rec.Calibration, records[0].Calibration)
	assert.True(t, rec.CapturedAt.Equal(records[0].CapturedAt))
}

func TestListRecordsOrder(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveRecord(testRecord("c.png")))
	require.NoError(t, s.SaveRecord(testRecord("a.png")))
	require.NoError(t, s.SaveRecord(testRecord("b.png")))

	// Re-save must keep the original slot.
	updated := testRecord("c.png")
	updated.Attributes.ID = "updated"
	require.NoError(t, s.SaveRecord(updated))

	records, err := s.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "c.png", records[0].ImagePath)
	assert.Equal(t, "updated", records[0].Attributes.ID)
	assert.Equal(t, "a.png", records[1].ImagePath)
	assert.Equal(t, "b.png", records[2].ImagePath)
}

func TestDeleteRecord(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveRecord(testRecord("a.png")))
	require.NoError(t, s.SaveRecord(testRecord("b.png")))
	require.NoError(t, s.DeleteRecord("a.png"))

	records, err := s.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "b.png", records[0].ImagePath)
}

func TestClearRecordsKeepsCalibrations(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveCalibration("a.png", core.CalibrationState{ScaleValue: 100}))
	require.NoError(t, s.SaveRecord(testRecord("a.png")))

	require.NoError(t, s.ClearRecords())

	records, err := s.ListRecords()
	require.NoError(t, err)
	assert.Empty(t, records)

	_, ok, err := s.LoadCalibration("a.png")
	require.NoError(t, err)
	assert.True(t, ok)
}
