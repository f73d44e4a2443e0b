// Package gormstore implements store.Store over a GORM connection,
// serving both the SQLite and Postgres backends.
package gormstore

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/scopemark/scopemark/pkg/core"
)

// Store persists calibrations and records through GORM.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// New creates a store over an open GORM connection.
func New(db *gorm.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log}
}

// Init migrates the schema.
func (s *Store) Init() error {
	if err := s.db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	s.log.Debug().Msg("store schema migrated")
	return nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveCalibration upserts the calibration state for an image path.
func (s *Store) SaveCalibration(imagePath string, st core.CalibrationState) error {
	row := calibrationToRow(imagePath, st)
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "image_path"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"center_x", "center_y", "scale_value",
			"scale_edge_x", "scale_edge_y", "has_custom_scale", "updated_at",
		}),
	}).Create(&row).Error
}

// LoadCalibration returns the persisted calibration for an image path.
func (s *Store) LoadCalibration(imagePath string) (core.CalibrationState, bool, error) {
	var row CalibrationRow
	err := s.db.Where("image_path = ?", imagePath).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.CalibrationState{}, false, nil
	}
	if err != nil {
		return core.CalibrationState{}, false, err
	}
	return rowToCalibration(row), true, nil
}

// DeleteCalibration drops a persisted calibration; absent paths are a
// no-op.
func (s *Store) DeleteCalibration(imagePath string) error {
	return s.db.Where("image_path = ?", imagePath).Delete(&CalibrationRow{}).Error
}

// SaveRecord upserts a captured record keyed by image path.
func (s *Store) SaveRecord(rec core.AnnotationRecord) error {
	row, err := recordToRow(rec)
	if err != nil {
		return fmt.Errorf("failed to encode attributes: %w", err)
	}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "image_path"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"position_x", "position_y", "azimuth_deg", "range_units",
			"attributes", "center_x", "center_y", "scale_value",
			"scale_edge_x", "scale_edge_y", "has_custom_scale", "captured_at",
		}),
	}).Create(&row).Error
}

// DeleteRecord drops a record; absent paths are a no-op.
func (s *Store) DeleteRecord(imagePath string) error {
	return s.db.Where("image_path = ?", imagePath).Delete(&AnnotationRow{}).Error
}

// ListRecords returns all records in first-save order. Upserts preserve
// the row's primary key, so ordering by id matches insertion order.
func (s *Store) ListRecords() ([]core.AnnotationRecord, error) {
	var rows []AnnotationRow
	if err := s.db.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]core.AnnotationRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := rowToRecord(row)
		if err != nil {
			s.log.Warn().Err(err).Str("image", row.ImagePath).Msg("skipping unreadable record")
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// ClearRecords drops all records, keeping calibrations.
func (s *Store) ClearRecords() error {
	return s.db.Where("1 = 1").Delete(&AnnotationRow{}).Error
}
