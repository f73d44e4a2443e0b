// Package store persists per-image calibrations and captured
// annotation records behind a backend-neutral interface.
package store

import "github.com/scopemark/scopemark/pkg/core"

// Store is the interface all persistence backends satisfy. Lookups use
// (value, found) returns; errors are reserved for real backend
// failures. Writes either fully apply or leave the store unchanged.
type Store interface {
	// Lifecycle
	Init() error
	Close() error

	// Per-image calibration persistence
	SaveCalibration(imagePath string, st core.CalibrationState) error
	LoadCalibration(imagePath string) (core.CalibrationState, bool, error)
	DeleteCalibration(imagePath string) error

	// Captured annotation records, one per image path
	SaveRecord(rec core.AnnotationRecord) error
	DeleteRecord(imagePath string) error
	ListRecords() ([]core.AnnotationRecord, error)
	ClearRecords() error
}
