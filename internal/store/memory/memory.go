// Package memory implements store.Store entirely in memory. It is the
// default backend: a scratch session that never touches disk.
package memory

import (
	"sync"

	"github.com/scopemark/scopemark/pkg/core"
)

// Store keeps calibrations and records in maps, with records also held
// in an ordered slice so ListRecords preserves first-save order.
type Store struct {
	mu           sync.RWMutex
	calibrations map[string]core.CalibrationState
	order        []string
	records      map[string]core.AnnotationRecord
}

// New creates an empty memory store.
func New() *Store {
	return &Store{
		calibrations: make(map[string]core.CalibrationState),
		records:      make(map[string]core.AnnotationRecord),
	}
}

// Init is a no-op for the memory backend.
func (s *Store) Init() error { return nil }

// Close is a no-op for the memory backend.
func (s *Store) Close() error { return nil }

// SaveCalibration stores the calibration state for an image path.
func (s *Store) SaveCalibration(imagePath string, st core.CalibrationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calibrations[imagePath] = st
	return nil
}

// LoadCalibration returns the persisted calibration for an image path.
func (s *Store) LoadCalibration(imagePath string) (core.CalibrationState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.calibrations[imagePath]
	return st, ok, nil
}

// DeleteCalibration drops a persisted calibration; absent paths are a
// no-op.
func (s *Store) DeleteCalibration(imagePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.calibrations, imagePath)
	return nil
}

// SaveRecord stores a record, replacing any existing record for the
// same image path while keeping its original list position.
func (s *Store) SaveRecord(rec core.AnnotationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ImagePath]; !ok {
		s.order = append(s.order, rec.ImagePath)
	}
	s.records[rec.ImagePath] = rec
	return nil
}

// DeleteRecord drops a record; absent paths are a no-op.
func (s *Store) DeleteRecord(imagePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[imagePath]; !ok {
		return nil
	}
	delete(s.records, imagePath)
	for i, p := range s.order {
		if p == imagePath {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListRecords returns all records in first-save order.
func (s *Store) ListRecords() ([]core.AnnotationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.AnnotationRecord, 0, len(s.order))
	for _, p := range s.order {
		out = append(out, s.records[p])
	}
	return out, nil
}

// ClearRecords drops all records, keeping calibrations.
func (s *Store) ClearRecords() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]core.AnnotationRecord)
	s.order = nil
	return nil
}
