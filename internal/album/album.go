// Package album accumulates captured annotation records into the
// ordered, path-deduplicated batch a report is built from.
package album

import (
	"sync"

	"github.com/scopemark/scopemark/pkg/core"
)

// Batch is an ordered collection of annotation records with at most one
// record per image path. Iteration order always equals first-insertion
// order, even across updates. The mutex exists so a background export
// can snapshot the batch while the UI keeps mutating it; individual
// operations are atomic and never partially apply.
type Batch struct {
	mu      sync.RWMutex
	records []core.AnnotationRecord
	index   map[string]int // image path -> slot in records
}

// NewBatch creates an empty batch.
func NewBatch() *Batch {
	return &Batch{
		index: make(map[string]int),
	}
}

// Upsert adds a record, or replaces the existing record for the same
// image path in place, preserving its position in the sequence.
func (b *Batch) Upsert(rec core.AnnotationRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i, ok := b.index[rec.ImagePath]; ok {
		b.records[i] = rec
		return
	}
	b.index[rec.ImagePath] = len(b.records)
	b.records = append(b.records, rec)
}

// Get returns the record for an image path and whether it exists.
func (b *Batch) Get(imagePath string) (core.AnnotationRecord, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if i, ok := b.index[imagePath]; ok {
		return b.records[i], true
	}
	return core.AnnotationRecord{}, false
}

// Remove drops the record for an image path if present and reports
// whether one was removed. Removing an absent path is a no-op.
func (b *Batch) Remove(imagePath string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	i, ok := b.index[imagePath]
	if !ok {
		return false
	}
	b.records = append(b.records[:i], b.records[i+1:]...)
	delete(b.index, imagePath)
	for path, j := range b.index {
		if j > i {
			b.index[path] = j - 1
		}
	}
	return true
}

// Clear drops all records.
func (b *Batch) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.records = nil
	b.index = make(map[string]int)
}

// Len returns the number of records in the batch.
func (b *Batch) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}

// Records returns a value snapshot of the batch in insertion order.
// The snapshot is independent of the live batch, so it can be handed to
// a background export while the UI continues mutating.
func (b *Batch) Records() []core.AnnotationRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]core.AnnotationRecord, len(b.records))
	copy(out, b.records)
	return out
}
