// Package worker runs report exports off the UI goroutine. A job
// carries a value snapshot of the album batch, so the UI can keep
// mutating the live batch while the export runs.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/scopemark/scopemark/internal/metrics"
	"github.com/scopemark/scopemark/internal/queue"
	"github.com/scopemark/scopemark/internal/report"
	"github.com/scopemark/scopemark/pkg/core"
)

// ExportJob is one report export request. Records must be a snapshot,
// never a live reference into a mutable batch.
type ExportJob struct {
	Title    string
	Records  []core.AnnotationRecord
	PageSize int
}

// Uploader is the optional post-export upload hook.
type Uploader interface {
	Upload(path string, meta core.ReportMetadata) error
}

// Dependencies holds everything the export manager needs. Metrics and
// Uploader may be nil.
type Dependencies struct {
	Writer   report.Writer
	Metrics  *metrics.Manager
	Uploader Uploader
	Log      *slog.Logger
}

// Manager queues and executes export jobs.
type Manager struct {
	deps Dependencies
	jobs *queue.Queue[ExportJob]
	wake chan struct{}
}

// NewManager creates an export manager.
func NewManager(deps Dependencies) *Manager {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	return &Manager{
		deps: deps,
		jobs: queue.New[ExportJob](),
		wake: make(chan struct{}, 1),
	}
}

// Pending returns the number of queued jobs.
func (m *Manager) Pending() int {
	return m.jobs.Len()
}

// Submit enqueues a job for the background loop.
func (m *Manager) Submit(job ExportJob) {
	m.jobs.Push(job)
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Run processes queued jobs until ctx is cancelled. A cancelled job is
// abandoned without publishing partial output; that guarantee comes
// from the Writer contract.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.wake:
		}
		for {
			job, ok := m.jobs.Pop()
			if !ok {
				break
			}
			if _, err := m.Export(ctx, job); err != nil {
				m.deps.Log.Error("report export failed", "title", job.Title, "error", err)
			}
		}
	}
}

// Export runs one job synchronously and returns the published report
// path. The CLI uses this directly; Run uses it per queued job.
func (m *Manager) Export(ctx context.Context, job ExportJob) (string, error) {
	start := time.Now()
	pages := report.Paginate(job.Records, job.PageSize)

	path, err := m.deps.Writer.WriteReport(ctx, job.Title, pages)
	if err != nil {
		return "", err
	}

	elapsed := time.Since(start)
	m.deps.Log.Info("report exported",
		"title", job.Title, "path", path,
		"pages", len(pages), "records", len(job.Records),
		"duration", elapsed)

	if m.deps.Metrics != nil {
		m.deps.Metrics.RecordExport(len(pages), len(job.Records), elapsed)
	}

	if m.deps.Uploader != nil {
		meta := core.ReportMetadata{
			Title:       job.Title,
			RecordCount: len(job.Records),
			PageCount:   len(pages),
			DurationSec: elapsed.Seconds(),
		}
		if err := m.deps.Uploader.Upload(path, meta); err != nil {
			// Upload is best effort; the report is already on disk.
			m.deps.Log.Warn("report upload failed", "path", path, "error", err)
		}
	}

	return path, nil
}
