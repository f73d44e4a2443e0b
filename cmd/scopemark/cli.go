package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/scopemark/scopemark/internal/album"
	"github.com/scopemark/scopemark/internal/dispatcher"
	"github.com/scopemark/scopemark/internal/worker"
)

// marksFile is the batch input format: one entry per image, with
// optional calibration overrides and the marked target point.
type marksFile struct {
	Entries []markEntry `json:"entries"`
}

type markEntry struct {
	Image string `json:"image"`
	Size  string `json:"size"` // "WxH"

	Center string `json:"center,omitempty"` // "x,y"
	Scale  int    `json:"scale,omitempty"`
	Edge   string `json:"edge,omitempty"` // "x,y", custom scale edge

	Point string `json:"point"` // "x,y"

	ID        string `json:"id,omitempty"`
	Height    string `json:"height,omitempty"`
	Obstacles string `json:"obstacles,omitempty"`
	Status    string `json:"status,omitempty"`
}

func loadMarks(path string) (marksFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return marksFile{}, fmt.Errorf("failed to read marks file: %w", err)
	}
	var mf marksFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return marksFile{}, fmt.Errorf("failed to parse marks file: %w", err)
	}
	return mf, nil
}

// processMarks pushes every entry through the dispatcher, then exports
// the album synchronously so the process exits with the report on disk.
func processMarks(
	ctx context.Context,
	d *dispatcher.Dispatcher,
	exporter *worker.Manager,
	batch *album.Batch,
	title, marksPath string,
	pageSize int,
	log *slog.Logger,
) error {
	mf, err := loadMarks(marksPath)
	if err != nil {
		return err
	}
	if len(mf.Entries) == 0 {
		return fmt.Errorf("marks file has no entries")
	}

	for _, entry := range mf.Entries {
		if err := processEntry(d, entry); err != nil {
			log.Error("skipping entry", "image", entry.Image, "error", err)
			continue
		}
	}

	if batch.Len() == 0 {
		return fmt.Errorf("no entries could be processed")
	}

	path, err := exporter.Export(ctx, worker.ExportJob{
		Title:    title,
		Records:  batch.Records(),
		PageSize: pageSize,
	})
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func processEntry(d *dispatcher.Dispatcher, entry markEntry) error {
	steps := []dispatcher.Event{
		{Command: ":IMAGE:LOAD:", Args: []string{entry.Image, entry.Size}},
	}
	if entry.Center != "" {
		steps = append(steps, dispatcher.Event{Command: ":GRID:CENTER:SET:", Args: []string{entry.Center}})
	}
	if entry.Scale != 0 {
		steps = append(steps, dispatcher.Event{Command: ":GRID:SCALE:", Args: []string{fmt.Sprint(entry.Scale)}})
	}
	if entry.Edge != "" {
		steps = append(steps, dispatcher.Event{Command: ":GRID:EDGE:SET:", Args: []string{entry.Edge}})
	}
	steps = append(steps,
		dispatcher.Event{Command: ":POINT:PLACE:", Args: []string{entry.Point}},
		dispatcher.Event{Command: ":ALBUM:ADD:", Args: []string{
			entry.ID, entry.Height, defaultStr(entry.Obstacles, "none"), defaultStr(entry.Status, "detect"),
		}},
	)

	for _, e := range steps {
		if _, err := d.Dispatch(e); err != nil {
			return fmt.Errorf("%s: %w", e.Command, err)
		}
	}
	return nil
}

func defaultStr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
