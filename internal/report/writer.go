package report

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scopemark/scopemark/internal/geo"
	"github.com/scopemark/scopemark/pkg/core"
)

// Writer consumes a paginated report. Implementations must commit only
// on full completion: cancellation or failure part-way through must not
// leave a partial document visible.
type Writer interface {
	WriteReport(ctx context.Context, title string, pages []Page) (path string, err error)
}

// JSONWriter writes the logical report document as (optionally gzipped)
// JSON. Byte-level Word/OOXML serialization is a downstream concern;
// this document carries everything such a writer needs: page grouping,
// cell geometry, and formatted field strings.
type JSONWriter struct {
	OutputDir string
	Compress  bool
	UnitLabel string

	// Site enables geo-referencing: when set, every record also carries
	// the target's projected geographic position.
	Site          *geo.Site
	MetersPerUnit float64
}

// Document is the root JSON structure of an exported report.
type Document struct {
	Title       string     `json:"title"`
	UnitLabel   string     `json:"unitLabel,omitempty"`
	GeneratedAt time.Time  `json:"generatedAt"`
	Pages       []PageJSON `json:"pages"`
}

// PageJSON is one page with per-record formatted fields resolved.
type PageJSON struct {
	Index   int          `json:"index"`
	Layout  PageLayout   `json:"layout"`
	Records []RecordJSON `json:"records"`
}

// RecordJSON pairs the captured record with its display fields and,
// when geo-referencing is enabled, the target's geographic position.
type RecordJSON struct {
	Record core.AnnotationRecord `json:"record"`
	Fields Fields                `json:"fields"`
	Target *GeoFix               `json:"target,omitempty"`
}

// GeoFix is a projected target position. WKT3857 carries the same
// point in EPSG:3857 well-known text for mapping consumers.
type GeoFix struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	WKT3857   string  `json:"wkt3857"`
}

var _ Writer = (*JSONWriter)(nil)

// WriteReport serializes the pages and atomically publishes the file:
// output is staged in a temp file and renamed into place only after the
// whole document is written. Cancellation is honored between pages.
func (w *JSONWriter) WriteReport(ctx context.Context, title string, pages []Page) (string, error) {
	doc := Document{
		Title:       title,
		UnitLabel:   w.UnitLabel,
		GeneratedAt: time.Now().UTC(),
		Pages:       make([]PageJSON, 0, len(pages)),
	}
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("report cancelled at page %d: %w", p.Index, err)
		}
		pj := PageJSON{
			Index:   p.Index,
			Layout:  p.Layout,
			Records: make([]RecordJSON, 0, len(p.Records)),
		}
		for _, rec := range p.Records {
			rj := RecordJSON{
				Record: rec,
				Fields: FieldsFor(rec, w.UnitLabel),
			}
			if w.Site != nil {
				pos := geo.TargetPosition(*w.Site, rec.Polar, w.MetersPerUnit)
				rj.Target = &GeoFix{
					Longitude: pos.Longitude,
					Latitude:  pos.Latitude,
					WKT3857:   geo.TargetPoint3857(*w.Site, rec.Polar, w.MetersPerUnit).AsText(),
				}
			}
			pj.Records = append(pj.Records, rj)
		}
		doc.Pages = append(doc.Pages, pj)
	}

	if err := os.MkdirAll(w.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := reportFilename(title, doc.GeneratedAt, w.Compress)
	outputPath := filepath.Join(w.OutputDir, filename)

	tmp, err := os.CreateTemp(w.OutputDir, filename+".tmp*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeDocument(tmp, doc, w.Compress); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("report cancelled before commit: %w", err)
	}
	if err := os.Rename(tmp.Name(), outputPath); err != nil {
		return "", fmt.Errorf("failed to publish report: %w", err)
	}
	return outputPath, nil
}

func writeDocument(f *os.File, doc Document, compress bool) error {
	if compress {
		gz := gzip.NewWriter(f)
		if err := json.NewEncoder(gz).Encode(doc); err != nil {
			gz.Close()
			return fmt.Errorf("failed to encode report: %w", err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("failed to finish gzip stream: %w", err)
		}
		return nil
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func reportFilename(title string, at time.Time, compress bool) string {
	name := strings.ReplaceAll(title, " ", "_")
	name = strings.ReplaceAll(name, ":", "_")
	if name == "" {
		name = "report"
	}
	stamp := at.Format("20060102_150405")
	if compress {
		return fmt.Sprintf("%s_%s.json.gz", name, stamp)
	}
	return fmt.Sprintf("%s_%s.json", name, stamp)
}
