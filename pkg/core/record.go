package core

import "time"

// AnnotationRecord is one processed image's full annotation, frozen at
// capture time. Records are deep snapshots: later edits to the live
// calibration or point must never alter a captured record.
type AnnotationRecord struct {
	ImagePath   string           `json:"imagePath"`
	Position    PixelPoint       `json:"position"`
	Polar       Polar            `json:"polar"`
	Attributes  TargetAttributes `json:"attributes"`
	Calibration CalibrationState `json:"calibration"`
	CapturedAt  time.Time        `json:"capturedAt"`
}

// ReportMetadata describes a finished report file for upload to a
// review server.
type ReportMetadata struct {
	Title       string  `json:"title"`
	Operator    string  `json:"operator"`
	RecordCount int     `json:"recordCount"`
	PageCount   int     `json:"pageCount"`
	DurationSec float64 `json:"durationSec"`
}
