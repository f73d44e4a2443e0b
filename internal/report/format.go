package report

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/scopemark/scopemark/pkg/core"
)

// Fields are the formatted strings a document writer places into a
// record's data zone. All numeric formatting happens here so every
// writer renders identical values.
type Fields struct {
	Label     string `json:"label"`
	TargetID  string `json:"targetId"`
	Azimuth   string `json:"azimuth"`
	Range     string `json:"range"`
	Height    string `json:"height"`
	Obstacles string `json:"obstacles"`
	Status    string `json:"status"`
	Scale     string `json:"scale"`
}

// FormatAzimuth renders a bearing as whole degrees with the degree sign.
func FormatAzimuth(azimuthDeg float64) string {
	return fmt.Sprintf("%.0f°", azimuthDeg)
}

// FormatRange renders a range with one decimal place.
func FormatRange(rangeUnits float64) string {
	return fmt.Sprintf("%.1f", rangeUnits)
}

// FormatScale renders a scale value with the externally supplied unit
// label; with an empty label the bare value is returned.
func FormatScale(scaleValue int, unitLabel string) string {
	if unitLabel == "" {
		return strconv.Itoa(scaleValue)
	}
	return strconv.Itoa(scaleValue) + " " + unitLabel
}

// FieldsFor builds the formatted field strings for one record.
func FieldsFor(rec core.AnnotationRecord, unitLabel string) Fields {
	label := filepath.Base(rec.ImagePath)
	if rec.Attributes.ID != "" {
		label = fmt.Sprintf("%s (%s)", rec.Attributes.ID, label)
	}
	return Fields{
		Label:     label,
		TargetID:  rec.Attributes.ID,
		Azimuth:   FormatAzimuth(rec.Polar.AzimuthDeg),
		Range:     FormatRange(rec.Polar.RangeUnits),
		Height:    rec.Attributes.Height,
		Obstacles: rec.Attributes.Obstacles.Label(),
		Status:    rec.Attributes.Status.Label(),
		Scale:     FormatScale(rec.Calibration.ScaleValue, unitLabel),
	}
}
