package gormstore

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/scopemark/scopemark/pkg/core"
)

// CalibrationRow is the persisted per-image calibration.
type CalibrationRow struct {
	ID             uint   `gorm:"primarykey"`
	ImagePath      string `gorm:"uniqueIndex;size:1024"`
	CenterX        int
	CenterY        int
	ScaleValue     int
	ScaleEdgeX     *int
	ScaleEdgeY     *int
	HasCustomScale bool
	UpdatedAt      time.Time
}

// AnnotationRow is a captured annotation record. Target attributes are
// a JSON column: they are operator transcription fields the database
// never filters on.
type AnnotationRow struct {
	ID         uint   `gorm:"primarykey"`
	ImagePath  string `gorm:"uniqueIndex;size:1024"`
	PositionX  int
	PositionY  int
	AzimuthDeg float64
	RangeUnits float64
	Attributes datatypes.JSON

	CenterX        int
	CenterY        int
	ScaleValue     int
	ScaleEdgeX     *int
	ScaleEdgeY     *int
	HasCustomScale bool

	CapturedAt time.Time
}

// Models lists every table the store migrates.
var Models = []any{
	&CalibrationRow{},
	&AnnotationRow{},
}

func calibrationToRow(imagePath string, st core.CalibrationState) CalibrationRow {
	return CalibrationRow{
		ImagePath:      imagePath,
		CenterX:        st.CenterX,
		CenterY:        st.CenterY,
		ScaleValue:     st.ScaleValue,
		ScaleEdgeX:     st.ScaleEdgeX,
		ScaleEdgeY:     st.ScaleEdgeY,
		HasCustomScale: st.HasCustomScale,
	}
}

func rowToCalibration(row CalibrationRow) core.CalibrationState {
	return core.CalibrationState{
		CenterX:        row.CenterX,
		CenterY:        row.CenterY,
		ScaleValue:     row.ScaleValue,
		ScaleEdgeX:     row.ScaleEdgeX,
		ScaleEdgeY:     row.ScaleEdgeY,
		HasCustomScale: row.HasCustomScale,
	}
}

func recordToRow(rec core.AnnotationRecord) (AnnotationRow, error) {
	attrs, err := json.Marshal(rec.Attributes)
	if err != nil {
		return AnnotationRow{}, err
	}
	return AnnotationRow{
		ImagePath:      rec.ImagePath,
		PositionX:      rec.Position.X,
		PositionY:      rec.Position.Y,
		AzimuthDeg:     rec.Polar.AzimuthDeg,
		RangeUnits:     rec.Polar.RangeUnits,
		Attributes:     datatypes.JSON(attrs),
		CenterX:        rec.Calibration.CenterX,
		CenterY:        rec.Calibration.CenterY,
		ScaleValue:     rec.Calibration.ScaleValue,
		ScaleEdgeX:     rec.Calibration.ScaleEdgeX,
		ScaleEdgeY:     rec.Calibration.ScaleEdgeY,
		HasCustomScale: rec.Calibration.HasCustomScale,
		CapturedAt:     rec.CapturedAt,
	}, nil
}

func rowToRecord(row AnnotationRow) (core.AnnotationRecord, error) {
	var attrs core.TargetAttributes
	if len(row.Attributes) > 0 {
		if err := json.Unmarshal(row.Attributes, &attrs); err != nil {
			return core.AnnotationRecord{}, err
		}
	}
	return core.AnnotationRecord{
		ImagePath:  row.ImagePath,
		Position:   core.PixelPoint{X: row.PositionX, Y: row.PositionY},
		Polar:      core.Polar{AzimuthDeg: row.AzimuthDeg, RangeUnits: row.RangeUnits},
		Attributes: attrs,
		Calibration: core.CalibrationState{
			CenterX:        row.CenterX,
			CenterY:        row.CenterY,
			ScaleValue:     row.ScaleValue,
			ScaleEdgeX:     row.ScaleEdgeX,
			ScaleEdgeY:     row.ScaleEdgeY,
			HasCustomScale: row.HasCustomScale,
		},
		CapturedAt: row.CapturedAt,
	}, nil
}
