// Package core contains the shared value types of the scopemark engine.
// Everything here is a plain value: snapshots passed across package
// boundaries, never live references into mutable state.
package core

// PixelPoint is a position in image pixel space. Y grows downward, as
// in raster images.
type PixelPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ImageSize is the dimensions of a loaded raster image. The engine
// never touches pixel data, only dimensions and coordinates.
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether p lies within [0,Width)x[0,Height).
func (s ImageSize) Contains(p PixelPoint) bool {
	return p.X >= 0 && p.X < s.Width && p.Y >= 0 && p.Y < s.Height
}

// Clamp returns p moved to the nearest in-bounds coordinate.
func (s ImageSize) Clamp(p PixelPoint) PixelPoint {
	if p.X < 0 {
		p.X = 0
	} else if p.X > s.Width-1 {
		p.X = s.Width - 1
	}
	if p.Y < 0 {
		p.Y = 0
	} else if p.Y > s.Height-1 {
		p.Y = s.Height - 1
	}
	return p
}

// Center returns the center pixel of the image.
func (s ImageSize) Center() PixelPoint {
	return PixelPoint{X: s.Width / 2, Y: s.Height / 2}
}

// Valid reports whether both dimensions are positive.
func (s ImageSize) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Polar is a derived bearing/distance pair. AzimuthDeg is a compass
// bearing in [0,360): 0 = grid-north (image "up"), increasing
// clockwise. RangeUnits is expressed in the calibration's scale units.
type Polar struct {
	AzimuthDeg float64 `json:"azimuthDeg"`
	RangeUnits float64 `json:"rangeUnits"`
}

// CalibrationState is the persisted key/value form of a grid
// calibration, suitable for an external settings store. The reference
// pixel distance is intentionally absent: it is always derivable from
// the center, the image, and the optional scale edge.
type CalibrationState struct {
	CenterX        int  `json:"center_x"`
	CenterY        int  `json:"center_y"`
	ScaleValue     int  `json:"scale_value"`
	ScaleEdgeX     *int `json:"scale_edge_x,omitempty"`
	ScaleEdgeY     *int `json:"scale_edge_y,omitempty"`
	HasCustomScale bool `json:"has_custom_scale"`
}
