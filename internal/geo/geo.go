// Package geo anchors an annotated scope image to the real world: given
// the radar site's WGS84 position and a target's computed bearing and
// range, it derives the target's geographic position.
//
// Offsets are applied in EPSG:3857 (meters) and converted back to
// EPSG:4326. Good enough at the ranges a scope annotation covers; the
// report carries the result as supplementary data only.
package geo

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"

	"github.com/scopemark/scopemark/pkg/core"
)

// ErrInvalidCoordinates is returned when a site coordinate string
// cannot be parsed.
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// Site is the geographic position of the radar site in EPSG:4326.
type Site struct {
	Longitude float64
	Latitude  float64
}

// SiteFromString parses a "long,lat" string into a Site.
func SiteFromString(coords string) (Site, error) {
	parts := strings.Split(coords, ",")
	if len(parts) != 2 {
		return Site{}, ErrInvalidCoordinates
	}
	long, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Site{}, ErrInvalidCoordinates
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Site{}, ErrInvalidCoordinates
	}
	return Site{Longitude: long, Latitude: lat}, nil
}

// TargetPosition projects a polar fix from the site into a geographic
// position. metersPerUnit converts the calibration's scale units into
// meters; a non-positive value is an error by construction and yields
// the site itself.
func TargetPosition(site Site, polar core.Polar, metersPerUnit float64) Site {
	if metersPerUnit <= 0 {
		return site
	}
	epsg := wgs84.EPSG()

	toMerc := epsg.Transform(4326, 3857)
	x, y, _ := toMerc(site.Longitude, site.Latitude, 0)

	azRad := polar.AzimuthDeg * math.Pi / 180
	dist := polar.RangeUnits * metersPerUnit
	x += dist * math.Sin(azRad)
	y += dist * math.Cos(azRad)

	toGeo := epsg.Transform(3857, 4326)
	long, lat, _ := toGeo(x, y, 0)
	return Site{Longitude: long, Latitude: lat}
}

// TargetPoint3857 returns the target's projected position as a 3857
// point, the form the report document embeds for mapping consumers.
func TargetPoint3857(site Site, polar core.Polar, metersPerUnit float64) geom.Point {
	epsg := wgs84.EPSG()
	toMerc := epsg.Transform(4326, 3857)
	x, y, _ := toMerc(site.Longitude, site.Latitude, 0)

	if metersPerUnit > 0 {
		azRad := polar.AzimuthDeg * math.Pi / 180
		dist := polar.RangeUnits * metersPerUnit
		x += dist * math.Sin(azRad)
		y += dist * math.Cos(azRad)
	}

	return geom.XY{X: x, Y: y}.AsPoint()
}
