package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scopemark/scopemark/pkg/core"
)

func TestComputeCardinalDirections(t *testing.T) {
	// Center (200,200) on a 400x400 image, default reference 200 px,
	// default scale 300. A point 100 px out reads 150 units.
	c := New(core.ImageSize{Width: 400, Height: 400})

	tests := []struct {
		name    string
		point   core.PixelPoint
		azimuth float64
	}{
		{"north", core.PixelPoint{X: 200, Y: 100}, 0},
		{"east", core.PixelPoint{X: 300, Y: 200}, 90},
		{"south", core.PixelPoint{X: 200, Y: 300}, 180},
		{"west", core.PixelPoint{X: 100, Y: 200}, 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			polar, err := Compute(tt.point, c)
			require.NoError(t, err)
			assert.InDelta(t, tt.azimuth, polar.AzimuthDeg, 1e-9)
			assert.InDelta(t, 150.0, polar.RangeUnits, 1e-9)
		})
	}
}

func TestComputeDiagonals(t *testing.T) {
	c := New(core.ImageSize{Width: 400, Height: 400})

	tests := []struct {
		name    string
		point   core.PixelPoint
		azimuth float64
	}{
		{"northeast", core.PixelPoint{X: 300, Y: 100}, 45},
		{"southeast", core.PixelPoint{X: 300, Y: 300}, 135},
		{"southwest", core.PixelPoint{X: 100, Y: 300}, 225},
		{"northwest", core.PixelPoint{X: 100, Y: 100}, 315},
	}

	want := 100 * math.Sqrt2 / 200 * 300

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			polar, err := Compute(tt.point, c)
			require.NoError(t, err)
			assert.InDelta(t, tt.azimuth, polar.AzimuthDeg, 1e-9)
			assert.InDelta(t, want, polar.RangeUnits, 1e-9)
		})
	}
}

func TestComputeAtCenter(t *testing.T) {
	c := New(core.ImageSize{Width: 400, Height: 400})

	polar, err := Compute(core.PixelPoint{X: 200, Y: 200}, c)
	require.NoError(t, err)
	assert.Equal(t, 0.0, polar.AzimuthDeg)
	assert.Equal(t, 0.0, polar.RangeUnits)
}

func TestComputeCustomScaleEdge(t *testing.T) {
	// Shrinking the reference from 200 px to 100 px doubles the range
	// read for the same point and leaves the azimuth alone.
	c := New(core.ImageSize{Width: 400, Height: 400})
	p := core.PixelPoint{X: 300, Y: 200}

	before, err := Compute(p, c)
	require.NoError(t, err)
	assert.InDelta(t, 150.0, before.RangeUnits, 1e-9)

	require.NoError(t, c.SetScaleEdge(200, 300))

	after, err := Compute(p, c)
	require.NoError(t, err)
	assert.InDelta(t, 300.0, after.RangeUnits, 1e-9)
	assert.InDelta(t, before.AzimuthDeg, after.AzimuthDeg, 1e-9)
}

func TestComputeScaleValueProportional(t *testing.T) {
	c := New(core.ImageSize{Width: 400, Height: 400})
	p := core.PixelPoint{X: 260, Y: 140}

	at300, err := Compute(p, c)
	require.NoError(t, err)

	require.NoError(t, c.SetScaleValue(150))
	at150, err := Compute(p, c)
	require.NoError(t, err)

	assert.InDelta(t, at300.RangeUnits/2, at150.RangeUnits, 1e-9)
	assert.InDelta(t, at300.AzimuthDeg, at150.AzimuthDeg, 1e-9)
}

func TestComputeAzimuthAlwaysNormalized(t *testing.T) {
	c := New(core.ImageSize{Width: 400, Height: 400})

	for x := 0; x < 400; x += 37 {
		for y := 0; y < 400; y += 37 {
			polar, err := Compute(core.PixelPoint{X: x, Y: y}, c)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, polar.AzimuthDeg, 0.0)
			assert.Less(t, polar.AzimuthDeg, 360.0)
			assert.GreaterOrEqual(t, polar.RangeUnits, 0.0)
		}
	}
}

func TestComputeDegenerateReference(t *testing.T) {
	// Center on the bottom edge with the default reference gives a zero
	// reference distance.
	c := New(core.ImageSize{Width: 400, Height: 400})
	c.SetCenter(200, 399)
	c.size.Height = 399 // force ref exactly zero

	_, err := Compute(core.PixelPoint{X: 10, Y: 10}, c)
	assert.ErrorIs(t, err, ErrDegenerateCalibration)
}
