package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutForEmpty(t *testing.T) {
	layout := LayoutFor(0)
	assert.Empty(t, layout.Cells)
	assert.Equal(t, 0.0, layout.TableHeightMM)
}

func TestLayoutForSingleRecord(t *testing.T) {
	layout := LayoutFor(1)

	require.Len(t, layout.Cells, 3)
	assert.Equal(t, TableWidthMM, layout.TableWidthMM)
	assert.Equal(t, BlockHeightMM, layout.TableHeightMM)

	label, image, data := layout.Cells[0], layout.Cells[1], layout.Cells[2]

	assert.Equal(t, CellLabel, label.Kind)
	assert.Equal(t, 0.0, label.YMM)
	assert.Equal(t, TableWidthMM, label.WidthMM)
	assert.Equal(t, GridColumns, label.ColSpan)

	assert.Equal(t, CellImage, image.Kind)
	assert.Equal(t, LabelHeightMM, image.YMM)
	assert.Equal(t, ImageWidthMM, image.WidthMM)
	assert.Equal(t, BodyHeightMM, image.HeightMM)
	assert.Equal(t, ImageColumns, image.ColSpan)
	assert.Equal(t, DataRows, image.RowSpan)

	assert.Equal(t, CellData, data.Kind)
	assert.Equal(t, ImageWidthMM, data.XMM)
	assert.Equal(t, DataWidthMM, data.WidthMM)
	assert.Equal(t, GridColumns-ImageColumns, data.ColSpan)
}

func TestLayoutForTwoRecords(t *testing.T) {
	layout := LayoutFor(2)

	require.Len(t, layout.Cells, 6)
	assert.Equal(t, 2*BlockHeightMM+RecordGapMM, layout.TableHeightMM)

	// Second block starts one block plus one gap down.
	secondLabel := layout.Cells[3]
	assert.Equal(t, CellLabel, secondLabel.Kind)
	assert.Equal(t, 1, secondLabel.Record)
	assert.Equal(t, BlockHeightMM+RecordGapMM, secondLabel.YMM)
}

func TestLayoutGeometryFitsPage(t *testing.T) {
	// A full page of DefaultPageSize records must fit inside the
	// printable A4 area.
	layout := LayoutFor(DefaultPageSize)

	assert.LessOrEqual(t, layout.TableHeightMM, PageHeightMM-2*MarginMM)
	assert.InDelta(t, ImageWidthMM+DataWidthMM, TableWidthMM, 1e-9)
	assert.InDelta(t, float64(DataRows)*DataRowHeight, BodyHeightMM, 1e-9)
}

func TestLayoutDeterministic(t *testing.T) {
	assert.Equal(t, LayoutFor(2), LayoutFor(2))
}
