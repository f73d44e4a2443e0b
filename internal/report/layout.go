package report

// Static page geometry, in millimeters. One record occupies one block:
// a full-width label row above a body split into an image zone and a
// data zone. The numbers target an A4 portrait page with 15mm margins
// and are the single source of truth for document writers; everything
// below is derived from them, with no locale, time, or random input, so
// layout output is reproducible bit for bit.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
	MarginMM     = 15.0

	// TableWidthMM is the usable width: page width minus both margins.
	TableWidthMM = PageWidthMM - 2*MarginMM

	// GridColumns is the column count of the layout grid. The image
	// zone spans ImageColumns of them; the data zone takes the rest.
	GridColumns  = 4
	ImageColumns = 3

	// DataRows is the row count of the data zone: target id, azimuth,
	// range, height, obstacles, status.
	DataRows = 6

	LabelHeightMM = 8.0
	BodyHeightMM  = 112.0
	RecordGapMM   = 10.0
	BlockHeightMM = LabelHeightMM + BodyHeightMM
	ColumnWidthMM = TableWidthMM / GridColumns
	ImageWidthMM  = ColumnWidthMM * ImageColumns
	DataWidthMM   = ColumnWidthMM
	DataRowHeight = BodyHeightMM / DataRows
)

// CellKind identifies a layout zone within a record block.
type CellKind string

const (
	CellLabel CellKind = "label"
	CellImage CellKind = "image"
	CellData  CellKind = "data"
)

// Cell is one zone of a record block: its position and extent in
// millimeters relative to the table origin, plus the grid spans a
// table-based document writer needs.
type Cell struct {
	Kind     CellKind `json:"kind"`
	Record   int      `json:"record"` // 0-based position of the record on the page
	XMM      float64  `json:"xMM"`
	YMM      float64  `json:"yMM"`
	WidthMM  float64  `json:"widthMM"`
	HeightMM float64  `json:"heightMM"`
	ColSpan  int      `json:"colSpan"`
	RowSpan  int      `json:"rowSpan"`
}

// PageLayout is the complete cell geometry of one page.
type PageLayout struct {
	TableWidthMM  float64 `json:"tableWidthMM"`
	TableHeightMM float64 `json:"tableHeightMM"`
	Cells         []Cell  `json:"cells"`
}

// LayoutFor computes the layout for a page holding n records. Pure
// function of n and the static constants.
func LayoutFor(n int) PageLayout {
	layout := PageLayout{
		TableWidthMM: TableWidthMM,
		Cells:        make([]Cell, 0, 3*n),
	}
	if n <= 0 {
		return layout
	}
	layout.TableHeightMM = float64(n)*BlockHeightMM + float64(n-1)*RecordGapMM

	for i := 0; i < n; i++ {
		y := float64(i) * (BlockHeightMM + RecordGapMM)
		layout.Cells = append(layout.Cells,
			Cell{
				Kind:     CellLabel,
				Record:   i,
				XMM:      0,
				YMM:      y,
				WidthMM:  TableWidthMM,
				HeightMM: LabelHeightMM,
				ColSpan:  GridColumns,
				RowSpan:  1,
			},
			Cell{
				Kind:     CellImage,
				Record:   i,
				XMM:      0,
				YMM:      y + LabelHeightMM,
				WidthMM:  ImageWidthMM,
				HeightMM: BodyHeightMM,
				ColSpan:  ImageColumns,
				RowSpan:  DataRows,
			},
			Cell{
				Kind:     CellData,
				Record:   i,
				XMM:      ImageWidthMM,
				YMM:      y + LabelHeightMM,
				WidthMM:  DataWidthMM,
				HeightMM: BodyHeightMM,
				ColSpan:  GridColumns - ImageColumns,
				RowSpan:  DataRows,
			},
		)
	}
	return layout
}
