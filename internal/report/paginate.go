// Package report turns a batch of annotation records into the
// paginated logical document handed to a document writer: fixed-size
// pages, deterministic millimeter layout geometry, and the formatted
// field strings each page cell carries.
package report

import (
	"github.com/scopemark/scopemark/pkg/core"
)

// DefaultPageSize is the number of records per album page.
const DefaultPageSize = 2

// Page is a fixed-capacity group of annotation records destined for one
// output document page.
type Page struct {
	Index   int                     `json:"index"`
	Records []core.AnnotationRecord `json:"records"`
	Layout  PageLayout              `json:"layout"`
}

// Paginate groups records into consecutive pages of pageSize, in input
// order. The last page holds the remainder and may be smaller. Page
// indexes are contiguous from 1. The grouping and the computed layout
// are pure functions of the input, so repeated calls over the same
// records produce identical output.
func Paginate(records []core.AnnotationRecord, pageSize int) []Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	pages := make([]Page, 0, (len(records)+pageSize-1)/pageSize)
	for start := 0; start < len(records); start += pageSize {
		end := start + pageSize
		if end > len(records) {
			end = len(records)
		}
		recs := make([]core.AnnotationRecord, end-start)
		copy(recs, records[start:end])
		pages = append(pages, Page{
			Index:   len(pages) + 1,
			Records: recs,
			Layout:  LayoutFor(len(recs)),
		})
	}
	return pages
}
