// Package parser implements the heuristic layout-detection and
// column-extraction engine for database-definition workbooks.
package parser

import "github.com/tabledef/tabledef-go/pkg/tabledef/models"

// Layout identifies the structural pattern of a sheet.
type Layout int

const (
	// LayoutUnknown means the sheet carries no recognized marker and is
	// handled by the generic scanning fallback.
	LayoutUnknown Layout = iota
	// LayoutSingle is one table occupying the whole sheet, optionally
	// repeated at other column offsets.
	LayoutSingle
	// LayoutMulti is vertically stacked table blocks in the left columns,
	// plus possible horizontal and side-by-side blocks.
	LayoutMulti
)

// Marker literals recognized in cell A1. Documents produced by the common
// templates start with one of these; everything else falls through to the
// generic scanner.
const (
	// SingleTableMarker marks a single-table-info sheet.
	SingleTableMarker = "テーブル情報"
	// MultiTableMarker marks a multi-table document sheet.
	MultiTableMarker = "テーブル定義書"
)

func (l Layout) String() string {
	switch l {
	case LayoutSingle:
		return "single"
	case LayoutMulti:
		return "multi"
	default:
		return "unknown"
	}
}

// Classify inspects cell (0,0) and decides which structural pattern the
// sheet matches. Classification is O(1) and has no side effects.
func Classify(grid models.CellGrid) Layout {
	switch normalizeLabel(grid.Cell(0, 0)) {
	case normalizeLabel(SingleTableMarker):
		return LayoutSingle
	case normalizeLabel(MultiTableMarker):
		return LayoutMulti
	default:
		return LayoutUnknown
	}
}
