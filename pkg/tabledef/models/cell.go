// Package models defines data structures for table-definition extraction.
package models

// CellGrid holds a sheet's contents as a dense 2-D array of cell text,
// row-major and 0-indexed. A grid is immutable once produced from the
// source document.
type CellGrid [][]string

// Cell returns the text at (row, col), or the empty string when the
// coordinates fall outside the grid. Rows in xlsx files are ragged, so
// out-of-range columns are common and not an error.
func (g CellGrid) Cell(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	r := g[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// RowCount returns the number of rows in the grid.
func (g CellGrid) RowCount() int {
	return len(g)
}

// ColCount returns the widest row length in the grid.
func (g CellGrid) ColCount() int {
	max := 0
	for _, r := range g {
		if len(r) > max {
			max = len(r)
		}
	}
	return max
}

// CellSourceRef is a back-reference from an extracted value to the exact
// cell it came from, used for targeted write-back. It is a weak reference
// and never implies ownership of the sheet.
type CellSourceRef struct {
	// SheetName is the sheet the value was read from.
	SheetName string `json:"sheet_name"`
	// Row is the 0-based row index.
	Row int `json:"row"`
	// Col is the 0-based column index.
	Col int `json:"col"`
	// Address is the A1-style cell address (e.g. "C12").
	Address string `json:"address"`
}

// Span is an inclusive 0-based index range along one axis.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}
