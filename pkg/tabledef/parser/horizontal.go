package parser

import "github.com/tabledef/tabledef-go/pkg/tabledef/models"

// FindHorizontalTables handles single-table blocks replicated at column
// offsets >= HorizontalOffsetMin anywhere in the sheet. Each block is
// bounded by the next marker in the same column, or the end of the sheet.
func FindHorizontalTables(grid models.CellGrid, sheetName string, opts Options) []models.TableInfo {
	opts = opts.normalized()
	rows := grid.RowCount()
	cols := grid.ColCount()

	var tables []models.TableInfo
	marker := normalizeLabel(SingleTableMarker)

	for col := HorizontalOffsetMin; col < cols; col++ {
		var markerRows []int
		for row := 0; row < rows; row++ {
			if normalizeLabel(grid.Cell(row, col)) == marker {
				markerRows = append(markerRows, row)
			}
		}
		for i, row := range markerRows {
			boundary := rows
			if i+1 < len(markerRows) {
				boundary = markerRows[i+1]
			}
			tables = append(tables, findSingleTablesIn(grid, sheetName, row, boundary, col, cols, opts)...)
		}
	}

	return dedupeTables(tables)
}
