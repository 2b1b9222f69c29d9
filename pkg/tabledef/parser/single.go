package parser

import "github.com/tabledef/tabledef-go/pkg/tabledef/models"

// FindSingleTables handles the single-table layout: one table block per
// sheet (the whole-sheet scan also serves as the generic fallback for
// unclassified sheets, where a block may start anywhere).
func FindSingleTables(grid models.CellGrid, sheetName string, opts Options) []models.TableInfo {
	return dedupeTables(findSingleTablesIn(grid, sheetName, 0, grid.RowCount(), 0, grid.ColCount(), opts))
}

// findSingleTablesIn runs the single-table search within the rectangle
// [rowFrom, rowTo) x [colFrom, colTo): locate the physical-table-name
// label, read the name pair, find the header row within the bounded
// look-ahead window, and delegate the remaining rows to the column
// extractor.
func findSingleTablesIn(grid models.CellGrid, sheetName string, rowFrom, rowTo, colFrom, colTo int, opts Options) []models.TableInfo {
	opts = opts.normalized()
	if rowTo <= 0 || rowTo > grid.RowCount() {
		rowTo = grid.RowCount()
	}
	if colTo <= 0 || colTo > grid.ColCount() {
		colTo = grid.ColCount()
	}

	var tables []models.TableInfo

	for row := rowFrom; row < rowTo; row++ {
		labelCol := -1
		for col := colFrom; col < colTo; col++ {
			if isPhysicalTableLabel(grid.Cell(row, col)) {
				labelCol = col
				break
			}
		}
		if labelCol < 0 {
			continue
		}

		physName, physCol, _ := valueRightOf(grid, row, labelCol, colTo)
		logicalName := findLogicalNameNear(grid, row, labelCol, colTo)

		headerRow, h, ok := FindHeaderRow(grid, row+1, row+1+opts.HeaderLookahead, colFrom, colTo)
		if !ok {
			continue
		}

		columns := ExtractColumns(grid, sheetName, headerRow+1, rowTo, h, opts)
		if len(columns) == 0 {
			continue
		}

		var nameRef *models.CellSourceRef
		if physCol >= 0 {
			nameRef = sourceRef(sheetName, row, physCol)
		}
		table := buildTable(sheetName, logicalName, physName, nameRef, columns, row, h, len(tables)+1)
		tables = append(tables, table)

		// Resume below the block so a stacked repeat is found, not the
		// rows the extractor already consumed.
		row = table.RowRange.End
	}

	return tables
}

// findLogicalNameNear searches a few rows around the physical label, in
// the same column, for the logical-name label pair.
func findLogicalNameNear(grid models.CellGrid, row, col, colTo int) string {
	for _, r := range []int{row - 1, row + 1, row - 2, row + 2, row} {
		if r < 0 {
			continue
		}
		if isLogicalTableLabel(grid.Cell(r, col)) {
			if v, _, ok := valueRightOf(grid, r, col, colTo); ok {
				return v
			}
		}
	}
	return ""
}
