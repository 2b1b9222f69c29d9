package parser

import "github.com/tabledef/tabledef-go/pkg/tabledef/models"

// tripleScanCols bounds how far right the [No, logical, physical] header
// triple is searched; vertical blocks live in the left columns.
const tripleScanCols = 6

// FindVerticalTables handles the multi-table-vertical layout: table
// blocks stacked in the left columns, each introduced by a
// [No, テーブル論理名, テーブル物理名] header triple with the names on the
// following row.
func FindVerticalTables(grid models.CellGrid, sheetName string, opts Options) []models.TableInfo {
	opts = opts.normalized()

	var tables []models.TableInfo
	rows := grid.RowCount()

	row := 0
	for row < rows {
		tripleCol, ok := findTripleHeader(grid, row)
		if !ok {
			row++
			continue
		}

		nameRow := row + 1
		logicalName := normalizeLabel(grid.Cell(nameRow, tripleCol+1))
		physName := normalizeLabel(grid.Cell(nameRow, tripleCol+2))

		// The next triple (or end of sheet) bounds this block.
		boundary := rows
		for r := nameRow + 1; r < rows; r++ {
			if _, found := findTripleHeader(grid, r); found {
				boundary = r
				break
			}
		}

		headerRow, h, found := FindHeaderRow(grid, nameRow+1, minInt(nameRow+1+opts.HeaderLookahead, boundary), 0, HorizontalOffsetMin)
		if found {
			columns := ExtractColumns(grid, sheetName, headerRow+1, boundary, h, opts)
			if len(columns) > 0 {
				nameRef := sourceRef(sheetName, nameRow, tripleCol+2)
				tables = append(tables, buildTable(sheetName, logicalName, physName, nameRef, columns, row, h, len(tables)+1))
			}
		}

		row = boundary
	}

	return dedupeTables(tables)
}

// findTripleHeader scans one row's left columns for the name-header
// triple and returns the column of its "No" cell.
func findTripleHeader(grid models.CellGrid, row int) (int, bool) {
	for col := 0; col < tripleScanCols; col++ {
		if foldKey(grid.Cell(row, col)) != "no" {
			continue
		}
		if isLogicalTableLabel(grid.Cell(row, col+1)) && isPhysicalTableLabel(grid.Cell(row, col+2)) {
			return col, true
		}
	}
	return -1, false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
