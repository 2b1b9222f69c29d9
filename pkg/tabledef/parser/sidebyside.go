package parser

import "github.com/tabledef/tabledef-go/pkg/tabledef/models"

// FindSideBySideTables handles sheets that place two or more table blocks
// next to each other: a row carrying multiple physical-table-name labels
// splits the sheet into column ranges between consecutive label positions,
// and the single-table search runs independently within each range.
func FindSideBySideTables(grid models.CellGrid, sheetName string, opts Options) []models.TableInfo {
	opts = opts.normalized()
	rows := grid.RowCount()
	cols := grid.ColCount()

	for row := 0; row < rows; row++ {
		var labelCols []int
		for col := 0; col < cols; col++ {
			if isPhysicalTableLabel(grid.Cell(row, col)) {
				labelCols = append(labelCols, col)
			}
		}
		if len(labelCols) < 2 {
			continue
		}

		var tables []models.TableInfo
		for i, start := range labelCols {
			end := cols
			if i+1 < len(labelCols) {
				end = labelCols[i+1]
			}
			tables = append(tables, findSingleTablesIn(grid, sheetName, row, rows, start, end, opts)...)
		}
		// The first qualifying row fixes the split; the per-range search
		// already walks everything below it.
		return dedupeTables(tables)
	}

	return nil
}
