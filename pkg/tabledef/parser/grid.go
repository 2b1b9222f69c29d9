package parser

import (
	"github.com/xuri/excelize/v2"

	"github.com/tabledef/tabledef-go/pkg/tabledef/models"
)

// ReadMode selects the document-read strategy.
type ReadMode string

const (
	// ReadModeFast reads raw cell values, skipping number formatting and
	// merged-cell reconstruction. It handles the overwhelming majority of
	// definition workbooks at a fraction of the cost.
	ReadModeFast ReadMode = "fast"
	// ReadModeCompat reads formatted values and spreads merged-cell
	// values across their whole range. Slower, used as the fallback.
	ReadModeCompat ReadMode = "compat"
)

// document is one whole workbook converted to cell grids.
type document struct {
	sheets []string
	grids  map[string]models.CellGrid
}

// readDocument converts every sheet of the workbook at path into a
// CellGrid using the given mode.
func readDocument(path string, mode ReadMode) (*document, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc := &document{grids: make(map[string]models.CellGrid)}
	for _, sheet := range f.GetSheetList() {
		grid, err := gridFromSheet(f, sheet, mode)
		if err != nil {
			return nil, NewExtractionError(sheet, "grid", err)
		}
		doc.sheets = append(doc.sheets, sheet)
		doc.grids[sheet] = grid
	}
	return doc, nil
}

// readWithFallback performs the two-phase whole-document read: the fast
// mode first; if it errors or yields zero sheets, one retry of the entire
// document in compatibility mode. This is the only place a read error is
// swallowed in favor of a different strategy.
func readWithFallback(path string) (*document, ReadMode, error) {
	if doc, err := readDocument(path, ReadModeFast); err == nil && len(doc.sheets) > 0 {
		return doc, ReadModeFast, nil
	}
	doc, err := readDocument(path, ReadModeCompat)
	if err != nil {
		return nil, ReadModeCompat, err
	}
	return doc, ReadModeCompat, nil
}

// gridFromSheet converts one sheet into a CellGrid.
func gridFromSheet(f *excelize.File, sheet string, mode ReadMode) (models.CellGrid, error) {
	var (
		rows [][]string
		err  error
	)
	if mode == ReadModeFast {
		rows, err = f.GetRows(sheet, excelize.Options{RawCellValue: true})
	} else {
		rows, err = f.GetRows(sheet)
	}
	if err != nil {
		return nil, err
	}

	grid := models.CellGrid(rows)
	if mode == ReadModeCompat {
		fillMergedCells(f, sheet, grid)
	}
	return grid, nil
}

// fillMergedCells spreads each merge range's anchor value across the
// whole range so label lookups see the value regardless of which cell of
// the merge they land on. Ranges outside the populated grid are ignored.
func fillMergedCells(f *excelize.File, sheet string, grid models.CellGrid) {
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return
	}
	for _, m := range merges {
		value := m.GetCellValue()
		if value == "" {
			continue
		}
		startCol, startRow, err1 := excelize.CellNameToCoordinates(m.GetStartAxis())
		endCol, endRow, err2 := excelize.CellNameToCoordinates(m.GetEndAxis())
		if err1 != nil || err2 != nil {
			continue
		}
		for r := startRow - 1; r < endRow && r < len(grid); r++ {
			row := grid[r]
			for c := startCol - 1; c < endCol && c < len(row); c++ {
				if row[c] == "" {
					row[c] = value
				}
			}
		}
	}
}

// ListSheets returns the sheet names of the workbook at path.
func ListSheets(path string) ([]string, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// Region is a half-open rectangle of a sheet, 0-based: rows
// [RowStart, RowEnd) and columns [ColStart, ColEnd). Zero End values mean
// "to the edge of the sheet".
type Region struct {
	RowStart int `json:"row_start"`
	RowEnd   int `json:"row_end"`
	ColStart int `json:"col_start"`
	ColEnd   int `json:"col_end"`
}

// ParseSheetRegion re-parses one rectangle of one sheet using the
// fully-featured compatibility read, running the generic single-table
// search within the region bounds. Source refs stay absolute, so
// write-back against the original document keeps working.
func ParseSheetRegion(path, sheetName string, region Region, opts Options) ([]models.TableInfo, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	grid, err := gridFromSheet(f, sheetName, ReadModeCompat)
	if err != nil {
		return nil, NewExtractionError(sheetName, "grid", err)
	}

	return dedupeTables(findSingleTablesIn(grid, sheetName, region.RowStart, region.RowEnd, region.ColStart, region.ColEnd, opts)), nil
}
