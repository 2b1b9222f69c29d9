package parser

import (
	"fmt"
	"strings"

	"github.com/tabledef/tabledef-go/pkg/tabledef/models"
)

// Table-name label literals. The longer forms are required here so a
// column header cell reading just "物理名" is never mistaken for a
// table-level label.
var (
	physicalTableLabels = []string{"テーブル物理名", "物理テーブル名"}
	logicalTableLabels  = []string{"テーブル論理名", "論理テーブル名"}
)

func isPhysicalTableLabel(cell string) bool {
	return matchesAnyLabel(cell, physicalTableLabels)
}

func isLogicalTableLabel(cell string) bool {
	return matchesAnyLabel(cell, logicalTableLabels)
}

func matchesAnyLabel(cell string, labels []string) bool {
	got := normalizeLabel(cell)
	if got == "" {
		return false
	}
	for _, l := range labels {
		if got == normalizeLabel(l) {
			return true
		}
	}
	return false
}

// nameValueWindow is how far right of a label cell the name value is
// searched for; templates put it in the adjacent or merged-over cell.
const nameValueWindow = 4

// valueRightOf returns the first non-empty cell to the right of
// (row, col), within the window, along with its column.
func valueRightOf(grid models.CellGrid, row, col, colTo int) (string, int, bool) {
	end := col + nameValueWindow
	if colTo > 0 && end >= colTo {
		end = colTo - 1
	}
	for c := col + 1; c <= end; c++ {
		if v := normalizeLabel(grid.Cell(row, c)); v != "" {
			return v, c, true
		}
	}
	return "", -1, false
}

// synthesizedTableName builds a deterministic placeholder when a block
// carries neither a physical nor a logical table name.
func synthesizedTableName(sheetName string, ordinal int) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(normalizeLabel(sheetName)) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	base := strings.Trim(b.String(), "_")
	if base == "" {
		base = "TABLE"
	}
	return fmt.Sprintf("%s_%d", base, ordinal)
}

// columnBounds computes the populated column span for a header map.
func columnBounds(h HeaderColumns) models.Span {
	start, end := -1, -1
	for _, idx := range []int{h.No, h.Logical, h.Physical, h.Type, h.Size, h.NotNull, h.PK, h.Comment} {
		if idx < 0 {
			continue
		}
		if start < 0 || idx < start {
			start = idx
		}
		if idx > end {
			end = idx
		}
	}
	if start < 0 {
		start, end = 0, 0
	}
	return models.Span{Start: start, End: end}
}

// lastColumnRow returns the deepest source row among extracted columns.
func lastColumnRow(columns []models.ColumnInfo, fallback int) int {
	last := fallback
	for _, c := range columns {
		if c.SourceRef != nil && c.SourceRef.Row > last {
			last = c.SourceRef.Row
		}
	}
	return last
}

// buildTable assembles a TableInfo from extracted pieces, enforcing the
// naming invariant: PhysicalTableName is never empty.
func buildTable(sheetName, logicalName, physicalName string, nameRef *models.CellSourceRef, columns []models.ColumnInfo, rowStart int, h HeaderColumns, ordinal int) models.TableInfo {
	if physicalName == "" {
		physicalName = logicalName
	}
	if physicalName == "" {
		physicalName = synthesizedTableName(sheetName, ordinal)
	}

	colSpan := columnBounds(h)
	rowSpan := models.Span{Start: rowStart, End: lastColumnRow(columns, rowStart)}

	return models.TableInfo{
		LogicalTableName:  logicalName,
		PhysicalTableName: physicalName,
		Columns:           columns,
		ColumnRange:       colSpan,
		RowRange:          rowSpan,
		ExcelRange:        fmt.Sprintf("%s:%s", cellAddress(rowSpan.Start, colSpan.Start), cellAddress(rowSpan.End, colSpan.End)),
		SourceRef:         nameRef,
	}
}

// dedupeTables drops tables whose physical name (case-insensitive) was
// already registered for the sheet. Blocks that overlap under more than
// one finder would otherwise register twice; the first finder wins.
func dedupeTables(tables []models.TableInfo) []models.TableInfo {
	seen := make(map[string]struct{}, len(tables))
	out := tables[:0]
	for _, t := range tables {
		key := strings.ToLower(t.PhysicalTableName)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
