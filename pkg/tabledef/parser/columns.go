package parser

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/width"

	"github.com/tabledef/tabledef-go/pkg/tabledef/models"
)

// normalizeLabel folds full-width/half-width variants and trims the cell
// text. Japanese workbooks mix widths freely ("Ｎｏ" vs "No"), so every
// label comparison goes through this first.
func normalizeLabel(s string) string {
	return strings.TrimSpace(width.Fold.String(s))
}

// foldKey lowercases a normalized label for alias lookup.
func foldKey(s string) string {
	return strings.ToLower(normalizeLabel(s))
}

// Semantic header fields resolved through the alias table.
const (
	fieldNo       = "no"
	fieldLogical  = "logical"
	fieldPhysical = "physical"
	fieldType     = "type"
	fieldSize     = "size"
	fieldNotNull  = "notnull"
	fieldPK       = "pk"
	fieldComment  = "comment"
)

// headerAliases maps folded header text to the semantic field it denotes.
// Header wording varies wildly across documents; this table is the union
// of the variants seen in the calibration set.
var headerAliases = map[string]string{
	"no":    fieldNo,
	"no.":   fieldNo,
	"番号":    fieldNo,
	"項番":    fieldNo,
	"論理名":   fieldLogical,
	"カラム論理名": fieldLogical,
	"項目名":   fieldLogical,
	"名称":    fieldLogical,
	"日本語名":  fieldLogical,
	"物理名":   fieldPhysical,
	"カラム物理名": fieldPhysical,
	"カラム名":  fieldPhysical,
	"物理カラム名": fieldPhysical,
	"column": fieldPhysical,
	"型":     fieldType,
	"データ型":  fieldType,
	"タイプ":   fieldType,
	"type":  fieldType,
	"サイズ":   fieldSize,
	"桁数":    fieldSize,
	"長さ":    fieldSize,
	"size":  fieldSize,
	"not null": fieldNotNull,
	"notnull":  fieldNotNull,
	"nn":       fieldNotNull,
	"必須":      fieldNotNull,
	"pk":   fieldPK,
	"主キー":  fieldPK,
	"key":  fieldPK,
	"キー":   fieldPK,
	"備考":      fieldComment,
	"コメント":    fieldComment,
	"説明":      fieldComment,
	"摘要":      fieldComment,
	"comment": fieldComment,
}

// HeaderColumns maps the semantic fields to column indexes within a header
// row. -1 means the document does not carry that field.
type HeaderColumns struct {
	No       int
	Logical  int
	Physical int
	Type     int
	Size     int
	NotNull  int
	PK       int
	Comment  int
}

func emptyHeaderColumns() HeaderColumns {
	return HeaderColumns{No: -1, Logical: -1, Physical: -1, Type: -1, Size: -1, NotNull: -1, PK: -1, Comment: -1}
}

// resolved counts how many semantic fields the header row provided.
func (h HeaderColumns) resolved() int {
	n := 0
	for _, idx := range []int{h.No, h.Logical, h.Physical, h.Type, h.Size, h.NotNull, h.PK, h.Comment} {
		if idx >= 0 {
			n++
		}
	}
	return n
}

// ResolveHeaderRow interprets one grid row, restricted to [colFrom, colTo),
// as a column header. It succeeds only when a physical-name column and at
// least one other field resolve; a lone stray "物理名" cell is not a header.
func ResolveHeaderRow(grid models.CellGrid, row, colFrom, colTo int) (HeaderColumns, bool) {
	h := emptyHeaderColumns()
	if colTo <= 0 || colTo > grid.ColCount() {
		colTo = grid.ColCount()
	}
	for col := colFrom; col < colTo; col++ {
		field, ok := headerAliases[foldKey(grid.Cell(row, col))]
		if !ok {
			continue
		}
		switch field {
		case fieldNo:
			if h.No < 0 {
				h.No = col
			}
		case fieldLogical:
			if h.Logical < 0 {
				h.Logical = col
			}
		case fieldPhysical:
			if h.Physical < 0 {
				h.Physical = col
			}
		case fieldType:
			if h.Type < 0 {
				h.Type = col
			}
		case fieldSize:
			if h.Size < 0 {
				h.Size = col
			}
		case fieldNotNull:
			if h.NotNull < 0 {
				h.NotNull = col
			}
		case fieldPK:
			if h.PK < 0 {
				h.PK = col
			}
		case fieldComment:
			if h.Comment < 0 {
				h.Comment = col
			}
		}
	}
	return h, h.Physical >= 0 && h.resolved() >= 2
}

// FindHeaderRow scans rows [rowFrom, rowTo) for the first row that
// resolves as a column header within [colFrom, colTo).
func FindHeaderRow(grid models.CellGrid, rowFrom, rowTo, colFrom, colTo int) (int, HeaderColumns, bool) {
	if rowTo > grid.RowCount() || rowTo <= 0 {
		rowTo = grid.RowCount()
	}
	for row := rowFrom; row < rowTo; row++ {
		if h, ok := ResolveHeaderRow(grid, row, colFrom, colTo); ok {
			return row, h, true
		}
	}
	return -1, emptyHeaderColumns(), false
}

// nonDataLiterals are row labels that belong to the surrounding document,
// not to the column list. Rows starting with one of these are skipped
// without breaking the consecutive-empty-row run.
var nonDataLiterals = map[string]struct{}{
	"engine":          {},
	"default charset": {},
	"charset":         {},
	"collation":       {},
	"照合順序":            {},
	"文字コード":           {},
	"作成日":             {},
	"更新日":             {},
	"作成者":             {},
	"更新者":             {},
	"改訂履歴":            {},
	"備考欄":             {},
}

func isNonDataRow(grid models.CellGrid, row int, h HeaderColumns) bool {
	for _, col := range []int{h.No, h.Logical, h.Physical} {
		if col < 0 {
			continue
		}
		if _, ok := nonDataLiterals[foldKey(grid.Cell(row, col))]; ok {
			return true
		}
	}
	return false
}

// matchesPKMarker reports an exact whole-cell match against the configured
// marker set. Width folding tolerates half-width circle variants, but the
// match stays case-sensitive and never a substring: "〇あ" is not a PK.
func matchesPKMarker(cell string, markers []string) bool {
	got := normalizeLabel(cell)
	if got == "" {
		return false
	}
	for _, m := range markers {
		if got == normalizeLabel(m) {
			return true
		}
	}
	return false
}

// cellAddress renders a 0-based (row, col) pair as an A1-style address.
func cellAddress(row, col int) string {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return ""
	}
	return name
}

func sourceRef(sheetName string, row, col int) *models.CellSourceRef {
	return &models.CellSourceRef{
		SheetName: sheetName,
		Row:       row,
		Col:       col,
		Address:   cellAddress(row, col),
	}
}

// splitTypeSize divides "VARCHAR(20)" style declarations into type and
// size when the document has no dedicated size column.
func splitTypeSize(typeText string) (string, string) {
	open := strings.IndexAny(typeText, "(（")
	if open < 0 {
		return typeText, ""
	}
	rest := typeText[open:]
	rest = strings.TrimLeft(rest, "(（")
	rest = strings.TrimRight(strings.TrimSpace(rest), ")）")
	return strings.TrimSpace(typeText[:open]), strings.TrimSpace(rest)
}

// ExtractColumns converts grid rows [startRow, endRow) into column
// records using the resolved header map. It applies the stop conditions
// described in the package documentation: a run of MaxConsecutiveEmptyRows
// physical-name-less rows ends the scan once at least one column has been
// collected, known non-data rows are skipped without extending the run,
// and rows whose "No" cell is present but not numeric are treated as
// repeated headers and dropped.
func ExtractColumns(grid models.CellGrid, sheetName string, startRow, endRow int, h HeaderColumns, opts Options) []models.ColumnInfo {
	opts = opts.normalized()
	refOpts := opts.refOptions()

	if endRow <= 0 || endRow > grid.RowCount() {
		endRow = grid.RowCount()
	}

	var columns []models.ColumnInfo
	emptyRun := 0

	for row := startRow; row < endRow; row++ {
		physical := normalizeLabel(grid.Cell(row, h.Physical))
		if physical == "" {
			if isNonDataRow(grid, row, h) {
				continue
			}
			emptyRun++
			if emptyRun >= opts.MaxConsecutiveEmptyRows && len(columns) > 0 {
				break
			}
			continue
		}
		// Non-data literals are skipped before the reset so they neither
		// produce a column nor interrupt a surrounding empty-row run.
		if isNonDataRow(grid, row, h) {
			continue
		}
		emptyRun = 0

		col := models.ColumnInfo{
			PhysicalName: physical,
			SourceRef:    sourceRef(sheetName, row, h.Physical),
		}

		if h.No >= 0 {
			noText := normalizeLabel(grid.Cell(row, h.No))
			if noText != "" {
				n, err := strconv.Atoi(noText)
				if err != nil {
					// A non-numeric No cell under a resolved header is a
					// repeated header row bleeding into the data block.
					continue
				}
				col.No = &n
			}
		}

		if h.Logical >= 0 {
			col.LogicalName = normalizeLabel(grid.Cell(row, h.Logical))
		}
		if h.Type >= 0 {
			col.DataType = normalizeLabel(grid.Cell(row, h.Type))
		}
		if h.Size >= 0 {
			col.Size = normalizeLabel(grid.Cell(row, h.Size))
		}
		if col.Size == "" && col.DataType != "" {
			col.DataType, col.Size = splitTypeSize(col.DataType)
		}
		if h.NotNull >= 0 {
			col.NotNull = strings.Contains(strings.ToLower(grid.Cell(row, h.NotNull)), "not null")
		}
		if h.PK >= 0 {
			col.IsPK = matchesPKMarker(grid.Cell(row, h.PK), opts.PKMarkers)
		}
		if h.Comment >= 0 {
			raw := grid.Cell(row, h.Comment)
			if raw != "" {
				col.CommentRaw = raw
				col.Comment = strings.TrimSpace(raw)
				col.CodeReferences = ExtractReferences(raw, refOpts)
				col.AutoIncrement = DetectAutoIncrement(raw)
			}
		}

		columns = append(columns, col)
	}

	return columns
}
