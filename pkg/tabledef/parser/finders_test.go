package parser

import (
	"testing"

	"github.com/tabledef/tabledef-go/pkg/tabledef/models"
)

func singleTableGrid() models.CellGrid {
	return models.CellGrid{
		{"テーブル情報"},
		{"テーブル物理名", "M_USER"},
		{"テーブル論理名", "ユーザマスタ"},
		{"No", "論理名", "物理名", "データ型", "サイズ", "Not Null", "PK", "備考"},
		{"1", "ユーザID", "USER_ID", "VARCHAR", "20", "NOT NULL", "〇", ""},
		{"2", "氏名", "USER_NAME", "VARCHAR", "100", "", "", ""},
	}
}

func TestFindSingleTables(t *testing.T) {
	tables := FindSingleTables(singleTableGrid(), "Sheet1", DefaultOptions())
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}

	tbl := tables[0]
	if tbl.PhysicalTableName != "M_USER" {
		t.Errorf("expected physical name M_USER, got %q", tbl.PhysicalTableName)
	}
	if tbl.LogicalTableName != "ユーザマスタ" {
		t.Errorf("expected logical name ユーザマスタ, got %q", tbl.LogicalTableName)
	}
	if len(tbl.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(tbl.Columns))
	}
	if !tbl.HasColumn("USER_ID") || !tbl.HasColumn("USER_NAME") {
		t.Errorf("missing expected columns: %+v", tbl.Columns)
	}
	if tbl.RowRange.Start != 1 || tbl.RowRange.End != 5 {
		t.Errorf("unexpected row range: %+v", tbl.RowRange)
	}
	if tbl.ExcelRange == "" {
		t.Error("expected a non-empty Excel range")
	}
	if tbl.SourceRef == nil || tbl.SourceRef.Address != "B2" {
		t.Errorf("unexpected name source ref: %+v", tbl.SourceRef)
	}
}

func TestFindSingleTablesNameFallback(t *testing.T) {
	// Physical name missing, logical present: the logical name is promoted.
	grid := models.CellGrid{
		{"テーブル物理名"},
		{"テーブル論理名", "ユーザマスタ"},
		{"No", "物理名", "型"},
		{"1", "USER_ID", "INT"},
	}
	tables := FindSingleTables(grid, "Sheet1", DefaultOptions())
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	if tables[0].PhysicalTableName != "ユーザマスタ" {
		t.Errorf("expected logical name promotion, got %q", tables[0].PhysicalTableName)
	}

	// Both names missing: a deterministic placeholder is synthesized.
	grid = models.CellGrid{
		{"テーブル物理名"},
		{"No", "物理名", "型"},
		{"1", "USER_ID", "INT"},
	}
	tables = FindSingleTables(grid, "Users", DefaultOptions())
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	if tables[0].PhysicalTableName != "USERS_1" {
		t.Errorf("expected synthesized name USERS_1, got %q", tables[0].PhysicalTableName)
	}
}

func TestFindSingleTablesNoHeader(t *testing.T) {
	grid := models.CellGrid{
		{"テーブル物理名", "M_USER"},
		{"自由記述のメモ"},
	}
	if tables := FindSingleTables(grid, "Sheet1", DefaultOptions()); len(tables) != 0 {
		t.Errorf("expected no tables without a header row, got %d", len(tables))
	}
}

func TestFindVerticalTables(t *testing.T) {
	grid := models.CellGrid{
		{"No", "テーブル論理名", "テーブル物理名"},
		{"1", "注文", "T_ORDER"},
		{"No", "論理名", "物理名", "型"},
		{"1", "注文ID", "ORDER_ID", "INT"},
		{"2", "金額", "AMOUNT", "DECIMAL(10,2)"},
		{},
		{"No", "テーブル論理名", "テーブル物理名"},
		{"2", "注文明細", "T_ORDER_DETAIL"},
		{"No", "論理名", "物理名", "型"},
		{"1", "明細ID", "DETAIL_ID", "INT"},
	}

	tables := FindVerticalTables(grid, "Sheet1", DefaultOptions())
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}
	if tables[0].PhysicalTableName != "T_ORDER" || tables[1].PhysicalTableName != "T_ORDER_DETAIL" {
		t.Errorf("unexpected table names: %q, %q", tables[0].PhysicalTableName, tables[1].PhysicalTableName)
	}
	if len(tables[0].Columns) != 2 {
		t.Errorf("expected 2 columns in T_ORDER, got %d", len(tables[0].Columns))
	}
	if tables[0].Columns[1].DataType != "DECIMAL" || tables[0].Columns[1].Size != "10,2" {
		t.Errorf("unexpected type/size: %q / %q", tables[0].Columns[1].DataType, tables[0].Columns[1].Size)
	}
	if len(tables[1].Columns) != 1 || tables[1].Columns[0].PhysicalName != "DETAIL_ID" {
		t.Errorf("unexpected second block columns: %+v", tables[1].Columns)
	}
}

func TestFindHorizontalTables(t *testing.T) {
	grid := make(models.CellGrid, 4)
	for i := range grid {
		grid[i] = make([]string, 14)
	}
	grid[0][10] = "テーブル情報"
	grid[1][10] = "テーブル物理名"
	grid[1][11] = "M_CODE"
	grid[2][10] = "No"
	grid[2][11] = "物理名"
	grid[2][12] = "型"
	grid[3][10] = "1"
	grid[3][11] = "CODE_ID"
	grid[3][12] = "CHAR"

	tables := FindHorizontalTables(grid, "Sheet1", DefaultOptions())
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	if tables[0].PhysicalTableName != "M_CODE" {
		t.Errorf("expected M_CODE, got %q", tables[0].PhysicalTableName)
	}
	if len(tables[0].Columns) != 1 || tables[0].Columns[0].PhysicalName != "CODE_ID" {
		t.Errorf("unexpected columns: %+v", tables[0].Columns)
	}
	// Source refs stay absolute within the sheet.
	if ref := tables[0].Columns[0].SourceRef; ref == nil || ref.Col != 11 || ref.Row != 3 {
		t.Errorf("unexpected column source ref: %+v", tables[0].Columns[0].SourceRef)
	}
}

func TestFindSideBySideTables(t *testing.T) {
	grid := make(models.CellGrid, 3)
	for i := range grid {
		grid[i] = make([]string, 9)
	}
	grid[0][0] = "テーブル物理名"
	grid[0][1] = "T_LEFT"
	grid[0][5] = "テーブル物理名"
	grid[0][6] = "T_RIGHT"
	grid[1][0] = "No"
	grid[1][1] = "物理名"
	grid[1][2] = "型"
	grid[1][5] = "No"
	grid[1][6] = "物理名"
	grid[1][7] = "型"
	grid[2][0] = "1"
	grid[2][1] = "L_ID"
	grid[2][2] = "INT"
	grid[2][5] = "1"
	grid[2][6] = "R_ID"
	grid[2][7] = "INT"

	tables := FindSideBySideTables(grid, "Sheet1", DefaultOptions())
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}
	if tables[0].PhysicalTableName != "T_LEFT" || tables[1].PhysicalTableName != "T_RIGHT" {
		t.Errorf("unexpected table names: %q, %q", tables[0].PhysicalTableName, tables[1].PhysicalTableName)
	}
	if !tables[0].HasColumn("L_ID") || !tables[1].HasColumn("R_ID") {
		t.Error("column ranges bled across the split")
	}
	if tables[0].HasColumn("R_ID") {
		t.Error("left table picked up right-side columns")
	}
}

func TestDedupeTables(t *testing.T) {
	tables := []models.TableInfo{
		{PhysicalTableName: "M_USER"},
		{PhysicalTableName: "m_user"},
		{PhysicalTableName: "T_ORDER"},
	}
	out := dedupeTables(tables)
	if len(out) != 2 {
		t.Fatalf("expected 2 tables after dedup, got %d", len(out))
	}
	if out[0].PhysicalTableName != "M_USER" {
		t.Error("first occurrence must win")
	}
}

func TestSynthesizedTableName(t *testing.T) {
	tests := []struct {
		sheet    string
		ordinal  int
		expected string
	}{
		{"Users", 1, "USERS_1"},
		{"ユーザ一覧", 2, "TABLE_2"},
		{"order_items", 3, "ORDER_ITEMS_3"},
	}
	for _, tt := range tests {
		if got := synthesizedTableName(tt.sheet, tt.ordinal); got != tt.expected {
			t.Errorf("synthesizedTableName(%q, %d) = %q, expected %q", tt.sheet, tt.ordinal, got, tt.expected)
		}
	}
}

func TestParseSheetDispatch(t *testing.T) {
	// Multi marker routes through the vertical finder.
	grid := models.CellGrid{
		{"テーブル定義書"},
		{"No", "テーブル論理名", "テーブル物理名"},
		{"1", "注文", "T_ORDER"},
		{"No", "論理名", "物理名", "型"},
		{"1", "注文ID", "ORDER_ID", "INT"},
	}
	tables := ParseSheet(grid, "Sheet1", DefaultOptions())
	if len(tables) != 1 || tables[0].PhysicalTableName != "T_ORDER" {
		t.Fatalf("expected vertical finder to run for multi layout, got %+v", tables)
	}

	// Unclassified sheets fall back to the generic scan.
	tables = ParseSheet(singleTableGrid()[1:], "Sheet1", DefaultOptions())
	if len(tables) != 1 || tables[0].PhysicalTableName != "M_USER" {
		t.Fatalf("expected generic fallback to find the table, got %+v", tables)
	}
}
