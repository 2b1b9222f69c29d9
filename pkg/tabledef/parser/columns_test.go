package parser

import (
	"testing"

	"github.com/tabledef/tabledef-go/pkg/tabledef/models"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Ｎｏ", "No"},
		{"  物理名  ", "物理名"},
		{"ＶＡＲＣＨＡＲ", "VARCHAR"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeLabel(tt.input); got != tt.expected {
			t.Errorf("normalizeLabel(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestSplitTypeSize(t *testing.T) {
	tests := []struct {
		input        string
		expectedType string
		expectedSize string
	}{
		{"VARCHAR(20)", "VARCHAR", "20"},
		{"DECIMAL(10,2)", "DECIMAL", "10,2"},
		{"VARCHAR（100）", "VARCHAR", "100"},
		{"INT", "INT", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		typ, size := splitTypeSize(tt.input)
		if typ != tt.expectedType || size != tt.expectedSize {
			t.Errorf("splitTypeSize(%q) = (%q, %q), expected (%q, %q)",
				tt.input, typ, size, tt.expectedType, tt.expectedSize)
		}
	}
}

func TestResolveHeaderRow(t *testing.T) {
	grid := models.CellGrid{
		{"No", "論理名", "物理名", "データ型", "サイズ", "Not Null", "PK", "備考"},
		{"物理名"},
		{"メモ", "覚書"},
	}

	h, ok := ResolveHeaderRow(grid, 0, 0, 0)
	if !ok {
		t.Fatal("expected row 0 to resolve as a header")
	}
	if h.No != 0 || h.Logical != 1 || h.Physical != 2 || h.Type != 3 || h.Size != 4 || h.NotNull != 5 || h.PK != 6 || h.Comment != 7 {
		t.Errorf("unexpected header columns: %+v", h)
	}

	// A lone physical-name cell is not enough.
	if _, ok := ResolveHeaderRow(grid, 1, 0, 0); ok {
		t.Error("expected row 1 (physical only) not to resolve")
	}
	if _, ok := ResolveHeaderRow(grid, 2, 0, 0); ok {
		t.Error("expected row 2 (no physical) not to resolve")
	}
}

func TestResolveHeaderRowWidthVariants(t *testing.T) {
	grid := models.CellGrid{
		{"Ｎｏ", "カラム論理名", "カラム物理名", "型"},
	}
	h, ok := ResolveHeaderRow(grid, 0, 0, 0)
	if !ok {
		t.Fatal("expected full-width header variants to resolve")
	}
	if h.No != 0 || h.Logical != 1 || h.Physical != 2 || h.Type != 3 {
		t.Errorf("unexpected header columns: %+v", h)
	}
}

func TestFindHeaderRow(t *testing.T) {
	grid := models.CellGrid{
		{"テーブル情報"},
		{"テーブル物理名", "M_USER"},
		{},
		{"No", "物理名", "型"},
	}
	row, h, ok := FindHeaderRow(grid, 0, 0, 0, 0)
	if !ok {
		t.Fatal("expected a header row")
	}
	if row != 3 {
		t.Errorf("expected header at row 3, got %d", row)
	}
	if h.Physical != 1 {
		t.Errorf("expected physical column 1, got %d", h.Physical)
	}
}

func TestMatchesPKMarker(t *testing.T) {
	markers := []string{"〇"}
	tests := []struct {
		cell     string
		expected bool
	}{
		{"〇", true},
		{" 〇 ", true},
		{"〇あ", false},
		{"", false},
		{"y", false},
	}
	for _, tt := range tests {
		if got := matchesPKMarker(tt.cell, markers); got != tt.expected {
			t.Errorf("matchesPKMarker(%q) = %v, expected %v", tt.cell, got, tt.expected)
		}
	}

	// Case-sensitive custom markers.
	if matchesPKMarker("y", []string{"Y"}) {
		t.Error("marker matching must stay case-sensitive")
	}
	if !matchesPKMarker("Y", []string{"Y"}) {
		t.Error("expected exact custom marker to match")
	}
}

func TestExtractColumns(t *testing.T) {
	grid := models.CellGrid{
		{"No", "論理名", "物理名", "データ型", "サイズ", "Not Null", "PK", "備考"},
		{"1", "ユーザID", "USER_ID", "VARCHAR", "20", "NOT NULL", "〇", ""},
		{"2", "氏名", "USER_NAME", "VARCHAR(100)", "", "", "", "姓と名を連結"},
		{"3", "性別", "GENDER_CD", "CHAR", "1", "NOT NULL", "", "コード定義：GENDER_CD（1:男 2:女）"},
	}
	h, ok := ResolveHeaderRow(grid, 0, 0, 0)
	if !ok {
		t.Fatal("header did not resolve")
	}

	columns := ExtractColumns(grid, "Sheet1", 1, 0, h, DefaultOptions())
	if len(columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(columns))
	}

	c := columns[0]
	if c.No == nil || *c.No != 1 {
		t.Errorf("expected No=1, got %v", c.No)
	}
	if c.PhysicalName != "USER_ID" || c.LogicalName != "ユーザID" {
		t.Errorf("unexpected names: %q / %q", c.PhysicalName, c.LogicalName)
	}
	if c.DataType != "VARCHAR" || c.Size != "20" {
		t.Errorf("unexpected type/size: %q / %q", c.DataType, c.Size)
	}
	if !c.NotNull || !c.IsPK {
		t.Errorf("expected NotNull and IsPK, got %v / %v", c.NotNull, c.IsPK)
	}
	if c.SourceRef == nil || c.SourceRef.Address != "C2" {
		t.Errorf("unexpected source ref: %+v", c.SourceRef)
	}

	// Inline size split when the size column is empty.
	if columns[1].DataType != "VARCHAR" || columns[1].Size != "100" {
		t.Errorf("expected inline size split, got %q / %q", columns[1].DataType, columns[1].Size)
	}

	refs := columns[2].CodeReferences
	if len(refs) != 1 {
		t.Fatalf("expected 1 code reference, got %d", len(refs))
	}
	if refs[0].CodeID != "GENDER_CD" {
		t.Errorf("expected CodeID GENDER_CD, got %q", refs[0].CodeID)
	}
	if len(refs[0].Options) != 2 || refs[0].Options[0].Code != "1" || refs[0].Options[0].Label != "男" {
		t.Errorf("unexpected options: %+v", refs[0].Options)
	}
}

func TestExtractColumnsStopsAfterEmptyRun(t *testing.T) {
	grid := models.CellGrid{
		{"No", "物理名", "型"},
		{"1", "COL_A", "INT"},
		{"2", "COL_B", "INT"},
		{},
		{},
		{"9", "STRAY", "INT"},
	}
	h, _ := ResolveHeaderRow(grid, 0, 0, 0)

	opts := DefaultOptions()
	opts.MaxConsecutiveEmptyRows = 2
	columns := ExtractColumns(grid, "Sheet1", 1, 0, h, opts)
	if len(columns) != 2 {
		t.Fatalf("expected scan to stop after 2 empty rows, got %d columns", len(columns))
	}

	// A single empty row does not end the block.
	opts.MaxConsecutiveEmptyRows = 3
	columns = ExtractColumns(grid, "Sheet1", 1, 0, h, opts)
	if len(columns) != 3 {
		t.Fatalf("expected 3 columns with a larger empty-row allowance, got %d", len(columns))
	}
}

func TestExtractColumnsSkipsNonDataRows(t *testing.T) {
	grid := models.CellGrid{
		{"No", "物理名", "型"},
		{"1", "COL_A", "INT"},
		{"", "ENGINE", "InnoDB"},
		{"2", "COL_B", "INT"},
		{"No", "物理名", "型"}, // repeated header bleeding into the block
		{"3", "COL_C", "INT"},
	}
	h, _ := ResolveHeaderRow(grid, 0, 0, 0)

	columns := ExtractColumns(grid, "Sheet1", 1, 0, h, DefaultOptions())
	if len(columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(columns))
	}
	for _, c := range columns {
		if c.PhysicalName == "ENGINE" || c.PhysicalName == "物理名" {
			t.Errorf("non-data row leaked into columns: %q", c.PhysicalName)
		}
	}
}

func TestExtractColumnsNonDataRowKeepsEmptyRun(t *testing.T) {
	// An ENGINE footer row between two empty rows: the skip must not
	// reset the consecutive-empty-row counter, so the run still reaches
	// the stop threshold and the stray trailing row is never collected.
	grid := models.CellGrid{
		{"No", "物理名", "型"},
		{"1", "COL_A", "INT"},
		{},
		{"", "ENGINE", "InnoDB"},
		{},
		{"2", "STRAY", "INT"},
	}
	h, _ := ResolveHeaderRow(grid, 0, 0, 0)

	opts := DefaultOptions()
	opts.MaxConsecutiveEmptyRows = 2
	columns := ExtractColumns(grid, "Sheet1", 1, 0, h, opts)
	if len(columns) != 1 {
		t.Fatalf("expected 1 column, got %d", len(columns))
	}
	if columns[0].PhysicalName != "COL_A" {
		t.Errorf("unexpected column: %q", columns[0].PhysicalName)
	}
}
