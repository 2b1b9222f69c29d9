package parser

import (
	"testing"

	"github.com/tabledef/tabledef-go/pkg/tabledef/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		a1       string
		expected Layout
	}{
		{"single marker", "テーブル情報", LayoutSingle},
		{"multi marker", "テーブル定義書", LayoutMulti},
		{"single marker with spaces", "  テーブル情報  ", LayoutSingle},
		{"unrelated text", "設計書", LayoutUnknown},
		{"empty cell", "", LayoutUnknown},
		{"marker not a prefix match", "テーブル情報一覧", LayoutUnknown},
	}

	for _, tt := range tests {
		grid := models.CellGrid{{tt.a1}}
		if got := Classify(grid); got != tt.expected {
			t.Errorf("%s: Classify = %v, expected %v", tt.name, got, tt.expected)
		}
	}
}

func TestClassifyEmptyGrid(t *testing.T) {
	if got := Classify(models.CellGrid{}); got != LayoutUnknown {
		t.Errorf("Classify(empty) = %v, expected LayoutUnknown", got)
	}
}

func TestLayoutString(t *testing.T) {
	tests := []struct {
		layout   Layout
		expected string
	}{
		{LayoutSingle, "single"},
		{LayoutMulti, "multi"},
		{LayoutUnknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.layout.String(); got != tt.expected {
			t.Errorf("Layout(%d).String() = %q, expected %q", tt.layout, got, tt.expected)
		}
	}
}
