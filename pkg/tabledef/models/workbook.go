package models

import "time"

// ParseMode records which document-read strategy produced a bundle.
type ParseMode string

const (
	// ParseModeFast means every sheet was served by the fast raw read.
	ParseModeFast ParseMode = "fast"
	// ParseModeFallback means every sheet needed the compatibility read.
	ParseModeFallback ParseMode = "fallback"
	// ParseModeMixed means some sheets needed the compatibility read.
	ParseModeMixed ParseMode = "mixed"
)

// SheetSummary is the per-sheet digest carried alongside the table map.
type SheetSummary struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// TableCount is the number of tables extracted from the sheet.
	TableCount int `json:"table_count"`
	// Rows and Cols are the grid dimensions that were scanned.
	Rows int `json:"rows"`
	Cols int `json:"cols"`
	// UsedFallback reports whether the sheet required the compatibility
	// re-read.
	UsedFallback bool `json:"used_fallback"`
}

// BundleStats carries timing breakdown and read-mode diagnostics for one
// bundle. It is diagnostic, not semantic: two parses of the same file are
// equal except for this block.
type BundleStats struct {
	// ParseMode summarizes which read strategy served the sheets.
	ParseMode ParseMode `json:"parse_mode"`
	// CacheHit is true when the bundle was served from the result cache.
	CacheHit bool `json:"cache_hit"`
	// ReadDuration is the time spent converting the document to grids.
	ReadDuration time.Duration `json:"read_duration"`
	// ExtractDuration is the time spent in layout detection and column
	// extraction across all sheets.
	ExtractDuration time.Duration `json:"extract_duration"`
	// IndexDuration is the time spent building the search index.
	IndexDuration time.Duration `json:"index_duration"`
	// FallbackSheets lists sheets that required the compatibility read.
	FallbackSheets []string `json:"fallback_sheets,omitempty"`
}

// SearchPosting is one search-index hit location.
type SearchPosting struct {
	// SheetName is the sheet the token was found on.
	SheetName string `json:"sheet_name"`
	// TableName is the physical table name owning the token.
	TableName string `json:"table_name"`
	// ColumnName is the physical column name, empty for table-level hits.
	ColumnName string `json:"column_name,omitempty"`
	// Kind tells which field the token came from: "table", "column" or
	// "comment".
	Kind string `json:"kind"`
}

// SearchIndex maps folded tokens to their postings across the workbook.
type SearchIndex struct {
	Entries map[string][]SearchPosting `json:"entries"`
}

// WorkbookBundle is the complete extraction result for one document.
type WorkbookBundle struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// SheetSummaries lists per-sheet digests in workbook order.
	SheetSummaries []SheetSummary `json:"sheet_summaries"`
	// TablesBySheet maps sheet name to the tables extracted from it.
	// Sheets with no recognizable table are absent, not errors.
	TablesBySheet map[string][]TableInfo `json:"tables_by_sheet"`
	// SearchIndex is the token index built over names and comments.
	SearchIndex *SearchIndex `json:"search_index,omitempty"`
	// Stats carries timings and read-mode diagnostics.
	Stats BundleStats `json:"stats"`
}

// TableCount returns the total number of tables across all sheets.
func (b *WorkbookBundle) TableCount() int {
	n := 0
	for _, tables := range b.TablesBySheet {
		n += len(tables)
	}
	return n
}
