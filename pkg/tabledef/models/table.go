package models

// TableInfo is one extracted table record. A finder never returns a table
// with an empty Columns list, and PhysicalTableName is never empty (it
// falls back to the logical name or a synthesized name).
type TableInfo struct {
	// LogicalTableName is the human-readable table label.
	LogicalTableName string `json:"logical_table_name"`
	// PhysicalTableName is the SQL-identifier-shaped table name.
	PhysicalTableName string `json:"physical_table_name"`
	// Columns contains the extracted column records in sheet order.
	Columns []ColumnInfo `json:"columns"`
	// ColumnRange is the 0-based column bounding box the extractor
	// believed the table occupied, used for highlighting and region
	// re-parse.
	ColumnRange Span `json:"column_range"`
	// RowRange is the 0-based row bounding box of the table.
	RowRange Span `json:"row_range"`
	// ExcelRange is the bounding box in A1 notation (e.g. "B4:H20").
	ExcelRange string `json:"excel_range,omitempty"`
	// SourceRef points at the physical-table-name cell for write-back.
	SourceRef *CellSourceRef `json:"source_ref,omitempty"`
}

// HasColumn reports whether the table already holds a column with the
// given physical name. The lookup is the dedup/identity check used by
// downstream validation.
func (t *TableInfo) HasColumn(physicalName string) bool {
	for _, c := range t.Columns {
		if c.PhysicalName == physicalName {
			return true
		}
	}
	return false
}
