package cache

import "github.com/tabledef/tabledef-go/pkg/tabledef/models"

// Per-record overheads for the footprint estimate. The estimate only has
// to be proportional enough for budget enforcement; it sums string and
// slice contributions across every table, column and reference rather
// than walking the runtime representation.
const (
	columnOverhead  = 96
	tableOverhead   = 128
	postingOverhead = 48
	refOverhead     = 64
)

// EstimateSize approximates the in-memory footprint of a bundle in bytes.
func EstimateSize(b *models.WorkbookBundle) int64 {
	if b == nil {
		return 0
	}

	size := int64(len(b.BookName))
	for _, s := range b.SheetSummaries {
		size += int64(len(s.Name)) + 32
	}
	for sheet, tables := range b.TablesBySheet {
		size += int64(len(sheet))
		for i := range tables {
			size += estimateTable(&tables[i])
		}
	}
	if b.SearchIndex != nil {
		for tok, postings := range b.SearchIndex.Entries {
			size += int64(len(tok))
			for _, p := range postings {
				size += postingOverhead + int64(len(p.SheetName)+len(p.TableName)+len(p.ColumnName)+len(p.Kind))
			}
		}
	}
	for _, s := range b.Stats.FallbackSheets {
		size += int64(len(s))
	}
	return size
}

func estimateTable(t *models.TableInfo) int64 {
	size := int64(tableOverhead)
	size += int64(len(t.LogicalTableName) + len(t.PhysicalTableName) + len(t.ExcelRange))
	if t.SourceRef != nil {
		size += int64(len(t.SourceRef.SheetName) + len(t.SourceRef.Address))
	}
	for i := range t.Columns {
		size += estimateColumn(&t.Columns[i])
	}
	return size
}

func estimateColumn(c *models.ColumnInfo) int64 {
	size := int64(columnOverhead)
	size += int64(len(c.LogicalName) + len(c.PhysicalName) + len(c.DataType) + len(c.Size))
	size += int64(len(c.Comment) + len(c.CommentRaw))
	if c.SourceRef != nil {
		size += int64(len(c.SourceRef.SheetName) + len(c.SourceRef.Address))
	}
	for _, ref := range c.CodeReferences {
		size += refOverhead + int64(len(ref.Source)+len(ref.CodeID)+len(ref.Raw))
		for _, opt := range ref.Options {
			size += int64(len(opt.Code) + len(opt.Label))
		}
	}
	return size
}
