package parser

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/width"

	"github.com/tabledef/tabledef-go/pkg/tabledef/models"
)

// tokenize splits text into folded lowercase ident-like tokens: runs of
// letters, digits and underscores. CJK runs index as whole tokens.
func tokenize(text string) []string {
	folded := strings.ToLower(width.Fold.String(text))

	isIdent := func(r rune) bool {
		return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
	}

	var tokens []string
	seen := make(map[string]struct{})
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		tok := folded[start:end]
		if _, dup := seen[tok]; !dup {
			seen[tok] = struct{}{}
			tokens = append(tokens, tok)
		}
		start = -1
	}
	for i, r := range folded {
		if isIdent(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(folded))
	return tokens
}

// BuildIndex builds the token index over table names, column names and
// comments. Postings are appended in sheet order and sorted by sheet and
// table for deterministic output.
func BuildIndex(tablesBySheet map[string][]models.TableInfo) *models.SearchIndex {
	idx := &models.SearchIndex{Entries: make(map[string][]models.SearchPosting)}

	add := func(text string, posting models.SearchPosting) {
		for _, tok := range tokenize(text) {
			idx.Entries[tok] = append(idx.Entries[tok], posting)
		}
	}

	sheets := make([]string, 0, len(tablesBySheet))
	for sheet := range tablesBySheet {
		sheets = append(sheets, sheet)
	}
	sort.Strings(sheets)

	for _, sheet := range sheets {
		for _, table := range tablesBySheet[sheet] {
			tablePosting := models.SearchPosting{
				SheetName: sheet,
				TableName: table.PhysicalTableName,
				Kind:      "table",
			}
			add(table.PhysicalTableName, tablePosting)
			add(table.LogicalTableName, tablePosting)

			for _, col := range table.Columns {
				colPosting := models.SearchPosting{
					SheetName:  sheet,
					TableName:  table.PhysicalTableName,
					ColumnName: col.PhysicalName,
					Kind:       "column",
				}
				add(col.PhysicalName, colPosting)
				add(col.LogicalName, colPosting)
				if col.Comment != "" {
					commentPosting := colPosting
					commentPosting.Kind = "comment"
					add(col.Comment, commentPosting)
				}
			}
		}
	}

	return idx
}
