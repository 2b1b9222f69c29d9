package parser

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/tabledef/tabledef-go/pkg/tabledef/models"
)

// ParseSheet runs the finder set applicable to the sheet's layout and
// returns its tables, deduplicated by physical name. A sheet with no
// recognizable table yields an empty slice, never an error.
func ParseSheet(grid models.CellGrid, sheetName string, opts Options) []models.TableInfo {
	switch Classify(grid) {
	case LayoutSingle:
		return FindSingleTables(grid, sheetName, opts)
	case LayoutMulti:
		var tables []models.TableInfo
		tables = append(tables, FindVerticalTables(grid, sheetName, opts)...)
		tables = append(tables, FindHorizontalTables(grid, sheetName, opts)...)
		tables = append(tables, FindSideBySideTables(grid, sheetName, opts)...)
		return dedupeTables(tables)
	default:
		var tables []models.TableInfo
		tables = append(tables, FindSingleTables(grid, sheetName, opts)...)
		tables = append(tables, FindSideBySideTables(grid, sheetName, opts)...)
		return dedupeTables(tables)
	}
}

// needsCompatRetry is the structural check behind the per-sheet fallback:
// the classifier recognized the sheet AND a header row is findable within
// the bounded scan region, yet the fast read produced no tables. That
// combination strongly suggests the raw read lost something (formula
// results, merged labels) that the compatibility read will recover.
func needsCompatRetry(grid models.CellGrid) bool {
	if Classify(grid) == LayoutUnknown {
		return false
	}
	_, _, ok := FindHeaderRow(grid, 0, StructuralScanRows, 0, StructuralScanCols)
	return ok
}

// BuildBundle runs the finders across every sheet of the document at
// path and assembles the workbook bundle: per-sheet tables, sheet
// summaries, the search index, and read-mode diagnostics.
func BuildBundle(path string, opts Options) (*models.WorkbookBundle, error) {
	opts = opts.normalized()

	readStart := time.Now()
	doc, docMode, err := readWithFallback(path)
	if err != nil {
		return nil, err
	}
	readDuration := time.Since(readStart)

	bundle := &models.WorkbookBundle{
		BookName:      filepath.Base(path),
		TablesBySheet: make(map[string][]models.TableInfo),
	}

	// Opened lazily, at most once, when the first sheet needs the
	// per-sheet compatibility re-read.
	var compatDoc *document
	compatTried := false

	extractStart := time.Now()
	var fallbackSheets []string

	for _, sheet := range doc.sheets {
		grid := doc.grids[sheet]
		tables := ParseSheet(grid, sheet, opts)
		usedFallback := docMode == ReadModeCompat

		if len(tables) == 0 && docMode == ReadModeFast && needsCompatRetry(grid) {
			if !compatTried {
				compatTried = true
				var cerr error
				compatDoc, cerr = readDocument(path, ReadModeCompat)
				if cerr != nil {
					slog.Warn("compatibility re-read failed", "book", bundle.BookName, "error", cerr)
					compatDoc = nil
				}
			}
			if compatDoc != nil {
				if compatGrid, ok := compatDoc.grids[sheet]; ok {
					if retried := ParseSheet(compatGrid, sheet, opts); len(retried) > 0 {
						slog.Debug("sheet recovered by compatibility read", "book", bundle.BookName, "sheet", sheet, "tables", len(retried))
						tables = retried
						grid = compatGrid
						usedFallback = true
					}
				}
			}
		}

		if usedFallback {
			fallbackSheets = append(fallbackSheets, sheet)
		}
		if len(tables) > 0 {
			bundle.TablesBySheet[sheet] = tables
		}
		bundle.SheetSummaries = append(bundle.SheetSummaries, models.SheetSummary{
			Name:         sheet,
			TableCount:   len(tables),
			Rows:         grid.RowCount(),
			Cols:         grid.ColCount(),
			UsedFallback: usedFallback,
		})
	}
	extractDuration := time.Since(extractStart)

	indexStart := time.Now()
	bundle.SearchIndex = BuildIndex(bundle.TablesBySheet)
	indexDuration := time.Since(indexStart)

	bundle.Stats = models.BundleStats{
		ParseMode:       parseMode(len(doc.sheets), len(fallbackSheets)),
		ReadDuration:    readDuration,
		ExtractDuration: extractDuration,
		IndexDuration:   indexDuration,
		FallbackSheets:  fallbackSheets,
	}

	slog.Debug("workbook bundle built",
		"book", bundle.BookName,
		"sheets", len(doc.sheets),
		"tables", bundle.TableCount(),
		"parse_mode", bundle.Stats.ParseMode,
		"read_ms", readDuration.Milliseconds(),
		"extract_ms", extractDuration.Milliseconds(),
	)

	return bundle, nil
}

func parseMode(sheetCount, fallbackCount int) models.ParseMode {
	switch {
	case fallbackCount == 0:
		return models.ParseModeFast
	case fallbackCount >= sheetCount && sheetCount > 0:
		return models.ParseModeFallback
	default:
		return models.ParseModeMixed
	}
}
