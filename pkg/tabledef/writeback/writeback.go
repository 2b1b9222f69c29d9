// Package writeback applies targeted cell overwrites to a workbook. It
// is the consumer side of CellSourceRef: the rename workflow resolves a
// field's source ref to a cell address and this package patches exactly
// that cell, leaving the rest of the document untouched.
package writeback

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Change is one requested cell overwrite. Before is the value the cell
// is expected to hold; a mismatch is reported as an issue instead of
// overwriting unrelated content.
type Change struct {
	SheetName string `json:"sheet_name"`
	Address   string `json:"address"`
	Before    string `json:"before"`
	After     string `json:"after"`
}

// Issue explains why one change was not applied.
type Issue struct {
	SheetName string `json:"sheet_name"`
	Address   string `json:"address"`
	Reason    string `json:"reason"`
}

// Result summarizes one Apply run. Changes fail individually; a partial
// application is a normal outcome, not an error.
type Result struct {
	Applied int     `json:"applied"`
	Issues  []Issue `json:"issues,omitempty"`
}

// Apply patches the workbook at path in place. Each change is verified
// first: the current cell value must match Before — or already equal
// After, which counts as applied (a retried batch stays idempotent).
// The workbook is saved only when at least one change applied.
func Apply(path string, changes []Change) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res := &Result{}
	sheets := make(map[string]struct{})
	for _, name := range f.GetSheetList() {
		sheets[name] = struct{}{}
	}

	for _, ch := range changes {
		if _, ok := sheets[ch.SheetName]; !ok {
			res.Issues = append(res.Issues, Issue{
				SheetName: ch.SheetName,
				Address:   ch.Address,
				Reason:    "worksheet not found in workbook",
			})
			continue
		}
		if _, _, err := excelize.CellNameToCoordinates(ch.Address); err != nil {
			res.Issues = append(res.Issues, Issue{
				SheetName: ch.SheetName,
				Address:   ch.Address,
				Reason:    fmt.Sprintf("invalid cell address: %v", err),
			})
			continue
		}

		current, err := f.GetCellValue(ch.SheetName, ch.Address)
		if err != nil {
			res.Issues = append(res.Issues, Issue{
				SheetName: ch.SheetName,
				Address:   ch.Address,
				Reason:    err.Error(),
			})
			continue
		}

		got := strings.TrimSpace(current)
		switch got {
		case strings.TrimSpace(ch.After):
			// Already patched by an earlier run.
			res.Applied++
			continue
		case strings.TrimSpace(ch.Before):
		default:
			res.Issues = append(res.Issues, Issue{
				SheetName: ch.SheetName,
				Address:   ch.Address,
				Reason:    fmt.Sprintf("cell value mismatch: expected %q, actual %q", ch.Before, current),
			})
			continue
		}

		if err := f.SetCellStr(ch.SheetName, ch.Address, ch.After); err != nil {
			res.Issues = append(res.Issues, Issue{
				SheetName: ch.SheetName,
				Address:   ch.Address,
				Reason:    err.Error(),
			})
			continue
		}
		res.Applied++
	}

	if res.Applied > 0 {
		if err := f.Save(); err != nil {
			return nil, err
		}
	}
	return res, nil
}
