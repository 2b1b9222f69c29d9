package parser

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/xuri/excelize/v2"
)

// ErrInvalidFormat indicates the input file exists but is not a valid
// xlsx workbook. Wrapped into every open failure that is not a missing
// file, so callers can distinguish "bad document" from "bad path".
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ExtractionError wraps an error raised while processing one sheet.
type ExtractionError struct {
	SheetName string
	Component string // pipeline stage that failed, e.g. "grid"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(sheetName, component string, err error) *ExtractionError {
	return &ExtractionError{SheetName: sheetName, Component: component, Err: err}
}

// openWorkbook opens the document at path, mapping open failures other
// than a missing file to ErrInvalidFormat.
func openWorkbook(path string) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return f, nil
}
