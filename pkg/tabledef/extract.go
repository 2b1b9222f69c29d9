package tabledef

import (
	"errors"
	"io/fs"
	"os"

	"github.com/tabledef/tabledef-go/pkg/tabledef/models"
	"github.com/tabledef/tabledef-go/pkg/tabledef/parser"
)

// Extract parses the workbook at path into a bundle, synchronously and
// without pool or cache involvement. It is the one-shot entry point used
// by the CLI; long-lived processes should go through a Service.
func Extract(path string, opts ParseOptions) (*models.WorkbookBundle, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	bundle, err := parser.BuildBundle(path, opts)
	if err != nil {
		return nil, err
	}
	return bundle, nil
}
