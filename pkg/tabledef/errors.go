package tabledef

import (
	"errors"

	"github.com/tabledef/tabledef-go/pkg/tabledef/parser"
	"github.com/tabledef/tabledef-go/pkg/tabledef/pool"
	"github.com/tabledef/tabledef-go/pkg/tabledef/tasks"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file exists but is not a valid
// xlsx workbook.
var ErrInvalidFormat = parser.ErrInvalidFormat

// Re-exported capacity sentinels so callers can distinguish "retry
// later" from "malformed input" without importing the subpackages.
var (
	// ErrQueueOverflow is the pool's admission rejection.
	ErrQueueOverflow = pool.ErrQueueOverflow
	// ErrJobTimeout is the pool's per-job timeout.
	ErrJobTimeout = pool.ErrJobTimeout
	// ErrPoolShutdown is returned for jobs caught by Shutdown.
	ErrPoolShutdown = pool.ErrShutdown
	// ErrTaskOverflow is the task manager's admission rejection.
	ErrTaskOverflow = tasks.ErrQueueOverflow
)

// IsRetryable reports whether an error is a transient capacity condition
// rather than a data problem. Overloaded states should surface as a
// backpressure signal, not a generic failure.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrQueueOverflow) ||
		errors.Is(err, ErrJobTimeout) ||
		errors.Is(err, ErrTaskOverflow)
}

// ExtractionError wraps an error raised while reading one sheet; the
// parsing engine produces it on per-sheet grid failures.
type ExtractionError = parser.ExtractionError

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(sheetName, component string, err error) *ExtractionError {
	return parser.NewExtractionError(sheetName, component, err)
}
