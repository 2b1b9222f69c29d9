// Package pool runs parse jobs on a fixed-size worker pool so the
// request-handling path never blocks on CPU-heavy parsing.
package pool

import (
	"errors"

	"github.com/tabledef/tabledef-go/pkg/tabledef/models"
	"github.com/tabledef/tabledef-go/pkg/tabledef/parser"
)

// Sentinel errors. Overflow and timeout are retryable capacity
// conditions, distinct from malformed-input failures.
var (
	// ErrQueueOverflow is returned when the job queue is full at
	// submission time. Submission never blocks on a full queue.
	ErrQueueOverflow = errors.New("pool: job queue overflow")
	// ErrJobTimeout is returned when a job produced no response within
	// the configured timeout. The job's worker is abandoned, not killed.
	ErrJobTimeout = errors.New("pool: job timed out")
	// ErrShutdown is returned for every job queued or in flight when the
	// pool shuts down.
	ErrShutdown = errors.New("pool: shut down")
)

// Kind is the closed set of job types a worker understands.
type Kind string

const (
	KindListSheets            Kind = "listSheets"
	KindParseTableDefinitions Kind = "parseTableDefinitions"
	KindParseSheetRegion      Kind = "parseSheetRegion"
	KindBuildSearchIndex      Kind = "buildSearchIndex"
	KindParseWorkbookBundle   Kind = "parseWorkbookBundle"
)

// Request is one job submitted to the pool. Exactly one Response is
// produced per Request, correlated by ID.
type Request struct {
	ID   string
	Kind Kind
	// Path is the workbook to operate on. All kinds use it.
	Path string
	// SheetName and Region apply to KindParseSheetRegion.
	SheetName string
	Region    parser.Region
	// Options applies to every parsing kind.
	Options parser.Options
}

// Response carries the result variant matching the request kind; the
// unmatched fields stay zero.
type Response struct {
	ID     string
	Sheets []string
	Tables []models.TableInfo
	Index  *models.SearchIndex
	Bundle *models.WorkbookBundle
	Err    error
}

// Executor performs the actual work of one request. The engine executor
// in the root package runs the parser; tests substitute their own.
type Executor interface {
	Execute(req Request) Response
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(req Request) Response

func (f ExecutorFunc) Execute(req Request) Response { return f(req) }
