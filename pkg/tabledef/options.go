// Package tabledef extracts normalized relational schema models from
// database-definition workbooks.
package tabledef

import "github.com/tabledef/tabledef-go/pkg/tabledef/parser"

// ParseOptions are the only inputs that change extraction behavior. They
// are part of the result-cache key.
type ParseOptions = parser.Options

// ReferenceOptions configures comment reference extraction.
type ReferenceOptions = parser.RefOptions

// ReferenceRule is one reference-extraction pattern.
type ReferenceRule = parser.Rule

// Region is a sheet rectangle for targeted re-parsing.
type Region = parser.Region

// DefaultParseOptions returns the extraction options the heuristics were
// calibrated with: the full-width circle PK marker and a two-row empty
// run stop.
func DefaultParseOptions() ParseOptions {
	return parser.DefaultOptions()
}
