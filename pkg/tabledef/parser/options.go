package parser

// Tuning constants for the layout heuristics. The values come from the
// documents the templates were calibrated against; they are exported so a
// deployment can reference them, and the row/marker behavior that matters
// per parse is carried in Options.
const (
	// DefaultMaxConsecutiveEmptyRows stops column extraction after this
	// many rows in a row with an empty physical name.
	DefaultMaxConsecutiveEmptyRows = 2
	// DefaultHeaderLookahead bounds how many rows below a table-name label
	// the header row is searched for.
	DefaultHeaderLookahead = 10
	// HorizontalOffsetMin is the first column offset at which horizontal
	// single-table blocks are searched.
	HorizontalOffsetMin = 10
	// StructuralScanRows and StructuralScanCols bound the region inspected
	// by the structural check that decides whether a sheet deserves the
	// compatibility re-read.
	StructuralScanRows = 30
	StructuralScanCols = 15
)

// DefaultPKMarker is the token used by the common templates to mark a
// primary-key column: the full-width circle glyph.
const DefaultPKMarker = "〇"

// Options are the only inputs that change extraction behavior. They are
// part of the result-cache key, so semantically identical option sets must
// canonicalize to the same form (see CanonicalKey).
type Options struct {
	// MaxConsecutiveEmptyRows is the empty-row run that terminates column
	// extraction once at least one column has been collected.
	MaxConsecutiveEmptyRows int
	// PKMarkers are the exact tokens that flag a primary-key column.
	// Matching is whole-cell and case-sensitive after width folding.
	PKMarkers []string
	// HeaderLookahead overrides the header-row search window below a
	// table-name label. Zero means DefaultHeaderLookahead.
	HeaderLookahead int
	// Reference configures comment reference extraction. Nil uses
	// DefaultRefOptions.
	Reference *RefOptions
}

// DefaultOptions returns the extraction options used by the templates the
// heuristics were written for.
func DefaultOptions() Options {
	return Options{
		MaxConsecutiveEmptyRows: DefaultMaxConsecutiveEmptyRows,
		PKMarkers:               []string{DefaultPKMarker},
		HeaderLookahead:         DefaultHeaderLookahead,
	}
}

// normalized returns a copy with zero values replaced by defaults.
func (o Options) normalized() Options {
	if o.MaxConsecutiveEmptyRows <= 0 {
		o.MaxConsecutiveEmptyRows = DefaultMaxConsecutiveEmptyRows
	}
	if len(o.PKMarkers) == 0 {
		o.PKMarkers = []string{DefaultPKMarker}
	}
	if o.HeaderLookahead <= 0 {
		o.HeaderLookahead = DefaultHeaderLookahead
	}
	return o
}

func (o Options) refOptions() RefOptions {
	if o.Reference != nil {
		return o.Reference.normalized()
	}
	return DefaultRefOptions()
}
