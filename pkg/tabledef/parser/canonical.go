package parser

import (
	"fmt"
	"sort"
	"strings"
)

// CanonicalKey renders Options in a canonical textual form for result
// caching: marker and rule lists are sorted and normalized first, so
// semantically identical option sets always produce the same key
// regardless of argument ordering.
func CanonicalKey(opts Options) string {
	o := opts.normalized()

	markers := make([]string, len(o.PKMarkers))
	for i, m := range o.PKMarkers {
		markers[i] = normalizeLabel(m)
	}
	sort.Strings(markers)

	ro := o.refOptions()
	rules := make([]string, 0, len(ro.Rules))
	for _, r := range ro.Rules {
		pattern := ""
		if r.Pattern != nil {
			pattern = r.Pattern.String()
		}
		rules = append(rules, fmt.Sprintf("%s|%s|%d|%d", r.Source, pattern, r.CodeIDGroup, r.OptionsGroup))
	}
	sort.Strings(rules)

	return fmt.Sprintf("rows=%d;lookahead=%d;markers=%s;refs=%d,%d,%s;rules=%s",
		o.MaxConsecutiveEmptyRows,
		o.HeaderLookahead,
		strings.Join(markers, ","),
		ro.MaxMatches,
		ro.MaxSteps,
		ro.MaxScanTime,
		strings.Join(rules, ";"),
	)
}
