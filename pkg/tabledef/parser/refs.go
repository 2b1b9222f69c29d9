package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/tabledef/tabledef-go/pkg/tabledef/models"
)

// Rule describes one reference-extraction pattern. CodeIDGroup is the
// capture group holding the glossary identifier; OptionsGroup, when
// positive, holds inline "code:label" value options.
type Rule struct {
	// Source names the rule family; it becomes CodeReference.Source.
	Source string
	// Pattern is the compiled expression. Go's RE2 engine cannot
	// backtrack catastrophically, but the scan budget below still bounds
	// pathological inputs that match an unbounded number of times.
	Pattern *regexp.Regexp
	// CodeIDGroup is the 1-based capture group of the code identifier.
	CodeIDGroup int
	// OptionsGroup is the 1-based capture group of inline options, or 0.
	OptionsGroup int
}

// RefOptions configures reference extraction and its safety budget. The
// budget is enforced per comment, not per file.
type RefOptions struct {
	// Rules are applied in order; matches are non-overlapping per rule.
	Rules []Rule
	// MaxMatches caps the result list for one comment.
	MaxMatches int
	// MaxSteps caps scan iterations across all rules for one comment.
	MaxSteps int
	// MaxScanTime is the wall-clock ceiling for one comment.
	MaxScanTime time.Duration
}

// Budget defaults. Breaching any ceiling degrades to partial results,
// it never fails the parse.
const (
	DefaultRefMaxMatches = 64
	DefaultRefMaxSteps   = 10000
	DefaultRefMaxScan    = 50 * time.Millisecond
)

// DefaultRules recognizes the code-master notations used by the common
// templates: "コード定義：GENDER_CD（1:男 2:女）" and the abbreviated
// "CD:GENDER_CD" form.
func DefaultRules() []Rule {
	return []Rule{
		{
			Source:       "code-master",
			Pattern:      regexp.MustCompile(`(?:コード定義|コードマスタ|コード)[：:]\s*([A-Za-z][A-Za-z0-9_-]*)(?:[（(]([^（）()]*)[）)])?`),
			CodeIDGroup:  1,
			OptionsGroup: 2,
		},
		{
			Source:      "code-master",
			Pattern:     regexp.MustCompile(`\bCD[：:]\s*([A-Za-z][A-Za-z0-9_-]*)`),
			CodeIDGroup: 1,
		},
	}
}

// DefaultRefOptions returns the default rules with the stock budget.
func DefaultRefOptions() RefOptions {
	return RefOptions{
		Rules:       DefaultRules(),
		MaxMatches:  DefaultRefMaxMatches,
		MaxSteps:    DefaultRefMaxSteps,
		MaxScanTime: DefaultRefMaxScan,
	}
}

func (o RefOptions) normalized() RefOptions {
	if o.Rules == nil {
		o.Rules = DefaultRules()
	}
	if o.MaxMatches <= 0 {
		o.MaxMatches = DefaultRefMaxMatches
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = DefaultRefMaxSteps
	}
	if o.MaxScanTime <= 0 {
		o.MaxScanTime = DefaultRefMaxScan
	}
	return o
}

// optionPair matches one inline "1:男" or "1=男" value option.
var optionPair = regexp.MustCompile(`([^\s:：=]+)[:：=]([^\s]+)`)

func parseOptions(text string) []models.CodeOption {
	var opts []models.CodeOption
	for _, m := range optionPair.FindAllStringSubmatch(text, -1) {
		opts = append(opts, models.CodeOption{Code: m[1], Label: m[2]})
	}
	return opts
}

// ExtractReferences scans a comment for structured code-master references.
// Matches are non-overlapping, deduplicated by (source, codeID, raw), and
// collected under the configured step/time/match ceilings: on any ceiling
// breach the references gathered so far are returned as-is. Callers cannot
// distinguish "nothing found" from "truncated", which is the accepted
// tradeoff for resilience against pathological comments.
func ExtractReferences(comment string, opts RefOptions) []models.CodeReference {
	opts = opts.normalized()
	if comment == "" {
		return nil
	}

	deadline := time.Now().Add(opts.MaxScanTime)
	steps := 0
	seen := make(map[string]struct{})
	var refs []models.CodeReference

	for _, rule := range opts.Rules {
		if rule.Pattern == nil || rule.CodeIDGroup <= 0 {
			continue
		}
		pos := 0
		for pos <= len(comment) {
			steps++
			if steps > opts.MaxSteps || time.Now().After(deadline) {
				return refs
			}

			loc := rule.Pattern.FindStringSubmatchIndex(comment[pos:])
			if loc == nil {
				break
			}

			raw := comment[pos+loc[0] : pos+loc[1]]
			codeID := submatch(comment[pos:], loc, rule.CodeIDGroup)
			if codeID != "" {
				key := rule.Source + "\x00" + codeID + "\x00" + raw
				if _, dup := seen[key]; !dup {
					seen[key] = struct{}{}
					ref := models.CodeReference{
						Source: rule.Source,
						CodeID: codeID,
						Raw:    strings.TrimSpace(raw),
					}
					if rule.OptionsGroup > 0 {
						if optText := submatch(comment[pos:], loc, rule.OptionsGroup); optText != "" {
							ref.Options = parseOptions(optText)
						}
					}
					refs = append(refs, ref)
					if len(refs) >= opts.MaxMatches {
						return refs
					}
				}
			}

			// Advance past the match; at least one byte on empty matches
			// so the scan always terminates.
			if loc[1] > loc[0] {
				pos += loc[1]
			} else {
				pos += loc[1] + 1
			}
		}
	}

	return refs
}

// Auto-increment intent detection. Any negative match suppresses a
// positive result for the whole comment.
var (
	autoIncrementPositive = []*regexp.Regexp{
		regexp.MustCompile(`(?i)auto[_\s]?increment`),
		regexp.MustCompile(`(?i)\bidentity\b`),
		regexp.MustCompile(`(?i)\bserial\b`),
		regexp.MustCompile(`オートインクリメント`),
		regexp.MustCompile(`自動採番`),
	}
	autoIncrementNegative = []*regexp.Regexp{
		regexp.MustCompile(`(?i)no\s+auto[_\s]?increment`),
		regexp.MustCompile(`自動採番(?:しない|なし|不可|対象外)`),
		regexp.MustCompile(`手動採番`),
	}
)

// DetectAutoIncrement flags auto-increment intent in a comment.
func DetectAutoIncrement(comment string) bool {
	if comment == "" {
		return false
	}
	for _, neg := range autoIncrementNegative {
		if neg.MatchString(comment) {
			return false
		}
	}
	for _, pos := range autoIncrementPositive {
		if pos.MatchString(comment) {
			return true
		}
	}
	return false
}

func submatch(s string, loc []int, group int) string {
	i := 2 * group
	if i+1 >= len(loc) || loc[i] < 0 || loc[i+1] < 0 {
		return ""
	}
	return s[loc[i]:loc[i+1]]
}
