package models

import (
	"sort"

	"github.com/ariadne-dev/ariadne/pkg/ir"
)

// Severity grades an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// rank orders severities for deterministic output, most severe first.
func (s Severity) rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	}
	return 3
}

// Issue types the engine itself produces. Analyzer-defined types are
// free-form strings; these three are reserved for internal failures.
const (
	IssueAnalyzerFailed = "analyzer-failed"
	IssueParseFailed    = "parse-failed"
	IssueFixFailed      = "fix-failed"
)

// Issue is one finding produced by an analyzer. Issues are immutable
// values: a pass regenerates the whole set rather than patching entries,
// so stale findings cannot linger across document versions.
type Issue struct {
	Type       string        `json:"type"`
	Severity   Severity      `json:"severity"`
	Message    string        `json:"message"`
	WCAG       []string      `json:"wcag,omitempty"`
	Confidence ir.Confidence `json:"confidence"`
	AnalyzerID string        `json:"analyzerId,omitempty"`

	// Anchor identifies the node the issue is attached to.
	AnchorID string      `json:"anchorId"`
	Location ir.Location `json:"location"`
	Element  string      `json:"element,omitempty"`

	// RelatedIDs lists additional nodes that informed the finding.
	RelatedIDs []string `json:"relatedIds,omitempty"`
}

// CapConfidence returns a copy of the issue with confidence lowered to the
// ceiling when it exceeds it.
func (i Issue) CapConfidence(ceiling ir.Confidence) Issue {
	i.Confidence = i.Confidence.Cap(ceiling)
	return i
}

// SortIssues orders issues by severity (most severe first), then file,
// line, column, and type so repeated runs produce identical output.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(a, b int) bool {
		ia, ib := issues[a], issues[b]
		if ia.Severity.rank() != ib.Severity.rank() {
			return ia.Severity.rank() < ib.Severity.rank()
		}
		if ia.Location.File != ib.Location.File {
			return ia.Location.File < ib.Location.File
		}
		if ia.Location.Line != ib.Location.Line {
			return ia.Location.Line < ib.Location.Line
		}
		if ia.Location.Column != ib.Location.Column {
			return ia.Location.Column < ib.Location.Column
		}
		return ia.Type < ib.Type
	})
}

// FilterByConfidence drops issues below the threshold.
func FilterByConfidence(issues []Issue, min ir.Confidence) []Issue {
	out := make([]Issue, 0, len(issues))
	for _, i := range issues {
		if i.Confidence >= min {
			out = append(out, i)
		}
	}
	return out
}
