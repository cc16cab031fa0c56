package analyzer

import (
	"github.com/ariadne-dev/ariadne/internal/classify"
	"github.com/ariadne-dev/ariadne/internal/workspace"
	"github.com/ariadne-dev/ariadne/pkg/ir"
	"github.com/ariadne-dev/ariadne/pkg/models"
)

// Timing flags time-driven behavior the user cannot pause: meta refresh,
// and repeating timers that mutate content whose naming suggests a
// carousel or notification region. The naming part is a heuristic and
// goes through a pluggable classifier; detections stay LOW confidence.
type Timing struct {
	classifier classify.Classifier
}

// NewTiming returns the timing analyzer. A nil classifier disables the
// name heuristic, leaving only the structural meta-refresh check.
func NewTiming(classifier classify.Classifier) *Timing {
	if classifier == nil {
		classifier = classify.Disabled{}
	}
	return &Timing{classifier: classifier}
}

func (*Timing) ID() string { return "timing" }

func (*Timing) WCAG() []string { return []string{"2.2.1", "2.2.2"} }

func (*Timing) IssueTypes() []string { return []string{"uncontrolled-timing"} }

func (t *Timing) Analyze(tree []*ir.ActionNode, snap *workspace.Snapshot) []models.Issue {
	var issues []models.Issue
	ir.Walk(tree, func(n *ir.ActionNode) bool {
		if n.Type != ir.ActionTiming {
			return true
		}

		switch n.Event {
		case "refresh":
			issues = append(issues, models.Issue{
				Type:       "uncontrolled-timing",
				Severity:   models.SeverityError,
				Message:    "page refreshes on a timer the user cannot stop",
				WCAG:       []string{"2.2.1"},
				Confidence: ir.ConfidenceHigh,
				AnchorID:   n.StableID(),
				Location:   n.Location,
			})
		case "interval":
			target := t.mutatedMovingRegion(n)
			if target == nil {
				return true
			}
			issues = append(issues, models.Issue{
				Type:       "uncontrolled-timing",
				Severity:   models.SeverityWarning,
				Message:    "repeating timer updates moving content with no visible pause control",
				WCAG:       []string{"2.2.2"},
				Confidence: ir.ConfidenceLow,
				AnchorID:   n.StableID(),
				Location:   n.Location,
				Element:    string(snap.Canonical(target.Element)),
				RelatedIDs: []string{target.StableID()},
			})
		}
		return true
	})
	return issues
}

// mutatedMovingRegion finds a DOM mutation inside the timer's handler
// whose element naming classifies as moving or transient content.
func (t *Timing) mutatedMovingRegion(timer *ir.ActionNode) *ir.ActionNode {
	if timer.Handler == nil {
		return nil
	}
	var found *ir.ActionNode
	ir.Walk(timer.Handler.Body, func(n *ir.ActionNode) bool {
		if n.Type != ir.ActionDOMMutation || n.Element.IsZero() {
			return true
		}
		for _, name := range []string{n.Element.Binding, n.Element.Selector, n.Element.ID} {
			if name == "" {
				continue
			}
			category, _ := t.classifier.Classify(name)
			if category == classify.CategoryCarousel || category == classify.CategoryNotification {
				found = n
				return false
			}
		}
		return true
	})
	return found
}
