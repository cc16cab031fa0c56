// Package analyzer runs the pattern analyzers over merged IR trees. Each
// analyzer is a pure fold over the tree and the workspace snapshot; the
// engine isolates failures so one misbehaving analyzer cannot take down a
// pass.
package analyzer

import (
	"fmt"

	"github.com/ariadne-dev/ariadne/internal/workspace"
	"github.com/ariadne-dev/ariadne/pkg/ir"
	"github.com/ariadne-dev/ariadne/pkg/models"
)

// Analyzer inspects a tree in its workspace context and reports issues.
// Analyze must be side-effect free and deterministic: the engine may call
// it any number of times against the same inputs and expects identical
// results.
type Analyzer interface {
	// ID identifies the analyzer in issue provenance and diagnostics.
	ID() string
	// WCAG lists the success criteria the analyzer checks.
	WCAG() []string
	// IssueTypes lists the issue type strings the analyzer can produce.
	IssueTypes() []string
	// Analyze folds over the tree and returns findings.
	Analyze(tree []*ir.ActionNode, snap *workspace.Snapshot) []models.Issue
}

// Engine executes a fixed registry of analyzers. The registry is built
// once at session start; there is no runtime discovery.
type Engine struct {
	analyzers     []Analyzer
	minConfidence ir.Confidence
}

// Option configures an Engine.
type Option func(*Engine)

// WithMinConfidence drops issues below the threshold from results.
func WithMinConfidence(min ir.Confidence) Option {
	return func(e *Engine) { e.minConfidence = min }
}

// NewEngine builds an engine over the given analyzers, in registration
// order.
func NewEngine(analyzers []Analyzer, opts ...Option) *Engine {
	e := &Engine{analyzers: analyzers, minConfidence: ir.ConfidenceLow}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyzers returns the registered analyzers in order.
func (e *Engine) Analyzers() []Analyzer { return e.analyzers }

// Run executes every analyzer against the tree, caps each issue at the
// ceiling, filters below the confidence threshold, and returns one
// deterministically ordered issue set. A panicking analyzer contributes a
// single analyzer-failed diagnostic instead of aborting the run.
func (e *Engine) Run(root string, tree []*ir.ActionNode, snap *workspace.Snapshot) []models.Issue {
	ceiling := snap.Ceiling(root)

	var issues []models.Issue
	for _, a := range e.analyzers {
		found, err := e.runOne(a, tree, snap)
		if err != nil {
			issues = append(issues, models.Issue{
				Type:       models.IssueAnalyzerFailed,
				Severity:   models.SeverityInfo,
				Message:    fmt.Sprintf("analyzer %s failed: %v", a.ID(), err),
				Confidence: ir.ConfidenceHigh,
				AnalyzerID: a.ID(),
				Location:   ir.Location{File: root},
			})
			continue
		}
		for _, issue := range found {
			issue.AnalyzerID = a.ID()
			issues = append(issues, issue.CapConfidence(ceiling))
		}
	}

	issues = models.FilterByConfidence(issues, e.minConfidence)
	models.SortIssues(issues)
	return issues
}

// runOne invokes a single analyzer, converting panics into errors.
func (e *Engine) runOne(a Analyzer, tree []*ir.ActionNode, snap *workspace.Snapshot) (issues []models.Issue, err error) {
	defer func() {
		if r := recover(); r != nil {
			issues = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return a.Analyze(tree, snap), nil
}
