package models

import (
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/ariadne-dev/ariadne/pkg/ir"
)

// Report aggregates one analysis pass for presentation.
type Report struct {
	Document string  `json:"document,omitempty"`
	Version  int     `json:"version,omitempty"`
	Issues   []Issue `json:"issues"`
	Summary  Summary `json:"summary"`
}

// Summary carries aggregate counts and per-file density statistics.
type Summary struct {
	Total        int            `json:"total"`
	BySeverity   map[string]int `json:"by_severity"`
	ByConfidence map[string]int `json:"by_confidence"`
	ByType       map[string]int `json:"by_type"`
	Files        int            `json:"files"`

	// MeanPerFile and StddevPerFile describe issue density across files.
	MeanPerFile   float64 `json:"mean_per_file"`
	StddevPerFile float64 `json:"stddev_per_file"`
}

// NewReport builds a report with summary statistics from a sorted issue set.
func NewReport(document string, version int, issues []Issue) *Report {
	summary := Summary{
		Total:        len(issues),
		BySeverity:   make(map[string]int),
		ByConfidence: make(map[string]int),
		ByType:       make(map[string]int),
	}

	perFile := make(map[string]int)
	for _, i := range issues {
		summary.BySeverity[string(i.Severity)]++
		summary.ByConfidence[i.Confidence.String()]++
		summary.ByType[i.Type]++
		perFile[i.Location.File]++
	}
	summary.Files = len(perFile)

	if len(perFile) > 0 {
		counts := make([]float64, 0, len(perFile))
		for _, c := range perFile {
			counts = append(counts, float64(c))
		}
		summary.MeanPerFile, summary.StddevPerFile = stat.MeanStdDev(counts, nil)
		if len(counts) == 1 {
			summary.StddevPerFile = 0
		}
	}

	return &Report{Document: document, Version: version, Issues: issues, Summary: summary}
}

// RenderData returns the report itself for JSON serialization.
func (r *Report) RenderData() any { return r }

// RenderMarkdown writes the report as a markdown issue table.
func (r *Report) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "## Interaction analysis: %d issue(s)\n\n", r.Summary.Total)
	if r.Summary.Total == 0 {
		return nil
	}
	fmt.Fprintln(w, "| Severity | Type | Location | Confidence | Message |")
	fmt.Fprintln(w, "| --- | --- | --- | --- | --- |")
	for _, i := range r.Issues {
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
			i.Severity, i.Type, i.Location.String(), i.Confidence, i.Message)
	}
	fmt.Fprintln(w)
	return nil
}

// Rows returns tabular cells for text rendering.
func (r *Report) Rows() [][]string {
	rows := make([][]string, 0, len(r.Issues))
	for _, i := range r.Issues {
		rows = append(rows, []string{
			string(i.Severity),
			i.Type,
			i.Location.String(),
			i.Confidence.String(),
			i.Message,
		})
	}
	return rows
}

// FooterRow summarizes counts for the text table footer.
func (r *Report) FooterRow() []string {
	high := r.Summary.ByConfidence[ir.ConfidenceHigh.String()]
	return []string{
		"total",
		strconv.Itoa(r.Summary.Total),
		strconv.Itoa(r.Summary.Files) + " file(s)",
		strconv.Itoa(high) + " high-confidence",
		"",
	}
}
