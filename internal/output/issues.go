package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ariadne-dev/ariadne/pkg/models"
)

// issueHeaders are the columns of the text and markdown issue tables.
var issueHeaders = []string{"Severity", "Type", "Location", "Confidence", "Message"}

// IssueView renders an analysis report as an issue table. In text mode the
// severity and confidence cells are colored when the formatter allows it.
type IssueView struct {
	Report *models.Report
}

// NewIssueView wraps a report for rendering.
func NewIssueView(rep *models.Report) *IssueView {
	return &IssueView{Report: rep}
}

func (v *IssueView) RenderData() any {
	return v.Report
}

func (v *IssueView) RenderText(w io.Writer, colored bool) error {
	title := fmt.Sprintf("Interaction Analysis (%d issues)", v.Report.Summary.Total)
	if v.Report.Document != "" {
		title = fmt.Sprintf("Interaction Analysis: %s (%d issues)", v.Report.Document, v.Report.Summary.Total)
	}

	if v.Report.Summary.Total == 0 {
		sec := &Section{Title: title, Content: "No issues found."}
		return sec.RenderText(w, colored)
	}

	rows := v.Report.Rows()
	if colored {
		for i, issue := range v.Report.Issues {
			rows[i][0] = SeverityColor(issue.Severity, rows[i][0])
			rows[i][3] = ConfidenceColor(issue.Confidence.String(), rows[i][3])
		}
	}

	table := NewTable(title, issueHeaders, rows, v.Report.FooterRow(), v.Report)
	if err := table.RenderText(w, colored); err != nil {
		return err
	}
	return v.renderDensity(w)
}

func (v *IssueView) RenderMarkdown(w io.Writer) error {
	return v.Report.RenderMarkdown(w)
}

// renderDensity prints the per-file density line for multi-file reports.
func (v *IssueView) renderDensity(w io.Writer) error {
	s := v.Report.Summary
	if s.Files < 2 {
		return nil
	}
	_, err := fmt.Fprintf(w, "Across %d files: %.1f issues/file (stddev %.1f)\n",
		s.Files, s.MeanPerFile, s.StddevPerFile)
	return err
}

// FixView renders the outcome of a fix pass.
type FixView struct {
	Document string
	Applied  []AppliedFix
	Failed   []models.Issue
}

// AppliedFix is one successfully applied fix, described for presentation.
type AppliedFix struct {
	FixerID   string `json:"fixerId"`
	IssueType string `json:"issueType"`
	AnchorID  string `json:"anchorId"`
}

func (v *FixView) RenderData() any {
	return map[string]any{
		"document": v.Document,
		"applied":  v.Applied,
		"failed":   v.Failed,
	}
}

func (v *FixView) RenderText(w io.Writer, colored bool) error {
	title := fmt.Sprintf("Fixes: %s", v.Document)
	rows := make([][]string, 0, len(v.Applied))
	for _, a := range v.Applied {
		rows = append(rows, []string{a.FixerID, a.IssueType, a.AnchorID})
	}
	table := NewTable(title, []string{"Fixer", "Issue", "Anchor"}, rows,
		[]string{"applied", strconv.Itoa(len(v.Applied)), strconv.Itoa(len(v.Failed)) + " failed"},
		nil)
	if err := table.RenderText(w, colored); err != nil {
		return err
	}
	for _, f := range v.Failed {
		line := fmt.Sprintf("not fixed: %s at %s (%s)", f.Type, f.Location.String(), f.Message)
		if colored {
			line = SeverityColor(models.SeverityWarning, line)
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func (v *FixView) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "## Fixes: %s\n\n", v.Document)
	if len(v.Applied) == 0 {
		fmt.Fprintln(w, "No fixes applied.")
		fmt.Fprintln(w)
		return nil
	}
	fmt.Fprintln(w, "| Fixer | Issue | Anchor |")
	fmt.Fprintln(w, "| --- | --- | --- |")
	for _, a := range v.Applied {
		fmt.Fprintf(w, "| %s | %s | %s |\n", a.FixerID, a.IssueType, a.AnchorID)
	}
	fmt.Fprintln(w)
	for _, f := range v.Failed {
		fmt.Fprintf(w, "- not fixed: %s at %s (%s)\n", f.Type, f.Location.String(), f.Message)
	}
	if len(v.Failed) > 0 {
		fmt.Fprintln(w)
	}
	return nil
}
