package mcpserver

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/ariadne-dev/ariadne/internal/analyzer"
	"github.com/ariadne-dev/ariadne/internal/classify"
	"github.com/ariadne-dev/ariadne/internal/fixer"
	"github.com/ariadne-dev/ariadne/internal/output"
	"github.com/ariadne-dev/ariadne/internal/service"
	"github.com/ariadne-dev/ariadne/pkg/ir"
	"github.com/ariadne-dev/ariadne/pkg/models"
)

// Tool input structures

// AnalyzeInput is the input for single-document analysis.
type AnalyzeInput struct {
	Path   string `json:"path" jsonschema:"Path to the interaction document to analyze."`
	Mode   string `json:"mode,omitempty" jsonschema:"Analysis mode: file, smart, or project. Defaults to the configured mode."`
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
	Budget int    `json:"budget,omitempty" jsonschema:"Approximate token budget for the response. Issues past the budget are trimmed, most severe kept. Default 128000."`
}

// ProjectInput is the input for directory-wide analysis.
type ProjectInput struct {
	Root   string `json:"root,omitempty" jsonschema:"Directory to analyze. Defaults to the current directory."`
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
	Budget int    `json:"budget,omitempty" jsonschema:"Approximate token budget for the response. Issues past the budget are trimmed, most severe kept. Default 128000."`
}

// FixInput adds fix-specific options.
type FixInput struct {
	AnalyzeInput
	Language     string `json:"language,omitempty" jsonschema:"Generator language for the fixed output: ir or javascript. Defaults to the document's own language."`
	SkipOptimize bool   `json:"skip_optimize,omitempty" jsonschema:"Leave superseded nodes and duplicate handlers in the fixed tree."`
}

// ExplainInput selects which issue types to describe.
type ExplainInput struct {
	Type   string `json:"type,omitempty" jsonschema:"Issue type to explain, e.g. mouse-only-click. Empty lists every known type."`
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// Helper functions

func getFormat(format string) output.Format {
	switch format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(data any, format output.Format) (string, error) {
	switch format {
	case output.FormatJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case output.FormatMarkdown:
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return "", err
		}
		return "```toon\n" + string(out) + "\n```", nil
	default:
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// Wire shapes

// analysisResult is the response shape shared by the analyze tools.
type analysisResult struct {
	Document string         `json:"document" toon:"document"`
	Ceiling  string         `json:"ceiling,omitempty" toon:"ceiling,omitempty"`
	Files    int            `json:"files,omitempty" toon:"files,omitempty"`
	Summary  models.Summary `json:"summary" toon:"summary"`
	Issues   []models.Issue `json:"issues" toon:"issues"`
	// Trimmed counts issues dropped to stay inside the token budget. The
	// summary still reflects the full set.
	Trimmed int `json:"trimmed,omitempty" toon:"trimmed,omitempty"`
}

func buildResult(report *models.Report, ceiling ir.Confidence, budget int) analysisResult {
	issues, trimmed := output.TrimIssuesToBudget(report.Issues, budget)
	return analysisResult{
		Document: report.Document,
		Ceiling:  ceiling.String(),
		Summary:  report.Summary,
		Issues:   issues,
		Trimmed:  trimmed,
	}
}

// fixResult is the response shape for fix_issues.
type fixResult struct {
	Document  string          `json:"document" toon:"document"`
	Applied   []fixer.Applied `json:"applied" toon:"applied"`
	Failed    []models.Issue  `json:"failed,omitempty" toon:"failed,omitempty"`
	Remaining analysisResult  `json:"remaining" toon:"remaining"`
	// Output is the fixed tree rendered by the selected generator.
	Output string `json:"output,omitempty" toon:"output,omitempty"`
}

// issueExplanation describes one issue type for explain_issue.
type issueExplanation struct {
	Type     string   `json:"type" toon:"type"`
	Analyzer string   `json:"analyzer" toon:"analyzer"`
	WCAG     []string `json:"wcag" toon:"wcag"`
	Fixable  bool     `json:"fixable" toon:"fixable"`
	Guidance string   `json:"guidance" toon:"guidance"`
}

// issueGuidance is remediation guidance per issue type, keyed by the
// strings the analyzers produce.
var issueGuidance = map[string]string{
	"mouse-only-click":           "A click handler has no keyboard equivalent reachable from the same element. Add a keydown handler for Enter and Space, or use a natively focusable element.",
	"positive-tabindex":          "A positive tabindex overrides the document's natural focus order and breaks as the page evolves. Use tabindex 0 to join the natural order, or -1 for programmatic focus only.",
	"static-aria-state":          "An interaction toggles visible state but never updates the matching ARIA attribute, so assistive technology announces stale state. Update aria-expanded, aria-pressed, or aria-checked in the same handler.",
	"focus-not-managed":          "An interaction removes or replaces the focused element without moving focus, stranding keyboard users. Call focus() on the element that takes over the interaction.",
	"unsolicited-context-change": "A focus or input event triggers navigation or a major content change the user did not request. Move the change to an explicit activation such as a click or submit.",
	"uncontrolled-timing":        "A timer hides or changes interactive content without a way to pause, stop, or extend it. Expose a control, or gate the change on user activity.",
}

// Tool handlers

func (s *Server) handleAnalyzeInteractions(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, any, error) {
	if input.Path == "" {
		return toolError("path is required")
	}
	format := getFormat(input.Format)

	analysis, err := s.svc.AnalyzeFile(ctx, input.Path, service.AnalyzeOptions{Mode: input.Mode})
	if err != nil {
		return toolError(err.Error())
	}

	result := buildResult(analysis.Report, analysis.Snapshot.Ceiling(analysis.Path), input.Budget)
	return toolResult(result, format)
}

func (s *Server) handleAnalyzeProject(ctx context.Context, req *mcp.CallToolRequest, input ProjectInput) (*mcp.CallToolResult, any, error) {
	root := input.Root
	if root == "" {
		root = "."
	}
	format := getFormat(input.Format)

	project, err := s.svc.AnalyzeProject(ctx, root, service.ProjectOptions{})
	if err != nil {
		return toolError(err.Error())
	}

	issues, trimmed := output.TrimIssuesToBudget(project.Report.Issues, input.Budget)
	result := analysisResult{
		Document: project.Root,
		Files:    len(project.Files),
		Summary:  project.Report.Summary,
		Issues:   issues,
		Trimmed:  trimmed,
	}
	return toolResult(result, format)
}

func (s *Server) handleFixIssues(ctx context.Context, req *mcp.CallToolRequest, input FixInput) (*mcp.CallToolResult, any, error) {
	if input.Path == "" {
		return toolError("path is required")
	}
	format := getFormat(input.Format)

	outcome, err := s.svc.FixIssues(ctx, input.Path, service.FixOptions{
		AnalyzeOptions: service.AnalyzeOptions{Mode: input.Mode},
		Language:       input.Language,
		SkipOptimize:   input.SkipOptimize,
	})
	if err != nil {
		return toolError(err.Error())
	}

	applied := outcome.Applied
	if applied == nil {
		applied = []fixer.Applied{}
	}
	result := fixResult{
		Document:  outcome.Analysis.Path,
		Applied:   applied,
		Failed:    outcome.Failed,
		Remaining: buildResult(outcome.Remaining, outcome.Analysis.Snapshot.Ceiling(outcome.Analysis.Path), input.Budget),
		Output:    outcome.Output,
	}
	return toolResult(result, format)
}

func (s *Server) handleExplainIssue(ctx context.Context, req *mcp.CallToolRequest, input ExplainInput) (*mcp.CallToolResult, any, error) {
	format := getFormat(input.Format)

	explanations := explainIssueTypes()
	if input.Type != "" {
		for _, e := range explanations {
			if e.Type == input.Type {
				return toolResult(e, format)
			}
		}
		return toolError("unknown issue type: " + input.Type)
	}

	result := struct {
		IssueTypes []issueExplanation `json:"issueTypes" toon:"issueTypes"`
	}{explanations}
	return toolResult(result, format)
}

// explainIssueTypes builds the issue type catalog from the analyzer and
// fixer registries, so the tool cannot drift from what the engine emits.
func explainIssueTypes() []issueExplanation {
	fixEngine := fixer.NewEngine(fixer.Defaults())

	var explanations []issueExplanation
	for _, a := range analyzer.Defaults(classify.Disabled{}) {
		for _, t := range a.IssueTypes() {
			explanations = append(explanations, issueExplanation{
				Type:     t,
				Analyzer: a.ID(),
				WCAG:     a.WCAG(),
				Fixable:  fixEngine.CanFix(models.Issue{Type: t}),
				Guidance: issueGuidance[t],
			})
		}
	}
	sort.Slice(explanations, func(i, j int) bool {
		return explanations[i].Type < explanations[j].Type
	})
	return explanations
}
