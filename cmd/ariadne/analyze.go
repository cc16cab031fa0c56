package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariadne-dev/ariadne/internal/output"
	"github.com/ariadne-dev/ariadne/internal/progress"
	"github.com/ariadne-dev/ariadne/internal/service"
	"github.com/ariadne-dev/ariadne/pkg/models"
)

var analyzeCmd = &cobra.Command{
	Use:     "analyze [path...]",
	Aliases: []string{"a"},
	Short:   "Analyze interaction documents for accessibility issues",
	Long: `Analyzes interaction documents for accessibility issues in their event
handler graphs. A directory argument scans every supported document under
it; a file argument analyzes that document with cross-file context per the
configured mode.

Examples:
  ariadne analyze                       # Analyze the current directory
  ariadne analyze src/menu.ir.json      # Analyze one document
  ariadne analyze --mode file app.js    # Skip cross-file discovery
  ariadne analyze -f json . > out.json  # Machine-readable report`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringP("format", "f", "text", "Output format: text, json, markdown, toon")
	analyzeCmd.Flags().StringP("output", "o", "", "Write output to file")
	analyzeCmd.Flags().String("mode", "", "Analysis mode: file, smart, or project (default from config)")
	analyzeCmd.Flags().String("fail-on", "", "Exit non-zero when issues at or above this severity exist: error or warning")

	rootCmd.AddCommand(analyzeCmd)
}

// getFormat returns the format flag value from the command.
func getFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("format")
	return format
}

// getOutputFile returns the output file path from the command.
func getOutputFile(cmd *cobra.Command) string {
	outputFile, _ := cmd.Flags().GetString("output")
	return outputFile
}

// getPaths returns paths from args, defaulting to ["."]
func getPaths(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	mode, _ := cmd.Flags().GetString("mode")
	failOn, _ := cmd.Flags().GetString("fail-on")

	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	format := output.ParseFormat(getFormat(cmd))
	formatter, err := output.NewFormatter(format, getOutputFile(cmd), svc.Config().Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var reports []*models.Report
	for _, path := range getPaths(args) {
		report, err := analyzePath(cmd, svc, path, mode, format)
		if err != nil {
			return err
		}
		reports = append(reports, report)
		if err := formatter.Output(output.NewIssueView(report)); err != nil {
			return err
		}
	}

	return checkFailOn(failOn, reports)
}

// analyzePath dispatches a single argument to file or project analysis.
func analyzePath(cmd *cobra.Command, svc *service.Service, path, mode string, format output.Format) (*models.Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}

	if !info.IsDir() {
		analysis, err := svc.AnalyzeFile(cmd.Context(), path, service.AnalyzeOptions{Mode: mode})
		if err != nil {
			return nil, err
		}
		return analysis.Report, nil
	}

	tracker := progress.NewQuiet("Analyzing")
	if format == output.FormatText {
		tracker = progress.NewSpinner("Analyzing " + path)
	}
	project, err := svc.AnalyzeProject(cmd.Context(), path, service.ProjectOptions{
		OnProgress: tracker.Tick,
	})
	if err != nil {
		tracker.FinishError(err)
		return nil, err
	}
	tracker.FinishSuccess()
	return project.Report, nil
}

// checkFailOn turns findings into a non-zero exit for CI use.
func checkFailOn(failOn string, reports []*models.Report) error {
	if failOn == "" {
		return nil
	}

	var errors, warnings int
	for _, r := range reports {
		errors += r.Summary.BySeverity[string(models.SeverityError)]
		warnings += r.Summary.BySeverity[string(models.SeverityWarning)]
	}

	switch failOn {
	case "error":
		if errors > 0 {
			return fmt.Errorf("%d error(s) found", errors)
		}
	case "warning":
		if errors+warnings > 0 {
			return fmt.Errorf("%d error(s) and %d warning(s) found", errors, warnings)
		}
	default:
		return fmt.Errorf("unknown --fail-on severity %q (use error or warning)", failOn)
	}
	return nil
}
