package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariadne-dev/ariadne/internal/output"
	"github.com/ariadne-dev/ariadne/internal/service"
)

var fixCmd = &cobra.Command{
	Use:   "fix <path>",
	Short: "Apply automated fixes to a document's interaction issues",
	Long: `Analyzes a document, applies every fixable issue, optimizes the fixed
tree, and re-analyzes it. The fixed tree is rendered in the document's own
language unless --language selects another generator.

Examples:
  ariadne fix src/menu.ir.json              # Print the fixed document
  ariadne fix --write src/menu.ir.json      # Rewrite the document in place
  ariadne fix --language javascript app.js  # Emit a JavaScript snippet
  ariadne fix --skip-optimize app.ir.json   # Keep superseded nodes for diffing`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().StringP("format", "f", "text", "Output format for the fix report: text, json, markdown, toon")
	fixCmd.Flags().StringP("output", "o", "", "Write the fixed document to file")
	fixCmd.Flags().String("mode", "", "Analysis mode: file, smart, or project (default from config)")
	fixCmd.Flags().String("language", "", "Generator language for the fixed output (default: the document's language)")
	fixCmd.Flags().Bool("skip-optimize", false, "Leave superseded nodes and duplicate handlers in the fixed tree")
	fixCmd.Flags().Bool("write", false, "Rewrite the document in place with the fixed output")

	rootCmd.AddCommand(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) error {
	path := args[0]
	mode, _ := cmd.Flags().GetString("mode")
	language, _ := cmd.Flags().GetString("language")
	skipOptimize, _ := cmd.Flags().GetBool("skip-optimize")
	write, _ := cmd.Flags().GetBool("write")
	outputFile := getOutputFile(cmd)

	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	outcome, err := svc.FixIssues(cmd.Context(), path, service.FixOptions{
		AnalyzeOptions: service.AnalyzeOptions{Mode: mode},
		Language:       language,
		SkipOptimize:   skipOptimize,
	})
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(cmd)), "", svc.Config().Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	applied := make([]output.AppliedFix, 0, len(outcome.Applied))
	for _, a := range outcome.Applied {
		applied = append(applied, output.AppliedFix{
			FixerID:   a.FixerID,
			IssueType: a.IssueType,
			AnchorID:  a.AnchorID,
		})
	}
	view := &output.FixView{
		Document: path,
		Applied:  applied,
		Failed:   outcome.Failed,
	}
	if err := formatter.Output(view); err != nil {
		return err
	}

	if remaining := outcome.Remaining.Summary.Total; remaining > 0 {
		formatter.Warning("%d issue(s) remain after fixing", remaining)
	}

	return writeFixed(formatter, outcome.Output, path, outputFile, write)
}

// writeFixed routes the generated document to the requested destination.
// Without --write or --output the fixed source goes to stdout, after the
// report.
func writeFixed(formatter *output.Formatter, fixed, path, outputFile string, write bool) error {
	if fixed == "" {
		formatter.Warning("no generator covers this document's language; fixed tree not rendered")
		return nil
	}

	switch {
	case write:
		if err := os.WriteFile(path, []byte(fixed), 0o644); err != nil {
			return fmt.Errorf("failed to rewrite %q: %w", path, err)
		}
		formatter.Success("Rewrote %s", path)
	case outputFile != "":
		if err := os.WriteFile(outputFile, []byte(fixed), 0o644); err != nil {
			return fmt.Errorf("failed to write %q: %w", outputFile, err)
		}
		formatter.Success("Wrote fixed document to %s", outputFile)
	default:
		fmt.Println(fixed)
	}
	return nil
}
