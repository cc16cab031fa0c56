package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariadne-dev/ariadne/internal/output"
	"github.com/ariadne-dev/ariadne/internal/scheduler"
	"github.com/ariadne-dev/ariadne/pkg/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch for document changes and re-analyze",
	Long: `Watches a directory for changes to supported documents and re-analyzes
each changed file against its cross-file context. Rapid edits are
debounced; only the latest version of a document is analyzed.

Examples:
  ariadne watch                  # Watch the current directory
  ariadne watch src/ --mode file # Re-analyze changed files in isolation`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("mode", "", "Analysis mode: file, smart, or project (default from config)")
	watchCmd.Flags().Duration("debounce", 500*time.Millisecond, "Quiet period before a changed file is re-analyzed")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	mode, _ := cmd.Flags().GetString("mode")
	debounce, _ := cmd.Flags().GetDuration("debounce")

	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	absPath, err := filepath.Abs(getPaths(args)[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	if mode == "" {
		mode = svc.Config().Analysis.Mode
	}

	sched := scheduler.New(scheduler.Config{
		Mode:           scheduler.Mode(mode),
		Debounce:       time.Duration(svc.Config().Analysis.DebounceMs) * time.Millisecond,
		Engine:         svc.Engine(),
		Registry:       svc.Registry(),
		BuilderOptions: svc.BuilderOptions(),
		Publish:        publishResult,
	})
	defer sched.Shutdown()

	watcher, err := watch.NewWatcher(absPath, svc.Config(), svc.Registry(), debounce)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()

	watcher.SetCallback(func(changedPath string) {
		source, err := os.ReadFile(changedPath)
		if err != nil {
			color.Red("Read error: %v", err)
			return
		}
		sched.Save(changedPath, source)
	})

	// Handle Ctrl+C
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nStopping watch...")
		cancel()
	}()

	return watcher.Start(ctx)
}

// publishResult prints one analysis pass, most severe issues first.
func publishResult(pub scheduler.Publication) {
	if len(pub.Issues) == 0 {
		color.Green("No issues found (v%d)", pub.Version)
		return
	}

	color.Yellow("%d issue(s) (v%d):", len(pub.Issues), pub.Version)
	for _, issue := range pub.Issues {
		fmt.Printf("  %s %s %s: %s\n",
			output.SeverityColor(issue.Severity, string(issue.Severity)),
			issue.Location.String(),
			issue.Type,
			issue.Message,
		)
	}
}
