package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariadne-dev/ariadne/internal/service"
	"github.com/ariadne-dev/ariadne/pkg/config"
)

var (
	cfgFile      string
	verbose      bool
	noCache      bool
	pprofPrefix  string
	pprofCPUFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "ariadne",
	Short: "Interaction accessibility analysis CLI",
	Long: `Ariadne analyzes the event handler graph of interaction documents for
accessibility issues: mouse-only handlers, broken tab order, stale ARIA
state, lost focus, unsolicited context changes, and uncontrolled timing.

Supports: interaction interchange documents (.ir.json), JavaScript, HTML`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if pprofPrefix != "" {
			f, err := os.Create(pprofPrefix + ".cpu.pprof")
			if err != nil {
				return fmt.Errorf("failed to create CPU profile: %w", err)
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				return fmt.Errorf("failed to start CPU profile: %w", err)
			}
			pprofCPUFile = f
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if pprofPrefix != "" {
			pprof.StopCPUProfile()
			if pprofCPUFile != nil {
				pprofCPUFile.Close()
				color.Green("CPU profile written to %s.cpu.pprof", pprofPrefix)
			}

			memFile, err := os.Create(pprofPrefix + ".mem.pprof")
			if err != nil {
				return fmt.Errorf("failed to create memory profile: %w", err)
			}
			defer memFile.Close()

			runtime.GC()
			if err := pprof.WriteHeapProfile(memFile); err != nil {
				return fmt.Errorf("failed to write memory profile: %w", err)
			}
			color.Green("Memory profile written to %s.mem.pprof", pprofPrefix)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (TOML, YAML, or JSON)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Disable the parsed tree cache")
	rootCmd.PersistentFlags().StringVar(&pprofPrefix, "pprof", "", "Enable pprof profiling (creates <prefix>.cpu.pprof and <prefix>.mem.pprof)")
}

// loadConfig resolves the effective configuration from the --config flag
// or the standard search locations, then applies global flag overrides.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %q: %w", cfgFile, err)
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}

	if noCache {
		cfg.Cache.Enabled = false
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}

// newService builds the analysis service from the effective configuration.
func newService() (*service.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return service.New(service.WithConfig(cfg))
}
