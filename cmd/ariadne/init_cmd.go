package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pelletier/go-toml"
	"github.com/spf13/cobra"

	"github.com/ariadne-dev/ariadne/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new ariadne configuration file",
	Long: `Creates a new ariadne.toml configuration file in the current directory
with sensible defaults. Use --output to specify a different location.

Examples:
  ariadne init                          # Creates ariadne.toml in current directory
  ariadne init -o .ariadne/ariadne.toml # Creates config in .ariadne directory
  ariadne init --force                  # Overwrite existing config file`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringP("output", "o", "ariadne.toml", "Output file path")
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")
	force, _ := cmd.Flags().GetBool("force")

	// Check if file already exists
	if _, err := os.Stat(outputPath); err == nil && !force {
		return fmt.Errorf("config file %q already exists (use --force to overwrite)", outputPath)
	}

	// Create parent directory if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}

	// Generate default config content
	content, err := generateDefaultConfig()
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	color.Green("Created %s", outputPath)
	fmt.Println("Edit this file to customize analysis settings.")
	return nil
}

func generateDefaultConfig() (string, error) {
	cfg := config.DefaultConfig()

	content, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config to TOML: %w", err)
	}

	var buf strings.Builder
	buf.WriteString("# Ariadne CLI Configuration\n")
	buf.WriteString("# Documentation: https://github.com/ariadne-dev/ariadne\n\n")
	buf.Write(content)

	return buf.String(), nil
}
