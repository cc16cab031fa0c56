package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariadne-dev/ariadne/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP (Model Context Protocol) server for LLM tool integration",
	Long: `Starts an MCP server over stdio transport that exposes ariadne's
analysis and fix pipeline as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "ariadne": {
        "command": "ariadne",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_interactions  Accessibility issues in one document
  - analyze_project       Issues across a directory tree
  - fix_issues            Automated fixes with re-analysis
  - explain_issue         Issue type reference with WCAG mapping`,
	RunE: runMCP,
}

var mcpManifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Print the MCP server manifest (server.json)",
	RunE:  runMCPManifest,
}

func init() {
	mcpCmd.AddCommand(mcpManifestCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	server := mcpserver.NewServer(version, svc)
	return server.Run(cmd.Context())
}

func runMCPManifest(cmd *cobra.Command, args []string) error {
	manifest, err := mcpserver.GenerateManifest(version)
	if err != nil {
		return err
	}
	fmt.Println(string(manifest))
	return nil
}
