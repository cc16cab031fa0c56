package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ariadne-dev/ariadne/internal/service"
)

// Server wraps the MCP server and registers the interaction analysis tools.
type Server struct {
	server *mcp.Server
	svc    *service.Service
}

// NewServer creates a new MCP server exposing the analysis and fix tools
// over the given service.
func NewServer(version string, svc *service.Service) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "ariadne",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server, svc: svc}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// registerTools adds the interaction analysis tools to the server.
func (s *Server) registerTools() {
	// Single-document analysis
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_interactions",
		Description: describeAnalyze(),
	}, s.handleAnalyzeInteractions)

	// Whole-directory analysis
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_project",
		Description: describeProject(),
	}, s.handleAnalyzeProject)

	// Automated fixes
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fix_issues",
		Description: describeFix(),
	}, s.handleFixIssues)

	// Issue type reference
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "explain_issue",
		Description: describeExplain(),
	}, s.handleExplainIssue)
}
