// Package mcpserver exposes outline extraction to MCP clients over stdio.
package mcpserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/version"
)

// Server is the MCP server for docoutline.
type Server struct {
	orch   *pipeline.Orchestrator
	log    *slog.Logger
	server *mcp.Server
}

// NewServer creates an MCP server whose tools run on orch.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger) *Server {
	impl := &mcp.Implementation{
		Name:    "docoutline",
		Version: version.Version,
	}

	s := &Server{
		orch:   orch,
		log:    log,
		server: mcp.NewServer(impl, nil),
	}
	s.registerTools()
	return s
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("mcp server starting", "transport", "stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
