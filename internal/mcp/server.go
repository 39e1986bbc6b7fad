// Package mcp exposes project health, recommendations and automation as
// Model Context Protocol tools over stdio.
package mcp

import (
	"context"
	"io"

	gomcp "github.com/mark3labs/mcp-go/server"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/service"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "toolthinker"

// Server is the MCP server.
type Server struct {
	mcpServer *gomcp.MCPServer
	svc       *service.Service
}

// NewServer creates a server backed by svc and registers every tool.
func NewServer(svc *service.Service, version string) *Server {
	s := &Server{
		mcpServer: gomcp.NewMCPServer(ServerName, version, gomcp.WithToolCapabilities(false)),
		svc:       svc,
	}
	s.registerProjectTools()
	s.registerAutomationTools()
	return s
}

// Run serves JSON-RPC over r and w until ctx is cancelled or r is closed.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	return gomcp.NewStdioServer(s.mcpServer).Listen(ctx, r, w)
}
