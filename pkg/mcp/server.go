// Package mcp exposes the extract refactor and style site scanning as MCP
// tools over stdio.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/styco/pkg/codeaction"
	"github.com/gnana997/styco/pkg/mcplog"
	"github.com/gnana997/styco/pkg/styco"
)

// Server is the styco MCP server.
type Server struct {
	mcpServer  *server.MCPServer
	refactorer *styco.Refactorer
	scanner    *codeaction.Scanner
	config     styco.Config
	callLog    *mcplog.Logger // nil disables call logging
	logger     *slog.Logger
}

// NewServer creates a server. cfg supplies the defaults for options a tool
// call leaves unset.
func NewServer(version string, r *styco.Refactorer, sc *codeaction.Scanner, cfg styco.Config, callLog *mcplog.Logger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		refactorer: r,
		scanner:    sc,
		config:     cfg,
		callLog:    callLog,
		logger:     logger,
	}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if callLog != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer("styco", version, opts...)

	s.mcpServer.AddTools(s.tools()...)
	return s
}

// tools pairs every tool definition with its handler.
func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: extractTool(), Handler: s.handleExtract},
		{Tool: codeActionsTool(), Handler: s.handleCodeActions},
		{Tool: scanStylesTool(), Handler: s.handleScanStyles},
	}
}

// ServeStdio serves on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	s.logger.Info("mcp server listening on stdio")
	return server.ServeStdio(s.mcpServer)
}
