package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/styco/pkg/mcplog"
)

// loggingMiddleware writes one call log entry per tool call. Log failures
// never change the tool result.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)

			if werr := s.callLog.Write(mcplog.NewEntry(start, req, result, err)); werr != nil {
				s.logger.Warn("failed to write call log", "tool", req.Params.Name, "error", werr)
			}
			return result, err
		}
	}
}
