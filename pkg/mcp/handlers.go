package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/styco/pkg/codeaction"
	"github.com/gnana997/styco/pkg/document"
	"github.com/gnana997/styco/pkg/styco"
)

// extractResponse is the extract tool result.
type extractResponse struct {
	*styco.Result
	Text string `json:"text"`
}

func (s *Server) handleExtract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path := req.GetString("path", "")

	offset, err := cursorOffset(req, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cfg := s.config
	args := req.GetArguments()
	cfg.OrderStyleByName = boolArg(args, "order_by_name", cfg.OrderStyleByName)
	cfg.ObjectSyntax = boolArg(args, "object_syntax", cfg.ObjectSyntax)
	cfg.InsertImportStatement = boolArg(args, "insert_import", cfg.InsertImportStatement)
	cfg.SaveAfterExecute = false

	doc := document.NewBuffer(path, text)
	result, err := s.refactorer.Run(ctx, styco.Invocation{
		Document: doc,
		Offset:   offset,
		Prompt:   styco.StaticName(name),
		Config:   cfg,
	})
	if err != nil {
		msg := styco.UserMessage(err)
		if msg == "" {
			msg = styco.ErrEmptyName.Error()
		}
		return mcp.NewToolResultError(msg), nil
	}

	return jsonResult(extractResponse{Result: result, Text: result.Text})
}

func (s *Server) handleCodeActions(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	line := req.GetInt("line", 0)

	lineText, err := document.NewLineIndex(text).LineText(line)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	actions := codeaction.Provide(lineText, s.config)
	if actions == nil {
		actions = []codeaction.Action{}
	}
	return jsonResult(actions)
}

func (s *Server) handleScanStyles(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.scanner == nil {
		return mcp.NewToolResultError("scanning is not available"), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := s.scanner.ScanSource(req.GetString("path", ""), []byte(text))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(report)
}

// cursorOffset reads "offset", falling back to "line" and "column".
func cursorOffset(req mcp.CallToolRequest, text string) (int, error) {
	args := req.GetArguments()
	if _, ok := args["offset"]; ok {
		offset := req.GetInt("offset", -1)
		if offset < 0 || offset > len(text) {
			return 0, fmt.Errorf("offset %d outside the document", offset)
		}
		return offset, nil
	}

	_, hasLine := args["line"]
	_, hasColumn := args["column"]
	if !hasLine || !hasColumn {
		return 0, fmt.Errorf("either offset or line and column are required")
	}
	pos := document.Position{Line: req.GetInt("line", 0), Column: req.GetInt("column", 0)}
	return document.NewLineIndex(text).OffsetAt(pos)
}

func boolArg(args map[string]any, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
