package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/styco/pkg/codeaction"
	"github.com/gnana997/styco/pkg/mcplog"
	"github.com/gnana997/styco/pkg/parser"
	"github.com/gnana997/styco/pkg/styco"
	"github.com/gnana997/styco/pkg/util"
)

// --- helpers ---

const boxText = `
        <div style={{
            marginTop: '12px'
        }}/>
    `

func testServer(t *testing.T, callLog *mcplog.Logger) *Server {
	t.Helper()
	pm := parser.NewParserManager(util.NopLogger())
	sc := codeaction.NewScanner(pm, util.NopLogger())
	t.Cleanup(func() {
		sc.Close()
		pm.Close()
	})
	r := styco.NewRefactorer(pm, nil, util.NopLogger())
	return NewServer("test", r, sc, styco.DefaultConfig(), callLog, util.NopLogger())
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	for _, tool := range s.tools() {
		if tool.Tool.Name != req.Params.Name {
			continue
		}
		result, err := tool.Handler(context.Background(), req)
		require.NoError(t, err)
		require.NotNil(t, result)
		return result
	}
	t.Fatalf("unknown tool: %s", req.Params.Name)
	return nil
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- extract_styled_component ---

func TestHandleExtract_Offset(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest(ToolExtract, map[string]any{
		"text":   boxText,
		"offset": float64(10),
		"name":   "Box",
	}))
	require.False(t, result.IsError, resultText(t, result))

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	assert.Equal(t, "Box", resp["name"])
	assert.Equal(t, "div", resp["tag"])
	assert.Equal(t, "const Box = styled.div`\n  margin-top: 12px;\n`;\n\n\n        <Box />\n    ", resp["text"])
	assert.Equal(t, false, resp["saved"])
	assert.Len(t, resp["operations"], 3, "insert, delete style, rename open tag")
}

func TestHandleExtract_LineColumn(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest(ToolExtract, map[string]any{
		"text":   boxText,
		"line":   float64(2),
		"column": float64(10),
		"name":   "Box",
	}))
	require.False(t, result.IsError, resultText(t, result))
	assert.Contains(t, resultText(t, result), `<Box />`)
}

func TestHandleExtract_ObjectSyntax(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest(ToolExtract, map[string]any{
		"text":          boxText,
		"offset":        float64(10),
		"name":          "Box",
		"object_syntax": true,
	}))
	require.False(t, result.IsError)

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	assert.Contains(t, resp["declaration"], "styled.div({")
}

func TestHandleExtract_Errors(t *testing.T) {
	s := testServer(t, nil)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing name", map[string]any{"text": boxText, "offset": float64(10)}, "name"},
		{"missing text", map[string]any{"name": "Box", "offset": float64(10)}, "text"},
		{"no cursor", map[string]any{"text": boxText, "name": "Box"}, "offset"},
		{"offset out of range", map[string]any{"text": boxText, "name": "Box", "offset": float64(9999)}, "outside"},
		{"no element", map[string]any{"text": "const x = 1;\n", "name": "Box", "offset": float64(3)}, "no element/attribute found"},
		{"invalid name", map[string]any{"text": boxText, "name": "1Box", "offset": float64(10)}, "invalid component name"},
		{"empty name", map[string]any{"text": boxText, "name": "  ", "offset": float64(10)}, "no component name given"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := callTool(t, s, makeRequest(ToolExtract, tc.args))
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tc.want)
		})
	}
}

// --- code_actions ---

func TestHandleCodeActions(t *testing.T) {
	s := testServer(t, nil)

	result := callTool(t, s, makeRequest(ToolCodeActions, map[string]any{"text": boxText, "line": float64(2)}))
	require.False(t, result.IsError)
	var actions []codeaction.Action
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &actions))
	require.Len(t, actions, 1)
	assert.Equal(t, codeaction.CommandName, actions[0].Command)

	result = callTool(t, s, makeRequest(ToolCodeActions, map[string]any{"text": boxText, "line": float64(3)}))
	require.False(t, result.IsError)
	assert.Equal(t, "[]", resultText(t, result))

	result = callTool(t, s, makeRequest(ToolCodeActions, map[string]any{"text": boxText, "line": float64(99)}))
	assert.True(t, result.IsError)
}

// --- scan_styles ---

func TestHandleScanStyles(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest(ToolScanStyles, map[string]any{"text": boxText, "path": "Box.tsx"}))
	require.False(t, result.IsError, resultText(t, result))

	var report codeaction.FileReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &report))
	require.Len(t, report.Sites, 1)
	assert.Equal(t, "div", report.Sites[0].Tag)
	assert.Equal(t, 2, report.Sites[0].Line)
}

func TestHandleScanStyles_SyntaxError(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest(ToolScanStyles, map[string]any{"text": "const x = <div"}))
	assert.True(t, result.IsError)
}

// --- middleware ---

func TestLoggingMiddleware(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	callLog, err := mcplog.NewLogger(path)
	require.NoError(t, err)
	s := testServer(t, callLog)

	handler := s.loggingMiddleware()(s.handleExtract)
	_, err = handler(context.Background(), makeRequest(ToolExtract, map[string]any{
		"text":   boxText + strings.Repeat(" ", 64),
		"offset": float64(10),
		"name":   "Box",
	}))
	require.NoError(t, err)
	_, err = handler(context.Background(), makeRequest(ToolExtract, map[string]any{"text": "x"}))
	require.NoError(t, err)
	require.NoError(t, callLog.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var first, second mcplog.Entry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, ToolExtract, first.Tool)
	assert.False(t, first.ToolError)
	assert.Contains(t, first.Params, "text_len")
	assert.True(t, second.ToolError)
}
