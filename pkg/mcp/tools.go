package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Tool names.
const (
	ToolExtract     = "extract_styled_component"
	ToolCodeActions = "code_actions"
	ToolScanStyles  = "scan_styles"
)

func extractTool() mcp.Tool {
	return mcp.NewTool(ToolExtract,
		mcp.WithDescription("Extract the inline style object of the JSX element at a position into a styled component declaration and rename the element to use it. Returns the edits and the updated text; nothing is written to disk."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Full document text")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the new component, a valid identifier")),
		mcp.WithString("path", mcp.Description("Document path. Selects the grammar and locates package.json for the import")),
		mcp.WithNumber("offset", mcp.Description("Cursor byte offset. Takes precedence over line/column")),
		mcp.WithNumber("line", mcp.Description("Cursor line, 1-based")),
		mcp.WithNumber("column", mcp.Description("Cursor column, 1-based")),
		mcp.WithBoolean("order_by_name", mcp.Description("Sort style properties by name")),
		mcp.WithBoolean("object_syntax", mcp.Description("Emit styled.tag({...}) instead of a template literal")),
		mcp.WithBoolean("insert_import", mcp.Description("Add the styled import when it is missing")),
	)
}

func codeActionsTool() mcp.Tool {
	return mcp.NewTool(ToolCodeActions,
		mcp.WithDescription("List the refactor actions offered on a line of a document."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Full document text")),
		mcp.WithNumber("line", mcp.Required(), mcp.Description("Line, 1-based")),
	)
}

func scanStylesTool() mcp.Tool {
	return mcp.NewTool(ToolScanStyles,
		mcp.WithDescription("Find every element with a literal inline style in a document."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Full document text")),
		mcp.WithString("path", mcp.Description("Document path, selects the grammar")),
	)
}
