package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"snag_capture": {
		def:     captureToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCapture },
	},
	"snag_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"snag_get": {
		def:     getToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGet },
	},
	"snag_set_status": {
		def:     setStatusToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSetStatus },
	},
	"snag_next": {
		def:     nextToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNext },
	},
	"snag_sweep": {
		def:     sweepToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSweep },
	},
}

// Tool definitions

var captureToolDef = mcp.NewTool("snag_capture",
	mcp.WithDescription("Capture a note into a project's record store. Writes a markdown record (and optional PNG) under <project>/.snag/."),
	mcp.WithString("project", mcp.Required(), mcp.Description("Absolute project directory path")),
	mcp.WithString("description", mcp.Required(), mcp.Description("Short description; becomes the record title and id slug")),
	mcp.WithString("details", mcp.Description("Free-form body stored under the Details heading")),
	mcp.WithString("tags", mcp.Description("Comma-separated tags")),
	mcp.WithString("image_path", mcp.Description("Path to a PNG file to attach as the capture screenshot")),
)

var listToolDef = mcp.NewTool("snag_list",
	mcp.WithDescription("List a project's captured records, newest first."),
	mcp.WithString("project", mcp.Required(), mcp.Description("Absolute project directory path")),
	mcp.WithString("status", mcp.Description("Filter by status: open or resolved")),
)

var getToolDef = mcp.NewTool("snag_get",
	mcp.WithDescription("Fetch a single record by id, including its raw markdown text."),
	mcp.WithString("project", mcp.Required(), mcp.Description("Absolute project directory path")),
	mcp.WithString("id", mcp.Required(), mcp.Description("Record id (the file base name)")),
)

var setStatusToolDef = mcp.NewTool("snag_set_status",
	mcp.WithDescription("Set a record's status (open or resolved). Only the status line of the record file is rewritten."),
	mcp.WithString("project", mcp.Required(), mcp.Description("Absolute project directory path")),
	mcp.WithString("id", mcp.Required(), mcp.Description("Record id")),
	mcp.WithString("status", mcp.Required(), mcp.Description("New status value")),
)

var nextToolDef = mcp.NewTool("snag_next",
	mcp.WithDescription("Return the oldest open record, scanning the given project or every configured project in order."),
	mcp.WithString("project", mcp.Description("Absolute project directory path; omit to scan all configured projects")),
)

var sweepToolDef = mcp.NewTool("snag_sweep",
	mcp.WithDescription("Run the retention sweep over every configured project using the configured cleanup policy."),
)

// NewServer creates a new MCP server with snag tools registered.
func NewServer(cfgDir, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"snag",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(cfgDir)
	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(cfgDir, version string) error {
	return server.ServeStdio(NewServer(cfgDir, version))
}
