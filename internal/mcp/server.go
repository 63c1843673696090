package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"dsasheet/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server is the MCP server for the sheet tracker.
// It exposes tools, resources, and prompts so AI agents can browse and
// mutate the question sheet.
type Server struct {
	mcp *server.MCPServer

	// Services (injected from app layer)
	sheets  *service.SheetService
	backups *service.BackupService
	codec   service.SnapshotCodec
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Sheets  *service.SheetService
	Backups *service.BackupService
	Codec   service.SnapshotCodec
}

// New creates and configures a new MCP server with all tools and resources.
func New(ctx context.Context, deps Deps) *Server {
	s := &Server{
		sheets:  deps.Sheets,
		backups: deps.Backups,
		codec:   deps.Codec,
	}

	s.mcp = server.NewMCPServer(
		"dsasheet-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerTopicTools()
	s.registerQuestionTools()
	s.registerSheetTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func boolPtr(v bool) *bool { return &v }
