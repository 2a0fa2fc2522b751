// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the Vigil activity journal for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/vigil/internal/journal"
)

// Server wraps the MCP server with Vigil tools.
type Server struct {
	mcp *server.MCPServer
	db  journal.Store
}

// New creates a new MCP server with all Vigil tools registered. The journal
// is expected to be opened read-only; the service process owns the schema.
func New(db journal.Store) *Server {
	s := &Server{db: db}

	s.mcp = server.NewMCPServer(
		"Vigil",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("last_activity",
		mcp.WithDescription("Get the most recently recorded notebook activity event."),
	), s.lastActivity)

	s.mcp.AddTool(mcp.NewTool("recent_activity",
		mcp.WithDescription("List recent notebook activity events, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum events to return (default 50)")),
	), s.recentActivity)

	s.mcp.AddTool(mcp.NewTool("notebook_summary",
		mcp.WithDescription("Per-notebook activity: event counts and last-seen stamps."),
	), s.notebookSummary)

	// Resource: emitted measurement contract.
	s.mcp.AddResource(
		mcp.NewResource("vigil://measurement", "Measurement Contract",
			mcp.WithResourceDescription("Shape of the point Vigil writes to the time-series database."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readMeasurementResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) lastActivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ev, err := s.db.Last()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("no activity recorded: %v", err)), nil
	}
	out, _ := json.MarshalIndent(ev, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) recentActivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 50)

	events, err := s.db.Recent(limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(events) == 0 {
		return mcp.NewToolResultText("no activity recorded"), nil
	}
	out, _ := json.MarshalIndent(events, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) notebookSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := s.db.Summary()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(summary) == 0 {
		return mcp.NewToolResultText("no activity recorded"), nil
	}
	out, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readMeasurementResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "vigil://measurement",
			MIMEType: "text/markdown",
			Text:     MeasurementContract,
		},
	}, nil
}
