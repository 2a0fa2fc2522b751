package mcpserver

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/vigil/internal/models"
	"github.com/starford/vigil/internal/testutil"
)

func testServer(t *testing.T, events ...models.Event) *Server {
	t.Helper()

	db := testutil.TestJournal(t)
	for _, ev := range events {
		if err := db.Append(ev); err != nil {
			t.Fatal(err)
		}
	}
	return New(db)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call
	// the handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "last_activity":
		result, err = srv.lastActivity(ctx, req)
	case "recent_activity":
		result, err = srv.recentActivity(ctx, req)
	case "notebook_summary":
		result, err = srv.notebookSummary(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func sampleEvents() []models.Event {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return []models.Event{
		{Path: "a.ipynb", Source: models.SourceHook, ObservedAt: base, RecordedAt: base},
		{Path: "b.ipynb", Source: models.SourcePoll, ObservedAt: base.Add(time.Minute), RecordedAt: base.Add(time.Minute)},
		{Path: "a.ipynb", Source: models.SourceWatch, ObservedAt: base.Add(2 * time.Minute), RecordedAt: base.Add(2 * time.Minute)},
	}
}

func TestLastActivity(t *testing.T) {
	srv := testServer(t, sampleEvents()...)

	res := callTool(t, srv, "last_activity", nil)
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	text := resultText(res)
	if !strings.Contains(text, "a.ipynb") || !strings.Contains(text, "watch") {
		t.Errorf("last_activity = %q, want latest event", text)
	}
}

func TestLastActivity_EmptyJournal(t *testing.T) {
	srv := testServer(t)

	res := callTool(t, srv, "last_activity", nil)
	if !res.IsError {
		t.Fatalf("expected error result for empty journal, got %q", resultText(res))
	}
}

func TestRecentActivity(t *testing.T) {
	srv := testServer(t, sampleEvents()...)

	res := callTool(t, srv, "recent_activity", map[string]interface{}{"limit": float64(2)})
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	text := resultText(res)
	if !strings.Contains(text, "b.ipynb") {
		t.Errorf("recent_activity missing second event: %q", text)
	}
	if strings.Count(text, `"path"`) != 2 {
		t.Errorf("limit not applied: %q", text)
	}
}

func TestRecentActivity_DefaultLimit(t *testing.T) {
	srv := testServer(t, sampleEvents()...)

	res := callTool(t, srv, "recent_activity", nil)
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	if got := strings.Count(resultText(res), `"path"`); got != 3 {
		t.Errorf("events = %d, want 3", got)
	}
}

func TestNotebookSummary(t *testing.T) {
	srv := testServer(t, sampleEvents()...)

	res := callTool(t, srv, "notebook_summary", nil)
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	text := resultText(res)
	if !strings.Contains(text, "a.ipynb") || !strings.Contains(text, "b.ipynb") {
		t.Errorf("summary = %q", text)
	}
	if !strings.Contains(text, `"events": 2`) {
		t.Errorf("summary missing per-notebook count: %q", text)
	}
}

func TestNotebookSummary_EmptyJournal(t *testing.T) {
	srv := testServer(t)

	res := callTool(t, srv, "notebook_summary", nil)
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	if got := resultText(res); got != "no activity recorded" {
		t.Errorf("summary = %q", got)
	}
}

func TestMeasurementResource(t *testing.T) {
	srv := testServer(t)

	contents, err := srv.readMeasurementResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("resource error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("unexpected contents type %T", contents[0])
	}
	if tc.URI != "vigil://measurement" || tc.MIMEType != "text/markdown" {
		t.Errorf("resource meta = %+v", tc)
	}
	if !strings.Contains(tc.Text, "presence") {
		t.Error("contract should describe the presence field")
	}
}

func TestMCPServerAccessor(t *testing.T) {
	srv := testServer(t)
	if srv.MCPServer() == nil {
		t.Fatal("MCPServer() returned nil")
	}
}
