package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/trueloving/deskfolio/internal/content"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	lib, err := content.NewLibrary(content.Defaults(), "en", []string{"en", "zh-CN"})
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	return NewServer(lib)
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty result")
	}
	switch c := result.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content %T", result.Content[0])
	return ""
}

type fixedRetriever struct{ passages []string }

func (f fixedRetriever) Retrieve(_ context.Context, _ string, k int) ([]string, error) {
	if k < len(f.passages) {
		return f.passages[:k], nil
	}
	return f.passages, nil
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"search_portfolio", searchPortfolioTool, "search_portfolio"},
		{"get_profile", getProfileTool, "get_profile"},
		{"list_projects", listProjectsTool, "list_projects"},
		{"get_project", getProjectTool, "get_project"},
		{"get_notes", getNotesTool, "get_notes"},
		{"ask_portfolio", askPortfolioTool, "ask_portfolio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := setupTestServer(t)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.index == nil || srv.notes == nil {
		t.Error("index and notes renderer should be built")
	}
	if srv.knowledge != nil {
		t.Error("knowledge should be off until SetKnowledge")
	}
}

func TestHandleSearchPortfolio(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	proj := srv.library.Get("en").Projects[0]

	t.Run("finds project", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": proj.Title}

		result, err := srv.handleSearchPortfolio(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if text := resultText(t, result); !strings.Contains(text, "project:"+proj.ID) {
			t.Errorf("expected project in results, got:\n%s", text)
		}
	})

	t.Run("no match skips pinned actions", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "zzzzqqq"}

		result, err := srv.handleSearchPortfolio(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "No results") || strings.Contains(text, "action:terminal") {
			t.Errorf("expected no results, got:\n%s", text)
		}
	})

	t.Run("limit", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "a", "limit": 1}

		result, err := srv.handleSearchPortfolio(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text := resultText(t, result); strings.Contains(text, "\n2. ") {
			t.Errorf("limit ignored:\n%s", text)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleSearchPortfolio(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})
}

func TestHandleGetProfile(t *testing.T) {
	srv := setupTestServer(t)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"locale": "zh-CN"}

	result, err := srv.handleGetProfile(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out struct {
		Profile content.Profile `json:"profile"`
		Contact content.Contact `json:"contact"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	want := srv.library.Get("zh-CN")
	if out.Profile.Name != want.Profile.Name || out.Contact.Email != want.Contact.Email {
		t.Errorf("got %+v", out)
	}
}

func TestHandleProjects(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	result, err := srv.handleListProjects(ctx, mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var list []projectSummary
	if err := json.Unmarshal([]byte(resultText(t, result)), &list); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(list) == 0 {
		t.Fatal("expected projects")
	}

	t.Run("existing project", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"id": list[0].ID}

		result, err := srv.handleGetProject(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var p content.Project
		if err := json.Unmarshal([]byte(resultText(t, result)), &p); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		if p.ID != list[0].ID || p.Structure.Root == "" {
			t.Errorf("got %+v", p)
		}
	})

	t.Run("missing project", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"id": "nope"}

		result, err := srv.handleGetProject(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for unknown project")
		}
	})
}

func TestHandleGetNotes(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"section": "experience"}
	result, err := srv.handleGetNotes(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exp := srv.library.Get("en").Experience
	if len(exp) > 0 && !strings.Contains(resultText(t, result), exp[0].Company) {
		t.Errorf("notes missing %q", exp[0].Company)
	}

	req.Params.Arguments = map[string]any{"section": "hobbies"}
	result, err = srv.handleGetNotes(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error for unknown section")
	}
}

func TestAskPortfolio(t *testing.T) {
	srv := setupTestServer(t)
	srv.SetKnowledge(fixedRetriever{passages: []string{"I build desktop-style portfolios.", "I like Rust."}})
	if srv.knowledge == nil {
		t.Fatal("SetKnowledge did not enable knowledge")
	}

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"question": "what do you build?", "limit": 1}
	result, err := srv.handleAskPortfolio(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "desktop-style") || strings.Contains(text, "Rust") {
		t.Errorf("got:\n%s", text)
	}
}
