package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/trueloving/deskfolio/internal/content"
	"github.com/trueloving/deskfolio/internal/i18n"
	"github.com/trueloving/deskfolio/internal/notes"
	"github.com/trueloving/deskfolio/internal/spotlight"
)

// Retriever returns passages relevant to a question.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]string, error)
}

func (s *Server) locale(request mcp.CallToolRequest) string {
	return i18n.Normalize(request.GetString("locale", ""), s.library.DefaultLocale())
}

// handleSearchPortfolio ranks launcher items against the query. Unlike the
// Spotlight panel it lists only real matches, without the pinned actions.
func (s *Server) handleSearchPortfolio(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	results := spotlight.Rank(s.index.Items(s.locale(request)), query)
	if len(results) > limit {
		results = results[:limit]
	}
	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No results for %q.", query)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n", len(results)))
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("\n%d. %s", i+1, r.Title))
		if r.Subtitle != "" {
			sb.WriteString(" - " + r.Subtitle)
		}
		sb.WriteString(fmt.Sprintf("\n   id: %s, category: %s", r.ID, r.Category))
		if r.Action.Target != "" {
			sb.WriteString(", target: " + r.Action.Target)
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetProfile returns the profile, contacts and skills as JSON.
func (s *Server) handleGetProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := s.library.Get(s.locale(request))
	return jsonResult(map[string]any{
		"profile": p.Profile,
		"social":  p.Social,
		"contact": p.Contact,
		"resume":  p.Resume,
		"skills":  p.Skills,
	})
}

type projectSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	RepoURL     string   `json:"repoUrl"`
	LiveURL     string   `json:"liveUrl,omitempty"`
	TechStack   []string `json:"techStack"`
}

// handleListProjects lists projects without their file trees.
func (s *Server) handleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects := s.library.Get(s.library.DefaultLocale()).Projects
	out := make([]projectSummary, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectSummary{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			RepoURL:     p.RepoURL,
			LiveURL:     p.LiveURL,
			TechStack:   p.TechStack,
		})
	}
	return jsonResult(out)
}

// handleGetProject returns a single project.
func (s *Server) handleGetProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}
	p, err := s.library.Project(s.library.DefaultLocale(), id)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("No project with id %q. Use list_projects to see available ids.", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to load project: %v", err)), nil
	}
	return jsonResult(p)
}

// handleGetNotes renders a Notes section as markdown.
func (s *Server) handleGetNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("section")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: section"), nil
	}
	section, err := notes.ParseSection(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("unknown section %q", raw)), nil
	}
	locale := s.locale(request)
	note, err := s.notes.Render(s.library.Get(locale), locale, section)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render notes: %v", err)), nil
	}
	return mcp.NewToolResultText(note.Markdown), nil
}

// handleAskPortfolio returns the knowledge passages closest to a question.
func (s *Server) handleAskPortfolio(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}
	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	passages, err := s.knowledge.Retrieve(ctx, question, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(passages) == 0 {
		return mcp.NewToolResultText("No passages found. The knowledge index may be empty."), nil
	}

	var sb strings.Builder
	for i, p := range passages {
		sb.WriteString(fmt.Sprintf("--- Passage %d ---\n%s\n\n", i+1, strings.TrimSpace(p)))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
