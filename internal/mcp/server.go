// Package mcp exposes the portfolio to AI agents as Model Context Protocol
// tools over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/trueloving/deskfolio/internal/content"
	"github.com/trueloving/deskfolio/internal/notes"
	"github.com/trueloving/deskfolio/internal/spotlight"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that answers questions about the portfolio.
type Server struct {
	library   *content.Library
	index     *spotlight.Index
	notes     *notes.Renderer
	knowledge Retriever
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server over lib.
func NewServer(lib *content.Library) *Server {
	s := &Server{
		library: lib,
		index:   spotlight.NewIndex(lib),
		notes:   notes.NewRenderer(),
	}

	s.mcp = server.NewMCPServer(
		"deskfolio",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchPortfolioTool, s.handleSearchPortfolio)
	s.mcp.AddTool(getProfileTool, s.handleGetProfile)
	s.mcp.AddTool(listProjectsTool, s.handleListProjects)
	s.mcp.AddTool(getProjectTool, s.handleGetProject)
	s.mcp.AddTool(getNotesTool, s.handleGetNotes)
}

// SetKnowledge enables the ask_portfolio tool backed by r.
func (s *Server) SetKnowledge(r Retriever) {
	if r == nil || s.knowledge != nil {
		return
	}
	s.knowledge = r
	s.mcp.AddTool(askPortfolioTool, s.handleAskPortfolio)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
