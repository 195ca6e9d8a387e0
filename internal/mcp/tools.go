package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/trueloving/deskfolio/internal/notes"
)

var localeParam = mcp.WithString("locale",
	mcp.Description("Content language (default en)"),
	mcp.Enum("en", "zh-CN"),
)

// searchPortfolioTool defines the search_portfolio MCP tool.
var searchPortfolioTool = mcp.NewTool("search_portfolio",
	mcp.WithDescription("Fuzzy-search the portfolio launcher: apps, projects, skills, experience, education and links."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Search text, as typed into Spotlight"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
	localeParam,
)

// getProfileTool defines the get_profile MCP tool.
var getProfileTool = mcp.NewTool("get_profile",
	mcp.WithDescription("Get the portfolio owner's profile, contact details, social links and skills."),
	localeParam,
)

// listProjectsTool defines the list_projects MCP tool.
var listProjectsTool = mcp.NewTool("list_projects",
	mcp.WithDescription("List featured projects with their ids, descriptions and tech stacks."),
)

// getProjectTool defines the get_project MCP tool.
var getProjectTool = mcp.NewTool("get_project",
	mcp.WithDescription("Get one project including its repository file tree."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Project id as returned by list_projects"),
	),
)

// getNotesTool defines the get_notes MCP tool.
var getNotesTool = mcp.NewTool("get_notes",
	mcp.WithDescription("Get a section of the Notes app as markdown."),
	mcp.WithString("section",
		mcp.Required(),
		mcp.Description("Notes section"),
		mcp.Enum(string(notes.SectionMenu), string(notes.SectionEducation), string(notes.SectionExperience),
			string(notes.SectionSkills), string(notes.SectionCourses)),
	),
	localeParam,
)

// askPortfolioTool defines the ask_portfolio MCP tool. It is only
// registered when a knowledge index is available.
var askPortfolioTool = mcp.NewTool("ask_portfolio",
	mcp.WithDescription("Semantic search over the portfolio's indexed documents. Returns the closest passages."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("Natural language question"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of passages (default 5)"),
	),
)
