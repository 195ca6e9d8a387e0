// Package github imports a repository's directory tree from the GitHub API
// into a portfolio project file.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v66/github"

	"github.com/trueloving/deskfolio/internal/content"
	"github.com/trueloving/deskfolio/internal/progress"
)

// DefaultBranch is assumed when the repository does not report one.
const DefaultBranch = "main"

// RateLimitError is returned when GitHub refuses a request because the
// client has run out of API calls.
type RateLimitError struct {
	Remaining int
	Reset     time.Time
	// Authenticated is false when no token was configured.
	Authenticated bool
}

func (e *RateLimitError) Error() string {
	msg := fmt.Sprintf("github rate limit exceeded: %d calls remaining, resets at %s",
		e.Remaining, e.Reset.Local().Format(time.DateTime))
	if !e.Authenticated {
		msg += " (set GITHUB_TOKEN to raise the limit)"
	}
	return msg
}

// RepoInfo is the subset of repository metadata used to fill a project.
type RepoInfo struct {
	Name          string
	Description   string
	HTMLURL       string
	Homepage      string
	Language      string
	Topics        []string
	DefaultBranch string
}

// Result is a parsed repository.
type Result struct {
	Owner string
	Repo  string
	// Info is nil when repository metadata could not be fetched and the
	// tree came from the contents fallback.
	Info      *RepoInfo
	Structure content.ProjectStructure
	Stats     Stats
	// Fallback is set when the recursive tree API failed and the tree was
	// walked directory by directory instead.
	Fallback bool
}

// Parser fetches repository trees.
type Parser struct {
	client        *gogithub.Client
	exclude       []string
	reporter      progress.Reporter
	authenticated bool
	stats         Stats
}

// NewParser returns a parser for api.github.com. An empty token makes
// anonymous requests, which GitHub limits to 60 an hour.
func NewParser(token string, exclude []string) *Parser {
	client := gogithub.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &Parser{
		client:        client,
		exclude:       exclude,
		reporter:      progress.Nop{},
		authenticated: token != "",
	}
}

// SetBaseURL points the parser at another API root, such as GitHub
// Enterprise or a test server.
func (p *Parser) SetBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parsing base url: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	p.client.BaseURL = u
	return nil
}

// SetReporter sets where progress is reported. nil disables reporting.
func (p *Parser) SetReporter(r progress.Reporter) {
	if r == nil {
		r = progress.Nop{}
	}
	p.reporter = r
}

// ParseRepoArg splits "owner/repo", also accepting a github.com URL.
func ParseRepoArg(arg string) (owner, repo string, err error) {
	s := strings.TrimSpace(arg)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "github.com/")
	s = strings.TrimSuffix(strings.TrimSuffix(s, "/"), ".git")
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("expected owner/repo, got %q", arg)
	}
	return parts[0], parts[1], nil
}

// Parse fetches owner/repo's tree. It tries the recursive tree API first
// (three calls) and falls back to walking the contents API one directory
// at a time. Rate limit errors are returned immediately.
func (p *Parser) Parse(ctx context.Context, owner, repo string) (*Result, error) {
	p.stats = Stats{}
	p.reporter.Start(-1, fmt.Sprintf("Importing %s/%s", owner, repo))

	res := &Result{Owner: owner, Repo: repo}
	info, structure, err := p.parseTree(ctx, owner, repo)
	if err == nil {
		res.Info = info
		res.Structure = structure
		res.Stats = p.stats
		p.reporter.Finish(summary(res.Stats))
		return res, nil
	}

	var rl *RateLimitError
	if errors.As(err, &rl) || ctx.Err() != nil {
		p.reporter.Finish("failed")
		return nil, err
	}

	p.reporter.Update(p.stats.APICalls, "tree API failed, walking contents: "+err.Error())
	res.Info = info
	res.Fallback = true
	p.stats = Stats{}
	children, err := p.walk(ctx, owner, repo, "")
	if err != nil {
		p.reporter.Finish("failed")
		return nil, err
	}
	res.Structure = content.ProjectStructure{Root: repo, Children: childNodes(children)}
	res.Stats = p.stats
	p.reporter.Finish(summary(res.Stats))
	return res, nil
}

func summary(s Stats) string {
	return fmt.Sprintf("%d API calls, %d directories, %d files", s.APICalls, s.Directories, s.Files)
}

func (p *Parser) call(msg string) {
	p.stats.APICalls++
	p.reporter.Update(p.stats.APICalls, msg)
}

// parseTree runs repo info -> branch sha -> recursive tree. info is
// returned even when a later step fails.
func (p *Parser) parseTree(ctx context.Context, owner, repo string) (*RepoInfo, content.ProjectStructure, error) {
	p.call("fetching repository info")
	r, _, err := p.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, content.ProjectStructure{}, p.wrap("fetching repository", err)
	}
	info := &RepoInfo{
		Name:          r.GetName(),
		Description:   r.GetDescription(),
		HTMLURL:       r.GetHTMLURL(),
		Homepage:      r.GetHomepage(),
		Language:      r.GetLanguage(),
		Topics:        r.Topics,
		DefaultBranch: r.GetDefaultBranch(),
	}
	if info.DefaultBranch == "" {
		info.DefaultBranch = DefaultBranch
	}

	p.call("resolving " + info.DefaultBranch)
	branch, _, err := p.client.Repositories.GetBranch(ctx, owner, repo, info.DefaultBranch, 1)
	if err != nil {
		return info, content.ProjectStructure{}, p.wrap("fetching branch "+info.DefaultBranch, err)
	}
	sha := branch.GetCommit().GetSHA()
	if sha == "" {
		return info, content.ProjectStructure{}, fmt.Errorf("branch %s has no commit sha", info.DefaultBranch)
	}

	p.call("fetching tree " + shortSHA(sha))
	tree, _, err := p.client.Git.GetTree(ctx, owner, repo, sha, true)
	if err != nil {
		return info, content.ProjectStructure{}, p.wrap("fetching tree", err)
	}
	if tree.GetTruncated() {
		return info, content.ProjectStructure{}, errors.New("tree response was truncated")
	}

	entries := make([]Entry, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		entries = append(entries, Entry{Path: e.GetPath(), Type: e.GetType()})
	}
	structure, counts := BuildStructure(repo, entries, p.exclude)
	p.stats.Directories = counts.Directories
	p.stats.Files = counts.Files
	return info, structure, nil
}

// walk lists dir and recurses into its subdirectories.
func (p *Parser) walk(ctx context.Context, owner, repo, dir string) ([]*node, error) {
	label := dir
	if label == "" {
		label = "/"
	}
	p.call("listing " + label)
	_, items, _, err := p.client.Repositories.GetContents(ctx, owner, repo, dir, nil)
	if err != nil {
		return nil, p.wrap("listing "+label, err)
	}

	var children []*node
	for _, item := range items {
		itemPath := item.GetPath()
		if Excluded(itemPath, p.exclude) {
			continue
		}
		if item.GetType() == "dir" {
			sub, err := p.walk(ctx, owner, repo, itemPath)
			if err != nil {
				return nil, err
			}
			p.stats.Directories++
			children = append(children, &node{name: item.GetName(), typ: content.NodeDirectory, children: sub})
			continue
		}
		p.stats.Files++
		children = append(children, &node{name: item.GetName(), typ: content.NodeFile})
	}
	return children, nil
}

// wrap converts go-github's rate limit errors and adds context to the rest.
func (p *Parser) wrap(doing string, err error) error {
	var rl *gogithub.RateLimitError
	if errors.As(err, &rl) {
		return &RateLimitError{
			Remaining:     rl.Rate.Remaining,
			Reset:         rl.Rate.Reset.Time,
			Authenticated: p.authenticated,
		}
	}
	var abuse *gogithub.AbuseRateLimitError
	if errors.As(err, &abuse) {
		reset := time.Now()
		if d := abuse.GetRetryAfter(); d > 0 {
			reset = reset.Add(d)
		}
		return &RateLimitError{Reset: reset, Authenticated: p.authenticated}
	}
	return fmt.Errorf("%s: %w", doing, err)
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
