package github

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trueloving/deskfolio/internal/content"
)

// ProjectOptions override what the repository reports about itself.
type ProjectOptions struct {
	Title       string
	Description string
	RepoURL     string
	LiveURL     string
	TechStack   []string
}

// ProjectFromRepo turns a parsed repository into a project entry. Empty
// options fall back to the repository's own metadata. Images are left
// empty for the owner to fill in.
func ProjectFromRepo(res *Result, opts ProjectOptions) content.Project {
	info := res.Info
	if info == nil {
		info = &RepoInfo{}
	}

	p := content.Project{
		ID:          strings.ToLower(res.Repo),
		Title:       firstNonEmpty(opts.Title, info.Name, res.Repo),
		Description: firstNonEmpty(opts.Description, info.Description),
		RepoURL:     firstNonEmpty(opts.RepoURL, info.HTMLURL, fmt.Sprintf("https://github.com/%s/%s", res.Owner, res.Repo)),
		LiveURL:     firstNonEmpty(opts.LiveURL, info.Homepage),
		TechStack:   opts.TechStack,
		Structure:   content.ProjectStructure{Root: res.Repo, Children: res.Structure.Children},
		Images:      []content.Image{},
	}
	if len(p.TechStack) == 0 {
		p.TechStack = defaultTechStack(info)
	}
	if p.Structure.Children == nil {
		p.Structure.Children = []content.FileNode{}
	}
	return p
}

// defaultTechStack is the primary language followed by the topics.
func defaultTechStack(info *RepoInfo) []string {
	stack := []string{}
	if info.Language != "" {
		stack = append(stack, info.Language)
	}
	for _, t := range info.Topics {
		if !strings.EqualFold(t, info.Language) {
			stack = append(stack, t)
		}
	}
	return stack
}

// SaveProject writes p as <dir>/<id>.json and returns the path.
func SaveProject(dir string, p content.Project) (string, error) {
	if p.ID == "" {
		return "", fmt.Errorf("project has no id")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encoding project: %w", err)
	}
	path := filepath.Join(dir, p.ID+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
