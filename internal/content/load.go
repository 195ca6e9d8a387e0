package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when a requested project does not exist.
	ErrNotFound = errors.New("not found")
	// ErrLocaleNotFound is returned when no <locale>.yaml exists.
	ErrLocaleNotFound = errors.New("locale not found")
)

const (
	projectsGlob    = "projects/*.json"
	backgroundsFile = "backgrounds.yaml"
)

// Load reads <locale>.yaml and every projects/*.json from fsys.
func Load(fsys fs.FS, locale string) (*Portfolio, error) {
	data, err := fs.ReadFile(fsys, locale+".yaml")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", locale, ErrLocaleNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s.yaml: %w", locale, err)
	}

	var p Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s.yaml: %w", locale, err)
	}
	p.Locale = locale

	projects, err := LoadProjects(fsys)
	if err != nil {
		return nil, err
	}
	p.Projects = projects

	return &p, nil
}

// LoadProjects reads projects/*.json in file name order. Project ids must be
// present and unique.
func LoadProjects(fsys fs.FS) ([]Project, error) {
	paths, err := fs.Glob(fsys, projectsGlob)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	sort.Strings(paths)

	projects := make([]Project, 0, len(paths))
	seen := make(map[string]string)
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var proj Project
		if err := json.Unmarshal(data, &proj); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if proj.ID == "" {
			return nil, fmt.Errorf("project %s has no id", path)
		}
		if prev, dup := seen[proj.ID]; dup {
			return nil, fmt.Errorf("duplicate project id %q in %s and %s", proj.ID, prev, path)
		}
		seen[proj.ID] = path
		projects = append(projects, proj)
	}
	return projects, nil
}

// LoadBackgrounds reads backgrounds.yaml. A missing file yields an empty config.
func LoadBackgrounds(fsys fs.FS) (BackgroundConfig, error) {
	var cfg BackgroundConfig
	data, err := fs.ReadFile(fsys, backgroundsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", backgroundsFile, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", backgroundsFile, err)
	}
	return cfg, nil
}
