package github

import (
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/trueloving/deskfolio/internal/content"
)

// Entry is one item of a flattened repository tree.
type Entry struct {
	Path string
	// Type is "tree" for directories. Anything else is treated as a file.
	Type string
}

// Stats counts the work done by an import.
type Stats struct {
	APICalls    int `json:"apiCalls"`
	Directories int `json:"directories"`
	Files       int `json:"files"`
}

type node struct {
	name     string
	typ      content.NodeType
	children []*node
}

func (n *node) toFileNode() content.FileNode {
	fn := content.FileNode{Name: n.name, Type: n.typ}
	for _, c := range n.children {
		fn.Children = append(fn.Children, c.toFileNode())
	}
	return fn
}

func childNodes(children []*node) []content.FileNode {
	out := make([]content.FileNode, 0, len(children))
	for _, c := range children {
		out = append(out, c.toFileNode())
	}
	return out
}

// BuildStructure nests flat tree entries under root. Entries are processed
// in path order; missing parent directories are created on demand. Paths
// matching an exclude pattern, or lying under a directory that does, are
// dropped. Only Directories and Files are set on the returned stats.
func BuildStructure(root string, entries []Entry, exclude []string) (content.ProjectStructure, Stats) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	var stats Stats
	top := &node{name: root, typ: content.NodeDirectory}
	dirs := map[string]*node{"": top}

	var ensureDir func(p string) *node
	ensureDir = func(p string) *node {
		if n, ok := dirs[p]; ok {
			return n
		}
		parent := ensureDir(parentPath(p))
		n := &node{name: path.Base(p), typ: content.NodeDirectory}
		parent.children = append(parent.children, n)
		dirs[p] = n
		stats.Directories++
		return n
	}

	for _, e := range sorted {
		p := strings.Trim(e.Path, "/")
		if p == "" || Excluded(p, exclude) {
			continue
		}
		if e.Type == "tree" {
			ensureDir(p)
			continue
		}
		parent := ensureDir(parentPath(p))
		parent.children = append(parent.children, &node{name: path.Base(p), typ: content.NodeFile})
		stats.Files++
	}

	return content.ProjectStructure{Root: root, Children: childNodes(top.children)}, stats
}

func parentPath(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return ""
}

// Excluded reports whether p, or any directory above it, matches one of
// the patterns. A pattern without a slash also matches a bare file or
// directory name at any depth.
func Excluded(p string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	for cur := p; cur != ""; cur = parentPath(cur) {
		if matchesAny(cur, patterns) {
			return true
		}
	}
	return false
}

func matchesAny(p string, patterns []string) bool {
	base := path.Base(p)
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, p); err == nil && matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, err := doublestar.Match(pattern, base); err == nil && matched {
				return true
			}
		}
	}
	return false
}
