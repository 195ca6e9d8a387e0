// Package notes renders the Notes app: résumé sections built as markdown
// from the portfolio and converted to HTML.
package notes

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/trueloving/deskfolio/internal/content"
	"github.com/trueloving/deskfolio/internal/i18n"
)

// Section names a page of the Notes app.
type Section string

const (
	SectionMenu       Section = "menu"
	SectionEducation  Section = "education"
	SectionExperience Section = "experience"
	SectionSkills     Section = "skills"
	SectionCourses    Section = "courses"
)

// Sections lists the pages reachable from the menu, in menu order.
var Sections = []Section{SectionEducation, SectionExperience, SectionSkills, SectionCourses}

var ErrUnknownSection = errors.New("unknown notes section")

// ParseSection validates a section name.
func ParseSection(s string) (Section, error) {
	if Section(s) == SectionMenu {
		return SectionMenu, nil
	}
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

// Note is one rendered page.
type Note struct {
	Section  Section `json:"section"`
	Title    string  `json:"title"`
	Markdown string  `json:"markdown"`
	HTML     string  `json:"html"`
}

// Renderer turns portfolio sections into HTML.
type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{md: goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)}
}

// Render builds a section of p in locale.
func (r *Renderer) Render(p *content.Portfolio, locale string, section Section) (*Note, error) {
	var md string
	switch section {
	case SectionMenu:
		md = menuMarkdown(locale)
	case SectionEducation:
		md = educationMarkdown(p, locale)
	case SectionExperience:
		md = experienceMarkdown(p, locale)
	case SectionSkills:
		md = skillsMarkdown(p, locale)
	case SectionCourses:
		md = coursesMarkdown(p, locale)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(md), &buf); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", section, err)
	}
	return &Note{Section: section, Title: sectionTitle(locale, section), Markdown: md, HTML: buf.String()}, nil
}

func sectionTitle(locale string, s Section) string {
	if s == SectionMenu {
		return i18n.T(locale, "notes.title")
	}
	return i18n.T(locale, "notes.sections."+string(s))
}

func menuMarkdown(locale string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", i18n.T(locale, "notes.title"))
	for _, s := range Sections {
		fmt.Fprintf(&b, "- [%s](#%s): %s\n", sectionTitle(locale, s), s,
			i18n.T(locale, "notes.menu."+string(s)+"Description"))
	}
	return b.String()
}

func educationMarkdown(p *content.Portfolio, locale string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", i18n.T(locale, "notes.education.title"))
	for _, e := range p.Education {
		fmt.Fprintf(&b, "\n## %s\n\n**%s**\n\n", e.Degree, e.Institution)
		if e.Major != "" {
			fmt.Fprintf(&b, "- %s: %s\n", i18n.T(locale, "notes.education.major"), e.Major)
		}
		fmt.Fprintf(&b, "- %s: %s\n", i18n.T(locale, "notes.education.location"), e.Location)
		fmt.Fprintf(&b, "- %s: %s\n", i18n.T(locale, "notes.education.year"), e.Year)
		if e.Description != "" {
			fmt.Fprintf(&b, "\n%s\n", e.Description)
		}
		if len(e.RelevantCourses) > 0 {
			b.WriteString("\n")
			for _, c := range e.RelevantCourses {
				fmt.Fprintf(&b, "- %s\n", c)
			}
		}
	}
	return b.String()
}

func experienceMarkdown(p *content.Portfolio, locale string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", i18n.T(locale, "notes.experience.title"))
	for _, e := range p.Experience {
		fmt.Fprintf(&b, "\n## %s · %s\n\n", e.Title, e.Company)
		fmt.Fprintf(&b, "- %s: %s\n", i18n.T(locale, "notes.experience.period"), e.Period)
		fmt.Fprintf(&b, "- %s: %s\n", i18n.T(locale, "notes.experience.location"), e.Location)
		if e.Description != "" {
			fmt.Fprintf(&b, "\n%s\n", e.Description)
		}
		if len(e.Achievements) > 0 {
			fmt.Fprintf(&b, "\n### %s\n\n", i18n.T(locale, "notes.experience.achievements"))
			for _, a := range e.Achievements {
				fmt.Fprintf(&b, "- %s\n", a)
			}
		}
		if len(e.Technologies) > 0 {
			tech := make([]string, len(e.Technologies))
			for i, t := range e.Technologies {
				tech[i] = "`" + t + "`"
			}
			fmt.Fprintf(&b, "\n%s: %s\n", i18n.T(locale, "notes.experience.technologies"), strings.Join(tech, " "))
		}
	}
	return b.String()
}

func skillsMarkdown(p *content.Portfolio, locale string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", i18n.T(locale, "notes.skills.title"))
	years := i18n.T(locale, "notes.skills.years")
	for _, cat := range p.Skills {
		fmt.Fprintf(&b, "\n## %s\n\n", capitalize(cat.Category))
		b.WriteString("| Skill | Level | Experience |\n|---|---|---|\n")
		for _, s := range cat.Skills {
			exp := ""
			if s.Years > 0 {
				exp = fmt.Sprintf("%d %s", s.Years, years)
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", escapeCell(s.Name), s.Level, exp)
		}
	}
	return b.String()
}

func coursesMarkdown(p *content.Portfolio, locale string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", i18n.T(locale, "notes.sections.courses"))
	for _, c := range p.Courses {
		fmt.Fprintf(&b, "\n## %s\n\n**%s**, %s (%s)\n", c.Title, c.Institution, c.Location, c.Year)
		if c.Description != "" {
			fmt.Fprintf(&b, "\n%s\n", c.Description)
		}
	}
	return b.String()
}

func capitalize(s string) string {
	for i := range s {
		if i > 0 {
			return strings.ToUpper(s[:i]) + s[i:]
		}
	}
	return strings.ToUpper(s)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
