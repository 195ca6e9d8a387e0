package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
)

//go:embed all:defaults
var defaultFS embed.FS

// Defaults returns the content compiled into the binary.
func Defaults() fs.FS {
	sub, err := fs.Sub(defaultFS, "defaults")
	if err != nil {
		panic(err)
	}
	return sub
}

// Source returns the content filesystem for dir, or the compiled-in
// defaults when dir is empty.
func Source(dir string) fs.FS {
	if dir == "" {
		return Defaults()
	}
	return os.DirFS(dir)
}

// Library holds the portfolio for every locale.
type Library struct {
	defaultLocale string
	locales       []string
	portfolios    map[string]*Portfolio
	backgrounds   BackgroundConfig
}

// NewLibrary loads each locale from fsys. The default locale must exist;
// other locales without a file reuse the default portfolio.
func NewLibrary(fsys fs.FS, defaultLocale string, locales []string) (*Library, error) {
	def, err := Load(fsys, defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("loading default locale: %w", err)
	}

	lib := &Library{
		defaultLocale: defaultLocale,
		locales:       []string{defaultLocale},
		portfolios:    map[string]*Portfolio{defaultLocale: def},
	}
	for _, loc := range locales {
		if loc == defaultLocale {
			continue
		}
		p, err := Load(fsys, loc)
		if errors.Is(err, ErrLocaleNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		lib.portfolios[loc] = p
		lib.locales = append(lib.locales, loc)
	}

	lib.backgrounds, err = LoadBackgrounds(fsys)
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// DefaultLocale returns the locale used when a request names none.
func (l *Library) DefaultLocale() string { return l.defaultLocale }

// Locales returns the locales that have their own content.
func (l *Library) Locales() []string { return l.locales }

// Get returns the portfolio for locale, falling back to the default locale.
func (l *Library) Get(locale string) *Portfolio {
	if p, ok := l.portfolios[locale]; ok {
		return p
	}
	return l.portfolios[l.defaultLocale]
}

// Project looks up a project by id.
func (l *Library) Project(locale, id string) (*Project, error) {
	if p, ok := l.Get(locale).Project(id); ok {
		return p, nil
	}
	return nil, fmt.Errorf("project %q: %w", id, ErrNotFound)
}

// Skills returns the locale's skill names flattened in category order.
func (l *Library) Skills(locale string) []string {
	return l.Get(locale).SkillNames()
}

// BackgroundConfig returns the wallpaper configuration.
func (l *Library) BackgroundConfig() BackgroundConfig { return l.backgrounds }

// Backgrounds maps bg-N keys to wallpapers: images first, then videos.
func (l *Library) Backgrounds() map[string]Background {
	m := make(map[string]Background, len(l.backgrounds.Images)+len(l.backgrounds.Videos))
	for i, src := range l.backgrounds.Images {
		m[backgroundKey(i)] = Background{Type: BackgroundImage, Src: src}
	}
	offset := len(l.backgrounds.Images)
	for i, src := range l.backgrounds.Videos {
		m[backgroundKey(offset+i)] = Background{Type: BackgroundVideo, Src: src}
	}
	return m
}

// RandomBackground returns a random bg-N key, or bg-0 when none are configured.
func (l *Library) RandomBackground() string {
	n := len(l.backgrounds.Images) + len(l.backgrounds.Videos)
	if n == 0 {
		return backgroundKey(0)
	}
	return backgroundKey(rand.IntN(n))
}

func backgroundKey(i int) string {
	return fmt.Sprintf("bg-%d", i)
}
