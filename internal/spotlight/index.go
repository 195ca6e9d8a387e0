package spotlight

import (
	"strings"

	"github.com/trueloving/deskfolio/internal/content"
	"github.com/trueloving/deskfolio/internal/i18n"
)

// Index holds prebuilt launcher items for every locale.
type Index struct {
	defaultLocale string
	items         map[string][]Item
}

// Response is the payload of a launcher query.
type Response struct {
	Query   string   `json:"query"`
	Locale  string   `json:"locale"`
	Results []Result `json:"results"`
	Groups  []Group  `json:"groups"`
}

// NewIndex builds items for each supported locale from lib.
func NewIndex(lib *content.Library) *Index {
	x := &Index{defaultLocale: lib.DefaultLocale(), items: make(map[string][]Item)}
	for _, loc := range i18n.Locales {
		x.items[loc] = BuildItems(lib.Get(loc), loc)
	}
	if _, ok := x.items[x.defaultLocale]; !ok {
		x.items[x.defaultLocale] = BuildItems(lib.Get(x.defaultLocale), x.defaultLocale)
	}
	return x
}

// Items returns the launcher entries for locale.
func (x *Index) Items(locale string) []Item {
	if items, ok := x.items[locale]; ok {
		return items
	}
	return x.items[x.defaultLocale]
}

// Query searches and groups. expand names groups to show in full, by key
// or by localized label.
func (x *Index) Query(locale, q string, expand []string) Response {
	if _, ok := x.items[locale]; !ok {
		locale = x.defaultLocale
	}
	labels := Labels(locale)
	results := Search(x.Items(locale), q)
	return Response{
		Query:   q,
		Locale:  locale,
		Results: results,
		Groups:  GroupResults(results, labels, expandedSet(expand, labels)),
	}
}

// Labels returns the localized group headings.
func Labels(locale string) map[string]string {
	labels := make(map[string]string, len(GroupOrder))
	for _, key := range GroupOrder {
		labels[key] = i18n.T(locale, "spotlight.categories."+key)
	}
	return labels
}

func expandedSet(expand []string, labels map[string]string) map[string]bool {
	set := make(map[string]bool)
	for _, e := range expand {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		for key, label := range labels {
			if strings.EqualFold(e, key) || strings.EqualFold(e, label) {
				set[key] = true
			}
		}
	}
	return set
}
