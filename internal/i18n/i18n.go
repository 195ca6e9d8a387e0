// Package i18n resolves the visitor's locale and serves translation tables.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	English = "en"
	Chinese = "zh-CN"

	// Default is used when nothing in the request names a supported locale.
	Default = English

	// CookieName holds the visitor's explicit locale choice.
	CookieName = "locale"
)

// Locales lists every supported locale in display order.
var Locales = []string{English, Chinese}

//go:embed locales/*.json
var localeFS embed.FS

var tables = mustLoadTables()

func mustLoadTables() map[string]map[string]any {
	out := make(map[string]map[string]any, len(Locales))
	for _, loc := range Locales {
		data, err := localeFS.ReadFile("locales/" + loc + ".json")
		if err != nil {
			panic(fmt.Sprintf("i18n: reading %s table: %v", loc, err))
		}
		var table map[string]any
		if err := json.Unmarshal(data, &table); err != nil {
			panic(fmt.Sprintf("i18n: parsing %s table: %v", loc, err))
		}
		out[loc] = table
	}
	return out
}

// IsLocale reports whether s is a supported locale.
func IsLocale(s string) bool {
	for _, l := range Locales {
		if s == l {
			return true
		}
	}
	return false
}

// Normalize returns s when it is supported and fallback otherwise.
func Normalize(s, fallback string) string {
	if IsLocale(s) {
		return s
	}
	return fallback
}

// Infer picks the locale for a request. Priority: query (?lang= or ?locale=),
// then the locale cookie, then Accept-Language, then fallback.
func Infer(r *http.Request, fallback string) string {
	if loc := queryLocale(r); loc != "" {
		return loc
	}
	if loc := cookieLocale(r); loc != "" {
		return loc
	}
	if loc := acceptLanguageLocale(r.Header.Get("Accept-Language")); loc != "" {
		return loc
	}
	return fallback
}

func queryLocale(r *http.Request) string {
	q := r.URL.Query()
	raw := q.Get("lang")
	if raw == "" {
		raw = q.Get("locale")
	}
	if IsLocale(raw) {
		return raw
	}
	return ""
}

func cookieLocale(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	raw := strings.TrimSpace(c.Value)
	if decoded, err := url.QueryUnescape(raw); err == nil {
		raw = decoded
	}
	if IsLocale(raw) {
		return raw
	}
	return ""
}

// acceptLanguageLocale matches loosely: any mention of zh wins over en.
func acceptLanguageLocale(header string) string {
	if header == "" {
		return ""
	}
	lower := strings.ToLower(header)
	switch {
	case strings.Contains(lower, "zh"):
		return Chinese
	case strings.Contains(lower, "en"):
		return English
	}
	return ""
}

// Table returns the full translation table for locale, or the default
// locale's table when locale is unsupported.
func Table(locale string) map[string]any {
	if t, ok := tables[locale]; ok {
		return t
	}
	return tables[Default]
}

// T looks up a dotted key such as "spotlight.categories.projects". Missing
// keys fall back to English and then to the key itself.
func T(locale, key string) string {
	if s, ok := lookup(tables[locale], key); ok {
		return s
	}
	if s, ok := lookup(tables[English], key); ok {
		return s
	}
	return key
}

func lookup(table map[string]any, key string) (string, bool) {
	if table == nil {
		return "", false
	}
	var cur any = table
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		cur, ok = m[part]
		if !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	return s, ok
}
