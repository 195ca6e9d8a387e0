package spotlight

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// Search ranks items against query. A blank query returns the pinned items
// followed by the first items in build order, capped at EmptyQueryLimit.
// Otherwise the pinned items lead the top SearchLimit matches, de-duplicated
// by id and capped at SearchLimit.
func Search(items []Item, query string) []Result {
	pinned := pinnedItems(items)

	if strings.TrimSpace(query) == "" {
		base := items
		if len(base) > EmptyQueryLimit {
			base = base[:EmptyQueryLimit]
		}
		out := make([]Result, 0, EmptyQueryLimit)
		out = append(out, pinned...)
		for _, it := range base {
			if !isPinned(it.ID) {
				out = append(out, Result{Item: it})
			}
		}
		return capResults(out, EmptyQueryLimit)
	}

	ranked := Rank(items, query)
	if len(ranked) > SearchLimit {
		ranked = ranked[:SearchLimit]
	}

	seen := make(map[string]bool, len(pinned)+len(ranked))
	out := make([]Result, 0, SearchLimit)
	for _, r := range append(pinned, ranked...) {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return capResults(out, SearchLimit)
}

// Rank scores every item against query and returns matches best first.
// Ties keep build order.
func Rank(items []Item, query string) []Result {
	query = strings.TrimSpace(query)
	var out []Result
	for _, it := range items {
		if s, ok := Score(it, query); ok {
			out = append(out, Result{Item: it, Score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Score is the weighted sum of the qualities of the fields that match query.
// A field matches when its quality is at least 1 - Threshold; keywords count
// their best keyword. ok is false when no field matches.
func Score(it Item, query string) (score float64, ok bool) {
	add := func(weight, q float64) {
		if q >= 1-Threshold {
			score += weight * q
			ok = true
		}
	}
	add(weightTitle, Quality(query, it.Title))
	add(weightSubtitle, Quality(query, it.Subtitle))
	add(weightCategory, Quality(query, it.Category))

	best := 0.0
	for _, kw := range it.Keywords {
		if q := Quality(query, kw); q > best {
			best = q
		}
	}
	add(weightKeywords, best)

	return score, ok
}

// Quality measures how tightly query matches s as a case-insensitive
// subsequence: 1 for a contiguous run, falling toward 0 as the matched
// characters spread out. The tightest occurrence wins. 0 means no match.
func Quality(query, s string) float64 {
	if query == "" || s == "" {
		return 0
	}
	head, _ := utf8.DecodeRuneInString(query)
	best := 0.0
	for i, r := range s {
		if !strings.EqualFold(string(r), string(head)) {
			continue
		}
		q := spanQuality(query, s[i:])
		if q == 0 {
			// No match from here means none further right either.
			break
		}
		if q > best {
			best = q
		}
		if best == 1 {
			break
		}
	}
	return best
}

// spanQuality scores the match fuzzy finds in s.
func spanQuality(query, s string) float64 {
	matches := fuzzy.Find(query, []string{s})
	if len(matches) == 0 {
		return 0
	}
	idx := matches[0].MatchedIndexes
	if len(idx) == 0 {
		return 0
	}

	// Indexes are byte offsets; measure both sides in bytes.
	matched := 0
	for _, i := range idx {
		_, size := utf8.DecodeRuneInString(s[i:])
		matched += size
	}
	first, last := idx[0], idx[len(idx)-1]
	_, lastSize := utf8.DecodeRuneInString(s[last:])
	span := last + lastSize - first
	if span <= 0 {
		return 0
	}
	return float64(matched) / float64(span)
}

func pinnedItems(items []Item) []Result {
	var out []Result
	for _, it := range items {
		if isPinned(it.ID) {
			out = append(out, Result{Item: it})
		}
	}
	return out
}

func isPinned(id string) bool {
	for _, p := range Pinned {
		if p == id {
			return true
		}
	}
	return false
}

func capResults(rs []Result, n int) []Result {
	if len(rs) > n {
		return rs[:n]
	}
	return rs
}

// GroupResults buckets results by group in GroupOrder, omitting empty groups.
// Groups not named in expanded show at most CollapsedGroupSize items.
func GroupResults(results []Result, labels map[string]string, expanded map[string]bool) []Group {
	buckets := make(map[string][]Result)
	for _, r := range results {
		buckets[r.Group] = append(buckets[r.Group], r)
	}

	var groups []Group
	for _, key := range GroupOrder {
		items, ok := buckets[key]
		if !ok {
			continue
		}
		g := Group{Key: key, Label: labels[key], Count: len(items), Expanded: expanded[key]}
		if !g.Expanded && len(items) > CollapsedGroupSize {
			g.Hidden = len(items) - CollapsedGroupSize
			items = items[:CollapsedGroupSize]
		}
		g.Items = items
		groups = append(groups, g)
	}
	return groups
}
