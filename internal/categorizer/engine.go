package categorizer

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// Engine matches merchant text against the master rule patterns in a single
// pass using an Aho-Corasick automaton, so matching cost is independent of
// the number of rules.
//
// When several patterns hit the same merchant, the longest pattern wins:
// matching must be deterministic and most-specific-first so rules cannot
// shadow each other ambiguously.
type Engine struct {
	matcher    *ahocorasick.Matcher
	patterns   []string // uppercased, same order as matcher
	categories []string
}

// NewEngine builds the automaton from the rule set. Patterns are uppercased;
// merchant text is uppercased before matching, giving case-insensitive
// substring semantics.
func NewEngine(rules []Rule) *Engine {
	e := &Engine{}
	for _, r := range rules {
		p := strings.ToUpper(strings.TrimSpace(r.Pattern))
		if p == "" {
			continue
		}
		e.patterns = append(e.patterns, p)
		e.categories = append(e.categories, r.Category)
	}
	if len(e.patterns) > 0 {
		e.matcher = ahocorasick.NewStringMatcher(e.patterns)
	}
	return e
}

// Match returns the category of the most specific (longest) matching
// pattern, or ok=false when no rule matches.
func (e *Engine) Match(merchant string) (category string, ok bool) {
	if e.matcher == nil {
		return "", false
	}

	hits := e.matcher.Match([]byte(strings.ToUpper(merchant)))
	if len(hits) == 0 {
		return "", false
	}

	best := hits[0]
	for _, idx := range hits[1:] {
		if len(e.patterns[idx]) > len(e.patterns[best]) {
			best = idx
		}
	}
	return e.categories[best], true
}
