package categorizer

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest finds the known pattern closest to an unseen vendor key and
// returns its category as a suggestion for the interactive prompt. Returns
// ok=false when nothing ranks close enough.
func Suggest(vendor string, rules []Rule) (category string, ok bool) {
	if len(rules) == 0 {
		return "", false
	}

	patterns := make([]string, len(rules))
	for i, r := range rules {
		patterns[i] = strings.ToUpper(r.Pattern)
	}

	ranks := fuzzy.RankFindNormalizedFold(strings.ToUpper(vendor), patterns)
	if len(ranks) == 0 {
		return "", false
	}

	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return rules[best.OriginalIndex].Category, true
}
