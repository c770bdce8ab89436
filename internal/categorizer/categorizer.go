package categorizer

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/card-statement-analyzer/internal/models"
)

// DefaultCategory is assigned when neither the statement, the heuristics,
// nor the master rules know the merchant.
const DefaultCategory = "OTHER"

// keywordCategories are the built-in heuristics that assign a provisional
// category before master rules are consulted. They seed the category a new
// vendor is learned under.
var keywordCategories = []struct {
	category string
	keywords []string
}{
	{"GAS/FUEL", []string{"SHELL", "CHEVRON", "EXXON", "MOBIL", "ARCO", "BP ", "COSTCO GAS"}},
	{"GROCERY", []string{"SAFEWAY", "QFC", "COSTCO WHSE", "TARGET", "WALMART"}},
	{"SHOPPING", []string{"AMAZON", "AMZN", "EBAY", "NORDSTROM"}},
	{"RESTAURANT", []string{"RESTAURANT", "STARBUCKS", "MCDONALD", "SUBWAY", "PIZZA", "CHIPOTLE"}},
	{"UTILITIES", []string{"ELECTRIC", "WATER", "COMCAST", "VERIZON", "XFINITY"}},
	{"TRAVEL/DINING", []string{"UNITED", "DELTA", "AMERICAN AIR", "SOUTHWEST", "HOTEL"}},
	{"SUBSCRIPTIONS", []string{"NETFLIX", "SPOTIFY", "HULU", "APPLE.COM", "GOOGLE"}},
}

// PromptFunc asks an external collaborator (typically an interactive
// terminal prompt) to choose a category for an unseen vendor. The suggested
// category comes from fuzzy-matching the vendor against known patterns.
// Returning an empty string keeps the suggestion.
type PromptFunc func(vendor, suggested string) string

// Categorizer assigns categories from the master rule set and reports
// unseen merchants. It never mutates the store itself: proposed rules are
// returned to the caller, which decides when to commit them.
type Categorizer struct {
	engine *Engine
	rules  []Rule

	// Prompt, when set, routes new vendors through an interactive choice.
	// When nil, new vendors are learned under their heuristic category.
	Prompt PromptFunc
}

// New builds a Categorizer over the store's current rule set.
func New(store *Store) *Categorizer {
	rules := store.Rules()
	return &Categorizer{
		engine: NewEngine(rules),
		rules:  rules,
	}
}

// Categorize assigns a category to every transaction in the statement and
// returns the proposed new rules for vendors no rule matched, plus the count
// of transactions whose heuristic category a master rule overrode.
//
// The method is idempotent for a fixed rule set: the engine is built once
// and proposals are not fed back into it.
func (c *Categorizer) Categorize(txns []models.Transaction) (proposed []Rule, recategorized int) {
	learned := map[string]string{}
	var newKeys []string

	for i := range txns {
		txn := &txns[i]

		if txn.Kind == models.KindPayment {
			txn.Category = "PAYMENT"
			continue
		}
		if txn.Kind == models.KindAdjustment {
			txn.Category = "MISC"
			continue
		}

		heuristic := txn.RawCategory
		if heuristic == "" {
			heuristic = heuristicCategory(txn.Merchant)
		}

		if category, ok := c.engine.Match(txn.Merchant); ok {
			txn.Category = category
			if category != heuristic {
				recategorized++
			}
			continue
		}

		// No master rule: the vendor gets flagged for learning, once per
		// distinct vendor key.
		txn.Category = heuristic
		key := VendorKey(txn.Merchant)
		if key == "" {
			continue
		}
		if _, ok := learned[key]; ok {
			continue
		}

		chosen := heuristic
		if c.Prompt != nil {
			suggested, _ := Suggest(key, c.rules)
			if suggested == "" {
				suggested = heuristic
			}
			if choice := c.Prompt(key, suggested); choice != "" {
				chosen = strings.ToUpper(strings.TrimSpace(choice))
			} else {
				chosen = suggested
			}
		}
		learned[key] = chosen
		newKeys = append(newKeys, key)
	}

	// Apply learned categories to every transaction of the same vendor, so
	// a prompt answer covers repeat occurrences within the statement.
	for i := range txns {
		txn := &txns[i]
		if txn.Kind == models.KindPayment || txn.Kind == models.KindAdjustment {
			continue
		}
		if category, ok := learned[VendorKey(txn.Merchant)]; ok {
			txn.Category = category
		}
	}

	for _, key := range newKeys {
		proposed = append(proposed, Rule{Pattern: key, Category: learned[key]})
	}
	return proposed, recategorized
}

var (
	phoneSuffix  = regexp.MustCompile(`\s+\d{3}-\d{3}-\d{4}.*$`)
	stateSuffix  = regexp.MustCompile(`\s+[A-Z]{2}$`)
	storeSuffix  = regexp.MustCompile(`\s+#\d+.*$`)
	numberSuffix = regexp.MustCompile(`\s+\d+.*$`)
	corpSuffix   = regexp.MustCompile(`\s+(LLC|INC|CORP|CO)\b.*$`)
)

// VendorKey reduces a full merchant string to a stable key for rule
// learning, stripping store numbers, phone numbers, state codes and company
// suffixes. Amazon descriptors vary per order, so they all collapse to one
// key.
func VendorKey(merchant string) string {
	m := strings.ToUpper(strings.TrimSpace(merchant))

	if strings.Contains(m, "AMAZON") || strings.Contains(m, "AMZN") {
		return "AMAZON"
	}

	m = phoneSuffix.ReplaceAllString(m, "")
	m = stateSuffix.ReplaceAllString(m, "")
	m = storeSuffix.ReplaceAllString(m, "")
	m = corpSuffix.ReplaceAllString(m, "")
	m = numberSuffix.ReplaceAllString(m, "")

	words := strings.Fields(m)
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, " ")
}

func heuristicCategory(merchant string) string {
	upper := strings.ToUpper(merchant)
	for _, kc := range keywordCategories {
		for _, kw := range kc.keywords {
			if strings.Contains(upper, kw) {
				return kc.category
			}
		}
	}
	return DefaultCategory
}
