// Package categorizer assigns spending categories to transactions from a
// persisted merchant-rule set plus built-in keyword heuristics, and reports
// unseen merchants so the caller can grow the rule set.
package categorizer

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/gocarina/gocsv"
)

// ErrRulePersistence marks any failure to read or write the master rules
// file. It is fatal for the whole run, not just the current statement:
// continuing would silently lose learned vendor mappings, and that loss
// compounds across runs.
var ErrRulePersistence = errors.New("master rules file unavailable")

// Rule maps a merchant pattern (literal substring, matched
// case-insensitively) to a category label.
type Rule struct {
	Pattern  string `csv:"vendor_pattern"`
	Category string `csv:"category"`
}

// Store is the persisted master rule set, shared across all statement
// formats. It is read fully at startup; growth is append-only through
// Commit. Persistence failures are fatal for the run — silently losing
// learned vendor mappings compounds across runs.
type Store struct {
	path  string
	rules []Rule
}

// OpenStore loads the master rule file, creating an empty one (header only)
// if it does not exist yet.
func OpenStore(path string) (*Store, error) {
	s := &Store{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write(nil); err != nil {
			return nil, fmt.Errorf("create master rules file %q: %w: %w", path, ErrRulePersistence, err)
		}
		return s, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open master rules file %q: %w: %w", path, ErrRulePersistence, err)
	}
	defer f.Close()

	var rules []Rule
	if err := gocsv.UnmarshalFile(f, &rules); err != nil && err != gocsv.ErrEmptyCSVFile {
		return nil, fmt.Errorf("parse master rules file %q: %w: %w", path, ErrRulePersistence, err)
	}
	s.rules = rules
	return s, nil
}

// Rules returns a copy of the current rule set.
func (s *Store) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Len returns the number of persisted rules.
func (s *Store) Len() int {
	return len(s.rules)
}

// Commit appends the proposed rules and rewrites the file sorted by pattern,
// keeping it easy to edit by hand. Patterns already present are left
// untouched.
func (s *Store) Commit(proposed []Rule) error {
	if len(proposed) == 0 {
		return nil
	}

	existing := make(map[string]bool, len(s.rules))
	for _, r := range s.rules {
		existing[r.Pattern] = true
	}
	for _, r := range proposed {
		if r.Pattern == "" || existing[r.Pattern] {
			continue
		}
		existing[r.Pattern] = true
		s.rules = append(s.rules, r)
	}

	sorted := make([]Rule, len(s.rules))
	copy(sorted, s.rules)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Pattern < sorted[j].Pattern })

	if err := s.write(sorted); err != nil {
		return fmt.Errorf("save master rules file %q: %w: %w", s.path, ErrRulePersistence, err)
	}
	s.rules = sorted
	return nil
}

func (s *Store) write(rules []Rule) error {
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	// MarshalFile writes the header row even for an empty slice, which is
	// what a freshly created master file should contain.
	if rules == nil {
		rules = []Rule{}
	}
	return gocsv.MarshalFile(&rules, f)
}
