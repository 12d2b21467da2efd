package vote

import (
	"sort"
	"strings"

	"poll-service/internal/catalog"
)

// MergeTallies folds the weighted counts of both vote tables onto the
// canonical option list. Every canonical option is emitted, zero votes
// included. Keys present in vote data but missing from the catalog (stale
// or renamed options) are appended at the end with nil code and text so
// they stay auditable instead of being dropped.
func MergeTallies(options []catalog.Option, singles, checkboxes []KeyTally) []OptionTally {
	counts := make(map[string]float64)
	for _, t := range singles {
		counts[normalizeKey(t.OptionSelect)] += t.Votes
	}
	for _, t := range checkboxes {
		counts[normalizeKey(t.OptionSelect)] += t.Votes
	}

	results := make([]OptionTally, 0, len(options))
	seen := make(map[string]bool, len(options))
	for _, opt := range options {
		key := normalizeKey(opt.OptionSelect)
		seen[key] = true
		code, text := opt.OptionCode, opt.OptionText
		results = append(results, OptionTally{
			OptionSelect: opt.OptionSelect,
			OptionCode:   &code,
			OptionText:   &text,
			Votes:        counts[key],
		})
	}

	var stale []string
	for key := range counts {
		if !seen[key] {
			stale = append(stale, key)
		}
	}
	sort.Strings(stale)
	for _, key := range stale {
		results = append(results, OptionTally{
			OptionSelect: key,
			Votes:        counts[key],
		})
	}

	return results
}

func normalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}
