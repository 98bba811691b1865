// ABOUTME: KeywordSet domain model holds the ordered relevance terms derived from one text
// ABOUTME: Terms are lowercase, trimmed, and unique; an empty set means nothing is relevant

package domain

import "strings"

// KeywordSet is an ordered, deduplicated list of lowercase relevance terms
type KeywordSet []string

// NewKeywordSet normalizes terms to lowercase, drops blanks and duplicates, and keeps order
func NewKeywordSet(terms ...string) KeywordSet {
	seen := make(map[string]struct{}, len(terms))
	out := make(KeywordSet, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// IsEmpty reports whether the set has no terms
func (k KeywordSet) IsEmpty() bool {
	return len(k) == 0
}

// Contains reports whether term is in the set
func (k KeywordSet) Contains(term string) bool {
	for _, t := range k {
		if t == term {
			return true
		}
	}
	return false
}

// Matches returns the terms found as substrings of text, which must already be lowercase
func (k KeywordSet) Matches(text string) []string {
	var found []string
	for _, t := range k {
		if strings.Contains(text, t) {
			found = append(found, t)
		}
	}
	return found
}
