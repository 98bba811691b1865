// ABOUTME: Heuristic reply matcher kept for deployments whose counterparty cannot echo tokens
// ABOUTME: Matches on sender identity, long replies with anchor phrases, or long replies with links

package correlation

import (
	"strings"

	"newsdesk-api/core/domain"
)

// DefaultAnchorPhrases are greetings and names that typically open a generated script
var DefaultAnchorPhrases = []string{
	"السلام علیکم",
	"ناظرین",
	"پاکستان",
	"ویژن پوائنٹ",
}

// LegacyMatcher decides whether an inbound message looks like the counterparty's reply
type LegacyMatcher struct {
	CounterpartyIDs []string
	AnchorPhrases   []string

	// MinPhraseBody is the length a body must exceed for the phrase heuristic
	MinPhraseBody int

	// MinLinkBody is the length a body must exceed for the link heuristic
	MinLinkBody int
}

// NewLegacyMatcher creates a matcher with the default phrase list and thresholds
func NewLegacyMatcher(counterpartyIDs []string) *LegacyMatcher {
	return &LegacyMatcher{
		CounterpartyIDs: counterpartyIDs,
		AnchorPhrases:   DefaultAnchorPhrases,
		MinPhraseBody:   200,
		MinLinkBody:     100,
	}
}

// Matches applies the sender, phrase and link heuristics in that order
func (m *LegacyMatcher) Matches(msg domain.InboundMessage) bool {
	from := strings.ToLower(msg.From)
	for _, id := range m.CounterpartyIDs {
		id = strings.ToLower(strings.TrimSpace(id))
		if id != "" && (from == id || strings.Contains(from, id)) {
			return true
		}
	}

	length := len([]rune(msg.Body))
	if length > m.MinPhraseBody {
		for _, phrase := range m.AnchorPhrases {
			if strings.Contains(msg.Body, phrase) {
				return true
			}
		}
	}

	return length > m.MinLinkBody && ContainsURL(msg.Body)
}
