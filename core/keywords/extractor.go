// ABOUTME: Keyword extraction derives a relevance keyword set from a topic or script
// ABOUTME: Urdu text maps through a bilingual dictionary; Latin text is tokenized and filtered

package keywords

import (
	"regexp"
	"strings"

	"newsdesk-api/core/domain"
)

// DefaultMaxTerms caps the number of extracted keywords
const DefaultMaxTerms = 15

var (
	arabicScript = regexp.MustCompile(`[\x{0600}-\x{06FF}\x{0750}-\x{077F}\x{08A0}-\x{08FF}\x{FB50}-\x{FDFF}\x{FE70}-\x{FEFF}]`)
	punctuation  = regexp.MustCompile(`[^\w\s]`)
	salient      = regexp.MustCompile(`pakistan|india|china|russia|america|uk|france|germany|iran|iraq|syria|afghanistan|kashmir|balochistan|punjab|sindh|peshawar|karachi|lahore|islamabad|quetta|army|military|security|terrorism|politics|economy|corruption|elections|government|modi|bjp|rss|hindutva|islamophobia|muslim|hindu|communal|secular|democracy|constitution|minority|majority|violence|hate|speech|bigotry|discrimination|lynching|vigilante|fundamentalist|extremist|nationalist|patriotic|fauj|pak|defense|border`)
)

// dictionaryEntry maps an Urdu term to its canonical Latin-script keyword
type dictionaryEntry struct {
	urdu  string
	latin string
}

var urduDictionary = []dictionaryEntry{
	{"پاکستان", "pakistan"},
	{"بھارت", "india"},
	{"ٹرمپ", "trump"},
	{"مودی", "modi"},
	{"طیارے", "fighter jets"},
	{"جنگی", "military"},
	{"فوج", "army"},
	{"حملہ", "attack"},
	{"جنگ", "war"},
	{"سیاسی", "politics"},
	{"اقتصاد", "economy"},
	{"امن", "peace"},
	{"خفیہ", "intelligence"},
	{"آپریشن", "operation"},
	{"گرفتار", "arrest"},
	{"مقاومت", "resistance"},
	{"آزادی", "freedom"},
	{"تحریک", "movement"},
	{"کشمیر", "kashmir"},
	{"بلوچستان", "balochistan"},
	{"پنجاب", "punjab"},
	{"سندھ", "sindh"},
	{"اسلام آباد", "islamabad"},
	{"لاہور", "lahore"},
	{"کراچی", "karachi"},
	{"پشاور", "peshawar"},
	{"کوئٹہ", "quetta"},
}

// genericTerms is used for Urdu text that matches no dictionary entry
var genericTerms = []string{"pakistan", "india", "trump", "military", "news", "breaking", "latest", "politics"}

var stopwords = toSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
	"is", "are", "was", "were", "be", "been", "have", "has", "had", "do", "does", "did",
	"will", "would", "could", "should", "may", "might", "can", "this", "that", "these", "those",
	"news", "latest", "breaking", "update", "report", "story", "video", "watch", "see", "look",
	"check", "find", "get", "make", "take", "give", "show", "tell", "say", "know", "think",
	"feel", "want", "need", "use", "work", "go", "come", "hear", "read", "write", "speak",
	"talk", "ask", "answer", "question", "problem", "issue", "matter", "thing", "way", "time",
	"day", "year", "month", "week", "hour", "minute", "second", "now", "then", "here", "there",
	"where", "when", "why", "how", "what", "who", "which", "whose", "whom",
)

// Extractor derives keyword sets from free text
type Extractor struct {
	maxTerms int
}

// Option configures an Extractor
type Option func(*Extractor)

// WithMaxTerms overrides the keyword cap
func WithMaxTerms(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxTerms = n
		}
	}
}

// NewExtractor creates an extractor with the default cap
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{maxTerms: DefaultMaxTerms}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the keyword set for text. Terms are lowercase, unique, and at most maxTerms long.
func (e *Extractor) Extract(text string) domain.KeywordSet {
	var terms []string
	if IsArabicScript(text) {
		terms = e.fromDictionary(text)
	} else {
		terms = e.fromLatin(text)
	}

	set := domain.NewKeywordSet(terms...)
	if len(set) > e.maxTerms {
		set = set[:e.maxTerms]
	}
	return set
}

// IsArabicScript reports whether text contains any Arabic-family character
func IsArabicScript(text string) bool {
	return arabicScript.MatchString(text)
}

func (e *Extractor) fromDictionary(text string) []string {
	var terms []string
	for _, entry := range urduDictionary {
		if strings.Contains(text, entry.urdu) {
			terms = append(terms, entry.latin)
		}
	}
	if len(terms) == 0 {
		return append([]string(nil), genericTerms...)
	}
	return terms
}

func (e *Extractor) fromLatin(text string) []string {
	cleaned := punctuation.ReplaceAllString(strings.ToLower(text), " ")

	var filtered []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		filtered = append(filtered, word)
	}

	var important []string
	for _, word := range filtered {
		if len(word) > 4 || salient.MatchString(word) {
			important = append(important, word)
		}
	}
	if len(important) > 0 {
		return important
	}
	return filtered
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
