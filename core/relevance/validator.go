// ABOUTME: Relevance validation scores one candidate against a keyword set under tiered rules
// ABOUTME: Existence is checked first with a per-type policy, then URL, metadata, content, aggregate tiers

package relevance

import (
	"context"
	"strings"
	"time"

	"newsdesk-api/core/domain"
	"newsdesk-api/core/interfaces"
)

// ExistencePolicy decides what a failed existence check means for a candidate type
type ExistencePolicy int

const (
	// Strict rejects the candidate when the existence check cannot be completed
	Strict ExistencePolicy = iota

	// Lenient accepts the candidate's existence when the check cannot be completed
	Lenient
)

// Tier names the rule that accepted a candidate
type Tier string

const (
	TierNone      Tier = ""
	TierURL       Tier = "url"
	TierMetadata  Tier = "metadata"
	TierContent   Tier = "content"
	TierAggregate Tier = "aggregate"
)

// Thresholds for each tier
const (
	URLThreshold       = 2
	MetadataThreshold  = 2
	ContentThreshold   = 2
	AggregateThreshold = 3
)

// TypeRules configures existence checking and inspection for one candidate type
type TypeRules struct {
	Checker   interfaces.ExistenceChecker
	Policy    ExistencePolicy
	Inspector interfaces.PageInspector
}

// Validator implements tiered relevance scoring
type Validator struct {
	rules   map[domain.CandidateType]TypeRules
	timeout time.Duration
	logger  interfaces.Logger
}

// Option configures a Validator
type Option func(*Validator)

// WithTypeRules sets the rules for one candidate type
func WithTypeRules(t domain.CandidateType, rules TypeRules) Option {
	return func(v *Validator) {
		v.rules[t] = rules
	}
}

// WithTimeout bounds the existence check and inspection of one candidate
func WithTimeout(d time.Duration) Option {
	return func(v *Validator) {
		if d > 0 {
			v.timeout = d
		}
	}
}

// NewValidator creates a validator. Video existence is lenient and article existence strict
// unless overridden with WithTypeRules.
func NewValidator(logger interfaces.Logger, opts ...Option) *Validator {
	v := &Validator{
		rules: map[domain.CandidateType]TypeRules{
			domain.CandidateVideo:   {Policy: Lenient},
			domain.CandidateArticle: {Policy: Strict},
		},
		timeout: 15 * time.Second,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Accept reports whether candidate is relevant to keywords. It never returns an error;
// collaborator failures are resolved by the type's existence policy or count as no match.
func (v *Validator) Accept(ctx context.Context, candidate domain.Candidate, keywords domain.KeywordSet) bool {
	tier := v.Evaluate(ctx, candidate, keywords)
	return tier != TierNone
}

// Evaluate returns the tier that accepted the candidate, or TierNone
func (v *Validator) Evaluate(ctx context.Context, candidate domain.Candidate, keywords domain.KeywordSet) Tier {
	if keywords.IsEmpty() {
		return TierNone
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	rules := v.rules[candidate.Type]
	if !v.exists(ctx, candidate, rules) {
		return TierNone
	}

	if n := countHits(keywords, candidate.URL); n >= URLThreshold {
		v.accepted(candidate, TierURL, n)
		return TierURL
	}

	metaHits := countHits(keywords, candidate.Title, candidate.Snippet, candidate.Description, strings.Join(candidate.Tags, " "))
	if metaHits >= MetadataThreshold {
		v.accepted(candidate, TierMetadata, metaHits)
		return TierMetadata
	}

	if rules.Inspector == nil {
		return TierNone
	}

	page, err := rules.Inspector.Inspect(ctx, candidate)
	if err != nil || page == nil {
		v.logger.Debug("Inspection failed", map[string]interface{}{
			"url":   candidate.URL,
			"error": errString(err),
		})
		return TierNone
	}

	pageMetaHits := countHits(keywords, page.Title, page.Description, strings.Join(page.Tags, " "))
	if pageMetaHits >= MetadataThreshold {
		v.accepted(candidate, TierMetadata, pageMetaHits)
		return TierMetadata
	}

	contentHits := countHits(keywords, strings.Join(page.Headings, " "))
	if contentHits >= ContentThreshold {
		v.accepted(candidate, TierContent, contentHits)
		return TierContent
	}

	total := sectionHits(keywords, page.Title) +
		sectionHits(keywords, page.Description) +
		sectionHits(keywords, strings.Join(page.Tags, " ")) +
		contentHits
	if total >= AggregateThreshold {
		v.accepted(candidate, TierAggregate, total)
		return TierAggregate
	}

	return TierNone
}

func (v *Validator) exists(ctx context.Context, candidate domain.Candidate, rules TypeRules) bool {
	if rules.Checker == nil {
		return true
	}

	ok, err := rules.Checker.Exists(ctx, candidate)
	if err != nil {
		lenient := rules.Policy == Lenient
		v.logger.Debug("Existence check failed", map[string]interface{}{
			"url":      candidate.URL,
			"type":     string(candidate.Type),
			"accepted": lenient,
			"error":    err.Error(),
		})
		return lenient
	}
	return ok
}

func (v *Validator) accepted(candidate domain.Candidate, tier Tier, hits int) {
	v.logger.Debug("Candidate accepted", map[string]interface{}{
		"url":  candidate.URL,
		"tier": string(tier),
		"hits": hits,
	})
}

// countHits counts distinct keywords found anywhere in the joined sections
func countHits(keywords domain.KeywordSet, sections ...string) int {
	return len(keywords.Matches(strings.ToLower(strings.Join(sections, " "))))
}

// sectionHits counts distinct keywords found in one section
func sectionHits(keywords domain.KeywordSet, section string) int {
	if section == "" {
		return 0
	}
	return len(keywords.Matches(strings.ToLower(section)))
}

func errString(err error) string {
	if err == nil {
		return "empty inspection"
	}
	return err.Error()
}
