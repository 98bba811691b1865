// ABOUTME: Candidate domain model represents a discovered video or article reference link
// ABOUTME: Provides type detection and validation for candidates produced by discovery backends

package domain

import (
	"net/url"
	"regexp"
	"strings"
)

// CandidateType distinguishes video references from article references
type CandidateType string

const (
	// CandidateVideo is a video link (YouTube watch or short link)
	CandidateVideo CandidateType = "video"

	// CandidateArticle is any non-video web page
	CandidateArticle CandidateType = "article"
)

// Candidate is one reference link considered for inclusion alongside a script.
// URL is the identity key; aggregated lists never hold two candidates with the same URL.
type Candidate struct {
	// URL is the link itself and the identity key
	URL string `json:"url"`

	// Type is either "video" or "article"
	Type CandidateType `json:"type"`

	// Title is the headline reported by the backend, if any
	Title string `json:"title,omitempty"`

	// Channel is the publishing channel for videos
	Channel string `json:"channel,omitempty"`

	// Snippet is the short excerpt reported by the backend
	Snippet string `json:"snippet,omitempty"`

	// Description is the longer description reported by the backend
	Description string `json:"-"`

	// Tags are backend-reported tags (video only)
	Tags []string `json:"-"`

	// SourceBackend names the discovery backend that produced the candidate
	SourceBackend string `json:"sourceBackend"`

	// Priority orders candidates within a backend, lower first (0 means unset)
	Priority int `json:"priority,omitempty"`
}

var videoIDPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?#]+)`)

// IsValid checks that the candidate has a usable absolute http(s) URL and a known type
func (c *Candidate) IsValid() bool {
	if c.URL == "" {
		return false
	}
	u, err := url.Parse(c.URL)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return c.Type == CandidateVideo || c.Type == CandidateArticle
}

// VideoID returns the YouTube video ID embedded in the URL, or "" when there is none
func (c *Candidate) VideoID() string {
	return VideoIDFromURL(c.URL)
}

// VideoIDFromURL extracts the YouTube video ID from a watch or short URL
func VideoIDFromURL(rawURL string) string {
	m := videoIDPattern.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// TypeForURL classifies a URL as video or article by host
func TypeForURL(rawURL string) CandidateType {
	lower := strings.ToLower(rawURL)
	if strings.Contains(lower, "youtube.com") || strings.Contains(lower, "youtu.be") {
		return CandidateVideo
	}
	return CandidateArticle
}

var urlInTextPattern = regexp.MustCompile(`https?://[^\s]+`)

// ExtractLinks pulls every http(s) URL out of free text, trimming trailing punctuation
// and typing each link by host. Duplicate URLs are kept once, in first-seen order.
func ExtractLinks(text, backend string) []Candidate {
	matches := urlInTextPattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	links := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		clean := strings.TrimRight(m, ".,;!?)]")
		if clean == "" {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		links = append(links, Candidate{
			URL:           clean,
			Type:          TypeForURL(clean),
			SourceBackend: backend,
		})
	}
	return links
}

// DedupeByURL returns candidates with later duplicates of an earlier URL removed.
// Order of first occurrence is preserved.
func DedupeByURL(candidates []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.URL]; ok {
			continue
		}
		seen[c.URL] = struct{}{}
		out = append(out, c)
	}
	return out
}
