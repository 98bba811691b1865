// ABOUTME: AgendaItem domain model represents one headline in the current news agenda
// ABOUTME: Items are persisted to the agenda snapshot and selected by 1-based index

package domain

import "time"

// AgendaItem is one headline offered to the operator for script generation
type AgendaItem struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Region      string    `json:"region"`
	Priority    int       `json:"priority"`
	PublishedAt time.Time `json:"publishedAt"`
}

// IsValid checks the item has a title and a link
func (a *AgendaItem) IsValid() bool {
	return a.Title != "" && a.URL != ""
}

// Agenda regions used for the regional mix
const (
	RegionPakistan         = "Pakistan"
	RegionPakistanBreaking = "Pakistan Breaking"
	RegionSuperPowers      = "Super Powers"
	RegionMiddleEast       = "Middle East Conflict"
	RegionGlobalBreaking   = "Global Breaking"
	RegionAsiaPacific      = "Asia-Pacific"
)
