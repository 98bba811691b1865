// ABOUTME: Static agenda used when every live source is unavailable
// ABOUTME: Covers every region of the mix so the offered agenda is never thin

package agenda

import (
	"time"

	"newsdesk-api/core/domain"
)

var staticItems = []domain.AgendaItem{
	{Title: "Breaking: Latest developments in Pakistan", URL: "https://www.dawn.com", Source: "Dawn News", Region: domain.RegionPakistan, Priority: 1},
	{Title: "Pakistan Army operations and security updates", URL: "https://www.geo.tv", Source: "Geo News", Region: domain.RegionPakistan, Priority: 1},
	{Title: "Breaking: Pakistan Army conducts successful operation in tribal areas", URL: "https://www.dawn.com/news/pakistan-army-operation", Source: "Dawn News", Region: domain.RegionPakistan, Priority: 1},
	{Title: "Pakistan and China strengthen bilateral relations - New agreements signed", URL: "https://www.geo.tv/news/pakistan-china-relations", Source: "Geo News", Region: domain.RegionPakistan, Priority: 1},
	{Title: "India-Pakistan border tensions - Latest security updates", URL: "https://www.dawn.com/news/india-pakistan-border", Source: "Dawn News", Region: domain.RegionPakistan, Priority: 1},
	{Title: "Pakistan economy shows positive growth indicators", URL: "https://www.geo.tv/business/pakistan-economy-growth", Source: "Geo News", Region: domain.RegionPakistan, Priority: 1},
	{Title: "Super powers news: China, USA, Russia developments", URL: "https://www.cnn.com", Source: "CNN", Region: domain.RegionSuperPowers, Priority: 2},
	{Title: "US-China trade tensions escalate - New tariffs announced", URL: "https://www.cnn.com/business/us-china-trade", Source: "CNN", Region: domain.RegionSuperPowers, Priority: 2},
	{Title: "China announces new technology initiatives", URL: "https://www.cnn.com/technology/china-tech", Source: "CNN", Region: domain.RegionSuperPowers, Priority: 2},
	{Title: "Middle East conflict updates and regional news", URL: "https://www.aljazeera.com", Source: "Al Jazeera", Region: domain.RegionMiddleEast, Priority: 3},
	{Title: "Middle East Crisis: Latest developments in Gaza conflict", URL: "https://www.aljazeera.com/news/middle-east-crisis", Source: "Al Jazeera", Region: domain.RegionMiddleEast, Priority: 3},
	{Title: "Iran nuclear deal negotiations continue", URL: "https://www.aljazeera.com/news/iran-nuclear-deal", Source: "Al Jazeera", Region: domain.RegionMiddleEast, Priority: 3},
	{Title: "Global breaking news updates", URL: "https://www.bbc.com/news", Source: "BBC News", Region: domain.RegionGlobalBreaking, Priority: 4},
	{Title: "Russia-Ukraine conflict: Latest battlefield updates", URL: "https://www.bbc.com/news/world-europe-ukraine", Source: "BBC News", Region: domain.RegionGlobalBreaking, Priority: 4},
	{Title: "Global climate change summit - World leaders meet", URL: "https://www.bbc.com/news/science-environment", Source: "BBC News", Region: domain.RegionGlobalBreaking, Priority: 4},
}

// StaticItems returns the last-resort agenda stamped with now
func StaticItems(now time.Time) []domain.AgendaItem {
	items := make([]domain.AgendaItem, len(staticItems))
	for i, item := range staticItems {
		item.PublishedAt = now
		items[i] = item
	}
	return items
}
