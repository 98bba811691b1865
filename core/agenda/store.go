// ABOUTME: Agenda store holds the current list of headlines offered for script generation
// ABOUTME: Refreshes from a primary source with secondary and static fallbacks, persisted as a snapshot

package agenda

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"newsdesk-api/core/domain"
	coreerrors "newsdesk-api/core/errors"
	"newsdesk-api/core/interfaces"
)

const (
	// MinItems is the agenda size below which the secondary source tops up the primary
	MinItems = 5

	// MaxItems caps the final agenda
	MaxItems = 30
)

// regionQuota is one bucket of the regional mix
type regionQuota struct {
	regions []string
	limit   int
}

var regionalMix = []regionQuota{
	{regions: []string{domain.RegionPakistan, domain.RegionPakistanBreaking}, limit: 8},
	{regions: []string{domain.RegionSuperPowers}, limit: 8},
	{regions: []string{domain.RegionMiddleEast}, limit: 6},
	{regions: []string{domain.RegionGlobalBreaking, domain.RegionAsiaPacific}, limit: 8},
}

// Store is the agenda state. Refreshes are serialized; reads may run concurrently.
type Store struct {
	primary   interfaces.AgendaSource
	secondary interfaces.AgendaSource
	snapshot  interfaces.AgendaSnapshotStore
	logger    interfaces.Logger
	now       func() time.Time

	refreshMu sync.Mutex
	mu        sync.RWMutex
	items     []domain.AgendaItem
	updatedAt time.Time
}

// Option configures a Store
type Option func(*Store)

// WithNow replaces the time source used for static fallback items
func WithNow(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates an agenda store. Either source may be nil.
func NewStore(primary, secondary interfaces.AgendaSource, snapshot interfaces.AgendaSnapshotStore, logger interfaces.Logger, opts ...Option) *Store {
	s := &Store{
		primary:   primary,
		secondary: secondary,
		snapshot:  snapshot,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory agenda with the persisted snapshot
func (s *Store) Load(ctx context.Context) error {
	if s.snapshot == nil {
		return nil
	}
	items, err := s.snapshot.Load(ctx)
	if err != nil {
		return coreerrors.WrapError(err, "load agenda snapshot")
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.logger.Debug("Agenda snapshot loaded", map[string]interface{}{"count": len(items)})
	return nil
}

// Refresh fetches a new agenda, replaces the current one and persists it.
// Source failures degrade to the next source; a persist failure is logged and not returned.
func (s *Store) Refresh(ctx context.Context) ([]domain.AgendaItem, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	items, usedPrimary := s.fetch(ctx)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	items = sortItems(dedupeByTitle(items))

	if len(items) < MinItems && usedPrimary && s.secondary != nil {
		extra, err := s.secondary.FetchAgenda(ctx)
		if err != nil {
			s.logger.Warn("Agenda top-up failed", map[string]interface{}{
				"source": s.secondary.Name(),
				"error":  err.Error(),
			})
		} else {
			items = sortItems(dedupeByTitle(append(items, extra...)))
		}
	}

	final := mix(items)

	s.mu.Lock()
	s.items = final
	s.updatedAt = s.now()
	s.mu.Unlock()

	if err := s.Persist(ctx); err != nil {
		s.logger.Error("Failed to persist agenda", map[string]interface{}{"error": err.Error()})
	}

	s.logger.Info("Agenda refreshed", map[string]interface{}{
		"fetched": len(items),
		"count":   len(final),
	})
	return copyItems(final), nil
}

// fetch walks primary, secondary and the static list, returning the first non-empty result
func (s *Store) fetch(ctx context.Context) ([]domain.AgendaItem, bool) {
	if s.primary != nil {
		items, err := s.primary.FetchAgenda(ctx)
		if err == nil && len(items) > 0 {
			return items, true
		}
		s.logSourceFailure(s.primary.Name(), err)
	}

	if s.secondary != nil {
		items, err := s.secondary.FetchAgenda(ctx)
		if err == nil && len(items) > 0 {
			return items, false
		}
		s.logSourceFailure(s.secondary.Name(), err)
	}

	s.logger.Warn("All agenda sources failed, using static agenda", nil)
	return StaticItems(s.now()), false
}

func (s *Store) logSourceFailure(name string, err error) {
	fields := map[string]interface{}{"source": name}
	if err != nil {
		fields["error"] = err.Error()
	} else {
		fields["error"] = "no items"
	}
	s.logger.Warn("Agenda source unavailable", fields)
}

// Items returns a copy of the current agenda
func (s *Store) Items() []domain.AgendaItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyItems(s.items)
}

// UpdatedAt returns when the agenda was last refreshed in this process
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Select returns the item at the 1-based position n. An empty in-memory agenda is
// reloaded from the snapshot first.
func (s *Store) Select(ctx context.Context, n int) (domain.AgendaItem, error) {
	s.mu.RLock()
	empty := len(s.items) == 0
	s.mu.RUnlock()

	if empty {
		if err := s.Load(ctx); err != nil {
			s.logger.Warn("Agenda snapshot unavailable", map[string]interface{}{"error": err.Error()})
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.items) == 0 {
		return domain.AgendaItem{}, &coreerrors.NotFoundError{Resource: "agenda", ID: "current"}
	}
	if n < 1 || n > len(s.items) {
		return domain.AgendaItem{}, &coreerrors.ValidationError{
			Field:   "index",
			Message: "must be between 1 and " + strconv.Itoa(len(s.items)),
		}
	}
	return s.items[n-1], nil
}

// Persist writes the current agenda to the snapshot store
func (s *Store) Persist(ctx context.Context) error {
	if s.snapshot == nil {
		return errors.New("no agenda snapshot store configured")
	}
	return s.snapshot.Save(ctx, s.Items())
}

// dedupeByTitle keeps the first item for each title
func dedupeByTitle(items []domain.AgendaItem) []domain.AgendaItem {
	seen := make(map[string]bool, len(items))
	out := make([]domain.AgendaItem, 0, len(items))
	for _, item := range items {
		if !item.IsValid() {
			continue
		}
		key := strings.TrimSpace(item.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// sortItems orders by priority ascending, then newest first
func sortItems(items []domain.AgendaItem) []domain.AgendaItem {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority < items[j].Priority
		}
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
	return items
}

// mix applies the per-region quotas in bucket order and caps the result
func mix(items []domain.AgendaItem) []domain.AgendaItem {
	out := make([]domain.AgendaItem, 0, MaxItems)
	for _, quota := range regionalMix {
		taken := 0
		for _, item := range items {
			if taken == quota.limit {
				break
			}
			if contains(quota.regions, item.Region) {
				out = append(out, item)
				taken++
			}
		}
	}
	if len(out) > MaxItems {
		out = out[:MaxItems]
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func copyItems(items []domain.AgendaItem) []domain.AgendaItem {
	out := make([]domain.AgendaItem, len(items))
	copy(out, items)
	return out
}
