package projects

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ostrends/trends/app/cache"
	"github.com/ostrends/trends/app/github"
)

const (
	// LastUpdateKey stores the date of the last successful full refresh.
	LastUpdateKey = "last_update_date"
	// SnapshotKey stores the committed ranked list.
	SnapshotKey = "cached_projects"
	// MaxProjects caps the ranked list.
	MaxProjects = 100
)

type AggregatorInterface interface {
	Run(ctx context.Context) ([]github.Repo, error)
}

// Pipeline owns the committed ranked project list. Refresh runs the full
// fetch-score-sort-commit sequence behind a daily gate; sorting alone never
// refetches. A mutex makes the pipeline a single writer: a concurrent
// Refresh call blocks until the in-flight one commits, then sees the fresh
// gate and returns without network work, which coalesces duplicate
// invocations.
type Pipeline struct {
	aggregator AggregatorInterface
	store      cache.Store
	categories []Category
	now        func() time.Time

	mu              sync.Mutex
	projects        []Project
	sortMode        SortMode
	lastRefreshDate string
}

func NewPipeline(aggregator AggregatorInterface, store cache.Store, categories []Category) *Pipeline {
	return &Pipeline{
		aggregator: aggregator,
		store:      store,
		categories: categories,
		now:        time.Now,
		sortMode:   SortStars,
	}
}

// Restore loads the committed snapshot and refresh gate from the store,
// so a restarted process serves data without refetching on the same day.
func (p *Pipeline) Restore() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if entry, ok, err := p.store.Get(LastUpdateKey); err == nil && ok {
		p.lastRefreshDate = string(entry.Payload)
	}

	if entry, ok, err := p.store.Get(SnapshotKey); err == nil && ok {
		var snapshot []Project
		if err := json.Unmarshal(entry.Payload, &snapshot); err != nil {
			slog.Warn("Discarding malformed projects snapshot", "error", err)
			return
		}
		p.projects = snapshot
		Sort(p.projects, p.sortMode)
		slog.Info("Restored projects snapshot", "count", len(p.projects), "date", p.lastRefreshDate)
	}
}

// Refresh runs the ranking pipeline unless a successful refresh already
// happened today. On aggregation failure the stored gate date is left
// untouched and the most recent committed snapshot (or, failing that, the
// newest per-query cache entry) is installed as a degraded result; the
// underlying error is returned in either case so callers can surface it.
func (p *Pipeline) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	today := p.now().Format(cache.DateFormat)
	if p.lastRefreshDate == today && len(p.projects) > 0 {
		slog.Debug("Projects already refreshed today, skipping", "date", today)
		return nil
	}

	startTime := p.now()
	repos, err := p.aggregator.Run(ctx)
	if err != nil {
		if p.loadFallback() {
			slog.Warn("Refresh failed, serving cached projects", "count", len(p.projects), "error", err)
			return fmt.Errorf("refresh failed, serving cached projects: %w", err)
		}
		return fmt.Errorf("refresh failed with no cached fallback: %w", err)
	}

	enriched := Enrich(repos, p.categories, p.now())
	Sort(enriched, p.sortMode)
	if len(enriched) > MaxProjects {
		enriched = enriched[:MaxProjects]
	}

	p.projects = enriched
	p.lastRefreshDate = today
	p.commit(enriched, today)

	slog.Info("Projects refreshed", "count", len(enriched), "duration", time.Since(startTime))
	return nil
}

// Projects returns a copy of the committed ranked list.
func (p *Pipeline) Projects() []Project {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.copyProjects()
}

// SortBy re-sorts the committed list by the given mode without refetching
// or rescoring, and returns the new order.
func (p *Pipeline) SortBy(mode SortMode) []Project {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sortMode = mode
	Sort(p.projects, mode)
	return p.copyProjects()
}

// LastRefreshDate returns the date of the last successful full refresh, or
// an empty string if none happened yet.
func (p *Pipeline) LastRefreshDate() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.lastRefreshDate
}

func (p *Pipeline) copyProjects() []Project {
	snapshot := make([]Project, len(p.projects))
	copy(snapshot, p.projects)
	return snapshot
}

// commit persists the ranked list and the refresh gate. Persistence
// failures are logged, not fatal: the in-memory state is already committed
// and the worst case is a redundant refetch after a restart.
func (p *Pipeline) commit(list []Project, date string) {
	payload, err := json.Marshal(list)
	if err != nil {
		slog.Warn("Failed to serialize projects snapshot", "error", err)
		return
	}
	if err := p.store.Set(SnapshotKey, payload, date); err != nil {
		slog.Warn("Failed to persist projects snapshot", "error", err)
	}
	if err := p.store.Set(LastUpdateKey, []byte(date), date); err != nil {
		slog.Warn("Failed to persist refresh date", "error", err)
	}
}

// loadFallback installs the best available stale data. The committed
// snapshot is the primary fallback; scanning the per-query caches for the
// newest entry is the secondary, for the case where queries were cached on
// some earlier day but no full refresh ever committed.
func (p *Pipeline) loadFallback() bool {
	if entry, ok, err := p.store.Get(SnapshotKey); err == nil && ok {
		var snapshot []Project
		if err := json.Unmarshal(entry.Payload, &snapshot); err == nil && len(snapshot) > 0 {
			p.projects = snapshot
			Sort(p.projects, p.sortMode)
			return true
		}
		slog.Warn("Discarding malformed projects snapshot")
	}

	keys, err := p.store.KeysWithPrefix(QueryCachePrefix)
	if err != nil || len(keys) == 0 {
		return false
	}

	var newest *cache.Entry
	for _, key := range keys {
		entry, ok, err := p.store.Get(key)
		if err != nil || !ok {
			continue
		}
		// Dates are yyyy-MM-dd, so string order is date order
		if newest == nil || entry.Date > newest.Date {
			newest = entry
		}
	}
	if newest == nil {
		return false
	}

	var resp github.SearchResponse
	if err := json.Unmarshal(newest.Payload, &resp); err != nil || len(resp.Items) == 0 {
		return false
	}

	enriched := Enrich(resp.Items, p.categories, p.now())
	Sort(enriched, p.sortMode)
	if len(enriched) > MaxProjects {
		enriched = enriched[:MaxProjects]
	}
	p.projects = enriched
	return true
}
