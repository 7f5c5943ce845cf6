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

// QueryCachePrefix scopes per-query cache entries in the store.
const QueryCachePrefix = "github_projects_"

// sortDirectives are the four query shards: the same popularity filter
// combined with distinct sort orders, so the merged result covers projects
// that rank high on any axis.
var sortDirectives = []string{"stars", "updated", "forks", "watchers"}

type SearchClient interface {
	SearchRepositories(ctx context.Context, query string) (*github.SearchResponse, error)
}

// Aggregator issues the sharded search queries, resolves each through the
// per-query daily cache, and merges the results into one deduplicated list.
type Aggregator struct {
	client   SearchClient
	store    cache.Store
	minStars int
	now      func() time.Time
}

func NewAggregator(client SearchClient, store cache.Store, minStars int) *Aggregator {
	return &Aggregator{
		client:   client,
		store:    store,
		minStars: minStars,
		now:      time.Now,
	}
}

// Queries returns the search query strings in shard order.
func (a *Aggregator) Queries() []string {
	queries := make([]string, 0, len(sortDirectives))
	for _, directive := range sortDirectives {
		queries = append(queries, fmt.Sprintf("stars:>%d sort:%s", a.minStars, directive))
	}
	return queries
}

// Run resolves all query shards concurrently and joins them. All shards
// must succeed; any failure aborts the aggregation (degradation is handled
// one level up, by the pipeline). The merged list contains at most one
// record per repository ID, last-seen-wins.
func (a *Aggregator) Run(ctx context.Context) ([]github.Repo, error) {
	queries := a.Queries()
	results := make([][]github.Repo, len(queries))
	errs := make([]error, len(queries))

	var wg sync.WaitGroup
	for i, query := range queries {
		wg.Add(1)
		go func(i int, query string) {
			defer wg.Done()
			results[i], errs[i] = a.resolveQuery(ctx, query)
		}(i, query)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("query '%s' failed: %w", queries[i], err)
		}
	}

	var merged []github.Repo
	seen := make(map[int64]int)
	for _, repos := range results {
		for _, repo := range repos {
			if idx, ok := seen[repo.ID]; ok {
				// Fields are stable within a day, last-seen-wins
				merged[idx] = repo
				continue
			}
			seen[repo.ID] = len(merged)
			merged = append(merged, repo)
		}
	}

	return merged, nil
}

// resolveQuery returns a same-day cached response when one exists,
// otherwise fetches and persists a fresh one keyed by query and date.
func (a *Aggregator) resolveQuery(ctx context.Context, query string) ([]github.Repo, error) {
	today := a.now().Format(cache.DateFormat)
	key := QueryCachePrefix + query + "_" + today

	entry, ok, err := a.store.Get(key)
	if err != nil {
		slog.Warn("Cache lookup failed, fetching instead", "key", key, "error", err)
	} else if ok && entry.Date == today {
		var cached github.SearchResponse
		if err := json.Unmarshal(entry.Payload, &cached); err == nil {
			slog.Debug("Query served from cache", "query", query)
			return cached.Items, nil
		}
		slog.Warn("Discarding malformed cache entry", "key", key)
	}

	resp, err := a.client.SearchRepositories(ctx, query)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize response for caching: %w", err)
	}
	if err := a.store.Set(key, payload, today); err != nil {
		// A write failure only costs a re-fetch tomorrow
		slog.Warn("Failed to cache query response", "key", key, "error", err)
	}

	slog.Debug("Query fetched from API", "query", query, "items", len(resp.Items))
	return resp.Items, nil
}
