// Package aggregator fans out to every configured source, tolerates partial
// failure, and merges the survivors into one deduplicated, newest-first list.
// Its contract is maximal availability: callers always get a well-formed,
// non-empty list, falling back to placeholder content when every upstream
// is down.
package aggregator

import (
	"context"
	"log"
	"sort"
	"sync"

	"newsdesk/internal/article"
	"newsdesk/internal/source"
)

// Aggregator orchestrates parallel fetches across source adapters.
type Aggregator struct {
	sources []source.Source
}

// New builds an aggregator over the given adapters.
func New(sources ...source.Source) *Aggregator {
	return &Aggregator{sources: sources}
}

type fetchResult struct {
	name     string
	articles []article.Article
	err      error
}

// FetchAll invokes every adapter concurrently, merges the successful results,
// deduplicates by normalized title, and sorts newest first. Individual source
// failures are logged and suppressed; if nothing at all comes back, the
// placeholder dataset is returned so downstream always has content.
func (a *Aggregator) FetchAll(ctx context.Context) []article.Article {
	results := a.collect(ctx, func(s source.Source) ([]article.Article, error) {
		return s.Fetch(ctx, source.Params{})
	})

	merged := a.merge(results)
	if len(merged) == 0 {
		log.Println("aggregator: all sources empty or failed, serving placeholder articles")
		return Placeholders()
	}
	return merged
}

// FetchCategory mirrors FetchAll scoped to one category: category-capable
// adapters are tried first, then the full aggregate filtered locally, then
// the placeholder dataset filtered the same way.
func (a *Aggregator) FetchCategory(ctx context.Context, cat article.Category) []article.Article {
	var capable []source.Source
	for _, s := range a.sources {
		if _, ok := s.(source.CategoryFetcher); ok {
			capable = append(capable, s)
		}
	}

	results := collectFrom(capable, func(s source.Source) ([]article.Article, error) {
		return s.(source.CategoryFetcher).FetchCategory(ctx, cat)
	})

	merged := a.merge(results)
	if len(merged) > 0 {
		return merged
	}

	log.Printf("aggregator: no direct results for category %s, filtering full aggregate", cat)
	filtered := filterCategory(a.FetchAll(ctx), cat)
	if len(filtered) > 0 {
		return filtered
	}
	return filterCategory(Placeholders(), cat)
}

// Search fans the query out to every search-capable adapter and merges the
// hits. Unlike FetchAll there is no placeholder fallback: an empty search
// result is an answer, not an outage.
func (a *Aggregator) Search(ctx context.Context, query string, limit int) []article.Article {
	if limit <= 0 {
		limit = 20
	}

	var capable []source.Source
	for _, s := range a.sources {
		if _, ok := s.(source.Searcher); ok {
			capable = append(capable, s)
		}
	}

	results := collectFrom(capable, func(s source.Source) ([]article.Article, error) {
		return s.(source.Searcher).Search(ctx, query, limit)
	})

	merged := a.merge(results)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// collect runs one fetch per source concurrently. Each goroutine writes only
// its own slot, so no synchronization beyond the join is needed.
func (a *Aggregator) collect(ctx context.Context, fetch func(source.Source) ([]article.Article, error)) []fetchResult {
	return collectFrom(a.sources, fetch)
}

func collectFrom(sources []source.Source, fetch func(source.Source) ([]article.Article, error)) []fetchResult {
	results := make([]fetchResult, len(sources))
	var wg sync.WaitGroup
	for i, s := range sources {
		wg.Add(1)
		go func(i int, s source.Source) {
			defer wg.Done()
			articles, err := fetch(s)
			results[i] = fetchResult{name: s.Name(), articles: articles, err: err}
		}(i, s)
	}
	wg.Wait()
	return results
}

// merge concatenates the successful results in source order, logs failures,
// then deduplicates and sorts.
func (a *Aggregator) merge(results []fetchResult) []article.Article {
	var all []article.Article
	for _, r := range results {
		if r.err != nil {
			log.Printf("aggregator: source %s failed: %v", r.name, r.err)
			continue
		}
		if len(r.articles) > 0 {
			log.Printf("aggregator: source %s contributed %d articles", r.name, len(r.articles))
		}
		all = append(all, r.articles...)
	}

	deduped := DedupByTitle(all)
	SortNewestFirst(deduped)
	return deduped
}

// DedupByTitle keeps at most one article per normalized (lowercased,
// trimmed) title. When two records collide, the later-inserted one wins but
// keeps the position of the first. Title-based dedup is a heuristic: two
// genuinely different stories sharing a headline will collapse to one.
func DedupByTitle(in []article.Article) []article.Article {
	out := make([]article.Article, 0, len(in))
	pos := make(map[string]int, len(in))
	for _, a := range in {
		key := article.NormalizeTitle(a.Title)
		if i, ok := pos[key]; ok {
			out[i] = a
			continue
		}
		pos[key] = len(out)
		out = append(out, a)
	}
	return out
}

// SortNewestFirst orders articles by publication time descending. The sort
// is stable, so ties keep their input order.
func SortNewestFirst(articles []article.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
}

func filterCategory(articles []article.Article, cat article.Category) []article.Article {
	out := make([]article.Article, 0, len(articles))
	for _, a := range articles {
		if a.Category == cat {
			out = append(out, a)
		}
	}
	return out
}
