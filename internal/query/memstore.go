package query

import (
	"context"
	"sort"
	"strings"
	"sync"

	"newsdesk/internal/article"
)

// MemStore is an in-memory Store. It backs listings over live-fetched
// articles and keeps the service testable without a database.
type MemStore struct {
	mu       sync.RWMutex
	articles []article.Article
}

func NewMemStore(articles []article.Article) *MemStore {
	return &MemStore{articles: articles}
}

// Replace swaps the whole dataset, for callers that refresh from upstream.
func (m *MemStore) Replace(articles []article.Article) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articles = articles
}

func (m *MemStore) FindMany(_ context.Context, filters Filters, sortBy Sort, offset, limit int) ([]article.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := m.filter(filters)
	sortArticles(matched, sortBy)

	if offset >= len(matched) {
		return []article.Article{}, nil
	}
	end := min(offset+limit, len(matched))
	out := make([]article.Article, end-offset)
	copy(out, matched[offset:end])
	return out, nil
}

func (m *MemStore) Count(_ context.Context, filters Filters) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.filter(filters)), nil
}

func (m *MemStore) FindBySlug(_ context.Context, slug string) (*article.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.articles {
		if m.articles[i].Slug == slug {
			a := m.articles[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (m *MemStore) filter(filters Filters) []article.Article {
	matched := make([]article.Article, 0, len(m.articles))
	search := strings.ToLower(strings.TrimSpace(filters.Search))
	for _, a := range m.articles {
		if filters.Category != "" && a.Category != filters.Category {
			continue
		}
		if filters.Featured != nil && a.Featured != *filters.Featured {
			continue
		}
		if len(filters.Tags) > 0 && !hasAnyTag(a.Tags, filters.Tags) {
			continue
		}
		if search != "" && !matchesSearch(a, search) {
			continue
		}
		matched = append(matched, a)
	}
	return matched
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

func matchesSearch(a article.Article, search string) bool {
	return strings.Contains(strings.ToLower(a.Title), search) ||
		strings.Contains(strings.ToLower(a.Excerpt), search) ||
		strings.Contains(strings.ToLower(a.Content), search)
}

func sortArticles(articles []article.Article, sortBy Sort) {
	switch sortBy {
	case SortOldest:
		sort.SliceStable(articles, func(i, j int) bool {
			return articles[i].PublishedAt.Before(articles[j].PublishedAt)
		})
	case SortTitle:
		sort.SliceStable(articles, func(i, j int) bool {
			return strings.ToLower(articles[i].Title) < strings.ToLower(articles[j].Title)
		})
	default:
		sort.SliceStable(articles, func(i, j int) bool {
			return articles[i].PublishedAt.After(articles[j].PublishedAt)
		})
	}
}
