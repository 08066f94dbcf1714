// Package query exposes the read side of the article catalog: filtered,
// sorted, paginated listings over any Store implementation.
package query

import (
	"context"
	"log"
	"strings"

	"newsdesk/internal/article"
	"newsdesk/internal/pagination"
)

// Sort orders supported by List.
type Sort string

const (
	SortNewest Sort = "newest"
	SortOldest Sort = "oldest"
	SortTitle  Sort = "title"
)

// ParseSort maps a query-string value onto a Sort, defaulting to newest.
func ParseSort(s string) Sort {
	switch Sort(strings.ToLower(strings.TrimSpace(s))) {
	case SortOldest:
		return SortOldest
	case SortTitle:
		return SortTitle
	default:
		return SortNewest
	}
}

// Filters narrows a listing. Zero values mean "no constraint". Tags match
// when the article carries at least one of the given tags. Search is a
// case-insensitive substring match over title, excerpt and content.
type Filters struct {
	Category article.Category
	Tags     []string
	Featured *bool
	Search   string
}

// Page is a requested page position before clamping.
type Page struct {
	Page  int
	Limit int
}

// ListResult is one page of articles plus the pagination facts the caller
// needs to render navigation.
type ListResult struct {
	Articles   []article.Article `json:"articles"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
	HasMore    bool              `json:"hasMore"`
}

// Store is the persistence surface the query service reads from.
type Store interface {
	FindMany(ctx context.Context, filters Filters, sort Sort, offset, limit int) ([]article.Article, error)
	Count(ctx context.Context, filters Filters) (int, error)
	FindBySlug(ctx context.Context, slug string) (*article.Article, error)
}

// Service answers read queries against a Store. Store failures degrade to
// empty results rather than propagating, so a flaky database never takes the
// listing surface down with it.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns one page of articles matching the filters. The limit is
// clamped to [1,100] and the page to [1,totalPages]. On a store error the
// result is empty with the requested page echoed back.
func (s *Service) List(ctx context.Context, filters Filters, sort Sort, page Page) ListResult {
	requested := max(1, page.Page)
	limit := max(pagination.MinLimit, min(pagination.MaxLimit, page.Limit))

	total, err := s.store.Count(ctx, filters)
	if err != nil {
		log.Printf("query: count failed: %v", err)
		return emptyResult(requested)
	}

	totalPages := (total + limit - 1) / limit
	current := min(requested, max(1, totalPages))
	offset := (current - 1) * limit

	articles, err := s.store.FindMany(ctx, filters, sort, offset, limit)
	if err != nil {
		log.Printf("query: find failed: %v", err)
		return emptyResult(requested)
	}
	if articles == nil {
		articles = []article.Article{}
	}

	return ListResult{
		Articles:   articles,
		Total:      total,
		Page:       current,
		TotalPages: totalPages,
		HasMore:    current < totalPages,
	}
}

// GetBySlug fetches a single article, nil when no article has that slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*article.Article, error) {
	return s.store.FindBySlug(ctx, slug)
}

// Featured returns up to limit featured articles, newest first. Store
// failures degrade to an empty slice.
func (s *Service) Featured(ctx context.Context, limit int) []article.Article {
	featured := true
	limit = max(pagination.MinLimit, min(pagination.MaxLimit, limit))
	articles, err := s.store.FindMany(ctx, Filters{Featured: &featured}, SortNewest, 0, limit)
	if err != nil {
		log.Printf("query: featured lookup failed: %v", err)
		return []article.Article{}
	}
	if articles == nil {
		articles = []article.Article{}
	}
	return articles
}

func emptyResult(page int) ListResult {
	return ListResult{
		Articles:   []article.Article{},
		Total:      0,
		Page:       page,
		TotalPages: 0,
		HasMore:    false,
	}
}
