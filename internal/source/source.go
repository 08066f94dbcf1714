// Package source contains the upstream adapters. Each adapter translates one
// provider's schema into the canonical article record and reports failures
// through a shared error taxonomy so the aggregator can treat every source
// uniformly.
package source

import (
	"context"

	"newsdesk/internal/article"
)

// Params carries the upstream-agnostic fetch parameters. Zero values mean
// "use the adapter default".
type Params struct {
	Category article.Category
	Limit    int
	Query    string
}

// Source pulls fresh articles from one upstream provider. An empty result
// with a nil error is a valid outcome, distinct from an upstream failure.
type Source interface {
	Name() string
	Fetch(ctx context.Context, p Params) ([]article.Article, error)
}

// CategoryFetcher is implemented by sources that can scope a fetch to a
// single category on the upstream side rather than filtering locally.
type CategoryFetcher interface {
	Source
	FetchCategory(ctx context.Context, cat article.Category) ([]article.Article, error)
}

// Searcher is implemented by sources that support free-text search upstream.
type Searcher interface {
	Source
	Search(ctx context.Context, query string, limit int) ([]article.Article, error)
}
