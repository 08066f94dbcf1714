package aggregator

import (
	"context"
	"fmt"
	"testing"
	"time"

	"newsdesk/internal/article"
	"newsdesk/internal/source"
)

type stubSource struct {
	name     string
	articles []article.Article
	err      error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(_ context.Context, _ source.Params) ([]article.Article, error) {
	return s.articles, s.err
}

type stubCategorySource struct {
	stubSource
	byCategory map[article.Category][]article.Article
}

func (s *stubCategorySource) FetchCategory(_ context.Context, cat article.Category) ([]article.Article, error) {
	return s.byCategory[cat], s.err
}

func makeArticles(prefix string, n int, category article.Category, base time.Time) []article.Article {
	out := make([]article.Article, n)
	for i := range out {
		title := fmt.Sprintf("%s story %d", prefix, i)
		out[i] = article.Article{
			ID:          fmt.Sprintf("%s-%d", prefix, i),
			Title:       title,
			Slug:        article.Slug(title),
			Category:    category,
			PublishedAt: base.Add(-time.Duration(i) * time.Hour),
		}
	}
	return out
}

func TestFetchAllMergesSurvivors(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	agg := New(
		&stubSource{name: "a", articles: makeArticles("a", 5, article.CategoryWorld, now)},
		&stubSource{name: "b", err: &source.UpstreamError{Source: "b", Status: 503, Err: fmt.Errorf("unavailable")}},
		&stubSource{name: "c", articles: nil},
	)

	got := agg.FetchAll(context.Background())
	if len(got) != 5 {
		t.Fatalf("expected 5 articles from the surviving source, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].PublishedAt.After(got[i-1].PublishedAt) {
			t.Fatalf("articles not sorted newest first at index %d", i)
		}
	}
}

func TestFetchAllFallsBackWhenEverythingFails(t *testing.T) {
	t.Parallel()

	agg := New(
		&stubSource{name: "a", err: fmt.Errorf("down")},
		&stubSource{name: "b", err: fmt.Errorf("also down")},
	)

	got := agg.FetchAll(context.Background())
	if len(got) == 0 {
		t.Fatal("fallback dataset should never be empty")
	}
	for _, a := range got {
		if a.Title == "" || a.Slug == "" || !a.Category.Valid() {
			t.Fatalf("fallback article is malformed: %+v", a)
		}
	}
}

func TestFetchAllWithNoSources(t *testing.T) {
	t.Parallel()

	got := New().FetchAll(context.Background())
	if len(got) == 0 {
		t.Fatal("aggregator with no sources should still serve the fallback dataset")
	}
}

func TestDedupByTitle(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	first := article.Article{ID: "1", Title: "Breaking News", Source: "alpha", PublishedAt: now}
	second := article.Article{ID: "2", Title: "breaking news ", Source: "beta", PublishedAt: now.Add(-time.Hour)}
	other := article.Article{ID: "3", Title: "Something Else", PublishedAt: now}

	got := DedupByTitle([]article.Article{first, other, second})
	if len(got) != 2 {
		t.Fatalf("expected 2 articles after dedup, got %d", len(got))
	}
	if got[0].ID != "2" {
		t.Fatalf("later duplicate should win while keeping the first position, got ID %s", got[0].ID)
	}
	if got[1].ID != "3" {
		t.Fatalf("non-duplicate should keep its position, got ID %s", got[1].ID)
	}
}

func TestSortNewestFirstStable(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	articles := []article.Article{
		{ID: "old", PublishedAt: ts.Add(-time.Hour)},
		{ID: "tie-a", PublishedAt: ts},
		{ID: "tie-b", PublishedAt: ts},
	}

	SortNewestFirst(articles)
	if articles[0].ID != "tie-a" || articles[1].ID != "tie-b" {
		t.Fatalf("equal timestamps should keep input order, got %s then %s", articles[0].ID, articles[1].ID)
	}
	if articles[2].ID != "old" {
		t.Fatalf("oldest article should sort last, got %s", articles[2].ID)
	}
}

func TestFetchCategoryPrefersDirectResults(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	direct := &stubCategorySource{
		stubSource: stubSource{name: "direct"},
		byCategory: map[article.Category][]article.Article{
			article.CategoryScience: makeArticles("science", 3, article.CategoryScience, now),
		},
	}
	noise := &stubSource{name: "noise", articles: makeArticles("world", 4, article.CategoryWorld, now)}

	got := New(direct, noise).FetchCategory(context.Background(), article.CategoryScience)
	if len(got) != 3 {
		t.Fatalf("expected the 3 direct results, got %d", len(got))
	}
	for _, a := range got {
		if a.Category != article.CategoryScience {
			t.Fatalf("unexpected category %s in result", a.Category)
		}
	}
}

func TestFetchCategoryFiltersAggregateWhenNoDirectResults(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	mixed := append(
		makeArticles("tech", 2, article.CategoryTechnology, now),
		makeArticles("sports", 3, article.CategorySports, now)...,
	)
	agg := New(&stubSource{name: "mixed", articles: mixed})

	got := agg.FetchCategory(context.Background(), article.CategorySports)
	if len(got) != 3 {
		t.Fatalf("expected 3 sports articles, got %d", len(got))
	}
}

func TestFetchCategoryFallsBackToPlaceholders(t *testing.T) {
	t.Parallel()

	agg := New(&stubSource{name: "down", err: fmt.Errorf("down")})

	got := agg.FetchCategory(context.Background(), article.CategoryPolitics)
	if len(got) == 0 {
		t.Fatal("expected placeholder coverage for the category")
	}
	for _, a := range got {
		if a.Category != article.CategoryPolitics {
			t.Fatalf("unexpected category %s in filtered fallback", a.Category)
		}
	}
}

type stubSearcher struct {
	stubSource
	hits []article.Article
}

func (s *stubSearcher) Search(_ context.Context, _ string, _ int) ([]article.Article, error) {
	return s.hits, nil
}

func TestSearchMergesSearchCapableSources(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	searcher := &stubSearcher{
		stubSource: stubSource{name: "s"},
		hits:       makeArticles("hit", 3, article.CategoryTechnology, now),
	}
	plain := &stubSource{name: "plain", articles: makeArticles("noise", 2, article.CategoryWorld, now)}

	got := New(searcher, plain).Search(context.Background(), "query", 10)
	if len(got) != 3 {
		t.Fatalf("expected only the searcher's 3 hits, got %d", len(got))
	}
}

func TestSearchEmptyIsNotAnOutage(t *testing.T) {
	t.Parallel()

	searcher := &stubSearcher{stubSource: stubSource{name: "s"}}
	got := New(searcher).Search(context.Background(), "nothing matches", 10)
	if len(got) != 0 {
		t.Fatalf("empty search should stay empty, got %d placeholder-like results", len(got))
	}
}

func TestSearchTruncatesToLimit(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	searcher := &stubSearcher{
		stubSource: stubSource{name: "s"},
		hits:       makeArticles("hit", 8, article.CategoryTechnology, now),
	}

	got := New(searcher).Search(context.Background(), "query", 5)
	if len(got) != 5 {
		t.Fatalf("expected results capped at 5, got %d", len(got))
	}
}

func TestPlaceholdersCoverEveryCategory(t *testing.T) {
	t.Parallel()

	covered := make(map[article.Category]bool)
	for _, a := range Placeholders() {
		if !a.Category.Valid() {
			t.Fatalf("placeholder %q has invalid category %q", a.Title, a.Category)
		}
		if a.Slug == "" || a.Excerpt == "" {
			t.Fatalf("placeholder %q is incomplete", a.Title)
		}
		covered[a.Category] = true
	}
	for _, c := range article.Categories() {
		if !covered[c] {
			t.Fatalf("no placeholder covers category %s", c)
		}
	}
}
