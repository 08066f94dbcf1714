package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newsAPITestServer(t *testing.T, handler http.HandlerFunc) (*NewsAPI, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	api := NewNewsAPI("test-key", srv.Client())
	api.baseURL = srv.URL
	return api, srv
}

func TestNewsAPIMissingKey(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unconfigured source must not make network calls")
	}))
	defer srv.Close()

	api := NewNewsAPI("", srv.Client())
	api.baseURL = srv.URL

	_, err := api.Fetch(context.Background(), Params{})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Source != "newsapi" {
		t.Fatalf("expected source newsapi, got %s", cfgErr.Source)
	}
}

func TestNewsAPIFetchCategory(t *testing.T) {
	t.Parallel()

	api, _ := newsAPITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("expected api key header, got %q", got)
		}
		if got := r.URL.Query().Get("category"); got != "technology" {
			t.Errorf("expected category=technology, got %q", got)
		}
		fmt.Fprint(w, `{
			"status": "ok",
			"totalResults": 4,
			"articles": [
				{"source":{"name":"Wired"},"author":"A. Writer","title":"Chips Get Smaller","description":"A breakthrough in chip fabrication.","url":"https://www.wired.com/chips","urlToImage":"https://img/1.jpg","publishedAt":"2026-05-01T10:00:00Z","content":"Body one"},
				{"source":{"name":"Wired"},"title":"No Description Here","description":"","url":"https://www.wired.com/x","publishedAt":"2026-05-01T09:00:00Z"},
				{"source":{"name":"Verge"},"title":"Second Valid","description":"Another story.","url":"https://verge.com/2","publishedAt":"not-a-date"},
				{"source":{"name":"Verge"},"title":"Third Valid","description":"Yet another.","url":"https://verge.com/3","publishedAt":"2026-05-01T08:00:00Z"},
				{"source":{"name":"Verge"},"title":"Fourth Valid","description":"One more.","url":"https://verge.com/4","publishedAt":"2026-05-01T07:00:00Z"}
			]
		}`)
	})

	articles, err := api.FetchCategory(context.Background(), "Technology")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 4 {
		t.Fatalf("expected 4 articles (one rejected), got %d", len(articles))
	}

	first := articles[0]
	if first.Title != "Chips Get Smaller" {
		t.Fatalf("unexpected first title %q", first.Title)
	}
	if first.Slug != "chips-get-smaller" {
		t.Fatalf("unexpected slug %q", first.Slug)
	}
	if string(first.Category) != "Technology" {
		t.Fatalf("unexpected category %q", first.Category)
	}
	if first.Author != "A. Writer" {
		t.Fatalf("unexpected author %q", first.Author)
	}
	if first.SourceDomain != "wired.com" {
		t.Fatalf("unexpected source domain %q", first.SourceDomain)
	}
	if !strings.HasPrefix(first.ID, "newsapi-technology-") {
		t.Fatalf("unexpected ID %q", first.ID)
	}
	if !first.Featured {
		t.Fatal("first article should be featured")
	}

	// The rejected item shifts indices: raw index 4 is the fourth kept
	// article and sits past the featured window.
	if articles[3].Featured {
		t.Fatal("article past the featured window should not be featured")
	}

	// Missing author falls back.
	if articles[1].Author != "Staff Writer" {
		t.Fatalf("expected default author, got %q", articles[1].Author)
	}
}

func TestNewsAPIFetchRequestsCategoriesInOrder(t *testing.T) {
	t.Parallel()

	var got []string
	api, _ := newsAPITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.URL.Query().Get("category"))
		fmt.Fprint(w, `{"status":"ok","articles":[]}`)
	})

	if _, err := api.Fetch(context.Background(), Params{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"general", "business", "entertainment", "health", "science", "sports", "technology"}
	if len(got) != len(want) {
		t.Fatalf("expected %d category requests, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("request %d: expected category %q, got %q", i, want[i], got[i])
		}
	}
}

func TestNewsAPIContentFallsBackToDescription(t *testing.T) {
	t.Parallel()

	api, _ := newsAPITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ok","articles":[
			{"source":{"name":"X"},"title":"T","description":"The description.","url":"https://x.com/1","publishedAt":"2026-05-01T10:00:00Z","content":""}
		]}`)
	})

	articles, err := api.FetchCategory(context.Background(), "Business")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if articles[0].Content != "The description." {
		t.Fatalf("empty content should fall back to the description, got %q", articles[0].Content)
	}
}

func TestNewsAPIContentCapped(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("z", 900)
	api, _ := newsAPITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"status":"ok","articles":[
			{"source":{"name":"X"},"title":"T","description":"D","url":"https://x.com/1","publishedAt":"2026-05-01T10:00:00Z","content":"%s"}
		]}`, long)
	})

	articles, err := api.FetchCategory(context.Background(), "Science")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles[0].Content) != 500 {
		t.Fatalf("content should be capped at 500 bytes, got %d", len(articles[0].Content))
	}
}

func TestNewsAPIFetchCategoryUnmapped(t *testing.T) {
	t.Parallel()

	api, _ := newsAPITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no upstream call expected for an unmapped category")
	})

	articles, err := api.FetchCategory(context.Background(), "Politics")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if articles != nil {
		t.Fatalf("unmapped category should yield no articles, got %d", len(articles))
	}
}

func TestNewsAPIUpstreamStatusError(t *testing.T) {
	t.Parallel()

	api, _ := newsAPITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := api.FetchCategory(context.Background(), "Health")
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upErr.Status != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", upErr.Status)
	}
}

func TestNewsAPIErrorStatusBody(t *testing.T) {
	t.Parallel()

	api, _ := newsAPITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"error","articles":[]}`)
	})

	_, err := api.FetchCategory(context.Background(), "Sports")
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError for api-level error status, got %v", err)
	}
}

func TestNewsAPISearch(t *testing.T) {
	t.Parallel()

	api, _ := newsAPITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/everything") {
			t.Errorf("expected everything endpoint, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "fusion" {
			t.Errorf("expected q=fusion, got %q", got)
		}
		fmt.Fprint(w, `{"status":"ok","articles":[
			{"source":{"name":"X"},"title":"Fusion News","description":"D","url":"https://x.com/1","publishedAt":"2026-05-01T10:00:00Z"}
		]}`)
	})

	articles, err := api.Search(context.Background(), "fusion", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 result, got %d", len(articles))
	}
}
