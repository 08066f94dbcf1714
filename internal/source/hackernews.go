package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"newsdesk/internal/article"
)

const hackerNewsBaseURL = "https://hn.algolia.com/api/v1"

const hackerNewsContentCap = 500

// Stories with less text than this have no usable excerpt and are dropped.
const hackerNewsMinText = 50

type hackerNewsHit struct {
	ObjectID  string `json:"objectID"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
	StoryText string `json:"story_text"`
	Points    int    `json:"points"`
}

type hackerNewsResponse struct {
	Hits []hackerNewsHit `json:"hits"`
}

// HackerNews fetches front-page stories through the Algolia search API.
// No credential is required, so this adapter never raises a ConfigError.
type HackerNews struct {
	baseURL string
	client  *http.Client
}

// NewHackerNews builds the adapter; a nil client gets a 20s-timeout default.
func NewHackerNews(client *http.Client) *HackerNews {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &HackerNews{baseURL: hackerNewsBaseURL, client: client}
}

// Name identifies the adapter in logs and aggregator bookkeeping.
func (h *HackerNews) Name() string { return "hackernews" }

// Fetch pulls current front-page stories.
func (h *HackerNews) Fetch(ctx context.Context, p Params) ([]article.Article, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 15
	}
	params := url.Values{}
	params.Set("tags", "front_page")
	// Over-fetch to survive the text-length filter below.
	params.Set("hitsPerPage", strconv.Itoa(limit*2))
	return h.fetch(ctx, params, limit)
}

// Search queries stories by free text.
func (h *HackerNews) Search(ctx context.Context, query string, limit int) ([]article.Article, error) {
	if limit <= 0 {
		limit = 20
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("tags", "story")
	params.Set("hitsPerPage", strconv.Itoa(limit*2))
	return h.fetch(ctx, params, limit)
}

func (h *HackerNews) fetch(ctx context.Context, params url.Values, limit int) ([]article.Article, error) {
	reqURL := fmt.Sprintf("%s/search?%s", h.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &UpstreamError{Source: h.Name(), Err: err}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Source: h.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Source: h.Name(), Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var parsed hackerNewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &UpstreamError{Source: h.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}

	out := make([]article.Article, 0, limit)
	for _, hit := range parsed.Hits {
		if len(out) >= limit {
			break
		}
		a, ok := h.transform(hit, len(out))
		if !ok {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// transform maps one story hit into the canonical record. Stories without an
// outbound URL, a title, or meaningful story text are rejected.
func (h *HackerNews) transform(hit hackerNewsHit, index int) (article.Article, bool) {
	if hit.URL == "" || hit.Title == "" {
		return article.Article{}, false
	}
	if len(hit.StoryText) < hackerNewsMinText {
		return article.Article{}, false
	}

	published, err := time.Parse(time.RFC3339, hit.CreatedAt)
	if err != nil {
		published = time.Now().UTC()
	}

	text := stripHTML(hit.StoryText)
	excerpt := article.Excerpt(text)
	if excerpt == "" {
		excerpt = fmt.Sprintf("Popular story with %d points on Hacker News.", hit.Points)
	}

	author := hit.Author
	if author == "" {
		author = "HN User"
	}

	return article.Article{
		ID:           "hn-" + hit.ObjectID,
		Title:        hit.Title,
		Slug:         "hn-" + hit.ObjectID,
		Excerpt:      excerpt,
		Content:      article.Truncate(text, hackerNewsContentCap),
		Author:       author,
		Category:     article.CategoryTechnology,
		Tags:         []string{"hacker-news", "tech"},
		PublishedAt:  published,
		UpdatedAt:    published,
		Featured:     index == 0,
		Source:       "Hacker News",
		SourceURL:    hit.URL,
		SourceDomain: article.SourceDomain(hit.URL),
	}, true
}
