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

const newsAPIBaseURL = "https://newsapi.org/v2"

// Upstream category codes the headlines API accepts, in request order,
// with their mapping onto our categories.
var newsAPICategoryCodes = []string{
	"general",
	"business",
	"entertainment",
	"health",
	"science",
	"sports",
	"technology",
}

var newsAPIRequestCategories = map[string]article.Category{
	"general":       article.CategoryWorld,
	"business":      article.CategoryBusiness,
	"entertainment": article.CategoryEntertainment,
	"health":        article.CategoryHealth,
	"science":       article.CategoryScience,
	"sports":        article.CategorySports,
	"technology":    article.CategoryTechnology,
}

// First N articles of each headline batch are flagged for display emphasis.
const newsAPIFeaturedCount = 3

const newsAPIContentCap = 500

type newsAPIArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

type newsAPIResponse struct {
	Status       string           `json:"status"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

// NewsAPI fetches top headlines per category from the newsapi.org service.
type NewsAPI struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewNewsAPI builds the adapter; a nil client gets a 20s-timeout default.
func NewNewsAPI(apiKey string, client *http.Client) *NewsAPI {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &NewsAPI{apiKey: apiKey, baseURL: newsAPIBaseURL, client: client}
}

// Name identifies the adapter in logs and aggregator bookkeeping.
func (n *NewsAPI) Name() string { return "newsapi" }

// Fetch pulls top headlines across every upstream category. A single failing
// category does not fail the batch unless every category fails.
func (n *NewsAPI) Fetch(ctx context.Context, p Params) ([]article.Article, error) {
	if n.apiKey == "" {
		return nil, &ConfigError{Source: n.Name(), Reason: "missing NEWSAPI_KEY"}
	}

	perCategory := p.Limit
	if perCategory <= 0 {
		perCategory = 5
	}

	var all []article.Article
	var lastErr error
	failed := 0
	for _, code := range newsAPICategoryCodes {
		batch, err := n.fetchHeadlines(ctx, code, perCategory)
		if err != nil {
			failed++
			lastErr = err
			continue
		}
		all = append(all, batch...)
	}
	if failed == len(newsAPICategoryCodes) {
		return nil, lastErr
	}
	return all, nil
}

// FetchCategory pulls one category's headlines.
func (n *NewsAPI) FetchCategory(ctx context.Context, cat article.Category) ([]article.Article, error) {
	if n.apiKey == "" {
		return nil, &ConfigError{Source: n.Name(), Reason: "missing NEWSAPI_KEY"}
	}
	for _, code := range newsAPICategoryCodes {
		if newsAPIRequestCategories[code] == cat {
			return n.fetchHeadlines(ctx, code, 20)
		}
	}
	// No upstream code covers this category (e.g. Politics).
	return nil, nil
}

// Search queries the everything endpoint by free text, newest first.
func (n *NewsAPI) Search(ctx context.Context, query string, limit int) ([]article.Article, error) {
	if n.apiKey == "" {
		return nil, &ConfigError{Source: n.Name(), Reason: "missing NEWSAPI_KEY"}
	}
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(limit))
	reqURL := fmt.Sprintf("%s/everything?%s", n.baseURL, params.Encode())

	resp, err := n.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	return n.transformBatch(resp.Articles, "general"), nil
}

func (n *NewsAPI) fetchHeadlines(ctx context.Context, categoryCode string, pageSize int) ([]article.Article, error) {
	params := url.Values{}
	params.Set("country", "us")
	params.Set("category", categoryCode)
	params.Set("pageSize", strconv.Itoa(pageSize))
	reqURL := fmt.Sprintf("%s/top-headlines?%s", n.baseURL, params.Encode())

	resp, err := n.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	return n.transformBatch(resp.Articles, categoryCode), nil
}

func (n *NewsAPI) get(ctx context.Context, reqURL string) (*newsAPIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &UpstreamError{Source: n.Name(), Err: err}
	}
	req.Header.Set("X-Api-Key", n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Source: n.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Source: n.Name(), Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var parsed newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &UpstreamError{Source: n.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}
	if parsed.Status != "ok" {
		return nil, &UpstreamError{Source: n.Name(), Err: fmt.Errorf("api status %q", parsed.Status)}
	}
	return &parsed, nil
}

func (n *NewsAPI) transformBatch(raw []newsAPIArticle, categoryCode string) []article.Article {
	out := make([]article.Article, 0, len(raw))
	for i, item := range raw {
		a, ok := n.transform(item, categoryCode, i)
		if !ok {
			continue
		}
		out = append(out, a)
	}
	return out
}

// transform maps one raw headline into the canonical record. Items missing a
// title, description, or URL are rejected rather than defaulted.
func (n *NewsAPI) transform(raw newsAPIArticle, categoryCode string, index int) (article.Article, bool) {
	if raw.Title == "" || raw.Description == "" || raw.URL == "" {
		return article.Article{}, false
	}

	published, err := time.Parse(time.RFC3339, raw.PublishedAt)
	if err != nil {
		published = time.Now().UTC()
	}

	cat, ok := newsAPIRequestCategories[categoryCode]
	if !ok {
		cat = article.DefaultCategory
	}

	content := raw.Content
	if content == "" {
		content = raw.Description
	}

	author := raw.Author
	if author == "" {
		author = "Staff Writer"
	}

	return article.Article{
		ID:           fmt.Sprintf("newsapi-%s-%d-%d", categoryCode, article.HashID(raw.URL), index),
		Title:        raw.Title,
		Slug:         article.Slug(raw.Title),
		Excerpt:      article.Excerpt(raw.Description),
		Content:      article.Truncate(content, newsAPIContentCap),
		Author:       author,
		Category:     cat,
		Tags:         article.Tags(raw.Title, raw.Description),
		ImageURL:     raw.URLToImage,
		PublishedAt:  published,
		UpdatedAt:    published,
		Featured:     index < newsAPIFeaturedCount,
		Source:       raw.Source.Name,
		SourceURL:    raw.URL,
		SourceDomain: article.SourceDomain(raw.URL),
	}, true
}
