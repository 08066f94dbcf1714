package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"newsdesk/internal/article"
)

const nytimesBaseURL = "https://api.nytimes.com/svc"

const nytimesFeaturedCount = 2

// NYTimes sections mapped into our category set; anything else falls back
// to the default category.
var nytimesSectionMap = map[string]article.Category{
	"world":      article.CategoryWorld,
	"us":         article.CategoryWorld,
	"politics":   article.CategoryPolitics,
	"business":   article.CategoryBusiness,
	"technology": article.CategoryTechnology,
	"sports":     article.CategorySports,
	"arts":       article.CategoryEntertainment,
	"science":    article.CategoryScience,
	"health":     article.CategoryHealth,
	"opinion":    article.CategoryWorld,
}

// Reverse lookup for category-scoped fetches.
var nytimesCategorySections = map[article.Category]string{
	article.CategoryWorld:         "world",
	article.CategoryPolitics:      "politics",
	article.CategoryBusiness:      "business",
	article.CategoryTechnology:    "technology",
	article.CategorySports:        "sports",
	article.CategoryEntertainment: "arts",
	article.CategoryScience:       "science",
	article.CategoryHealth:        "health",
}

type nytimesArticle struct {
	URI           string `json:"uri"`
	URL           string `json:"url"`
	ID            int64  `json:"id"`
	AssetID       int64  `json:"asset_id"`
	PublishedDate string `json:"published_date"`
	Updated       string `json:"updated"`
	Section       string `json:"section"`
	AdxKeywords   string `json:"adx_keywords"`
	Byline        string `json:"byline"`
	Title         string `json:"title"`
	Abstract      string `json:"abstract"`
	Media         []struct {
		Metadata []struct {
			URL    string `json:"url"`
			Format string `json:"format"`
			Height int    `json:"height"`
			Width  int    `json:"width"`
		} `json:"media-metadata"`
	} `json:"media"`
	Multimedia []struct {
		URL    string `json:"url"`
		Format string `json:"format"`
	} `json:"multimedia"`
}

type nytimesResponse struct {
	Status     string           `json:"status"`
	NumResults int              `json:"num_results"`
	Results    []nytimesArticle `json:"results"`
}

// The article search API wraps its documents in a different envelope.
type nytimesSearchDoc struct {
	WebURL   string `json:"web_url"`
	Snippet  string `json:"snippet"`
	Abstract string `json:"abstract"`
	Headline struct {
		Main string `json:"main"`
	} `json:"headline"`
	PubDate     string `json:"pub_date"`
	SectionName string `json:"section_name"`
	Byline      struct {
		Original string `json:"original"`
	} `json:"byline"`
	Keywords []struct {
		Value string `json:"value"`
	} `json:"keywords"`
}

type nytimesSearchResponse struct {
	Status   string `json:"status"`
	Response struct {
		Docs []nytimesSearchDoc `json:"docs"`
	} `json:"response"`
}

// NYTimes fetches the most-popular and top-stories feeds from the New York
// Times developer APIs.
type NYTimes struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewNYTimes builds the adapter; a nil client gets a 20s-timeout default.
func NewNYTimes(apiKey string, client *http.Client) *NYTimes {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &NYTimes{apiKey: apiKey, baseURL: nytimesBaseURL, client: client}
}

// Name identifies the adapter in logs and aggregator bookkeeping.
func (t *NYTimes) Name() string { return "nytimes" }

// Fetch pulls the most-viewed articles of the past week.
func (t *NYTimes) Fetch(ctx context.Context, p Params) ([]article.Article, error) {
	if t.apiKey == "" {
		return nil, &ConfigError{Source: t.Name(), Reason: "missing NYTIMES_API_KEY"}
	}
	reqURL := fmt.Sprintf("%s/mostpopular/v2/viewed/7.json?api-key=%s", t.baseURL, url.QueryEscape(t.apiKey))
	resp, err := t.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	return t.transformBatch(resp.Results, p.Limit), nil
}

// FetchCategory pulls top stories for the section backing one category.
func (t *NYTimes) FetchCategory(ctx context.Context, cat article.Category) ([]article.Article, error) {
	if t.apiKey == "" {
		return nil, &ConfigError{Source: t.Name(), Reason: "missing NYTIMES_API_KEY"}
	}
	section, ok := nytimesCategorySections[cat]
	if !ok {
		section = "home"
	}
	reqURL := fmt.Sprintf("%s/topstories/v2/%s.json?api-key=%s", t.baseURL, section, url.QueryEscape(t.apiKey))
	resp, err := t.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	return t.transformBatch(resp.Results, 20), nil
}

// Search queries the article search API by free text, newest first.
func (t *NYTimes) Search(ctx context.Context, query string, limit int) ([]article.Article, error) {
	if t.apiKey == "" {
		return nil, &ConfigError{Source: t.Name(), Reason: "missing NYTIMES_API_KEY"}
	}
	if limit <= 0 {
		limit = 10
	}

	reqURL := fmt.Sprintf("%s/search/v2/articlesearch.json?q=%s&sort=newest&api-key=%s",
		t.baseURL, url.QueryEscape(query), url.QueryEscape(t.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &UpstreamError{Source: t.Name(), Err: err}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Source: t.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Source: t.Name(), Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var parsed nytimesSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &UpstreamError{Source: t.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}
	if parsed.Status != "OK" {
		return nil, &UpstreamError{Source: t.Name(), Err: fmt.Errorf("api status %q", parsed.Status)}
	}

	out := make([]article.Article, 0, limit)
	for i, doc := range parsed.Response.Docs {
		if len(out) >= limit {
			break
		}
		a, ok := t.transformSearchDoc(doc, i)
		if !ok {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (t *NYTimes) get(ctx context.Context, reqURL string) (*nytimesResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &UpstreamError{Source: t.Name(), Err: err}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Source: t.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Source: t.Name(), Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var parsed nytimesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &UpstreamError{Source: t.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}
	if parsed.Status != "OK" {
		return nil, &UpstreamError{Source: t.Name(), Err: fmt.Errorf("api status %q", parsed.Status)}
	}
	return &parsed, nil
}

func (t *NYTimes) transformBatch(raw []nytimesArticle, limit int) []article.Article {
	if limit <= 0 || limit > len(raw) {
		limit = len(raw)
	}
	out := make([]article.Article, 0, limit)
	for i, item := range raw {
		if len(out) >= limit {
			break
		}
		a, ok := t.transform(item, i)
		if !ok {
			continue
		}
		out = append(out, a)
	}
	return out
}

// transform maps one NYTimes result into the canonical record. The abstract
// is the whole content preview; the APIs never return full bodies.
func (t *NYTimes) transform(raw nytimesArticle, index int) (article.Article, bool) {
	if raw.Title == "" || raw.Abstract == "" || raw.URL == "" {
		return article.Article{}, false
	}

	published := parseNYTimesDate(raw.PublishedDate)
	updated := parseNYTimesDate(raw.Updated)
	if updated.IsZero() {
		updated = published
	}

	cat, ok := nytimesSectionMap[strings.ToLower(raw.Section)]
	if !ok {
		cat = article.DefaultCategory
	}

	upstreamID := raw.ID
	if upstreamID == 0 {
		upstreamID = raw.AssetID
	}
	id := fmt.Sprintf("nyt-%d-%d", upstreamID, index)
	if upstreamID == 0 {
		id = fmt.Sprintf("nyt-%d-%d", article.HashID(raw.URL), index)
	}

	return article.Article{
		ID:           id,
		Title:        raw.Title,
		Slug:         article.Slug(raw.Title),
		Excerpt:      article.Excerpt(raw.Abstract),
		Content:      raw.Abstract,
		Author:       nytimesAuthor(raw.Byline),
		Category:     cat,
		Tags:         nytimesTags(raw.AdxKeywords),
		ImageURL:     t.imageURL(raw),
		PublishedAt:  published,
		UpdatedAt:    updated,
		Featured:     index < nytimesFeaturedCount,
		Source:       "The New York Times",
		SourceURL:    raw.URL,
		SourceDomain: "nytimes.com",
	}, true
}

func (t *NYTimes) transformSearchDoc(doc nytimesSearchDoc, index int) (article.Article, bool) {
	abstract := doc.Abstract
	if abstract == "" {
		abstract = doc.Snippet
	}
	if doc.Headline.Main == "" || abstract == "" || doc.WebURL == "" {
		return article.Article{}, false
	}

	published := parseNYTimesDate(doc.PubDate)

	cat, ok := nytimesSectionMap[strings.ToLower(doc.SectionName)]
	if !ok {
		cat = article.DefaultCategory
	}

	tags := make([]string, 0, 5)
	for _, kw := range doc.Keywords {
		v := strings.ToLower(strings.TrimSpace(kw.Value))
		if v == "" {
			continue
		}
		tags = append(tags, v)
		if len(tags) == 5 {
			break
		}
	}

	return article.Article{
		ID:           fmt.Sprintf("nyt-%d-%d", article.HashID(doc.WebURL), index),
		Title:        doc.Headline.Main,
		Slug:         article.Slug(doc.Headline.Main),
		Excerpt:      article.Excerpt(abstract),
		Content:      abstract,
		Author:       nytimesAuthor(doc.Byline.Original),
		Category:     cat,
		Tags:         tags,
		PublishedAt:  published,
		UpdatedAt:    published,
		Featured:     false,
		Source:       "The New York Times",
		SourceURL:    doc.WebURL,
		SourceDomain: "nytimes.com",
	}, true
}

// imageURL picks the largest media rendition available.
func (t *NYTimes) imageURL(raw nytimesArticle) string {
	if len(raw.Media) > 0 {
		best := ""
		bestWidth := -1
		for _, m := range raw.Media[0].Metadata {
			if m.Width > bestWidth {
				bestWidth = m.Width
				best = m.URL
			}
		}
		if best != "" {
			return best
		}
	}
	if len(raw.Multimedia) > 0 {
		return raw.Multimedia[0].URL
	}
	return ""
}

func nytimesAuthor(byline string) string {
	byline = strings.TrimSpace(byline)
	if len(byline) >= 3 && strings.EqualFold(byline[:3], "By ") {
		byline = strings.TrimSpace(byline[3:])
	}
	if byline == "" {
		return "The New York Times"
	}
	return byline
}

// nytimesTags splits the semicolon-separated keyword field into at most
// five lowercase tags.
func nytimesTags(keywords string) []string {
	if keywords == "" {
		return nil
	}
	parts := strings.Split(keywords, ";")
	tags := make([]string, 0, 5)
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		tags = append(tags, p)
		if len(tags) == 5 {
			break
		}
	}
	return tags
}

func parseNYTimesDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
