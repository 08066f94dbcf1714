package source

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"newsdesk/internal/article"
)

const rssContentCap = 500

// Feed describes one RSS endpoint and the fixed attribution it carries.
type Feed struct {
	URL      string
	Source   string
	Category article.Category
}

// DefaultFeeds is the built-in feed table, used when no feeds file is
// configured. All of these are free and keyless.
func DefaultFeeds() []Feed {
	return []Feed{
		{"http://feeds.bbci.co.uk/news/world/rss.xml", "BBC News", article.CategoryWorld},
		{"http://feeds.bbci.co.uk/news/business/rss.xml", "BBC News", article.CategoryBusiness},
		{"http://feeds.bbci.co.uk/news/technology/rss.xml", "BBC News", article.CategoryTechnology},
		{"http://feeds.bbci.co.uk/news/entertainment_and_arts/rss.xml", "BBC News", article.CategoryEntertainment},
		{"http://feeds.bbci.co.uk/sport/rss.xml", "BBC Sport", article.CategorySports},
		{"https://feeds.npr.org/1003/rss.xml", "NPR", article.CategoryWorld},
		{"https://feeds.npr.org/1006/rss.xml", "NPR", article.CategoryBusiness},
		{"https://feeds.npr.org/1019/rss.xml", "NPR", article.CategoryTechnology},
		{"https://techcrunch.com/feed/", "TechCrunch", article.CategoryTechnology},
		{"https://feeds.arstechnica.com/arstechnica/index", "Ars Technica", article.CategoryTechnology},
		{"https://www.theverge.com/rss/index.xml", "The Verge", article.CategoryTechnology},
	}
}

// RSS reads a fixed table of publisher feeds through gofeed. Individual feed
// failures are logged and skipped; the adapter only errors when every feed
// fails, since a half-broken feed table is still a usable source.
type RSS struct {
	feeds  []Feed
	parser *gofeed.Parser
	client *http.Client
}

// NewRSS builds the adapter over the given feed table; an empty table gets
// the built-in defaults.
func NewRSS(feeds []Feed, client *http.Client) *RSS {
	if len(feeds) == 0 {
		feeds = DefaultFeeds()
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	parser := gofeed.NewParser()
	parser.Client = client
	return &RSS{feeds: feeds, parser: parser, client: client}
}

// Name identifies the adapter in logs and aggregator bookkeeping.
func (r *RSS) Name() string { return "rss" }

// Fetch pulls a handful of items from every configured feed.
func (r *RSS) Fetch(ctx context.Context, p Params) ([]article.Article, error) {
	perFeed := p.Limit
	if perFeed <= 0 {
		perFeed = 5
	}
	return r.fetchFeeds(ctx, r.feeds, perFeed)
}

// FetchCategory pulls items only from feeds attributed to one category.
func (r *RSS) FetchCategory(ctx context.Context, cat article.Category) ([]article.Article, error) {
	var scoped []Feed
	for _, f := range r.feeds {
		if f.Category == cat {
			scoped = append(scoped, f)
		}
	}
	if len(scoped) == 0 {
		return nil, nil
	}
	return r.fetchFeeds(ctx, scoped, 10)
}

func (r *RSS) fetchFeeds(ctx context.Context, feeds []Feed, perFeed int) ([]article.Article, error) {
	var all []article.Article
	failed := 0
	var lastErr error
	for _, feed := range feeds {
		batch, err := r.fetchFeed(ctx, feed, perFeed)
		if err != nil {
			failed++
			lastErr = err
			log.Printf("rss: feed %s failed: %v", feed.URL, err)
			continue
		}
		all = append(all, batch...)
	}
	if failed == len(feeds) && len(feeds) > 0 {
		return nil, &UpstreamError{Source: r.Name(), Err: fmt.Errorf("all %d feeds failed, last: %w", len(feeds), lastErr)}
	}
	return all, nil
}

func (r *RSS) fetchFeed(ctx context.Context, feed Feed, limit int) ([]article.Article, error) {
	parsed, err := r.parser.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		return nil, err
	}

	out := make([]article.Article, 0, limit)
	for _, item := range parsed.Items {
		if len(out) >= limit {
			break
		}
		a, ok := r.transform(item, feed, len(out))
		if !ok {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// transform maps one feed item into the canonical record. Items missing a
// title, link, or any publication time are rejected.
func (r *RSS) transform(item *gofeed.Item, feed Feed, index int) (article.Article, bool) {
	title := strings.TrimSpace(item.Title)
	link := strings.TrimSpace(item.Link)
	if title == "" || link == "" {
		return article.Article{}, false
	}

	var published time.Time
	switch {
	case item.PublishedParsed != nil:
		published = *item.PublishedParsed
	case item.UpdatedParsed != nil:
		published = *item.UpdatedParsed
	default:
		return article.Article{}, false
	}
	updated := published
	if item.UpdatedParsed != nil {
		updated = *item.UpdatedParsed
	}

	description := stripHTML(item.Description)
	if description == "" {
		description = stripHTML(item.Content)
	}

	tags := rssTags(item.Categories)
	if len(tags) == 0 {
		tags = article.Tags(title, description)
	}

	author := "Staff"
	if item.Author != nil && strings.TrimSpace(item.Author.Name) != "" {
		author = strings.TrimSpace(item.Author.Name)
	}

	imageURL := ""
	if item.Image != nil {
		imageURL = item.Image.URL
	}

	upstreamID := item.GUID
	if upstreamID == "" {
		upstreamID = link
	}

	return article.Article{
		ID:           fmt.Sprintf("rss-%s-%d-%d", article.Slug(feed.Source), article.HashID(upstreamID), index),
		Title:        title,
		Slug:         article.Slug(title),
		Excerpt:      article.Excerpt(description),
		Content:      article.Truncate(description, rssContentCap),
		Author:       author,
		Category:     feed.Category,
		Tags:         tags,
		ImageURL:     imageURL,
		PublishedAt:  published,
		UpdatedAt:    updated,
		Featured:     index == 0,
		Source:       feed.Source,
		SourceURL:    link,
		SourceDomain: article.SourceDomain(link),
	}, true
}

func rssTags(categories []string) []string {
	tags := make([]string, 0, 5)
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		tags = append(tags, c)
		if len(tags) == 5 {
			break
		}
	}
	return tags
}
