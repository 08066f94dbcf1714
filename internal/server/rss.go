package server

import (
	"fmt"
	"time"

	"github.com/gorilla/feeds"

	"newsdesk/internal/article"
	"newsdesk/internal/config"
)

// GenerateRSSFeed creates an RSS feed from articles
func GenerateRSSFeed(articles []article.Article, cfg *config.Config) (string, error) {
	now := time.Now()

	feed := &feeds.Feed{
		Title:       cfg.FeedTitle,
		Link:        &feeds.Link{Href: cfg.FeedLink},
		Description: cfg.FeedDescription,
		Author:      &feeds.Author{Name: cfg.FeedAuthor},
		Created:     now,
	}

	// Convert articles to feed items
	feed.Items = make([]*feeds.Item, 0, len(articles))
	for _, a := range articles {
		item := &feeds.Item{
			Title:   a.Title,
			Link:    &feeds.Link{Href: a.SourceURL},
			Id:      fmt.Sprintf("%s/articles/%s", cfg.FeedLink, a.Slug),
			Created: a.PublishedAt,
		}

		// Truncate to reasonable length for RSS
		description := a.Content
		if description == "" {
			description = a.Excerpt
		}
		if len(description) > 500 {
			description = article.Truncate(description, 500) + "..."
		}
		item.Description = description

		if a.Author != "" {
			item.Author = &feeds.Author{Name: a.Author}
		}

		feed.Items = append(feed.Items, item)
	}

	// Generate RSS 2.0 format
	rss, err := feed.ToRss()
	if err != nil {
		return "", fmt.Errorf("failed to generate RSS: %w", err)
	}

	return rss, nil
}
