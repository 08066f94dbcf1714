package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"newsdesk/internal/article"
	"newsdesk/internal/source"
)

// Config holds all application configuration
type Config struct {
	// Database
	DatabaseURL string

	// Upstream API keys (sources without a key are skipped)
	NewsAPIKey string
	NYTimesKey string

	// Server
	Port int

	// Sync
	SyncIntervalMinutes int
	SyncOnStart         bool
	RetentionDays       int

	// RSS output feed
	FeedTitle       string
	FeedDescription string
	FeedLink        string
	FeedAuthor      string

	// Optional feeds file overriding the built-in RSS feed list
	FeedsFile string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		NewsAPIKey:          getEnv("NEWSAPI_KEY", ""),
		NYTimesKey:          getEnv("NYTIMES_API_KEY", ""),
		Port:                getEnvAsInt("PORT", 8080),
		SyncIntervalMinutes: getEnvAsInt("SYNC_INTERVAL_MINUTES", 30),
		SyncOnStart:         getEnvAsBool("SYNC_ON_START", true),
		RetentionDays:       getEnvAsInt("RETENTION_DAYS", 0),
		FeedTitle:           getEnv("FEED_TITLE", "Newsdesk"),
		FeedDescription:     getEnv("FEED_DESCRIPTION", "Aggregated news from Newsdesk"),
		FeedLink:            getEnv("FEED_LINK", "http://localhost:8080"),
		FeedAuthor:          getEnv("FEED_AUTHOR", "Newsdesk"),
		FeedsFile:           getEnv("FEEDS_FILE", ""),
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

// Feeds returns the RSS feed list: the contents of FEEDS_FILE when set,
// otherwise the built-in defaults.
func (c *Config) Feeds() ([]source.Feed, error) {
	if c.FeedsFile == "" {
		return source.DefaultFeeds(), nil
	}

	data, err := os.ReadFile(c.FeedsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read feeds file: %w", err)
	}

	var parsed struct {
		Feeds []struct {
			URL      string `yaml:"url"`
			Source   string `yaml:"source"`
			Category string `yaml:"category"`
		} `yaml:"feeds"`
	}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse feeds file: %w", err)
	}
	if len(parsed.Feeds) == 0 {
		return nil, fmt.Errorf("feeds file %s lists no feeds", c.FeedsFile)
	}

	feeds := make([]source.Feed, 0, len(parsed.Feeds))
	for i, f := range parsed.Feeds {
		if f.URL == "" {
			return nil, fmt.Errorf("feeds file entry %d is missing a url", i)
		}
		cat := article.DefaultCategory
		if f.Category != "" {
			var ok bool
			if cat, ok = article.CategoryFromSlug(f.Category); !ok {
				return nil, fmt.Errorf("feeds file entry %d has unknown category %q", i, f.Category)
			}
		}
		feeds = append(feeds, source.Feed{
			URL:      f.URL,
			Source:   f.Source,
			Category: cat,
		})
	}
	return feeds, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
