package config

import (
	"os"
	"path/filepath"
	"testing"

	"newsdesk/internal/article"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when DATABASE_URL is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/newsdesk")
	t.Setenv("PORT", "")
	t.Setenv("SYNC_INTERVAL_MINUTES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.SyncIntervalMinutes != 30 {
		t.Fatalf("expected default sync interval 30, got %d", cfg.SyncIntervalMinutes)
	}
	if !cfg.SyncOnStart {
		t.Fatal("sync on start should default to true")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/newsdesk")
	t.Setenv("PORT", "9000")
	t.Setenv("SYNC_INTERVAL_MINUTES", "5")
	t.Setenv("SYNC_ON_START", "false")
	t.Setenv("NEWSAPI_KEY", "abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 9000 || cfg.SyncIntervalMinutes != 5 || cfg.SyncOnStart {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.NewsAPIKey != "abc" {
		t.Fatalf("expected api key abc, got %q", cfg.NewsAPIKey)
	}
}

func TestLoadIgnoresBadNumbers(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/newsdesk")
	t.Setenv("PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("unparseable port should fall back to default, got %d", cfg.Port)
	}
}

func TestFeedsDefault(t *testing.T) {
	cfg := &Config{}
	feeds, err := cfg.Feeds()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(feeds) == 0 {
		t.Fatal("expected the built-in feed table")
	}
}

func TestFeedsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	content := `feeds:
  - url: https://example.com/rss.xml
    source: Example
    category: technology
  - url: https://example.org/feed
    source: Example Org
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write feeds file: %v", err)
	}

	cfg := &Config{FeedsFile: path}
	feeds, err := cfg.Feeds()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(feeds) != 2 {
		t.Fatalf("expected 2 feeds, got %d", len(feeds))
	}
	if feeds[0].Category != article.CategoryTechnology {
		t.Fatalf("expected Technology, got %s", feeds[0].Category)
	}
	if feeds[1].Category != article.DefaultCategory {
		t.Fatalf("missing category should default, got %s", feeds[1].Category)
	}
}

func TestFeedsFileErrors(t *testing.T) {
	dir := t.TempDir()

	missing := &Config{FeedsFile: filepath.Join(dir, "absent.yaml")}
	if _, err := missing.Feeds(); err == nil {
		t.Fatal("expected an error for a missing feeds file")
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("feeds: []\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := (&Config{FeedsFile: empty}).Feeds(); err == nil {
		t.Fatal("expected an error for an empty feed list")
	}

	badCat := filepath.Join(dir, "badcat.yaml")
	if err := os.WriteFile(badCat, []byte("feeds:\n  - url: https://x.com/rss\n    category: weather\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := (&Config{FeedsFile: badCat}).Feeds(); err == nil {
		t.Fatal("expected an error for an unknown category")
	}
}
