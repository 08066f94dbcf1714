package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"newsdesk/internal/aggregator"
	"newsdesk/internal/config"
	"newsdesk/internal/database"
	"newsdesk/internal/ingest"
	"newsdesk/internal/query"
	"newsdesk/internal/server"
	"newsdesk/internal/source"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env if present, then configuration
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log.Println("Starting Newsdesk...")

	// Connect to database
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	// Assemble sources; keyed APIs are skipped when no key is set
	sources, err := buildSources(cfg)
	if err != nil {
		return err
	}

	agg := aggregator.New(sources...)
	ingester := ingest.New(agg, db)
	if cfg.RetentionDays > 0 {
		ingester.SetRetention(time.Duration(cfg.RetentionDays) * 24 * time.Hour)
	}
	queries := query.NewService(db)

	// The background sync loop always runs; SYNC_ON_START only controls the
	// extra pass before the first tick.
	scheduler := ingest.NewScheduler(ingester, time.Duration(cfg.SyncIntervalMinutes)*time.Minute)
	go scheduler.Run(ctx, cfg.SyncOnStart)
	log.Printf("Sync scheduled every %d minutes", cfg.SyncIntervalMinutes)

	// Create server
	srv := server.New(queries, agg, ingester, cfg)
	log.Println("Initialized server")

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down gracefully...")
		cancel()
		os.Exit(0)
	}()

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Server starting on http://localhost%s", addr)
	return srv.Start(addr)
}

func buildSources(cfg *config.Config) ([]source.Source, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	var sources []source.Source

	if cfg.NewsAPIKey != "" {
		sources = append(sources, source.NewNewsAPI(cfg.NewsAPIKey, client))
	} else {
		log.Println("NEWSAPI_KEY not set, skipping NewsAPI source")
	}

	if cfg.NYTimesKey != "" {
		sources = append(sources, source.NewNYTimes(cfg.NYTimesKey, client))
	} else {
		log.Println("NYTIMES_API_KEY not set, skipping New York Times source")
	}

	sources = append(sources, source.NewHackerNews(client))

	feeds, err := cfg.Feeds()
	if err != nil {
		return nil, fmt.Errorf("failed to load feeds: %w", err)
	}
	sources = append(sources, source.NewRSS(feeds, client))

	return sources, nil
}
