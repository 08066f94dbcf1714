// Package ingest pulls articles from the upstream sources and persists them,
// skipping anything already stored. A scheduler re-runs the sync on a fixed
// interval.
package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"newsdesk/internal/article"
)

// Fetcher produces the merged upstream article set.
type Fetcher interface {
	FetchAll(ctx context.Context) []article.Article
}

// Writer persists one article, reporting whether a row was written. An
// article whose slug or id already exists is skipped, never overwritten.
type Writer interface {
	CreateSkipDuplicate(ctx context.Context, a article.Article) (bool, error)
}

// Pruner removes stored articles older than a cutoff. Writers that also
// implement it get a retention pass at the end of each sync.
type Pruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Service runs sync passes: fetch everything upstream, store what is new.
type Service struct {
	fetcher   Fetcher
	writer    Writer
	tracker   *Tracker
	retention time.Duration
}

func New(fetcher Fetcher, writer Writer) *Service {
	return &Service{
		fetcher: fetcher,
		writer:  writer,
		tracker: NewTracker(),
	}
}

// SetRetention bounds how long stored articles are kept. Zero means forever.
func (s *Service) SetRetention(d time.Duration) {
	s.retention = d
}

// Tracker exposes the progress tracker for the HTTP surface.
func (s *Service) Tracker() *Tracker {
	return s.tracker
}

// Sync fetches from all sources and persists the merged set. It returns how
// many articles were newly stored. When a run is already in flight it
// returns immediately without starting another.
func (s *Service) Sync(ctx context.Context) (int, error) {
	if !s.tracker.TryBegin() {
		return 0, fmt.Errorf("sync already in progress")
	}
	defer s.tracker.End()

	start := time.Now()
	log.Println("Starting sync...")

	articles := s.fetcher.FetchAll(ctx)
	s.tracker.SetStatus(StatusStoring, fmt.Sprintf("Storing %d articles", len(articles)))

	stored := 0
	failed := 0
	for _, a := range articles {
		if ctx.Err() != nil {
			s.tracker.SetStatus(StatusFailed, ctx.Err().Error())
			return stored, ctx.Err()
		}
		created, err := s.writer.CreateSkipDuplicate(ctx, a)
		if err != nil {
			log.Printf("Failed to store article %q: %v", a.Slug, err)
			failed++
			continue
		}
		s.tracker.RecordStored(created)
		if created {
			stored++
		}
	}
	if failed > 0 {
		log.Printf("Skipped %d articles that failed to store", failed)
	}

	if pruner, ok := s.writer.(Pruner); ok && s.retention > 0 {
		pruned, err := pruner.DeleteOlderThan(ctx, time.Now().Add(-s.retention))
		if err != nil {
			log.Printf("Retention pass failed: %v", err)
		} else if pruned > 0 {
			log.Printf("Pruned %d articles past retention", pruned)
		}
	}

	s.tracker.SetStatus(StatusCompleted, fmt.Sprintf("Stored %d new articles", stored))
	log.Printf("Sync complete: %d fetched, %d new, took %s", len(articles), stored, time.Since(start).Round(time.Millisecond))
	return stored, nil
}

// Scheduler triggers a sync on a fixed interval until the context ends.
type Scheduler struct {
	service  *Service
	interval time.Duration
}

func NewScheduler(service *Service, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &Scheduler{service: service, interval: interval}
}

// Run optionally performs an immediate sync and then repeats on every tick.
// It blocks until the context is cancelled, so callers run it in a goroutine.
func (s *Scheduler) Run(ctx context.Context, syncNow bool) {
	if syncNow {
		if _, err := s.service.Sync(ctx); err != nil {
			log.Printf("Initial sync failed: %v", err)
		}
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.service.Sync(ctx); err != nil {
				log.Printf("Scheduled sync failed: %v", err)
			}
		}
	}
}
