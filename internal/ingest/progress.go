package ingest

import (
	"sync"
	"time"
)

// RunStatus represents the current state of a sync run
type RunStatus string

const (
	StatusIdle      RunStatus = "idle"
	StatusFetching  RunStatus = "fetching"
	StatusStoring   RunStatus = "storing"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// RunUpdate represents a single progress update of a sync run
type RunUpdate struct {
	Status         RunStatus `json:"status"`
	Message        string    `json:"message"`
	ArticlesSeen   int       `json:"articlesSeen"`
	ArticlesStored int       `json:"articlesStored"`
	Skipped        int       `json:"skipped"`
	Timestamp      time.Time `json:"timestamp"`
}

// Tracker tracks the progress of the current sync run and fans updates out
// to subscribers.
type Tracker struct {
	mu        sync.RWMutex
	current   RunUpdate
	listeners []chan RunUpdate
	active    bool
}

func NewTracker() *Tracker {
	return &Tracker{
		current: RunUpdate{
			Status:    StatusIdle,
			Timestamp: time.Now(),
		},
		listeners: make([]chan RunUpdate, 0),
	}
}

// Update replaces the current progress and notifies listeners.
func (t *Tracker) Update(update RunUpdate) {
	t.mu.Lock()
	update.Timestamp = time.Now()
	t.current = update

	for _, listener := range t.listeners {
		select {
		case listener <- update:
		default:
			// Skip if channel is full
		}
	}
	t.mu.Unlock()
}

// SetStatus updates just the status and message.
func (t *Tracker) SetStatus(status RunStatus, message string) {
	t.mu.RLock()
	update := t.current
	t.mu.RUnlock()

	update.Status = status
	update.Message = message
	t.Update(update)
}

// RecordStored bumps the stored/skipped counters for one persisted article.
func (t *Tracker) RecordStored(stored bool) {
	t.mu.Lock()
	t.current.ArticlesSeen++
	if stored {
		t.current.ArticlesStored++
	} else {
		t.current.Skipped++
	}
	update := t.current
	t.mu.Unlock()

	t.Update(update)
}

// Current returns the latest progress snapshot.
func (t *Tracker) Current() RunUpdate {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Subscribe creates a new listener channel for progress updates.
func (t *Tracker) Subscribe() chan RunUpdate {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan RunUpdate, 10)
	t.listeners = append(t.listeners, ch)

	// Send current state immediately
	ch <- t.current

	return ch
}

// Unsubscribe removes a listener channel.
func (t *Tracker) Unsubscribe(ch chan RunUpdate) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, listener := range t.listeners {
		if listener == ch {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			close(ch)
			break
		}
	}
}

// TryBegin marks a run as active. It reports false when a run is already in
// flight, so concurrent sync triggers collapse into one.
func (t *Tracker) TryBegin() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active {
		return false
	}
	t.active = true
	t.current = RunUpdate{
		Status:    StatusFetching,
		Timestamp: time.Now(),
	}
	return true
}

// End marks the current run as finished.
func (t *Tracker) End() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = false
}

// Active reports whether a sync run is currently in flight.
func (t *Tracker) Active() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active
}
