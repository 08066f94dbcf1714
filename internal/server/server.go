// Package server exposes the HTTP API: stored article listings, live
// upstream fetches, sync control and an RSS rendition of the catalog.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"newsdesk/internal/aggregator"
	"newsdesk/internal/article"
	"newsdesk/internal/config"
	"newsdesk/internal/ingest"
	"newsdesk/internal/pagination"
	"newsdesk/internal/query"
)

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	queries    *query.Service
	aggregator *aggregator.Aggregator
	ingester   *ingest.Service
	config     *config.Config
}

// New creates a new server instance
func New(queries *query.Service, agg *aggregator.Aggregator, ingester *ingest.Service, cfg *config.Config) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		queries:    queries,
		aggregator: agg,
		ingester:   ingester,
		config:     cfg,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Middleware
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Timeout(60 * time.Second))

	// Routes
	s.router.Get("/articles", s.handleArticleList)
	s.router.Get("/articles/featured", s.handleFeatured)
	s.router.Get("/articles/{slug}", s.handleArticleDetail)
	s.router.Get("/categories", s.handleCategories)
	s.router.Get("/live", s.handleLive)
	s.router.Get("/live/{category}", s.handleLiveCategory)
	s.router.Get("/search", s.handleSearch)
	s.router.Post("/sync", s.handleSync)
	s.router.Get("/sync/status", s.handleSyncStatus)
	s.router.Get("/rss.xml", s.handleRSS)

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// Router returns the Chi router
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	log.Printf("Starting server on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// handleArticleList serves a filtered, paginated page of stored articles.
func (s *Server) handleArticleList(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, limit := pagination.ParseParams(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))
	sort := query.ParseSort(r.URL.Query().Get("sort"))

	result := s.queries.List(r.Context(), filters, sort, query.Page{Page: page, Limit: limit})
	respondJSON(w, http.StatusOK, result)
}

// handleFeatured serves the current featured articles.
func (s *Server) handleFeatured(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n >= 1 {
		limit = n
	}

	articles := s.queries.Featured(r.Context(), limit)
	respondJSON(w, http.StatusOK, map[string]any{"articles": articles})
}

// handleArticleDetail serves a single stored article by slug.
func (s *Server) handleArticleDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	a, err := s.queries.GetBySlug(r.Context(), slug)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load article")
		return
	}
	if a == nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("no article with slug %q", slug))
		return
	}

	respondJSON(w, http.StatusOK, a)
}

// handleCategories lists the category catalog.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"categories": article.CategorySeed()})
}

// handleLive fetches fresh articles from every upstream source, bypassing
// the store.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	articles := s.aggregator.FetchAll(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{
		"articles": articles,
		"total":    len(articles),
	})
}

// handleLiveCategory fetches fresh articles for one category.
func (s *Server) handleLiveCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "category")
	cat, ok := article.CategoryFromSlug(slug)
	if !ok {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown category %q", slug))
		return
	}

	articles := s.aggregator.FetchCategory(r.Context(), cat)
	respondJSON(w, http.StatusOK, map[string]any{
		"articles": articles,
		"total":    len(articles),
	})
}

// handleSearch runs a live free-text search across the search-capable
// sources.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondError(w, http.StatusBadRequest, "q parameter is required")
		return
	}
	limit := 20
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n >= 1 {
		limit = min(n, pagination.MaxLimit)
	}

	articles := s.aggregator.Search(r.Context(), q, limit)
	respondJSON(w, http.StatusOK, map[string]any{
		"articles": articles,
		"total":    len(articles),
		"query":    q,
	})
}

// handleSync triggers a manual sync run.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	log.Println("Starting manual sync...")

	stored, err := s.ingester.Sync(r.Context())
	if err != nil {
		if s.ingester.Tracker().Active() {
			respondError(w, http.StatusConflict, "a sync is already in progress")
			return
		}
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("sync failed: %v", err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"stored": stored})
}

// handleSyncStatus reports the state of the current or last sync run.
func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.ingester.Tracker().Current())
}

// handleRSS generates and serves the RSS feed
func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	result := s.queries.List(r.Context(), query.Filters{}, query.SortNewest, query.Page{Page: 1, Limit: 50})

	feed, err := GenerateRSSFeed(result.Articles, s.config)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate feed")
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write([]byte(feed))
}

func parseFilters(r *http.Request) (query.Filters, error) {
	q := r.URL.Query()
	var filters query.Filters

	if slug := q.Get("category"); slug != "" {
		cat, ok := article.CategoryFromSlug(slug)
		if !ok {
			return filters, fmt.Errorf("unknown category %q", slug)
		}
		filters.Category = cat
	}

	if tags := q.Get("tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filters.Tags = append(filters.Tags, t)
			}
		}
	}

	if v := q.Get("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			return filters, fmt.Errorf("featured must be a boolean, got %q", v)
		}
		filters.Featured = &featured
	}

	filters.Search = q.Get("search")
	return filters, nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
