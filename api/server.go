package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/DeafMist/dept-site/backend/internal/config"
	"github.com/DeafMist/dept-site/backend/internal/models"
	"github.com/DeafMist/dept-site/backend/internal/processing"
	"github.com/DeafMist/dept-site/backend/internal/query"
	"github.com/DeafMist/dept-site/backend/internal/schema"
	"github.com/DeafMist/dept-site/backend/internal/search"
	"github.com/DeafMist/dept-site/backend/internal/validation"
)

// contentStore is the loader surface the handlers need.
type contentStore interface {
	search.Source
	Dir() string
	LoadPrograms(ctx context.Context) models.ApiResponse[[]models.AcademicProgram]

	GetFacultyMemberByID(ctx context.Context, id string) models.ApiResponse[*models.FacultyMember]
	GetResearchProjectByID(ctx context.Context, id string) models.ApiResponse[*models.ResearchProject]
	GetNewsArticleBySlug(ctx context.Context, slug string) models.ApiResponse[*models.NewsArticle]
	GetEventByID(ctx context.Context, id string) models.ApiResponse[*models.Event]

	SearchFacultyMembers(ctx context.Context, f models.SearchFilters, sort *models.SortOptions, page, limit int) models.PaginatedResponse[models.FacultyMember]
	SearchResearchProjects(ctx context.Context, f models.SearchFilters, sort *models.SortOptions, page, limit int) models.PaginatedResponse[models.ResearchProject]
	SearchNewsArticles(ctx context.Context, f models.SearchFilters, sort *models.SortOptions, page, limit int) models.PaginatedResponse[models.NewsArticle]
	SearchEvents(ctx context.Context, f models.SearchFilters, sort *models.SortOptions, page, limit int) models.PaginatedResponse[models.Event]
}

const maxSearchOffset = 10_000

type server struct {
	log      *slog.Logger
	cfg      *config.API
	content  contentStore
	limiters *clientLimiters
}

type errorResponse struct {
	Error string `json:"error"`
}

func newServer(log *slog.Logger, cfg *config.API, content contentStore) *server {
	s := &server{log: log, cfg: cfg, content: content}
	if cfg.RateLimit > 0 {
		s.limiters = newClientLimiters(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}
	return s
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.throttle)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleSearch)

		r.Get("/faculty", listHandler(s, s.content.SearchFacultyMembers, query.FacultySort))
		r.Get("/faculty/{id}", itemHandler(s, s.content.GetFacultyMemberByID))
		r.Get("/research", listHandler(s, s.content.SearchResearchProjects, query.ResearchSort))
		r.Get("/research/{id}", itemHandler(s, s.content.GetResearchProjectByID))
		r.Get("/news", listHandler(s, s.content.SearchNewsArticles, query.NewsSort))
		r.Get("/news/{id}", itemHandler(s, s.content.GetNewsArticleBySlug))
		r.Get("/events", listHandler(s, s.content.SearchEvents, query.EventSort))
		r.Get("/events/{id}", itemHandler(s, s.content.GetEventByID))
		r.Get("/programs", s.handlePrograms)
		r.Get("/schema/{kind}", s.handleSchema)
	})
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info, err := os.Stat(s.content.Dir())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: fmt.Sprintf("content dir: %v", err)})
		return
	}
	if !info.IsDir() {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "content dir is not a directory"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	q := r.URL.Query()
	opts := models.SearchOptions{
		Query:  processing.SanitizeSearchQuery(q.Get("q")),
		Tags:   parseCSV(q.Get("tags")),
		Limit:  clampInt(q.Get("limit"), search.DefaultLimit, s.cfg.MaxPage),
		Offset: clampInt(q.Get("offset"), 0, maxSearchOffset),
	}
	for _, raw := range parseCSV(q.Get("types")) {
		t, ok := models.ParseContentType(raw)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unknown content type %q", raw)})
			return
		}
		opts.Types = append(opts.Types, t)
	}

	if opts.Query == "" {
		writeJSON(w, http.StatusOK, search.Search(nil, opts))
		return
	}

	index, err := search.Collect(ctx, s.content)
	if err != nil {
		if len(index) == 0 {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		s.log.Warn("search over partial index", slog.Any("err", err))
	}

	writeJSON(w, http.StatusOK, search.Search(index, opts))
}

func (s *server) handlePrograms(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	resp := s.content.LoadPrograms(ctx)
	writeJSON(w, envelopeStatus(resp.Success, true), resp)
}

func (s *server) handleSchema(w http.ResponseWriter, r *http.Request) {
	kind, ok := models.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown content kind"})
		return
	}
	out, err := schema.JSON(kind)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func listHandler[T any](
	s *server,
	list func(ctx context.Context, f models.SearchFilters, sort *models.SortOptions, page, limit int) models.PaginatedResponse[T],
	sorts func(models.SortOptions) (query.Sort[T], bool),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
		defer cancel()

		q := r.URL.Query()
		filters, err := parseFilters(q.Get("q"), q.Get("tags"), q.Get("status"), q.Get("category"), q.Get("from"), q.Get("to"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		var sortOpts *models.SortOptions
		if field := strings.TrimSpace(q.Get("sort")); field != "" {
			sortOpts = &models.SortOptions{Field: field, Direction: string(query.ParseDirection(q.Get("dir")))}
			if _, ok := sorts(*sortOpts); !ok {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unknown sort field %q", field)})
				return
			}
		}

		page := clampInt(q.Get("page"), 1, maxSearchOffset)
		limit := clampInt(q.Get("limit"), s.cfg.DefaultPage, s.cfg.MaxPage)

		resp := list(ctx, filters, sortOpts, page, limit)
		writeJSON(w, envelopeStatus(resp.Success, true), resp)
	}
}

func itemHandler[T any](s *server, get func(ctx context.Context, id string) models.ApiResponse[*T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
		defer cancel()

		resp := get(ctx, chi.URLParam(r, "id"))
		writeJSON(w, envelopeStatus(resp.Success, resp.Data != nil), resp)
	}
}

// envelopeStatus maps a loader outcome onto an HTTP status.
func envelopeStatus(success, found bool) int {
	switch {
	case !success:
		return http.StatusInternalServerError
	case !found:
		return http.StatusNotFound
	default:
		return http.StatusOK
	}
}

func parseFilters(q, tags, status, category, from, to string) (models.SearchFilters, error) {
	f := models.SearchFilters{
		Query:    strings.TrimSpace(q),
		Tags:     parseCSV(tags),
		Status:   strings.TrimSpace(status),
		Category: strings.TrimSpace(category),
	}
	start, err := parseDate(from)
	if err != nil {
		return f, fmt.Errorf("invalid from: %w", err)
	}
	end, err := parseDate(to)
	if err != nil {
		return f, fmt.Errorf("invalid to: %w", err)
	}
	if !start.IsZero() || !end.IsZero() {
		if !start.IsZero() && !end.IsZero() && end.Before(start) {
			return f, errors.New("to must not be before from")
		}
		f.DateRange = &models.DateRange{Start: start, End: end}
	}
	return f, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	return validation.ParseDate(raw)
}

func parseCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// clampInt parses a non-negative integer, falling back on bad input and
// capping at max.
func clampInt(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	if value == 0 && fallback > 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// clientLimiters holds one token bucket per client address.
type clientLimiters struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

const maxTrackedClients = 10_000

func newClientLimiters(limit rate.Limit, burst int) *clientLimiters {
	return &clientLimiters{buckets: make(map[string]*rate.Limiter), limit: limit, burst: burst}
}

func (c *clientLimiters) allow(key string) bool {
	c.mu.Lock()
	b, ok := c.buckets[key]
	if !ok {
		if len(c.buckets) >= maxTrackedClients {
			for k, l := range c.buckets {
				if l.Tokens() >= float64(c.burst) {
					delete(c.buckets, k)
				}
			}
		}
		b = rate.NewLimiter(c.limit, c.burst)
		c.buckets[key] = b
	}
	c.mu.Unlock()
	return b.Allow()
}

func (s *server) throttle(next http.Handler) http.Handler {
	if s.limiters == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !s.limiters.allow(host) {
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
