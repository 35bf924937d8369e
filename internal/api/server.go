package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/MikeSquared-Agency/advisor/internal/catalog"
	"github.com/MikeSquared-Agency/advisor/internal/observability"
	"github.com/MikeSquared-Agency/advisor/internal/session"
)

// SessionFactory builds a fresh session with its own conversation.
type SessionFactory func() *session.Session

// SessionLimits bounds the sessions held in memory. Zero values disable the
// corresponding limit.
type SessionLimits struct {
	Max     int
	IdleTTL time.Duration
}

type Server struct {
	router   *chi.Mux
	http     *http.Server
	catalog  *catalog.Catalog
	greeting string
	newSess  SessionFactory
	limiter  *rate.Limiter
	limits   SessionLimits
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session.Session
}

// NewServer hosts many independent sessions. ratePerMin caps turn
// submissions across all of them; zero disables the cap.
func NewServer(port int, c *catalog.Catalog, greeting string, newSess SessionFactory, ratePerMin int, limits SessionLimits, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(observability.HTTPMetricsMiddleware)

	s := &Server{
		router: router,
		http: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		catalog:  c,
		greeting: greeting,
		newSess:  newSess,
		limits:   limits,
		logger:   logger,
		sessions: make(map[uuid.UUID]*session.Session),
	}
	if ratePerMin > 0 {
		perSec := float64(ratePerMin) / 60
		s.limiter = rate.NewLimiter(rate.Limit(perSec), int(perSec)+1)
	}

	router.Get("/health", s.health)
	router.Get("/metrics", promhttp.Handler().ServeHTTP)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", s.listCatalog)
		r.Post("/sessions", s.createSession)
		r.Get("/sessions/{id}", s.getSession)
		r.Delete("/sessions/{id}", s.deleteSession)
		r.Post("/sessions/{id}/turns", s.submitTurn)
	})

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called. Idle sessions are evicted in the
// background until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	if s.limits.IdleTTL > 0 {
		interval := s.limits.IdleTTL / 4
		if interval < time.Second {
			interval = time.Second
		}
		go s.RunJanitor(ctx, interval)
	}

	s.logger.Info("API server starting", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones, turns
// included, until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// RunJanitor evicts idle sessions every interval until ctx is done.
func (s *Server) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.EvictIdle(now); n > 0 {
				s.logger.Info("idle sessions evicted", "count", n)
			}
		}
	}
}

// EvictIdle drops sessions whose last activity is older than the idle TTL
// at now. Sessions with a turn in progress are kept.
func (s *Server) EvictIdle(now time.Time) int {
	if s.limits.IdleTTL <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictIdleLocked(now)
}

func (s *Server) evictIdleLocked(now time.Time) int {
	if s.limits.IdleTTL <= 0 {
		return 0
	}
	var n int
	for id, sess := range s.sessions {
		if sess.State() == session.StateProcessing {
			continue
		}
		if now.Sub(sess.LastActive()) > s.limits.IdleTTL {
			delete(s.sessions, id)
			observability.SessionsActive.Dec()
			n++
		}
	}
	return n
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"postings": s.catalog.Len(),
	})
}

func (s *Server) listCatalog(w http.ResponseWriter, r *http.Request) {
	postings := s.catalog.Postings()
	writeJSON(w, http.StatusOK, map[string]any{
		"postings": postings,
		"count":    len(postings),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
