package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/advisor/internal/conversation"
	"github.com/MikeSquared-Agency/advisor/internal/observability"
	"github.com/MikeSquared-Agency/advisor/internal/session"
)

type CreateSessionResponse struct {
	ID       string `json:"id"`
	Greeting string `json:"greeting"`
}

type SessionResponse struct {
	ID         string              `json:"id"`
	State      session.State       `json:"state"`
	CreatedAt  time.Time           `json:"created_at"`
	LastActive time.Time           `json:"last_active"`
	Turns      []conversation.Turn `json:"turns"`
}

type TurnRequest struct {
	Content string `json:"content"`
}

// createSession handles POST /api/v1/sessions. When the session cap is
// reached, idle sessions are evicted first; if none are, the request fails.
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.limits.Max > 0 && len(s.sessions) >= s.limits.Max {
		s.evictIdleLocked(time.Now())
		if len(s.sessions) >= s.limits.Max {
			s.mu.Unlock()
			writeError(w, http.StatusServiceUnavailable, "session limit reached, try again later")
			return
		}
	}
	sess := s.newSess()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	observability.SessionsActive.Inc()

	s.logger.Info("session created", "session_id", sess.ID.String())
	writeJSON(w, http.StatusCreated, CreateSessionResponse{
		ID:       sess.ID.String(),
		Greeting: s.greeting,
	})
}

// getSession handles GET /api/v1/sessions/{id}
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{
		ID:         sess.ID.String(),
		State:      sess.State(),
		CreatedAt:  sess.CreatedAt,
		LastActive: sess.LastActive(),
		Turns:      sess.Turns(),
	})
}

// deleteSession handles DELETE /api/v1/sessions/{id}. The conversation is
// discarded with the session.
func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	_, present := s.sessions[sess.ID]
	delete(s.sessions, sess.ID)
	s.mu.Unlock()
	if present {
		observability.SessionsActive.Dec()
	}

	s.logger.Info("session ended", "session_id", sess.ID.String(), "turns", len(sess.Turns()))
	w.WriteHeader(http.StatusNoContent)
}

// submitTurn handles POST /api/v1/sessions/{id}/turns
func (s *Server) submitTurn(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "content must not be empty")
		return
	}

	if s.limiter != nil && !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again shortly")
		return
	}

	// An in-flight turn is not cancelled when the client goes away.
	turn, err := sess.Submit(context.WithoutCancel(r.Context()), req.Content)
	switch {
	case errors.Is(err, session.ErrEmptyInput):
		writeError(w, http.StatusBadRequest, "content must not be empty")
		return
	case errors.Is(err, session.ErrTurnInProgress):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, turn)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return nil, false
	}

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}
