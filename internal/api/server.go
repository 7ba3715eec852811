// Copyright (c) 2026 Steve Jovs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package api exposes the RAG pipeline over HTTP: the query endpoint, the
// OAuth session endpoints, the query history, and a dependency health
// check. It owns request validation and the mapping from pipeline errors
// to HTTP outcomes — auth failures surface as 401 with a re-auth hint,
// everything unexpected as a generic 500.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Steve-Jovs/rag-gmail-project/internal/history"
	"github.com/Steve-Jovs/rag-gmail-project/internal/mailbox"
	"github.com/Steve-Jovs/rag-gmail-project/internal/models"
	"github.com/Steve-Jovs/rag-gmail-project/internal/qcache"
	"github.com/Steve-Jovs/rag-gmail-project/internal/rag"
)

// Session is what the API layer needs from the OAuth session. Implemented
// by auth.Session; tests substitute a stub.
type Session interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) error
	Logout() error
	Provider(ctx context.Context) (mailbox.Provider, error)
}

// profiler is implemented by providers that can report the account email.
type profiler interface {
	Profile(ctx context.Context) (string, error)
}

// Server handles the service's HTTP surface.
type Server struct {
	session  Session
	pipeline *rag.Pipeline
	history  *history.Store
	cache    *qcache.Cache
	mux      *http.ServeMux
}

// NewServer wires the HTTP routes. history and cache may be nil.
func NewServer(session Session, pipeline *rag.Pipeline, hist *history.Store, cache *qcache.Cache) *Server {
	s := &Server{
		session:  session,
		pipeline: pipeline,
		history:  hist,
		cache:    cache,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/query", s.handleQuery)
	mux.HandleFunc("/api/auth/gmail", s.handleAuthStart)
	mux.HandleFunc("/api/auth/callback", s.handleAuthCallback)
	mux.HandleFunc("/api/auth/status", s.handleAuthStatus)
	mux.HandleFunc("/api/auth/logout", s.handleLogout)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.handleHome)
	s.mux = mux

	return s
}

// ServeHTTP applies CORS and dispatches to the route table. The frontend
// is served from a different origin during development.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.mux.ServeHTTP(w, r)
}

// queryBody is the /api/query request payload. max_results is accepted as
// either a number or a string — malformed values normalise to the default
// rather than failing the request.
type queryBody struct {
	Query      string          `json:"query"`
	MaxResults json.RawMessage `json:"max_results"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	requestID := uuid.New().String()
	log := slog.With("request_id", requestID)

	var body queryBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req := models.QueryRequest{
		NaturalQuery: strings.TrimSpace(body.Query),
		MaxResults:   parseMaxResults(body.MaxResults),
	}

	if req.NaturalQuery == "" {
		log.Info("query rejected", "reason", "empty query")
		writeError(w, http.StatusBadRequest, "No query provided")
		return
	}

	provider, err := s.session.Provider(r.Context())
	if errors.Is(err, mailbox.ErrNotAuthenticated) {
		log.Info("query rejected", "reason", "not authenticated")
		writeAuthRequired(w, `Not authenticated. Please click "Authenticate" first.`)
		return
	}
	if err != nil {
		log.Error("mail provider unavailable", "error", err)
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	result, err := s.pipeline.Run(r.Context(), provider, req)
	switch {
	case errors.Is(err, mailbox.ErrNotAuthenticated):
		writeAuthRequired(w, "Authentication expired. Please re-authenticate with Gmail.")
		return
	case errors.Is(err, rag.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, "No query provided")
		return
	case err != nil:
		log.Error("query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	if err := s.history.Record(r.Context(), history.Entry{
		ID:             requestID,
		NaturalQuery:   result.Metadata.OriginalQuery,
		GmailQuery:     result.Metadata.GmailQueryUsed,
		EmailsFound:    result.Metadata.EmailsFound,
		ProcessingTime: result.Metadata.ProcessingTime,
	}); err != nil {
		log.Warn("failed to record query history", "error", err)
	}

	writeJSON(w, http.StatusOK, result)
}

// parseMaxResults accepts a JSON number, a numeric string, or garbage.
// Absence, null and unparseable values yield the default; an explicit
// number is passed through for QueryRequest.Clamp to bound.
func parseMaxResults(raw json.RawMessage) int {
	if len(raw) == 0 || string(raw) == "null" {
		return models.DefaultMaxResults
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			return n
		}
	}

	return models.DefaultMaxResults
}

func (s *Server) handleAuthStart(w http.ResponseWriter, r *http.Request) {
	state := uuid.New().String()
	writeJSON(w, http.StatusOK, map[string]string{
		"auth_url": s.session.AuthURL(state),
		"state":    state,
	})
}

func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	if err := s.session.Exchange(r.Context(), code); err != nil {
		slog.Error("authorization code exchange failed", "error", err)
		writeError(w, http.StatusInternalServerError, "authentication failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "authenticated"})
}

func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	provider, err := s.session.Provider(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	resp := map[string]any{"authenticated": true}
	if p, ok := provider.(profiler); ok {
		if email, err := p.Profile(r.Context()); err == nil {
			resp["email"] = email
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.session.Logout(); err != nil {
		slog.Error("logout failed", "error", err)
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "logged_out",
		"message": "Successfully logged out. Gmail access revoked.",
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []history.Entry{})
		return
	}

	entries, err := s.history.Recent(r.Context(), 20)
	if err != nil {
		slog.Error("history lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.cache.Ping(r.Context()); err != nil {
		http.Error(w, "redis unhealthy", http.StatusServiceUnavailable)
		return
	}
	if err := s.history.Ping(r.Context()); err != nil {
		http.Error(w, "postgres unhealthy", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "RAG Gmail API is running!"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeAuthRequired(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnauthorized, map[string]any{
		"error":         msg,
		"requires_auth": true,
	})
}

// Serve starts the HTTP server on the given port. It binds the port
// immediately and signals readiness via the returned channel before
// accepting connections; the server shuts down when ctx is cancelled.
func Serve(ctx context.Context, port int, handler http.Handler) (<-chan struct{}, error) {
	server := &http.Server{Handler: handler}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("bind port %d: %w", port, err)
	}

	ready := make(chan struct{})

	go func() {
		<-ctx.Done()
		slog.Info("api server shutting down")
		server.Close()
	}()

	go func() {
		slog.Info("api server listening", "port", port)
		close(ready)
		if err := server.Serve(ln); err != http.ErrServerClosed {
			slog.Error("api server error", "error", err)
		}
	}()

	return ready, nil
}
