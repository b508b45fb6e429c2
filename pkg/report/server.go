package report

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Server is the development reporting endpoint. It implements the contract
// the [Client] expects: GET /repos/{owner}/{repo} answering a cached result
// set (404 if unknown) and POST /repos storing one.
type Server struct {
	store  Store
	logger *log.Logger
}

// NewServer creates a Server backed by store. A nil logger falls back to
// log.Default().
func NewServer(store Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: store, logger: logger}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/repos/{owner}/{repo}", s.handleLookup)
	r.Post("/repos", s.handleSubmit)
	return r
}

// handleLookup answers the dependents of a previously submitted repository.
// The body is the bare entry list, the shape the client's short-circuit
// path sorts and prints directly.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	repo := chi.URLParam(r, "repo")

	rec, err := s.store.Get(r.Context(), owner, repo)
	if err == ErrNotFound {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.Error("store lookup failed", "owner", owner, "repo", repo, "err", err)
		http.Error(w, "store failure", http.StatusInternalServerError)
		return
	}

	s.logger.Info("served cached result", "repo", owner+"/"+repo, "deps", len(rec.Deps))
	writeJSON(w, http.StatusOK, rec.Deps)
}

// handleSubmit stores a scraped result set, assigning it a server-side ID
// and receipt timestamp.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if sub.Owner == "" || sub.Repository == "" {
		http.Error(w, "owner and repository are required", http.StatusBadRequest)
		return
	}

	rec := &Record{
		ID:         uuid.NewString(),
		URL:        sub.URL,
		Owner:      sub.Owner,
		Repository: sub.Repository,
		Deps:       sub.Deps,
		ReceivedAt: time.Now().UTC(),
	}
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.logger.Error("store write failed", "repo", sub.Owner+"/"+sub.Repository, "err", err)
		http.Error(w, "store failure", http.StatusInternalServerError)
		return
	}

	s.logger.Info("stored result", "repo", sub.Owner+"/"+sub.Repository, "deps", len(sub.Deps), "id", rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
