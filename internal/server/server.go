// Package server exposes the journal CRUD and analytics endpoints over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"reflecto/internal/analytics"
	"reflecto/internal/database"
	"reflecto/internal/services"
)

type Server struct {
	services *services.ServiceManager
	port     string
}

func New(serviceManager *services.ServiceManager, port string) *Server {
	return &Server{
		services: serviceManager,
		port:     port,
	}
}

// Handler builds the route table. Kept separate from ListenAndServe so tests
// can mount it on httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)

	mux.HandleFunc("POST /api/journals", s.handleCreateJournal)
	mux.HandleFunc("GET /api/journals", s.handleListJournals)
	mux.HandleFunc("GET /api/journals/{id}", s.handleGetJournal)
	mux.HandleFunc("PUT /api/journals/{id}", s.handleUpdateJournal)
	mux.HandleFunc("DELETE /api/journals/{id}", s.handleDeleteJournal)

	mux.HandleFunc("GET /api/analytics/trends", s.handleTrends)
	mux.HandleFunc("GET /api/analytics/summary", s.handleSummary)

	return mux
}

func (s *Server) ListenAndServe() error {
	log.Printf("🌐 HTTP server listening on port %s", s.port)
	return http.ListenAndServe(":"+s.port, s.Handler())
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Reflecto backend is running 🚀"})
}

func (s *Server) handleCreateJournal(w http.ResponseWriter, r *http.Request) {
	var input services.JournalInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	journal, err := s.services.Journal.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Journal entry added",
		"journal": journal,
	})
}

func (s *Server) handleListJournals(w http.ResponseWriter, r *http.Request) {
	userUID := r.URL.Query().Get("user_uid")
	if userUID == "" {
		writeError(w, http.StatusBadRequest, "user_uid is required")
		return
	}

	journals, err := s.services.Journal.List(userUID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if journals == nil {
		journals = []database.Journal{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(journals),
		"journals": journals,
	})
}

func (s *Server) handleGetJournal(w http.ResponseWriter, r *http.Request) {
	id, ok := journalID(w, r)
	if !ok {
		return
	}

	journal, err := s.services.Journal.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, journal)
}

func (s *Server) handleUpdateJournal(w http.ResponseWriter, r *http.Request) {
	id, ok := journalID(w, r)
	if !ok {
		return
	}

	var input services.JournalInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	journal, err := s.services.Journal.Update(r.Context(), id, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Journal updated successfully",
		"journal": journal,
	})
}

func (s *Server) handleDeleteJournal(w http.ResponseWriter, r *http.Request) {
	id, ok := journalID(w, r)
	if !ok {
		return
	}

	if err := s.services.Journal.Delete(id); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Journal deleted successfully",
	})
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	userUID, dateRange, ok := analyticsParams(w, r)
	if !ok {
		return
	}

	trends, err := s.services.Analytics.GetTrends(r.Context(), userUID, dateRange)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trends)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userUID, dateRange, ok := analyticsParams(w, r)
	if !ok {
		return
	}

	summary, err := s.services.Analytics.GetSummary(r.Context(), userUID, dateRange)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func journalID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid journal id")
		return 0, false
	}
	return id, true
}

func analyticsParams(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	userUID := r.URL.Query().Get("user_uid")
	if userUID == "" {
		writeError(w, http.StatusBadRequest, "user_uid is required")
		return "", "", false
	}
	dateRange := r.URL.Query().Get("date_range")
	if dateRange == "" {
		dateRange = "7d"
	}
	return userUID, dateRange, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, analytics.ErrInvalidRange), errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("❌ Request failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
