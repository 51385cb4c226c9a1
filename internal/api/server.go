// Package api exposes the extraction service over HTTP: one extraction
// endpoint plus metrics and health. A failed extraction is a 200 with
// status "failed" in the body; HTTP errors are reserved for the call itself
// going wrong.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goleilao/internal/app"
	"github.com/hyperifyio/goleilao/internal/fetch"
)

// CallTimeout bounds one extraction call end to end, OCR included.
const CallTimeout = 2 * time.Minute

// Server holds the handlers' shared state.
type Server struct {
	App *app.App
}

// NewRouter builds the route table.
func NewRouter(a *app.App) *mux.Router {
	s := &Server{App: a}
	r := mux.NewRouter()
	r.Use(logRequests)
	r.HandleFunc("/api/extract", s.handleExtract).Methods(http.MethodPost)
	r.HandleFunc("/api/metrics", s.handleMetrics).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return r
}

type extractRequest struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if !validListingURL(req.URL) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "url must be absolute http(s)"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), CallTimeout)
	defer cancel()

	res, err := s.App.Extract(ctx, req.URL)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		var fe *fetch.Error
		if errors.As(err, &fe) && fe.Status == http.StatusNotFound {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.App.Metrics.Snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func validListingURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !u.IsAbs() || u.Host == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Debug().Err(err).Msg("write response")
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
