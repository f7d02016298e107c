// Package api implements the tubelens search API: a thin HTTP layer over the
// youtube.Finder pipeline, serving the paginated brand-mention results the
// CLI and web clients consume.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tubelens/tubelens/pkg/log"
	"github.com/tubelens/tubelens/pkg/youtube"
)

// MentionSearcher produces one page of brand-mention results. Implemented by
// *youtube.Finder; tests supply fakes.
type MentionSearcher interface {
	Search(ctx context.Context, keyword string, maxResults int, pageToken string, filters youtube.Filters) (*youtube.Result, error)
}

type Server struct {
	finder MentionSearcher
	// defaultMaxResults is used when the request carries no max_results.
	defaultMaxResults int
	logger            *log.Logger
}

func NewServer(finder MentionSearcher, defaultMaxResults int) *Server {
	if defaultMaxResults <= 0 || defaultMaxResults > 50 {
		defaultMaxResults = 10
	}
	return &Server{
		finder:            finder,
		defaultMaxResults: defaultMaxResults,
		logger:            log.For("api"),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
