package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tubelens/tubelens/pkg/version"
	"github.com/tubelens/tubelens/pkg/youtube"
)

// searchParams are the parsed query parameters of GET /api/search.
type searchParams struct {
	Keyword    string
	MaxResults int
	PageToken  string
	Filters    youtube.Filters
}

// parseSearchParams validates and converts the raw query. maxResults is
// clamped to 1..50; invalid numbers fall back to the default.
func parseSearchParams(query url.Values, defaultMaxResults int) searchParams {
	params := searchParams{
		Keyword:    query.Get("keyword"),
		MaxResults: defaultMaxResults,
		PageToken:  query.Get("page_token"),
		Filters: youtube.Filters{
			MinDate:     query.Get("min_date"),
			MaxDate:     query.Get("max_date"),
			ChannelName: query.Get("channel_name"),
		},
	}

	if raw := query.Get("max_results"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 1 && parsed <= 50 {
			params.MaxResults = parsed
		}
	}
	if raw := query.Get("min_views"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed >= 0 {
			params.Filters.MinViews = parsed
		}
	}
	return params
}

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	params := parseSearchParams(r.URL.Query(), s.defaultMaxResults)

	if params.Keyword == "" {
		s.writeError(w, http.StatusBadRequest, "Missing keyword parameter", "Query parameter 'keyword' is required")
		return
	}

	reqID := uuid.NewString()
	s.logger.Debugf("search %s keyword=%q max_results=%d page_token=%q",
		reqID, params.Keyword, params.MaxResults, params.PageToken)

	result, err := s.finder.Search(r.Context(), params.Keyword, params.MaxResults, params.PageToken, params.Filters)
	if err != nil {
		s.logger.Errorf("search %s failed: %v", reqID, err)

		// Upstream API failures keep their status so clients can tell quota
		// problems from our own faults; anything else is a 500.
		var apiErr *youtube.APIError
		if errors.As(err, &apiErr) {
			s.writeError(w, apiErr.StatusCode, "Upstream API error", err.Error())
			return
		}

		var dateErr *time.ParseError
		if errors.As(err, &dateErr) {
			s.writeError(w, http.StatusBadRequest, "Invalid date format", err.Error())
			return
		}

		s.writeError(w, http.StatusInternalServerError, "Search failed", err.Error())
		return
	}

	videos := make([]VideoResult, len(result.Videos))
	for i, v := range result.Videos {
		videos[i] = VideoResult{
			ID:                v.ID,
			Title:             v.Title,
			Description:       v.Description,
			Thumbnail:         v.Thumbnail,
			ChannelTitle:      v.ChannelTitle,
			PublishedAt:       v.PublishedAt,
			ViewCount:         v.ViewCount,
			MatchType:         v.MatchType,
			TranscriptMatches: v.TranscriptMatches,
		}
	}

	response := SearchResponse{
		Videos:       videos,
		TotalResults: result.TotalResults,
	}
	if result.NextPageToken != "" {
		response.NextPageToken = &result.NextPageToken
	}

	s.logger.Debugf("search %s returned %d videos", reqID, len(videos))
	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   version.APIVersion(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
