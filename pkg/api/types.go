package api

import "time"

// SearchResponse is the JSON envelope of GET /api/search.
type SearchResponse struct {
	Videos        []VideoResult `json:"videos"`
	NextPageToken *string       `json:"next_page_token"`
	TotalResults  int           `json:"total_results"`
}

// VideoResult is one brand-mention result on the wire.
type VideoResult struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Thumbnail         string    `json:"thumbnail"`
	ChannelTitle      string    `json:"channel_title"`
	PublishedAt       time.Time `json:"published_at"`
	ViewCount         int64     `json:"view_count"`
	MatchType         []string  `json:"match_type"`
	TranscriptMatches []string  `json:"transcript_matches"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the payload of GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}
