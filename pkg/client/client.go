// Package client is the HTTP client for the tubelens search API. It builds
// /api/search requests from a keyword and filters and maps the JSON response
// into session values. Failures, including non-2xx statuses and undecodable
// bodies, are reduced to a single error so the session controller can surface
// them as one message.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tubelens/tubelens/pkg/session"
)

type Client struct {
	baseURL    string
	httpClient *http.Client

	// PageSize, when positive, is sent as max_results on every request.
	PageSize int
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// searchResponse mirrors the API's JSON envelope.
type searchResponse struct {
	Videos        []videoResult `json:"videos"`
	NextPageToken *string       `json:"next_page_token"`
	TotalResults  int           `json:"total_results"`
}

type videoResult struct {
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

// Search fetches one page of results. Filter parameters are included only
// when their value is present; pageToken is omitted on the first page.
// Non-2xx responses become errors carrying the HTTP status text.
func (c *Client) Search(ctx context.Context, keyword string, filters session.Filters, pageToken string) (*session.Page, error) {
	q := url.Values{}
	q.Set("keyword", keyword)
	if filters.MinDate != "" {
		q.Set("min_date", filters.MinDate)
	}
	if filters.MaxDate != "" {
		q.Set("max_date", filters.MaxDate)
	}
	if filters.MinViews > 0 {
		q.Set("min_views", strconv.FormatInt(filters.MinViews, 10))
	}
	if filters.ChannelName != "" {
		q.Set("channel_name", filters.ChannelName)
	}
	if pageToken != "" {
		q.Set("page_token", pageToken)
	}
	if c.PageSize > 0 {
		q.Set("max_results", strconv.Itoa(c.PageSize))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text := http.StatusText(resp.StatusCode)
		if text == "" {
			text = resp.Status
		}
		return nil, errors.New(text)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	page := &session.Page{
		Videos:       make([]session.Video, len(sr.Videos)),
		TotalResults: sr.TotalResults,
	}
	if sr.NextPageToken != nil {
		page.NextPageToken = *sr.NextPageToken
	}
	for i, v := range sr.Videos {
		page.Videos[i] = session.Video{
			ID:                v.ID,
			Title:             v.Title,
			Description:       v.Description,
			ChannelTitle:      v.ChannelTitle,
			PublishedAt:       v.PublishedAt,
			ViewCount:         v.ViewCount,
			ThumbnailURL:      v.Thumbnail,
			MatchType:         v.MatchType,
			TranscriptMatches: v.TranscriptMatches,
		}
	}
	return page, nil
}
