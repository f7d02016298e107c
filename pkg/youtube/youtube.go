// Package youtube talks to the upstream Google APIs: YouTube Data API v3 for
// search, video statistics and captions, and Google Custom Search as a
// supplementary source of video links. It also hosts the pure text helpers
// that decide where a keyword matched (title, description, transcript) and
// extract transcript mention snippets.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tubelens/tubelens/pkg/log"
)

const (
	defaultAPIBase = "https://www.googleapis.com/youtube/v3"
	defaultCSEBase = "https://www.googleapis.com/customsearch/v1"
)

// Config carries the credentials and knobs for the upstream client.
type Config struct {
	// APIKey is the YouTube Data API key.
	APIKey string
	// GoogleAPIKey and CSEID enable the Custom Search supplement. Both must
	// be set; otherwise the supplement is skipped.
	GoogleAPIKey string
	CSEID        string

	Timeout time.Duration
}

// Client is a rate-limited HTTP client for the Google APIs.
type Client struct {
	config  Config
	client  *http.Client
	limiter *rate.Limiter
	logger  *log.Logger

	// apiBase and cseBase are overridable for tests.
	apiBase string
	cseBase string
}

func NewClient(config Config) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		config: config,
		client: &http.Client{Timeout: timeout},
		// YouTube quotas are generous per-second but not unlimited; keep a
		// small steady rate with room for the burst of detail lookups a
		// single search triggers.
		limiter: rate.NewLimiter(rate.Limit(10), 20),
		logger:  log.For("youtube"),
		apiBase: defaultAPIBase,
		cseBase: defaultCSEBase,
	}
}

// getJSON performs a rate-limited GET and decodes the JSON body into out.
// Non-200 statuses are returned as errors carrying the upstream status.
func (c *Client) getJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// APIError is a non-200 response from an upstream Google API.
type APIError struct {
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return "upstream API error: " + e.Status
}

// searchID handles both shapes YouTube uses for the item id: an object with
// a videoId field, or a bare string.
type searchID struct {
	VideoID string
}

func (s *searchID) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		s.VideoID = str
		return nil
	}
	var obj struct {
		VideoID string `json:"videoId"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	s.VideoID = obj.VideoID
	return nil
}

type searchListResponse struct {
	Items []struct {
		ID searchID `json:"id"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
	PageInfo      struct {
		TotalResults int `json:"totalResults"`
	} `json:"pageInfo"`
}

// SearchResult is one page of raw YouTube search results: the matching video
// IDs plus the pagination cursor.
type SearchResult struct {
	VideoIDs      []string
	NextPageToken string
}

// SearchVideos runs a keyword search for videos. publishedAfter, when
// non-empty, must be an RFC 3339 timestamp.
func (c *Client) SearchVideos(ctx context.Context, keyword string, maxResults int, pageToken, publishedAfter string) (*SearchResult, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", keyword)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("key", c.config.APIKey)
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}
	if publishedAfter != "" {
		params.Set("publishedAfter", publishedAfter)
	}

	var resp searchListResponse
	if err := c.getJSON(ctx, c.apiBase+"/search", params, &resp); err != nil {
		return nil, fmt.Errorf("searching videos: %w", err)
	}

	result := &SearchResult{NextPageToken: resp.NextPageToken}
	for _, item := range resp.Items {
		if item.ID.VideoID != "" {
			result.VideoIDs = append(result.VideoIDs, item.ID.VideoID)
		}
	}
	return result, nil
}

type videoListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string    `json:"title"`
			Description  string    `json:"description"`
			ChannelTitle string    `json:"channelTitle"`
			PublishedAt  time.Time `json:"publishedAt"`
			Thumbnails   struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// VideoDetail is the snippet and statistics of one video.
type VideoDetail struct {
	ID           string
	Title        string
	Description  string
	ChannelTitle string
	PublishedAt  time.Time
	ViewCount    int64
	Thumbnail    string
}

// VideoDetails fetches snippet and statistics for the given video IDs.
func (c *Client) VideoDetails(ctx context.Context, ids []string) ([]VideoDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", strings.Join(ids, ","))
	params.Set("key", c.config.APIKey)

	var resp videoListResponse
	if err := c.getJSON(ctx, c.apiBase+"/videos", params, &resp); err != nil {
		return nil, fmt.Errorf("fetching video details: %w", err)
	}

	details := make([]VideoDetail, 0, len(resp.Items))
	for _, item := range resp.Items {
		// viewCount arrives as a string; missing or unparsable counts as 0.
		views, _ := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
		details = append(details, VideoDetail{
			ID:           item.ID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			ViewCount:    views,
			Thumbnail:    item.Snippet.Thumbnails.High.URL,
		})
	}
	return details, nil
}
