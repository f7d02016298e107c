package youtube

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
)

// videoURLPatterns cover the YouTube link shapes Custom Search returns.
var videoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/v/([a-zA-Z0-9_-]{11})`),
}

// ExtractVideoID pulls the 11-character video ID out of a YouTube URL, or
// returns "" when the URL is not a recognizable video link.
func ExtractVideoID(link string) string {
	for _, pattern := range videoURLPatterns {
		if m := pattern.FindStringSubmatch(link); m != nil {
			return m[1]
		}
	}
	return ""
}

type cseResponse struct {
	Items []struct {
		Link string `json:"link"`
	} `json:"items"`
}

// CSEVideoIDs searches Google Custom Search for YouTube videos mentioning the
// keyword and returns the video IDs found in the result links.
func (c *Client) CSEVideoIDs(ctx context.Context, keyword string) ([]string, error) {
	params := url.Values{}
	params.Set("key", c.config.GoogleAPIKey)
	params.Set("cx", c.config.CSEID)
	params.Set("q", keyword+" site:youtube.com")

	var resp cseResponse
	if err := c.getJSON(ctx, c.cseBase, params, &resp); err != nil {
		return nil, fmt.Errorf("custom search: %w", err)
	}

	var ids []string
	for _, item := range resp.Items {
		if id := ExtractVideoID(item.Link); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
