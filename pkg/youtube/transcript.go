package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// srtNoise matches SRT timecode lines and bare sequence numbers.
var srtNoise = regexp.MustCompile(`\d+:\d+:\d+,\d+ --> \d+:\d+:\d+,\d+|\d+`)

type captionsListResponse struct {
	Items []struct {
		ID string `json:"id"`
	} `json:"items"`
}

// Transcript fetches the caption track of a video and returns it as cleaned
// plain text. Videos without captions (or with undownloadable ones) yield
// ("", nil): missing transcripts are expected, not errors.
func (c *Client) Transcript(ctx context.Context, videoID string) (string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("videoId", videoID)
	params.Set("key", c.config.APIKey)

	var resp captionsListResponse
	if err := c.getJSON(ctx, c.apiBase+"/captions", params, &resp); err != nil {
		c.logger.Warnf("listing captions for %s: %v", videoID, err)
		return "", nil
	}
	if len(resp.Items) == 0 {
		return "", nil
	}

	// Download the first caption track as SRT.
	downloadParams := url.Values{}
	downloadParams.Set("key", c.config.APIKey)
	downloadParams.Set("tfmt", "srt")

	raw, err := c.download(ctx, c.apiBase+"/captions/"+resp.Items[0].ID, downloadParams)
	if err != nil {
		c.logger.Warnf("downloading transcript for %s: %v", videoID, err)
		return "", nil
	}

	return CleanSRT(raw), nil
}

// download performs a rate-limited GET returning the raw body.
func (c *Client) download(ctx context.Context, rawURL string, params url.Values) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	return string(body), nil
}

// CleanSRT strips SRT timecodes and sequence numbers from a caption download,
// leaving the spoken text.
func CleanSRT(srt string) string {
	return strings.TrimSpace(srtNoise.ReplaceAllString(srt, ""))
}
