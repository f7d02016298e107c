package youtube

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Filters narrows the final result set. They are applied server-side after
// detail lookup, mirroring the query parameters of /api/search.
type Filters struct {
	MinDate     string // ISO date (YYYY-MM-DD), inclusive lower bound
	MaxDate     string // ISO date, inclusive upper bound
	MinViews    int64
	ChannelName string // case-insensitive substring of the channel title
}

// Video is one brand-mention result assembled by the Finder.
type Video struct {
	ID                string
	Title             string
	Description       string
	Thumbnail         string
	ChannelTitle      string
	PublishedAt       time.Time
	ViewCount         int64
	MatchType         []string
	TranscriptMatches []string
}

// Result is one page of brand-mention results.
type Result struct {
	Videos        []Video
	NextPageToken string
	TotalResults  int
}

// TranscriptCache stores fetched transcripts so repeated searches do not
// re-download captions. Implemented by pkg/storage.
type TranscriptCache interface {
	Get(ctx context.Context, videoID string) (transcript string, ok bool, err error)
	Put(ctx context.Context, videoID, transcript string) error
}

// Finder runs the full brand-mention pipeline: YouTube keyword search,
// Custom Search supplement, detail lookup, transcript matching, and
// post-filtering.
type Finder struct {
	client *Client
	cache  TranscriptCache
}

// NewFinder creates a Finder. cache may be nil, in which case transcripts
// are fetched fresh on every search.
func NewFinder(client *Client, cache TranscriptCache) *Finder {
	return &Finder{client: client, cache: cache}
}

// Search produces one page of brand-mention results for the keyword.
func (f *Finder) Search(ctx context.Context, keyword string, maxResults int, pageToken string, filters Filters) (*Result, error) {
	publishedAfter := ""
	if filters.MinDate != "" {
		t, err := parseISODate(filters.MinDate)
		if err != nil {
			return nil, fmt.Errorf("parsing min_date: %w", err)
		}
		publishedAfter = t.UTC().Format(time.RFC3339)
	}

	searched, err := f.client.SearchVideos(ctx, keyword, maxResults, pageToken, publishedAfter)
	if err != nil {
		return nil, err
	}

	videos, err := f.assemble(ctx, searched.VideoIDs, keyword)
	if err != nil {
		return nil, err
	}

	// The Custom Search supplement is best-effort: its failures are logged
	// and the primary results still go out.
	if f.client.config.GoogleAPIKey != "" && f.client.config.CSEID != "" {
		seen := make(map[string]bool, len(videos))
		for _, v := range videos {
			seen[v.ID] = true
		}

		cseIDs, err := f.client.CSEVideoIDs(ctx, keyword)
		if err != nil {
			f.client.logger.Errorf("custom search supplement: %v", err)
		} else {
			var fresh []string
			for _, id := range cseIDs {
				if !seen[id] {
					seen[id] = true
					fresh = append(fresh, id)
				}
			}
			extra, err := f.assemble(ctx, fresh, keyword)
			if err != nil {
				f.client.logger.Errorf("custom search details: %v", err)
			} else {
				videos = append(videos, extra...)
			}
		}
	}

	filtered, err := FilterVideos(videos, filters)
	if err != nil {
		return nil, err
	}

	return &Result{
		Videos:        filtered,
		NextPageToken: searched.NextPageToken,
		TotalResults:  len(filtered),
	}, nil
}

// assemble fetches details for the given IDs and classifies each video's
// matches, consulting the transcript cache before hitting the captions API.
func (f *Finder) assemble(ctx context.Context, ids []string, keyword string) ([]Video, error) {
	details, err := f.client.VideoDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	videos := make([]Video, 0, len(details))
	for _, detail := range details {
		transcript, err := f.transcript(ctx, detail.ID)
		if err != nil {
			f.client.logger.Warnf("transcript for %s: %v", detail.ID, err)
		}

		matchTypes, transcriptMatches := ClassifyVideo(detail, transcript, keyword)

		videos = append(videos, Video{
			ID:                detail.ID,
			Title:             detail.Title,
			Description:       detail.Description,
			Thumbnail:         detail.Thumbnail,
			ChannelTitle:      detail.ChannelTitle,
			PublishedAt:       detail.PublishedAt,
			ViewCount:         detail.ViewCount,
			MatchType:         matchTypes,
			TranscriptMatches: transcriptMatches,
		})
	}
	return videos, nil
}

func (f *Finder) transcript(ctx context.Context, videoID string) (string, error) {
	if f.cache != nil {
		cached, ok, err := f.cache.Get(ctx, videoID)
		if err != nil {
			f.client.logger.Warnf("transcript cache read for %s: %v", videoID, err)
		} else if ok {
			return cached, nil
		}
	}

	transcript, err := f.client.Transcript(ctx, videoID)
	if err != nil {
		return "", err
	}

	if f.cache != nil && transcript != "" {
		if err := f.cache.Put(ctx, videoID, transcript); err != nil {
			f.client.logger.Warnf("transcript cache write for %s: %v", videoID, err)
		}
	}
	return transcript, nil
}

// FilterVideos applies the date, view-count and channel filters.
func FilterVideos(videos []Video, filters Filters) ([]Video, error) {
	var minDate, maxDate time.Time
	var err error
	if filters.MinDate != "" {
		if minDate, err = parseISODate(filters.MinDate); err != nil {
			return nil, fmt.Errorf("parsing min_date: %w", err)
		}
	}
	if filters.MaxDate != "" {
		if maxDate, err = parseISODate(filters.MaxDate); err != nil {
			return nil, fmt.Errorf("parsing max_date: %w", err)
		}
		// Inclusive upper bound: anything published that day passes.
		maxDate = maxDate.Add(24*time.Hour - time.Nanosecond)
	}

	filtered := make([]Video, 0, len(videos))
	for _, v := range videos {
		if !minDate.IsZero() && v.PublishedAt.Before(minDate) {
			continue
		}
		if !maxDate.IsZero() && v.PublishedAt.After(maxDate) {
			continue
		}
		if filters.MinViews > 0 && v.ViewCount < filters.MinViews {
			continue
		}
		if filters.ChannelName != "" &&
			!strings.Contains(strings.ToLower(v.ChannelTitle), strings.ToLower(filters.ChannelName)) {
			continue
		}
		filtered = append(filtered, v)
	}
	return filtered, nil
}

func parseISODate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
