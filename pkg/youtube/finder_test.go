package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeGoogle serves canned YouTube Data API and Custom Search responses.
func fakeGoogle(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/youtube/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "" {
			http.Error(w, "missing q", http.StatusBadRequest)
			return
		}
		if r.URL.Query().Get("pageToken") == "tok-2" {
			fmt.Fprint(w, `{"items": [{"id": {"videoId": "vid3"}}], "nextPageToken": ""}`)
			return
		}
		fmt.Fprint(w, `{
			"items": [
				{"id": {"videoId": "vid1"}},
				{"id": "vid2"},
				{"id": {"videoId": ""}}
			],
			"nextPageToken": "tok-2"
		}`)
	})

	mux.HandleFunc("/youtube/videos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"items": [
				{
					"id": "vid1",
					"snippet": {
						"title": "Nike Air Max review",
						"description": "the best shoes",
						"channelTitle": "SneakerTalk",
						"publishedAt": "2023-06-15T12:00:00Z",
						"thumbnails": {"high": {"url": "https://i.ytimg.com/vi/vid1/hqdefault.jpg"}}
					},
					"statistics": {"viewCount": "15000"}
				},
				{
					"id": "vid2",
					"snippet": {
						"title": "running shoes roundup",
						"description": "includes nike and adidas",
						"channelTitle": "RunningWorld",
						"publishedAt": "2023-07-01T08:00:00Z",
						"thumbnails": {"high": {"url": "https://i.ytimg.com/vi/vid2/hqdefault.jpg"}}
					},
					"statistics": {}
				}
			]
		}`)
	})

	// No captions available; the pipeline must carry on without transcripts.
	mux.HandleFunc("/youtube/captions", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": []}`)
	})

	mux.HandleFunc("/cse", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	})

	return httptest.NewServer(mux)
}

func newTestClient(serverURL string) *Client {
	c := NewClient(Config{APIKey: "test-key", GoogleAPIKey: "g", CSEID: "cx"})
	c.apiBase = serverURL + "/youtube"
	c.cseBase = serverURL + "/cse"
	return c
}

func TestSearchVideosParsesBothIDShapes(t *testing.T) {
	server := fakeGoogle(t)
	defer server.Close()

	result, err := newTestClient(server.URL).SearchVideos(context.Background(), "nike", 10, "", "")
	if err != nil {
		t.Fatalf("SearchVideos: %v", err)
	}
	if len(result.VideoIDs) != 2 || result.VideoIDs[0] != "vid1" || result.VideoIDs[1] != "vid2" {
		t.Errorf("video IDs = %v", result.VideoIDs)
	}
	if result.NextPageToken != "tok-2" {
		t.Errorf("next page token = %q", result.NextPageToken)
	}
}

func TestVideoDetailsParsesStatistics(t *testing.T) {
	server := fakeGoogle(t)
	defer server.Close()

	details, err := newTestClient(server.URL).VideoDetails(context.Background(), []string{"vid1", "vid2"})
	if err != nil {
		t.Fatalf("VideoDetails: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("details = %d", len(details))
	}
	if details[0].ViewCount != 15000 {
		t.Errorf("view count = %d", details[0].ViewCount)
	}
	// Missing statistics parse as zero views.
	if details[1].ViewCount != 0 {
		t.Errorf("missing statistics view count = %d", details[1].ViewCount)
	}
	if details[0].Thumbnail != "https://i.ytimg.com/vi/vid1/hqdefault.jpg" {
		t.Errorf("thumbnail = %q", details[0].Thumbnail)
	}
}

func TestVideoDetailsEmptyInput(t *testing.T) {
	server := fakeGoogle(t)
	defer server.Close()

	details, err := newTestClient(server.URL).VideoDetails(context.Background(), nil)
	if err != nil || details != nil {
		t.Errorf("expected no-op for empty input, got %v / %v", details, err)
	}
}

func TestFinderSearchClassifiesAndSurvivesCSEFailure(t *testing.T) {
	server := fakeGoogle(t)
	defer server.Close()

	finder := NewFinder(newTestClient(server.URL), nil)
	result, err := finder.Search(context.Background(), "nike", 10, "", Filters{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(result.Videos) != 2 {
		t.Fatalf("videos = %d", len(result.Videos))
	}
	if result.NextPageToken != "tok-2" {
		t.Errorf("next page token = %q", result.NextPageToken)
	}
	if result.TotalResults != 2 {
		t.Errorf("total = %d", result.TotalResults)
	}

	byID := map[string]Video{}
	for _, v := range result.Videos {
		byID[v.ID] = v
	}
	if got := byID["vid1"].MatchType; len(got) != 1 || got[0] != "title" {
		t.Errorf("vid1 match types = %v", got)
	}
	if got := byID["vid2"].MatchType; len(got) != 1 || got[0] != "description" {
		t.Errorf("vid2 match types = %v", got)
	}
}

func TestFinderSearchAppliesFilters(t *testing.T) {
	server := fakeGoogle(t)
	defer server.Close()

	finder := NewFinder(newTestClient(server.URL), nil)
	result, err := finder.Search(context.Background(), "nike", 10, "", Filters{MinViews: 1000})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Videos) != 1 || result.Videos[0].ID != "vid1" {
		t.Errorf("filtered videos = %v", result.Videos)
	}
	if result.TotalResults != 1 {
		t.Errorf("total after filtering = %d", result.TotalResults)
	}
}

// memoryCache records cache traffic for the transcript pipeline.
type memoryCache struct {
	entries map[string]string
	gets    int
	puts    int
}

func (m *memoryCache) Get(ctx context.Context, videoID string) (string, bool, error) {
	m.gets++
	text, ok := m.entries[videoID]
	return text, ok, nil
}

func (m *memoryCache) Put(ctx context.Context, videoID, transcript string) error {
	m.puts++
	m.entries[videoID] = transcript
	return nil
}

func TestFinderUsesTranscriptCache(t *testing.T) {
	server := fakeGoogle(t)
	defer server.Close()

	cache := &memoryCache{entries: map[string]string{
		"vid1": "the nike swoosh appears here",
	}}
	finder := NewFinder(newTestClient(server.URL), cache)

	result, err := finder.Search(context.Background(), "nike", 10, "", Filters{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	byID := map[string]Video{}
	for _, v := range result.Videos {
		byID[v.ID] = v
	}
	matchTypes := byID["vid1"].MatchType
	found := false
	for _, m := range matchTypes {
		if m == "transcript" {
			found = true
		}
	}
	if !found {
		t.Errorf("cached transcript not used for classification: %v", matchTypes)
	}
	if cache.gets == 0 {
		t.Error("cache never consulted")
	}
	// The upstream returned no captions for vid2, so nothing new is stored.
	if cache.puts != 0 {
		t.Errorf("unexpected cache writes: %d", cache.puts)
	}
}
