package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/tubelens/tubelens/pkg/session"
)

func TestSearchQueryParameters(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"videos": [], "next_page_token": null, "total_results": 0}`))
	}))
	defer server.Close()

	c := New(server.URL)
	filters := session.Filters{
		MinDate:     "2023-01-01",
		MaxDate:     "2023-12-31",
		MinViews:    5000,
		ChannelName: "sneakertalk",
	}
	if _, err := c.Search(context.Background(), "Nike", filters, "tok-2"); err != nil {
		t.Fatalf("Search: %v", err)
	}

	expected := map[string]string{
		"keyword":      "Nike",
		"min_date":     "2023-01-01",
		"max_date":     "2023-12-31",
		"min_views":    "5000",
		"channel_name": "sneakertalk",
		"page_token":   "tok-2",
	}
	for param, want := range expected {
		if got := gotQuery.Get(param); got != want {
			t.Errorf("param %s = %q, want %q", param, got, want)
		}
	}
}

func TestSearchOmitsAbsentFilters(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"videos": [], "next_page_token": null, "total_results": 0}`))
	}))
	defer server.Close()

	c := New(server.URL)
	if _, err := c.Search(context.Background(), "Nike", session.Filters{}, ""); err != nil {
		t.Fatalf("Search: %v", err)
	}

	for _, param := range []string{"min_date", "max_date", "min_views", "channel_name", "page_token", "max_results"} {
		if gotQuery.Has(param) {
			t.Errorf("param %s sent with zero-valued filter: %q", param, gotQuery.Get(param))
		}
	}
	if gotQuery.Get("keyword") != "Nike" {
		t.Errorf("keyword = %q", gotQuery.Get("keyword"))
	}
}

func TestSearchMapsResponse(t *testing.T) {
	body := `{
		"videos": [
			{
				"id": "abc123",
				"title": "Nike Air review",
				"description": "Testing the new Nike Air",
				"thumbnail": "https://i.ytimg.com/vi/abc123/hqdefault.jpg",
				"channel_title": "SneakerTalk",
				"published_at": "2023-06-15T12:00:00Z",
				"view_count": 15000,
				"match_type": ["title", "transcript"],
				"transcript_matches": ["...the nike air feels..."]
			}
		],
		"next_page_token": "tok-2",
		"total_results": 42
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	page, err := New(server.URL).Search(context.Background(), "nike", session.Filters{}, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if page.TotalResults != 42 {
		t.Errorf("total = %d", page.TotalResults)
	}
	if page.NextPageToken != "tok-2" {
		t.Errorf("token = %q", page.NextPageToken)
	}
	if len(page.Videos) != 1 {
		t.Fatalf("videos = %d", len(page.Videos))
	}
	v := page.Videos[0]
	if v.ID != "abc123" || v.ChannelTitle != "SneakerTalk" || v.ViewCount != 15000 {
		t.Errorf("video mapped wrong: %+v", v)
	}
	if v.ThumbnailURL != "https://i.ytimg.com/vi/abc123/hqdefault.jpg" {
		t.Errorf("thumbnail = %q", v.ThumbnailURL)
	}
	if len(v.MatchType) != 2 || v.MatchType[0] != "title" {
		t.Errorf("match types = %v", v.MatchType)
	}
	if v.PublishedAt.Year() != 2023 {
		t.Errorf("published_at = %v", v.PublishedAt)
	}
}

func TestSearchNullTokenMeansExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"videos": [], "next_page_token": null, "total_results": 0}`))
	}))
	defer server.Close()

	page, err := New(server.URL).Search(context.Background(), "nike", session.Filters{}, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.NextPageToken != "" {
		t.Errorf("null token not normalized: %q", page.NextPageToken)
	}
}

func TestSearchErrorUsesStatusText(t *testing.T) {
	tests := []struct {
		status   int
		expected string
	}{
		{http.StatusInternalServerError, "Internal Server Error"},
		{http.StatusBadGateway, "Bad Gateway"},
		{http.StatusNotFound, "Not Found"},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", tt.status)
		}))

		_, err := New(server.URL).Search(context.Background(), "nike", session.Filters{}, "")
		server.Close()

		if err == nil {
			t.Fatalf("status %d: expected error", tt.status)
		}
		if err.Error() != tt.expected {
			t.Errorf("status %d: error = %q, want %q", tt.status, err.Error(), tt.expected)
		}
	}
}

func TestSearchMalformedResponseFailsLikeTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"videos": [`))
	}))
	defer server.Close()

	_, err := New(server.URL).Search(context.Background(), "nike", session.Filters{}, "")
	if err == nil {
		t.Fatal("expected decode error for malformed body")
	}
}

func TestSearchPageSizeSent(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"videos": [], "next_page_token": null, "total_results": 0}`))
	}))
	defer server.Close()

	c := New(server.URL)
	c.PageSize = 25
	if _, err := c.Search(context.Background(), "nike", session.Filters{}, ""); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotQuery.Get("max_results") != "25" {
		t.Errorf("max_results = %q", gotQuery.Get("max_results"))
	}
}
