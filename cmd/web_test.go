package cmd

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/tubelens/tubelens/pkg/session"
)

func TestHighlightHTMLEscapes(t *testing.T) {
	got := string(highlightHTML(`Nike <script> & "quotes"`, "nike"))

	if !strings.Contains(got, "<mark>Nike</mark>") {
		t.Errorf("keyword not marked: %s", got)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("markup not escaped: %s", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") {
		t.Errorf("expected escaped script tag: %s", got)
	}
}

func TestHighlightHTMLNoKeyword(t *testing.T) {
	got := string(highlightHTML("plain text", ""))
	if got != "plain text" {
		t.Errorf("got %q", got)
	}
	if strings.Contains(got, "<mark>") {
		t.Errorf("unexpected mark: %s", got)
	}
}

func TestNextPageURL(t *testing.T) {
	query := url.Values{}
	query.Set("q", "nike")
	query.Set("min_views", "100")
	query.Set("page_token", "old-token")

	got := nextPageURL(query, "new-token")

	parsed, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parsing %q: %v", got, err)
	}
	values := parsed.Query()
	if values.Get("page_token") != "new-token" {
		t.Errorf("page_token = %q", values.Get("page_token"))
	}
	if values.Get("q") != "nike" || values.Get("min_views") != "100" {
		t.Errorf("query params lost: %v", values)
	}

	if nextPageURL(query, "") != "" {
		t.Error("expected empty URL when no token remains")
	}
}

func TestFormatSearchOutput(t *testing.T) {
	state := session.State{
		Keyword: "nike",
		Results: []session.Video{
			{
				ID:           "vid1",
				Title:        "Nike running shoes",
				ChannelTitle: "RunnerVlogs",
				PublishedAt:  time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
				ViewCount:    2500000,
				MatchType:    []string{"title"},
			},
		},
		TotalResults:  42,
		NextPageToken: "tok",
	}

	output := formatSearchOutput(state)

	for _, want := range []string{
		"1 of 42 videos",
		"RunnerVlogs",
		"2.5M views",
		"Jun 15, 2023",
		"Found in: Title",
		"youtube.com/watch?v=vid1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestFormatSearchOutputEmpty(t *testing.T) {
	output := formatSearchOutput(session.State{Keyword: "nike"})
	if !strings.Contains(output, "No videos found") {
		t.Errorf("output = %q", output)
	}
}

func TestFormatSearchOutputError(t *testing.T) {
	output := formatSearchOutput(session.State{
		Keyword: "nike",
		Err:     "Error: Internal Server Error",
	})
	if !strings.Contains(output, "Error: Internal Server Error") {
		t.Errorf("output = %q", output)
	}
}
