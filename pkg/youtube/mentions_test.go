package youtube

import (
	"strings"
	"testing"
	"time"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		link     string
		expected string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/channel/UCabc", ""},
		{"https://example.com/watch?v=dQw4w9WgXcQ", ""},
	}

	for _, tt := range tests {
		if got := ExtractVideoID(tt.link); got != tt.expected {
			t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.link, got, tt.expected)
		}
	}
}

func TestCleanSRT(t *testing.T) {
	srt := "1\n00:00:01,000 --> 00:00:04,000\nwelcome to the nike review\n\n2\n00:00:05,000 --> 00:00:08,000\nthese shoes are great\n"
	got := CleanSRT(srt)

	if strings.Contains(got, "-->") {
		t.Errorf("timecodes not stripped: %q", got)
	}
	if strings.ContainsAny(got, "0123456789") {
		t.Errorf("sequence numbers not stripped: %q", got)
	}
	if !strings.Contains(got, "welcome to the nike review") {
		t.Errorf("spoken text lost: %q", got)
	}
}

func TestTranscriptMentions(t *testing.T) {
	transcript := "Today we review the Nike Air Max. The NIKE brand has history. Nothing beats nike quality. nike nike nike nike."

	mentions := TranscriptMentions(transcript, "Nike")

	if len(mentions) != 5 {
		t.Fatalf("expected mentions capped at 5, got %d", len(mentions))
	}
	for _, m := range mentions {
		if !strings.HasPrefix(m, "...") || !strings.HasSuffix(m, "...") {
			t.Errorf("mention not wrapped in ellipses: %q", m)
		}
		if !strings.Contains(m, "nike") {
			t.Errorf("mention missing keyword: %q", m)
		}
	}
}

func TestTranscriptMentionsWholeWordOnly(t *testing.T) {
	if got := TranscriptMentions("snikers are not the brand", "nike"); got != nil {
		t.Errorf("matched inside another word: %v", got)
	}
	if got := TranscriptMentions("the nike swoosh", "nike"); len(got) != 1 {
		t.Errorf("expected one mention, got %v", got)
	}
}

func TestTranscriptMentionsEscapesKeyword(t *testing.T) {
	// A keyword with regex metacharacters must not blow up or wildcard.
	if got := TranscriptMentions("talking about c.a today", "c.a"); len(got) != 1 {
		t.Errorf("literal keyword with dot: %v", got)
	}
	if got := TranscriptMentions("cxa is different", "c.a"); got != nil {
		t.Errorf("dot acted as wildcard: %v", got)
	}
}

func TestTranscriptMentionsEmpty(t *testing.T) {
	if got := TranscriptMentions("", "nike"); got != nil {
		t.Errorf("empty transcript: %v", got)
	}
	if got := TranscriptMentions("some text", ""); got != nil {
		t.Errorf("empty keyword: %v", got)
	}
}

func TestClassifyVideo(t *testing.T) {
	detail := VideoDetail{
		Title:       "NIKE Air Max review",
		Description: "unboxing the newest pair",
	}

	matchTypes, transcriptMatches := ClassifyVideo(detail, "we got the nike package today", "nike")

	if len(matchTypes) != 2 {
		t.Fatalf("match types = %v", matchTypes)
	}
	if matchTypes[0] != "title" || matchTypes[1] != "transcript" {
		t.Errorf("match types = %v", matchTypes)
	}
	if len(transcriptMatches) != 1 {
		t.Errorf("transcript matches = %v", transcriptMatches)
	}
}

func TestClassifyVideoNoMatches(t *testing.T) {
	detail := VideoDetail{Title: "adidas only", Description: "no swoosh here"}
	matchTypes, transcriptMatches := ClassifyVideo(detail, "", "nike")
	if matchTypes != nil || transcriptMatches != nil {
		t.Errorf("expected no matches, got %v / %v", matchTypes, transcriptMatches)
	}
}

func TestFilterVideos(t *testing.T) {
	videos := []Video{
		{ID: "old", PublishedAt: date("2020-01-15"), ViewCount: 9000, ChannelTitle: "SneakerTalk"},
		{ID: "new", PublishedAt: date("2023-06-01"), ViewCount: 500, ChannelTitle: "SneakerTalk"},
		{ID: "popular", PublishedAt: date("2023-06-02"), ViewCount: 100000, ChannelTitle: "RunningWorld"},
	}

	tests := []struct {
		name     string
		filters  Filters
		expected []string
	}{
		{
			name:     "no filters keeps everything",
			filters:  Filters{},
			expected: []string{"old", "new", "popular"},
		},
		{
			name:     "min date",
			filters:  Filters{MinDate: "2023-01-01"},
			expected: []string{"new", "popular"},
		},
		{
			name:     "max date inclusive of the day",
			filters:  Filters{MaxDate: "2023-06-01"},
			expected: []string{"old", "new"},
		},
		{
			name:     "min views",
			filters:  Filters{MinViews: 9000},
			expected: []string{"old", "popular"},
		},
		{
			name:     "channel substring is case-insensitive",
			filters:  Filters{ChannelName: "sneaker"},
			expected: []string{"old", "new"},
		},
		{
			name:     "combined",
			filters:  Filters{MinDate: "2023-01-01", MinViews: 1000},
			expected: []string{"popular"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FilterVideos(videos, tt.filters)
			if err != nil {
				t.Fatalf("FilterVideos: %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("got %d videos, want %d", len(got), len(tt.expected))
			}
			for i, v := range got {
				if v.ID != tt.expected[i] {
					t.Errorf("video %d = %q, want %q", i, v.ID, tt.expected[i])
				}
			}
		})
	}
}

func TestFilterVideosBadDate(t *testing.T) {
	if _, err := FilterVideos(nil, Filters{MinDate: "not-a-date"}); err == nil {
		t.Error("expected error for invalid min_date")
	}
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	// Noon keeps comparisons unambiguous across the day bounds.
	return t.Add(12 * time.Hour)
}
