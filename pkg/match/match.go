// Package match classifies and decorates keyword matches in video search
// results. All functions are pure text transforms: no state, no I/O. Both the
// CLI and the web UI use them to show where a brand was mentioned and to
// render highlighted snippets.
package match

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Segment is one run of text produced by Highlight. Highlighted runs are
// case-insensitively equal to the searched keyword.
type Segment struct {
	Text        string
	Highlighted bool
}

// Known match-type tags reported by the search API.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldTranscript  = "transcript"
)

var fieldTags = map[string]bool{
	FieldTitle:       true,
	FieldDescription: true,
	FieldTranscript:  true,
}

var labelCaser = cases.Title(language.English)

// Label maps match-type tags to a display label: known tags are capitalized
// ("title" -> "Title"), unknown tags pass through unchanged, and labels are
// joined with ", " preserving input order. An empty tag list yields "" and
// callers should suppress the "Found in:" element entirely.
func Label(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	labels := make([]string, 0, len(tags))
	for _, tag := range tags {
		if fieldTags[tag] {
			labels = append(labels, labelCaser.String(tag))
		} else {
			labels = append(labels, tag)
		}
	}
	return strings.Join(labels, ", ")
}

// Highlight splits text on case-insensitive occurrences of the literal
// keyword. The keyword is escaped before compilation, so pattern
// metacharacters ("C++", "b$d") match literally. Concatenating the returned
// segments reproduces text exactly; original casing is preserved. Empty text
// yields no segments; an empty keyword yields the whole text as one plain
// segment.
func Highlight(text, keyword string) []Segment {
	if text == "" {
		return nil
	}
	if keyword == "" {
		return []Segment{{Text: text}}
	}

	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(keyword))

	var segments []Segment
	last := 0
	for _, m := range re.FindAllStringIndex(text, -1) {
		if m[0] > last {
			segments = append(segments, Segment{Text: text[last:m[0]]})
		}
		segments = append(segments, Segment{Text: text[m[0]:m[1]], Highlighted: true})
		last = m[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

// FormatViewCount renders a view count the way video platforms do:
// 2500000 -> "2.5M", 1500 -> "1.5K", 999 -> "999". One decimal, half-up.
func FormatViewCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(math.Round(float64(n)/100_000)/10, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(math.Round(float64(n)/100)/10, 'f', 1, 64) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// FormatDate renders a publish date as "Jan 2, 2006" (abbreviated month, no
// leading zero on the day).
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// Truncate shortens s to at most length characters, appending "..." when
// something was cut.
func Truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	if length <= 3 {
		return s[:length]
	}
	return s[:length-3] + "..."
}
