package youtube

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// mentionContext is how many bytes of surrounding transcript each
	// mention snippet carries on either side.
	mentionContext = 40

	// maxMentions caps the snippets reported per video.
	maxMentions = 5
)

// TranscriptMentions finds whole-word, case-insensitive occurrences of the
// keyword in a transcript and returns up to maxMentions context snippets,
// each wrapped in "...". The keyword is matched literally.
func TranscriptMentions(transcript, keyword string) []string {
	if transcript == "" || keyword == "" {
		return nil
	}

	lower := strings.ToLower(transcript)
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(keyword)) + `\b`)

	var mentions []string
	for _, m := range pattern.FindAllStringIndex(lower, -1) {
		start := m[0] - mentionContext
		if start < 0 {
			start = 0
		}
		end := m[1] + mentionContext
		if end > len(lower) {
			end = len(lower)
		}
		// Nudge the cut points onto rune boundaries.
		for start > 0 && !utf8.RuneStart(lower[start]) {
			start--
		}
		for end < len(lower) && !utf8.RuneStart(lower[end]) {
			end++
		}

		snippet := strings.TrimSpace(lower[start:end])
		mentions = append(mentions, "..."+snippet+"...")

		if len(mentions) >= maxMentions {
			break
		}
	}
	return mentions
}

// ClassifyVideo reports which fields of a video contain the keyword
// (case-insensitive substring for title and description; transcript counts
// when it has at least one mention) and the transcript snippets found.
func ClassifyVideo(detail VideoDetail, transcript, keyword string) (matchTypes []string, transcriptMatches []string) {
	lowerKeyword := strings.ToLower(keyword)

	if strings.Contains(strings.ToLower(detail.Title), lowerKeyword) {
		matchTypes = append(matchTypes, "title")
	}
	if strings.Contains(strings.ToLower(detail.Description), lowerKeyword) {
		matchTypes = append(matchTypes, "description")
	}
	if transcript != "" && strings.Contains(strings.ToLower(transcript), lowerKeyword) {
		matchTypes = append(matchTypes, "transcript")
		transcriptMatches = TranscriptMentions(transcript, keyword)
	}
	return matchTypes, transcriptMatches
}
