package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"topic-scout/internal/domain"
)

const (
	transcriptExcerptLen = 1500
	commentsPerVideo     = 5
)

// buildVideoDigest renders the evidence block shared by the suggestion
// prompts: title, popularity, a transcript excerpt, and the top comments for
// each analyzed video.
func buildVideoDigest(rows []domain.VideoMetadataRow) string {
	var b strings.Builder
	for i, row := range rows {
		fmt.Fprintf(&b, "Video %d: %q (%d views)\n", i+1, row.Title, row.ViewCount)
		if row.Transcript != "" {
			fmt.Fprintf(&b, "Transcript excerpt: %s\n", truncateAtRune(row.Transcript, transcriptExcerptLen))
		}
		for j, c := range row.Comments {
			if j >= commentsPerVideo {
				break
			}
			fmt.Fprintf(&b, "Comment (%d likes): %s\n", c.LikeCount, c.Text)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// truncateAtRune caps s at maxBytes without splitting a multi-byte rune.
func truncateAtRune(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func buildSeriesPrompt(channelName string, rows []domain.VideoMetadataRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Channel under analysis: %s\n\n", channelName)
	b.WriteString(buildVideoDigest(rows))
	b.WriteString(`Based on what performs for this channel and what viewers ask for in
comments, propose recurring video series. Respond with a JSON object:
{"series_suggestions": [{"title": "...", "concept": "...",
 "why_it_works": "...", "episode_ideas": ["...", "..."]}]}
Propose 3 series. Return only the JSON object.`)
	return b.String()
}

func buildFormatPrompt(channelName string, rows []domain.VideoMetadataRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Channel under analysis: %s\n\n", channelName)
	b.WriteString(buildVideoDigest(rows))
	b.WriteString(`Analyze the structure of these videos (hooks, pacing, segments) and
propose presentation formats this creator should try. Respond with a JSON
object:
{"format_suggestions": [{"name": "...", "structure": "...",
 "why_it_works": "..."}]}
Propose 3 formats. Return only the JSON object.`)
	return b.String()
}
