package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"topic-scout/internal/domain"
)

const previewLen = 500

// PDFExtract is the result of pulling text out of an uploaded research
// export.
type PDFExtract struct {
	Pages      int    `json:"pages"`
	Characters int    `json:"characters"`
	Content    string `json:"content"`
	Preview    string `json:"preview"`
	VideoCount int    `json:"video_count"`
}

// ExtractPDF reads every page of the document at path and concatenates the
// plain text. Pages that fail to decode are skipped, not fatal.
func ExtractPDF(path string) (*PDFExtract, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	content := b.String()
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("pdf contains no extractable text: %w", domain.ErrMalformedResponse)
	}

	preview := content
	if len(preview) > previewLen {
		preview = preview[:previewLen]
	}

	return &PDFExtract{
		Pages:      pages,
		Characters: len(content),
		Content:    content,
		Preview:    preview,
		VideoCount: len(ParseVideoEntries(content)),
	}, nil
}

var watchURLPattern = regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)([A-Za-z0-9_-]{11})`)

// ParseVideoEntries recovers video references from extracted export text.
// Exports carry watch URLs with the video title on the same or preceding
// line; anything else in the text is ignored.
func ParseVideoEntries(content string) []domain.VideoMetadataRow {
	lines := strings.Split(content, "\n")
	seen := make(map[string]struct{})
	var rows []domain.VideoMetadataRow

	for i, line := range lines {
		matches := watchURLPattern.FindAllStringSubmatch(line, -1)
		for _, m := range matches {
			videoID := m[1]
			if _, dup := seen[videoID]; dup {
				continue
			}
			seen[videoID] = struct{}{}

			title := strings.TrimSpace(watchURLPattern.ReplaceAllString(line, ""))
			title = strings.Trim(title, " -|:\t")
			if title == "" && i > 0 {
				title = strings.TrimSpace(lines[i-1])
			}

			rows = append(rows, domain.VideoMetadataRow{
				VideoID: videoID,
				Title:   title,
				Source:  "pdf",
			})
		}
	}
	return rows
}
