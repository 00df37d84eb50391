package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"topic-scout/internal/domain"
)

// ParseCSV converts an exported research CSV into normalized video rows.
// The header row names the columns; column order is free, unknown columns
// are ignored. video_id and title are required.
func ParseCSV(r io.Reader) ([]domain.VideoMetadataRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := index["video_id"]; !ok {
		return nil, fmt.Errorf("csv missing video_id column: %w", domain.ErrMalformedResponse)
	}
	if _, ok := index["title"]; !ok {
		return nil, fmt.Errorf("csv missing title column: %w", domain.ErrMalformedResponse)
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []domain.VideoMetadataRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}

		videoID := field(record, "video_id")
		title := field(record, "title")
		if videoID == "" || title == "" {
			continue
		}

		row := domain.VideoMetadataRow{
			VideoID:      videoID,
			Title:        title,
			Description:  field(record, "description"),
			ThumbnailURL: field(record, "thumbnail_url"),
			ChannelID:    field(record, "channel_id"),
			ChannelTitle: field(record, "channel_title"),
			Duration:     field(record, "duration"),
			Transcript:   field(record, "transcript"),
			Source:       "csv",
		}
		if views := field(record, "view_count"); views != "" {
			if parsed, err := strconv.ParseInt(views, 10, 64); err == nil {
				row.ViewCount = parsed
			}
		}
		if published := field(record, "published_at"); published != "" {
			if parsed, err := time.Parse(time.RFC3339, published); err == nil {
				row.PublishedAt = parsed
			}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("csv contains no usable rows: %w", domain.ErrMalformedResponse)
	}
	return rows, nil
}
