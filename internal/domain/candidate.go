package domain

import "time"

// Candidate is a single video-like item under consideration for ranking.
// Identity is VideoID; stages annotate DurationMinutes as the item passes
// through the pipeline but never change identity fields.
type Candidate struct {
	VideoID         string    `json:"video_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	ChannelName     string    `json:"channel_name"`
	ChannelID       string    `json:"channel_id,omitempty"`
	Thumbnail       string    `json:"thumbnail"`
	ViewCount       int64     `json:"view_count"`
	Duration        string    `json:"duration,omitempty"` // ISO 8601, e.g. PT12M34S
	DurationMinutes float64   `json:"duration_minutes,omitempty"`
	PublishedAt     time.Time `json:"published_at"`
	NicheCategory   string    `json:"niche_category,omitempty"`
	NicheChannel    string    `json:"niche_channel,omitempty"`
}

// ScoredCandidate pairs a candidate with its relevance score. The score is
// transient: it exists only inside the pipeline and is stripped before the
// result crosses the service boundary.
type ScoredCandidate struct {
	Candidate
	RelevanceScore float64
}

// RankedResult is the output envelope of a ranking run.
type RankedResult struct {
	Topic        string      `json:"topic"`
	Essence      string      `json:"essence"`
	KeywordsUsed []string    `json:"keywords_used"`
	Videos       []Candidate `json:"videos"`
	Count        int         `json:"count"`
	Note         string      `json:"note,omitempty"`
}

// ChannelInfo describes a channel returned by the platform.
type ChannelInfo struct {
	ChannelID       string `json:"channel_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	SubscriberCount int64  `json:"subscriber_count"`
	VideoCount      int64  `json:"video_count"`
	Thumbnail       string `json:"thumbnail"`
}

// Comment is a single top-level comment on a video.
type Comment struct {
	Author      string    `json:"author"`
	Text        string    `json:"text"`
	LikeCount   int64     `json:"like_count"`
	PublishedAt time.Time `json:"published_at"`
}

// VideoDetail is the full record for a single video, including the
// transcript and comments when available.
type VideoDetail struct {
	Candidate
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	Transcript   string    `json:"transcript,omitempty"`
	Comments     []Comment `json:"comments,omitempty"`
}
