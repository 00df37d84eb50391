package domain

import "context"

// VideoPlatform is the capability the pipeline consumes for all video data.
// Every method is a suspension point; callers apply per-call timeouts.
type VideoPlatform interface {
	SearchVideos(ctx context.Context, query string, maxResults int64) ([]Candidate, error)
	SearchChannels(ctx context.Context, query string, maxResults int64) ([]ChannelInfo, error)
	GetChannelInfo(ctx context.Context, channelID string) (*ChannelInfo, error)
	GetChannelVideos(ctx context.Context, channelID string, maxResults int) ([]Candidate, error)
	GetVideoDetail(ctx context.Context, videoID string) (*VideoDetail, error)
	GetTranscript(ctx context.Context, videoID string) (string, error)
	GetComments(ctx context.Context, videoID string, maxResults int64) ([]Comment, error)
}

// ChannelRef identifies a curated channel: either a raw channel id or an
// "@handle" that must be resolved through a channel search first.
type ChannelRef struct {
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name"`
	Category    string `json:"category"`
}

// IsHandle reports whether the reference needs handle resolution.
func (r ChannelRef) IsHandle() bool {
	return len(r.ChannelID) > 0 && r.ChannelID[0] == '@'
}
