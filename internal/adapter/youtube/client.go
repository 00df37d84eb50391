package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"topic-scout/internal/domain"
)

const (
	videosBatchSize = 50
	timedtextURL    = "https://video.google.com/timedtext"
)

// Client is the YouTube Data API v3 adapter. All calls share one rate
// limiter so concurrent fan-out stays inside the daily quota budget.
type Client struct {
	service    *ytapi.Service
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient builds the adapter. httpClient is the shared pooled client,
// used for the caption endpoint which is not part of the Data API surface.
func NewClient(ctx context.Context, apiKey string, httpClient *http.Client, rps float64, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube api key is empty: %w", domain.ErrConfiguration)
	}

	service, err := ytapi.NewService(ctx,
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	return &Client{
		service:    service,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}, nil
}

func (c *Client) SearchVideos(ctx context.Context, query string, maxResults int64) ([]domain.Candidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("video search %q: %w", query, err)
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	return c.hydrateVideos(ctx, ids)
}

func (c *Client) SearchChannels(ctx context.Context, query string, maxResults int64) ([]domain.ChannelInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("channel").
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("channel search %q: %w", query, err)
	}

	channels := make([]domain.ChannelInfo, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.ChannelId == "" {
			continue
		}
		info, err := c.GetChannelInfo(ctx, item.Id.ChannelId)
		if err != nil {
			c.logger.Warn("channel_hydration_failed",
				slog.String("channel_id", item.Id.ChannelId),
				slog.String("error", err.Error()))
			channels = append(channels, domain.ChannelInfo{
				ChannelID:   item.Id.ChannelId,
				Title:       item.Snippet.Title,
				Description: item.Snippet.Description,
			})
			continue
		}
		channels = append(channels, *info)
	}
	return channels, nil
}

func (c *Client) GetChannelInfo(ctx context.Context, channelID string) (*domain.ChannelInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.service.Channels.List([]string{"snippet", "statistics"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("channel info %s: %w", channelID, err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("channel %s: %w", channelID, domain.ErrNotFound)
	}

	item := resp.Items[0]
	info := &domain.ChannelInfo{
		ChannelID:   item.Id,
		Title:       item.Snippet.Title,
		Description: item.Snippet.Description,
	}
	if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
		info.Thumbnail = item.Snippet.Thumbnails.High.Url
	}
	if item.Statistics != nil {
		info.SubscriberCount = int64(item.Statistics.SubscriberCount)
		info.VideoCount = int64(item.Statistics.VideoCount)
	}
	return info, nil
}

func (c *Client) GetChannelVideos(ctx context.Context, channelID string, maxResults int) ([]domain.Candidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	chResp, err := c.service.Channels.List([]string{"contentDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("channel uploads %s: %w", channelID, err)
	}
	if len(chResp.Items) == 0 || chResp.Items[0].ContentDetails == nil {
		return nil, fmt.Errorf("channel %s: %w", channelID, domain.ErrNotFound)
	}
	uploadsID := chResp.Items[0].ContentDetails.RelatedPlaylists.Uploads

	ids := make([]string, 0, maxResults)
	pageToken := ""
	for len(ids) < maxResults {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		pageSize := int64(maxResults - len(ids))
		if pageSize > videosBatchSize {
			pageSize = videosBatchSize
		}

		plResp, err := c.service.PlaylistItems.List([]string{"contentDetails"}).
			PlaylistId(uploadsID).
			MaxResults(pageSize).
			PageToken(pageToken).
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("uploads playlist %s: %w", uploadsID, err)
		}
		for _, item := range plResp.Items {
			if item.ContentDetails != nil {
				ids = append(ids, item.ContentDetails.VideoId)
			}
		}
		pageToken = plResp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return c.hydrateVideos(ctx, ids)
}

func (c *Client) GetVideoDetail(ctx context.Context, videoID string) (*domain.VideoDetail, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("video detail %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("video %s: %w", videoID, domain.ErrNotFound)
	}

	item := resp.Items[0]
	detail := &domain.VideoDetail{Candidate: candidateFromVideo(item)}
	if item.Statistics != nil {
		detail.LikeCount = int64(item.Statistics.LikeCount)
		detail.CommentCount = int64(item.Statistics.CommentCount)
	}
	return detail, nil
}

// GetTranscript pulls the auto-generated English captions through the
// timedtext endpoint. Many videos have no caption track at all; that comes
// back as an empty 200 body and maps to ErrNotFound.
func (c *Client) GetTranscript(ctx context.Context, videoID string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s?lang=en&v=%s", timedtextURL, url.QueryEscape(videoID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build transcript request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch transcript %s: %w", videoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch transcript %s: status %d: %w", videoID, resp.StatusCode, domain.ErrUpstreamUnavailable)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read transcript %s: %w", videoID, err)
	}
	if len(body) == 0 {
		return "", fmt.Errorf("no captions for %s: %w", videoID, domain.ErrNotFound)
	}

	transcript, err := parseTimedText(body)
	if err != nil {
		return "", fmt.Errorf("parse transcript %s: %w", videoID, err)
	}
	return transcript, nil
}

func (c *Client) GetComments(ctx context.Context, videoID string, maxResults int64) ([]domain.Comment, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.service.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID).
		Order("relevance").
		MaxResults(maxResults).
		TextFormat("plainText").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("comments %s: %w", videoID, err)
	}

	comments := make([]domain.Comment, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet == nil || item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		s := item.Snippet.TopLevelComment.Snippet
		comments = append(comments, domain.Comment{
			Author:      s.AuthorDisplayName,
			Text:        s.TextDisplay,
			LikeCount:   s.LikeCount,
			PublishedAt: parseTimestamp(s.PublishedAt),
		})
	}
	return comments, nil
}

// hydrateVideos resolves search/playlist ids into full candidates with
// duration and statistics, batching the videos.list calls.
func (c *Client) hydrateVideos(ctx context.Context, ids []string) ([]domain.Candidate, error) {
	candidates := make([]domain.Candidate, 0, len(ids))
	for start := 0; start < len(ids); start += videosBatchSize {
		end := start + videosBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		resp, err := c.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
			Id(ids[start:end]...).
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("hydrate videos: %w", err)
		}
		for _, item := range resp.Items {
			candidates = append(candidates, candidateFromVideo(item))
		}
	}
	return candidates, nil
}

func candidateFromVideo(item *ytapi.Video) domain.Candidate {
	c := domain.Candidate{
		VideoID:     item.Id,
		Title:       item.Snippet.Title,
		Description: item.Snippet.Description,
		ChannelName: item.Snippet.ChannelTitle,
		ChannelID:   item.Snippet.ChannelId,
		PublishedAt: parseTimestamp(item.Snippet.PublishedAt),
	}
	if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
		c.Thumbnail = item.Snippet.Thumbnails.High.Url
	}
	if item.ContentDetails != nil {
		c.Duration = item.ContentDetails.Duration
		c.DurationMinutes = domain.ParseDurationMinutes(c.Duration)
	}
	if item.Statistics != nil {
		c.ViewCount = int64(item.Statistics.ViewCount)
	}
	return c
}

func parseTimestamp(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

type timedTextDoc struct {
	Texts []struct {
		Content string `xml:",chardata"`
	} `xml:"text"`
}

func parseTimedText(body []byte) (string, error) {
	var doc timedTextDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", err
	}

	parts := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		line := strings.TrimSpace(html.UnescapeString(t.Content))
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " "), nil
}
