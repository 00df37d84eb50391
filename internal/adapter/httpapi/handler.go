package httpapi

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"topic-scout/internal/domain"
	"topic-scout/internal/ingest"
	"topic-scout/internal/niche"
	"topic-scout/internal/usecase"
	"topic-scout/internal/usecase/ranking"
)

const maxUploadBytes = 32 << 20

// Handler carries the wired usecases behind the HTTP surface.
type Handler struct {
	pipeline        *usecase.RankPipeline
	channelSetup    *usecase.ChannelSetupService
	videoDetails    *usecase.VideoDetailService
	seriesSuggester *usecase.SeriesSuggester
	formatSuggester *usecase.FormatSuggester
	platform        domain.VideoPlatform
	nicheStore      *niche.Store
	catalog         *ingest.Catalog
	jobRepo         domain.IngestJobRepository
	videoRepo       domain.VideoMetadataRepository
	logger          *slog.Logger
}

func NewHandler(
	pipeline *usecase.RankPipeline,
	channelSetup *usecase.ChannelSetupService,
	videoDetails *usecase.VideoDetailService,
	seriesSuggester *usecase.SeriesSuggester,
	formatSuggester *usecase.FormatSuggester,
	platform domain.VideoPlatform,
	nicheStore *niche.Store,
	catalog *ingest.Catalog,
	jobRepo domain.IngestJobRepository,
	videoRepo domain.VideoMetadataRepository,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		pipeline:        pipeline,
		channelSetup:    channelSetup,
		videoDetails:    videoDetails,
		seriesSuggester: seriesSuggester,
		formatSuggester: formatSuggester,
		platform:        platform,
		nicheStore:      nicheStore,
		catalog:         catalog,
		jobRepo:         jobRepo,
		videoRepo:       videoRepo,
		logger:          logger,
	}
}

// Register mounts every route on e.
func (h *Handler) Register(e *echo.Echo) {
	api := e.Group("/api")

	api.POST("/topics/rank", h.RankTopics)
	api.POST("/niche/rank", h.RankNiche)
	api.POST("/channel/setup", h.SetupChannel)
	api.DELETE("/channel/cache/:channelId", h.EvictChannelCache)
	api.POST("/videos/details", h.VideoDetails)
	api.POST("/search/videos", h.SearchVideos)
	api.POST("/search/channel", h.SearchChannels)
	api.POST("/suggest-series", h.SuggestSeries)
	api.POST("/suggest-format", h.SuggestFormat)

	api.GET("/niche/channels", h.ListNicheChannels)
	api.POST("/niche/reload", h.ReloadNiche)

	api.POST("/upload-pdf", h.UploadPDF)
	api.GET("/static-data/files", h.StaticFiles)
	api.GET("/static-data/search", h.StaticSearch)

	api.GET("/cache/stats", h.CacheStats)
}

type rankRequest struct {
	Topic            string  `json:"topic"`
	Category         string  `json:"category"`
	MaxResults       int     `json:"max_results"`
	DurationMinBound float64 `json:"duration_min_bound"`
	LongFormOnly     bool    `json:"long_form_only"`
}

func (h *Handler) RankTopics(c echo.Context) error {
	var req rankRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	bound := req.DurationMinBound
	if req.LongFormOnly && bound == 0 {
		bound = 10
	}

	result, err := h.pipeline.RankByTopic(c.Request().Context(), usecase.RankByTopicInput{
		Topic:            req.Topic,
		Mode:             usecase.ModeOpenSearch,
		MaxResults:       req.MaxResults,
		DurationMinBound: bound,
	})
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) RankNiche(c echo.Context) error {
	var req rankRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.pipeline.RankByTopic(c.Request().Context(), usecase.RankByTopicInput{
		Topic:            req.Topic,
		Mode:             usecase.ModeCuratedNiche,
		Category:         req.Category,
		MaxResults:       req.MaxResults,
		DurationMinBound: req.DurationMinBound,
	})
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, result)
}

type channelSetupRequest struct {
	Channel string `json:"channel"`
}

func (h *Handler) SetupChannel(c echo.Context) error {
	var req channelSetupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.channelSetup.Setup(c.Request().Context(), req.Channel)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) EvictChannelCache(c echo.Context) error {
	if err := h.channelSetup.Evict(c.Request().Context(), c.Param("channelId")); err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "evicted"})
}

type videoDetailsRequest struct {
	VideoIDs []string `json:"video_ids"`
}

func (h *Handler) VideoDetails(c echo.Context) error {
	var req videoDetailsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	details, err := h.videoDetails.GetDetails(c.Request().Context(), req.VideoIDs)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"videos": details,
		"count":  len(details),
	})
}

type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int64  `json:"max_results"`
	// VideoType narrows results to "video" (long-form) or "short".
	VideoType string `json:"video_type"`
}

func (h *Handler) SearchVideos(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}
	if req.MaxResults <= 0 {
		req.MaxResults = 10
	}

	videos, err := h.platform.SearchVideos(c.Request().Context(), req.Query, req.MaxResults)
	if err != nil {
		return h.mapError(err)
	}

	switch req.VideoType {
	case "video":
		videos, _ = ranking.SplitShorts(videos)
	case "short":
		_, videos = ranking.SplitShorts(videos)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"videos": videos,
		"count":  len(videos),
	})
}

func (h *Handler) SearchChannels(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}
	if req.MaxResults <= 0 {
		req.MaxResults = 5
	}

	channels, err := h.platform.SearchChannels(c.Request().Context(), req.Query, req.MaxResults)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"channels": channels,
		"count":    len(channels),
	})
}

type suggestRequest struct {
	ChannelName string   `json:"channel_name"`
	VideoIDs    []string `json:"video_ids"`
}

func (h *Handler) SuggestSeries(c echo.Context) error {
	var req suggestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	advice, err := h.seriesSuggester.Suggest(c.Request().Context(), req.ChannelName, req.VideoIDs)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, advice)
}

func (h *Handler) SuggestFormat(c echo.Context) error {
	var req suggestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	advice, err := h.formatSuggester.Suggest(c.Request().Context(), req.ChannelName, req.VideoIDs)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, advice)
}

func (h *Handler) ListNicheChannels(c echo.Context) error {
	category := c.QueryParam("category")
	return c.JSON(http.StatusOK, map[string]any{
		"channels":   h.nicheStore.Channels(category),
		"categories": h.nicheStore.Categories(),
	})
}

func (h *Handler) ReloadNiche(c echo.Context) error {
	if err := h.nicheStore.Reload(); err != nil {
		h.logger.Error("niche_reload_failed", slog.String("error", err.Error()))
		return echo.NewHTTPError(http.StatusInternalServerError, "reload failed")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":   "reloaded",
		"channels": len(h.nicheStore.Channels("")),
	})
}

func (h *Handler) UploadPDF(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if fileHeader.Size > maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read upload")
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "upload-*.pdf")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot stage upload")
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, io.LimitReader(src, maxUploadBytes)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot stage upload")
	}

	extract, err := ingest.ExtractPDF(tmp.Name())
	if err != nil {
		h.logger.Warn("pdf_extraction_failed",
			slog.String("filename", fileHeader.Filename),
			slog.String("error", err.Error()))
		return h.mapError(err)
	}

	now := time.Now()
	job := &domain.IngestJob{
		ID:      uuid.New(),
		JobType: "pdf_export",
		Payload: map[string]any{
			"filename": filepath.Base(fileHeader.Filename),
			"content":  extract.Content,
		},
		Status:    "new",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.jobRepo.Enqueue(c.Request().Context(), job); err != nil {
		h.logger.Error("ingest_enqueue_failed",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()))
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot enqueue ingest job")
	}

	return c.JSON(http.StatusAccepted, map[string]any{
		"job_id":      job.ID,
		"pages":       extract.Pages,
		"characters":  extract.Characters,
		"video_count": extract.VideoCount,
		"preview":     extract.Preview,
	})
}

func (h *Handler) StaticFiles(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"files": h.catalog.Files(),
	})
}

func (h *Handler) StaticSearch(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	hits := h.catalog.Search(query)
	return c.JSON(http.StatusOK, map[string]any{
		"videos": hits,
		"count":  len(hits),
	})
}

func (h *Handler) CacheStats(c echo.Context) error {
	stats, err := h.videoRepo.Stats(c.Request().Context())
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) mapError(err error) error {
	switch {
	case errors.Is(err, domain.ErrConfiguration):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	case errors.Is(err, domain.ErrMalformedResponse):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("request_failed", slog.String("error", err.Error()))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
