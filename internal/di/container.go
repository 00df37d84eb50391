package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"topic-scout/internal/adapter/httpapi"
	openaiadapter "topic-scout/internal/adapter/openai"
	"topic-scout/internal/adapter/repository"
	youtubeadapter "topic-scout/internal/adapter/youtube"
	"topic-scout/internal/cache"
	"topic-scout/internal/domain"
	"topic-scout/internal/infra/config"
	"topic-scout/internal/infra/httpclient"
	"topic-scout/internal/ingest"
	"topic-scout/internal/niche"
	"topic-scout/internal/usecase"
	"topic-scout/internal/usecase/ranking"
	"topic-scout/internal/worker"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	// Repositories
	VideoRepo   domain.VideoMetadataRepository
	ChannelRepo domain.ChannelCacheRepository
	JobRepo     domain.IngestJobRepository
	TxManager   domain.TransactionManager

	// Stores
	NicheStore *niche.Store
	Catalog    *ingest.Catalog
	Cache      *cache.TTLCache

	// Usecases
	Pipeline        *usecase.RankPipeline
	ChannelSetup    *usecase.ChannelSetupService
	VideoDetails    *usecase.VideoDetailService
	SeriesSuggester *usecase.SeriesSuggester
	FormatSuggester *usecase.FormatSuggester

	// Adapters
	Platform domain.VideoPlatform
	LLM      domain.LLMClient

	// Worker
	Worker *worker.IngestWorker

	// HTTP
	Handler *httpapi.Handler
}

// NewApplicationComponents wires all dependencies from config and database pool.
func NewApplicationComponents(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, log *slog.Logger) (*ApplicationComponents, error) {
	// Repositories
	videoRepo := repository.NewVideoMetadataRepository(pool)
	channelRepo := repository.NewChannelCacheRepository(pool)
	jobRepo := repository.NewIngestJobRepository(pool)
	txManager := repository.NewPostgresTransactionManager(pool)

	// Shared HTTP client with connection pooling
	platformHTTP := httpclient.NewPooledClient(time.Duration(cfg.FetchTaskTimeoutSec) * time.Second)

	// External clients
	platform, err := youtubeadapter.NewClient(ctx, cfg.YouTubeAPIKey, platformHTTP, cfg.YouTubeRPS, log)
	if err != nil {
		return nil, fmt.Errorf("wire youtube client: %w", err)
	}
	llm, err := openaiadapter.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	if err != nil {
		return nil, fmt.Errorf("wire openai client: %w", err)
	}

	// Stores
	nicheStore, err := niche.NewStore(cfg.NicheFile)
	if err != nil {
		return nil, fmt.Errorf("load niche store: %w", err)
	}
	catalog := ingest.NewCatalog(cfg.StaticDataDir)
	ttlCache := cache.New(cfg.CacheSize, time.Duration(cfg.CacheTTLMin)*time.Minute)

	// Pipeline
	openWeights := ranking.WeightProfile{
		TitlePhrase:       float64(cfg.ScoreTitlePhrase),
		DescriptionPhrase: float64(cfg.ScoreDescriptionPhrase),
		TitleWord:         float64(cfg.ScoreTitleWord),
		EssenceWord:       float64(cfg.ScoreEssenceWord),
		MinScore:          float64(cfg.ScoreMinimum),
	}
	nicheWeights := ranking.WeightProfile{
		TitlePhrase: float64(cfg.ScoreNicheTitlePhrase),
		TitleWord:   float64(cfg.ScoreNicheTitleWord),
		MinScore:    float64(cfg.ScoreNicheMinimum),
	}

	extractor := usecase.NewKeywordExtractor(llm, log)
	fetcher := ranking.NewFetcher(platform, time.Duration(cfg.FetchTaskTimeoutSec)*time.Second, log)
	pipeline := usecase.NewRankPipeline(extractor, fetcher, nicheStore, usecase.RankConfig{
		ResultsPerQuery:   int64(cfg.ResultsPerQuery),
		VideosPerChannel:  cfg.VideosPerChannel,
		DefaultMaxResults: cfg.DefaultMaxResults,
		OpenWeights:       openWeights,
		NicheWeights:      nicheWeights,
	}, log)

	cacheTTL := time.Duration(cfg.CacheTTLMin) * time.Minute
	channelSetup := usecase.NewChannelSetupService(platform, channelRepo, cacheTTL, cfg.VideosPerChannel, log)
	videoDetails := usecase.NewVideoDetailService(platform, videoRepo, ttlCache, cacheTTL, int64(cfg.CommentsPerVideo), log)
	seriesSuggester := usecase.NewSeriesSuggester(llm, videoRepo, log)
	formatSuggester := usecase.NewFormatSuggester(llm, videoRepo, log)

	// Worker
	ingestWorker := worker.NewIngestWorker(jobRepo, videoRepo, txManager, log)

	handler := httpapi.NewHandler(
		pipeline,
		channelSetup,
		videoDetails,
		seriesSuggester,
		formatSuggester,
		platform,
		nicheStore,
		catalog,
		jobRepo,
		videoRepo,
		log,
	)

	return &ApplicationComponents{
		VideoRepo:       videoRepo,
		ChannelRepo:     channelRepo,
		JobRepo:         jobRepo,
		TxManager:       txManager,
		NicheStore:      nicheStore,
		Catalog:         catalog,
		Cache:           ttlCache,
		Pipeline:        pipeline,
		ChannelSetup:    channelSetup,
		VideoDetails:    videoDetails,
		SeriesSuggester: seriesSuggester,
		FormatSuggester: formatSuggester,
		Platform:        platform,
		LLM:             llm,
		Worker:          ingestWorker,
		Handler:         handler,
	}, nil
}
