package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Env  string
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	YouTubeAPIKey string
	YouTubeRPS    float64

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	CORSOrigins []string

	FetchTaskTimeoutSec int
	ResultsPerQuery     int
	VideosPerChannel    int
	DefaultMaxResults   int
	CommentsPerVideo    int

	CacheSize   int
	CacheTTLMin int

	NicheFile     string
	StaticDataDir string

	ScoreTitlePhrase       int
	ScoreDescriptionPhrase int
	ScoreTitleWord         int
	ScoreEssenceWord       int
	ScoreMinimum           int

	ScoreNicheTitlePhrase int
	ScoreNicheTitleWord   int
	ScoreNicheMinimum     int

	EnableOTel bool
}

func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "9020"),

		DBHost:     getEnv("DB_HOST", "scout-db"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "scout_user"),
		DBPassword: getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "scout_password"),
		DBName:     getEnv("DB_NAME", "scout_db"),

		YouTubeAPIKey: getSecret("YOUTUBE_API_KEY", "YOUTUBE_API_KEY_FILE", ""),
		YouTubeRPS:    getEnvFloat("YOUTUBE_RPS", 8),

		OpenAIAPIKey:  getSecret("OPENAI_API_KEY", "OPENAI_API_KEY_FILE", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		CORSOrigins: splitAndTrim(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		FetchTaskTimeoutSec: getEnvInt("FETCH_TASK_TIMEOUT_SEC", 15),
		ResultsPerQuery:     getEnvInt("RESULTS_PER_QUERY", 10),
		VideosPerChannel:    getEnvInt("VIDEOS_PER_CHANNEL", 15),
		DefaultMaxResults:   getEnvInt("DEFAULT_MAX_RESULTS", 10),
		CommentsPerVideo:    getEnvInt("COMMENTS_PER_VIDEO", 20),

		CacheSize:   getEnvInt("CACHE_SIZE", 2048),
		CacheTTLMin: getEnvInt("CACHE_TTL_MIN", 360),

		NicheFile:     getEnv("NICHE_FILE", "data/niche_channels.json"),
		StaticDataDir: getEnv("STATIC_DATA_DIR", "data/static"),

		ScoreTitlePhrase:       getEnvInt("SCORE_TITLE_PHRASE", 100),
		ScoreDescriptionPhrase: getEnvInt("SCORE_DESCRIPTION_PHRASE", 20),
		ScoreTitleWord:         getEnvInt("SCORE_TITLE_WORD", 10),
		ScoreEssenceWord:       getEnvInt("SCORE_ESSENCE_WORD", 15),
		ScoreMinimum:           getEnvInt("SCORE_MINIMUM", 10),

		ScoreNicheTitlePhrase: getEnvInt("SCORE_NICHE_TITLE_PHRASE", 10),
		ScoreNicheTitleWord:   getEnvInt("SCORE_NICHE_TITLE_WORD", 2),
		ScoreNicheMinimum:     getEnvInt("SCORE_NICHE_MINIMUM", 1),

		EnableOTel: getEnv("ENABLE_OTEL", "false") == "true",
	}
}

// DSN builds the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	// 1. Try direct environment variable
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}

	// 2. Try reading from file specified by fileEnvKey
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
