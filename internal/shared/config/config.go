package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"readiness-backend/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Env               string
	Port              string
	CORSAllowOrigin   []string
	ObjectStoreType   string
	ReportIndex       string
	LocalStoreDir     string
	AWSRegion         string
	S3Bucket          string
	S3Prefix          string
	SSEKMSKeyID       string
	DatabaseURL       string
	MongoURI          string
	MongoDatabase     string
	OpenAIAPIKey      string
	ModerationModel   string
	ScoringConfigFile string
	// RateLimitRPS and RateLimitBurst bound POST /assessments per client.
	// Zero disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int
	Scoring        Scoring
}

// Load reads configuration from environment variables with sensible defaults
// and overlays the scoring tables from SCORING_CONFIG_FILE when set.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	index := normalizeIndexType(getEnv("REPORT_INDEX", defaultIndex(dbURL)))

	if env == "production" && index == "memory" {
		telemetry.Warn("config.memory_index", map[string]any{"env": env, "report_index": index})
	}

	cfg := Config{
		Env:               env,
		Port:              getEnv("PORT", "8080"),
		CORSAllowOrigin:   splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ObjectStoreType:   normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		ReportIndex:       index,
		LocalStoreDir:     getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:         getEnv("AWS_REGION", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Prefix:          getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:       getEnv("SSE_KMS_KEY_ID", ""),
		DatabaseURL:       dbURL,
		MongoURI:          getEnv("MONGO_URI", ""),
		MongoDatabase:     getEnv("MONGO_DATABASE", "readiness"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		ModerationModel:   getEnv("MODERATION_MODEL", "omni-moderation-latest"),
		ScoringConfigFile: getEnv("SCORING_CONFIG_FILE", ""),
		RateLimitRPS:      getEnvFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst:    getEnvInt("RATE_LIMIT_BURST", 10),
	}

	scoring, err := LoadScoring(cfg.ScoringConfigFile)
	if err != nil {
		return Config{}, fmt.Errorf("load scoring config: %w", err)
	}
	cfg.Scoring = scoring
	return cfg, nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		telemetry.Warn("config.env_invalid", map[string]any{"key": key, "value": raw})
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		telemetry.Warn("config.env_invalid", map[string]any{"key": key, "value": raw})
		return def
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeIndexType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "pg", "postgresql":
		return "postgres"
	case "mongo", "mongodb":
		return "mongo"
	default:
		return "memory"
	}
}

func defaultIndex(dbURL string) string {
	if strings.TrimSpace(dbURL) != "" {
		return "postgres"
	}
	return "memory"
}
