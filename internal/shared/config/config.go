package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	DatabaseURL     string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	// Environment fallbacks for per-user provider configuration.
	OpenAIAPIKey string
	OpenAIModel  string
	AzureAPIKey  string
	AzureAPIVer  string

	EmbeddingModel      string
	EmbeddingDimensions int

	DocIntelEndpoint string
	DocIntelAPIKey   string

	TypesenseURL    string
	TypesenseAPIKey string

	RedisURL string

	// Per-stage pipeline deadlines. Timeout counts as stage failure.
	ExtractionTimeout time.Duration
	EmbeddingTimeout  time.Duration
	AnalysisTimeout   time.Duration
	IndexingTimeout   time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:     dbURL,

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o"),
		AzureAPIKey:  getEnv("AZURE_OPENAI_API_KEY", ""),
		AzureAPIVer:  getEnv("AZURE_OPENAI_API_VERSION", "2024-02-15-preview"),

		EmbeddingModel:      getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDimensions: getEnvInt("EMBEDDING_DIMENSIONS", 1536),

		DocIntelEndpoint: getEnv("DOC_INTELLIGENCE_ENDPOINT", ""),
		DocIntelAPIKey:   getEnv("DOC_INTELLIGENCE_API_KEY", ""),

		TypesenseURL:    getEnv("TYPESENSE_URL", ""),
		TypesenseAPIKey: getEnv("TYPESENSE_API_KEY", ""),

		RedisURL: getEnv("REDIS_URL", ""),

		ExtractionTimeout: getEnvDuration("EXTRACTION_TIMEOUT", 45*time.Second),
		EmbeddingTimeout:  getEnvDuration("EMBEDDING_TIMEOUT", 15*time.Second),
		AnalysisTimeout:   getEnvDuration("ANALYSIS_TIMEOUT", 90*time.Second),
		IndexingTimeout:   getEnvDuration("INDEXING_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid int: %q", key, raw)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid duration: %q", key, raw)
		return def
	}
	return val
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
