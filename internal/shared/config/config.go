package config

import (
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"portfolio-backend/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port                  string        `env:"PORT" envDefault:"8080"`
	CORSAllowOrigin       []string      `env:"CORS_ALLOW_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`
	ObjectStoreType       string        `env:"OBJECT_STORE" envDefault:"local"`
	LocalStoreDir         string        `env:"LOCAL_STORE_DIR" envDefault:"./data"`
	AWSRegion             string        `env:"AWS_REGION"`
	S3Bucket              string        `env:"S3_BUCKET"`
	S3Prefix              string        `env:"S3_PREFIX"`
	SSEKMSKeyID           string        `env:"SSE_KMS_KEY_ID"`
	LLMProvider           string        `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMModel              string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMBaseURL            string        `env:"LLM_BASE_URL"`
	OpenAIAPIKey          string        `env:"OPENAI_API_KEY"`
	LLMTemperature        float64       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	LLMMaxTokens          int           `env:"LLM_MAX_TOKENS" envDefault:"1500"`
	LLMTimeout            time.Duration `env:"LLM_TIMEOUT" envDefault:"120s"`
	GenerationFunctionURL string        `env:"GENERATION_FUNCTION_URL"`
	DatabaseURL           string        `env:"DATABASE_URL"`
	RedisURL              string        `env:"REDIS_URL"`
	Env                   string        `env:"ENV" envDefault:"dev"`
	AppBaseURL            string        `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	VerificationTTL       time.Duration `env:"EMAIL_VERIFICATION_TTL" envDefault:"24h"`
	GoogleClientID        string        `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret    string        `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL     string        `env:"GOOGLE_REDIRECT_URL"`
	UIRedirectURL         string        `env:"UI_REDIRECT_URL"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		telemetry.Warn("config.parse_env_failed", map[string]any{"error": err})
	}
	return normalize(cfg)
}

func normalize(cfg Config) Config {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.ObjectStoreType = normalizeStoreType(cfg.ObjectStoreType)
	cfg.CORSAllowOrigin = splitAndTrim(strings.Join(cfg.CORSAllowOrigin, ","))
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if strings.TrimSpace(cfg.LLMModel) == "" {
		cfg.LLMModel = "gpt-4o-mini"
	}
	if cfg.LLMMaxTokens <= 0 {
		cfg.LLMMaxTokens = 1500
	}
	if cfg.VerificationTTL <= 0 {
		cfg.VerificationTTL = 24 * time.Hour
	}

	if cfg.Env == "production" && cfg.DatabaseURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}
	return cfg
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
