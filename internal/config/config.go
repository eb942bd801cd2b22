// README: Config loader with env defaults for HTTP, AI provider, Postgres, Redis, maps and limits.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// MaxGenerationTimeout is the longest allowed WANDER_GENERATION_TIMEOUT. It
// must stay below the session gate TTL so a running generation never loses
// its gate.
const MaxGenerationTimeout = 4 * time.Minute

// ConfigurationError reports a missing or malformed setting detected at startup.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Key, e.Reason)
}

// AIConfig selects the generation service and how it is called.
type AIConfig struct {
	Provider      string
	APIKey        string
	Model         string
	Temperature   float32
	EnforceSchema bool
	OpenAIBaseURL string
	Timeout       time.Duration
}

type Config struct {
	HTTP struct {
		Addr        string
		CORSOrigins []string
		RatePerMin  int
	}
	DB struct {
		DSN           string
		MigrationsDir string
	}
	Redis struct {
		Addr string
	}
	Maps struct {
		APIKey string
	}
	Quota struct {
		Daily int
	}
	AI AIConfig
}

// Load reads configuration from the environment, after loading a .env file if one exists.
// A missing API key for the selected provider returns *ConfigurationError.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: .env not loaded: %v", err)
	}

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("WANDER_HTTP_ADDR", ":8080")
	cfg.HTTP.CORSOrigins = splitList(envOrDefault("WANDER_CORS_ORIGINS", "*"))
	cfg.HTTP.RatePerMin = envOrDefaultInt("WANDER_RATE_PER_MIN", 20)
	cfg.DB.DSN = os.Getenv("WANDER_DB_DSN")
	cfg.DB.MigrationsDir = envOrDefault("WANDER_MIGRATIONS_DIR", "migrations")
	cfg.Redis.Addr = os.Getenv("WANDER_REDIS_ADDR")
	cfg.Maps.APIKey = os.Getenv("WANDER_MAPS_API_KEY")
	cfg.Quota.Daily = envOrDefaultInt("WANDER_DAILY_QUOTA", 0)

	ai, err := loadAI()
	if err != nil {
		return Config{}, err
	}
	cfg.AI = ai
	return cfg, nil
}

func loadAI() (AIConfig, error) {
	ai := AIConfig{
		Provider:      strings.ToLower(envOrDefault("WANDER_AI_PROVIDER", ProviderGemini)),
		EnforceSchema: envOrDefaultBool("WANDER_AI_SCHEMA", true),
		OpenAIBaseURL: os.Getenv("WANDER_OPENAI_BASE_URL"),
		Timeout:       envOrDefaultDuration("WANDER_GENERATION_TIMEOUT", 60*time.Second),
	}

	var keyName, defaultModel string
	switch ai.Provider {
	case ProviderGemini:
		keyName, defaultModel = "GEMINI_API_KEY", "gemini-2.5-flash"
	case ProviderOpenAI:
		keyName, defaultModel = "OPENAI_API_KEY", "gpt-4o-mini"
	default:
		return AIConfig{}, &ConfigurationError{Key: "WANDER_AI_PROVIDER", Reason: fmt.Sprintf("has unsupported value %q", ai.Provider)}
	}

	key, err := envOrError(keyName)
	if err != nil {
		return AIConfig{}, err
	}
	ai.APIKey = key
	ai.Model = envOrDefault("WANDER_AI_MODEL", defaultModel)

	temp := envOrDefaultFloat("WANDER_AI_TEMPERATURE", 0.4)
	if temp < 0 || temp > 2 {
		return AIConfig{}, &ConfigurationError{Key: "WANDER_AI_TEMPERATURE", Reason: "must be between 0 and 2"}
	}
	ai.Temperature = float32(temp)

	if ai.Timeout <= 0 || ai.Timeout > MaxGenerationTimeout {
		return AIConfig{}, &ConfigurationError{
			Key:    "WANDER_GENERATION_TIMEOUT",
			Reason: fmt.Sprintf("must be positive and at most %s", MaxGenerationTimeout),
		}
	}
	return ai, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrError(key string) (string, error) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v, nil
	}
	return "", &ConfigurationError{Key: key, Reason: "is required"}
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "1" || v == "true" || v == "yes"
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
