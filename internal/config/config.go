package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	DatabaseURL     string
	RedisURL        string
	NATSURL         string
	NATSSubject     string
	JWTSecret       string
	HistoryCacheTTL time.Duration
	CheckRateLimit  int
	ReadRateLimit   int
	AIProvider      string
	OpenAIAPIKey    string
	OpenAIModel     string
	AnthropicAPIKey string
	AIMaxTokens     int
	AITimeout       time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PSYCHECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Psycheck API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8000")
	v.SetDefault("nats.subject", "psycheck.evaluations")
	v.SetDefault("history.cache_ttl", "5m")
	v.SetDefault("rate.check_per_minute", 5)
	v.SetDefault("rate.read_per_minute", 20)
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.model", "gpt-4o")
	v.SetDefault("ai.max_tokens", 3000)
	v.SetDefault("ai.timeout_ms", 60000)

	ttlString := v.GetString("history.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid history cache ttl: %w", err)
	}

	timeoutMs := v.GetInt("ai.timeout_ms")
	if timeoutMs <= 0 {
		timeoutMs = 60000
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		DatabaseURL:     v.GetString("database.url"),
		RedisURL:        v.GetString("redis.url"),
		NATSURL:         v.GetString("nats.url"),
		NATSSubject:     v.GetString("nats.subject"),
		JWTSecret:       v.GetString("jwt.secret"),
		HistoryCacheTTL: ttl,
		CheckRateLimit:  v.GetInt("rate.check_per_minute"),
		ReadRateLimit:   v.GetInt("rate.read_per_minute"),
		AIProvider:      strings.ToLower(v.GetString("ai.provider")),
		OpenAIAPIKey:    v.GetString("openai_api_key"),
		OpenAIModel:     v.GetString("ai.model"),
		AnthropicAPIKey: v.GetString("anthropic_api_key"),
		AIMaxTokens:     v.GetInt("ai.max_tokens"),
		AITimeout:       time.Duration(timeoutMs) * time.Millisecond,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.CheckRateLimit <= 0 {
		cfg.CheckRateLimit = 5
	}

	if cfg.ReadRateLimit <= 0 {
		cfg.ReadRateLimit = 20
	}

	return cfg, nil
}
