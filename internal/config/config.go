package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the evaluation service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	RubricVersion     string
	AIProvider        string
	OpenAIAPIKey      string
	OpenAIModel       string
	MockDelay         time.Duration
	EvaluationTimeout time.Duration
	FontURL           string
	RateLimitMax      int
	RateLimitWindow   time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and an optional
// .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("BTEC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "BTEC Evaluator API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("rubric.version", "AAQ-2025")
	v.SetDefault("ai.provider", "mock")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("mock.delay", "1500ms")
	v.SetDefault("evaluation.timeout", "60s")
	v.SetDefault("font.url", "https://cdn.jsdelivr.net/gh/google/fonts@main/ofl/cairo/Cairo-Regular.ttf")
	v.SetDefault("rate_limit.max", 10)
	v.SetDefault("rate_limit.window", "1m")

	mockDelay, err := time.ParseDuration(v.GetString("mock.delay"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid mock delay: %w", err)
	}

	evaluationTimeout, err := time.ParseDuration(v.GetString("evaluation.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid evaluation timeout: %w", err)
	}

	rateLimitWindow, err := time.ParseDuration(v.GetString("rate_limit.window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid rate limit window: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		RubricVersion:     v.GetString("rubric.version"),
		AIProvider:        strings.ToLower(v.GetString("ai.provider")),
		OpenAIAPIKey:      v.GetString("openai_api_key"),
		OpenAIModel:       v.GetString("openai.model"),
		MockDelay:         mockDelay,
		EvaluationTimeout: evaluationTimeout,
		FontURL:           v.GetString("font.url"),
		RateLimitMax:      v.GetInt("rate_limit.max"),
		RateLimitWindow:   rateLimitWindow,
	}

	if cfg.AIProvider == "openai" && cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("openai api key must be provided for the openai provider")
	}

	return cfg, nil
}
