// Package config loads service configuration from environment variables.
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates all the service settings.
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Sim    SimConfig
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	sim, err := loadSimConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Sim: sim}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	addr := port
	if !strings.Contains(port, ":") {
		if strings.Contains(port, " ") {
			return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
		}
		addr = ":" + port
	}

	origins := []string{"*"}
	if raw := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); raw != "" {
		origins = nil
		for _, origin := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return ServerConfig{Addr: addr, AllowedOrigins: origins}, nil
}

// AIConfig describes the language-model backends: the primary model playing
// the caller, and an optional secondary model used as the evaluation backup.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	EvalModel   string
	EvalAPIKey  string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled reports whether the primary model credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// EvalEnabled reports whether a secondary evaluation model is configured.
func (c AIConfig) EvalEnabled() bool {
	return c.EvalModel != "" && (c.EvalAPIKey != "" || c.Enabled())
}

// NewChatModel creates the primary chat model instance.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("model credentials missing: provide ARK_API_KEY plus Model, or an AK/SK pair")
	}
	return c.newModel(ctx, c.Model, c.APIKey)
}

// NewEvalChatModel creates the secondary evaluation model instance.
func (c AIConfig) NewEvalChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.EvalEnabled() {
		return nil, fmt.Errorf("evaluation model not configured")
	}

	apiKey := c.EvalAPIKey
	if apiKey == "" {
		apiKey = c.APIKey
	}
	return c.newModel(ctx, c.EvalModel, apiKey)
}

func (c AIConfig) newModel(ctx context.Context, modelName, apiKey string) (model.ChatModel, error) {
	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      apiKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       modelName,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}
	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("Model")),
		EvalModel:   strings.TrimSpace(os.Getenv("ARK_EVAL_MODEL")),
		EvalAPIKey:  strings.TrimSpace(os.Getenv("ARK_EVAL_API_KEY")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

// SimConfig tunes the simulation engine.
type SimConfig struct {
	MaxTurns int
	CacheTTL time.Duration
	DBPath   string
}

func loadSimConfig() (SimConfig, error) {
	maxTurns := 20
	if override, err := parseOptionalIntEnv("SIM_MAX_TURNS"); err != nil {
		return SimConfig{}, err
	} else if override != nil && *override > 0 {
		maxTurns = *override
	}

	ttl := 30 * time.Minute
	if override, err := parseOptionalIntEnv("SIM_CACHE_TTL_MINUTES"); err != nil {
		return SimConfig{}, err
	} else if override != nil && *override > 0 {
		ttl = time.Duration(*override) * time.Minute
	}

	return SimConfig{
		MaxTurns: maxTurns,
		CacheTTL: ttl,
		DBPath:   strings.TrimSpace(os.Getenv("DB_PATH")),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
