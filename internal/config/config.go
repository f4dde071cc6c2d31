package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"pdfqa/internal/models"
)

const (
	ProviderOpenAI = "openai"
	ProviderZAI    = "zai"

	RasterizerFitz        = "fitz"
	RasterizerGhostscript = "ghostscript"
)

// Config stores runtime configuration loaded from an optional YAML file and
// environment variables.
type Config struct {
	Provider       string        `yaml:"provider"`
	OpenAIKey      string        `yaml:"openai_api_key"`
	OpenAIEndpoint string        `yaml:"openai_endpoint"`
	OpenAIModel    string        `yaml:"openai_model"`
	ZAIKey         string        `yaml:"zai_api_key"`
	ZAIBaseURL     string        `yaml:"zai_base_url"`
	ZAIModel       string        `yaml:"zai_model"`
	Rasterizer     string        `yaml:"rasterizer"`
	Workers        int           `yaml:"workers"`
	AllowPartial   bool          `yaml:"allow_partial"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	HistoryDB      string        `yaml:"history_db"`
	LogLevel       string        `yaml:"log_level"`
	SearchDir      string        `yaml:"search_dir"`
}

// Default returns the configuration used when neither a file nor the
// environment say otherwise.
func Default() Config {
	return Config{
		Provider:       ProviderOpenAI,
		OpenAIEndpoint: "https://api.openai.com/v1",
		OpenAIModel:    "gpt-4o-mini",
		ZAIBaseURL:     "https://open.bigmodel.cn/api/paas/v4/",
		ZAIModel:       "glm-4.5v",
		Rasterizer:     RasterizerFitz,
		Workers:        1,
		RequestTimeout: 3 * time.Minute,
		HistoryDB:      "./data/pdfqa.db",
		LogLevel:       "warn",
		SearchDir:      ".",
	}
}

// Load reads configuration from path (if non-empty), then applies
// environment overrides. A .env file in the working directory is honoured.
// Callers apply their own overrides and then call Validate.
func Load(path string) (Config, error) {
	// Load .env file if it exists (useful for development)
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, models.ConfigError("read config file", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, models.ConfigError("parse config file", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if cfg.HistoryDB != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.HistoryDB), 0o755); err != nil {
			return cfg, models.ConfigError(fmt.Sprintf("ensure history dir for %s", cfg.HistoryDB), err)
		}
	}
	return cfg, nil
}

// Validate checks that the selected provider is usable.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIKey == "" {
			return models.ConfigError("OPENAI_API_KEY is required for the openai provider", nil)
		}
	case ProviderZAI:
		if c.ZAIKey == "" {
			return models.ConfigError("Z_AI_API_KEY is required for the zai provider", nil)
		}
	default:
		return models.ConfigError(fmt.Sprintf("unknown model provider %q", c.Provider), nil)
	}

	if c.Rasterizer != RasterizerFitz && c.Rasterizer != RasterizerGhostscript {
		return models.ConfigError(fmt.Sprintf("unknown rasterizer %q", c.Rasterizer), nil)
	}
	if c.Workers < 1 {
		return models.ConfigError(fmt.Sprintf("workers must be at least 1, got %d", c.Workers), nil)
	}
	if c.RequestTimeout < 0 {
		return models.ConfigError("request timeout cannot be negative", nil)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Provider = strings.ToLower(getEnv("MODEL_PROVIDER", cfg.Provider))
	cfg.OpenAIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIKey)
	cfg.OpenAIEndpoint = getEnv("OPENAI_API_ENDPOINT", cfg.OpenAIEndpoint)
	cfg.OpenAIModel = getEnv("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.ZAIKey = getEnv("Z_AI_API_KEY", cfg.ZAIKey)
	cfg.ZAIBaseURL = getEnv("Z_AI_BASE_URL", cfg.ZAIBaseURL)
	cfg.ZAIModel = getEnv("Z_AI_VISION_MODEL", cfg.ZAIModel)
	cfg.Rasterizer = strings.ToLower(getEnv("PDF_RASTERIZER", cfg.Rasterizer))
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.SearchDir = getEnv("PDF_DIR", cfg.SearchDir)

	if v, ok := os.LookupEnv("HISTORY_DB"); ok {
		// An explicitly empty value disables history.
		cfg.HistoryDB = v
	}

	if v := os.Getenv("EXTRACT_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return models.ConfigError("parse EXTRACT_WORKERS", err)
		}
		cfg.Workers = n
	}
	if v := os.Getenv("ALLOW_PARTIAL_EXTRACTION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return models.ConfigError("parse ALLOW_PARTIAL_EXTRACTION", err)
		}
		cfg.AllowPartial = b
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return models.ConfigError("parse REQUEST_TIMEOUT", err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
