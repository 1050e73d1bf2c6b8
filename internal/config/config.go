package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultModel          = "gemini-2.5-flash"
	DefaultMaxUploadBytes = 10 * 1024 * 1024
)

// Config is loaded once at startup and only read afterwards.
type Config struct {
	GeminiAPIKey  string `yaml:"gemini_api_key"`
	TelegramToken string `yaml:"telegram_token"`
	Model         string `yaml:"model"`

	Port      string `yaml:"port"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	WorkerPoolSize    int   `yaml:"worker_pool_size"`
	MaxUploadBytes    int64 `yaml:"max_upload_bytes"`
	ChunkLimit        int   `yaml:"chunk_limit"`
	MinQuestionLength int   `yaml:"min_question_length"`

	// MetricsAddr is where the bot serves /metrics. Empty disables it.
	MetricsAddr string `yaml:"metrics_addr"`
}

var (
	ErrMissingTelegramToken = errors.New("TELEGRAM_TOKEN is not set")
	ErrMissingGeminiKey     = errors.New("GEMINI_API_KEY is not set")
)

func Defaults() Config {
	return Config{
		Model:             DefaultModel,
		Port:              "5000",
		LogLevel:          "info",
		LogFormat:         "json",
		WorkerPoolSize:    3,
		MaxUploadBytes:    DefaultMaxUploadBytes,
		ChunkLimit:        4000,
		MinQuestionLength: 3,
	}
}

// Load reads .env, then the optional YAML file named by VAKIL_CONFIG
// (default config.yaml), then the process environment. Later sources win.
func Load() (Config, error) {
	envErr := godotenv.Load()

	cfg := Defaults()
	path := envOr("VAKIL_CONFIG", "config.yaml")
	if err := loadFile(path, &cfg); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)

	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		return cfg, fmt.Errorf("read .env: %w", envErr)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.GeminiAPIKey = envOr("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.TelegramToken = envOr("TELEGRAM_TOKEN", cfg.TelegramToken)
	cfg.Model = envOr("GEMINI_MODEL", cfg.Model)
	cfg.Port = envOr("PORT", cfg.Port)
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envOr("LOG_FORMAT", cfg.LogFormat)
	cfg.WorkerPoolSize = envInt("WORKER_POOL_SIZE", cfg.WorkerPoolSize)
	cfg.MaxUploadBytes = int64(envInt("MAX_UPLOAD_BYTES", int(cfg.MaxUploadBytes)))
	cfg.ChunkLimit = envInt("CHUNK_LIMIT", cfg.ChunkLimit)
	cfg.MinQuestionLength = envInt("MIN_QUESTION_LENGTH", cfg.MinQuestionLength)
	cfg.MetricsAddr = envOr("METRICS_ADDR", cfg.MetricsAddr)
}

func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return ErrMissingTelegramToken
	}
	return nil
}

func (c Config) RequireGemini() error {
	if c.GeminiAPIKey == "" {
		return ErrMissingGeminiKey
	}
	return nil
}

func envOr(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
