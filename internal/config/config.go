// Package config reads process configuration from the environment, with an
// optional YAML overlay file for scoring weights and retrieval defaults.
package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lberndt/roomscout/internal/engine"
)

// Supported LLM providers.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Chunk directory holding room/ and item/ records
	ChunksDir string

	// LLM provider: "ollama" or "openai"
	Provider     string
	OllamaHost   string
	OpenAIAPIKey string

	// Models
	EmbeddingModel string
	EmbeddingDim   int
	ChatModel      string

	// Logging
	LogFile  string
	LogLevel slog.Level

	// Request handling
	RequestTimeout time.Duration
	MaxRetries     int

	// Retrieval and scoring defaults, overridable via the overlay file
	Neighbors   int
	Suggestions int
	Overfetch   int
	Weights     engine.Weights
}

// Load reads configuration from environment variables and, when present,
// merges the YAML overlay named by ROOMSCOUT_CONFIG (default roomscout.yaml).
func Load() (Config, error) {
	cfg := Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "roomscout"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "rooms"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		ChunksDir: getEnv("ROOMSCOUT_CHUNKS", "chunks"),

		Provider:     getEnv("ROOMSCOUT_PROVIDER", ProviderOllama),
		OllamaHost:   getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),

		EmbeddingModel: getEnv("ROOMSCOUT_EMBEDDING_MODEL", "all-minilm:l6-v2"),
		EmbeddingDim:   getEnvInt("ROOMSCOUT_EMBEDDING_DIM", 384),
		ChatModel:      getEnv("ROOMSCOUT_CHAT_MODEL", "llama3.1:8b"),

		LogFile:  getEnv("ROOMSCOUT_LOG_FILE", "/tmp/roomscout.log"),
		LogLevel: parseLogLevel(getEnv("ROOMSCOUT_LOG_LEVEL", "INFO")),

		RequestTimeout: time.Duration(getEnvInt("ROOMSCOUT_TIMEOUT_SECS", 60)) * time.Second,
		MaxRetries:     getEnvInt("ROOMSCOUT_MAX_RETRIES", 3),

		Neighbors:   12,
		Suggestions: 6,
		Overfetch:   3,
		Weights:     engine.DefaultWeights(),
	}

	overlayPath := getEnv("ROOMSCOUT_CONFIG", "roomscout.yaml")
	if err := cfg.applyOverlay(overlayPath); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Overlay is the YAML file shape. Every field is optional; zero values keep
// the built-in defaults.
type Overlay struct {
	Weights   *engine.Weights `yaml:"weights,omitempty"`
	Retrieval struct {
		Neighbors   int `yaml:"neighbors,omitempty"`
		Suggestions int `yaml:"suggestions,omitempty"`
		Overfetch   int `yaml:"overfetch,omitempty"`
	} `yaml:"retrieval,omitempty"`
}

func (c *Config) applyOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return err
	}
	if o.Weights != nil {
		c.Weights = *o.Weights
		if c.Weights.Epsilon == 0 {
			c.Weights.Epsilon = engine.DefaultWeights().Epsilon
		}
	}
	if o.Retrieval.Neighbors > 0 {
		c.Neighbors = o.Retrieval.Neighbors
	}
	if o.Retrieval.Suggestions > 0 {
		c.Suggestions = o.Retrieval.Suggestions
	}
	if o.Retrieval.Overfetch > 0 {
		c.Overfetch = o.Retrieval.Overfetch
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
