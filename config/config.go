// Package config reads the advisor settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/egor/engadvisor/llm"
	"github.com/egor/engadvisor/session"
)

// DevJWTSecret is used when JWT_SECRET_KEY is not set.
const DevJWTSecret = "dev-only-secret-do-not-use-in-production"

// Config holds all application configuration
type Config struct {
	Env        string
	ServerAddr string

	LLM llm.ClientConfig

	CatalogFile   string // empty means the embedded catalog
	InterestsFile string // empty means session.DefaultTags
	HistoryFile   string
	FeedbackFile  string

	SessionTTL  time.Duration
	JWTSecret   string
	FrontendURL string
	CORSOrigins []string
}

// Production reports whether the service runs with ENV=production.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// UsingDevSecret reports whether the fallback JWT secret is in use.
func (c *Config) UsingDevSecret() bool {
	return c.JWTSecret == DevJWTSecret
}

// AllowedOrigins returns the frontend URL followed by CORS_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	out := make([]string, 0, 1+len(c.CORSOrigins))
	if c.FrontendURL != "" {
		out = append(out, c.FrontendURL)
	}
	return append(out, c.CORSOrigins...)
}

// LoadDotEnv reads variables from files (".env" by default) without
// overriding ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	def := llm.DefaultClientConfig()

	return &Config{
		Env:        getEnv("ENV", "development"),
		ServerAddr: getEnv("SERVER_ADDR", ":7860"),

		LLM: llm.ClientConfig{
			APIURL:        getEnv("LLM_API_URL", def.APIURL),
			APIKey:        getEnv("LLM_API_KEY", ""),
			Model:         getEnv("LLM_MODEL", def.Model),
			MaxTokens:     getIntEnv("LLM_MAX_TOKENS", def.MaxTokens),
			Temperature:   getFloatEnv("LLM_TEMPERATURE", def.Temperature),
			Timeout:       getDurationEnv("LLM_API_TIMEOUT", def.Timeout),
			RatePerSecond: getFloatEnv("LLM_RATE_PER_SECOND", def.RatePerSecond),
		},

		CatalogFile:   getEnv("CATALOG_FILE", ""),
		InterestsFile: getEnv("INTERESTS_FILE", ""),
		HistoryFile:   getEnv("HISTORY_FILE", "chat_history.txt"),
		FeedbackFile:  getEnv("FEEDBACK_FILE", "chatbot_feedback.csv"),

		SessionTTL:  getDurationEnv("SESSION_TTL", 30*time.Minute),
		JWTSecret:   getEnv("JWT_SECRET_KEY", DevJWTSecret),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		CORSOrigins: getListEnv("CORS_ORIGINS"),
	}
}

type vocabularyFile struct {
	Interests []string `yaml:"interests"`
}

// LoadVocabulary reads an interest vocabulary file of the form
// "interests: [...]". An empty path yields the default vocabulary.
func LoadVocabulary(path string) (*session.Vocabulary, error) {
	if path == "" {
		return session.DefaultVocabulary(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read interests file: %w", err)
	}

	var vf vocabularyFile
	if err := yaml.Unmarshal(data, &vf); err != nil {
		return nil, fmt.Errorf("parse interests file: %w", err)
	}
	vocab := session.NewVocabulary(vf.Interests...)
	if len(vocab.Tags()) == 0 {
		return nil, fmt.Errorf("interests file %s lists no interests", path)
	}
	return vocab, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getListEnv(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
