package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Extraction ExtractionConfig
	Log        LogConfig
}

type ServerConfig struct {
	Addr           string
	SamplesDir     string
	MaxUploadMB    int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IncludeRawText bool
}

// MaxUploadBytes is the request body limit.
func (c ServerConfig) MaxUploadBytes() int {
	return c.MaxUploadMB << 20
}

type ExtractionConfig struct {
	Pdftotext bool
	OCR       bool
}

type LogConfig struct {
	Level  slog.Level
	Format string
}

// Load reads configuration from environment variables. Variables found in
// the given .env files (default ".env") fill in anything not already set;
// missing files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:           getEnv("SERVER_ADDR", ":5000"),
			SamplesDir:     getEnv("SAMPLES_DIR", "samples"),
			MaxUploadMB:    getEnvAsInt("MAX_UPLOAD_MB", 32),
			ReadTimeout:    getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("WRITE_TIMEOUT", 60*time.Second),
			IncludeRawText: getEnvAsBool("INCLUDE_RAW_TEXT", true),
		},
		Extraction: ExtractionConfig{
			Pdftotext: getEnvAsBool("PDFTOTEXT_FALLBACK", true),
			OCR:       getEnvAsBool("OCR_FALLBACK", false),
		},
		Log: LogConfig{
			Format: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		},
	}

	if err := cfg.Log.Level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.Log.Format)
	}
	if cfg.Server.MaxUploadMB <= 0 {
		return nil, errors.New("MAX_UPLOAD_MB must be positive")
	}

	return cfg, nil
}

// NewLogger builds the process logger described by c.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
