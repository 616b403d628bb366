// Package config reads process-level defaults for the typeschema CLI and
// MCP server from TYPESCHEMA_* environment variables.
package config

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/erraggy/typeschema/synth"
)

// Config holds the engine and logging defaults for a process.
type Config struct {
	CacheLimit    int
	RefPrefix     string
	RefNaming     synth.RefNamingStrategy
	GenericNaming synth.GenericNamingStrategy
	MaxDepth      int
	LogLevel      slog.Level

	// MaxSources bounds how many loaded sources the MCP server keeps warm.
	MaxSources int
}

// Load reads a .env file from the working directory when one exists, then
// reads the environment. A missing .env file is not an error.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// LoadFile loads the named env files before reading the environment.
// Variables already set in the environment take precedence.
func LoadFile(paths ...string) (*Config, error) {
	if err := godotenv.Load(paths...); err != nil {
		return nil, err
	}
	return FromEnv(), nil
}

// FromEnv reads configuration from TYPESCHEMA_* environment variables.
// Invalid values log a warning and fall back to the default.
func FromEnv() *Config {
	return &Config{
		CacheLimit:    envInt("TYPESCHEMA_CACHE_LIMIT", 0),
		RefPrefix:     envString("TYPESCHEMA_REF_PREFIX", synth.DefaultRefPrefix),
		RefNaming:     envRefNaming("TYPESCHEMA_REF_NAMING"),
		GenericNaming: envGenericNaming("TYPESCHEMA_GENERIC_NAMING"),
		MaxDepth:      envInt("TYPESCHEMA_MAX_DEPTH", synth.DefaultMaxDepth),
		LogLevel:      envLevel("TYPESCHEMA_LOG_LEVEL", slog.LevelWarn),
		MaxSources:    envPositiveInt("TYPESCHEMA_MAX_SOURCES", 8),
	}
}

// Options converts the configuration into engine options, wiring logger
// when it is not nil.
func (c *Config) Options(logger *slog.Logger) []synth.Option {
	opts := []synth.Option{
		synth.WithCacheLimit(c.CacheLimit),
		synth.WithRefPrefix(c.RefPrefix),
		synth.WithRefNaming(c.RefNaming),
		synth.WithGenericNaming(c.GenericNaming),
		synth.WithMaxDepth(c.MaxDepth),
	}
	if logger != nil {
		opts = append(opts, synth.WithLogger(synth.NewSlogAdapter(logger)))
	}
	return opts
}

// NewLogger returns a text logger on w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt accepts zero and positive values.
func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envPositiveInt(key string, fallback int) int {
	n := envInt(key, fallback)
	if n == 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", 0, "default", fallback)
		return fallback
	}
	return n
}

func envRefNaming(key string) synth.RefNamingStrategy {
	v := os.Getenv(key)
	if v == "" {
		return synth.RefNamingTypeOnly
	}
	s, err := synth.ParseRefNamingStrategy(v)
	if err != nil {
		slog.Warn("invalid naming env var, using default", "key", key, "value", v)
		return synth.RefNamingTypeOnly
	}
	return s
}

func envGenericNaming(key string) synth.GenericNamingStrategy {
	v := os.Getenv(key)
	if v == "" {
		return synth.GenericNamingUnderscore
	}
	s, err := synth.ParseGenericNamingStrategy(v)
	if err != nil {
		slog.Warn("invalid naming env var, using default", "key", key, "value", v)
		return synth.GenericNamingUnderscore
	}
	return s
}

func envLevel(key string, fallback slog.Level) slog.Level {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		slog.Warn("invalid log level env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return level
}
