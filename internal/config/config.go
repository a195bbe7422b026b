// Package config loads the bot settings from RENFEBOT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Prefix is prepended to every variable name.
const Prefix = "RENFEBOT_"

// Storage backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// ErrNoToken is returned when neither the token nor the token file is set.
var ErrNoToken = errors.New("telegram token not configured (set RENFEBOT_TELEGRAM_TOKEN or RENFEBOT_TELEGRAM_TOKEN_FILE)")

// Config holds every setting the commands share. Flags override it.
type Config struct {
	TelegramToken     string `env:"TELEGRAM_TOKEN"`
	TelegramTokenFile string `env:"TELEGRAM_TOKEN_FILE" envDefault:"token.txt"`
	PollTimeout       int    `env:"POLL_TIMEOUT" envDefault:"30"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Backend     string        `env:"BACKEND" envDefault:"file"`
	RedisURL    string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisPrefix string        `env:"REDIS_PREFIX" envDefault:"renfebot:"`
	SessionDir  string        `env:"SESSION_DIR" envDefault:".renfebot/sessions"`
	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	ResourcesDir string `env:"RESOURCES_DIR" envDefault:"resources"`
	LogsDir      string `env:"LOGS_DIR" envDefault:"logs"`
	StationsFile string `env:"STATIONS_FILE"`

	SearchCommand string        `env:"SEARCH_COMMAND"`
	SearchConfig  string        `env:"SEARCH_CONFIG"`
	SearchTimeout time.Duration `env:"SEARCH_TIMEOUT" envDefault:"5m"`

	AllowedChats  []int64  `env:"ALLOWED_CHATS" envSeparator:","`
	EncryptionKey string   `env:"ENCRYPTION_KEY"`
	FallbackKeys  []string `env:"FALLBACK_KEYS" envSeparator:","`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
}

// Load parses the environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environment map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: environment})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the environment parser cannot.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("unknown backend %q (want memory, file or redis)", c.Backend)
	}
	if c.SearchCommand != "" && c.SearchConfig != "" {
		return errors.New("set either RENFEBOT_SEARCH_COMMAND or RENFEBOT_SEARCH_CONFIG, not both")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Token returns the Telegram token, read from the token file when the
// variable is unset. Surrounding whitespace is dropped.
func (c Config) Token() (string, error) {
	if token := strings.TrimSpace(c.TelegramToken); token != "" {
		return token, nil
	}
	if c.TelegramTokenFile == "" {
		return "", ErrNoToken
	}
	data, err := os.ReadFile(c.TelegramTokenFile)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Level returns the configured log level.
func (c Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
