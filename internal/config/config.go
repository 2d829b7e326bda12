// Package config loads Word Hunt settings.
//
// Precedence, lowest first: built-in defaults, the YAML file, a .env file in
// the working directory, then process environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/austinraben/wordhunt/internal/words"
)

// DefaultPath is read when no --config flag is given. It may be absent.
const DefaultPath = "wordhunt.yaml"

// Config holds all Word Hunt configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Words    WordsConfig    `yaml:"words"`
	Game     GameConfig     `yaml:"game"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port           string        `yaml:"port"`
	ClientOrigin   string        `yaml:"client_origin"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// DatabaseConfig points at the SQLite file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// WordsConfig names a word list file per language. Empty means the embedded list.
type WordsConfig struct {
	English string `yaml:"english"`
	German  string `yaml:"german"`
}

// GameConfig controls sessions and daily grids.
type GameConfig struct {
	TimeLimit     time.Duration `yaml:"time_limit"`     // play time per session
	SessionTTL    time.Duration `yaml:"session_ttl"`    // how long an idle session is kept
	SweepInterval time.Duration `yaml:"sweep_interval"` // janitor tick
	AutoGenerate  bool          `yaml:"auto_generate"`  // create today's grid on first read
}

// AuthConfig configures player tokens.
type AuthConfig struct {
	JWTSecret   string `yaml:"jwt_secret"`
	ExpiresDays int    `yaml:"expires_days"`
	CookieName  string `yaml:"cookie_name"`
	SecureOnly  bool   `yaml:"secure_cookies"`
}

// LogConfig configures zerolog.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "3000",
			ClientOrigin:   "http://localhost:3000",
			RequestTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{Path: "./data/wordhunt.db"},
		Game: GameConfig{
			TimeLimit:     100 * time.Second,
			SessionTTL:    30 * time.Minute,
			SweepInterval: 30 * time.Second,
			AutoGenerate:  true,
		},
		Auth: AuthConfig{
			JWTSecret:   "dev_secret_change_me",
			ExpiresDays: 14,
			CookieName:  "wordhunt_token",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration from path (if it exists) and the environment.
// A missing file is only an error when path is not DefaultPath.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && path == DefaultPath:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets deployment environments win over the file.
func (c *Config) applyEnvOverrides() {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	str("PORT", &c.Server.Port)
	str("CLIENT_ORIGIN", &c.Server.ClientOrigin)
	str("DATABASE_PATH", &c.Database.Path)
	str("WORDS_ENGLISH_FILE", &c.Words.English)
	str("WORDS_GERMAN_FILE", &c.Words.German)
	str("JWT_SECRET", &c.Auth.JWTSecret)
	str("COOKIE_NAME", &c.Auth.CookieName)
	str("LOG_LEVEL", &c.Log.Level)

	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Auth.ExpiresDays = n
		} else {
			log.Warn().Str("JWT_EXPIRES_DAYS", v).Msg("ignoring invalid value")
		}
	}
	if v := os.Getenv("GAME_TIME_LIMIT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Game.TimeLimit = d
		} else {
			log.Warn().Str("GAME_TIME_LIMIT", v).Msg("ignoring invalid value")
		}
	}
	if v := os.Getenv("DAILY_AUTO_GENERATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Game.AutoGenerate = b
		} else {
			log.Warn().Str("DAILY_AUTO_GENERATE", v).Msg("ignoring invalid value")
		}
	}
	if os.Getenv("NODE_ENV") == "production" || os.Getenv("APP_ENV") == "production" {
		c.Auth.SecureOnly = true
	}
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Server.Port == "":
		return errors.New("config: server.port is required")
	case c.Database.Path == "":
		return errors.New("config: database.path is required")
	case c.Game.TimeLimit <= 0:
		return fmt.Errorf("config: game.time_limit must be positive, got %s", c.Game.TimeLimit)
	case c.Game.SessionTTL < c.Game.TimeLimit:
		return fmt.Errorf("config: game.session_ttl (%s) shorter than time_limit (%s)", c.Game.SessionTTL, c.Game.TimeLimit)
	case c.Game.SweepInterval <= 0:
		return errors.New("config: game.sweep_interval must be positive")
	case c.Auth.JWTSecret == "":
		return errors.New("config: auth.jwt_secret is required")
	case c.Auth.ExpiresDays <= 0:
		return errors.New("config: auth.expires_days must be positive")
	}
	return nil
}

// WordPaths maps each language to its configured word list file.
func (c *Config) WordPaths() map[words.Language]string {
	return map[words.Language]string{
		words.English: c.Words.English,
		words.German:  c.Words.German,
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + c.Server.Port }
