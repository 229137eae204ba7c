// Package config loads the server configuration.
//
// Sources, lowest priority first:
//
//  1. Defaults: defaultConfig()
//  2. Config file: optional YAML file (CONFIG_PATH, or ./config.yaml)
//  3. Environment variables, including any loaded from a .env file
//
// Environment variables use flat legacy names (MONGO_URL, PORT, ...) and are
// mapped onto config paths by envTransformFunc. Unknown variables are ignored.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/sakif/trippila/internal/auth"
)

const (
	// ConfigPathEnvVar names the variable pointing at a YAML config file.
	ConfigPathEnvVar = "CONFIG_PATH"

	// DefaultDatabaseName is the database every collection lives in.
	DefaultDatabaseName = "Trippila"
)

// DefaultConfigPaths are searched when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// DotEnvPath is loaded into the process environment before anything else.
// Variables already set in the environment win.
var DotEnvPath = ".env"

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Security  SecurityConfig  `koanf:"security"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Logging   LoggingConfig   `koanf:"logging"`
	Compat    CompatConfig    `koanf:"compat"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig selects the store. URL is a mongodb:// or mongodb+srv://
// connection string, or sqlite://<path> / sqlite::memory: for the embedded store.
type DatabaseConfig struct {
	URL                    string        `koanf:"url"`
	Name                   string        `koanf:"name"`
	ConnectTimeout         time.Duration `koanf:"connect_timeout"`
	ServerSelectionTimeout time.Duration `koanf:"server_selection_timeout"`
}

type SecurityConfig struct {
	CORSOrigins     []string `koanf:"cors_origins"`
	PasswordHashing string   `koanf:"password_hashing"` // plaintext | bcrypt
	BcryptCost      int      `koanf:"bcrypt_cost"`
}

// RateLimitConfig enables a per-client-IP request limit. Off by default.
type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`  // debug | info | warn | error
	Format string `koanf:"format"` // text | json
}

// CompatConfig switches individual routes back to their historical behaviour.
type CompatConfig struct {
	// PUT /movies/{id} matches the unparsed id and therefore always 404s.
	MovieUpdateRawID bool `koanf:"movie_update_raw_id"`
	// PUT /events/{id} ignores falsy values (0, "", false) as if absent.
	EventUpdateTruthy bool `koanf:"event_update_truthy"`
	// POST /login_user answers every outcome with 200.
	LegacyLoginStatus bool `koanf:"legacy_login_status"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Name:                   DefaultDatabaseName,
			ConnectTimeout:         10 * time.Second,
			ServerSelectionTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			PasswordHashing: string(auth.ModePlaintext),
			BcryptCost:      auth.DefaultCost,
		},
		RateLimit: RateLimitConfig{
			Enabled:  false,
			Requests: 100,
			Window:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Compat: CompatConfig{
			LegacyLoginStatus: true,
		},
	}
}

// Load builds the Config from defaults, the optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	if err := loadDotEnv(DotEnvPath); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Layer 3: environment (highest priority). Empty variables count as unset.
	if err := k.Load(env.ProviderWithValue("", ".", envValueFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// mongoUrl is the historical name; MONGO_URL wins when both are set.
	if k.String("database.url") == "" && k.String(legacyURLPath) != "" {
		if err := k.Set("database.url", k.String(legacyURLPath)); err != nil {
			return nil, fmt.Errorf("failed to set database.url: %w", err)
		}
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

const legacyURLPath = "database.legacy_url"

// envMappings maps lowercased environment variable names to config paths.
var envMappings = map[string]string{
	"mongo_url":                      "database.url",
	"mongourl":                       legacyURLPath,
	"database_name":                  "database.name",
	"mongo_connect_timeout":          "database.connect_timeout",
	"mongo_server_selection_timeout": "database.server_selection_timeout",
	"port":                           "server.port",
	"read_timeout":                   "server.read_timeout",
	"write_timeout":                  "server.write_timeout",
	"idle_timeout":                   "server.idle_timeout",
	"shutdown_timeout":               "server.shutdown_timeout",
	"cors_allowed_origins":           "security.cors_origins",
	"password_hashing":               "security.password_hashing",
	"bcrypt_cost":                    "security.bcrypt_cost",
	"rate_limit_enabled":             "rate_limit.enabled",
	"rate_limit_requests":            "rate_limit.requests",
	"rate_limit_window":              "rate_limit.window",
	"log_level":                      "logging.level",
	"log_format":                     "logging.format",
	"compat_movie_update_raw_id":     "compat.movie_update_raw_id",
	"compat_event_update_truthy":     "compat.event_update_truthy",
	"compat_legacy_login_status":     "compat.legacy_login_status",
}

// envTransformFunc maps an environment variable name to its config path.
// Returning "" makes koanf skip the variable.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func envValueFunc(key, value string) (string, any) {
	if value == "" {
		return "", nil
	}
	return envTransformFunc(key), value
}

// sliceConfigPaths are split on commas when they arrive as a single string.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		str, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(str, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// Validate checks every value Load cannot check by type alone.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database URL is required (set MONGO_URL)")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if _, err := auth.ParseMode(c.Security.PasswordHashing); err != nil {
		return err
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests < 1 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("rate limit needs positive requests and window, got %d per %s", c.RateLimit.Requests, c.RateLimit.Window)
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// SlogLevel parses Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", l.Level)
	}
	return level, nil
}
