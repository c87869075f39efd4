// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Archive backends
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config represents the configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or environment variables.
type Config struct {
	// AI provider
	Provider    string  `json:"provider,omitempty" yaml:"provider,omitempty"`       // gemini or anthropic
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`         // Gemini API key
	AWSRegion   string  `json:"aws_region,omitempty" yaml:"aws_region,omitempty"`   // Region for Bedrock
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"` // Overrides the provider default

	// Archive
	ArchiveBackend string `json:"archive_backend,omitempty" yaml:"archive_backend,omitempty"`
	ArchivePath    string `json:"archive_path,omitempty" yaml:"archive_path,omitempty"` // File backend location
	RedisAddr      string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	RedisPassword  string `json:"redis_password,omitempty" yaml:"redis_password,omitempty"`
	RedisPrefix    string `json:"redis_prefix,omitempty" yaml:"redis_prefix,omitempty"`
	DatabaseURL    string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL

	// Server
	Port           int      `json:"port,omitempty" yaml:"port,omitempty"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`

	// Report
	LogoPath string `json:"logo_path,omitempty" yaml:"logo_path,omitempty"` // PNG or JPEG placed on exported PDFs

	// Logging
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	Verbose  bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"` // Human-readable console logs
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Provider:       "gemini",
		AWSRegion:      "us-east-1",
		ArchiveBackend: BackendFile,
		ArchivePath:    defaultArchivePath(),
		RedisAddr:      "localhost:6379",
		RedisPrefix:    "review_agent:",
		Port:           8080,
		AllowedOrigins: []string{"*"},
		LogLevel:       "info",
	}
}

func defaultArchivePath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "review_agent", "archive.json")
	}
	return "archive.json"
}

// LoadConfig loads configuration from a JSON (.json) or YAML (.yaml, .yml) file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	case ".json", "":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	return &cfg, nil
}

// ApplyEnv overrides fields with environment variables that are set.
// getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}

	str(&c.APIKey, "GEMINI_API_KEY", "API_KEY")
	str(&c.Provider, "LLM_PROVIDER")
	str(&c.AWSRegion, "AWS_REGION")
	str(&c.ArchiveBackend, "ARCHIVE_BACKEND")
	str(&c.ArchivePath, "ARCHIVE_PATH")
	str(&c.RedisAddr, "REDIS_ADDR")
	str(&c.RedisPassword, "REDIS_PASSWORD")
	str(&c.DatabaseURL, "DATABASE_URL")
	str(&c.LogLevel, "LOG_LEVEL")
	str(&c.LogoPath, "LOGO_PATH")

	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: PORT must be a number, got %q", v)
		}
		c.Port = port
	}
	if v := strings.TrimSpace(getenv("ALLOWED_ORIGINS")); v != "" {
		c.AllowedOrigins = splitList(v)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks that the configuration has valid values.
// Note: the API key is not required here; a missing key surfaces as a
// configuration error on the first AI call.
func (c *Config) Validate() error {
	switch c.Provider {
	case "", "gemini", "anthropic":
	default:
		return fmt.Errorf("config error: unknown provider %q", c.Provider)
	}

	switch c.ArchiveBackend {
	case "", BackendMemory:
	case BackendFile:
		if c.ArchivePath == "" {
			return fmt.Errorf("config error: 'archive_path' is required for the file backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("config error: 'redis_addr' is required for the redis backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres backend")
		}
	default:
		return fmt.Errorf("config error: unknown archive backend %q", c.ArchiveBackend)
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config error: 'temperature' must be between 0 and 2")
	}

	// Validate file paths exist (if specified)
	if c.LogoPath != "" {
		if _, err := os.Stat(c.LogoPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: logo file not found: %s", c.LogoPath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	for _, f := range []struct{ dst, def *string }{
		{&result.Provider, &defaults.Provider},
		{&result.APIKey, &defaults.APIKey},
		{&result.AWSRegion, &defaults.AWSRegion},
		{&result.ArchiveBackend, &defaults.ArchiveBackend},
		{&result.ArchivePath, &defaults.ArchivePath},
		{&result.RedisAddr, &defaults.RedisAddr},
		{&result.RedisPassword, &defaults.RedisPassword},
		{&result.RedisPrefix, &defaults.RedisPrefix},
		{&result.DatabaseURL, &defaults.DatabaseURL},
		{&result.LogoPath, &defaults.LogoPath},
		{&result.LogLevel, &defaults.LogLevel},
	} {
		if *f.dst == "" {
			*f.dst = *f.def
		}
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Temperature == 0 {
		result.Temperature = defaults.Temperature
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = append([]string(nil), defaults.AllowedOrigins...)
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Load builds the effective configuration: the optional file, then the
// environment, then defaults for whatever is still empty.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}
