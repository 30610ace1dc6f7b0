// Package config loads QueryBridge configuration from an optional YAML file
// with environment-variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML can express values as "30m" or "1h";
// bare integers are read as seconds.
type Duration time.Duration

// Std converts to the standard library type.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var secs int64
	if err := value.Decode(&secs); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds all QueryBridge configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Cache  CacheConfig  `yaml:"cache"`
	LLM    LLMConfig    `yaml:"llm"`
	Query  QueryConfig  `yaml:"query"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port           string   `yaml:"port"`
	RequestTimeout Duration `yaml:"request_timeout"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
}

// CacheConfig controls the translation cache.
type CacheConfig struct {
	Backend    string   `yaml:"backend"` // "memory" or "redis"
	TTL        Duration `yaml:"ttl"`
	MaxEntries int      `yaml:"max_entries"`
	Prefix     string   `yaml:"prefix"`
	RedisAddr  string   `yaml:"redis_addr"`
}

// LLMConfig contains upstream model settings.
type LLMConfig struct {
	BaseURL         string   `yaml:"base_url"`
	APIKey          string   `yaml:"api_key"`
	Model           string   `yaml:"model"`
	UpstreamTimeout Duration `yaml:"upstream_timeout"`
	MaxRetries      int      `yaml:"max_retries"`
}

// QueryConfig contains query-handling settings.
type QueryConfig struct {
	MaxQueryLength int    `yaml:"max_query_length"`
	DefaultTarget  string `yaml:"default_target"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			RequestTimeout: Duration(60 * time.Second),
			MaxBodyBytes:   512 * 1024,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			TTL:        Duration(time.Hour),
			MaxEntries: 10000,
			Prefix:     "querybridge",
			RedisAddr:  "127.0.0.1:6379",
		},
		LLM: LLMConfig{
			BaseURL:         "https://api.groq.com/openai",
			Model:           "llama-3.1-8b-instant",
			UpstreamTimeout: Duration(30 * time.Second),
			MaxRetries:      2,
		},
		Query: QueryConfig{
			MaxQueryLength: 1000,
			DefaultTarget:  "English",
		},
	}
}

// Load reads the YAML config file at path (if non-empty), applies environment
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv layers environment variables over the file/default values.
func (c *Config) applyEnv() {
	c.Server.Port = getenv("PORT", c.Server.Port)
	c.Cache.Backend = getenv("CACHE_BACKEND", c.Cache.Backend)
	c.Cache.RedisAddr = getenv("REDIS_ADDR", c.Cache.RedisAddr)
	c.LLM.BaseURL = getenv("LLM_BASE_URL", c.LLM.BaseURL)
	c.LLM.APIKey = getenv("LLM_API_KEY", c.LLM.APIKey)
	c.LLM.Model = getenv("LLM_MODEL", c.LLM.Model)

	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.Cache.TTL = Duration(time.Duration(secs) * time.Second)
		}
	}
	if v := os.Getenv("MAX_QUERY_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Query.MaxQueryLength = n
		}
	}
}

// Validate checks required settings. A missing API key is fatal at startup;
// everything else has a workable default.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return errors.New("LLM_API_KEY is required")
	}
	if c.LLM.BaseURL == "" {
		return errors.New("llm.base_url is required")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Query.MaxQueryLength <= 0 {
		return errors.New("query.max_query_length must be positive")
	}
	return nil
}

// getenv returns the value of the environment variable key or def if not set.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
