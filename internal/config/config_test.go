package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Fatalf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Cache.Backend != "memory" || cfg.Cache.TTL.Std() != time.Hour {
		t.Fatalf("unexpected cache defaults: %+v", cfg.Cache)
	}
	if cfg.Query.MaxQueryLength != 1000 || cfg.Query.DefaultTarget != "English" {
		t.Fatalf("unexpected query defaults: %+v", cfg.Query)
	}
}

func TestLoadMissingAPIKeyIsFatal(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")

	if _, err := Load(""); err == nil {
		t.Fatalf("missing API key must fail validation")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test-key")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: "9090"
cache:
  backend: memory
  ttl: 30m
  max_entries: 500
query:
  max_query_length: 200
  default_target: Spanish
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Cache.TTL.Std() != 30*time.Minute || cfg.Cache.MaxEntries != 500 {
		t.Fatalf("unexpected cache config: %+v", cfg.Cache)
	}
	if cfg.Query.MaxQueryLength != 200 || cfg.Query.DefaultTarget != "Spanish" {
		t.Fatalf("unexpected query config: %+v", cfg.Query)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("PORT", "7070")
	t.Setenv("CACHE_TTL_SECONDS", "120")
	t.Setenv("MAX_QUERY_LENGTH", "50")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Fatalf("port = %q, want 7070", cfg.Server.Port)
	}
	if cfg.Cache.TTL.Std() != 2*time.Minute {
		t.Fatalf("ttl = %v, want 2m", cfg.Cache.TTL)
	}
	if cfg.Query.MaxQueryLength != 50 {
		t.Fatalf("max query length = %d, want 50", cfg.Query.MaxQueryLength)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKey = "test-key"
	cfg.Cache.Backend = "memcached"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("unknown backend must fail validation")
	}
}
