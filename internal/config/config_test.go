package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATA_BACKEND", "MAX_RETRIES", "JWT_ACCESS_TTL", "TIMEZONE"} {
		t.Setenv(k, "")
	}

	cfg := config.Load()
	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.DataBackend != config.BackendSQLite {
		t.Errorf("expected sqlite backend, got %s", cfg.DataBackend)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("expected no retries by default, got %d", cfg.MaxRetries)
	}
	if cfg.JWTAccessTTL != 7*24*time.Hour {
		t.Errorf("expected 7d token TTL, got %s", cfg.JWTAccessTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate, got %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "Memory")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("MAX_RETRIES", "not-a-number")

	cfg := config.Load()
	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.DataBackend != config.BackendMemory {
		t.Errorf("expected memory backend, got %s", cfg.DataBackend)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("expected 30s cache TTL, got %s", cfg.CacheTTL)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("invalid int must fall back to default, got %d", cfg.MaxRetries)
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := config.Load()
	cfg.DataBackend = config.BackendSupabase
	cfg.SupabaseURL = ""
	cfg.SupabaseServiceKey = ""
	cfg.JWTSecret = "short"
	cfg.Timezone = "Nowhere/Invalid"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"SUPABASE_URL", "SUPABASE_SERVICE_ROLE_KEY", "JWT_SECRET", "TIMEZONE"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got %v", want, err)
		}
	}
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := config.Load()
	cfg.DataBackend = "mongo"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("COLHECASH_TEST_KEY=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("COLHECASH_TEST_KEY", "")
	os.Unsetenv("COLHECASH_TEST_KEY")

	if err := config.LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("COLHECASH_TEST_KEY"); got != "from-file" {
		t.Errorf("expected value from file, got %q", got)
	}
}
