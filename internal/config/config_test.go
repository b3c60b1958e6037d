package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("TEST_CONFIG_KEY", "from-env")

	if got := getConfigValue("from-flag", "TEST_CONFIG_KEY", "default"); got != "from-flag" {
		t.Errorf("flag should win, got %q", got)
	}
	if got := getConfigValue("", "TEST_CONFIG_KEY", "default"); got != "from-env" {
		t.Errorf("env should win over default, got %q", got)
	}
	if got := getConfigValue("", "TEST_CONFIG_MISSING", "default"); got != "default" {
		t.Errorf("default should apply, got %q", got)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment line\n\nDB_PATH_TEST=/tmp/books.db\nQUOTED_TEST=\"hello\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	t.Setenv("DB_PATH_TEST", "")
	os.Unsetenv("DB_PATH_TEST")
	t.Setenv("QUOTED_TEST", "")
	os.Unsetenv("QUOTED_TEST")

	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile: %v", err)
	}

	if got := os.Getenv("DB_PATH_TEST"); got != "/tmp/books.db" {
		t.Errorf("DB_PATH_TEST = %q, want /tmp/books.db", got)
	}
	if got := os.Getenv("QUOTED_TEST"); got != "hello" {
		t.Errorf("QUOTED_TEST = %q, want hello (quotes stripped)", got)
	}
}

func TestLoadEnvFile_InvalidLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("NOT A VALID LINE\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	if err := loadEnvFile(path); err == nil {
		t.Error("expected error for malformed line")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		App:      AppConfig{Environment: "development"},
		Database: DatabaseConfig{Path: "books.db"},
		Server: ServerConfig{
			Port:        "8080",
			ReadTimeout: 15 * time.Second,
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cfg.App.Environment = "sandbox"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown environment")
	}

	cfg.App.Environment = "production"
	cfg.Database.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing database path")
	}
}
