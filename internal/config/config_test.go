package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"listwise/internal/config"
)

func TestLoadDefaultConfigUsesEnvTokenAndExpandsPaths(t *testing.T) {
	t.Setenv("LISTWISE_API_TOKEN", "env-token")
	t.Setenv("XDG_DATA_HOME", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "listwise")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.LogDir != filepath.Join(wantData, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.API.Token != "env-token" {
		t.Fatalf("expected API token from env, got %q", cfg.API.Token)
	}
	if cfg.API.AuthCookie != "access_token" {
		t.Fatalf("unexpected auth cookie: %q", cfg.API.AuthCookie)
	}
	if cfg.MaxImagesFor(false) != 6 || cfg.MaxImagesFor(true) != 5 {
		t.Fatalf("unexpected image caps: create=%d edit=%d", cfg.MaxImagesFor(false), cfg.MaxImagesFor(true))
	}
	if cfg.MaxTotalImageBytes() != 5*1024*1024 {
		t.Fatalf("unexpected image budget: %d", cfg.MaxTotalImageBytes())
	}
	if cfg.VideoMaxBytes() != 50*1024*1024 {
		t.Fatalf("unexpected video cap: %d", cfg.VideoMaxBytes())
	}
	if cfg.Media.VideoMaxSeconds != 60 {
		t.Fatalf("unexpected video duration cap: %d", cfg.Media.VideoMaxSeconds)
	}
	if cfg.IsManager() {
		t.Fatal("expected default role to publish listings")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
	if cfg.SessionDBPath() != filepath.Join(wantData, "sessions.db") {
		t.Fatalf("unexpected session db path: %q", cfg.SessionDBPath())
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "listwise.toml")

	type payload struct {
		API struct {
			BaseURL string `toml:"base_url"`
			Token   string `toml:"token"`
		} `toml:"api"`
		Account struct {
			Role   string `toml:"role"`
			UserID string `toml:"user_id"`
		} `toml:"account"`
		Media struct {
			MaxImages int `toml:"max_images"`
		} `toml:"media"`
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
	}
	custom := payload{}
	custom.API.BaseURL = "https://estate.example.com/"
	custom.API.Token = "file-token"
	custom.Account.Role = " Manager "
	custom.Account.UserID = "u-42"
	custom.Media.MaxImages = 8
	custom.Paths.DataDir = filepath.Join(tempDir, "data")

	encoded, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, encoded, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.API.BaseURL != "https://estate.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Token != "file-token" {
		t.Fatalf("unexpected token: %q", cfg.API.Token)
	}
	if !cfg.IsManager() {
		t.Fatalf("expected manager role, got %q", cfg.Account.Role)
	}
	if cfg.MaxImagesFor(false) != 8 {
		t.Fatalf("unexpected max images: %d", cfg.MaxImagesFor(false))
	}
	if cfg.MaxImagesFor(true) != 5 {
		t.Fatalf("expected edit cap default, got %d", cfg.MaxImagesFor(true))
	}
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	envPath := filepath.Join(tempDir, "listwise.env")
	if err := os.WriteFile(envPath, []byte("LISTWISE_TEST_DOTENV_TOKEN=from-dotenv\nLISTWISE_ROLE=manager\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("LISTWISE_ENV_FILE", envPath)
	t.Cleanup(func() {
		_ = os.Unsetenv("LISTWISE_TEST_DOTENV_TOKEN")
		_ = os.Unsetenv("LISTWISE_ROLE")
	})

	cfg, _, _, err := config.Load(filepath.Join(tempDir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := os.Getenv("LISTWISE_TEST_DOTENV_TOKEN"); got != "from-dotenv" {
		t.Fatalf("expected dotenv variable to be exported, got %q", got)
	}
	if !cfg.IsManager() {
		t.Fatalf("expected role from dotenv, got %q", cfg.Account.Role)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"relative url", func(c *config.Config) { c.API.BaseURL = "listings.local" }, "api.base_url"},
		{"ftp url", func(c *config.Config) { c.API.BaseURL = "ftp://example.com" }, "http or https"},
		{"zero timeout", func(c *config.Config) { c.API.TimeoutSeconds = 0 }, "api.timeout_seconds"},
		{"zero images", func(c *config.Config) { c.Media.MaxImages = 0 }, "media.max_images"},
		{"quality", func(c *config.Config) { c.Media.ImageQuality = 101 }, "media.image_quality"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	path := filepath.Join(tempDir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Media.ImageMaxEdge != 800 || cfg.Media.ImageQuality != 60 {
		t.Fatalf("unexpected media defaults from sample: %+v", cfg.Media)
	}
}
