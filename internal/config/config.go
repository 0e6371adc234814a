package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// API contains connection settings for the marketplace listing API.
type API struct {
	BaseURL        string `toml:"base_url"`
	Token          string `toml:"token"`
	AuthCookie     string `toml:"auth_cookie"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent"`
}

// Account identifies the signed-in user on whose behalf listings are submitted.
type Account struct {
	Role   string `toml:"role"`
	UserID string `toml:"user_id"`
}

// Media contains the ingestion limits applied to listing images and video.
type Media struct {
	MaxImages       int    `toml:"max_images"`
	MaxImagesEdit   int    `toml:"max_images_edit"`
	MaxTotalImageMB int    `toml:"max_total_image_mb"`
	ImageMaxEdge    int    `toml:"image_max_edge"`
	ImageQuality    int    `toml:"image_quality"`
	VideoMaxMB      int    `toml:"video_max_mb"`
	VideoMaxSeconds int    `toml:"video_max_seconds"`
	FFprobeBinary   string `toml:"ffprobe_binary"`
}

// Paths contains local directories used for wizard state and logs.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for listwise.
//
// Configuration sections by subsystem:
//   - API: marketplace endpoint, credentials and request timeout
//   - Account: role and user reference stamped on submissions
//   - Media: image/video ingestion limits
//   - Paths: session database and log directories
//   - Logging: log format and level
type Config struct {
	API     API     `toml:"api"`
	Account Account `toml:"account"`
	Media   Media   `toml:"media"`
	Paths   Paths   `toml:"paths"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/listwise/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A .env file in the working directory, when
// present, is loaded first so credentials can live outside the TOML file.
func Load(path string) (*Config, string, bool, error) {
	if err := loadDotEnv(); err != nil {
		return nil, "", false, err
	}

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// godotenv never overrides variables already present in the environment.
func loadDotEnv() error {
	envPath := strings.TrimSpace(os.Getenv("LISTWISE_ENV_FILE"))
	if envPath == "" {
		envPath = ".env"
	}
	if _, err := os.Stat(envPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	if err := godotenv.Load(envPath); err != nil {
		return fmt.Errorf("load env file %s: %w", envPath, err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("listwise.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SessionDBPath returns the location of the wizard session database.
func (c *Config) SessionDBPath() string {
	return filepath.Join(c.Paths.DataDir, "sessions.db")
}

// LockDir returns the directory holding per-session media locks.
func (c *Config) LockDir() string {
	return filepath.Join(c.Paths.DataDir, "locks")
}

// MaxImagesFor returns the image cap for the create or edit flow.
func (c *Config) MaxImagesFor(editing bool) int {
	if editing {
		return c.Media.MaxImagesEdit
	}
	return c.Media.MaxImages
}

// MaxTotalImageBytes returns the aggregate image budget in bytes.
func (c *Config) MaxTotalImageBytes() int64 {
	return int64(c.Media.MaxTotalImageMB) * bytesPerMB
}

// VideoMaxBytes returns the video size cap in bytes.
func (c *Config) VideoMaxBytes() int64 {
	return int64(c.Media.VideoMaxMB) * bytesPerMB
}

// IsManager reports whether the configured role submits listings as drafts.
func (c *Config) IsManager() bool {
	return strings.EqualFold(c.Account.Role, RoleManager)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultDataDir() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "listwise")
	}
	return "~/.local/share/listwise"
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
