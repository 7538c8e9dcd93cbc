package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dshills/codementor/internal/review"
)

const appName = "codementor"

// DotEnvFiles are loaded, in order, by LoadDotEnv. Earlier files win.
var DotEnvFiles = []string{".env.local", ".env"}

// Config represents the codementor configuration.
type Config struct {
	BaseURL        string        `json:"baseURL" yaml:"baseURL"`
	Language       string        `json:"language" yaml:"language"`
	Format         string        `json:"format" yaml:"format"`
	Stream         bool          `json:"stream" yaml:"stream"`
	TimeoutSeconds int           `json:"timeoutSeconds" yaml:"timeoutSeconds"`
	FailOn         string        `json:"failOn" yaml:"failOn"`
	LogLevel       string        `json:"logLevel" yaml:"logLevel"`
	Privacy        PrivacyConfig `json:"privacy" yaml:"privacy"`
}

// PrivacyConfig controls what leaves the machine.
type PrivacyConfig struct {
	RedactSecrets bool     `json:"redactSecrets" yaml:"redactSecrets"`
	RedactPaths   []string `json:"redactPaths,omitempty" yaml:"redactPaths,omitempty"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		BaseURL:        "http://localhost:8000",
		Language:       string(review.DefaultLanguage),
		Format:         "text",
		Stream:         false,
		TimeoutSeconds: 30,
		FailOn:         "none",
		LogLevel:       "warn",
		Privacy: PrivacyConfig{
			RedactSecrets: true,
			RedactPaths:   []string{"**/.env", "**/.env.*", "**/*secrets*"},
		},
	}
}

// Timeout returns the request/response timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("baseURL must not be empty")
	}
	if _, err := review.ParseLanguage(c.Language); err != nil {
		return err
	}
	if !review.ValidThreshold(c.FailOn) {
		return fmt.Errorf("invalid failOn %q: must be one of critical, high, medium, low, info, none", c.FailOn)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeoutSeconds must be positive, got %d", c.TimeoutSeconds)
	}
	return nil
}

// ConfigDir returns the platform-appropriate config directory for codementor.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName), nil
		}
		return filepath.Join(home, "AppData", "Roaming", appName), nil
	default:
		return filepath.Join(home, ".config", appName), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadDotEnv loads DotEnvFiles from dir into the process environment.
// Variables that are already set are never overridden. Missing files are
// skipped.
func LoadDotEnv(dir string) error {
	for _, name := range DotEnvFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return nil
}

// LoadFile returns the defaults overlaid with the config file. A missing file
// yields the defaults.
func LoadFile() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv("CODEMENTOR_API_BASE_URL"); v != "" {
		cfg.BaseURL = v
	} else if v := os.Getenv("VITE_API_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("CODEMENTOR_LANGUAGE"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("CODEMENTOR_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("CODEMENTOR_FAIL_ON"); v != "" {
		cfg.FailOn = v
	}
	if v := os.Getenv("CODEMENTOR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CODEMENTOR_STREAM"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CODEMENTOR_STREAM must be a boolean: %w", err)
		}
		cfg.Stream = b
	}
	if v := os.Getenv("CODEMENTOR_TIMEOUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CODEMENTOR_TIMEOUT must be an integer: %w", err)
		}
		cfg.TimeoutSeconds = n
	}
	if v := os.Getenv("CODEMENTOR_REDACT_SECRETS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CODEMENTOR_REDACT_SECRETS must be a boolean: %w", err)
		}
		cfg.Privacy.RedactSecrets = b
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, v := range overrides {
		if v == "" {
			continue
		}
		if err := SetField(cfg, key, v); err != nil {
			return err
		}
	}
	return nil
}

// Keys lists the keys accepted by SetField.
var Keys = []string{
	"baseURL", "language", "format", "stream", "timeoutSeconds",
	"failOn", "logLevel", "privacy.redactSecrets", "privacy.redactPaths",
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "baseURL":
		cfg.BaseURL = value
	case "language":
		lang, err := review.ParseLanguage(value)
		if err != nil {
			return err
		}
		cfg.Language = string(lang)
	case "format":
		cfg.Format = value
	case "stream":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("stream must be a boolean: %w", err)
		}
		cfg.Stream = b
	case "timeoutSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("timeoutSeconds must be an integer: %w", err)
		}
		cfg.TimeoutSeconds = n
	case "failOn":
		if !review.ValidThreshold(value) {
			return fmt.Errorf("invalid failOn %q", value)
		}
		cfg.FailOn = value
	case "logLevel":
		cfg.LogLevel = value
	case "privacy.redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("privacy.redactSecrets must be a boolean: %w", err)
		}
		cfg.Privacy.RedactSecrets = b
	case "privacy.redactPaths":
		var paths []string
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		cfg.Privacy.RedactPaths = paths
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
