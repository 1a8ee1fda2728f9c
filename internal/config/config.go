// Package config provides tricipher-cli configuration through environment variables.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"
)

// Output formats accepted by OutputFormat.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds all CLI configuration.
type Config struct {
	// KeyringPath is the bbolt file holding saved keys.
	KeyringPath string
	// AutoSave stores every generated key in the keyring.
	AutoSave bool

	// OutputFormat is how results are printed ("text" or "json").
	OutputFormat string

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string
	// LogFormat selects the slog handler ("text" or "json").
	LogFormat string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	loadDotEnv()

	return &Config{
		KeyringPath:  env.GetString("TRICIPHER_KEYRING_PATH", defaultKeyringPath()),
		AutoSave:     env.GetBool("TRICIPHER_AUTO_SAVE", false),
		OutputFormat: env.GetString("TRICIPHER_OUTPUT_FORMAT", FormatText),
		LogLevel:     env.GetString("TRICIPHER_LOG_LEVEL", "info"),
		LogFormat:    env.GetString("TRICIPHER_LOG_FORMAT", FormatText),
	}
}

// Validate checks that every field holds a supported value.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.KeyringPath, validation.Required.Error("keyring path is required")),
		validation.Field(&c.OutputFormat,
			validation.Required,
			validation.In(FormatText, FormatJSON).Error("must be text or json"),
		),
		validation.Field(&c.LogLevel,
			validation.Required,
			validation.In("debug", "info", "warn", "error").Error("must be debug, info, warn or error"),
		),
		validation.Field(&c.LogFormat,
			validation.Required,
			validation.In(FormatText, FormatJSON).Error("must be text or json"),
		),
	)
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultKeyringPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".tricipher", "keyring.db")
	}
	return filepath.Join(home, ".tricipher", "keyring.db")
}

// loadDotEnv searches for a .env file from the current directory up to the
// root directory and loads the first one found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
