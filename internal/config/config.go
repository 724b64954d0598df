// Package config provides Viper-based hierarchical configuration management:
// defaults, then an optional config file, then environment variables.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	AI struct {
		Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
		Model          string `mapstructure:"model" yaml:"model"`
		ChunkSize      int    `mapstructure:"chunk_size" yaml:"chunk_size"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`

	// Locale captures the date-parsing assumption for slash-separated dates.
	// DayFirst=true reads 04/03/2024 as 4 March; set false for US statements.
	Locale struct {
		DayFirst bool `mapstructure:"day_first" yaml:"day_first"`
	} `mapstructure:"locale" yaml:"locale"`

	Data struct {
		Directory    string `mapstructure:"directory" yaml:"directory"`
		DatabaseFile string `mapstructure:"database_file" yaml:"database_file"`
		VocabFile    string `mapstructure:"vocab_file" yaml:"vocab_file"`
	} `mapstructure:"data" yaml:"data"`

	User string `mapstructure:"user" yaml:"user"`
}

// Initialize loads configuration with hierarchical precedence.
func Initialize() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.spendwise")
	v.AddConfigPath(".spendwise")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SPENDWISE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// A broken config file is worth a warning but not a startup failure;
			// defaults and env vars still apply.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// The Gemini key is always taken from the conventional, unprefixed variable.
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("ai.chunk_size", 50)
	v.SetDefault("ai.timeout_seconds", 60)

	v.SetDefault("locale.day_first", true)

	v.SetDefault("data.directory", ".spendwise")
	v.SetDefault("data.database_file", "spendwise.db")
	v.SetDefault("data.vocab_file", "categories.yaml")

	v.SetDefault("user", "default")
}

func validate(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.AI.ChunkSize < 1 || config.AI.ChunkSize > 500 {
		return fmt.Errorf("ai.chunk_size must be between 1 and 500, got: %d", config.AI.ChunkSize)
	}
	if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 600 {
		return fmt.Errorf("ai.timeout_seconds must be between 1 and 600, got: %d", config.AI.TimeoutSeconds)
	}

	if config.User == "" {
		return fmt.Errorf("user must not be empty")
	}

	return nil
}

// DatabasePath returns the resolved path of the SQLite database file.
func (c *Config) DatabasePath() string {
	if filepath.IsAbs(c.Data.DatabaseFile) {
		return c.Data.DatabaseFile
	}
	return filepath.Join(c.Data.Directory, c.Data.DatabaseFile)
}

// VocabPath returns the resolved path of the category vocabulary file.
func (c *Config) VocabPath() string {
	if filepath.IsAbs(c.Data.VocabFile) {
		return c.Data.VocabFile
	}
	return filepath.Join(c.Data.Directory, c.Data.VocabFile)
}
