// Package config loads client configuration from defaults, an optional
// config file and TELEMED_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the client's configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
}

// APIConfig locates the backend. Host and Port describe the page-equivalent
// origin the fixed port mapping is applied to; BaseURL, when set, bypasses
// the mapping entirely.
type APIConfig struct {
	Host    string `mapstructure:"host"`
	Port    string `mapstructure:"port"`
	Scheme  string `mapstructure:"scheme"`
	BaseURL string `mapstructure:"base_url"`
}

// SessionConfig locates the persisted session file.
type SessionConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration. A missing config file is fine; defaults and
// environment variables still apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".telemed"))
	}
	v.AddConfigPath(".")

	v.SetDefault("api.host", "localhost")
	v.SetDefault("api.port", "3000")
	v.SetDefault("api.scheme", "http")
	v.SetDefault("api.base_url", "")
	v.SetDefault("session.path", defaultSessionPath())
	v.SetDefault("log.level", "warn")

	v.SetEnvPrefix("TELEMED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(home, ".telemed", "session.json")
}
