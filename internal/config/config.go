package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API      APIConfig
	Database DatabaseConfig
	UI       UIConfig
	Log      LogConfig
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// DatabaseConfig holds sqlite settings for the local session database.
type DatabaseConfig struct {
	Path string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Timezone string
}

// LogConfig holds file-logger settings. The TUI owns stdout, so logs go to a file.
type LogConfig struct {
	Path  string
	Level string
}

// Load reads configuration from file and env. Env var overrides use prefix FLYT_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("api.base_url", "http://localhost:8090")
	v.SetDefault("api.timeout_seconds", 15)
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "flyt", "flyt.db"))
	v.SetDefault("ui.timezone", "Europe/Madrid")
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "flyt", "flyt.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("FLYT_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "flyt"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FLYT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = 15
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	return c, nil
}
