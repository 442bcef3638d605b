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
	Dashboard DashboardConfig
	Feed      FeedConfig
	Log       LogConfig
}

// DashboardConfig locates the dashboard document.
type DashboardConfig struct {
	Path string
}

// FeedConfig holds the optional websocket state-feed settings.
type FeedConfig struct {
	URL string
}

// LogConfig holds logging settings. The terminal is the UI, so logs go
// to a file (empty path disables logging entirely).
type LogConfig struct {
	File  string
	Level string
}

// Load reads configuration from file and env. Env var overrides use
// prefix TABDECK_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("dashboard.path", "")
	v.SetDefault("feed.url", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")

	v.SetConfigType("yaml")

	cfgPath := os.Getenv("TABDECK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "tabdeck"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TABDECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
