// Package config loads server settings from defaults, an optional YAML
// file and LIFEPLAN_* environment variables, in increasing precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Reports  ReportsConfig  `mapstructure:"reports"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Database DatabaseConfig `mapstructure:"database"`
}

type ServerConfig struct {
	Addr       string `mapstructure:"addr"`
	Debug      bool   `mapstructure:"debug"`
	EnableCORS bool   `mapstructure:"enable_cors"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ReportsConfig struct {
	Dir string `mapstructure:"dir"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// DatabaseConfig selects the profile store. An empty URL means the
// in-memory store.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.debug", false)
	v.SetDefault("server.enable_cors", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("reports.dir", "reports")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	// Keys must exist for AutomaticEnv to surface them through Unmarshal.
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("database.url", "")
}

// Load reads the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("LIFEPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
