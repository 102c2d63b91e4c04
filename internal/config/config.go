package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds console configuration.
type Config struct {
	Backend  BackendConfig
	Database DatabaseConfig
	UI       UIConfig
	Log      LogConfig
}

// BackendConfig points the console at its REST backend.
type BackendConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	TokenEnv string `mapstructure:"token_env"`
	Token    string `mapstructure:"token"`
}

// DatabaseConfig holds local sqlite settings (recency log).
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	RefreshSeconds int `mapstructure:"refresh_seconds"`
	RecentCap      int `mapstructure:"recent_cap"`
}

// LogConfig holds diagnostics settings.
type LogConfig struct {
	Path string `mapstructure:"path"`
}

// Load reads configuration from file and env. Env var overrides use prefix OPSDECK_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("backend.base_url", "http://localhost:8080")
	v.SetDefault("backend.token_env", "OPSDECK_TOKEN")
	v.SetDefault("backend.token", "")
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "opsdeck", "opsdeck.db"))
	v.SetDefault("ui.refresh_seconds", 30)
	v.SetDefault("ui.recent_cap", 10)
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "state", "opsdeck", "opsdeck.log"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("OPSDECK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "opsdeck"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("OPSDECK")
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

// ResolveToken returns the API token, preferring the named env var over the
// config file value.
func (c Config) ResolveToken() string {
	if c.Backend.TokenEnv != "" {
		if tok := os.Getenv(c.Backend.TokenEnv); tok != "" {
			return tok
		}
	}
	return c.Backend.Token
}

// RefreshInterval returns the dynamic-source revalidation period.
func (c Config) RefreshInterval() time.Duration {
	secs := c.UI.RefreshSeconds
	if secs < 5 {
		secs = 30
	}
	return time.Duration(secs) * time.Second
}
