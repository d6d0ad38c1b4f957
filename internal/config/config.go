package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config maps the whole application configuration. Values come from
// configs/config.yaml with environment variable overrides (dots become
// underscores, e.g. SERVER_PORT).
type Config struct {
	Server struct {
		Port    int    `mapstructure:"port"`
		BaseURL string `mapstructure:"base_url"`
		Env     string `mapstructure:"env"` // development | production
	} `mapstructure:"server"`

	Database struct {
		Name string `mapstructure:"name"` // SQLite database file
	} `mapstructure:"database"`

	// Analytics controls the async event ingestion pipeline.
	Analytics struct {
		BufferSize  int `mapstructure:"buffer_size"`
		WorkerCount int `mapstructure:"worker_count"`
	} `mapstructure:"analytics"`

	// RateLimit holds the fixed-window policies for the public write
	// endpoints plus the sweep interval for expired records.
	RateLimit struct {
		LoginMax          int `mapstructure:"login_max"`
		LoginWindowSec    int `mapstructure:"login_window_sec"`
		RegisterMax       int `mapstructure:"register_max"`
		RegisterWindowSec int `mapstructure:"register_window_sec"`
		ReviewMax         int `mapstructure:"review_max"`
		ReviewWindowSec   int `mapstructure:"review_window_sec"`
		SweepIntervalSec  int `mapstructure:"sweep_interval_sec"`
	} `mapstructure:"ratelimit"`

	Auth struct {
		JWTSecret        string `mapstructure:"jwt_secret"`
		ProbeURL         string `mapstructure:"probe_url"`
		ProbeTimeoutSec  int    `mapstructure:"probe_timeout_sec"`
		ProbeIntervalSec int    `mapstructure:"probe_interval_sec"`
	} `mapstructure:"auth"`
}

// IsProduction reports whether the server runs with production settings
// (secure cookies, release mode).
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// LoadConfig loads configuration via Viper from ./configs/config.yaml,
// falling back to defaults when the file or individual keys are missing.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.AddConfigPath("./configs")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.base_url", "http://localhost:8080")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("database.name", "qrmenu.db")
	viper.SetDefault("analytics.buffer_size", 1000)
	viper.SetDefault("analytics.worker_count", 4)
	viper.SetDefault("ratelimit.login_max", 10)
	viper.SetDefault("ratelimit.login_window_sec", 60)
	viper.SetDefault("ratelimit.register_max", 5)
	viper.SetDefault("ratelimit.register_window_sec", 300)
	viper.SetDefault("ratelimit.review_max", 10)
	viper.SetDefault("ratelimit.review_window_sec", 60)
	viper.SetDefault("ratelimit.sweep_interval_sec", 600)
	viper.SetDefault("auth.jwt_secret", "dev-secret-change-me")
	viper.SetDefault("auth.probe_url", "")
	viper.SetDefault("auth.probe_timeout_sec", 3)
	viper.SetDefault("auth.probe_interval_sec", 30)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found, using default values")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	log.Printf("Configuration loaded: Port=%d, DB=%s, Env=%s, Analytics Buffer=%d",
		cfg.Server.Port, cfg.Database.Name, cfg.Server.Env, cfg.Analytics.BufferSize)

	return &cfg, nil
}
