package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/Sumanth-CBRE/Weatherbot/internal/chat"
	"github.com/Sumanth-CBRE/Weatherbot/pkg/logx"
)

// envConfig holds secrets and addresses taken from the environment.
type envConfig struct {
	AppEnv     string `envconfig:"APP_ENV" default:"development"`
	LLMAPIKey  string `envconfig:"LLM_API_KEY"`
	LLMBaseURL string `envconfig:"LLM_BASE_URL"`
	RedisURL   string `envconfig:"REDIS_URL"`
	Port       string `envconfig:"PORT" default:"8000"`
	ConfigFile string `envconfig:"CONFIG_FILE" default:"config.yaml"`
}

// fileConfig holds engine tuning from config.yaml. Every field has a default
// so the file is optional.
type fileConfig struct {
	Model               string   `yaml:"model"`
	HomeCountry         string   `yaml:"home_country"`
	UserAgent           string   `yaml:"user_agent"`
	MaxToolRounds       int      `yaml:"max_tool_rounds"`
	HTTPTimeoutSeconds  int      `yaml:"http_timeout_seconds"`
	ToolTimeoutSeconds  int      `yaml:"tool_timeout_seconds"`
	GeoCacheTTLMinutes  int      `yaml:"geocode_cache_ttl_minutes"`
	PlaceholderPatterns []string `yaml:"placeholder_patterns"`
	Endpoints           struct {
		NWS               string `yaml:"nws"`
		OpenMeteoForecast string `yaml:"open_meteo_forecast"`
		OpenMeteoArchive  string `yaml:"open_meteo_archive"`
		Nominatim         string `yaml:"nominatim"`
	} `yaml:"endpoints"`
}

// AppConfig is the merged configuration for the bot.
type AppConfig struct {
	envConfig
	fileConfig
}

func (c *AppConfig) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func (c *AppConfig) ToolTimeout() time.Duration {
	return time.Duration(c.ToolTimeoutSeconds) * time.Second
}

func (c *AppConfig) GeoCacheTTL() time.Duration {
	return time.Duration(c.GeoCacheTTLMinutes) * time.Minute
}

// LoadConfig reads .env (outside production), the environment, and the
// optional config.yaml.
func LoadConfig() (*AppConfig, error) {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			logx.Debug().Msg("no .env file found, relying on system environment variables")
		}
	}

	cfg := &AppConfig{
		fileConfig: fileConfig{
			Model:               "gpt-4o-mini",
			HomeCountry:         "us",
			UserAgent:           "weatherbot/1.0",
			MaxToolRounds:       5,
			HTTPTimeoutSeconds:  30,
			ToolTimeoutSeconds:  45,
			GeoCacheTTLMinutes:  60,
			PlaceholderPatterns: chat.DefaultPlaceholderPatterns,
		},
	}

	if err := envconfig.Process("", &cfg.envConfig); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	data, err := os.ReadFile(cfg.ConfigFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", cfg.ConfigFile, err)
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg.fileConfig); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", cfg.ConfigFile, err)
	}
	return cfg, nil
}
