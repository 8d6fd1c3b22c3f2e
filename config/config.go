package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Gateway  GatewayConfig  `yaml:"gateway"`
	Identity IdentityConfig `yaml:"identity"`
	Prefs    PrefsConfig    `yaml:"prefs"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GatewayConfig holds the remote scoring gateway settings.
type GatewayConfig struct {
	BaseURL           string  `yaml:"base_url"`
	AuthToken         string  `yaml:"auth_token"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// IdentityConfig holds the caller identity metadata attached to every gateway
// request. It is opaque to the scoring logic and forwarded unchanged.
type IdentityConfig struct {
	AppVersion string `yaml:"app_version"`
	DeviceID   string `yaml:"device_id"`
	Source     string `yaml:"source"`
}

// PrefsConfig holds the local preferences store settings.
type PrefsConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // text|json
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if v := os.Getenv("GATEWAY_BASE_URL"); v != "" {
		cfg.Gateway.BaseURL = v
	}
	if v := os.Getenv("GATEWAY_AUTH_TOKEN"); v != "" {
		cfg.Gateway.AuthToken = v
	}
	if v := os.Getenv("GATEWAY_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Gateway.RequestsPerSecond = f
		}
	}
	if v := os.Getenv("GATEWAY_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Gateway.Burst = n
		}
	}
	if v := os.Getenv("APP_VERSION"); v != "" {
		cfg.Identity.AppVersion = v
	}
	if v := os.Getenv("DEVICE_ID"); v != "" {
		cfg.Identity.DeviceID = v
	}
	if v := os.Getenv("SOURCE_TAG"); v != "" {
		cfg.Identity.Source = v
	}
	if v := os.Getenv("PREFS_PATH"); v != "" {
		cfg.Prefs.Path = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	applyDefaults(&cfg)

	if cfg.Gateway.BaseURL == "" {
		return nil, fmt.Errorf("gateway base_url not set")
	}

	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config

	cfg.Gateway.BaseURL = os.Getenv("GATEWAY_BASE_URL")
	if cfg.Gateway.BaseURL == "" {
		return nil, fmt.Errorf("GATEWAY_BASE_URL environment variable not set")
	}
	cfg.Gateway.AuthToken = os.Getenv("GATEWAY_AUTH_TOKEN")

	if v := os.Getenv("GATEWAY_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid GATEWAY_RPS value: %v", err)
		}
		cfg.Gateway.RequestsPerSecond = f
	}
	if v := os.Getenv("GATEWAY_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GATEWAY_BURST value: %v", err)
		}
		cfg.Gateway.Burst = n
	}

	cfg.Identity.AppVersion = os.Getenv("APP_VERSION")
	cfg.Identity.DeviceID = os.Getenv("DEVICE_ID")
	cfg.Identity.Source = os.Getenv("SOURCE_TAG")
	cfg.Prefs.Path = os.Getenv("PREFS_PATH")
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")
	cfg.Logging.Format = os.Getenv("LOG_FORMAT")

	applyDefaults(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Gateway.RequestsPerSecond <= 0 {
		cfg.Gateway.RequestsPerSecond = 10
	}
	if cfg.Gateway.Burst <= 0 {
		cfg.Gateway.Burst = 5
	}
	if cfg.Identity.AppVersion == "" {
		cfg.Identity.AppVersion = "dev"
	}
	if cfg.Identity.DeviceID == "" {
		// The gateway contract requires a device identifier on every request;
		// generate one when the environment does not provide it.
		cfg.Identity.DeviceID = uuid.NewString()
	}
	if cfg.Identity.Source == "" {
		cfg.Identity.Source = "scorecard-cli"
	}
	if cfg.Prefs.Path == "" {
		cfg.Prefs.Path = "scorecard-prefs.db"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}
