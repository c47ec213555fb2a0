package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	fileKey := envKey + "_FILE"
	filePath := os.Getenv(fileKey)
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	val := strings.TrimSpace(string(data))
	os.Setenv(envKey, val)
}

type Config struct {
	API    APIConfig
	Poll   PollConfig
	Output OutputConfig
}

type APIConfig struct {
	BaseURL string
	Token   string
	Timeout int // seconds
}

type PollConfig struct {
	SingleIntervalMs int
	BatchIntervalMs  int
}

type OutputConfig struct {
	Dir string
}

// SingleInterval returns the single-invoice poll period.
func (p PollConfig) SingleInterval() time.Duration {
	return time.Duration(p.SingleIntervalMs) * time.Millisecond
}

// BatchInterval returns the batch poll period.
func (p PollConfig) BatchInterval() time.Duration {
	return time.Duration(p.BatchIntervalMs) * time.Millisecond
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("INVOICE_API_TOKEN")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = viper.BindEnv("api.base_url", "INVOICE_API_URL")
	_ = viper.BindEnv("api.token", "INVOICE_API_TOKEN")
	_ = viper.BindEnv("api.timeout", "INVOICE_API_TIMEOUT")
	_ = viper.BindEnv("poll.single_interval_ms", "POLL_SINGLE_INTERVAL_MS")
	_ = viper.BindEnv("poll.batch_interval_ms", "POLL_BATCH_INTERVAL_MS")
	_ = viper.BindEnv("output.dir", "OUTPUT_DIR")

	// Defaults
	viper.SetDefault("api.base_url", "http://localhost:8000")
	viper.SetDefault("api.timeout", 120)
	viper.SetDefault("poll.single_interval_ms", 2000)
	viper.SetDefault("poll.batch_interval_ms", 2500)
	viper.SetDefault("output.dir", ".")

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		API: APIConfig{
			BaseURL: viper.GetString("api.base_url"),
			Token:   viper.GetString("api.token"),
			Timeout: viper.GetInt("api.timeout"),
		},
		Poll: PollConfig{
			SingleIntervalMs: viper.GetInt("poll.single_interval_ms"),
			BatchIntervalMs:  viper.GetInt("poll.batch_interval_ms"),
		},
		Output: OutputConfig{
			Dir: viper.GetString("output.dir"),
		},
	}

	return cfg, nil
}
