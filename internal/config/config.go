package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultDatasetURL points at the Palmer Station penguin observations.
const DefaultDatasetURL = "https://raw.githubusercontent.com/mwaskom/seaborn-data/master/penguins.csv"

type Config struct {
	// HTTP
	HTTPAddr string `yaml:"http_addr"`

	// Synthetic feed
	UpdateInterval time.Duration `yaml:"update_interval"`
	WindowSize     int           `yaml:"window_size"`
	TempMin        float64       `yaml:"temp_min"`
	TempMax        float64       `yaml:"temp_max"`
	Seed           uint64        `yaml:"seed"`

	// Remote dataset
	DatasetURL       string        `yaml:"dataset_url"`
	DatasetUserAgent string        `yaml:"dataset_user_agent"`
	FetchTimeout     time.Duration `yaml:"fetch_timeout"`

	// Optional sinks, disabled when empty
	RedisAddr    string `yaml:"redis_addr"`
	MQTTBroker   string `yaml:"mqtt_broker"`
	MQTTClientID string `yaml:"mqtt_client_id"`
	MQTTTopic    string `yaml:"mqtt_topic"`

	// Logging
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

func Default() *Config {
	return &Config{
		HTTPAddr:         ":8080",
		UpdateInterval:   3 * time.Second,
		WindowSize:       3,
		TempMin:          -40,
		TempMax:          -20,
		DatasetURL:       DefaultDatasetURL,
		DatasetUserAgent: "Mozilla/5.0 (compatible; antarctic-dashboard/1.0)",
		FetchTimeout:     10 * time.Second,
		MQTTClientID:     "antarctic-dashboard",
		MQTTTopic:        "antarctic/mcmurdo/temperature",
		LogLevel:         "info",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE, then environment variables. A .env file is loaded first if
// present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.HTTPAddr = ":" + port
	}
	c.UpdateInterval = getEnvDuration("UPDATE_INTERVAL", c.UpdateInterval)
	c.WindowSize = getEnvInt("WINDOW_SIZE", c.WindowSize)
	c.TempMin = getEnvFloat("TEMP_MIN", c.TempMin)
	c.TempMax = getEnvFloat("TEMP_MAX", c.TempMax)
	c.Seed = getEnvUint("FEED_SEED", c.Seed)

	c.DatasetURL = getEnv("DATASET_URL", c.DatasetURL)
	c.DatasetUserAgent = getEnv("DATASET_USER_AGENT", c.DatasetUserAgent)
	c.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", c.FetchTimeout)

	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.MQTTBroker = getEnv("MQTT_BROKER", c.MQTTBroker)
	c.MQTTClientID = getEnv("MQTT_CLIENT_ID", c.MQTTClientID)
	c.MQTTTopic = getEnv("MQTT_TOPIC", c.MQTTTopic)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
}

func (c *Config) Validate() error {
	var errs []error
	if c.UpdateInterval <= 0 {
		errs = append(errs, fmt.Errorf("update interval must be positive, got %s", c.UpdateInterval))
	}
	if c.WindowSize < 1 {
		errs = append(errs, fmt.Errorf("window size must be at least 1, got %d", c.WindowSize))
	}
	if c.TempMin > c.TempMax {
		errs = append(errs, fmt.Errorf("temperature range is inverted: [%g, %g]", c.TempMin, c.TempMax))
	}
	if c.DatasetURL == "" {
		errs = append(errs, errors.New("dataset url is required"))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		slog.Warn("failed to parse env var as float, using default", "key", key, "error", err)
		return defaultValue
	}
	return floatValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("failed to parse env var as int, using default", "key", key, "error", err)
		return defaultValue
	}
	return intValue
}

func getEnvUint(key string, defaultValue uint64) uint64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	uintValue, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		slog.Warn("failed to parse env var as uint, using default", "key", key, "error", err)
		return defaultValue
	}
	return uintValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("failed to parse env var as duration, using default", "key", key, "error", err)
		return defaultValue
	}
	return duration
}
