package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultNamespace = "observability"

type Config struct {
	Port            int           `env:"PORT" default:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" default:"25s"`

	LogLevel  string `env:"LOG_LEVEL" default:"warn"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// K8sTimeout bounds each API call; zero leaves calls unbounded
	K8sTimeout time.Duration `env:"K8S_TIMEOUT" default:"0s"`
	Kubeconfig string        `env:"KUBECONFIG" default:""`
	Context    string        `env:"KUBE_CONTEXT" default:""`

	Namespace    string `env:"-" default:"observability"`
	OutputFormat string `env:"-" default:"table"`

	CompoundPrefixes   []string `env:"ANALYZER_COMPOUND_PREFIXES" default:"mimir"`
	ExcludedContainers []string `env:"ANALYZER_EXCLUDED_CONTAINERS" default:""`
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnvAsInt("PORT", 8080),
		ReadTimeout:        getEnvAsDuration("READ_TIMEOUT", 10*time.Second),
		WriteTimeout:       getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
		ShutdownTimeout:    getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		RequestTimeout:     getEnvAsDuration("REQUEST_TIMEOUT", 25*time.Second),
		LogLevel:           getEnv("LOG_LEVEL", "warn"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		K8sTimeout:         getEnvAsDuration("K8S_TIMEOUT", 0),
		Kubeconfig:         getEnv("KUBECONFIG", ""),
		Context:            getEnv("KUBE_CONTEXT", ""),
		Namespace:          DefaultNamespace,
		OutputFormat:       "table",
		CompoundPrefixes:   getEnvAsList("ANALYZER_COMPOUND_PREFIXES", []string{"mimir"}),
		ExcludedContainers: getEnvAsList("ANALYZER_EXCLUDED_CONTAINERS", nil),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if c.LogLevel != "debug" && c.LogLevel != "info" &&
		c.LogLevel != "warn" && c.LogLevel != "error" {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("invalid log format: %s", c.LogFormat)
	}

	if c.OutputFormat != "table" && c.OutputFormat != "json" && c.OutputFormat != "yaml" {
		return fmt.Errorf("invalid output format: %s (must be table, json or yaml)", c.OutputFormat)
	}

	if c.Namespace == "" {
		return fmt.Errorf("namespace must not be empty")
	}

	if c.K8sTimeout < 0 {
		return fmt.Errorf("invalid k8s timeout: %s", c.K8sTimeout)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
