package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "LOG_FORMAT", "K8S_TIMEOUT", "KUBECONFIG", "KUBE_CONTEXT",
		"ANALYZER_COMPOUND_PREFIXES", "ANALYZER_EXCLUDED_CONTAINERS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, time.Duration(0), cfg.K8sTimeout)
	assert.Equal(t, DefaultNamespace, cfg.Namespace)
	assert.Equal(t, "table", cfg.OutputFormat)
	assert.Equal(t, []string{"mimir"}, cfg.CompoundPrefixes)
	assert.Empty(t, cfg.ExcludedContainers)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("K8S_TIMEOUT", "15s")
	t.Setenv("ANALYZER_COMPOUND_PREFIXES", "mimir, loki,,tempo")
	t.Setenv("ANALYZER_EXCLUDED_CONTAINERS", "istio-proxy")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 15*time.Second, cfg.K8sTimeout)
	assert.Equal(t, []string{"mimir", "loki", "tempo"}, cfg.CompoundPrefixes)
	assert.Equal(t, []string{"istio-proxy"}, cfg.ExcludedContainers)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:         8080,
			LogLevel:     "info",
			LogFormat:    "text",
			Namespace:    "default",
			OutputFormat: "table",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "json output", mutate: func(c *Config) { c.OutputFormat = "json" }},
		{name: "bad port", mutate: func(c *Config) { c.Port = 0 }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: true},
		{name: "bad output format", mutate: func(c *Config) { c.OutputFormat = "csv" }, wantErr: true},
		{name: "empty namespace", mutate: func(c *Config) { c.Namespace = "" }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.K8sTimeout = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
