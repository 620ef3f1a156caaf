package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
service_name = "ecommerce"
environment = "staging"

[http]
port = 8181

[database]
driver = "sqlite"
dsn = "file::memory:"
auto_migrate = true

[kafka]
enabled = true
brokers = ["localhost:9092"]

[rate_limit]
enabled = true
qps = 5
burst = 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ecommerce", cfg.ServiceName)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 8181, cfg.HTTP.Port)
	assert.Equal(t, 30, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "ecommerce.", cfg.Kafka.TopicPrefix)
	assert.Equal(t, RateLimitConfig{Enabled: true, QPS: 5, Burst: 10}, cfg.RateLimit)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "products", cfg.Media.Folder)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, `
[database]
driver = "sqlite"
dsn = "file::memory:"
`)
	t.Setenv("APP_HTTP_PORT", "9999")
	t.Setenv("APP_DATABASE_DSN", "file:override.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.HTTP.Port)
	assert.Equal(t, "file:override.db", cfg.Database.DSN)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadWithDefaultsRequiresDSN(t *testing.T) {
	_, err := LoadWithDefaults(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database DSN is required")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			ServiceName: "ecommerce",
			HTTP:        HTTPConfig{Port: 8080},
			Database:    DatabaseConfig{Driver: "mysql", DSN: "dsn"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"no service name", func(c *Config) { c.ServiceName = "" }, "service_name"},
		{"bad http port", func(c *Config) { c.HTTP.Port = 70000 }, "invalid HTTP port"},
		{"bad grpc port", func(c *Config) { c.GRPC = GRPCConfig{Enabled: true} }, "invalid gRPC port"},
		{"bad driver", func(c *Config) { c.Database.Driver = "oracle" }, "unsupported database driver"},
		{"kafka without brokers", func(c *Config) { c.Kafka.Enabled = true }, "kafka brokers"},
		{"rate limit without qps", func(c *Config) { c.RateLimit.Enabled = true }, "rate_limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "dev", cfg.Environment)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
