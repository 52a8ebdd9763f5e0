package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "python", cfg.Relay.Interpreter)
	assert.Equal(t, 30*time.Second, cfg.Relay.Timeout)
	assert.Equal(t, "http://localhost:5050", cfg.ML.BaseURL)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 62*time.Second, cfg.RelayBudget())
	assert.Greater(t, cfg.Server.WriteTimeout, cfg.RelayBudget())
}

func TestRelayBudget_UnboundedSkipsQueue(t *testing.T) {
	cfg := Default()
	cfg.Relay.MaxConcurrency = 0
	assert.Equal(t, 32*time.Second, cfg.RelayBudget())
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reader.yaml")
	content := `
server:
  port: "6000"
  environment: production
relay:
  interpreter: /usr/bin/python3
  timeout: 35s
  max_concurrency: 2
  scripts:
    ocr: /srv/ml/ocr/process_text.py
history:
  driver: postgres
  dsn: postgres://reader@localhost/reader?sslmode=disable
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "6000", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "/usr/bin/python3", cfg.Relay.Interpreter)
	assert.Equal(t, 35*time.Second, cfg.Relay.Timeout)
	assert.Equal(t, 2, cfg.Relay.MaxConcurrency)
	assert.Equal(t, "/srv/ml/ocr/process_text.py", cfg.Relay.Scripts.OCR)
	// untouched keys keep their defaults
	assert.Equal(t, "../ml/speech/recognition.py", cfg.Relay.Scripts.Speech)
	assert.Equal(t, "postgres", cfg.History.Driver)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reader.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"6000\"\n"), 0o644))
	t.Setenv("PORT", "7000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Server.Port)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name          string
		mutate        func(*Config)
		errorContains string
	}{
		{"empty interpreter", func(c *Config) { c.Relay.Interpreter = "" }, "interpreter is required"},
		{"zero timeout", func(c *Config) { c.Relay.Timeout = 0 }, "timeout must be positive"},
		{"negative concurrency", func(c *Config) { c.Relay.MaxConcurrency = -1 }, "cannot be negative"},
		{"missing speech script", func(c *Config) { c.Relay.Scripts.Speech = "" }, "required for speech"},
		{"relative audio prefix", func(c *Config) { c.Paths.AudioURLPrefix = "audio" }, "must start with /"},
		{"bad ml url", func(c *Config) { c.ML.BaseURL = "localhost:5050" }, "http or https"},
		{"unknown history driver", func(c *Config) { c.History.Driver = "mongo" }, "history driver"},
		{"sqlite without dsn", func(c *Config) { c.History.DSN = "" }, "dsn is required"},
		{"unknown artifact backend", func(c *Config) { c.Artifacts.Backend = "s3" }, "artifact backend"},
		{"minio without bucket", func(c *Config) {
			c.Artifacts.Backend = "minio"
			c.Artifacts.Minio.Bucket = ""
		}, "bucket are required"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errorContains)
		})
	}

	t.Run("write timeout below relay budget", func(t *testing.T) {
		cfg := Default()
		cfg.Server.WriteTimeout = time.Second
		cfg.Relay.Timeout = time.Second
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must exceed the relay budget")
	})

	t.Run("write timeout equal to relay budget", func(t *testing.T) {
		cfg := Default()
		cfg.Server.WriteTimeout = cfg.RelayBudget()
		assert.Error(t, cfg.Validate())
	})

	t.Run("write timeout below ml timeout", func(t *testing.T) {
		cfg := Default()
		cfg.ML.Timeout = 2 * time.Minute
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ml service timeout")
	})

	t.Run("bounded queue without queue timeout", func(t *testing.T) {
		cfg := Default()
		cfg.Relay.QueueTimeout = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "queue timeout is required")
	})

	t.Run("no write deadline", func(t *testing.T) {
		cfg := Default()
		cfg.Server.WriteTimeout = 0
		cfg.Relay.QueueTimeout = 0
		assert.NoError(t, cfg.Validate())
	})

	t.Run("history disabled needs no dsn", func(t *testing.T) {
		cfg := Default()
		cfg.History.Driver = "none"
		cfg.History.DSN = ""
		assert.NoError(t, cfg.Validate())
	})
}
