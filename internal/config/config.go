package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete backend configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Relay     RelayConfig     `yaml:"relay"`
	Paths     PathsConfig     `yaml:"paths"`
	ML        MLConfig        `yaml:"ml"`
	History   HistoryConfig   `yaml:"history"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	Environment     string        `yaml:"environment"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxUploadMB     int64         `yaml:"max_upload_mb"`
}

// RelayConfig controls external script invocation
type RelayConfig struct {
	Interpreter    string        `yaml:"interpreter"`
	Timeout        time.Duration `yaml:"timeout"`
	WaitDelay      time.Duration `yaml:"wait_delay"`
	MaxConcurrency int           `yaml:"max_concurrency"`
	QueueTimeout   time.Duration `yaml:"queue_timeout"`
	Scripts        ScriptsConfig `yaml:"scripts"`
}

// ScriptsConfig points at the external scripts, one per capability
type ScriptsConfig struct {
	OCR    string `yaml:"ocr"`
	Speech string `yaml:"speech"`
	NLP    string `yaml:"nlp"`
}

// PathsConfig holds on-disk locations and their public URL prefixes
type PathsConfig struct {
	UploadDir      string `yaml:"upload_dir"`
	AudioDir       string `yaml:"audio_dir"`
	AudioURLPrefix string `yaml:"audio_url_prefix"`
	SavedTextDir   string `yaml:"saved_text_dir"`
	SavedURLPrefix string `yaml:"saved_url_prefix"`
}

// MLConfig points at the sibling ML HTTP service
type MLConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// HistoryConfig selects the invocation history backend
type HistoryConfig struct {
	// Driver is one of sqlite, postgres, none
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// ArtifactsConfig selects where saved analysis texts go
type ArtifactsConfig struct {
	// Backend is one of local, minio
	Backend string      `yaml:"backend"`
	Minio   MinioConfig `yaml:"minio"`
}

// MinioConfig holds MinIO connection settings
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// LoggingConfig controls the zap logger
type LoggingConfig struct {
	Development bool   `yaml:"development"`
	Level       string `yaml:"level"`
}

// Default returns the configuration used when no file or environment overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "5000",
			Environment:     "development",
			ReadTimeout:     60 * time.Second,
			WriteTimeout:    90 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 35 * time.Second,
			MaxUploadMB:     25,
		},
		Relay: RelayConfig{
			Interpreter:    "python",
			Timeout:        30 * time.Second,
			WaitDelay:      2 * time.Second,
			MaxConcurrency: 8,
			QueueTimeout:   30 * time.Second,
			Scripts: ScriptsConfig{
				OCR:    "../ml/ocr/process_text.py",
				Speech: "../ml/speech/recognition.py",
				NLP:    "../ml/nlp/reading_analysis.py",
			},
		},
		Paths: PathsConfig{
			UploadDir:      "audio_temp/uploads",
			AudioDir:       "audio_temp",
			AudioURLPrefix: "/audio",
			SavedTextDir:   "uploads",
			SavedURLPrefix: "/uploads",
		},
		ML: MLConfig{
			BaseURL: "http://localhost:5050",
			Timeout: 30 * time.Second,
		},
		History: HistoryConfig{
			Driver: "sqlite",
			DSN:    "data/relay_history.db",
		},
		Artifacts: ArtifactsConfig{
			Backend: "local",
			Minio: MinioConfig{
				Endpoint:  "localhost:9000",
				AccessKey: "minioadmin",
				SecretKey: "minioadmin",
				Bucket:    "reading-assistant",
			},
		},
		Logging: LoggingConfig{
			Development: true,
			Level:       "info",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RelayBudget is the longest a relayed request can take before its outcome
// is known: queue wait, process budget and pipe draining.
func (c *Config) RelayBudget() time.Duration {
	budget := c.Relay.Timeout + c.Relay.WaitDelay
	if c.Relay.MaxConcurrency > 0 {
		budget += c.Relay.QueueTimeout
	}
	return budget
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
