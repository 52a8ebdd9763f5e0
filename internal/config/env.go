package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// envPaths are searched in order; the first existing file wins.
var envPaths = []string{
	".env",
	".env.local",
	"../.env",
}

// LoadEnv loads environment variables from the first .env file found.
// A missing file is not an error: variables may be set system-wide.
// It returns the path that was loaded, or "" when none was found.
func LoadEnv() (string, error) {
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}
	return "", nil
}

// applyEnv overrides cfg with environment variables that are set.
func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.Host, "READER_HOST")
	setString(&cfg.Server.Environment, "READER_ENV")

	setString(&cfg.Relay.Interpreter, "READER_PYTHON")
	setString(&cfg.Relay.Scripts.OCR, "READER_OCR_SCRIPT")
	setString(&cfg.Relay.Scripts.Speech, "READER_SPEECH_SCRIPT")
	setString(&cfg.Relay.Scripts.NLP, "READER_NLP_SCRIPT")
	if err := setDuration(&cfg.Relay.Timeout, "READER_RELAY_TIMEOUT"); err != nil {
		return err
	}
	if err := setInt(&cfg.Relay.MaxConcurrency, "READER_MAX_CONCURRENCY"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Relay.QueueTimeout, "READER_QUEUE_TIMEOUT"); err != nil {
		return err
	}

	setString(&cfg.Paths.UploadDir, "READER_UPLOAD_DIR")
	setString(&cfg.Paths.AudioDir, "READER_AUDIO_DIR")
	setString(&cfg.Paths.SavedTextDir, "READER_SAVED_TEXT_DIR")

	setString(&cfg.ML.BaseURL, "ML_SERVICE_URL")

	setString(&cfg.History.Driver, "READER_HISTORY_DRIVER")
	setString(&cfg.History.DSN, "READER_HISTORY_DSN")

	setString(&cfg.Artifacts.Backend, "READER_ARTIFACT_BACKEND")
	setString(&cfg.Artifacts.Minio.Endpoint, "MINIO_ENDPOINT")
	setString(&cfg.Artifacts.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&cfg.Artifacts.Minio.SecretKey, "MINIO_SECRET_KEY")
	setString(&cfg.Artifacts.Minio.Bucket, "MINIO_BUCKET")
	if v, ok := lookup("MINIO_USE_SSL"); ok {
		cfg.Artifacts.Minio.UseSSL = v == "true"
	}

	setString(&cfg.Logging.Level, "READER_LOG_LEVEL")
	if v, ok := lookup("READER_LOG_DEVELOPMENT"); ok {
		cfg.Logging.Development = v == "true"
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
