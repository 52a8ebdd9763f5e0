package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/samber/lo"
)

var (
	historyDrivers   = []string{"sqlite", "postgres", "none"}
	artifactBackends = []string{"local", "minio"}
)

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > 30*time.Minute {
		return fmt.Errorf("%s timeout too large (max 30 minutes)", name)
	}
	return nil
}

// ValidateConcurrency validates concurrency setting. Zero means unbounded.
func ValidateConcurrency(concurrency int, name string) error {
	if concurrency < 0 {
		return fmt.Errorf("%s concurrency cannot be negative", name)
	}
	if concurrency > 100 {
		return fmt.Errorf("%s concurrency too high (max 100)", name)
	}
	return nil
}

// ValidateURL validates an absolute http(s) URL
func ValidateURL(raw string, name string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s URL is invalid: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s URL must use http or https", name)
	}
	if u.Host == "" {
		return fmt.Errorf("%s URL must include a host", name)
	}
	return nil
}

// Validate checks the whole configuration and fails on the first problem.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server max_upload_mb must be positive")
	}
	if c.Relay.Interpreter == "" {
		return fmt.Errorf("relay interpreter is required")
	}
	if err := ValidateTimeout(c.Relay.Timeout, "relay"); err != nil {
		return err
	}
	if err := ValidateConcurrency(c.Relay.MaxConcurrency, "relay"); err != nil {
		return err
	}
	if c.Relay.QueueTimeout < 0 {
		return fmt.Errorf("relay queue timeout cannot be negative")
	}

	missing := lo.Filter([]lo.Tuple2[string, string]{
		lo.T2("ocr", c.Relay.Scripts.OCR),
		lo.T2("speech", c.Relay.Scripts.Speech),
		lo.T2("nlp", c.Relay.Scripts.NLP),
	}, func(s lo.Tuple2[string, string], _ int) bool { return s.B == "" })
	if len(missing) > 0 {
		return fmt.Errorf("relay script path is required for %s", missing[0].A)
	}

	if c.Paths.UploadDir == "" || c.Paths.AudioDir == "" || c.Paths.SavedTextDir == "" {
		return fmt.Errorf("upload, audio and saved text directories are required")
	}
	if !strings.HasPrefix(c.Paths.AudioURLPrefix, "/") || !strings.HasPrefix(c.Paths.SavedURLPrefix, "/") {
		return fmt.Errorf("URL prefixes must start with /")
	}

	if c.Relay.WaitDelay < 0 {
		return fmt.Errorf("relay wait delay cannot be negative")
	}
	if err := c.validateWriteTimeout(); err != nil {
		return err
	}

	if err := ValidateURL(c.ML.BaseURL, "ml service"); err != nil {
		return err
	}
	if err := ValidateTimeout(c.ML.Timeout, "ml service"); err != nil {
		return err
	}

	if !lo.Contains(historyDrivers, c.History.Driver) {
		return fmt.Errorf("history driver %q is not one of %s", c.History.Driver, strings.Join(historyDrivers, ", "))
	}
	if c.History.Driver != "none" && c.History.DSN == "" {
		return fmt.Errorf("history dsn is required for driver %s", c.History.Driver)
	}

	if !lo.Contains(artifactBackends, c.Artifacts.Backend) {
		return fmt.Errorf("artifact backend %q is not one of %s", c.Artifacts.Backend, strings.Join(artifactBackends, ", "))
	}
	if c.Artifacts.Backend == "minio" {
		m := c.Artifacts.Minio
		if m.Endpoint == "" || m.Bucket == "" {
			return fmt.Errorf("minio endpoint and bucket are required")
		}
	}
	return nil
}

// validateWriteTimeout makes sure the server can still write the response
// once the relay or the ML proxy has an outcome. Zero disables the deadline.
func (c *Config) validateWriteTimeout() error {
	wt := c.Server.WriteTimeout
	if wt == 0 {
		return nil
	}
	if wt < 0 {
		return fmt.Errorf("server write timeout cannot be negative")
	}
	if c.Relay.MaxConcurrency > 0 && c.Relay.QueueTimeout == 0 {
		return fmt.Errorf("relay queue timeout is required when server write timeout is set")
	}
	if budget := c.RelayBudget(); wt <= budget {
		return fmt.Errorf("server write timeout %s must exceed the relay budget %s (queue + timeout + wait delay)", wt, budget)
	}
	if wt <= c.ML.Timeout {
		return fmt.Errorf("server write timeout %s must exceed the ml service timeout %s", wt, c.ML.Timeout)
	}
	return nil
}
