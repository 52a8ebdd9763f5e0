// Package flags holds the persistent root flags shared by every subcommand.
package flags

import (
	"fmt"

	"go.uber.org/zap"

	"adaptive-reader/internal/config"
	"adaptive-reader/internal/logging"
)

var (
	ConfigPath string
	Verbose    bool
)

// Load reads the configuration and builds the logger it asks for.
// --verbose forces debug level.
// A .env file in the working directory is applied first; variables already
// set in the environment win over it.
func Load() (*config.Config, *zap.Logger, error) {
	envFile, envErr := config.LoadEnv()

	cfg, err := config.Load(ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Logging.Level
	if Verbose {
		level = "debug"
	}
	logger, err := logging.NewLogger(cfg.Logging.Development, level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	switch {
	case envErr != nil:
		logger.Warn("Ignoring unreadable env file", zap.Error(envErr))
	case envFile != "":
		logger.Info("Loaded env file", zap.String("path", envFile))
	default:
		logger.Debug("No env file found, using system environment")
	}
	return cfg, logger, nil
}
