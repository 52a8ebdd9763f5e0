//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"adaptive-reader/internal/api/server"
	"adaptive-reader/internal/app/repository"
	"adaptive-reader/internal/config"
)

// InitializeServer builds the HTTP backend. The cleanup func releases the
// history store.
func InitializeServer(cfg *config.Config, logger *zap.Logger) (*server.Server, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}

// InitializeHistoryStore opens the history store alone, for offline commands
func InitializeHistoryStore(cfg *config.Config, logger *zap.Logger) (repository.HistoryStore, func(), error) {
	wire.Build(provideHistoryStore)
	return nil, nil, nil
}
