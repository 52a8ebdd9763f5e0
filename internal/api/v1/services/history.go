package services

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"adaptive-reader/internal/api/errors"
	"adaptive-reader/internal/api/v1/dto"
	"adaptive-reader/internal/app/model"
	"adaptive-reader/internal/app/repository"
	"adaptive-reader/internal/relay"
)

const recordTimeout = 5 * time.Second

// HistoryServiceImpl implements HistoryService
type HistoryServiceImpl struct {
	store  repository.HistoryStore
	logger *zap.Logger
}

// NewHistoryService creates a new history service
func NewHistoryService(store repository.HistoryStore, logger *zap.Logger) HistoryService {
	return &HistoryServiceImpl{
		store:  store,
		logger: logger,
	}
}

// Record stores the outcome. The write outlives a canceled request.
func (s *HistoryServiceImpl) Record(ctx context.Context, endpoint string, out relay.Outcome, apiErr *errors.APIError) {
	rec := NewInvocationRecord(endpoint, out, apiErr)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if err := s.store.Record(ctx, rec); err != nil {
		s.logger.Warn("Failed to record relay invocation",
			zap.String("endpoint", endpoint),
			zap.String("outcome", rec.Outcome),
			zap.Error(err),
		)
	}
}

// List returns recorded invocations, newest first
func (s *HistoryServiceImpl) List(ctx context.Context, query dto.HistoryQuery) (*dto.HistoryResponse, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = repository.DefaultListLimit
	}

	records, err := s.store.List(ctx, query.Endpoint, limit)
	if err != nil {
		s.logger.Error("Failed to list relay history", zap.Error(err))
		return nil, errors.NewInternalError("Failed to load relay history")
	}

	return &dto.HistoryResponse{
		Records: records,
		Count:   len(records),
	}, nil
}

// NewInvocationRecord converts a relay outcome and the error sent to the
// client into a history record
func NewInvocationRecord(endpoint string, out relay.Outcome, apiErr *errors.APIError) *model.InvocationRecord {
	rec := &model.InvocationRecord{
		Endpoint:   endpoint,
		Outcome:    out.Label(),
		Status:     http.StatusOK,
		DurationMs: out.Elapsed.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if out.Process != nil {
		rec.ExitCode = out.Process.ExitCode
	}

	if apiErr != nil {
		rec.Status = apiErr.HTTPStatus()
		rec.ErrorDetail = apiErr.Message
		if apiErr.Details != "" {
			rec.ErrorDetail = apiErr.Details
		}
		if out.Err == nil {
			rec.Outcome = string(apiErr.Kind)
		}
	}
	return rec
}
