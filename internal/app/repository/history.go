package repository

import (
	"context"

	"adaptive-reader/internal/app/model"
)

// DefaultListLimit is used when List is called with a non-positive limit.
const DefaultListLimit = 50

// HistoryStore keeps relay invocation records.
type HistoryStore interface {
	// Record inserts rec and fills in its ID.
	Record(ctx context.Context, rec *model.InvocationRecord) error
	// List returns the newest records first. An empty endpoint matches all.
	List(ctx context.Context, endpoint string, limit int) ([]model.InvocationRecord, error)
	Close() error
}

// NopStore discards records. It backs the "none" history driver.
type NopStore struct{}

func (NopStore) Record(context.Context, *model.InvocationRecord) error { return nil }

func (NopStore) List(context.Context, string, int) ([]model.InvocationRecord, error) {
	return []model.InvocationRecord{}, nil
}

func (NopStore) Close() error { return nil }
