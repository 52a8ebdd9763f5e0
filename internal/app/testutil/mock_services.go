package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"adaptive-reader/internal/api/errors"
	"adaptive-reader/internal/api/upload"
	"adaptive-reader/internal/api/v1/dto"
	"adaptive-reader/internal/app/model"
	"adaptive-reader/internal/relay"
)

// MockServices contains all mock services for testing
type MockServices struct {
	ProcessingService *MockProcessingService
	AnalysisService   *MockAnalysisService
	HistoryService    *MockHistoryService
}

// NewMockServices creates a new instance of mock services
func NewMockServices(t *testing.T) *MockServices {
	return &MockServices{
		ProcessingService: NewMockProcessingService(t),
		AnalysisService:   NewMockAnalysisService(t),
		HistoryService:    NewMockHistoryService(t),
	}
}

// AssertExpectations asserts expectations on every mock
func (ms *MockServices) AssertExpectations(t *testing.T) {
	ms.ProcessingService.AssertExpectations(t)
	ms.AnalysisService.AssertExpectations(t)
	ms.HistoryService.AssertExpectations(t)
}

// MockProcessingService is a mock implementation of ProcessingService
type MockProcessingService struct {
	mock.Mock
}

func NewMockProcessingService(t *testing.T) *MockProcessingService {
	m := &MockProcessingService{}
	m.Test(t)
	return m
}

func (m *MockProcessingService) ExtractText(ctx context.Context, image *upload.File) (any, error) {
	args := m.Called(ctx, image)
	return args.Get(0), args.Error(1)
}

func (m *MockProcessingService) Synthesize(ctx context.Context, text string) (*dto.TTSResponse, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TTSResponse), args.Error(1)
}

func (m *MockProcessingService) Recognize(ctx context.Context, audio *upload.File, word string) (any, error) {
	args := m.Called(ctx, audio, word)
	return args.Get(0), args.Error(1)
}

func (m *MockProcessingService) AnalyzeText(ctx context.Context, text string) (any, error) {
	args := m.Called(ctx, text)
	return args.Get(0), args.Error(1)
}

// MockAnalysisService is a mock implementation of AnalysisService
type MockAnalysisService struct {
	mock.Mock
}

func NewMockAnalysisService(t *testing.T) *MockAnalysisService {
	m := &MockAnalysisService{}
	m.Test(t)
	return m
}

func (m *MockAnalysisService) Analyze(ctx context.Context, req *dto.AnalyzeRequest) (any, error) {
	args := m.Called(ctx, req)
	return args.Get(0), args.Error(1)
}

// MockHistoryService is a mock implementation of HistoryService
type MockHistoryService struct {
	mock.Mock
}

func NewMockHistoryService(t *testing.T) *MockHistoryService {
	m := &MockHistoryService{}
	m.Test(t)
	return m
}

func (m *MockHistoryService) Record(ctx context.Context, endpoint string, out relay.Outcome, apiErr *errors.APIError) {
	m.Called(ctx, endpoint, out, apiErr)
}

func (m *MockHistoryService) List(ctx context.Context, query dto.HistoryQuery) (*dto.HistoryResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.HistoryResponse), args.Error(1)
}

// InvocationRecords returns a fixed set of history records, newest first
func InvocationRecords() []model.InvocationRecord {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return []model.InvocationRecord{
		{ID: 4, Endpoint: "ocr", Outcome: "timeout", Status: 504, ExitCode: -1, DurationMs: 30001, ErrorDetail: "OCR Timeout: script took too long (>30s).", CreatedAt: base.Add(3 * time.Minute)},
		{ID: 3, Endpoint: "stt", Outcome: "parse", Status: 500, DurationMs: 812, ErrorDetail: "Failed to parse STT results.", CreatedAt: base.Add(2 * time.Minute)},
		{ID: 2, Endpoint: "tts", Outcome: "exit", Status: 500, ExitCode: 1, DurationMs: 95, ErrorDetail: "boom", CreatedAt: base.Add(time.Minute)},
		{ID: 1, Endpoint: "ocr", Outcome: "success", Status: 200, DurationMs: 1432, CreatedAt: base},
	}
}
