package services

import (
	"context"
	"time"

	"adaptive-reader/internal/api/errors"
	"adaptive-reader/internal/api/upload"
	"adaptive-reader/internal/api/v1/dto"
	"adaptive-reader/internal/relay"
)

// Relay endpoint names. They label metrics, logs and history records.
const (
	EndpointOCR = "ocr"
	EndpointTTS = "tts"
	EndpointSTT = "stt"
	EndpointNLP = "nlp"
)

// ProcessingService runs the external OCR, speech and NLP scripts
type ProcessingService interface {
	ExtractText(ctx context.Context, image *upload.File) (any, error)
	Synthesize(ctx context.Context, text string) (*dto.TTSResponse, error)
	Recognize(ctx context.Context, audio *upload.File, word string) (any, error)
	AnalyzeText(ctx context.Context, text string) (any, error)
}

// AnalysisService forwards text to the ML HTTP service
type AnalysisService interface {
	Analyze(ctx context.Context, req *dto.AnalyzeRequest) (any, error)
}

// HistoryService records and lists relay outcomes
type HistoryService interface {
	// Record stores one terminal outcome. apiErr is the error sent to the
	// client, nil on success. Failures to store are logged, not returned.
	Record(ctx context.Context, endpoint string, out relay.Outcome, apiErr *errors.APIError)
	List(ctx context.Context, query dto.HistoryQuery) (*dto.HistoryResponse, error)
}

// ContentService serves the mock dashboard content
type ContentService interface {
	SampleContent() dto.SampleContent
	StudentProfile() dto.StudentProfile
	TeacherDashboard() dto.TeacherDashboard
}

// Executor runs one relay invocation. *relay.Relay satisfies it.
type Executor interface {
	Execute(ctx context.Context, inv relay.Invocation) relay.Outcome
	Timeout() time.Duration
}
