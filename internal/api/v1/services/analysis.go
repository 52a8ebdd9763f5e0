package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"adaptive-reader/internal/api/errors"
	"adaptive-reader/internal/api/v1/dto"
	"adaptive-reader/internal/config"
)

const (
	analyzeContentPath = "/api/v1/analyze-content"
	upstreamFailure    = "Failed to connect to ML service. Make sure the ML service is running."
	// maxUpstreamBody caps how much of an ML response is read.
	maxUpstreamBody = 16 << 20
)

var unsafeSourceChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// AnalysisServiceImpl proxies analysis requests to the ML service
type AnalysisServiceImpl struct {
	baseURL   string
	client    *http.Client
	artifacts ArtifactStore
	logger    *zap.Logger
	now       func() time.Time
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(cfg config.MLConfig, artifacts ArtifactStore, logger *zap.Logger) AnalysisService {
	return &AnalysisServiceImpl{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		client:    &http.Client{Timeout: cfg.Timeout},
		artifacts: artifacts,
		logger:    logger,
		now:       time.Now,
	}
}

// Analyze forwards the text and relays the ML response. When asked, the text
// is also saved as an artifact and the response gains savedFile and savedPath.
func (s *AnalysisServiceImpl) Analyze(ctx context.Context, req *dto.AnalyzeRequest) (any, error) {
	result, err := s.forward(ctx, req.Text)
	if err != nil {
		s.logger.Error("ML service request failed", zap.String("url", s.baseURL+analyzeContentPath), zap.Error(err))
		return nil, errors.NewUpstreamError(upstreamFailure)
	}

	if !req.SaveToFile || req.Text == "" {
		return result, nil
	}

	name := ArtifactName(req.Source, s.now())
	artifact, err := s.artifacts.Save(ctx, name, []byte(req.Text), "text/plain; charset=utf-8")
	if err != nil {
		s.logger.Error("Failed to save analysed text", zap.String("name", name), zap.Error(err))
		return nil, errors.NewInternalError("Failed to save analysed text.")
	}
	s.logger.Info("Text saved", zap.String("path", artifact.Path))

	if obj, ok := result.(map[string]any); ok {
		obj["savedFile"] = artifact.Name
		obj["savedPath"] = artifact.Path
	} else {
		s.logger.Warn("ML response is not an object, saved file not reported", zap.String("name", artifact.Name))
	}
	return result, nil
}

func (s *AnalysisServiceImpl) forward(ctx context.Context, text string) (any, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+analyzeContentPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ML service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	dec := json.NewDecoder(bytes.NewReader(respBody))
	dec.UseNumber()
	var result any
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}

// ArtifactName builds "<source>_<timestamp>.txt". Non alphanumeric source
// characters become underscores; the timestamp is ISO-8601 UTC with ":" and
// "." replaced by "-".
func ArtifactName(source string, at time.Time) string {
	if source == "" {
		source = "text"
	}
	label := unsafeSourceChars.ReplaceAllString(source, "_")
	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(at.UTC().Format("2006-01-02T15:04:05.000Z07:00"))
	return fmt.Sprintf("%s_%s.txt", label, stamp)
}
