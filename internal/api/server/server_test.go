package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"adaptive-reader/internal/api/upload"
	v1routes "adaptive-reader/internal/api/v1/routes"
	"adaptive-reader/internal/api/v1/services"
	"adaptive-reader/internal/app/testutil"
	"adaptive-reader/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()

	cfg := config.Default()
	cfg.Server.Environment = "production"
	cfg.Paths.UploadDir = filepath.Join(root, "audio_temp", "uploads")
	cfg.Paths.AudioDir = filepath.Join(root, "audio_temp")
	cfg.Paths.SavedTextDir = filepath.Join(root, "uploads")

	mocks := testutil.NewMockServices(t)
	container := &v1routes.ServiceContainer{
		ProcessingService: mocks.ProcessingService,
		AnalysisService:   mocks.AnalysisService,
		HistoryService:    mocks.HistoryService,
		ContentService:    services.NewContentService(),
		Uploads:           upload.NewSaver(cfg.Paths.UploadDir),
	}
	return NewServer(cfg, container, prometheus.NewRegistry(), zap.NewNop())
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServer_SwaggerDocs(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/swagger/doc.json")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "/api", doc.BasePath)
	for _, path := range []string{"/ocr/upload", "/speech/tts", "/speech/stt", "/nlp/analyze", "/ml/analyze", "/relay/history"} {
		assert.Contains(t, doc.Paths, path)
	}

	assert.Equal(t, http.StatusOK, get(s, "/docs/index.html").Code)
}

func TestServer_UnknownRoute(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/api/speech/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body["kind"])
	assert.Equal(t, false, body["success"])
}

func TestServer_HealthAndWelcome(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, get(s, "/health").Code)

	rec := get(s, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Adaptive Reading Assistant")
}
