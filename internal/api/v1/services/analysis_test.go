package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apierrors "adaptive-reader/internal/api/errors"
	"adaptive-reader/internal/api/v1/dto"
	"adaptive-reader/internal/config"
)

func TestArtifactName(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 4, 5, 123000000, time.UTC)

	tests := []struct {
		source string
		want   string
	}{
		{"", "text_2025-03-01T10-04-05-123Z.txt"},
		{"ocr", "ocr_2025-03-01T10-04-05-123Z.txt"},
		{"Chapter 1: Cats!", "Chapter_1__Cats__2025-03-01T10-04-05-123Z.txt"},
		{"../etc/passwd", "___etc_passwd_2025-03-01T10-04-05-123Z.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ArtifactName(tt.source, at))
		})
	}

	local := time.Date(2025, 3, 1, 12, 4, 5, 0, time.FixedZone("CEST", 2*3600))
	assert.Equal(t, "text_2025-03-01T10-04-05-000Z.txt", ArtifactName("", local))
}

func newMLServer(t *testing.T, status int, body string) (*httptest.Server, *[]string) {
	t.Helper()
	var received []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, analyzeContentPath, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		text, _ := req["text"].(string)
		received = append(received, text)
		assert.NotContains(t, req, "saveToFile")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &received
}

func newAnalysis(baseURL, dir string) *AnalysisServiceImpl {
	svc := NewAnalysisService(
		config.MLConfig{BaseURL: baseURL + "/", Timeout: 5 * time.Second},
		NewLocalArtifactStore(dir, "/uploads"),
		zap.NewNop(),
	).(*AnalysisServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestAnalysisService_Analyze(t *testing.T) {
	t.Run("relays response verbatim", func(t *testing.T) {
		srv, received := newMLServer(t, http.StatusOK, `{"difficulty":0.42,"keywords":["cat"]}`)
		dir := t.TempDir()

		got, err := newAnalysis(srv.URL, dir).Analyze(context.Background(), &dto.AnalyzeRequest{Text: "The cat sat."})
		require.NoError(t, err)

		obj := got.(map[string]any)
		assert.Equal(t, json.Number("0.42"), obj["difficulty"])
		assert.NotContains(t, obj, "savedFile")
		assert.Equal(t, []string{"The cat sat."}, *received)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("saves text when asked", func(t *testing.T) {
		srv, _ := newMLServer(t, http.StatusOK, `{"difficulty":0.42}`)
		dir := t.TempDir()

		got, err := newAnalysis(srv.URL, dir).Analyze(context.Background(), &dto.AnalyzeRequest{
			Text: "The cat sat.", Source: "ocr scan", SaveToFile: true,
		})
		require.NoError(t, err)

		obj := got.(map[string]any)
		assert.Equal(t, "ocr_scan_2025-03-01T10-00-00-000Z.txt", obj["savedFile"])
		savedPath := obj["savedPath"].(string)
		assert.True(t, filepath.IsAbs(savedPath))

		data, err := os.ReadFile(savedPath)
		require.NoError(t, err)
		assert.Equal(t, "The cat sat.", string(data))
	})

	t.Run("non object response keeps shape", func(t *testing.T) {
		srv, _ := newMLServer(t, http.StatusOK, `["a","b"]`)

		got, err := newAnalysis(srv.URL, t.TempDir()).Analyze(context.Background(), &dto.AnalyzeRequest{Text: "x", SaveToFile: true})
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b"}, got)
	})

	upstreamFailures := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"detail":"model not loaded"}`},
		{"not json", http.StatusOK, `<html>`},
	}
	for _, tt := range upstreamFailures {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newMLServer(t, tt.status, tt.body)

			got, err := newAnalysis(srv.URL, t.TempDir()).Analyze(context.Background(), &dto.AnalyzeRequest{Text: "x"})
			assert.Nil(t, got)
			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, apierrors.KindUpstream, apiErr.Kind)
			assert.Equal(t, upstreamFailure, apiErr.Message)
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := newAnalysis(url, t.TempDir()).Analyze(context.Background(), &dto.AnalyzeRequest{Text: "x"})
		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 500, apiErr.HTTPStatus())
	})
}

func TestLocalArtifactStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store := NewLocalArtifactStore(dir, "/uploads")

	artifact, err := store.Save(context.Background(), "../escape.txt", []byte("hello"), "text/plain")
	require.NoError(t, err)

	assert.Equal(t, "escape.txt", artifact.Name)
	assert.Equal(t, "/uploads/escape.txt", artifact.URL)
	assert.Equal(t, int64(5), artifact.Size)
	assert.Equal(t, dir, filepath.Dir(artifact.Path))
}

func TestMinioArtifactStore_ObjectURL(t *testing.T) {
	plain := &MinioArtifactStore{bucket: "reading-assistant", endpoint: "localhost:9000"}
	assert.Equal(t, "http://localhost:9000/reading-assistant/texts/a.txt", plain.ObjectURL("texts/a.txt"))

	secure := &MinioArtifactStore{bucket: "b", endpoint: "s3.example.com", useSSL: true}
	assert.Equal(t, "https://s3.example.com/b/k", secure.ObjectURL("k"))
}

func TestNewArtifactStore(t *testing.T) {
	store, err := NewArtifactStore(context.Background(), config.ArtifactsConfig{Backend: "local"}, config.PathsConfig{SavedTextDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalArtifactStore{}, store)

	_, err = NewArtifactStore(context.Background(), config.ArtifactsConfig{Backend: "s3"}, config.PathsConfig{})
	assert.Error(t, err)
}
