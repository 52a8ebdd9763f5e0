package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"adaptive-reader/internal/api/errors"
	"adaptive-reader/internal/api/middleware"
	"adaptive-reader/internal/api/upload"
	"adaptive-reader/internal/api/v1/dto"
	"adaptive-reader/internal/api/v1/handlers"
	"adaptive-reader/internal/api/v1/routes"
	"adaptive-reader/internal/api/v1/services"
	"adaptive-reader/internal/app/testutil"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *testutil.MockServices) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(zap.NewNop()))

	mockServices := testutil.NewMockServices(t)
	routes.RegisterRoutes(router.Group("/api"), &routes.ServiceContainer{
		ProcessingService: mockServices.ProcessingService,
		AnalysisService:   mockServices.AnalysisService,
		HistoryService:    mockServices.HistoryService,
		ContentService:    services.NewContentService(),
		Uploads:           upload.NewSaver(t.TempDir()),
	})
	return router, mockServices
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestContentHandler(t *testing.T) {
	router, _ := setupTestRouter(t)
	content := handlers.NewContentHandler(services.NewContentService())
	router.GET("/", content.Welcome)

	tests := []struct {
		path     string
		validate func(*testing.T, *httptest.ResponseRecorder)
	}{
		{"/", func(t *testing.T, rec *httptest.ResponseRecorder) {
			assert.Equal(t, "Welcome to the Adaptive Reading Assistant Backend!", rec.Body.String())
		}},
		{"/api/test", func(t *testing.T, rec *httptest.ResponseRecorder) {
			assert.Equal(t, "API is working!", decode(t, rec)["message"])
		}},
		{"/api/content/sample", func(t *testing.T, rec *httptest.ResponseRecorder) {
			body := decode(t, rec)
			assert.Equal(t, "Sample Reading Passage", body["title"])
			assert.Contains(t, body["text"], "dyslexia")
		}},
		{"/api/student-profile", func(t *testing.T, rec *httptest.ResponseRecorder) {
			body := decode(t, rec)
			assert.Equal(t, "Alex Johnson", body["name"])
			assert.Equal(t, 3.5, body["weeklyProgressHours"])
			assert.NotEmpty(t, body["lastLogin"])
		}},
		{"/api/teacher-dashboard", func(t *testing.T, rec *httptest.ResponseRecorder) {
			body := decode(t, rec)
			assert.Equal(t, "Ms. Eleanor Vance", body["teacherName"])
			assert.Len(t, body["alerts"], 2)
			assert.Len(t, body["recentStudents"], 5)
			trends := body["readingTrends"].(map[string]interface{})
			assert.Len(t, trends["labels"], 7)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			tt.validate(t, rec)
		})
	}
}

func TestNLPHandler_AnalyzeRemote(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*testutil.MockServices)
		expectedStatus int
		validateBody   func(*testing.T, map[string]interface{})
	}{
		{
			name: "forwards request",
			body: `{"text":"The cat sat.","source":"ocr","saveToFile":true}`,
			setupMocks: func(ms *testutil.MockServices) {
				ms.AnalysisService.On("Analyze", mock.Anything, &dto.AnalyzeRequest{Text: "The cat sat.", Source: "ocr", SaveToFile: true}).
					Return(map[string]interface{}{"difficulty": 0.3, "savedFile": "ocr_x.txt"}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, 0.3, body["difficulty"])
				assert.Equal(t, "ocr_x.txt", body["savedFile"])
			},
		},
		{
			name:           "missing text",
			body:           `{"source":"ocr"}`,
			setupMocks:     func(ms *testutil.MockServices) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "Missing 'text' field.", body["error"])
				assert.Equal(t, "validation", body["kind"])
			},
		},
		{
			name: "upstream down",
			body: `{"text":"x"}`,
			setupMocks: func(ms *testutil.MockServices) {
				ms.AnalysisService.On("Analyze", mock.Anything, mock.Anything).
					Return(nil, errors.NewUpstreamError("Failed to connect to ML service."))
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, "upstream", body["kind"])
				assert.NotEmpty(t, body["request_id"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, ms := setupTestRouter(t)
			tt.setupMocks(ms)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, jsonRequest("/api/ml/analyze", tt.body))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			tt.validateBody(t, decode(t, rec))
			ms.AssertExpectations(t)
		})
	}
}

func TestNLPHandler_AnalyzeLocal(t *testing.T) {
	router, ms := setupTestRouter(t)
	ms.ProcessingService.On("AnalyzeText", mock.Anything, "The cat sat.").
		Return(map[string]interface{}{"readability": 92}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest("/api/nlp/analyze", `{"text":"The cat sat."}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(92), decode(t, rec)["readability"])
	ms.AssertExpectations(t)
}

func TestSpeechHandler_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"timeout", errors.NewTimeoutError("TTS Timeout"), http.StatusGatewayTimeout},
		{"saturated", errors.NewServiceUnavailableError("TTS is busy, try again later."), http.StatusServiceUnavailable},
		{"spawn", errors.NewProcessSpawnError("Failed to start TTS script.", "not found"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, ms := setupTestRouter(t)
			ms.ProcessingService.On("Synthesize", mock.Anything, "hello").Return(nil, tt.err)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, jsonRequest("/api/speech/tts", `{"text":"hello"}`))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, false, decode(t, rec)["success"])
		})
	}
}

func TestHistoryHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMocks     func(*testutil.MockServices)
		expectedStatus int
	}{
		{
			name:  "defaults",
			query: "",
			setupMocks: func(ms *testutil.MockServices) {
				records := testutil.InvocationRecords()
				ms.HistoryService.On("List", mock.Anything, dto.HistoryQuery{}).
					Return(&dto.HistoryResponse{Records: records, Count: len(records)}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "filtered",
			query: "?endpoint=ocr&limit=10",
			setupMocks: func(ms *testutil.MockServices) {
				ms.HistoryService.On("List", mock.Anything, dto.HistoryQuery{Endpoint: "ocr", Limit: 10}).
					Return(&dto.HistoryResponse{Records: testutil.InvocationRecords()[:1], Count: 1}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown endpoint",
			query:          "?endpoint=ftp",
			setupMocks:     func(ms *testutil.MockServices) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "limit too large",
			query:          "?limit=501",
			setupMocks:     func(ms *testutil.MockServices) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "limit not a number",
			query:          "?limit=all",
			setupMocks:     func(ms *testutil.MockServices) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, ms := setupTestRouter(t)
			tt.setupMocks(ms)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/relay/history"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			ms.AssertExpectations(t)
		})
	}
}
