package routes

import (
	"github.com/gin-gonic/gin"

	"adaptive-reader/internal/api/upload"
	"adaptive-reader/internal/api/v1/handlers"
	"adaptive-reader/internal/api/v1/services"
)

// RegisterRoutes registers all API routes under router, which is mounted at /api
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	contentHandler := handlers.NewContentHandler(container.ContentService)
	router.GET("/test", contentHandler.Ping)
	router.GET("/content/sample", contentHandler.Sample)
	router.GET("/student-profile", contentHandler.StudentProfile)
	router.GET("/teacher-dashboard", contentHandler.TeacherDashboard)

	// Relay routes
	ocrHandler := handlers.NewOCRHandler(container.ProcessingService, container.Uploads)
	router.POST("/ocr/upload", ocrHandler.Upload)

	speechHandler := handlers.NewSpeechHandler(container.ProcessingService, container.Uploads)
	speech := router.Group("/speech")
	{
		speech.POST("/tts", speechHandler.TextToSpeech)
		speech.POST("/stt", speechHandler.SpeechToText)
	}

	nlpHandler := handlers.NewNLPHandler(container.ProcessingService, container.AnalysisService)
	router.POST("/nlp/analyze", nlpHandler.Analyze)
	router.POST("/ml/analyze", nlpHandler.AnalyzeRemote)

	if container.HistoryService != nil {
		historyHandler := handlers.NewHistoryHandler(container.HistoryService)
		router.GET("/relay/history", historyHandler.List)
	}
}

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	ProcessingService services.ProcessingService
	AnalysisService   services.AnalysisService
	HistoryService    services.HistoryService
	ContentService    services.ContentService
	Uploads           *upload.Saver
}
