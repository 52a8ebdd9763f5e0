package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adaptive-reader/internal/api/middleware"
	"adaptive-reader/internal/api/v1/dto"
	"adaptive-reader/internal/api/v1/services"
)

// NLPHandler handles text analysis, either by the local script or by the
// ML service
type NLPHandler struct {
	processing services.ProcessingService
	analysis   services.AnalysisService
}

// NewNLPHandler creates a new NLP handler
func NewNLPHandler(processing services.ProcessingService, analysis services.AnalysisService) *NLPHandler {
	return &NLPHandler{
		processing: processing,
		analysis:   analysis,
	}
}

// Analyze handles POST /api/nlp/analyze
//
// @Summary Analyze text with the local NLP script
// @Tags nlp
// @Accept json
// @Produce json
// @Param request body dto.TextRequest true "Text to analyze"
// @Success 200 {object} map[string]interface{} "Script output passed through"
// @Failure 400 {object} errors.APIError "Missing text"
// @Failure 500 {object} errors.APIError "Script failed or produced invalid output"
// @Failure 503 {object} errors.APIError "Too many scripts running"
// @Failure 504 {object} errors.APIError "Script timed out"
// @Router /nlp/analyze [post]
func (h *NLPHandler) Analyze(c *gin.Context) {
	var req dto.TextRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	result, err := h.processing.AnalyzeText(c.Request.Context(), req.Text)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AnalyzeRemote handles POST /api/ml/analyze
//
// @Summary Analyze text with the ML service
// @Tags nlp
// @Accept json
// @Produce json
// @Param request body dto.AnalyzeRequest true "Text to analyze"
// @Success 200 {object} map[string]interface{} "ML service response"
// @Failure 400 {object} errors.APIError "Missing text"
// @Failure 500 {object} errors.APIError "ML service unreachable"
// @Router /ml/analyze [post]
func (h *NLPHandler) AnalyzeRemote(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	result, err := h.analysis.Analyze(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
