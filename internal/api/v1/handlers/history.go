package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"adaptive-reader/internal/api/middleware"
	"adaptive-reader/internal/api/v1/dto"
	"adaptive-reader/internal/api/v1/services"
)

// HistoryHandler exposes recorded relay invocations
type HistoryHandler struct {
	service services.HistoryService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(service services.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// List handles GET /api/relay/history
//
// @Summary List relay invocations
// @Tags relay
// @Produce json
// @Param endpoint query string false "Filter by endpoint" Enums(ocr,tts,stt,nlp)
// @Param limit query int false "Maximum records" default(50) minimum(1) maximum(500)
// @Success 200 {object} dto.HistoryResponse "Invocations, newest first"
// @Failure 400 {object} errors.APIError "Invalid query parameters"
// @Failure 500 {object} errors.APIError "History store failure"
// @Header 200 {string} X-Total-Count "Number of records returned"
// @Router /relay/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	var query dto.HistoryQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("X-Total-Count", strconv.Itoa(response.Count))
	c.JSON(http.StatusOK, response)
}
