package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adaptive-reader/internal/api/middleware"
	"adaptive-reader/internal/api/upload"
	"adaptive-reader/internal/api/v1/services"
)

// OCRHandler handles text extraction from uploaded images
type OCRHandler struct {
	service services.ProcessingService
	uploads *upload.Saver
}

// NewOCRHandler creates a new OCR handler
func NewOCRHandler(service services.ProcessingService, uploads *upload.Saver) *OCRHandler {
	return &OCRHandler{
		service: service,
		uploads: uploads,
	}
}

// Upload handles POST /api/ocr/upload
// Runs the OCR script on the uploaded image
//
// @Summary Extract text from an image
// @Tags ocr
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image to read"
// @Success 200 {object} map[string]interface{} "Script output, success defaults to true"
// @Failure 400 {object} errors.APIError "No image uploaded"
// @Failure 413 {object} errors.APIError "Upload over the size limit"
// @Failure 500 {object} errors.APIError "Script failed or produced invalid output"
// @Failure 503 {object} errors.APIError "Too many scripts running"
// @Failure 504 {object} errors.APIError "Script timed out"
// @Router /ocr/upload [post]
func (h *OCRHandler) Upload(c *gin.Context) {
	image, err := h.uploads.Save(c, "image", "image")
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	result, err := h.service.ExtractText(c.Request.Context(), image)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
