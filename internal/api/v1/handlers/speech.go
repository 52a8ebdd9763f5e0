package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adaptive-reader/internal/api/middleware"
	"adaptive-reader/internal/api/upload"
	"adaptive-reader/internal/api/v1/dto"
	"adaptive-reader/internal/api/v1/services"
)

// SpeechHandler handles text-to-speech and pronunciation checks
type SpeechHandler struct {
	service services.ProcessingService
	uploads *upload.Saver
}

// NewSpeechHandler creates a new speech handler
func NewSpeechHandler(service services.ProcessingService, uploads *upload.Saver) *SpeechHandler {
	return &SpeechHandler{
		service: service,
		uploads: uploads,
	}
}

// TextToSpeech handles POST /api/speech/tts
//
// @Summary Synthesize speech
// @Tags speech
// @Accept json
// @Produce json
// @Param request body dto.TextRequest true "Text to read aloud"
// @Success 200 {object} dto.TTSResponse "URL of the generated audio"
// @Failure 400 {object} errors.APIError "Missing text"
// @Failure 500 {object} errors.APIError "Synthesis failed"
// @Failure 503 {object} errors.APIError "Too many scripts running"
// @Failure 504 {object} errors.APIError "Script timed out"
// @Router /speech/tts [post]
func (h *SpeechHandler) TextToSpeech(c *gin.Context) {
	var req dto.TextRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.Synthesize(c.Request.Context(), req.Text)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// SpeechToText handles POST /api/speech/stt
// Checks a recording against the target word in form field "word"
//
// @Summary Recognize speech
// @Tags speech
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Recording"
// @Param word formData string false "Target word"
// @Success 200 {object} map[string]interface{} "Script output passed through"
// @Failure 400 {object} errors.APIError "No audio uploaded"
// @Failure 413 {object} errors.APIError "Upload over the size limit"
// @Failure 500 {object} errors.APIError "Script failed or produced invalid output"
// @Failure 503 {object} errors.APIError "Too many scripts running"
// @Failure 504 {object} errors.APIError "Script timed out"
// @Router /speech/stt [post]
func (h *SpeechHandler) SpeechToText(c *gin.Context) {
	audio, err := h.uploads.Save(c, "audio", "audio")
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	result, err := h.service.Recognize(c.Request.Context(), audio, c.PostForm("word"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
