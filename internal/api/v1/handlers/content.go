package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adaptive-reader/internal/api/v1/dto"
	"adaptive-reader/internal/api/v1/services"
)

const welcomeMessage = "Welcome to the Adaptive Reading Assistant Backend!"

// ContentHandler serves the demo content used by the dashboards
type ContentHandler struct {
	service services.ContentService
}

// NewContentHandler creates a new content handler
func NewContentHandler(service services.ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

// Welcome handles GET /
func (h *ContentHandler) Welcome(c *gin.Context) {
	c.String(http.StatusOK, welcomeMessage)
}

// Ping handles GET /api/test
//
// @Summary API liveness check
// @Tags content
// @Produce json
// @Success 200 {object} dto.StatusMessage
// @Router /test [get]
func (h *ContentHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusMessage{Message: "API is working!"})
}

// Sample handles GET /api/content/sample
//
// @Summary Sample reading passage
// @Tags content
// @Produce json
// @Success 200 {object} dto.SampleContent
// @Router /content/sample [get]
func (h *ContentHandler) Sample(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.SampleContent())
}

// StudentProfile handles GET /api/student-profile
//
// @Summary Student dashboard summary
// @Tags content
// @Produce json
// @Success 200 {object} dto.StudentProfile
// @Router /student-profile [get]
func (h *ContentHandler) StudentProfile(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.StudentProfile())
}

// TeacherDashboard handles GET /api/teacher-dashboard
//
// @Summary Class analytics for the teacher dashboard
// @Tags content
// @Produce json
// @Success 200 {object} dto.TeacherDashboard
// @Router /teacher-dashboard [get]
func (h *ContentHandler) TeacherDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.TeacherDashboard())
}
