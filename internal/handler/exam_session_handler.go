package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-exam-api/internal/dto"
	"github.com/noah-isme/sma-exam-api/internal/models"
	"github.com/noah-isme/sma-exam-api/internal/service"
	appErrors "github.com/noah-isme/sma-exam-api/pkg/errors"
	"github.com/noah-isme/sma-exam-api/pkg/response"
)

// ExamSessionHandler wires the exam schedule to HTTP routes.
type ExamSessionHandler struct {
	sessions *service.ExamSessionService
}

// NewExamSessionHandler constructs a new ExamSessionHandler.
func NewExamSessionHandler(sessions *service.ExamSessionService) *ExamSessionHandler {
	return &ExamSessionHandler{sessions: sessions}
}

// List godoc
// @Summary List exam sessions for a term
// @Tags ExamSessions
// @Produce json
// @Param term query string true "Term key (term1/term2)"
// @Param grade query string false "Filter by grade level"
// @Success 200 {object} response.Envelope
// @Router /exam-sessions [get]
func (h *ExamSessionHandler) List(c *gin.Context) {
	term := models.TermKey(c.Query("term"))
	sessions, err := h.sessions.List(c.Request.Context(), term, strings.TrimSpace(c.Query("grade")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// Get godoc
// @Summary Get exam session detail
// @Tags ExamSessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /exam-sessions/{id} [get]
func (h *ExamSessionHandler) Get(c *gin.Context) {
	session, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Create godoc
// @Summary Create exam session
// @Tags ExamSessions
// @Accept json
// @Produce json
// @Param payload body dto.CreateExamSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Router /exam-sessions [post]
func (h *ExamSessionHandler) Create(c *gin.Context) {
	var req dto.CreateExamSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid exam session payload"))
		return
	}
	session, err := h.sessions.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Delete godoc
// @Summary Delete exam session
// @Tags ExamSessions
// @Param id path string true "Session ID"
// @Success 204
// @Router /exam-sessions/{id} [delete]
func (h *ExamSessionHandler) Delete(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
