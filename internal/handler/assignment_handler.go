package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-exam-api/internal/dto"
	"github.com/noah-isme/sma-exam-api/internal/service"
	appErrors "github.com/noah-isme/sma-exam-api/pkg/errors"
	"github.com/noah-isme/sma-exam-api/pkg/response"
)

// AssignmentHandler wires the assignment engine to HTTP routes.
type AssignmentHandler struct {
	assignments *service.AssignmentService
	calendar    *service.CalendarService
}

// NewAssignmentHandler constructs a new AssignmentHandler.
func NewAssignmentHandler(assignments *service.AssignmentService, calendar *service.CalendarService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, calendar: calendar}
}

// Snapshot godoc
// @Summary Get the assignment snapshot for a term
// @Tags Assignments
// @Produce json
// @Param term path string true "Term key (term1/term2)"
// @Param grade query string false "Narrow to one grade level"
// @Success 200 {object} response.Envelope
// @Router /terms/{term}/assignments [get]
func (h *AssignmentHandler) Snapshot(c *gin.Context) {
	term, ok := termFromPath(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown term"))
		return
	}
	snapshot, err := h.assignments.Snapshot(c.Request.Context(), term, strings.TrimSpace(c.Query("grade")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// CalendarIndex godoc
// @Summary Get the cross-grade session calendar for a term
// @Tags Assignments
// @Produce json
// @Param term path string true "Term key (term1/term2)"
// @Success 200 {object} response.Envelope
// @Router /terms/{term}/calendar-index [get]
func (h *AssignmentHandler) CalendarIndex(c *gin.Context) {
	term, ok := termFromPath(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown term"))
		return
	}
	index, err := h.calendar.BuildIndex(c.Request.Context(), term)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, index, nil)
}

// SetSlot godoc
// @Summary Write one observer slot
// @Tags Assignments
// @Accept json
// @Produce json
// @Param term path string true "Term key (term1/term2)"
// @Param payload body dto.SetSlotRequest true "Slot write payload"
// @Success 200 {object} response.Envelope
// @Router /terms/{term}/assignments/slot [put]
func (h *AssignmentHandler) SetSlot(c *gin.Context) {
	term, ok := termFromPath(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown term"))
		return
	}
	var req dto.SetSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}
	assignment, err := h.assignments.SetSlot(c.Request.Context(), term, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Swap godoc
// @Summary Atomically exchange the observers held by two slots
// @Tags Assignments
// @Accept json
// @Produce json
// @Param term path string true "Term key (term1/term2)"
// @Param payload body dto.SwapRequest true "Swap payload"
// @Success 200 {object} response.Envelope
// @Router /terms/{term}/assignments/swap [post]
func (h *AssignmentHandler) Swap(c *gin.Context) {
	term, ok := termFromPath(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown term"))
		return
	}
	var req dto.SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid swap payload"))
		return
	}
	if err := h.assignments.SwapSlots(c.Request.Context(), term, req.Source, req.Target); err != nil {
		response.Error(c, err)
		return
	}
	snapshot, err := h.assignments.Snapshot(c.Request.Context(), term, "")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// ConflictCheck godoc
// @Summary Preview whether a placement would be rejected
// @Tags Assignments
// @Accept json
// @Produce json
// @Param term path string true "Term key (term1/term2)"
// @Param payload body dto.PlacementCheckRequest true "Placement preview payload"
// @Success 200 {object} response.Envelope
// @Router /terms/{term}/assignments/conflict-check [post]
func (h *AssignmentHandler) ConflictCheck(c *gin.Context) {
	term, ok := termFromPath(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown term"))
		return
	}
	var req dto.PlacementCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid placement payload"))
		return
	}
	result, err := h.assignments.CheckPlacement(c.Request.Context(), term, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
