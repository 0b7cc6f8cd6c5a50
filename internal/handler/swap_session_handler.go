package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-exam-api/internal/dto"
	"github.com/noah-isme/sma-exam-api/internal/service"
	appErrors "github.com/noah-isme/sma-exam-api/pkg/errors"
	"github.com/noah-isme/sma-exam-api/pkg/response"
)

// SwapSessionHandler exposes the interactive two-click swap flow.
type SwapSessionHandler struct {
	swaps *service.SwapSessionService
}

// NewSwapSessionHandler constructs a new SwapSessionHandler.
func NewSwapSessionHandler(swaps *service.SwapSessionService) *SwapSessionHandler {
	return &SwapSessionHandler{swaps: swaps}
}

// State godoc
// @Summary Get the swap session state for a term
// @Tags SwapSessions
// @Produce json
// @Param term path string true "Term key (term1/term2)"
// @Success 200 {object} response.Envelope
// @Router /terms/{term}/swap-session [get]
func (h *SwapSessionHandler) State(c *gin.Context) {
	term, ok := termFromPath(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown term"))
		return
	}
	response.JSON(c, http.StatusOK, h.swaps.State(term), nil)
}

// Toggle godoc
// @Summary Switch swap mode on or off for a term
// @Tags SwapSessions
// @Accept json
// @Produce json
// @Param term path string true "Term key (term1/term2)"
// @Param payload body dto.ToggleSwapRequest true "Toggle payload"
// @Success 200 {object} response.Envelope
// @Router /terms/{term}/swap-session/toggle [post]
func (h *SwapSessionHandler) Toggle(c *gin.Context) {
	term, ok := termFromPath(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown term"))
		return
	}
	var req dto.ToggleSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid toggle payload"))
		return
	}
	state, err := h.swaps.Toggle(term, req.Enabled)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// Select godoc
// @Summary Register one slot click in the two-step swap flow
// @Tags SwapSessions
// @Accept json
// @Produce json
// @Param term path string true "Term key (term1/term2)"
// @Param payload body dto.SelectSlotRequest true "Slot click payload"
// @Success 200 {object} response.Envelope
// @Router /terms/{term}/swap-session/select [post]
func (h *SwapSessionHandler) Select(c *gin.Context) {
	term, ok := termFromPath(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown term"))
		return
	}
	var req dto.SelectSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}
	state, err := h.swaps.Select(c.Request.Context(), term, req.Slot)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// Cancel godoc
// @Summary Clear any pending source selection without leaving swap mode
// @Tags SwapSessions
// @Produce json
// @Param term path string true "Term key (term1/term2)"
// @Success 200 {object} response.Envelope
// @Router /terms/{term}/swap-session/cancel [post]
func (h *SwapSessionHandler) Cancel(c *gin.Context) {
	term, ok := termFromPath(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown term"))
		return
	}
	response.JSON(c, http.StatusOK, h.swaps.Cancel(term), nil)
}
