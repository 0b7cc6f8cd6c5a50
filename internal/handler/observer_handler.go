package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-exam-api/internal/dto"
	"github.com/noah-isme/sma-exam-api/internal/models"
	"github.com/noah-isme/sma-exam-api/internal/service"
	appErrors "github.com/noah-isme/sma-exam-api/pkg/errors"
	"github.com/noah-isme/sma-exam-api/pkg/response"
)

// ObserverHandler wires the observer roster to HTTP routes.
type ObserverHandler struct {
	observers *service.ObserverService
}

// NewObserverHandler constructs a new ObserverHandler.
func NewObserverHandler(observers *service.ObserverService) *ObserverHandler {
	return &ObserverHandler{observers: observers}
}

// List godoc
// @Summary List observers
// @Tags Observers
// @Produce json
// @Param search query string false "Search by name"
// @Param active query bool false "Filter by active status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field (full_name,created_at)"
// @Param order query string false "Sort order (asc/desc)"
// @Success 200 {object} response.Envelope
// @Router /observers [get]
func (h *ObserverHandler) List(c *gin.Context) {
	filter := models.ObserverFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	if active := c.Query("active"); active != "" {
		switch strings.ToLower(active) {
		case "true":
			val := true
			filter.Active = &val
		case "false":
			val := false
			filter.Active = &val
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	observers, pagination, err := h.observers.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, observers, pagination)
}

// Get godoc
// @Summary Get observer detail
// @Tags Observers
// @Produce json
// @Param id path string true "Observer ID"
// @Success 200 {object} response.Envelope
// @Router /observers/{id} [get]
func (h *ObserverHandler) Get(c *gin.Context) {
	observer, err := h.observers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, observer, nil)
}

// Create godoc
// @Summary Create observer
// @Tags Observers
// @Accept json
// @Produce json
// @Param payload body dto.CreateObserverRequest true "Observer payload"
// @Success 201 {object} response.Envelope
// @Router /observers [post]
func (h *ObserverHandler) Create(c *gin.Context) {
	var req dto.CreateObserverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid observer payload"))
		return
	}
	observer, err := h.observers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, observer)
}

// Update godoc
// @Summary Update observer
// @Tags Observers
// @Accept json
// @Produce json
// @Param id path string true "Observer ID"
// @Param payload body dto.UpdateObserverRequest true "Observer payload"
// @Success 200 {object} response.Envelope
// @Router /observers/{id} [put]
func (h *ObserverHandler) Update(c *gin.Context) {
	var req dto.UpdateObserverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid observer payload"))
		return
	}
	observer, err := h.observers.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, observer, nil)
}

// Delete godoc
// @Summary Delete observer
// @Tags Observers
// @Param id path string true "Observer ID"
// @Success 204
// @Router /observers/{id} [delete]
func (h *ObserverHandler) Delete(c *gin.Context) {
	if err := h.observers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
