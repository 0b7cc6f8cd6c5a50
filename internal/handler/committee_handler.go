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

// CommitteeHandler wires committee rooms to HTTP routes.
type CommitteeHandler struct {
	committees *service.CommitteeService
}

// NewCommitteeHandler constructs a new CommitteeHandler.
func NewCommitteeHandler(committees *service.CommitteeService) *CommitteeHandler {
	return &CommitteeHandler{committees: committees}
}

// List godoc
// @Summary List committees
// @Tags Committees
// @Produce json
// @Param grade query string false "Filter by grade level"
// @Param search query string false "Search by name"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /committees [get]
func (h *CommitteeHandler) List(c *gin.Context) {
	filter := models.CommitteeFilter{
		GradeLevel: strings.TrimSpace(c.Query("grade")),
		Search:     strings.TrimSpace(c.Query("search")),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	committees, pagination, err := h.committees.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, committees, pagination)
}

// Get godoc
// @Summary Get committee detail
// @Tags Committees
// @Produce json
// @Param id path string true "Committee ID"
// @Success 200 {object} response.Envelope
// @Router /committees/{id} [get]
func (h *CommitteeHandler) Get(c *gin.Context) {
	committee, err := h.committees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, committee, nil)
}

// Create godoc
// @Summary Create committee
// @Tags Committees
// @Accept json
// @Produce json
// @Param payload body dto.CreateCommitteeRequest true "Committee payload"
// @Success 201 {object} response.Envelope
// @Router /committees [post]
func (h *CommitteeHandler) Create(c *gin.Context) {
	var req dto.CreateCommitteeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid committee payload"))
		return
	}
	committee, err := h.committees.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, committee)
}

// Delete godoc
// @Summary Delete committee
// @Tags Committees
// @Param id path string true "Committee ID"
// @Success 204
// @Router /committees/{id} [delete]
func (h *CommitteeHandler) Delete(c *gin.Context) {
	if err := h.committees.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
