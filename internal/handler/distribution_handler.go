package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-exam-api/internal/dto"
	"github.com/noah-isme/sma-exam-api/internal/service"
	appErrors "github.com/noah-isme/sma-exam-api/pkg/errors"
	"github.com/noah-isme/sma-exam-api/pkg/response"
)

// DistributionHandler exposes the auto-distribution planner.
type DistributionHandler struct {
	distributor *service.DistributionService
}

// NewDistributionHandler constructs a new DistributionHandler.
func NewDistributionHandler(distributor *service.DistributionService) *DistributionHandler {
	return &DistributionHandler{distributor: distributor}
}

// Run godoc
// @Summary Rebuild one grade's assignments with the load-balancing planner
// @Tags Distributions
// @Accept json
// @Produce json
// @Param term path string true "Term key (term1/term2)"
// @Param payload body dto.RunDistributionRequest true "Planner payload"
// @Success 200 {object} response.Envelope
// @Router /terms/{term}/distributions [post]
func (h *DistributionHandler) Run(c *gin.Context) {
	term, ok := termFromPath(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown term"))
		return
	}
	var req dto.RunDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid distribution payload"))
		return
	}
	result, err := h.distributor.Run(c.Request.Context(), term, req.GradeLevel)
	if err != nil {
		response.Error(c, err)
		return
	}
	if claims := claimsFromContext(c); claims != nil {
		response.JSON(c, http.StatusOK, result, nil, map[string]interface{}{"triggered_by": claims.UserID})
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
