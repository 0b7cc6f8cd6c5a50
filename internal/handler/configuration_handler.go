package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-exam-api/internal/dto"
	"github.com/noah-isme/sma-exam-api/internal/service"
	appErrors "github.com/noah-isme/sma-exam-api/pkg/errors"
	"github.com/noah-isme/sma-exam-api/pkg/response"
)

// ConfigurationHandler exposes the global assignment settings.
type ConfigurationHandler struct {
	configuration *service.ConfigurationService
}

// NewConfigurationHandler constructs a new ConfigurationHandler.
func NewConfigurationHandler(configuration *service.ConfigurationService) *ConfigurationHandler {
	return &ConfigurationHandler{configuration: configuration}
}

// Get godoc
// @Summary Get observer configuration
// @Tags Configuration
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /configuration/observers [get]
func (h *ConfigurationHandler) Get(c *gin.Context) {
	cfg, err := h.configuration.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}

// Update godoc
// @Summary Update observer configuration
// @Tags Configuration
// @Accept json
// @Produce json
// @Param payload body dto.UpdateObserverConfigRequest true "Configuration payload"
// @Success 200 {object} response.Envelope
// @Router /configuration/observers [put]
func (h *ConfigurationHandler) Update(c *gin.Context) {
	var req dto.UpdateObserverConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid configuration payload"))
		return
	}
	cfg, err := h.configuration.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}
