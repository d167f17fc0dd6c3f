package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quotely/internal/service"
)

// SettingsHandler handles the company letterhead endpoints.
type SettingsHandler struct {
	settingsService service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get handles GET /api/v1/settings/company
// @Summary Get company settings
// @Tags settings
// @Produce json
// @Success 200 {object} Response{data=domain.CompanySettings} "Company settings"
// @Security BearerAuth
// @Router /settings/company [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, settings)
}

// Update handles PUT /api/v1/settings/company
// @Summary Update company settings
// @Description Replaces the letterhead printed on PDFs and emails (admin only)
// @Tags settings
// @Accept json
// @Produce json
// @Param request body service.CompanySettingsInput true "Company settings"
// @Success 200 {object} Response{data=domain.CompanySettings} "Settings updated"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 403 {object} ErrorResponseBody "Forbidden - admin only"
// @Security BearerAuth
// @Router /settings/company [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var input service.CompanySettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, settings)
}
