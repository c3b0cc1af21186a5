package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/rentaltax/internal/middleware"
	"github.com/stwalsh4118/rentaltax/internal/services"
)

// SettingsHandler handles tax settings requests.
type SettingsHandler struct {
	settings services.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler instance.
func NewSettingsHandler(settings services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// UpdateSettingsRequest is the body of PUT /settings. Omitted fields are unchanged.
type UpdateSettingsRequest struct {
	TaxYear                   *string                    `json:"taxYear" binding:"omitempty,max=20"`
	InterestDeductibilityRate *decimal.Decimal           `json:"interestDeductibilityRate"`
	InterestRates             map[string]decimal.Decimal `json:"interestRates"`
}

// Get handles GET /api/v1/settings.
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		writeError(c, err, "load settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

// Update handles PUT /api/v1/settings.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req UpdateSettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	settings, err := h.settings.Update(c.Request.Context(), services.SettingsPatch{
		TaxYear:                   req.TaxYear,
		InterestDeductibilityRate: req.InterestDeductibilityRate,
		InterestRates:             req.InterestRates,
	}, middleware.GetActor(c))
	if err != nil {
		writeError(c, err, "update settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}
