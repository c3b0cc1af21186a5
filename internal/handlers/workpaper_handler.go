package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/rentaltax/internal/middleware"
	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/services"
)

// WorkpaperHandler handles workpaper requests.
type WorkpaperHandler struct {
	workpapers services.WorkpaperService
	activities services.ActivityService
	summaries  services.SummaryService
}

// NewWorkpaperHandler creates a new WorkpaperHandler instance.
func NewWorkpaperHandler(
	workpapers services.WorkpaperService,
	activities services.ActivityService,
	summaries services.SummaryService,
) *WorkpaperHandler {
	return &WorkpaperHandler{
		workpapers: workpapers,
		activities: activities,
		summaries:  summaries,
	}
}

// UpdateInputsRequest is the body of PATCH /workpapers/:id.
// Status and derived totals are not accepted.
type UpdateInputsRequest struct {
	GrossRentalIncome *decimal.Decimal `json:"grossRentalIncome"`
	OtherIncome       *decimal.Decimal `json:"otherIncome"`
	DaysRented        *int             `json:"daysRented" binding:"omitempty,min=0"`
	DaysAvailable     *int             `json:"daysAvailable" binding:"omitempty,min=0"`
	DaysPrivate       *int             `json:"daysPrivate" binding:"omitempty,min=0"`
	MixedUse          *bool            `json:"mixedUse"`
}

// TransitionRequest is the body of the status transition endpoints.
type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

// Get handles GET /api/v1/workpapers/:id.
func (h *WorkpaperHandler) Get(c *gin.Context) {
	workpaper, err := h.workpapers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "load workpaper")
		return
	}

	c.JSON(http.StatusOK, workpaper)
}

// UpdateInputs handles PATCH /api/v1/workpapers/:id.
func (h *WorkpaperHandler) UpdateInputs(c *gin.Context) {
	var req UpdateInputsRequest
	if !bindJSON(c, &req) {
		return
	}

	workpaper, err := h.workpapers.UpdateInputs(c.Request.Context(), c.Param("id"), services.WorkpaperInputs{
		GrossRentalIncome: req.GrossRentalIncome,
		OtherIncome:       req.OtherIncome,
		DaysRented:        req.DaysRented,
		DaysAvailable:     req.DaysAvailable,
		DaysPrivate:       req.DaysPrivate,
		MixedUse:          req.MixedUse,
	}, middleware.GetActor(c))
	if err != nil {
		writeError(c, err, "update workpaper")
		return
	}

	c.JSON(http.StatusOK, workpaper)
}

// Calculate handles POST /api/v1/workpapers/:id/calculate.
func (h *WorkpaperHandler) Calculate(c *gin.Context) {
	workpaper, err := h.workpapers.Calculate(c.Request.Context(), c.Param("id"), middleware.GetActor(c))
	if err != nil {
		writeError(c, err, "calculate workpaper")
		return
	}

	c.JSON(http.StatusOK, workpaper)
}

// Transition handles POST /api/v1/workpapers/:id/transition.
func (h *WorkpaperHandler) Transition(c *gin.Context) {
	var req TransitionRequest
	if !bindJSON(c, &req) {
		return
	}

	workpaper, err := h.workpapers.Transition(
		c.Request.Context(),
		c.Param("id"),
		models.WorkpaperStatus(req.Status),
		middleware.GetActor(c),
	)
	if err != nil {
		writeError(c, err, "transition workpaper")
		return
	}

	c.JSON(http.StatusOK, workpaper)
}

// Diagnostics handles GET /api/v1/workpapers/:id/diagnostics.
func (h *WorkpaperHandler) Diagnostics(c *gin.Context) {
	diagnostics, err := h.workpapers.Diagnostics(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "evaluate diagnostics")
		return
	}
	if diagnostics == nil {
		diagnostics = []models.Diagnostic{}
	}

	c.JSON(http.StatusOK, diagnostics)
}

// Activities handles GET /api/v1/workpapers/:id/activities.
func (h *WorkpaperHandler) Activities(c *gin.Context) {
	ctx := c.Request.Context()
	workpaperID := c.Param("id")

	if _, err := h.workpapers.Get(ctx, workpaperID); err != nil {
		writeError(c, err, "load workpaper")
		return
	}

	entries, err := h.activities.List(ctx, workpaperID)
	if err != nil {
		writeError(c, err, "list activity")
		return
	}
	if entries == nil {
		entries = []*models.ActivityEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// Summary handles GET /api/v1/workpapers/:id/summary.
func (h *WorkpaperHandler) Summary(c *gin.Context) {
	summary, err := h.summaries.Summary(c.Request.Context(), c.Param("id"), middleware.GetActor(c))
	if err != nil {
		writeError(c, err, "summarise workpaper")
		return
	}

	c.JSON(http.StatusOK, summary)
}
