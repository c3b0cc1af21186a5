package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/rentaltax/internal/middleware"
	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/services"
)

// PortfolioHandler serves the cross-property views.
type PortfolioHandler struct {
	portfolio services.PortfolioService
	summaries services.SummaryService
}

// NewPortfolioHandler creates a new PortfolioHandler instance.
func NewPortfolioHandler(portfolio services.PortfolioService, summaries services.SummaryService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolio: portfolio,
		summaries: summaries,
	}
}

// TaxYearQuery selects a tax year; empty means the current settings year.
type TaxYearQuery struct {
	TaxYear string `form:"taxYear" binding:"omitempty,max=20"`
}

// Totals handles GET /api/v1/portfolio.
func (h *PortfolioHandler) Totals(c *gin.Context) {
	var query TaxYearQuery
	if !bindQuery(c, &query) {
		return
	}

	totals, err := h.portfolio.Totals(c.Request.Context(), query.TaxYear)
	if err != nil {
		writeError(c, err, "compute portfolio totals")
		return
	}

	c.JSON(http.StatusOK, totals)
}

// RentalSummaries handles GET /api/v1/rental-summaries.
// Every active property with a workpaper for the year is recalculated and summarised.
func (h *PortfolioHandler) RentalSummaries(c *gin.Context) {
	var query TaxYearQuery
	if !bindQuery(c, &query) {
		return
	}

	summaries, err := h.summaries.Summaries(c.Request.Context(), query.TaxYear, middleware.GetActor(c))
	if err != nil {
		writeError(c, err, "build rental summaries")
		return
	}
	if summaries == nil {
		summaries = []*models.RentalSummary{}
	}

	c.JSON(http.StatusOK, summaries)
}
