package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/rentaltax/internal/middleware"
	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/services"
)

// ExpenseHandler handles expense line requests.
type ExpenseHandler struct {
	expenses services.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler instance.
func NewExpenseHandler(expenses services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// AddExpenseRequest is the body of POST /workpapers/:id/expenses.
type AddExpenseRequest struct {
	IsApportionable *bool           `json:"isApportionable"`
	Category        string          `json:"category" binding:"omitempty,oneof=Interest Rates Insurance PropertyManagement BodyCorporate RepairsMaintenance Cleaning Advertising LegalFees AccountingFees Utilities Travel Other"`
	Description     string          `json:"description" binding:"max=500"`
	Notes           string          `json:"notes" binding:"max=2000"`
	Amount          decimal.Decimal `json:"amount"`
	IsCapital       bool            `json:"isCapital"`
}

// UpdateExpenseRequest is the body of PATCH /workpapers/:id/expenses/:lineId.
type UpdateExpenseRequest struct {
	Category        *string          `json:"category" binding:"omitempty,oneof=Interest Rates Insurance PropertyManagement BodyCorporate RepairsMaintenance Cleaning Advertising LegalFees AccountingFees Utilities Travel Other"`
	Description     *string          `json:"description" binding:"omitempty,max=500"`
	Notes           *string          `json:"notes" binding:"omitempty,max=2000"`
	Amount          *decimal.Decimal `json:"amount"`
	IsCapital       *bool            `json:"isCapital"`
	IsApportionable *bool            `json:"isApportionable"`
}

// Add handles POST /api/v1/workpapers/:id/expenses.
func (h *ExpenseHandler) Add(c *gin.Context) {
	var req AddExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	line, err := h.expenses.Add(c.Request.Context(), c.Param("id"), services.NewExpenseLine{
		Category:        models.ExpenseCategory(req.Category),
		Description:     req.Description,
		Notes:           req.Notes,
		Amount:          req.Amount,
		IsCapital:       req.IsCapital,
		IsApportionable: req.IsApportionable,
	}, middleware.GetActor(c))
	if err != nil {
		writeError(c, err, "add expense line")
		return
	}

	c.JSON(http.StatusCreated, line)
}

// Update handles PATCH /api/v1/workpapers/:id/expenses/:lineId.
func (h *ExpenseHandler) Update(c *gin.Context) {
	var req UpdateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	patch := services.ExpensePatch{
		Description:     req.Description,
		Notes:           req.Notes,
		Amount:          req.Amount,
		IsCapital:       req.IsCapital,
		IsApportionable: req.IsApportionable,
	}
	if req.Category != nil {
		category := models.ExpenseCategory(*req.Category)
		patch.Category = &category
	}

	line, err := h.expenses.Update(c.Request.Context(), c.Param("id"), c.Param("lineId"), patch, middleware.GetActor(c))
	if err != nil {
		writeError(c, err, "update expense line")
		return
	}

	c.JSON(http.StatusOK, line)
}

// Remove handles DELETE /api/v1/workpapers/:id/expenses/:lineId.
func (h *ExpenseHandler) Remove(c *gin.Context) {
	err := h.expenses.Remove(c.Request.Context(), c.Param("id"), c.Param("lineId"), middleware.GetActor(c))
	if err != nil {
		writeError(c, err, "remove expense line")
		return
	}

	c.Status(http.StatusNoContent)
}

// LinkEvidence handles POST /api/v1/workpapers/:id/expenses/:lineId/evidence/:evidenceId.
func (h *ExpenseHandler) LinkEvidence(c *gin.Context) {
	line, err := h.expenses.LinkEvidence(
		c.Request.Context(),
		c.Param("id"),
		c.Param("lineId"),
		c.Param("evidenceId"),
		middleware.GetActor(c),
	)
	if err != nil {
		writeError(c, err, "link evidence")
		return
	}

	c.JSON(http.StatusOK, line)
}

// UnlinkEvidence handles DELETE /api/v1/workpapers/:id/expenses/:lineId/evidence/:evidenceId.
func (h *ExpenseHandler) UnlinkEvidence(c *gin.Context) {
	line, err := h.expenses.UnlinkEvidence(
		c.Request.Context(),
		c.Param("id"),
		c.Param("lineId"),
		c.Param("evidenceId"),
		middleware.GetActor(c),
	)
	if err != nil {
		writeError(c, err, "unlink evidence")
		return
	}

	c.JSON(http.StatusOK, line)
}
