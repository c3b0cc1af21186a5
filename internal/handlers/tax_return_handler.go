package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	apierrors "github.com/stwalsh4118/rentaltax/internal/errors"
	"github.com/stwalsh4118/rentaltax/internal/export"
	"github.com/stwalsh4118/rentaltax/internal/jurisdiction"
	"github.com/stwalsh4118/rentaltax/internal/middleware"
	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/services"
)

// TaxReturnHandler handles tax return generation and lifecycle requests.
type TaxReturnHandler struct {
	taxReturns services.TaxReturnService
	registry   *jurisdiction.Registry
}

// NewTaxReturnHandler creates a new TaxReturnHandler instance.
func NewTaxReturnHandler(taxReturns services.TaxReturnService, registry *jurisdiction.Registry) *TaxReturnHandler {
	return &TaxReturnHandler{
		taxReturns: taxReturns,
		registry:   registry,
	}
}

// GenerateTaxReturnRequest is the body of POST /tax-returns.
type GenerateTaxReturnRequest struct {
	TaxYear      string        `json:"taxYear" binding:"omitempty,max=20"`
	Jurisdiction string        `json:"jurisdiction"`
	Inputs       InputsRequest `json:"inputs"`
}

// InputsRequest groups caller-supplied inputs by return section.
type InputsRequest struct {
	Rental RentalInputsRequest `json:"rental"`
}

// RentalInputsRequest carries the values the rental mapping cannot derive.
type RentalInputsRequest struct {
	PriorYearResidentialLossUsed decimal.Decimal `json:"priorYearResidentialLossUsed"`
	InterestReasonSelection      string          `json:"interestReasonSelection" binding:"max=200"`
}

// GenerateTaxReturnResponse is returned by POST /tax-returns.
type GenerateTaxReturnResponse struct {
	Sections     map[string]*models.RentalSection `json:"sections"`
	TaxReturnID  string                           `json:"taxReturnId"`
	Status       models.TaxReturnStatus           `json:"status"`
	Jurisdiction models.Jurisdiction              `json:"jurisdiction"`
	Validation   models.Validation                `json:"validation"`
}

// LockResponse is returned by a successful lock.
type LockResponse struct {
	Status  models.TaxReturnStatus `json:"status"`
	Success bool                   `json:"success"`
}

// Jurisdictions handles GET /api/v1/jurisdictions.
func (h *TaxReturnHandler) Jurisdictions(c *gin.Context) {
	jurisdictions := []models.Jurisdiction{}
	if h.registry != nil {
		jurisdictions = append(jurisdictions, h.registry.Jurisdictions()...)
	}

	c.JSON(http.StatusOK, gin.H{"jurisdictions": jurisdictions})
}

// Generate handles POST /api/v1/tax-returns.
func (h *TaxReturnHandler) Generate(c *gin.Context) {
	var req GenerateTaxReturnRequest
	if !bindJSON(c, &req) {
		return
	}

	tr, err := h.taxReturns.Generate(c.Request.Context(), services.GenerateRequest{
		TaxYear:      req.TaxYear,
		Jurisdiction: models.Jurisdiction(req.Jurisdiction),
		Inputs: models.RentalInputs{
			PriorYearResidentialLossUsed: req.Inputs.Rental.PriorYearResidentialLossUsed,
			InterestReasonSelection:      req.Inputs.Rental.InterestReasonSelection,
		},
	}, middleware.GetActor(c))
	if err != nil {
		writeOperationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, GenerateTaxReturnResponse{
		Sections:     tr.Sections,
		TaxReturnID:  tr.ID,
		Status:       tr.Status,
		Jurisdiction: tr.Jurisdiction,
		Validation:   tr.Validation,
	})
}

// List handles GET /api/v1/tax-returns.
func (h *TaxReturnHandler) List(c *gin.Context) {
	returns, err := h.taxReturns.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "list tax returns")
		return
	}
	if returns == nil {
		returns = []*models.TaxReturn{}
	}

	c.JSON(http.StatusOK, returns)
}

// Get handles GET /api/v1/tax-returns/:id.
func (h *TaxReturnHandler) Get(c *gin.Context) {
	tr, err := h.taxReturns.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "load tax return")
		return
	}

	c.JSON(http.StatusOK, tr)
}

// Validate handles POST /api/v1/tax-returns/:id/validate.
func (h *TaxReturnHandler) Validate(c *gin.Context) {
	validation, err := h.taxReturns.Validate(c.Request.Context(), c.Param("id"), middleware.GetActor(c))
	if err != nil {
		writeOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, validation)
}

// Transition handles POST /api/v1/tax-returns/:id/transition.
func (h *TaxReturnHandler) Transition(c *gin.Context) {
	var req TransitionRequest
	if !bindJSON(c, &req) {
		return
	}

	tr, err := h.taxReturns.Transition(
		c.Request.Context(),
		c.Param("id"),
		models.TaxReturnStatus(req.Status),
		middleware.GetActor(c),
	)
	if err != nil {
		writeOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, tr)
}

// Lock handles POST /api/v1/tax-returns/:id/lock.
func (h *TaxReturnHandler) Lock(c *gin.Context) {
	tr, err := h.taxReturns.Lock(c.Request.Context(), c.Param("id"), middleware.GetActor(c))
	if err != nil {
		writeOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, LockResponse{
		Status:  tr.Status,
		Success: true,
	})
}

// Export handles GET /api/v1/tax-returns/:id/export and streams the return as an XLSX workbook.
func (h *TaxReturnHandler) Export(c *gin.Context) {
	tr, err := h.taxReturns.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "load tax return")
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, tr); err != nil {
		apierrors.InternalServerError(c, "Failed to export tax return", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(tr)))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
