package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/rentaltax/internal/middleware"
	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/services"
)

// PropertyHandler handles property register requests.
type PropertyHandler struct {
	properties services.PropertyService
	workpapers services.WorkpaperService
}

// NewPropertyHandler creates a new PropertyHandler instance.
func NewPropertyHandler(properties services.PropertyService, workpapers services.WorkpaperService) *PropertyHandler {
	return &PropertyHandler{
		properties: properties,
		workpapers: workpapers,
	}
}

// CreatePropertyRequest is the body of POST /properties.
type CreatePropertyRequest struct {
	AcquisitionDate     *time.Time       `json:"acquisitionDate"`
	DisposalDate        *time.Time       `json:"disposalDate"`
	OwnershipPercentage *decimal.Decimal `json:"ownershipPercentage"`
	IsActive            *bool            `json:"isActive"`
	DisplayName         string           `json:"displayName" binding:"required,max=200"`
	AddressLine1        string           `json:"addressLine1" binding:"max=200"`
	City                string           `json:"city" binding:"max=100"`
	PropertyType        string           `json:"propertyType" binding:"max=50"`
	TaxClassification   string           `json:"taxClassification" binding:"omitempty,oneof=Residential Commercial MixedUse"`
	IsMainHome          bool             `json:"isMainHome"`
	IsNewBuild          bool             `json:"isNewBuild"`
}

// UpdatePropertyRequest is the body of PATCH /properties/:id. Omitted fields are unchanged.
type UpdatePropertyRequest struct {
	AcquisitionDate     *time.Time       `json:"acquisitionDate"`
	DisposalDate        *time.Time       `json:"disposalDate"`
	OwnershipPercentage *decimal.Decimal `json:"ownershipPercentage"`
	DisplayName         *string          `json:"displayName" binding:"omitempty,max=200"`
	AddressLine1        *string          `json:"addressLine1" binding:"omitempty,max=200"`
	City                *string          `json:"city" binding:"omitempty,max=100"`
	PropertyType        *string          `json:"propertyType" binding:"omitempty,max=50"`
	TaxClassification   *string          `json:"taxClassification" binding:"omitempty,oneof=Residential Commercial MixedUse"`
	IsMainHome          *bool            `json:"isMainHome"`
	IsNewBuild          *bool            `json:"isNewBuild"`
	IsActive            *bool            `json:"isActive"`
}

// ListPropertiesQuery holds the query parameters of GET /properties.
type ListPropertiesQuery struct {
	Active bool `form:"active"`
}

// CreateWorkpaperRequest is the optional body of POST /properties/:id/workpapers.
type CreateWorkpaperRequest struct {
	TaxYear string `json:"taxYear" binding:"omitempty,max=20"`
}

// Create handles POST /api/v1/properties.
func (h *PropertyHandler) Create(c *gin.Context) {
	var req CreatePropertyRequest
	if !bindJSON(c, &req) {
		return
	}

	property, err := h.properties.Create(c.Request.Context(), services.NewProperty{
		AcquisitionDate:     req.AcquisitionDate,
		DisposalDate:        req.DisposalDate,
		OwnershipPercentage: req.OwnershipPercentage,
		IsActive:            req.IsActive,
		DisplayName:         req.DisplayName,
		AddressLine1:        req.AddressLine1,
		City:                req.City,
		PropertyType:        req.PropertyType,
		TaxClassification:   models.TaxClassification(req.TaxClassification),
		IsMainHome:          req.IsMainHome,
		IsNewBuild:          req.IsNewBuild,
	}, middleware.GetActor(c))
	if err != nil {
		writeError(c, err, "create property")
		return
	}

	c.JSON(http.StatusCreated, property)
}

// List handles GET /api/v1/properties.
func (h *PropertyHandler) List(c *gin.Context) {
	var query ListPropertiesQuery
	if !bindQuery(c, &query) {
		return
	}

	properties, err := h.properties.List(c.Request.Context(), query.Active)
	if err != nil {
		writeError(c, err, "list properties")
		return
	}

	c.JSON(http.StatusOK, properties)
}

// Get handles GET /api/v1/properties/:id.
func (h *PropertyHandler) Get(c *gin.Context) {
	property, err := h.properties.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "load property")
		return
	}

	c.JSON(http.StatusOK, property)
}

// Update handles PATCH /api/v1/properties/:id.
func (h *PropertyHandler) Update(c *gin.Context) {
	var req UpdatePropertyRequest
	if !bindJSON(c, &req) {
		return
	}

	patch := services.PropertyPatch{
		AcquisitionDate:     req.AcquisitionDate,
		DisposalDate:        req.DisposalDate,
		OwnershipPercentage: req.OwnershipPercentage,
		DisplayName:         req.DisplayName,
		AddressLine1:        req.AddressLine1,
		City:                req.City,
		PropertyType:        req.PropertyType,
		IsMainHome:          req.IsMainHome,
		IsNewBuild:          req.IsNewBuild,
		IsActive:            req.IsActive,
	}
	if req.TaxClassification != nil {
		classification := models.TaxClassification(*req.TaxClassification)
		patch.TaxClassification = &classification
	}

	property, err := h.properties.Update(c.Request.Context(), c.Param("id"), patch, middleware.GetActor(c))
	if err != nil {
		writeError(c, err, "update property")
		return
	}

	c.JSON(http.StatusOK, property)
}

// Delete handles DELETE /api/v1/properties/:id.
func (h *PropertyHandler) Delete(c *gin.Context) {
	if err := h.properties.Delete(c.Request.Context(), c.Param("id"), middleware.GetActor(c)); err != nil {
		writeError(c, err, "delete property")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListWorkpapers handles GET /api/v1/properties/:id/workpapers.
func (h *PropertyHandler) ListWorkpapers(c *gin.Context) {
	ctx := c.Request.Context()
	propertyID := c.Param("id")

	if _, err := h.properties.Get(ctx, propertyID); err != nil {
		writeError(c, err, "load property")
		return
	}

	workpapers, err := h.workpapers.ListByProperty(ctx, propertyID)
	if err != nil {
		writeError(c, err, "list workpapers")
		return
	}

	c.JSON(http.StatusOK, workpapers)
}

// CreateWorkpaper handles POST /api/v1/properties/:id/workpapers.
// It returns the existing workpaper when the property already has one for the year.
func (h *PropertyHandler) CreateWorkpaper(c *gin.Context) {
	var req CreateWorkpaperRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	workpaper, err := h.workpapers.Create(c.Request.Context(), c.Param("id"), req.TaxYear, middleware.GetActor(c))
	if err != nil {
		writeError(c, err, "create workpaper")
		return
	}

	c.JSON(http.StatusOK, workpaper)
}
