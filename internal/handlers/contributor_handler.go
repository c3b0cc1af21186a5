package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/services"
)

// ContributorHandler handles workpaper contributor requests.
type ContributorHandler struct {
	contributors services.ContributorService
}

// NewContributorHandler creates a new ContributorHandler instance.
func NewContributorHandler(contributors services.ContributorService) *ContributorHandler {
	return &ContributorHandler{contributors: contributors}
}

// AddContributorRequest is the body of POST /workpapers/:id/contributors.
type AddContributorRequest struct {
	UserID string `json:"userId" binding:"required,max=100"`
	Role   string `json:"role" binding:"omitempty,oneof=Preparer Reviewer Contributor"`
}

// UpdateRoleRequest is the body of PATCH /workpapers/:id/contributors/:contributorId.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=Preparer Reviewer Contributor"`
}

// List handles GET /api/v1/workpapers/:id/contributors.
func (h *ContributorHandler) List(c *gin.Context) {
	contributors, err := h.contributors.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "list contributors")
		return
	}
	if contributors == nil {
		contributors = []models.Contributor{}
	}

	c.JSON(http.StatusOK, contributors)
}

// Add handles POST /api/v1/workpapers/:id/contributors.
func (h *ContributorHandler) Add(c *gin.Context) {
	var req AddContributorRequest
	if !bindJSON(c, &req) {
		return
	}

	contributor, err := h.contributors.Add(c.Request.Context(), c.Param("id"), req.UserID, models.ContributorRole(req.Role))
	if err != nil {
		writeError(c, err, "add contributor")
		return
	}

	c.JSON(http.StatusCreated, contributor)
}

// UpdateRole handles PATCH /api/v1/workpapers/:id/contributors/:contributorId.
func (h *ContributorHandler) UpdateRole(c *gin.Context) {
	var req UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	contributor, err := h.contributors.UpdateRole(
		c.Request.Context(),
		c.Param("id"),
		c.Param("contributorId"),
		models.ContributorRole(req.Role),
	)
	if err != nil {
		writeError(c, err, "update contributor")
		return
	}

	c.JSON(http.StatusOK, contributor)
}

// AssignOwner handles POST /api/v1/workpapers/:id/contributors/:contributorId/owner.
func (h *ContributorHandler) AssignOwner(c *gin.Context) {
	contributor, err := h.contributors.AssignOwner(c.Request.Context(), c.Param("id"), c.Param("contributorId"))
	if err != nil {
		writeError(c, err, "assign owner")
		return
	}

	c.JSON(http.StatusOK, contributor)
}
