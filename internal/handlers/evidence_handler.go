package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/rentaltax/internal/middleware"
	"github.com/stwalsh4118/rentaltax/internal/models"
	"github.com/stwalsh4118/rentaltax/internal/services"
)

// EvidenceHandler handles attachment metadata requests.
type EvidenceHandler struct {
	evidence services.EvidenceService
}

// NewEvidenceHandler creates a new EvidenceHandler instance.
func NewEvidenceHandler(evidence services.EvidenceService) *EvidenceHandler {
	return &EvidenceHandler{evidence: evidence}
}

// AddEvidenceRequest is the body of POST /workpapers/:id/evidence.
// File content is not stored; only its metadata is recorded.
type AddEvidenceRequest struct {
	FileName    string `json:"fileName" binding:"max=255"`
	ContentType string `json:"contentType" binding:"max=100"`
	SizeBytes   int64  `json:"sizeBytes" binding:"min=0"`
}

// Add handles POST /api/v1/workpapers/:id/evidence.
func (h *EvidenceHandler) Add(c *gin.Context) {
	var req AddEvidenceRequest
	if !bindJSON(c, &req) {
		return
	}

	evidence, err := h.evidence.Add(c.Request.Context(), c.Param("id"), services.NewEvidence{
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	}, middleware.GetActor(c))
	if err != nil {
		writeError(c, err, "add evidence")
		return
	}

	c.JSON(http.StatusCreated, evidence)
}

// List handles GET /api/v1/workpapers/:id/evidence.
func (h *EvidenceHandler) List(c *gin.Context) {
	evidence, err := h.evidence.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "list evidence")
		return
	}
	if evidence == nil {
		evidence = []*models.Evidence{}
	}

	c.JSON(http.StatusOK, evidence)
}

// Remove handles DELETE /api/v1/evidence/:evidenceId.
func (h *EvidenceHandler) Remove(c *gin.Context) {
	if err := h.evidence.Remove(c.Request.Context(), c.Param("evidenceId"), middleware.GetActor(c)); err != nil {
		writeError(c, err, "remove evidence")
		return
	}

	c.Status(http.StatusNoContent)
}
