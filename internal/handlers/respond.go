package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/stwalsh4118/rentaltax/internal/errors"
	"github.com/stwalsh4118/rentaltax/internal/services"
	"github.com/stwalsh4118/rentaltax/internal/store"
)

var notFoundErrors = []error{
	services.ErrPropertyNotFound,
	services.ErrWorkpaperNotFound,
	services.ErrExpenseLineNotFound,
	services.ErrEvidenceNotFound,
	services.ErrContributorNotFound,
	services.ErrTaxReturnNotFound,
}

var ruleErrors = []error{
	services.ErrInvalidTransition,
	services.ErrWorkpaperLocked,
	services.ErrUnsupportedJurisdiction,
	services.ErrTaxReturnNotComplete,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// bindJSON binds the request body into req and writes a 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return false
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return false
	}
	return true
}

// bindQuery binds query parameters into req and writes a 400 on failure.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return false
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return false
	}
	return true
}

// writeError maps a service error onto the structured error envelope.
// action completes the message of unexpected failures, e.g. "update property".
func writeError(c *gin.Context, err error, action string) {
	var refused *services.LockRefusedError
	switch {
	case isAny(err, notFoundErrors):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.Is(err, store.ErrVersionConflict):
		apierrors.Conflict(c, "The record was changed by another request; reload and retry")
	case errors.Is(err, context.DeadlineExceeded):
		apierrors.ServiceUnavailable(c, "Record store did not respond", err)
	case errors.As(err, &refused):
		apierrors.RuleViolation(c, http.StatusUnprocessableEntity, refused.Error(), gin.H{"validation": refused.Validation})
	case isAny(err, ruleErrors):
		apierrors.RuleViolation(c, http.StatusUnprocessableEntity, err.Error(), nil)
	default:
		apierrors.InternalServerError(c, "Failed to "+action, err)
	}
}

// writeOperationError answers the tax-return operations with the flat
// {"error": message} body for every failure, adding the validation findings
// when a lock is refused.
func writeOperationError(c *gin.Context, err error) {
	var refused *services.LockRefusedError
	switch {
	case errors.As(err, &refused):
		apierrors.RuleViolation(c, http.StatusUnprocessableEntity, refused.Error(), gin.H{"validation": refused.Validation})
	case isAny(err, notFoundErrors):
		apierrors.RuleViolation(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidInput):
		apierrors.RuleViolation(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, store.ErrVersionConflict):
		apierrors.RuleViolation(c, http.StatusConflict, err.Error(), nil)
	case isAny(err, ruleErrors):
		apierrors.RuleViolation(c, http.StatusUnprocessableEntity, err.Error(), nil)
	default:
		apierrors.InternalServerError(c, "Tax return operation failed", err)
	}
}
