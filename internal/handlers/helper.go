package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/exam-service/internal/middleware"
	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/gin-gonic/gin"
)

// parseIDParam writes a 400 and returns 0 when the path parameter is not a
// positive integer
func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	idStr := strings.TrimSpace(c.Param(param))
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		details := "ID must be a positive integer"
		if err != nil {
			details = err.Error()
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: details,
		})
		return 0
	}
	return uint(id)
}

// parseUintQuery returns nil for an absent parameter and false after
// writing a 400 for a malformed one
func (h *BaseHandler) parseUintQuery(c *gin.Context, param string) (*uint, bool) {
	valueStr := strings.TrimSpace(c.Query(param))
	if valueStr == "" {
		return nil, true
	}
	value, err := strconv.ParseUint(valueStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: err.Error(),
		})
		return nil, false
	}
	v := uint(value)
	return &v, true
}

// bindJSON writes a 400 when the body is not valid JSON for req
func (h *BaseHandler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// principal returns the caller set by the auth middleware, writing a 401
// when the route was mounted without it
func (h *BaseHandler) principal(c *gin.Context) (services.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return services.Principal{}, false
	}
	return p, true
}

// handleServiceError maps service errors onto status codes and client messages
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", nil, validationErrors)
		return
	}

	var inputErr *services.InputError
	if errors.As(err, &inputErr) {
		h.RespondWithError(c, http.StatusBadRequest, inputErr.Message, nil)
		return
	}

	switch {
	// 400
	case errors.Is(err, services.ErrInvalidToken):
		h.RespondWithError(c, http.StatusBadRequest, "Invalid or expired token", nil)
	case errors.Is(err, services.ErrInvalidResetToken):
		h.RespondWithError(c, http.StatusBadRequest, "Invalid or expired reset token", nil)
	case errors.Is(err, services.ErrNoFieldsToUpdate):
		h.RespondWithError(c, http.StatusBadRequest, "No fields to update", nil)
	case errors.Is(err, services.ErrUnsupportedFile):
		h.RespondWithError(c, http.StatusBadRequest, "Only CSV or XLSX files supported", nil)

	// 401
	case errors.Is(err, services.ErrInvalidCredentials):
		h.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials", nil)
	case errors.Is(err, services.ErrEmailNotVerified):
		h.RespondWithError(c, http.StatusUnauthorized, "Please verify your email", nil)
	case errors.Is(err, services.ErrUnauthorized):
		h.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", nil)

	// 404
	case errors.Is(err, services.ErrUserNotFound):
		h.RespondWithError(c, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, services.ErrSubjectNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Subject not found", nil)
	case errors.Is(err, services.ErrQuestionNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Question not found", nil)
	case errors.Is(err, services.ErrTestNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Test not found", nil)
	case errors.Is(err, services.ErrAttemptNotFound):
		h.RespondWithError(c, http.StatusNotFound, "No attempt found", nil)

	// 409
	case errors.Is(err, services.ErrUserExists):
		h.RespondWithError(c, http.StatusConflict, "User already exists", nil)
	case errors.Is(err, services.ErrSubjectExists):
		h.RespondWithError(c, http.StatusConflict, "Subject already exists", nil)
	case errors.Is(err, services.ErrQuestionInUse):
		h.RespondWithError(c, http.StatusConflict, "Question is used by one or more tests", nil)
	case errors.Is(err, services.ErrAlreadyAttempted):
		h.RespondWithError(c, http.StatusConflict, "Already attempted", nil)

	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
