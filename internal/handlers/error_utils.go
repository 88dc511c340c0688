package handlers

import (
	"errors"
	"net/http"

	contextutils "feedbackapp/internal/utils"

	"github.com/gin-gonic/gin"
)

// StandardizeAppError sends a structured error response for an AppError.
func StandardizeAppError(c *gin.Context, err *contextutils.AppError) {
	c.JSON(mapErrorCodeToHTTPStatus(err.Code), err.ToJSON())
}

// HandleAppError handles any error from the service layer and sends the
// matching HTTP response. Non-AppError values fall back to a 500.
func HandleAppError(c *gin.Context, err error) {
	var appErr *contextutils.AppError
	if errors.As(err, &appErr) {
		StandardizeAppError(c, appErr)
		return
	}
	fallback := contextutils.NewAppError(
		contextutils.ErrorCodeInternalError,
		contextutils.SeverityError,
		"Internal server error",
		"",
	)
	c.JSON(http.StatusInternalServerError, fallback.ToJSON())
}

// HandleValidationError reports a malformed request body or parameter.
func HandleValidationError(c *gin.Context, message string) {
	appErr := contextutils.NewAppError(
		contextutils.ErrorCodeValidationFailed,
		contextutils.SeverityWarn,
		message,
		"",
	)
	StandardizeAppError(c, appErr)
}

// mapErrorCodeToHTTPStatus maps AppError codes to HTTP status codes.
func mapErrorCodeToHTTPStatus(code contextutils.ErrorCode) int {
	switch code {
	case contextutils.ErrorCodeValidationFailed:
		return http.StatusBadRequest
	case contextutils.ErrorCodeUnauthorized, contextutils.ErrorCodeInvalidCredentials:
		return http.StatusUnauthorized
	case contextutils.ErrorCodeForbidden:
		return http.StatusForbidden
	case contextutils.ErrorCodeRecordNotFound:
		return http.StatusNotFound
	case contextutils.ErrorCodeRecordExists:
		return http.StatusConflict
	case contextutils.ErrorCodeStorageFailure, contextutils.ErrorCodeDiffingFault,
		contextutils.ErrorCodeInternalError:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
