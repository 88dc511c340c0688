package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	contextutils "feedbackapp/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/test", func(c *gin.Context) {
		HandleAppError(c, err)
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleAppError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", contextutils.ErrValidationFailed, http.StatusBadRequest},
		{"unauthorized", contextutils.ErrUnauthorized, http.StatusUnauthorized},
		{"invalid credentials", contextutils.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", contextutils.ErrForbidden, http.StatusForbidden},
		{"not found", contextutils.ErrRecordNotFound, http.StatusNotFound},
		{"duplicate", contextutils.ErrRecordExists, http.StatusConflict},
		{"storage", contextutils.ErrStorageFailure, http.StatusInternalServerError},
		{"internal", contextutils.ErrInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveError(t, tt.err)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandleAppError_WrappedErrorKeepsStatus(t *testing.T) {
	wrapped := contextutils.WrapError(contextutils.ErrRecordNotFound, "loading project")
	w := serveError(t, wrapped)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleAppError_PlainErrorIs500WithoutLeak(t *testing.T) {
	w := serveError(t, fmt.Errorf("dial tcp: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", response["code"])
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestHandleAppError_StorageDetailsDoNotLeak(t *testing.T) {
	wrapped := contextutils.WrapError(fmt.Errorf("dial tcp 10.0.0.1: connection refused"), "failed to insert feedback")
	w := serveError(t, wrapped)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestHandleValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/test", func(c *gin.Context) {
		HandleValidationError(c, "projectId is required")
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "VALIDATION_FAILED", response["code"])
	assert.Equal(t, "projectId is required", response["message"])
}
