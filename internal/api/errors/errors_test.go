package errors

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_HTTPStatus(t *testing.T) {
	tests := []struct {
		err    *APIError
		status int
	}{
		{NewValidationError("Validation failed", nil), http.StatusBadRequest},
		{NewBadRequestError("No image file uploaded."), http.StatusBadRequest},
		{NewNotFoundError("record"), http.StatusNotFound},
		{NewPayloadTooLargeError(26 << 20), http.StatusRequestEntityTooLarge},
		{NewInternalError("boom"), http.StatusInternalServerError},
		{NewProcessSpawnError("OCR failed to start.", "exec: not found"), http.StatusInternalServerError},
		{NewProcessExitError("OCR processing failed.", "boom"), http.StatusInternalServerError},
		{NewOutputParseError("Failed to parse OCR results.", "oops"), http.StatusInternalServerError},
		{NewScriptFailureError("voice unavailable"), http.StatusInternalServerError},
		{NewTimeoutError("OCR timed out."), http.StatusGatewayTimeout},
		{NewUpstreamError("ML service down"), http.StatusInternalServerError},
		{NewServiceUnavailableError("busy"), http.StatusServiceUnavailable},
		{NewCanceledError("gone"), StatusClientClosedRequest},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
		})
	}
}

func TestNewPayloadTooLargeError(t *testing.T) {
	err := NewPayloadTooLargeError(26 << 20)
	assert.Equal(t, "Request body too large (limit 26 MB).", err.Message)
}

func TestAPIError_JSONShape(t *testing.T) {
	t.Run("exit error carries details", func(t *testing.T) {
		body, err := json.Marshal(NewProcessExitError("TTS processing failed.", "boom"))
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &decoded))
		assert.Equal(t, false, decoded["success"])
		assert.Equal(t, "TTS processing failed.", decoded["error"])
		assert.Equal(t, "boom", decoded["details"])
		assert.NotContains(t, decoded, "raw_output")
	})

	t.Run("parse error keeps empty raw output", func(t *testing.T) {
		body, err := json.Marshal(NewOutputParseError("Failed to parse OCR results.", ""))
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &decoded))
		assert.Contains(t, decoded, "raw_output")
		assert.Equal(t, "", decoded["raw_output"])
	})
}
