package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{
			name:        "orchestration failure is retried",
			err:         NewOrchestrationError(fmt.Errorf("batch and sequential failed")),
			wantCode:    "ORCHESTRATION_FAILED",
			wantRetries: 3,
		},
		{
			name:        "malformed fallback is thrown",
			err:         NewMalformedFallbackError(fmt.Errorf("unexpected end of JSON input")),
			wantCode:    "MALFORMED_FALLBACK_ENCODING",
			wantRetries: 0,
		},
		{
			name:        "unknown section",
			err:         NewUnknownSectionError("executive-summary"),
			wantCode:    "UNKNOWN_SECTION",
			wantRetries: 0,
		},
		{
			name:        "unmapped code passes through",
			err:         &StandardError{Code: "SOMETHING_ELSE", Retryable: true},
			wantCode:    "SOMETHING_ELSE",
			wantRetries: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)
			assert.Equal(t, string(tt.err.Code), bpmn.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestBPMNError_ToErrorVariables(t *testing.T) {
	stdErr := NewInputValidationError("coverPage.statsCards: not an array").
		WithMetadata("section", "cover-page")
	vars := ConvertToBPMNError(stdErr).ToErrorVariables()

	assert.Equal(t, "INPUT_VALIDATION_FAILED", vars["errorCode"])
	assert.Equal(t, "coverPage.statsCards: not an array", vars["errorDetails"])
	assert.Equal(t, false, vars["retryable"])
	assert.Equal(t, "cover-page", vars["section"])
}

func TestNormalize(t *testing.T) {
	wrapped := fmt.Errorf("import: %w", NewRenderError(fmt.Errorf("template exec")))
	got := Normalize(wrapped)
	assert.Equal(t, ErrCodeRenderFailed, got.Code)

	plain := Normalize(stderrors.New("boom"))
	require.NotNil(t, plain)
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInputParseFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeMalformedFallbackEncoding))
	assert.Equal(t, "CATALOG", GetErrorCategory(ErrCodeUnknownSection))
	assert.Equal(t, "IMPORT", GetErrorCategory(ErrCodeOrchestrationFailed))
	assert.Equal(t, "RENDER", GetErrorCategory(ErrCodeRenderFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
	assert.True(t, IsRetryableErrorCode(ErrCodeOrchestrationFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeInputParseFailed))
}
