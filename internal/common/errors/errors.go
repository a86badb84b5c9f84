// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInputParseFailed          ErrorCode = "INPUT_PARSE_FAILED"
	ErrCodeInputValidationFailed     ErrorCode = "INPUT_VALIDATION_FAILED"
	ErrCodeMalformedFallbackEncoding ErrorCode = "MALFORMED_FALLBACK_ENCODING"
	ErrCodeOrchestrationFailed       ErrorCode = "ORCHESTRATION_FAILED"
	ErrCodeUnknownSection            ErrorCode = "UNKNOWN_SECTION"
	ErrCodeRenderFailed              ErrorCode = "RENDER_FAILED"
	ErrCodeInternal                  ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata returns e with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInputParseError is raised when job variables cannot be decoded.
func NewInputParseError(err error) *StandardError {
	return newError(ErrCodeInputParseFailed, "Failed to parse job input", err.Error(), false)
}

// NewInputValidationError is raised when a decoded input is structurally invalid.
func NewInputValidationError(details string) *StandardError {
	return newError(ErrCodeInputValidationFailed, "Input validation failed", details, false)
}

// NewMalformedFallbackError is raised when an encoded fallback collection is not valid JSON.
func NewMalformedFallbackError(err error) *StandardError {
	return newError(ErrCodeMalformedFallbackEncoding, "Fallback collection is not valid JSON", err.Error(), false)
}

// NewOrchestrationError is raised when both the concurrent and the sequential
// import runs fail.
func NewOrchestrationError(err error) *StandardError {
	return newError(ErrCodeOrchestrationFailed, "Document import failed", err.Error(), true)
}

func NewUnknownSectionError(section string) *StandardError {
	return newError(ErrCodeUnknownSection, "Unknown business plan section", fmt.Sprintf("section: %s", section), false)
}

func NewRenderError(err error) *StandardError {
	return newError(ErrCodeRenderFailed, "Failed to render business plan", err.Error(), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInputParseFailed:          "INPUT_PARSE_FAILED",
	ErrCodeInputValidationFailed:     "INPUT_VALIDATION_FAILED",
	ErrCodeMalformedFallbackEncoding: "MALFORMED_FALLBACK_ENCODING",
	ErrCodeOrchestrationFailed:       "ORCHESTRATION_FAILED",
	ErrCodeUnknownSection:            "UNKNOWN_SECTION",
	ErrCodeRenderFailed:              "RENDER_FAILED",
	ErrCodeInternal:                  "INTERNAL_ERROR",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeOrchestrationFailed:
		return 3
	case ErrCodeRenderFailed:
		return 1
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "INPUT"), strings.Contains(codeStr, "MALFORMED"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SECTION"):
		return "CATALOG"
	case strings.Contains(codeStr, "ORCHESTRATION"):
		return "IMPORT"
	case strings.Contains(codeStr, "RENDER"):
		return "RENDER"
	default:
		return "OTHER"
	}
}
