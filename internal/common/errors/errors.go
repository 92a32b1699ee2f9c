// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
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
	ErrCodeDatasetLoadFailed ErrorCode = "DATASET_LOAD_FAILED"
	ErrCodeDatasetNotFound   ErrorCode = "DATASET_NOT_FOUND"
	ErrCodeDatasetInvalid    ErrorCode = "DATASET_INVALID"

	ErrCodeAgentNotFound    ErrorCode = "AGENT_NOT_FOUND"
	ErrCodeCampaignNotFound ErrorCode = "CAMPAIGN_NOT_FOUND"

	ErrCodeInvalidInput         ErrorCode = "INVALID_INPUT"
	ErrCodeInputParsingFailed   ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeUnsupportedAction    ErrorCode = "UNSUPPORTED_ACTION"
	ErrCodeStorageReadFailed    ErrorCode = "STORAGE_READ_FAILED"
	ErrCodeStorageWriteFailed   ErrorCode = "STORAGE_WRITE_FAILED"
	ErrCodeStorageWriteConflict ErrorCode = "STORAGE_WRITE_CONFLICT"

	ErrCodeWorkflowUnavailable ErrorCode = "WORKFLOW_ENGINE_UNAVAILABLE"
	ErrCodeWorkflowTimeout     ErrorCode = "WORKFLOW_ENGINE_TIMEOUT"
	ErrCodeWorkflowRejected    ErrorCode = "WORKFLOW_ENGINE_REJECTED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// As returns the StandardError in err's chain, if there is one.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := As(err)
	return ok && stdErr.Code == code
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

// NewDatasetLoadError reports that one of a dataset's documents could not be
// read or decoded. doc may be empty when the failure is not document specific.
func NewDatasetLoadError(dataset, doc string, err error) *StandardError {
	details := fmt.Sprintf("dataset: %s", dataset)
	if doc != "" {
		details += fmt.Sprintf(", document: %s", doc)
	}
	if err != nil {
		details += fmt.Sprintf(", error: %s", err.Error())
	}
	return &StandardError{
		Code:      ErrCodeDatasetLoadFailed,
		Message:   fmt.Sprintf("Failed to load dataset %q", dataset),
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"dataset": dataset, "document": doc},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewDatasetNotFoundError creates a non-retryable unknown dataset error.
func NewDatasetNotFoundError(dataset string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatasetNotFound,
		Message:   "Dataset not found",
		Details:   fmt.Sprintf("dataset: %s", dataset),
		Retryable: false,
		Metadata:  map[string]interface{}{"dataset": dataset},
		Timestamp: time.Now().UTC(),
	}
}

// NewDatasetInvalidError carries the structural validation messages.
func NewDatasetInvalidError(dataset string, problems []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatasetInvalid,
		Message:   "Dataset failed structural validation",
		Details:   strings.Join(problems, "; "),
		Retryable: false,
		Metadata:  map[string]interface{}{"dataset": dataset, "errors": problems},
		Timestamp: time.Now().UTC(),
	}
}

// NewAgentNotFoundError creates a non-retryable unknown agent error.
func NewAgentNotFoundError(agentID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAgentNotFound,
		Message:   "Agent not found in active dataset",
		Details:   fmt.Sprintf("agentId: %s", agentID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCampaignNotFoundError creates a non-retryable unknown campaign error.
func NewCampaignNotFoundError(campaignID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCampaignNotFound,
		Message:   "Campaign not found",
		Details:   fmt.Sprintf("campaignId: %s", campaignID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError creates a non-retryable input validation error.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Invalid job input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInputParsingError wraps a failure to decode job variables.
func NewInputParsingError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputParsingFailed,
		Message:   "Failed to parse job variables",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewUnsupportedActionError creates a non-retryable unknown action error.
func NewUnsupportedActionError(action string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedAction,
		Message:   "Unsupported action",
		Details:   fmt.Sprintf("action: %s", action),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageReadError creates a retryable storage read error.
func NewStorageReadError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageReadFailed,
		Message:   "Local store read failed",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewStorageWriteError creates a retryable storage write error.
func NewStorageWriteError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageWriteFailed,
		Message:   "Local store write failed",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewStorageWriteConflictError reports that optimistic retries were exhausted.
func NewStorageWriteConflictError(key string, attempts int) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageWriteConflict,
		Message:   "Concurrent writes kept conflicting",
		Details:   fmt.Sprintf("key: %s, attempts: %d", key, attempts),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewWorkflowEngineError reports a failed gateway call. code must be one of
// the WORKFLOW_ENGINE_* codes; only rejections are terminal.
func NewWorkflowEngineError(code ErrorCode, operation string, err error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   fmt.Sprintf("Workflow engine operation '%s' failed", operation),
		Details:   err.Error(),
		Retryable: code != ErrCodeWorkflowRejected,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeDatasetLoadFailed:    "DATASET_LOAD_FAILED",
	ErrCodeDatasetNotFound:      "DATASET_NOT_FOUND",
	ErrCodeDatasetInvalid:       "DATASET_INVALID",
	ErrCodeAgentNotFound:        "AGENT_NOT_FOUND",
	ErrCodeCampaignNotFound:     "CAMPAIGN_NOT_FOUND",
	ErrCodeInvalidInput:         "INVALID_INPUT",
	ErrCodeInputParsingFailed:   "INVALID_INPUT",
	ErrCodeUnsupportedAction:    "INVALID_INPUT",
	ErrCodeStorageReadFailed:    "STORAGE_FAILED",
	ErrCodeStorageWriteFailed:   "STORAGE_FAILED",
	ErrCodeStorageWriteConflict: "STORAGE_FAILED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeStorageReadFailed,
		ErrCodeStorageWriteFailed:
		return 3
	case ErrCodeStorageWriteConflict:
		return 2
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

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "DATASET"):
		return "DATASET"
	case strings.HasPrefix(codeStr, "STORAGE"):
		return "STORAGE"
	case strings.HasPrefix(codeStr, "WORKFLOW"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "LOOKUP"
	case strings.Contains(codeStr, "INPUT") || strings.Contains(codeStr, "ACTION"):
		return "VALIDATION"
	default:
		return "INTERNAL"
	}
}

// CodeOf extracts the error code used for metrics labels.
func CodeOf(err error) string {
	if stdErr, ok := As(err); ok {
		return string(stdErr.Code)
	}
	return string(ErrCodeInternal)
}
