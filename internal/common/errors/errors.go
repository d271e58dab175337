// internal/common/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

type ErrorCode string

const (
	ErrCodeInvalidEnumValue    ErrorCode = "INVALID_ENUM_VALUE"
	ErrCodeInvalidInput        ErrorCode = "INVALID_INPUT"
	ErrCodeInputParsingFailed  ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeMissingDispatchData ErrorCode = "MISSING_DISPATCH_FIELDS"

	ErrCodeDispatchWebhookFailed ErrorCode = "DISPATCH_WEBHOOK_FAILED"
	ErrCodeRecordEmailFailed     ErrorCode = "RECORD_EMAIL_FAILED"
	ErrCodeCrisisAlertFailed     ErrorCode = "CRISIS_ALERT_FAILED"
	ErrCodeFollowUpStartFailed   ErrorCode = "FOLLOW_UP_START_FAILED"

	ErrCodeReportRenderFailed ErrorCode = "REPORT_RENDER_FAILED"
	ErrCodeReportTimeout      ErrorCode = "REPORT_TIMEOUT"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the error shape returned across service boundaries and
// converted to BPMN errors inside job workers.
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

// Field returns the offending input field recorded on validation errors.
func (e *StandardError) Field() string {
	if e.Metadata == nil {
		return ""
	}
	f, _ := e.Metadata["field"].(string)
	return f
}

// ==========================
// 2. BPMN Error
// ==========================

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

// ToErrorVariables flattens the error into process variables.
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
// 3. Constructors
// ==========================

// NewInvalidEnumError reports a categorical answer outside its declared set.
func NewInvalidEnumError(field, value string, allowed []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidEnumValue,
		Message:   fmt.Sprintf("%s must be one of %v", field, allowed),
		Details:   fmt.Sprintf("field: %s, value: %q", field, value),
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field, "value": value},
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidInputError(field, reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   fmt.Sprintf("%s %s", field, reason),
		Details:   fmt.Sprintf("field: %s", field),
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

// NewDiagnosticInputError maps an engine validation failure onto the enum or
// generic input code.
func NewDiagnosticInputError(field, value, reason string, allowed []string) *StandardError {
	if len(allowed) > 0 {
		return NewInvalidEnumError(field, value, allowed)
	}
	return NewInvalidInputError(field, reason)
}

func NewInputParsingError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputParsingFailed,
		Message:   "Failed to parse diagnostic input",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewMissingDispatchFieldsError(fields ...string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingDispatchData,
		Message:   "Missing required fields: " + strings.Join(fields, ", "),
		Retryable: false,
		Metadata:  map[string]interface{}{"fields": fields},
		Timestamp: time.Now().UTC(),
	}
}

func NewDispatchWebhookError(status int, err error) *StandardError {
	details := fmt.Sprintf("status: %d", status)
	if err != nil {
		details = fmt.Sprintf("status: %d, error: %s", status, err.Error())
	}
	return &StandardError{
		Code:      ErrCodeDispatchWebhookFailed,
		Message:   "Diagnostic webhook delivery failed",
		Details:   details,
		Retryable: true,
		Metadata:  map[string]interface{}{"status": status},
		Timestamp: time.Now().UTC(),
	}
}

func NewRecordEmailError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordEmailFailed,
		Message:   "Failed to e-mail diagnostic record",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewCrisisAlertError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCrisisAlertFailed,
		Message:   "Failed to publish crisis alert",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewFollowUpStartError(processID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFollowUpStartFailed,
		Message:   "Failed to start follow-up process",
		Details:   fmt.Sprintf("processId: %s, error: %s", processID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewReportRenderError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportRenderFailed,
		Message:   "Failed to render diagnostic report",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewReportTimeoutError(timeout time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportTimeout,
		Message:   "Report rendering timed out",
		Details:   fmt.Sprintf("timeout: %s", timeout),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. BPMN Mapping
// ==========================

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidEnumValue:      "INVALID_ENUM_VALUE",
	ErrCodeInvalidInput:          "INVALID_DIAGNOSTIC_INPUT",
	ErrCodeInputParsingFailed:    "INVALID_DIAGNOSTIC_INPUT",
	ErrCodeMissingDispatchData:   "INVALID_DISPATCH_REQUEST",
	ErrCodeDispatchWebhookFailed: "DISPATCH_FAILED",
	ErrCodeRecordEmailFailed:     "DISPATCH_FAILED",
	ErrCodeCrisisAlertFailed:     "DISPATCH_FAILED",
	ErrCodeFollowUpStartFailed:   "DISPATCH_FAILED",
	ErrCodeReportRenderFailed:    "REPORT_FAILED",
	ErrCodeReportTimeout:         "REPORT_FAILED",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDispatchWebhookFailed,
		ErrCodeRecordEmailFailed,
		ErrCodeCrisisAlertFailed,
		ErrCodeFollowUpStartFailed,
		ErrCodeCacheUnavailable:
		return 3

	case ErrCodeReportRenderFailed,
		ErrCodeReportTimeout:
		return 2

	default:
		return 0 // validation errors are never retried
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, ok := BPMNErrorMapping[stdErr.Code]
	if !ok {
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
	if f := stdErr.Field(); f != "" {
		vars["errorField"] = f
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

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	s := string(code)
	switch {
	case strings.Contains(s, "INVALID") || strings.Contains(s, "MISSING") || strings.Contains(s, "PARSING"):
		return "VALIDATION"
	case strings.Contains(s, "WEBHOOK") || strings.Contains(s, "EMAIL") || strings.Contains(s, "ALERT") || strings.Contains(s, "FOLLOW_UP"):
		return "DISPATCH"
	case strings.Contains(s, "REPORT"):
		return "REPORT"
	case strings.Contains(s, "CACHE"):
		return "CACHE"
	default:
		return "INTERNAL"
	}
}

// AsStandardError unwraps err into a *StandardError, wrapping unknown errors
// as INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
