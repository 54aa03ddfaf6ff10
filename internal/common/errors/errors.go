// Package errors provides standardized error handling for the application
// review workflow.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeIneligibleApplicant ErrorCode = "INELIGIBLE_APPLICANT"
	ErrCodeStaleDecision       ErrorCode = "STALE_DECISION"
	ErrCodeGrantChannelFailed  ErrorCode = "GRANT_CHANNEL_FAILED"
	ErrCodeNotificationFailed  ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeRecordStoreFailed   ErrorCode = "RECORD_STORE_FAILED"
	ErrCodeSessionStoreFailed  ErrorCode = "SESSION_STORE_FAILED"
	ErrCodeTransportFailure    ErrorCode = "TRANSPORT_FAILURE"
	ErrCodeInvalidToken        ErrorCode = "INVALID_TOKEN"
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

// NewIneligibleApplicantError flags an applicant the eligibility policy turned
// away. The details string is the user-visible reason.
func NewIneligibleApplicantError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIneligibleApplicant,
		Message:   "Applicant is not eligible to submit an application",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStaleDecisionError flags a decision on an application that already
// reached a terminal status.
func NewStaleDecisionError(deciderName, status string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStaleDecision,
		Message:   "Application was already decided",
		Details:   fmt.Sprintf("decidedBy: %s, status: %s", deciderName, status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGrantChannelError creates a retryable grant-channel error. The decision
// must not be finalized while this error stands.
func NewGrantChannelError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGrantChannelFailed,
		Message:   "Whitelist command failed on the grant channel",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationError creates a retryable notification delivery error.
// Notification failures are advisory and never roll back a decision.
func NewNotificationError(recipientType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("recipientType: %s, error: %s", recipientType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordStoreError creates a retryable record store error.
func NewRecordStoreError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordStoreFailed,
		Message:   "Record store operation failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionStoreError creates a retryable session store error.
func NewSessionStoreError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStoreFailed,
		Message:   "Session store operation failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportError creates a retryable inbound transport error. The service
// loop reacts with a fixed backoff, never a crash.
func NewTransportError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransportFailure,
		Message:   "Inbound event stream disrupted",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTokenError flags an inbound callback payload the codec could not
// decode.
func NewInvalidTokenError(token string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidToken,
		Message:   "Callback token is malformed",
		Details:   fmt.Sprintf("token: %q", token),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsRetryable reports whether err is a StandardError marked retryable.
func IsRetryable(err error) bool {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Retryable
	}
	return false
}

// CodeOf returns the error code of a StandardError, or empty for other errors.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Code
	}
	return ""
}
