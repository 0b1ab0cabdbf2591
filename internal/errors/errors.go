// Package errors provides custom error types for the Esusu API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Retryable reports whether the caller may resubmit the operation.
// Integrity violations and internal failures are not retryable.
func (e *AppError) Retryable() bool {
	return e.StatusCode < http.StatusInternalServerError
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrNotCircleMember    = &AppError{Code: "NOT_CIRCLE_MEMBER", Message: "You are not a member of this circle", StatusCode: http.StatusForbidden}
	ErrNotCircleAdmin     = &AppError{Code: "NOT_CIRCLE_ADMIN", Message: "Only a circle admin may perform this action", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Circle errors.
var (
	ErrCircleNotFound       = &AppError{Code: "CIRCLE_NOT_FOUND", Message: "Circle not found", StatusCode: http.StatusNotFound}
	ErrInvalidInviteCode    = &AppError{Code: "INVALID_INVITE_CODE", Message: "No circle matches this invite code", StatusCode: http.StatusNotFound}
	ErrAlreadyMember        = &AppError{Code: "ALREADY_MEMBER", Message: "You are already a member of this circle", StatusCode: http.StatusConflict}
	ErrCircleNotJoinable    = &AppError{Code: "CIRCLE_NOT_JOINABLE", Message: "This circle is no longer accepting members", StatusCode: http.StatusConflict}
	ErrCircleNotStartable   = &AppError{Code: "CIRCLE_NOT_STARTABLE", Message: "The circle does not meet the start requirements", StatusCode: http.StatusConflict}
	ErrCircleNotActive      = &AppError{Code: "CIRCLE_NOT_ACTIVE", Message: "The circle has not been started", StatusCode: http.StatusConflict}
	ErrCircleAlreadyStarted = &AppError{Code: "CIRCLE_ALREADY_STARTED", Message: "The circle has already been started", StatusCode: http.StatusConflict}
	ErrCircleCompleted      = &AppError{Code: "CIRCLE_COMPLETED", Message: "The circle has completed its rotation", StatusCode: http.StatusConflict}
)

// Member errors.
var (
	ErrMemberNotFound      = &AppError{Code: "MEMBER_NOT_FOUND", Message: "Member not found", StatusCode: http.StatusNotFound}
	ErrMemberNotInRotation = &AppError{Code: "MEMBER_NOT_IN_ROTATION", Message: "Member does not hold a payout position", StatusCode: http.StatusConflict}
)

// Ledger errors.
var (
	ErrTransactionNotFound      = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrContributionWindowClosed = &AppError{Code: "CONTRIBUTION_WINDOW_CLOSED", Message: "A contribution for the current cycle already exists", StatusCode: http.StatusConflict}
	ErrInvalidStatusTransition  = &AppError{Code: "INVALID_STATUS_TRANSITION", Message: "The transaction status cannot change this way", StatusCode: http.StatusConflict}
	ErrInsufficientPool         = &AppError{Code: "INSUFFICIENT_POOL", Message: "The payout exceeds the available pool", StatusCode: http.StatusConflict}
)

// Rotation errors.
var (
	ErrRotationNotInitialized     = &AppError{Code: "ROTATION_NOT_INITIALIZED", Message: "The payout rotation has not been initialized", StatusCode: http.StatusConflict}
	ErrRotationAlreadyInitialized = &AppError{Code: "ROTATION_ALREADY_INITIALIZED", Message: "The payout rotation is already initialized", StatusCode: http.StatusConflict}
	ErrRotationComplete           = &AppError{Code: "ROTATION_COMPLETE", Message: "Every member has already received a payout", StatusCode: http.StatusConflict}
)

// Integrity errors are hard failures: the stored ledger or rotation state
// violates an invariant. They are surfaced for manual reconciliation and
// never auto-corrected.
var (
	ErrLedgerIntegrity   = &AppError{Code: "LEDGER_INTEGRITY", Message: "The circle ledger is in an inconsistent state", StatusCode: http.StatusInternalServerError}
	ErrRotationIntegrity = &AppError{Code: "ROTATION_INTEGRITY", Message: "The payout rotation is in an inconsistent state", StatusCode: http.StatusInternalServerError}
)
