package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Authorization & Authentication (AUTH) ----

func ErrUnauthorized(operation string) *AppError {
	return New("AUTH_001", fmt.Sprintf("Caller not authorized for %s", operation), http.StatusForbidden)
}

func ErrInvalidCredentials() *AppError {
	return New("AUTH_002", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("AUTH_003", "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_004", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrInvalidAccessKey() *AppError {
	return New("AUTH_005", "Invalid access key", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("AUTH_006", "Invalid signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New("AUTH_007", "Request timestamp expired", http.StatusForbidden)
}

func ErrNonceUsed() *AppError {
	return New("AUTH_008", "Nonce has already been used", http.StatusForbidden)
}

// ---- Investment Pool Lifecycle (POOL) ----

func ErrInvalidAmount() *AppError {
	return New("POOL_001", "Amount must be positive", http.StatusBadRequest)
}

func ErrRoundClosed() *AppError {
	return New("POOL_002", "Round is no longer open for investment", http.StatusConflict)
}

func ErrAlreadyCompleted() *AppError {
	return New("POOL_003", "Round has already been completed", http.StatusConflict)
}

func ErrNotCompleted() *AppError {
	return New("POOL_004", "Round has not been completed", http.StatusConflict)
}

func ErrAlreadyVerified() *AppError {
	return New("POOL_005", "Round has already been verified", http.StatusConflict)
}

func ErrNotVerified() *AppError {
	return New("POOL_006", "Round has not been verified", http.StatusConflict)
}

func ErrAlreadyIssued() *AppError {
	return New("POOL_007", "Credits have already been issued for this round", http.StatusConflict)
}

func ErrCreditsNotIssued() *AppError {
	return New("POOL_008", "Credits have not been issued for this round", http.StatusConflict)
}

func ErrNoShare() *AppError {
	return New("POOL_009", "Caller holds no claimable share in this round", http.StatusUnprocessableEntity)
}

func ErrNotFound(entity string) *AppError {
	return New("POOL_010", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Offset Ledger (OFF) ----

func ErrInsufficientCentralBalance() *AppError {
	return New("OFF_001", "Insufficient balance in central custody account", http.StatusPaymentRequired)
}

func ErrInsufficientSourceBalance() *AppError {
	return New("OFF_002", "Insufficient balance in source account", http.StatusPaymentRequired)
}

// ---- External Ledger (LED) ----

func ErrLedgerCallFailed(err error) *AppError {
	return Wrap("LED_001", "External ledger call failed", http.StatusBadGateway, err)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_002", "Encryption service failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request-validation error.
func Validation(message string) *AppError {
	return New("POOL_001", message, http.StatusBadRequest)
}
