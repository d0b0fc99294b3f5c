package apperrors

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrDomainNotDetected     ErrorType = "DOMAIN_NOT_DETECTED"
	ErrDomainNotAuthorized   ErrorType = "DOMAIN_NOT_AUTHORIZED"
	ErrDomainDisabled        ErrorType = "DOMAIN_DISABLED"
	ErrTenantMisconfigured   ErrorType = "TENANT_MISCONFIGURED"
	ErrInvalidAddress        ErrorType = "INVALID_ADDRESS"
	ErrInsufficientFunds     ErrorType = "INSUFFICIENT_SERVER_FUNDS"
	ErrTransferFailed        ErrorType = "TRANSFER_FAILED"
	ErrTransferStatusUnknown ErrorType = "TRANSFER_STATUS_UNKNOWN"
	ErrUnauthorized          ErrorType = "UNAUTHORIZED"
	ErrInvalidRequest        ErrorType = "INVALID_REQUEST"
	ErrNotFound              ErrorType = "NOT_FOUND"
	ErrInternal              ErrorType = "INTERNAL_ERROR"
	ErrUpstream              ErrorType = "UPSTREAM_ERROR"
)

// AppError is the standard error struct for the application
type AppError struct {
	Type       ErrorType              `json:"code"`
	Message    string                 `json:"message"`
	Suggestion string                 `json:"suggestion,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
	Cause      error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(errType ErrorType, msg string, cause error) *AppError {
	return &AppError{
		Type:       errType,
		Message:    msg,
		Cause:      cause,
		HTTPStatus: mapTypeToStatus(errType),
		Suggestion: mapTypeToSuggestion(errType),
	}
}

func Newf(errType ErrorType, format string, args ...interface{}) *AppError {
	return New(errType, fmt.Sprintf(format, args...), nil)
}

// WithDetails attaches machine-readable context to the error response,
// e.g. current vs required balance on a funding failure.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

func NewInvalidRequest(msg string) *AppError {
	return New(ErrInvalidRequest, msg, nil)
}

func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return New(ErrInternal, err.Error(), err)
}

func Is(err error, t ErrorType) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == t
}

func mapTypeToStatus(t ErrorType) int {
	switch t {
	case ErrDomainNotDetected, ErrDomainNotAuthorized, ErrDomainDisabled:
		return http.StatusForbidden
	case ErrInvalidAddress, ErrInvalidRequest:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrNotFound:
		return http.StatusNotFound
	case ErrUpstream:
		return http.StatusBadGateway
	case ErrTenantMisconfigured, ErrInsufficientFunds, ErrTransferFailed, ErrTransferStatusUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func mapTypeToSuggestion(t ErrorType) string {
	switch t {
	case ErrDomainNotDetected:
		return "Send an Origin, Host or Referer header identifying the site."
	case ErrDomainNotAuthorized:
		return "Register the domain via the admin API."
	case ErrDomainDisabled:
		return "Re-enable the domain via the admin API."
	case ErrTenantMisconfigured:
		return "Configure a wallet address and a signing key for the domain."
	case ErrInsufficientFunds:
		return "Top up the tenant wallet."
	case ErrTransferStatusUnknown:
		return "Check the transaction on-chain before retrying."
	case ErrUnauthorized:
		return "Check the admin key."
	default:
		return ""
	}
}
