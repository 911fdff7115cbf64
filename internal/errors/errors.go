package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

const (
	// Authentication & Authorization
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeSessionExpired  ErrorCode = "SESSION_EXPIRED"
	ErrCodeAccountLocked   ErrorCode = "ACCOUNT_LOCKED"
	ErrCodeAccountDisabled ErrorCode = "ACCOUNT_DISABLED"

	// Validation
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeMissingRequired ErrorCode = "MISSING_REQUIRED"
	ErrCodeInvalidDocument ErrorCode = "INVALID_DOCUMENT"
	ErrCodeAmountMismatch  ErrorCode = "AMOUNT_MISMATCH"

	// Resource
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// Rate Limiting
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"

	// Workflow gateway
	ErrCodeGatewayTimeout     ErrorCode = "GATEWAY_TIMEOUT"
	ErrCodeGatewayUnreachable ErrorCode = "GATEWAY_UNREACHABLE"
	ErrCodeGatewayResponse    ErrorCode = "GATEWAY_RESPONSE"
	ErrCodeEngineRejected     ErrorCode = "ENGINE_REJECTED"

	// Internal
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabase ErrorCode = "DATABASE_ERROR"
)

// AppError is a structured error that can be returned to clients
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause adds a cause to the error
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common error constructors

func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return New(ErrCodeForbidden, message)
}

func SessionExpired(message string) *AppError {
	return New(ErrCodeSessionExpired, message)
}

func AccountLocked(minutesLeft int) *AppError {
	return New(ErrCodeAccountLocked,
		fmt.Sprintf("Cuenta bloqueada temporalmente. Intenta en %d minutos.", minutesLeft))
}

func AccountDisabled() *AppError {
	return New(ErrCodeAccountDisabled, "Tu cuenta ha sido desactivada. Contacta a soporte.")
}

func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message)
}

func ValidationError(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func InvalidInput(field string, reason string) *AppError {
	return New(ErrCodeInvalidInput, fmt.Sprintf("Invalid %s: %s", field, reason))
}

func MissingRequired(message string) *AppError {
	return New(ErrCodeMissingRequired, message)
}

func InvalidDocument(message string) *AppError {
	return New(ErrCodeInvalidDocument, message)
}

func AmountMismatch(expected string) *AppError {
	return New(ErrCodeAmountMismatch,
		fmt.Sprintf("El monto ingresado no coincide con el monto del pedido ($%s).", expected))
}

func RateLimitExceeded() *AppError {
	return New(ErrCodeRateLimitExceeded, "Rate limit exceeded")
}

// Gateway errors. Timeout, unreachable, and bad-response carry three
// distinct user-facing messages; the transport detail stays in logs.

func GatewayTimeout() *AppError {
	return New(ErrCodeGatewayTimeout, "El servidor tardó demasiado en responder")
}

func GatewayUnreachable() *AppError {
	return New(ErrCodeGatewayUnreachable, "No se pudo conectar con el servicio de facturación")
}

func GatewayResponse() *AppError {
	return New(ErrCodeGatewayResponse, "Respuesta inválida del servidor")
}

func GatewayStatus(statusCode int) *AppError {
	return New(ErrCodeGatewayResponse, fmt.Sprintf("Error del servidor: %d", statusCode))
}

// EngineRejected carries the workflow engine's own message verbatim;
// the engine is a trusted collaborator.
func EngineRejected(message string) *AppError {
	if message == "" {
		message = "Error al procesar la factura"
	}
	return New(ErrCodeEngineRejected, message)
}

func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

func Database(cause error) *AppError {
	return Wrap(ErrCodeDatabase, "Error de conexión. Intenta nuevamente.", cause)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetCode returns the error code if the error is an AppError, otherwise returns ErrCodeInternal
func GetCode(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}
