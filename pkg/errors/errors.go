package errors

import "fmt"

var (
	// Lifecycle
	ErrNotFound            = fmt.Errorf("record not found")
	ErrConflict            = fmt.Errorf("equipment is not available for this time period")
	ErrInvalidState        = fmt.Errorf("operation not permitted from the current state")
	ErrChecklistIncomplete = fmt.Errorf("all checklist items must be completed first")

	// Identity
	ErrNotAuthenticated        = fmt.Errorf("user is not authenticated")
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID not found in request context")

	// Tokens
	ErrInvalidSigningMethod = fmt.Errorf("invalid token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token has expired")
	ErrEmptyAuthHeader      = fmt.Errorf("authorization header is missing")
	ErrInvalidAuthHeader    = fmt.Errorf("invalid authorization header format")

	// Common
	ErrBadRequest = fmt.Errorf("invalid request")
)

type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// HttpError carries the status code a controller wants to answer with,
// wrapping the underlying cause for logging.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}
