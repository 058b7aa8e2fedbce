package errors

import "fmt"

var (
	// Session tokens
	ErrInvalidSigningMethod = fmt.Errorf("invalid token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token has expired")
	ErrTokenNotYetValid     = fmt.Errorf("token is not yet valid")

	// Session scope
	ErrEmptyAuthHeader       = fmt.Errorf("authorization header is missing")
	ErrInvalidAuthHeader     = fmt.Errorf("malformed authorization header")
	ErrSessionNotFound       = fmt.Errorf("session not found or expired")
	ErrSessionIDNotInContext = fmt.Errorf("session id not found in request context")
	ErrUnsavedChanges        = fmt.Errorf("session has unsaved changes")

	// Generic
	ErrNotFound   = fmt.Errorf("record not found")
	ErrBadRequest = fmt.Errorf("bad request")
	ErrConflict   = fmt.Errorf("conflict")
)

// HttpError carries an HTTP status alongside a user-facing message and the
// internal cause for logging.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

// WithDetails attaches a payload rendered in the error response body,
// e.g. a list of rule violations.
func (e *HttpError) WithDetails(details interface{}) *HttpError {
	e.Details = details
	return e
}

// NewBadRequestError is the shorthand for malformed request payloads.
func NewBadRequestError(message string) *HttpError {
	return &HttpError{Code: 400, Message: message, Err: ErrBadRequest}
}

// InvalidInputError marks business-rule rejections distinct from transport errors.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
