package errors

import "errors"

// Error codes shared by the domain services and the HTTP transport.
const (
	CodeInvalidInput    = "invalid_input"
	CodeNotFound        = "not_found"
	CodeConflict        = "conflict"
	CodeUnauthorized    = "unauthorized"
	CodeForbidden       = "forbidden"
	CodeDataUnavailable = "data_unavailable"
)

// AppError encodes domain specific error details.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	if err == nil {
		return &AppError{Code: code, Message: message}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// InvalidInput is shorthand for a caller mistake that carries no cause.
func InvalidInput(message string) error {
	return &AppError{Code: CodeInvalidInput, Message: message}
}

// NotFound reports a missing entity.
func NotFound(message string) error {
	return &AppError{Code: CodeNotFound, Message: message}
}

// Unavailable wraps a data store failure. The cause is kept for logging.
func Unavailable(message string, err error) error {
	return &AppError{Code: CodeDataUnavailable, Message: message, Err: err}
}

// IsCode helps handler differentiate failures.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost AppError, or "" when err carries none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
