package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/bikeshare/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

var statusByCode = map[string]int{
	apperrors.CodeInvalidInput:    http.StatusBadRequest,
	apperrors.CodeUnauthorized:    http.StatusUnauthorized,
	apperrors.CodeForbidden:       http.StatusForbidden,
	apperrors.CodeNotFound:        http.StatusNotFound,
	apperrors.CodeConflict:        http.StatusConflict,
	apperrors.CodeDataUnavailable: http.StatusServiceUnavailable,
}

// fromAppError translates a domain error into its transport representation.
// Unavailable errors hide the store failure from the client.
func fromAppError(err error) *HTTPError {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return asHTTPError(err)
	}
	status, ok := statusByCode[appErr.Code]
	if !ok {
		return asHTTPError(err)
	}
	message := appErr.Message
	if appErr.Code != apperrors.CodeDataUnavailable && appErr.Err != nil {
		message = appErr.Error()
	}
	return NewHTTPError(status, appErr.Code, message, err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func badRequest(c *gin.Context, message string, err error) {
	abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", message, err))
}
