package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pardna/paylink/pkg/crm"
	"github.com/pardna/paylink/pkg/linkapi"
)

// ErrorInfo is the error object returned in JSON error bodies.
type ErrorInfo struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

func (e *ErrorInfo) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

var (
	// ErrAlreadyConfirmed guards against duplicate payment initiation
	// for the same reference id.
	ErrAlreadyConfirmed = &ErrorInfo{Code: "already_confirmed", Description: "Already Confirmed"}
	// ErrNotFound covers sandbox-only endpoints hit outside sandbox.
	ErrNotFound = &ErrorInfo{Code: "not_found", Description: "not available in this environment"}
)

// SessionError reports a session missing a field an endpoint depends
// on, such as the reference id at confirmation time.
type SessionError struct {
	Missing string
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session is missing %s", e.Missing)
}

type errorBody struct {
	Error any `json:"error"`
}

// errorStatus maps the error taxonomy to HTTP status codes: duplicate
// initiation 409, sandbox-only 404, session problems 400, anything
// upstream 502.
func errorStatus(err error) int {
	var (
		sessionErr *SessionError
		httpErr    *echo.HTTPError
	)
	switch {
	case errors.Is(err, ErrAlreadyConfirmed):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &sessionErr):
		return http.StatusBadRequest
	case errors.As(err, &httpErr):
		return httpErr.Code
	}
	return http.StatusBadGateway
}

// jsonError renders err as a JSON error body. Upstream API errors are
// passed through verbatim so the front end sees the original payload.
func jsonError(c echo.Context, err error) error {
	status := errorStatus(err)

	var body errorBody
	var apiErr *linkapi.Error
	var shapeErr *crm.ShapeError
	var info *ErrorInfo
	var sessionErr *SessionError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &apiErr):
		body.Error = apiErr
	case errors.As(err, &info):
		body.Error = info
	case errors.As(err, &sessionErr):
		body.Error = &ErrorInfo{Code: "session_error", Description: sessionErr.Error()}
	case errors.As(err, &shapeErr):
		body.Error = &ErrorInfo{Code: "upstream_api_error", Description: shapeErr.Error()}
	case errors.As(err, &httpErr):
		body.Error = &ErrorInfo{Code: "invalid_request", Description: fmt.Sprint(httpErr.Message)}
	default:
		body.Error = &ErrorInfo{Code: "upstream_api_error", Description: err.Error()}
	}

	return c.JSON(status, body)
}

// renderError is the page-endpoint counterpart of jsonError.
func renderError(c echo.Context, err error) error {
	slog.Error("page error", "error", err, "path", c.Path())
	return c.Render(errorStatus(err), "error.html", map[string]any{
		"Error": err.Error(),
	})
}

// ErrorLogMiddleware logs every error leaving a handler.
func ErrorLogMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if err != nil {
			slog.Error("Error", "error", err, "path", c.Path(), "remote_addr", c.RealIP())
		}
		return err
	}
}
