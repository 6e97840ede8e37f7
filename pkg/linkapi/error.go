package linkapi

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// Error is the upstream API error payload, returned verbatim to the
// caller when a request fails.
type Error struct {
	StatusCode     int    `json:"-"`
	ErrorType      string `json:"error_type"`
	ErrorCode      string `json:"error_code"`
	ErrorMessage   string `json:"error_message"`
	DisplayMessage string `json:"display_message,omitempty"`
	RequestID      string `json:"request_id,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s/%s: %s", e.ErrorType, e.ErrorCode, e.ErrorMessage)
}

// parseError decodes the error body of a non-2xx response.
func parseError(statusCode int, body io.Reader) error {
	apiErr := &Error{StatusCode: statusCode}
	if err := json.NewDecoder(body).Decode(apiErr); err != nil {
		return fmt.Errorf("unable to decode error (status %d): %w", statusCode, err)
	}
	return apiErr
}
