package ipfabric

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAddr and ErrMissingToken report incomplete client configuration.
var (
	ErrMissingAddr  = errors.New("IP Fabric address is required")
	ErrMissingToken = errors.New("IP Fabric API token is required")
)

// maxErrorBody limits how much of a response body is kept in an APIError.
const maxErrorBody = 512

// APIError is returned for non-2xx API responses.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	msg := strings.TrimSpace(e.Body)
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}
	if msg == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, msg)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}
