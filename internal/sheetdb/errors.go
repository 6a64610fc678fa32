package sheetdb

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingTab indicates the target tab has no header row (or does not exist).
	ErrMissingTab = errors.New("sheetdb: missing tab")
	// ErrMissingKeyColumn indicates the key column is absent from the header row.
	ErrMissingKeyColumn = errors.New("sheetdb: missing key column")
)

// APIError is a non-2xx response from the Sheets or Drive API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sheetdb: api error %d: %s", e.StatusCode, e.Message)
}

// IsPermissionDenied reports whether err is an authorization failure from the
// backing store. Provisioning distinguishes this case so the operator knows to
// grant the service identity access.
func IsPermissionDenied(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 403
}

// isMissingRange reports whether err is the store's "Unable to parse range"
// rejection, which is how a values call against a nonexistent tab fails.
func isMissingRange(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == 400 && strings.Contains(apiErr.Message, "Unable to parse range")
}
