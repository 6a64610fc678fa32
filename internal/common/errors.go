package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the wire-level error envelope for every API failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSONError sends the standard error envelope
func JSONError(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorResponse{Error: message})
}

// SendValidationError sends a 400 for malformed or missing input
func SendValidationError(c echo.Context, message string) error {
	return JSONError(c, http.StatusBadRequest, message)
}

// SendUnauthorizedError sends the uniform 401 response. Credential failures are
// never distinguished to the caller.
func SendUnauthorizedError(c echo.Context) error {
	return JSONError(c, http.StatusUnauthorized, "Unauthorized")
}

// SendNotFoundError sends a 404 with a resource-level message
func SendNotFoundError(c echo.Context, message string) error {
	return JSONError(c, http.StatusNotFound, message)
}

// SendConflictError sends a 409 for duplicate unique keys
func SendConflictError(c echo.Context, message string) error {
	return JSONError(c, http.StatusConflict, message)
}

// SendServerError sends a generic 500; the underlying cause stays in the logs
func SendServerError(c echo.Context) error {
	return JSONError(c, http.StatusInternalServerError, "Internal server error")
}
