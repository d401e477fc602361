package sanity

import (
	"errors"
	"fmt"
)

// ErrInvalidParam is returned when a query parameter name is not a valid
// GROQ identifier.
var ErrInvalidParam = errors.New("sanity: invalid query parameter name")

// APIError describes a non-successful response from the query endpoint.
type APIError struct {
	StatusCode  int
	Type        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("sanity: query failed with status %d", e.StatusCode)
	}
	if e.Type == "" {
		return fmt.Sprintf("sanity: query failed with status %d: %s", e.StatusCode, e.Description)
	}
	return fmt.Sprintf("sanity: query failed with status %d (%s): %s", e.StatusCode, e.Type, e.Description)
}
