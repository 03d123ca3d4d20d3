package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is matched by any error produced from a 401 response.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx answer from the REST API.
type APIError struct {
	Status      int
	Description string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("api status %d: %s", e.Status, e.Description)
	}
	return fmt.Sprintf("api status %d", e.Status)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Describe returns the server's error description when err carries one,
// otherwise fallback.
func Describe(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Description != "" {
		return apiErr.Description
	}
	return fallback
}

// errorBody accepts {"error":{"description":"..."}} as well as the flat
// {"error":"..."} some endpoints return.
type errorBody struct {
	Error any `json:"error"`
}

func (b errorBody) description() string {
	switch v := b.Error.(type) {
	case string:
		return v
	case map[string]any:
		if d, ok := v["description"].(string); ok {
			return d
		}
	}
	return ""
}
