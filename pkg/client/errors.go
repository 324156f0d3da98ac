// Package client implements the HTTP client for the workflow-automation
// backend's REST contract.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/moogar0880/problems"
)

// APIError is a non-2xx response from the backend, decoded from its
// RFC 7807 problem body when one is present.
type APIError struct {
	Status   int
	Type     string
	Detail   string
	Instance string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d (%s): %s", e.Status, e.Type, e.Detail)
	}

	return fmt.Sprintf("backend returned %d (%s)", e.Status, e.Type)
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Type: http.StatusText(status)}

	var problem problems.Problem
	if err := json.Unmarshal(body, &problem); err == nil {
		if problem.Type != "" {
			apiErr.Type = problem.Type
		}

		apiErr.Detail = problem.Detail
		apiErr.Instance = problem.Instance
	}

	return apiErr
}

// IsNotFound reports whether the error is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError

	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsBadRequest reports whether the backend rejected the request as invalid.
func IsBadRequest(err error) bool {
	var apiErr *APIError

	return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest
}
