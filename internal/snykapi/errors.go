package snykapi

import "fmt"

const apiErrorTemplateConstant = "snyk api request failed with status %d on %s: %s"

// APIError describes a non-2xx response returned by the Snyk REST API.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

// Error renders the failure with enough context for audit logs.
func (apiError *APIError) Error() string {
	return fmt.Sprintf(apiErrorTemplateConstant, apiError.StatusCode, apiError.Endpoint, apiError.Body)
}
