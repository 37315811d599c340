package githubapi

import "fmt"

const (
	authenticationErrorTemplateConstant   = "github authentication failed with status %d"
	rateLimitErrorTemplateConstant        = "github rate limit exceeded with status %d"
	conflictErrorTemplateConstant         = "repository %s already exists"
	networkErrorTemplateConstant          = "github request failed: %s"
	unexpectedStatusErrorTemplateConstant = "github responded with unexpected status %d: %s"
)

// AuthenticationError indicates the configured token was rejected.
type AuthenticationError struct {
	StatusCode int
}

// Error describes the authentication failure.
func (authenticationError AuthenticationError) Error() string {
	return fmt.Sprintf(authenticationErrorTemplateConstant, authenticationError.StatusCode)
}

// RateLimitError indicates the API refused the request due to rate limiting.
type RateLimitError struct {
	StatusCode int
}

// Error describes the rate limit rejection.
func (rateLimitError RateLimitError) Error() string {
	return fmt.Sprintf(rateLimitErrorTemplateConstant, rateLimitError.StatusCode)
}

// ConflictError indicates the repository already exists at the destination.
type ConflictError struct {
	RepositoryName string
}

// Error describes the conflict.
func (conflictError ConflictError) Error() string {
	return fmt.Sprintf(conflictErrorTemplateConstant, conflictError.RepositoryName)
}

// NetworkError indicates the request never produced an HTTP response.
type NetworkError struct {
	Cause error
}

// Error describes the transport failure.
func (networkError NetworkError) Error() string {
	return fmt.Sprintf(networkErrorTemplateConstant, networkError.Cause)
}

// Unwrap exposes the underlying transport error.
func (networkError NetworkError) Unwrap() error {
	return networkError.Cause
}

// UnexpectedStatusError indicates a response status outside the modeled taxonomy.
type UnexpectedStatusError struct {
	StatusCode   int
	ResponseBody string
}

// Error describes the unexpected response.
func (statusError UnexpectedStatusError) Error() string {
	return fmt.Sprintf(unexpectedStatusErrorTemplateConstant, statusError.StatusCode, statusError.ResponseBody)
}
