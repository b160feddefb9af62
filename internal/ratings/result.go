package ratings

import "fmt"

// ErrorKind classifies a failed provider fetch.
type ErrorKind string

const (
	// KindNotFound means the provider has no player for the username (404).
	KindNotFound ErrorKind = "not_found"
	// KindRateLimited means the provider throttled us (429).
	KindRateLimited ErrorKind = "rate_limited"
	// KindUpstreamTimeout means the request exceeded the client timeout.
	KindUpstreamTimeout ErrorKind = "upstream_timeout"
	// KindUpstreamError covers any other non-200 provider response.
	KindUpstreamError ErrorKind = "upstream_error"
	// KindTransportFailure covers network-level failures (DNS, refused, ...).
	KindTransportFailure ErrorKind = "transport_failure"
)

// ProviderError is the typed error returned by every failed provider call.
// It is always recovered locally and mapped to a caller-visible status, never
// propagated as a fault.
type ProviderError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return e.Message
}

func notFoundError() *ProviderError {
	return &ProviderError{Kind: KindNotFound, StatusCode: 404, Message: "not found"}
}

func rateLimitedError() *ProviderError {
	return &ProviderError{Kind: KindRateLimited, StatusCode: 429, Message: "rate limit exceeded"}
}

func timeoutError() *ProviderError {
	return &ProviderError{Kind: KindUpstreamTimeout, StatusCode: 408, Message: "timeout"}
}

func upstreamError(status int) *ProviderError {
	return &ProviderError{
		Kind:       KindUpstreamError,
		StatusCode: status,
		Message:    fmt.Sprintf("API error (status %d)", status),
	}
}

func transportError(detail string) *ProviderError {
	return &ProviderError{Kind: KindTransportFailure, StatusCode: 500, Message: detail}
}
