package source

import "fmt"

// ConfigError means a source cannot run at all, typically a missing API key.
// The caller should treat the source as cleanly unavailable for the process
// lifetime; no network call was attempted.
type ConfigError struct {
	Source string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s not configured: %s", e.Source, e.Reason)
}

// UpstreamError means the provider failed transiently: a non-success HTTP
// status, a network error, or a malformed payload. The caller retries on the
// next cycle, not mid-request.
type UpstreamError struct {
	Source string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s upstream error (status %d): %v", e.Source, e.Status, e.Err)
	}
	return fmt.Sprintf("%s upstream error: %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
