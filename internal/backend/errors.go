package backend

import "fmt"

// UnknownModeError is returned when a mode name is not one of the four
// supported client modes.
type UnknownModeError struct {
	Name string
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("invalid client mode %q: must be 'api', 'claude-code', 'hybrid', or 'agent-teams'", e.Name)
}

// MissingCredentialError is returned when a mode requires an API key and
// none was supplied.
type MissingCredentialError struct {
	Mode Mode
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("an API key is required for client mode %q", e.Mode)
}

// TransportError wraps a network-level failure reaching the provider.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to send request to Anthropic API: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProviderError is returned when the provider responds with a non-2xx status.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.Status, e.Body)
}

// DecodeError wraps a failure to parse the provider's response body.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse API response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ProcessError is returned when the claude CLI exits non-zero. Detail holds
// stderr when non-empty, otherwise stdout.
type ProcessError struct {
	ExitCode int
	Detail   string
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("claude CLI exited with code %d: %s", e.ExitCode, e.Detail)
}

// FallbackError is returned by the hybrid backend when both the API attempt
// and the CLI fallback failed. Both underlying errors remain reachable
// through errors.Is/errors.As.
type FallbackError struct {
	APIErr error
	CLIErr error
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("hybrid: both API and CLI failed: api: %v; cli: %v", e.APIErr, e.CLIErr)
}

func (e *FallbackError) Unwrap() []error { return []error{e.APIErr, e.CLIErr} }
