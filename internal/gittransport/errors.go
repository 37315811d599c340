package gittransport

import "fmt"

const (
	cloneErrorTemplateConstant = "mirror clone of %s failed: %s"
	pushErrorTemplateConstant  = "mirror push to %s failed: %s"
	probeErrorTemplateConstant = "remote probe of %s failed: %s"
)

// CloneError indicates the mirror clone of a source repository failed.
type CloneError struct {
	SourceURL string
	Cause     error
}

// Error describes the clone failure.
func (cloneError CloneError) Error() string {
	return fmt.Sprintf(cloneErrorTemplateConstant, cloneError.SourceURL, cloneError.Cause)
}

// Unwrap exposes the underlying command error.
func (cloneError CloneError) Unwrap() error {
	return cloneError.Cause
}

// PushError indicates the mirror push to a destination repository failed.
// DestinationURL is stored with credentials redacted.
type PushError struct {
	DestinationURL string
	Cause          error
}

// Error describes the push failure.
func (pushError PushError) Error() string {
	return fmt.Sprintf(pushErrorTemplateConstant, pushError.DestinationURL, pushError.Cause)
}

// Unwrap exposes the underlying command error.
func (pushError PushError) Unwrap() error {
	return pushError.Cause
}

// ProbeError indicates a remote repository could not be queried.
type ProbeError struct {
	RemoteURL string
	Cause     error
}

// Error describes the probe failure.
func (probeError ProbeError) Error() string {
	return fmt.Sprintf(probeErrorTemplateConstant, probeError.RemoteURL, probeError.Cause)
}

// Unwrap exposes the underlying command error.
func (probeError ProbeError) Unwrap() error {
	return probeError.Cause
}
