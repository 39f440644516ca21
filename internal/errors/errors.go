// internal/errors/errors.go
package appErrors

import "fmt"

// ErrUnknownSession means a client id was used before Register.
// This one indicates the registry was bypassed, so callers surface it hard
// instead of softening it into a chat message.
type ErrUnknownSession struct {
	ClientID string
}

func (e *ErrUnknownSession) Error() string {
	return fmt.Sprintf("unknown session for client %q", e.ClientID)
}

func NewUnknownSession(clientID string) error {
	return &ErrUnknownSession{ClientID: clientID}
}

// ErrNotConnected means fetch was called on a data source that was never
// connected (or already disconnected).
type ErrNotConnected struct {
	SourceID string
}

func (e *ErrNotConnected) Error() string {
	return fmt.Sprintf("data source %q is not connected", e.SourceID)
}

func NewNotConnected(sourceID string) error {
	return &ErrNotConnected{SourceID: sourceID}
}

// ErrMalformedGeneration means the generation service returned a payload
// that fails the campaign schema.
type ErrMalformedGeneration struct {
	Reason string
}

func (e *ErrMalformedGeneration) Error() string {
	return fmt.Sprintf("malformed campaign generation: %s", e.Reason)
}

func NewMalformedGeneration(reason string) error {
	return &ErrMalformedGeneration{Reason: reason}
}

// ErrExternalService wraps a timeout or non-success from the completion
// service or a connector API.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service %s failed: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error { return e.Err }

func NewExternalService(service string, err error) error {
	return &ErrExternalService{Service: service, Err: err}
}
