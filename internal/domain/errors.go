package domain

import (
	"errors"
	"fmt"
)

// ErrAssistantUnavailable signals a missing assistant credential or a failed
// chat request. Callers surface it as an inline assistant message, never as
// a forecast error state.
var ErrAssistantUnavailable = errors.New("assistant unavailable")

// NetworkError is a non-success HTTP status or transport failure from one of
// the external providers. Status is 0 for transport-level failures.
type NetworkError struct {
	Provider string
	Status   int
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
