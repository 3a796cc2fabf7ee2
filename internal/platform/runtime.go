// Package platform describes what the hosting process is able to offer to
// the client stores: persistent storage and a location source.
package platform

import (
	"errors"
	"fmt"
)

// ErrUnavailable is matched by every UnavailableError.
var ErrUnavailable = errors.New("capability unavailable")

// Runtime is injected into the stores so they never have to guess whether
// they run inside an interactive client.
type Runtime interface {
	Interactive() bool
}

// Static is a Runtime with a fixed answer.
type Static bool

func (s Static) Interactive() bool { return bool(s) }

const (
	Interactive Static = true
	Headless    Static = false
)

// UnavailableError is returned when an operation needs a capability the
// runtime does not have.
type UnavailableError struct {
	Capability string
	Message    string
}

func (e *UnavailableError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s is not available", e.Capability)
}

func (e *UnavailableError) Unwrap() error { return ErrUnavailable }
