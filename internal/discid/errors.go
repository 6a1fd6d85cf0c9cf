package discid

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupported marks operations that require a feature the current
	// build or platform does not provide. Raised before any device access.
	ErrUnsupported = errors.New("feature not supported")

	// ErrDiscRead marks a failed device access. The wrapped text carries the
	// collaborator's diagnostic verbatim; it is not interpreted.
	ErrDiscRead = errors.New("disc read error")

	// ErrResourceAllocation marks a session whose underlying disc-access
	// resource could not be acquired at construction time.
	ErrResourceAllocation = errors.New("disc resource allocation failed")

	// ErrSessionClosed marks operations on a session whose resource has
	// already been released.
	ErrSessionClosed = errors.New("session closed")
)

// unsupportedError builds the error for a missing capability.
func unsupportedError(f Feature) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, f.Label())
}

// readError wraps a collaborator diagnostic for the given device.
func readError(device string, diagnostic error) error {
	msg := "unknown failure"
	if diagnostic != nil {
		msg = strings.TrimSpace(diagnostic.Error())
	}
	if device == "" {
		return fmt.Errorf("%w: %s", ErrDiscRead, msg)
	}
	return fmt.Errorf("%w: %s: %s", ErrDiscRead, device, msg)
}
