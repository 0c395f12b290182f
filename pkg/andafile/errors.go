// SPDX-License-Identifier: MPL-2.0

package andafile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoManifest is returned when the root manifest file does not exist.
	ErrNoManifest = errors.New("no manifest found")

	// ErrInvalidManifest is the sentinel wrapped by InvalidManifestError.
	ErrInvalidManifest = errors.New("invalid manifest")
)

type (
	// InvalidManifestError reports a manifest that could not be read or parsed.
	InvalidManifestError struct {
		Path   string
		Detail string
	}

	// MultipleError aggregates several manifest problems.
	MultipleError struct {
		Errors []error
	}
)

// Error implements the error interface.
func (e *InvalidManifestError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid manifest: %s", e.Detail)
	}
	return fmt.Sprintf("invalid manifest %s: %s", e.Path, e.Detail)
}

// Unwrap returns ErrInvalidManifest so callers can use errors.Is for programmatic detection.
func (e *InvalidManifestError) Unwrap() error { return ErrInvalidManifest }

// Error implements the error interface.
func (e *MultipleError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d manifest errors:\n  %s", len(e.Errors), strings.Join(msgs, "\n  "))
}

// Unwrap exposes the aggregated errors to errors.Is and errors.As.
func (e *MultipleError) Unwrap() []error { return e.Errors }
