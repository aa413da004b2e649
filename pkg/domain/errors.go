package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrStreamConsumed = errors.New("stream already consumed")
)

// ValidationError rejects caller input before any state is touched.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ProviderError wraps a failed completion call. Every provider failure is
// considered transient.
type ProviderError struct {
	Model string
	Err   error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider call for model %q: %v", e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
