package bridge

import (
	"fmt"

	"github.com/radio-control/saltybridge/internal/adapter"
)

// Capability is the result of a legacy operation that the backend may not
// support.
type Capability[T any] struct {
	value     T
	supported bool
	operation string
}

// Supported wraps a value produced by the backend.
func Supported[T any](operation string, value T) Capability[T] {
	return Capability[T]{value: value, supported: true, operation: operation}
}

// Unsupported marks operation as unavailable on the backend.
func Unsupported[T any](operation string) Capability[T] {
	return Capability[T]{operation: operation}
}

// Supported reports whether the backend provided a value.
func (c Capability[T]) Supported() bool {
	return c.supported
}

// Operation names the legacy operation.
func (c Capability[T]) Operation() string {
	return c.operation
}

// Or returns the value, or def when unsupported.
func (c Capability[T]) Or(def T) T {
	if !c.supported {
		return def
	}
	return c.value
}

// Err returns an error wrapping adapter.ErrUnsupported, or nil.
func (c Capability[T]) Err() error {
	if c.supported {
		return nil
	}
	return fmt.Errorf("%s: %w", c.operation, adapter.ErrUnsupported)
}

// None is the value of setter capabilities.
type None struct{}
