// pkg/source/source.go
package source

import (
	"context"
	"fmt"
	"io"
)

// Source provides access to the raw enrollment resource.
type Source interface {
	// Open returns the undecoded byte stream of the resource. The caller
	// owns the returned reader and must close it.
	Open(ctx context.Context) (io.ReadCloser, error)

	// Describe returns a human-readable identifier for logging.
	Describe() string
}

// UnavailableError indicates the resource could not be fetched or opened.
// It is fatal to the run; there is no retry policy.
type UnavailableError struct {
	URI string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("source unavailable: %s: %v", e.URI, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
