package ports

import (
	"context"
)

// Monitor defines the interface for a host surface that feeds link
// activations into the guard.
type Monitor interface {
	// Start attaches to the host surface and begins intercepting.
	Start(ctx context.Context) error

	// Stop detaches from the host surface.
	Stop() error
}
