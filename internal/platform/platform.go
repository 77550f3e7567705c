package platform

import (
	"context"

	"github.com/mj1618/nirctl/internal/model"
)

// Enumerator lists the visible top-level windows of the desktop session.
type Enumerator interface {
	// Enumerate returns a fresh snapshot. Order follows the OS z-order.
	Enumerate(ctx context.Context) ([]model.Window, error)
}

// EnumeratorFunc adapts a plain function to Enumerator.
type EnumeratorFunc func(ctx context.Context) ([]model.Window, error)

func (f EnumeratorFunc) Enumerate(ctx context.Context) ([]model.Window, error) {
	return f(ctx)
}
