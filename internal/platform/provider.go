package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/mj1618/nirctl/internal/model"
)

// Provider bundles the platform backends for the current OS.
type Provider struct {
	Enumerator Enumerator
}

// ErrUnsupported is returned on platforms without a window enumerator.
var ErrUnsupported = fmt.Errorf("window enumeration is not supported on %s/%s; supported: windows", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/windows/init.go for the Windows registration.
var NewProviderFunc func() (*Provider, error)

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}

// Unsupported is an Enumerator that always fails with ErrUnsupported.
// Callers use it so that freeze can still fall back to spec-based commands.
var Unsupported Enumerator = EnumeratorFunc(func(context.Context) ([]model.Window, error) {
	return nil, ErrUnsupported
})

// DefaultEnumerator returns the OS enumerator, or Unsupported.
func DefaultEnumerator() Enumerator {
	p, err := NewProvider()
	if err != nil || p == nil || p.Enumerator == nil {
		return Unsupported
	}
	return p.Enumerator
}
