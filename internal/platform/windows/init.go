//go:build windows

package windows

import "github.com/mj1618/nirctl/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return &platform.Provider{
			Enumerator: NewEnumerator(),
		}, nil
	}
}
