// Package windows implements the platform enumerator on top of the Win32
// window APIs. Import it for side effects to register the provider:
//
//	import _ "github.com/mj1618/nirctl/internal/platform/windows"
//
// On other operating systems the package is empty.
package windows
