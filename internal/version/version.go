// Package version holds build metadata injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/mj1618/nirctl/internal/version.Version=v0.3.0"
package version

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// String renders the version line printed by --version and `nirctl version`.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + BuildDate + ")"
}
