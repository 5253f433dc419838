// Package version is filled in at build time with
// -ldflags "-X github.com/charlie0129/ntccal/pkg/version.Version=...".
package version

var (
	Version   = "v0.0.0-dev"
	GitCommit = "unknown"
)
