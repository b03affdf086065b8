// Package version exposes build metadata for reqkit binaries and the default
// User-Agent sent by clients.
//
// Values are injected at link time:
//
//	go build -ldflags "-X github.com/kbukum/reqkit/version.Version=1.2.0 \
//	    -X github.com/kbukum/reqkit/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Missing values fall back to the module build info embedded by the Go
// toolchain.
package version
