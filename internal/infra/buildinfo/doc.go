// Package buildinfo exposes version information for taskadmin binaries.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/taskadmin-go/internal/infra/buildinfo.Version=v1.0.0"
//
// When a value is not injected it is filled from the module build info
// embedded by the Go toolchain.
package buildinfo
