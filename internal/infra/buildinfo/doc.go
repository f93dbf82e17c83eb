// Package buildinfo exposes build-time version information.
//
// Values are injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/boopmesh/internal/infra/buildinfo.Version=v1.0.0"
//
// Commit and GoVersion fall back to the module build info embedded by the
// Go toolchain when not injected.
package buildinfo
