// Package buildinfo exposes version information for respkv binaries.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/respkv/internal/infra/buildinfo.Version=v1.0.0"
//
// Commit, BuildTime and GoVersion fall back to the module build
// information recorded by the Go toolchain when not injected.
package buildinfo
