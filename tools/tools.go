//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are invoked via `go run` with pinned versions and are not
// tracked as runtime dependencies.
package tools

// Development tools:
//
// mockgen - Interface mock generation for tests
//   Run: go generate ./internal/mocks
//   Version: v0.6.0 (pinned in the go:generate directives)
//   Docs: https://github.com/uber-go/mock
