//go:build tools

// Package tools records the development tools this module is built with.
// They are run with `go run` or installed with `go install` and are not
// linked into any binary.
package tools

// Air reloads cmd/recruiter on source changes. Run it with NODE_ENV=development
// so templates and static files are served from disk.
//   Install: go install github.com/air-verse/air@v1.63.0
//
// mockgen regenerates the repository and object-store mocks:
//   go generate ./internal/mocks
