//go:build tools

package tools

// This file tracks versions of CLI tool dependencies.
// It is not compiled into the binary.
//
// - github.com/matryer/moq: regenerates the *_mock_test.go files
// - github.com/pressly/goose/v3/cmd/goose: runs migrations outside the server
