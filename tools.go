//go:build tools

package main

// Build tooling dependencies, pinned through go.mod.
import (
	_ "github.com/go-task/task/v3/cmd/task"
	_ "github.com/golangci/golangci-lint/v2/cmd/golangci-lint"
)
