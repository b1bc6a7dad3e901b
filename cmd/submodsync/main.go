// Package main provides the entry point for the submodsync CLI tool.
package main

import (
	"github.com/grammarforge/submodsync/cmd/submodsync/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cmd.Execute(version, commit, date, builtBy)
}
