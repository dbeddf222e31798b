// Package main is the entry point for the walletsync CLI.
package main

import (
	"os"

	"github.com/halverson/walletsync/internal/cli"
)

// Build metadata injected via -ldflags at release time.
//
//nolint:gochecknoglobals // ldflags injection requires package-level variables
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	cli.SetBuildInfo(cli.BuildInfo{Version: version, Commit: commit, Date: date})

	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
