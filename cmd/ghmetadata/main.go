package main

import (
	"github.com/aisepucrio/stnl-ghmetadata/internal/cli"
	_ "github.com/aisepucrio/stnl-ghmetadata/internal/fetcher/providers"
)

// These variables are populated by the build via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.SetBuildInfo(version, commit, date)
	cli.Execute()
}
