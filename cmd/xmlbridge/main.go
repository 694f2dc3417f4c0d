// xmlbridge maps SOAP/XML payloads onto OpenAPI request schemas.
package main

import (
	"os"

	"github.com/getmockd/xmlbridge/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cli.Version, cli.Commit, cli.BuildDate = Version, Commit, BuildDate
	os.Exit(cli.Main())
}
