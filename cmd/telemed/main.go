// Command telemed is the terminal client for the telemedicine scheduling
// platform: accounts, profiles, appointments and consultation notes.
package main

import (
	"cmp"
	"fmt"
	"os"

	"github.com/telemedhq/telemed/internal/cli"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	root := cli.NewRootCmd()
	root.Version = fmt.Sprintf("%s (built %s)",
		cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
