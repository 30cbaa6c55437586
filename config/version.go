package config

import "fmt"

// Overridden at build time with -ldflags -X; shown by clustercache --version.
var (
	Version       = "dev"
	CommitHash    = "n/a"
	BuildTime     = "n/a"
	VersionString = fmt.Sprintf("%s-%s (%s)", Version, CommitHash, BuildTime)
)
