// Package versions provides build version information for the API server.
package versions

import (
	"fmt"
	"runtime"
)

// Values injected at build time via -ldflags.
var (
	// Version is the current version of the server
	Version = "dev"
	// Commit is the git commit the binary was built from
	Commit = "unknown"
	// BuildDate is the date the binary was built
	BuildDate = "unknown"
)

// VersionInfo represents the version information of the running binary
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetVersionInfo returns the version information of the running binary
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
