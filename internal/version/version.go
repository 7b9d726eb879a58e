// Package version carries the build identity stamped into the binary.
//
// Release builds overwrite the defaults with ldflags:
//
//	go build -ldflags "-X .../internal/version.Version=v1.2.0 \
//	    -X .../internal/version.Commit=$(git rev-parse --short HEAD) \
//	    -X .../internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// A plain `go build` keeps the "dev" defaults, which is what local runs
// and tests report.
package version

import "runtime"

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info is the payload served by the version endpoint.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get snapshots the stamped values plus the Go runtime that built us.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// String renders a compact one-line identity for startup logs.
func (i Info) String() string {
	return i.Version + " (" + i.Commit + ", " + i.GoVersion + ")"
}
