// Package version exposes build information set through -ldflags, e.g.
//
//	go build -ldflags "-X github.com/jackzampolin/novella/version.GitRelease=v0.3.0"
package version

import "runtime"

var (
	// GitRelease is the release tag the binary was built from.
	GitRelease = "dev"
	// GitCommit is the commit hash the binary was built from.
	GitCommit = "unknown"
	// GitCommitDate is the commit date the binary was built from.
	GitCommitDate = "unknown"
	// GoInfo is the Go toolchain version.
	GoInfo = runtime.Version()
)

// Info is the build information as a value.
type Info struct {
	Release string `json:"release" yaml:"release"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	Go      string `json:"go" yaml:"go"`
}

// Get returns the current build information.
func Get() Info {
	return Info{Release: GitRelease, Commit: GitCommit, Date: GitCommitDate, Go: GoInfo}
}
