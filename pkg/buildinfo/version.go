// Package buildinfo reports which nepdate build is running. The values
// are stamped by the release build and stay at their placeholders for a
// plain go build:
//
//	go build -ldflags "-X github.com/matzehuels/nepdate/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/nepdate/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/nepdate/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

// Stamped at link time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String is the multi-line build summary, one field per line.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is installed as the root command's --version output.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent is sent on every conversion request so the API operator can
// tell nepdate builds apart.
func UserAgent() string {
	return "nepdate-go/" + Version
}
