// Package version reports the pgrubic build and the PostgreSQL parser it
// links.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

const pgQueryModule = "github.com/pganalyze/pg_query_go/v6"

var version = "dev"

// Version returns the current version string with the parser's PostgreSQL
// version as suffix.
func Version() string {
	if pg := PostgresVersion(); pg != "" {
		return version + " (postgresql " + pg + ")"
	}
	return version
}

// RawVersion returns the semantic version string without any suffix.
func RawVersion() string {
	return version
}

var postgresVersion = sync.OnceValue(func() string {
	tree, err := pg_query.Parse("SELECT 1")
	if err != nil {
		return ""
	}
	return FormatServerVersion(tree.GetVersion())
})

// PostgresVersion returns the PostgreSQL grammar version of the linked
// parser, e.g. "17.4".
func PostgresVersion() string {
	return postgresVersion()
}

// FormatServerVersion renders a server_version_num such as 170004 as
// "17.4". Zero renders as "".
func FormatServerVersion(num int32) string {
	if num <= 0 {
		return ""
	}
	return fmt.Sprintf("%d.%d", num/10000, num%10000)
}

type build struct {
	pgQuery string
	commit  string
}

// buildInfo extracts the linked pg_query_go version and the short VCS
// revision from the binary.
var buildInfo = sync.OnceValue(func() build {
	var b build
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	for _, dep := range info.Deps {
		if dep.Path == pgQueryModule {
			b.pgQuery = dep.Version
		}
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			b.commit = s.Value[:min(len(s.Value), 12)]
		}
	}
	return b
})

// Info is the machine-readable form of `pgrubic version --json`.
type Info struct {
	Version         string   `json:"version"`
	PostgresVersion string   `json:"postgresVersion,omitempty"`
	PgQueryVersion  string   `json:"pgQueryVersion,omitempty"`
	Platform        Platform `json:"platform"`
	GoVersion       string   `json:"goVersion"`
	GitCommit       string   `json:"gitCommit,omitempty"`
}

type Platform struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
}

func GetInfo() Info {
	b := buildInfo()
	return Info{
		Version:         version,
		PostgresVersion: PostgresVersion(),
		PgQueryVersion:  b.pgQuery,
		Platform:        Platform{OS: runtime.GOOS, Arch: runtime.GOARCH},
		GoVersion:       runtime.Version(),
		GitCommit:       b.commit,
	}
}
