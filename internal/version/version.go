package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
)

// Build-time variables injected via -ldflags:
//
//	-X github.com/tbckr/vantage/internal/version.Version=1.0.0
//	-X github.com/tbckr/vantage/internal/version.Commit=abc1234
//	-X github.com/tbckr/vantage/internal/version.Date=2026-01-01
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const (
	defaultVersion = "dev"
	defaultCommit  = "none"
	defaultDate    = "unknown"
)

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

var current = sync.OnceValue(func() Info {
	base := Info{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return base
	}
	return resolve(base, bi)
})

// Current returns the build information, resolved once per process.
func Current() Info {
	return current()
}

func (i Info) String() string {
	return fmt.Sprintf("vantage version %s (commit: %s, built: %s, %s)", i.Version, i.Commit, i.Date, i.GoVersion)
}

// resolve fills fields of base still holding placeholder values from bi.
// Values injected with -ldflags always win.
func resolve(base Info, bi *debug.BuildInfo) Info {
	info := base
	if info.Version == defaultVersion {
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			info.Version = strings.TrimPrefix(v, "v")
		}
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == defaultCommit && s.Value != "":
			info.Commit = s.Value[:min(len(s.Value), 7)]
		case s.Key == "vcs.time" && info.Date == defaultDate && s.Value != "":
			info.Date = s.Value
		}
	}
	return info
}
