package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildInfo(mainVersion string, settings ...string) *debug.BuildInfo {
	bi := &debug.BuildInfo{Main: debug.Module{Version: mainVersion}}
	for i := 0; i+1 < len(settings); i += 2 {
		bi.Settings = append(bi.Settings, debug.BuildSetting{Key: settings[i], Value: settings[i+1]})
	}
	return bi
}

func TestResolve(t *testing.T) {
	placeholder := Info{Version: defaultVersion, Commit: defaultCommit, Date: defaultDate, GoVersion: "go1.25.0"}
	injected := Info{Version: "1.2.3", Commit: "abc1234", Date: "2026-01-01T00:00:00Z", GoVersion: "go1.25.0"}

	tests := []struct {
		name string
		base Info
		bi   *debug.BuildInfo
		want Info
	}{
		{
			name: "ldflags win",
			base: injected,
			bi:   buildInfo("v0.5.0", "vcs.revision", "deadbeefcafe", "vcs.time", "2025-06-01T00:00:00Z"),
			want: injected,
		},
		{
			name: "module version only",
			base: placeholder,
			bi:   buildInfo("v0.5.0"),
			want: Info{Version: "0.5.0", Commit: defaultCommit, Date: defaultDate, GoVersion: "go1.25.0"},
		},
		{
			name: "devel build with vcs settings",
			base: placeholder,
			bi:   buildInfo("(devel)", "vcs.revision", "deadbeefcafe123", "vcs.time", "2026-03-15T08:00:00Z"),
			want: Info{Version: defaultVersion, Commit: "deadbee", Date: "2026-03-15T08:00:00Z", GoVersion: "go1.25.0"},
		},
		{
			name: "short revision kept whole",
			base: placeholder,
			bi:   buildInfo("(devel)", "vcs.revision", "abc"),
			want: Info{Version: defaultVersion, Commit: "abc", Date: defaultDate, GoVersion: "go1.25.0"},
		},
		{
			name: "empty build info",
			base: placeholder,
			bi:   &debug.BuildInfo{},
			want: placeholder,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, resolve(tc.base, tc.bi))
		})
	}
}

func TestInfo_String(t *testing.T) {
	info := Info{Version: "1.0.0", Commit: "abc1234", Date: "2026-01-01", GoVersion: "go1.25.0"}
	assert.Equal(t, "vantage version 1.0.0 (commit: abc1234, built: 2026-01-01, go1.25.0)", info.String())
}

func TestCurrent(t *testing.T) {
	info := Current()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Equal(t, info, Current())
}
