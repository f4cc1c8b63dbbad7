// Build information for check-model-cached.
//
// Release builds inject the values with linker flags:
//
//	go build -ldflags "-X github.com/xynehq/gpu-scripts/pkg/config.Version=v1.0.0 -X github.com/xynehq/gpu-scripts/pkg/config.CommitHash=abc123 -X github.com/xynehq/gpu-scripts/pkg/config.BuildDate=2024-01-01T00:00:00Z"
//
// Without them, module and VCS metadata embedded by the Go toolchain are used
// when available (e.g. after "go install").
package config

import (
	"fmt"
	"runtime/debug"
)

// Build-time values, empty unless set with -ldflags.
var (
	Version    string
	CommitHash string
	BuildDate  string
)

// readBuildInfo allows mocking debug.ReadBuildInfo in tests.
var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the release version, the module version recorded by
// the toolchain, or "dev".
func GetVersion() string {
	if Version != "" {
		return Version
	}
	if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// GetCommitHash returns the commit the binary was built from, or "unknown".
func GetCommitHash() string {
	if CommitHash != "" {
		return CommitHash
	}
	return buildSetting("vcs.revision")
}

// GetBuildDate returns the build or commit timestamp, or "unknown".
func GetBuildDate() string {
	if BuildDate != "" {
		return BuildDate
	}
	return buildSetting("vcs.time")
}

// GetFullVersion returns e.g. "check-model-cached v1.0.0 (abc123) built on 2024-01-01T00:00:00Z".
func GetFullVersion() string {
	return fmt.Sprintf("%s %s (%s) built on %s", AppName, GetVersion(), GetCommitHash(), GetBuildDate())
}

func buildSetting(key string) string {
	info, ok := readBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range info.Settings {
		if s.Key == key && s.Value != "" {
			return s.Value
		}
	}
	return "unknown"
}
