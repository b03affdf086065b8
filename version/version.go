package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Product is the product token of the default User-Agent.
const Product = "reqkit"

// Set at build time using -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info is the resolved build metadata.
type Info struct {
	Version   string    `json:"version" yaml:"version"`
	GitCommit string    `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
	BuildDate time.Time `json:"build_date,omitempty" yaml:"build_date,omitempty"`
	GoVersion string    `json:"go_version" yaml:"go_version"`
	Platform  string    `json:"platform" yaml:"platform"`
	Dirty     bool      `json:"dirty" yaml:"dirty"`
}

// IsRelease reports whether the build carries a real version number.
func (i Info) IsRelease() bool {
	return i.Version != "dev" && !i.Dirty && !strings.HasSuffix(i.Version, "-dirty")
}

// Get resolves build metadata from link-time values and embedded build info.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
		info.BuildDate = t
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = strings.TrimPrefix(bi.Main.Version, "v")
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = shortCommit(s.Value)
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		case "vcs.time":
			if info.BuildDate.IsZero() {
				if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
					info.BuildDate = t
				}
			}
		}
	}
	return info
}

// Short returns "<version>[-<commit>][-dirty]".
func (i Info) Short() string {
	parts := []string{i.Version}
	if i.GitCommit != "" {
		parts = append(parts, i.GitCommit)
	}
	if i.Dirty {
		parts = append(parts, "dirty")
	}
	return strings.Join(parts, "-")
}

// String returns the short version followed by platform and build date.
func (i Info) String() string {
	s := fmt.Sprintf("%s %s (%s)", Product, i.Short(), i.Platform)
	if !i.BuildDate.IsZero() {
		s += " built " + i.BuildDate.UTC().Format(time.RFC3339)
	}
	return s
}

// UserAgent returns the default User-Agent, e.g. "reqkit/1.2.0 (linux/amd64)".
func UserAgent() string {
	info := Get()
	return fmt.Sprintf("%s/%s (%s)", Product, info.Version, info.Platform)
}

func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
