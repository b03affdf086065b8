package version

import (
	"runtime"
	"strings"
	"testing"
)

func saveAndRestore() func() {
	v, c, b := Version, GitCommit, BuildTime
	return func() {
		Version, GitCommit, BuildTime = v, c, b
	}
}

func TestGet_LinkTimeValues(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"
	GitCommit = "abc1234"
	BuildTime = "2026-01-15T10:30:00Z"

	info := Get()
	if info.Version != "1.2.0" || info.GitCommit != "abc1234" {
		t.Errorf("unexpected info %+v", info)
	}
	if info.BuildDate.Year() != 2026 {
		t.Errorf("expected build year 2026, got %d", info.BuildDate.Year())
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("expected %s, got %s", runtime.Version(), info.GoVersion)
	}
}

func TestInfo_Short(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0-abc1234"},
		{Info{Version: "1.0.0", GitCommit: "abc1234", Dirty: true}, "1.0.0-abc1234-dirty"},
	}
	for _, tt := range tests {
		if got := tt.info.Short(); got != tt.want {
			t.Errorf("Short() = %q, want %q", got, tt.want)
		}
	}
}

func TestInfo_IsRelease(t *testing.T) {
	tests := []struct {
		info Info
		want bool
	}{
		{Info{Version: "dev"}, false},
		{Info{Version: "1.0.0"}, true},
		{Info{Version: "1.0.0-dirty"}, false},
		{Info{Version: "1.0.0", Dirty: true}, false},
	}
	for _, tt := range tests {
		if got := tt.info.IsRelease(); got != tt.want {
			t.Errorf("%+v IsRelease() = %v, want %v", tt.info, got, tt.want)
		}
	}
}

func TestUserAgent(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"

	ua := UserAgent()
	if !strings.HasPrefix(ua, "reqkit/1.2.0 (") || !strings.Contains(ua, runtime.GOOS) {
		t.Errorf("unexpected user agent %q", ua)
	}
}

func TestInfo_String(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"
	GitCommit = "abc1234"
	BuildTime = "2026-01-15T10:30:00Z"

	s := Get().String()
	if !strings.HasPrefix(s, "reqkit 1.2.0-abc1234") || !strings.Contains(s, "built 2026-01-15T10:30:00Z") {
		t.Errorf("unexpected string %q", s)
	}
}
