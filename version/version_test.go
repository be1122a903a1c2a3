package version

import (
	"runtime/debug"
	"testing"
)

func TestHashOf(t *testing.T) {
	rev := debug.BuildSetting{Key: "vcs.revision", Value: "0123456789abcdef"}
	tests := []struct {
		name     string
		settings []debug.BuildSetting
		want     string
	}{
		{"clean", []debug.BuildSetting{rev}, "0123456"},
		{"dirty", []debug.BuildSetting{{Key: "vcs.modified", Value: "true"}, rev}, "0123456-dirty"},
		{"no vcs", nil, ""},
		{"short", []debug.BuildSetting{{Key: "vcs.revision", Value: "abc"}}, ""},
	}
	for _, tt := range tests {
		if got := hashOf(tt.settings); got != tt.want {
			t.Errorf("%v: hashOf = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestVersionOrHash(t *testing.T) {
	if VersionOrHash == "" {
		t.Error("VersionOrHash is empty")
	}
}
