package version

import "runtime/debug"

// You can set the version at build time using something like:
// go build -ldflags "-X github.com/freakgen/freakgen/version.Version=$(git describe --dirty)"

var Version string

var Hash = func() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return hashOf(info.Settings)
	}
	return ""
}()

func hashOf(settings []debug.BuildSetting) string {
	modified := false
	for _, setting := range settings {
		if setting.Key == "vcs.modified" && setting.Value == "true" {
			modified = true
			break
		}
	}
	for _, setting := range settings {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
			shortHash := setting.Value[:7]
			if modified {
				return shortHash + "-dirty"
			}
			return shortHash
		}
	}
	return ""
}

// VersionOrHash is what exports record as the app version. Builds without
// either report "dev".
var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	if Hash != "" {
		return Hash
	}
	return "dev"
}()
