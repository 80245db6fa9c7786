package build

import "runtime/debug"

// Set at link time with -ldflags "-X github.com/breez/feechart/build.tag=...".
var (
	tag      string
	revision string
)

// GetRevision returns the vcs revision the binary was built from.
func GetRevision() string {
	if revision != "" {
		return revision
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	for _, setting := range buildInfo.Settings {
		if setting.Key == "vcs.revision" {
			revision = setting.Value
			return revision
		}
	}

	return "unknown"
}

func GetTag() string {
	if tag != "" {
		return tag
	}

	return "none"
}

// GetVersion returns the tag and revision in the form printed by
// `feechart --version`.
func GetVersion() string {
	return GetTag() + " commit=" + GetRevision()
}
