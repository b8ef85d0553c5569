package revision

import (
	"runtime"
	"runtime/debug"
	"sync"
)

var (
	VersionString = "v0.1" // Only updated for major/minor releases.
)

// Build describes the running binary.
type Build struct {
	Module    string `json:"module"`
	Commit    string `json:"commit"`
	Dirty     bool   `json:"dirty"`
	GoVersion string `json:"go"`
}

func (b Build) String() string {
	s := VersionString + "-" + b.Commit
	if b.Dirty {
		s += "-dirty"
	}
	return s
}

// Self reads the build info embedded by the Go toolchain once.
var Self = sync.OnceValue(func() Build {
	b := Build{
		Module:    "get.pme.sh/atomix",
		Commit:    "00000000",
		GoVersion: runtime.Version(),
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	if info.Main.Path != "" {
		b.Module = info.Main.Path
	}
	if info.GoVersion != "" {
		b.GoVersion = info.GoVersion
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if len(setting.Value) >= 8 {
				b.Commit = setting.Value[:8]
			}
		case "vcs.modified":
			b.Dirty = setting.Value == "true"
		}
	}
	return b
})

func GetVersion() string { return Self().String() }
