package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

const defaultModule = "pkt.systems/codexpad"

// buildVersion is set via -ldflags "-X pkt.systems/codexpad/internal/version.buildVersion=...".
var buildVersion = ""

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Module    string `json:"module"`
	Revision  string `json:"revision,omitempty"`
	Dirty     bool   `json:"dirty,omitempty"`
	GoVersion string `json:"go_version"`
}

// String renders the one-line form used by the version command.
func (i Info) String() string {
	out := fmt.Sprintf("%s %s (%s)", i.Module, i.Version, i.GoVersion)
	if i.Revision != "" {
		out += " rev " + i.Revision
	}
	return out
}

// Current returns the best available version string.
func Current() string {
	return Read().Version
}

// Read collects version details from the linker flag and build info.
func Read() Info {
	info, _ := debug.ReadBuildInfo()
	return fromBuildInfo(info, buildVersion)
}

func fromBuildInfo(info *debug.BuildInfo, override string) Info {
	out := Info{
		Version:   "v0.0.0-unknown",
		Module:    defaultModule,
		GoVersion: runtime.Version(),
	}
	if info != nil {
		if path := strings.TrimSpace(info.Main.Path); path != "" {
			out.Module = path
		}
		vcs := readVCS(info)
		out.Revision = vcs.shortRevision()
		out.Dirty = vcs.modified
		if v := strings.TrimSpace(info.Main.Version); v != "" && v != "(devel)" {
			out.Version = v
		} else if v := vcs.pseudoVersion(); v != "" {
			out.Version = v
		}
	}
	if v := strings.TrimSpace(override); v != "" {
		out.Version = v
	}
	out.Version = strings.TrimSuffix(out.Version, "+dirty")
	return out
}

type vcsInfo struct {
	revision string
	when     time.Time
	modified bool
}

func readVCS(info *debug.BuildInfo) vcsInfo {
	var out vcsInfo
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			out.revision = setting.Value
		case "vcs.time":
			if parsed, err := time.Parse(time.RFC3339, setting.Value); err == nil {
				out.when = parsed
			}
		case "vcs.modified":
			out.modified = setting.Value == "true"
		}
	}
	return out
}

func (v vcsInfo) shortRevision() string {
	if len(v.revision) > 12 {
		return v.revision[:12]
	}
	return v.revision
}

func (v vcsInfo) pseudoVersion() string {
	if v.revision == "" || v.when.IsZero() {
		return ""
	}
	return "v0.0.0-" + v.when.UTC().Format("20060102150405") + "-" + v.shortRevision()
}
