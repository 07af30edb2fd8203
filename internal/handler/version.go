package handler

import (
	"net/http"
	"runtime"
	"runtime/debug"
	"sync"
)

// VersionInfo identifies the running build
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	GitCommit string `json:"git_commit,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
}

// GitCommit can be injected with -ldflags "-X ...handler.GitCommit=<sha>".
// Without it the VCS stamp recorded by the go toolchain is used.
var GitCommit = ""

var buildInfo = sync.OnceValue(func() VersionInfo {
	info := VersionInfo{GoVersion: runtime.Version(), GitCommit: GitCommit}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
})

// HandleVersion reports the configured service version and the build it runs
// @Summary Service version
// @Tags health
// @Produce json
// @Success 200 {object} VersionInfo
// @Router /version [get]
func HandleVersion(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info := buildInfo()
		info.Version = version
		respondJSON(w, http.StatusOK, info)
	}
}
