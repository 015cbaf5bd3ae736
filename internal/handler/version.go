package handler

import (
	"net/http"
	"runtime"
)

// VersionInfo identifies the running build
type VersionInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment,omitempty"`
	GoVersion   string `json:"go_version"`
	BuildTime   string `json:"build_time,omitempty"`
	GitCommit   string `json:"git_commit,omitempty"`
}

// Set with -ldflags "-X github.com/osse101/PulseHub_Go/internal/handler.BuildVersion=..."
var (
	BuildVersion = ""
	BuildTime    = ""
	GitCommit    = ""
)

// HandleVersion reports the build-time version when one was linked in, else the configured one
func HandleVersion(configured, environment string) http.HandlerFunc {
	info := VersionInfo{
		Version:     resolveVersion(BuildVersion, configured),
		Environment: environment,
		GoVersion:   runtime.Version(),
		BuildTime:   BuildTime,
		GitCommit:   GitCommit,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, info)
	}
}

func resolveVersion(build, configured string) string {
	switch {
	case build != "":
		return build
	case configured != "":
		return configured
	default:
		return "dev"
	}
}
